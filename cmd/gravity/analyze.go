package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gravity-notes/gravity/internal/domain/entities"
)

func analyzeCmd() *cobra.Command {
	var notes []string
	var photos []string

	cmd := &cobra.Command{
		Use:   "analyze <audio-file>",
		Short: "Upload a recording for transcription and analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			token, err := a.token()
			if err != nil {
				return err
			}

			audioPath := args[0]
			audio, err := os.Open(audioPath)
			if err != nil {
				return fmt.Errorf("opening audio: %w", err)
			}
			defer audio.Close()

			var attachments []entities.Attachment
			for _, note := range notes {
				attachments = append(attachments, entities.NewAttachment(entities.AttachmentKindNote, note))
			}
			for _, photoPath := range photos {
				data, err := os.ReadFile(photoPath)
				if err != nil {
					return fmt.Errorf("reading photo %s: %w", photoPath, err)
				}
				attachments = append(attachments, entities.NewAttachment(
					entities.AttachmentKindPhoto, base64.StdEncoding.EncodeToString(data)))
			}

			fmt.Println("Uploading and analyzing... this can take a minute")
			result, err := a.gateway.UploadAndAnalyze(cmd.Context(), token, filepath.Base(audioPath), audio, attachments)
			if err != nil {
				return err
			}

			fmt.Printf("Analyzed: %s\n", result.Title)
			if result.Summary != "" {
				fmt.Printf("  %s\n", result.Summary)
			}
			for _, action := range result.Actions {
				fmt.Printf("  - %s", action.Description)
				if action.DueDate != "" {
					fmt.Printf(" (before %s)", action.DueDate)
				}
				fmt.Println()
			}

			// Fold the result into the cache: attachments embedded, audio
			// copied next to it so history works offline
			info, err := os.Stat(audioPath)
			if err != nil {
				return fmt.Errorf("reading audio size: %w", err)
			}
			localCopy, err := os.Open(audioPath)
			if err != nil {
				return fmt.Errorf("reopening audio: %w", err)
			}
			defer localCopy.Close()

			if _, err := a.sync.Ingest(*result, attachments, localCopy, info.Size()); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&notes, "note", nil, "attach a text note (repeatable)")
	cmd.Flags().StringArrayVar(&photos, "photo", nil, "attach a photo file (repeatable)")
	return cmd
}
