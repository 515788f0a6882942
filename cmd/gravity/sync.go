package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravity-notes/gravity/internal/domain/entities"
	"github.com/gravity-notes/gravity/internal/usecase/history"
)

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Refresh the local history from the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			token, err := a.token()
			if err != nil {
				return err
			}

			result, err := a.sync.Load(cmd.Context(), token)
			if err != nil {
				return err
			}

			switch result.Source {
			case history.SourceFresh:
				fmt.Printf("Synced %d recordings from the server\n", len(result.Records))
			case history.SourceStale:
				fmt.Printf("Server unreachable, showing %d cached recordings\n", len(result.Records))
			}
			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "history [search terms...]",
		Short: "List analyzed recordings, optionally filtered by search terms",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			var records []entities.AnalysisRecord
			if offline {
				if records, err = a.sync.Records(); err != nil {
					return err
				}
			} else {
				token, err := a.token()
				if err != nil {
					return err
				}
				result, err := a.sync.Load(cmd.Context(), token)
				if err != nil {
					return err
				}
				if result.Source == history.SourceStale {
					fmt.Println("(server unreachable, showing cached history)")
				}
				records = result.Records
			}

			if len(records) == 0 {
				fmt.Println("No recordings yet. Record one with: gravity analyze <audio-file>")
				return nil
			}

			// every term must match title, transcript or keywords
			if query := strings.Join(args, " "); query != "" {
				records = history.FilterRecords(records, query)
				if len(records) == 0 {
					fmt.Printf("No recordings match %q\n", query)
					return nil
				}
			}

			for _, record := range records {
				printRecord(record)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "use the local cache without contacting the server")
	return cmd
}

func printRecord(record entities.AnalysisRecord) {
	fmt.Printf("%s  %s\n", record.ID, record.ExecutiveSummary.Title)
	if record.Date != "" {
		fmt.Printf("    date: %s\n", record.Date)
	}
	if record.Metadata.Category != "" {
		fmt.Printf("    category: %s  sentiment: %s\n", record.Metadata.Category, record.Metadata.Sentiment)
	}
	if record.ExecutiveSummary.Summary != "" {
		fmt.Printf("    %s\n", record.ExecutiveSummary.Summary)
	}
	for _, event := range record.CalendarEvents {
		status := string(event.Status)
		if status == "" {
			status = string(entities.EventStatusPending)
		}
		fmt.Printf("    [%s] %s · %s (%s)\n", status, event.Title, event.StartDate, event.ID)
	}
}
