package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gravity-notes/gravity/internal/usecase/history"
)

func eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage extracted reminders and calendar events",
	}

	cmd.AddCommand(eventsListCmd())
	cmd.AddCommand(eventsConfirmCmd())
	cmd.AddCommand(eventsSkipCmd())
	cmd.AddCommand(eventsEditCmd())
	cmd.AddCommand(eventsDeleteCmd())
	return cmd
}

// eventRefFlags binds the flag-based fallback identity for an event
func eventRefFlags(cmd *cobra.Command, ref *history.EventRef) {
	cmd.Flags().StringVar(&ref.RecordID, "record", "", "restrict the match to one recording")
	cmd.Flags().StringVar(&ref.Title, "title", "", "match by event title (with --start)")
	cmd.Flags().StringVar(&ref.StartDate, "start", "", "match by start date (with --title)")
}

// resolveRef merges the positional event id with the flag fallback
func resolveRef(args []string, ref history.EventRef) (history.EventRef, error) {
	if len(args) > 0 {
		ref.EventID = args[0]
	}
	if ref.EventID == "" && (ref.Title == "" || ref.StartDate == "") {
		return ref, fmt.Errorf("specify an event id, or both --title and --start")
	}
	return ref, nil
}

func eventsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show pending events awaiting confirmation",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			pending, err := a.sync.Pending()
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Println("Nothing pending")
				return nil
			}

			for _, p := range pending {
				fmt.Printf("%s  [%s] %s · %s  (from %s)\n",
					p.Event.ID, p.Event.Kind, p.Event.Title, p.Event.StartDate, p.RecordID)
			}
			return nil
		},
	}
}

func eventsConfirmCmd() *cobra.Command {
	var ref history.EventRef

	cmd := &cobra.Command{
		Use:   "confirm [event-id]",
		Short: "Schedule a reminder or add an event to the calendar",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			r, err := resolveRef(args, ref)
			if err != nil {
				return err
			}

			if _, err := a.sync.Confirm(cmd.Context(), r); err != nil {
				return err
			}
			fmt.Println("Confirmed")
			return nil
		},
	}

	eventRefFlags(cmd, &ref)
	return cmd
}

func eventsSkipCmd() *cobra.Command {
	var ref history.EventRef

	cmd := &cobra.Command{
		Use:   "skip [event-id]",
		Short: "Hide an event for this session without scheduling it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			r, err := resolveRef(args, ref)
			if err != nil {
				return err
			}

			a.sync.Skip(r)
			fmt.Println("Skipped")
			return nil
		},
	}

	eventRefFlags(cmd, &ref)
	return cmd
}

func eventsEditCmd() *cobra.Command {
	var ref history.EventRef
	var newTitle, newStart string

	cmd := &cobra.Command{
		Use:   "edit [event-id]",
		Short: "Change an event's title or start date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if newTitle == "" && newStart == "" {
				return fmt.Errorf("nothing to change: pass --new-title and/or --new-start")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			r, err := resolveRef(args, ref)
			if err != nil {
				return err
			}

			if _, err := a.sync.Edit(cmd.Context(), r, history.EventChanges{
				Title:     newTitle,
				StartDate: newStart,
			}); err != nil {
				return err
			}
			fmt.Println("Updated; confirm it again to reschedule")
			return nil
		},
	}

	eventRefFlags(cmd, &ref)
	cmd.Flags().StringVar(&newTitle, "new-title", "", "replacement title")
	cmd.Flags().StringVar(&newStart, "new-start", "", "replacement start date (ISO format)")
	return cmd
}

func eventsDeleteCmd() *cobra.Command {
	var ref history.EventRef

	cmd := &cobra.Command{
		Use:   "delete [event-id]",
		Short: "Remove an event and cancel its notification",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			r, err := resolveRef(args, ref)
			if err != nil {
				return err
			}

			if _, err := a.sync.Delete(cmd.Context(), r); err != nil {
				return err
			}
			fmt.Println("Deleted")
			return nil
		},
	}

	eventRefFlags(cmd, &ref)
	return cmd
}
