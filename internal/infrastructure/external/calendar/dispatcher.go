package calendar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gravity-notes/gravity/internal/domain/entities"
	"github.com/gravity-notes/gravity/internal/usecase/history"
)

// reminderLead is how long before the start date a reminder fires
const reminderLead = 30 * time.Minute

// Notifier schedules and cancels local notifications
type Notifier interface {
	RequestPermission(ctx context.Context) (bool, error)
	Schedule(ctx context.Context, title, body string, at time.Time) (int, error)
	Cancel(ctx context.Context, notificationID int) error
}

// URLOpener opens a URL in the user's browser
type URLOpener interface {
	Open(url string) error
}

// Dispatcher hands confirmed events to the platform: reminders become local
// notifications, calendar events open a prefilled Google Calendar form.
type Dispatcher struct {
	notifier Notifier
	opener   URLOpener
	logger   *zap.Logger
	now      func() time.Time
}

// NewDispatcher creates a dispatcher over the given notifier and opener
func NewDispatcher(notifier Notifier, opener URLOpener, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		opener:   opener,
		logger:   logger,
		now:      time.Now,
	}
}

// Dispatch schedules one confirmed event. Reminders fire 30 minutes before
// the start date, or one second from now when that moment has already
// passed. Calendar events open the Google Calendar form and always succeed:
// whether the user saves the form is out of our hands.
func (d *Dispatcher) Dispatch(ctx context.Context, event entities.CalendarEvent) (history.DispatchResult, error) {
	switch event.Kind {
	case entities.EventKindReminder:
		return d.scheduleReminder(ctx, event)
	case entities.EventKindEvent:
		url := GoogleCalendarURL(event)
		if err := d.opener.Open(url); err != nil {
			d.logger.Warn("could not open calendar url", zap.String("url", url), zap.Error(err))
		}
		return history.DispatchResult{Status: entities.EventStatusAdded}, nil
	default:
		return history.DispatchResult{}, fmt.Errorf("unknown event kind %q", event.Kind)
	}
}

// Cancel revokes a scheduled reminder's notification. Events and reminders
// without a stored notification id have nothing to cancel.
func (d *Dispatcher) Cancel(ctx context.Context, event entities.CalendarEvent) error {
	if event.Kind != entities.EventKindReminder || event.NotificationID == nil {
		return nil
	}
	return d.notifier.Cancel(ctx, *event.NotificationID)
}

func (d *Dispatcher) scheduleReminder(ctx context.Context, event entities.CalendarEvent) (history.DispatchResult, error) {
	granted, err := d.notifier.RequestPermission(ctx)
	if err != nil {
		return history.DispatchResult{}, fmt.Errorf("requesting notification permission: %w", err)
	}
	if !granted {
		return history.DispatchResult{}, fmt.Errorf("notification permission denied")
	}

	at := d.now().Add(time.Second)
	if start, ok := parseEventTime(event.StartDate); ok {
		if fireAt := start.Add(-reminderLead); fireAt.After(d.now()) {
			at = fireAt
		}
	}

	body := event.Description
	if body == "" {
		body = event.Title
	}

	id, err := d.notifier.Schedule(ctx, event.Title, body, at)
	if err != nil {
		return history.DispatchResult{}, fmt.Errorf("scheduling notification: %w", err)
	}
	d.logger.Info("reminder scheduled",
		zap.String("title", event.Title),
		zap.Time("at", at),
		zap.Int("notification_id", id),
	)
	return history.DispatchResult{Status: entities.EventStatusScheduled, NotificationID: &id}, nil
}

// parseEventTime accepts the date shapes the extraction produces: full
// RFC 3339, local date-time without zone, and minute precision
func parseEventTime(value string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
