package calendar

import (
	"net/url"
	"strings"
	"time"

	"github.com/gravity-notes/gravity/internal/domain/entities"
)

const renderBaseURL = "https://calendar.google.com/calendar/render"

// GoogleCalendarURL builds a prefilled event-creation URL. When the event
// has no end date the slot defaults to one hour.
func GoogleCalendarURL(event entities.CalendarEvent) string {
	start := event.StartDate
	end := event.EndDate
	if end == "" {
		if t, ok := parseEventTime(start); ok {
			end = t.Add(time.Hour).Format("2006-01-02T15:04:05")
		} else {
			end = start
		}
	}

	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", event.Title)
	params.Set("dates", formatGoogleDate(start)+"/"+formatGoogleDate(end))
	if event.Description != "" {
		params.Set("details", event.Description)
	}
	if event.Location != "" {
		params.Set("location", event.Location)
	}
	return renderBaseURL + "?" + params.Encode()
}

// formatGoogleDate compacts an ISO date-time into the Google Calendar form:
// separators and fractional seconds dropped, UTC marker appended
func formatGoogleDate(value string) string {
	if i := strings.IndexByte(value, '.'); i >= 0 {
		value = value[:i]
	}
	value = strings.TrimSuffix(value, "Z")
	value = strings.NewReplacer("-", "", ":", "").Replace(value)
	return value + "Z"
}
