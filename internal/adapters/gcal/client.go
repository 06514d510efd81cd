package gcal

import (
	"context"
	"fmt"
	"time"

	"github.com/taskpilot/taskpilot/internal/ports"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// primaryCalendar is the user's default calendar; events are always written
// there rather than to a service-owned calendar.
const primaryCalendar = "primary"

// Client talks to the Google Calendar API with per-call delegated credentials.
// A fresh API service is built around the supplied token source on every call
// because the source, not the client, is user-scoped.
type Client struct{}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) InsertEvent(ctx context.Context, src oauth2.TokenSource, event ports.CalendarEvent) (string, error) {
	svc, err := calendar.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return "", fmt.Errorf("build calendar service: %w", err)
	}

	created, err := svc.Events.Insert(primaryCalendar, &calendar.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start: &calendar.EventDateTime{
			DateTime: event.Start.Format(time.RFC3339),
			TimeZone: "UTC",
		},
		End: &calendar.EventDateTime{
			DateTime: event.End.Format(time.RFC3339),
			TimeZone: "UTC",
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert calendar event: %w", err)
	}
	return created.Id, nil
}

func (c *Client) ListRecentEvents(ctx context.Context, src oauth2.TokenSource, since, until time.Time, max int64) ([]ports.CalendarEvent, error) {
	svc, err := calendar.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return nil, fmt.Errorf("build calendar service: %w", err)
	}

	listed, err := svc.Events.List(primaryCalendar).
		TimeMin(since.Format(time.RFC3339)).
		TimeMax(until.Format(time.RFC3339)).
		MaxResults(max).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}

	events := make([]ports.CalendarEvent, 0, len(listed.Items))
	for _, item := range listed.Items {
		events = append(events, ports.CalendarEvent{
			EventID:     item.Id,
			Summary:     item.Summary,
			Description: item.Description,
			Start:       parseEventTime(item.Start),
			End:         parseEventTime(item.End),
		})
	}
	return events, nil
}

// parseEventTime reads the timed variant of an event boundary. All-day events
// carry only a date and come back as the zero time, which callers skip.
func parseEventTime(edt *calendar.EventDateTime) time.Time {
	if edt == nil || edt.DateTime == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, edt.DateTime)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
