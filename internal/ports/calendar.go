package ports

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// CalendarEvent is the subset of a provider calendar event this service reads
// and writes.
type CalendarEvent struct {
	EventID     string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// CalendarClient performs delegated calls against the user's primary calendar.
// Every call authenticates through the supplied token source, which the token
// manager builds from the user's stored pair; the client never sees raw tokens.
type CalendarClient interface {
	InsertEvent(ctx context.Context, src oauth2.TokenSource, event CalendarEvent) (string, error)
	ListRecentEvents(ctx context.Context, src oauth2.TokenSource, since, until time.Time, max int64) ([]CalendarEvent, error)
}
