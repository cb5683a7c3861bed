package shortener

import "time"

// Code represents a short URL code.
type Code string

// Location is the coarse geolocation resolved for a click's source address.
type Location struct {
	Country string
	Region  string
	City    string
}

// ClickEvent is one recorded redirect. Events are never modified once appended.
type ClickEvent struct {
	Timestamp     time.Time
	Referrer      string
	UserAgent     string
	SourceAddress string
	Location      *Location // nil when the address could not be located
}

// Entry is the stored record for one short code.
type Entry struct {
	Code      Code
	Target    string
	CreatedAt time.Time
	ExpiresAt time.Time
	Clicks    []ClickEvent
}

// IsLive reports whether the entry may still be resolved at now. The expiry
// instant itself is still live. Resolve, Stats and Sweep all decide expiry
// through this predicate.
func (e *Entry) IsLive(now time.Time) bool {
	return !now.After(e.ExpiresAt)
}

// ClickCount returns the number of recorded clicks.
func (e *Entry) ClickCount() int {
	return len(e.Clicks)
}

// snapshot returns a deep copy that shares no memory with the stored entry.
func (e *Entry) snapshot() Entry {
	clicks := make([]ClickEvent, len(e.Clicks))

	for i, click := range e.Clicks {
		if click.Location != nil {
			loc := *click.Location
			click.Location = &loc
		}

		clicks[i] = click
	}

	return Entry{
		Code:      e.Code,
		Target:    e.Target,
		CreatedAt: e.CreatedAt,
		ExpiresAt: e.ExpiresAt,
		Clicks:    clicks,
	}
}
