package handlers

import (
	"time"

	"github.com/serroba/linkstats/internal/shortener"
)

// CreateShortURLRequest is the request for creating a short URL.
type CreateShortURLRequest struct {
	Body struct {
		URL       string `doc:"The URL to shorten, http or https"          example:"https://example.com/very/long/path" json:"url"`
		Validity  *int   `doc:"Minutes until the short URL expires"        example:"30"                                 json:"validity,omitempty"`
		Shortcode string `doc:"Requested short code, 3-20 letters/digits" example:"promo2025"                          json:"shortcode,omitempty"`
	}
}

// CreateShortURLResponse is the response for a successfully created short URL.
type CreateShortURLResponse struct {
	Location string `doc:"The short URL" header:"Location"`
	Body     struct {
		ShortLink string    `doc:"The full short URL"          example:"http://localhost:8888/abc123" json:"shortLink"`
		Expiry    time.Time `doc:"When the short URL expires" json:"expiry"`
	}
}

// CodeRequest addresses a single short URL.
type CodeRequest struct {
	Code string `doc:"The short code" example:"abc123" path:"code"`
}

// RedirectResponse sends the client to the original URL.
type RedirectResponse struct {
	Status   int
	Location string `doc:"The original URL" header:"Location"`
}

// Location is where a click came from.
type Location struct {
	Country string `json:"country,omitempty"`
	Region  string `json:"region,omitempty"`
	City    string `json:"city,omitempty"`
}

// Click is one recorded redirect. The source address is not exposed.
type Click struct {
	Timestamp time.Time `json:"timestamp"`
	Referrer  string    `json:"referrer,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	Location  *Location `json:"location,omitempty"`
}

// Entry is the public view of a short URL and its click history.
type Entry struct {
	Shortcode   string    `example:"abc123"              json:"shortcode"`
	OriginalURL string    `example:"https://example.com" json:"originalUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
	ClickCount  int       `json:"clickCount"`
	Clicks      []Click   `json:"clicks"`
}

// StatsResponse returns one entry.
type StatsResponse struct {
	Body Entry
}

// ListResponse returns every stored entry.
type ListResponse struct {
	Body []Entry
}

func toEntry(e *shortener.Entry) Entry {
	clicks := make([]Click, len(e.Clicks))

	for i, c := range e.Clicks {
		clicks[i] = Click{
			Timestamp: c.Timestamp,
			Referrer:  c.Referrer,
			UserAgent: c.UserAgent,
		}

		if c.Location != nil {
			clicks[i].Location = &Location{
				Country: c.Location.Country,
				Region:  c.Location.Region,
				City:    c.Location.City,
			}
		}
	}

	return Entry{
		Shortcode:   string(e.Code),
		OriginalURL: e.Target,
		CreatedAt:   e.CreatedAt,
		ExpiresAt:   e.ExpiresAt,
		ClickCount:  e.ClickCount(),
		Clicks:      clicks,
	}
}
