package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/linkstats/internal/analytics"
)

const schema = `
CREATE TABLE IF NOT EXISTS url_created_events (
	id           UUID PRIMARY KEY,
	code         TEXT NOT NULL,
	original_url TEXT NOT NULL,
	custom       BOOLEAN NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	expires_at   TIMESTAMPTZ NOT NULL,
	client_ip    TEXT,
	user_agent   TEXT
);

CREATE TABLE IF NOT EXISTS url_accessed_events (
	id          UUID PRIMARY KEY,
	code        TEXT NOT NULL,
	accessed_at TIMESTAMPTZ NOT NULL,
	client_ip   TEXT,
	user_agent  TEXT,
	referrer    TEXT
);

CREATE INDEX IF NOT EXISTS url_accessed_events_code_idx ON url_accessed_events (code, accessed_at);
`

// Postgres appends analytics events to PostgreSQL tables.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a PostgreSQL-backed analytics store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the event tables if they do not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate analytics schema: %w", err)
	}

	return nil
}

func (p *Postgres) SaveURLCreated(ctx context.Context, event *analytics.URLCreatedEvent) error {
	query := `
		INSERT INTO url_created_events (id, code, original_url, custom, created_at, expires_at, client_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := p.pool.Exec(ctx, query,
		uuid.New(),
		event.Code,
		event.OriginalURL,
		event.Custom,
		event.CreatedAt,
		event.ExpiresAt,
		nullable(event.ClientIP),
		nullable(event.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("insert url created event %s: %w", event.Code, err)
	}

	return nil
}

func (p *Postgres) SaveURLAccessed(ctx context.Context, event *analytics.URLAccessedEvent) error {
	query := `
		INSERT INTO url_accessed_events (id, code, accessed_at, client_ip, user_agent, referrer)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := p.pool.Exec(ctx, query,
		uuid.New(),
		event.Code,
		event.AccessedAt,
		nullable(event.ClientIP),
		nullable(event.UserAgent),
		nullable(event.Referrer),
	)
	if err != nil {
		return fmt.Errorf("insert url accessed event %s: %w", event.Code, err)
	}

	return nil
}

// Shutdown closes the connection pool.
func (p *Postgres) Shutdown() error {
	p.pool.Close()

	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
