package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores each table as (key TEXT PRIMARY KEY, payload JSONB). The
// payload column carries the whole record, so the schema never has to chase
// application fields.
type Postgres struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewPostgres connects, pings and bootstraps the payload tables.
func NewPostgres(ctx context.Context, dsn string, timeout time.Duration) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	log.Println("Connected to Postgres successfully")

	p := &Postgres{pool: pool, timeout: timeout}
	if err := p.ensureTables(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// ensureTables creates the five payload tables if missing.
func (p *Postgres) ensureTables(ctx context.Context) error {
	for _, t := range Tables {
		_, err := p.pool.Exec(ctx, fmt.Sprintf(`
            CREATE TABLE IF NOT EXISTS %s (
                key TEXT PRIMARY KEY,
                payload JSONB NOT NULL,
                updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
            )`, t))
		if err != nil {
			return fmt.Errorf("ensure table %s: %w", t, err)
		}
	}
	return nil
}

func (p *Postgres) GetAll(ctx context.Context, table Table) ([]Record, error) {
	if !table.Valid() {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	rows, err := p.pool.Query(ctx, fmt.Sprintf(`SELECT key, payload FROM %s`, table))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, table, err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Key, &r.Payload); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", ErrUnavailable, table, err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, table, err)
	}
	return recs, nil
}

func (p *Postgres) Upsert(ctx context.Context, table Table, key string, payload any) error {
	if !table.Valid() {
		return fmt.Errorf("unknown table %q", table)
	}
	if key == "" {
		return fmt.Errorf("missing key for table %s", table)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", table, key, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	_, err = p.pool.Exec(ctx, fmt.Sprintf(`
        INSERT INTO %s (key, payload, updated_at) VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`, table),
		key, body)
	if err != nil {
		return fmt.Errorf("%w: write %s/%s: %v", ErrUnavailable, table, key, err)
	}
	return nil
}

// Close releases the pool.
func (p *Postgres) Close() { p.pool.Close() }
