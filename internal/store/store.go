// Package store is the persistence collaborator for the Bravo core: five
// logical tables of JSON payloads addressed by an application-chosen key.
// All filtering happens in-memory in the callers after a full-table fetch.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Table identifies one of the five logical record tables. The names are the
// ones already used by existing deployments.
type Table string

const (
	TableUsers    Table = "bravo_users"    // keyed by email
	TableJobs     Table = "bravo_jobs"     // keyed by id
	TableReviews  Table = "bravo_reviews"  // keyed by id
	TableChats    Table = "bravo_chats"    // keyed by id
	TableRequests Table = "bravo_requests" // keyed by id
)

// Tables lists every known table, in bootstrap order.
var Tables = []Table{TableUsers, TableJobs, TableReviews, TableChats, TableRequests}

// Valid reports whether t is one of the known tables.
func (t Table) Valid() bool {
	for _, known := range Tables {
		if t == known {
			return true
		}
	}
	return false
}

var (
	// ErrNotFound means a key did not resolve to a record.
	ErrNotFound = errors.New("record not found")

	// ErrUnavailable means the backing store could not complete the call in
	// time. Callers must not treat it as "nothing exists": the operation is
	// retryable.
	ErrUnavailable = errors.New("store unavailable")
)

// Record is one row of a table: its key plus the raw JSON payload.
type Record struct {
	Key     string
	Payload []byte
}

// Store is the key-addressed record store. Upsert is idempotent at the
// record level so retries are safe.
type Store interface {
	GetAll(ctx context.Context, table Table) ([]Record, error)
	Upsert(ctx context.Context, table Table, key string, payload any) error
}

// DecodeAll unmarshals every record payload into a slice of T. A single
// corrupt row fails the whole decode; partial data is worse than an error.
func DecodeAll[T any](recs []Record) ([]T, error) {
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		var v T
		if err := json.Unmarshal(r.Payload, &v); err != nil {
			return nil, fmt.Errorf("decode record %s: %w", r.Key, err)
		}
		out = append(out, v)
	}
	return out, nil
}
