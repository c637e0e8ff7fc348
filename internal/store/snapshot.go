package store

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisSnapshot keeps table snapshots in a Redis hash per table, so a
// restarted instance can still serve stale reads while the primary store is
// down. All saves are best-effort.
type RedisSnapshot struct {
	rdb *redis.Client
}

// NewRedisSnapshot wraps an existing Redis client.
func NewRedisSnapshot(rdb *redis.Client) *RedisSnapshot {
	return &RedisSnapshot{rdb: rdb}
}

func snapshotKey(table Table) string { return "bravo:snapshot:" + string(table) }

func (s *RedisSnapshot) Save(ctx context.Context, table Table, recs []Record) {
	key := snapshotKey(table)
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key)
	if len(recs) > 0 {
		fields := make([]any, 0, len(recs)*2)
		for _, r := range recs {
			fields = append(fields, r.Key, string(r.Payload))
		}
		pipe.HSet(ctx, key, fields...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("store: snapshot save %s failed: %v", table, err)
	}
}

func (s *RedisSnapshot) Load(ctx context.Context, table Table) ([]Record, error) {
	entries, err := s.rdb.HGetAll(ctx, snapshotKey(table)).Result()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	recs := make([]Record, 0, len(entries))
	for k, v := range entries {
		recs = append(recs, Record{Key: k, Payload: []byte(v)})
	}
	return recs, nil
}

// NewRedis builds a Redis client from an address, matching how the rest of
// the stack dials Redis.
func NewRedis(addr, password string) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	log.Printf("Redis client created (addr: %s)", addr)
	return rdb
}

// MemorySnapshot is the in-process Snapshotter used in tests and when no
// Redis address is configured.
type MemorySnapshot struct {
	mu     sync.RWMutex
	tables map[Table][]Record
}

func NewMemorySnapshot() *MemorySnapshot {
	return &MemorySnapshot{tables: make(map[Table][]Record)}
}

func (s *MemorySnapshot) Save(_ context.Context, table Table, recs []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]Record, len(recs))
	copy(copied, recs)
	s.tables[table] = copied
}

func (s *MemorySnapshot) Load(_ context.Context, table Table) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tables[table], nil
}
