package store

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/getditto-shared/ditto-cot/schema"
)

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// KeyPrefix namespaces this store's keys. Defaults to "cot".
	KeyPrefix string

	// TLS configuration for secure connections
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations
	WriteTimeout time.Duration
}

// Redis implements Store on a Redis backend using go-redis/v9.
//
// Each document is one hash at "<prefix>:<collection>:<id>", with every
// document field a hash field holding its JSON-encoded value. Upsert
// therefore writes exactly the changed fields (HSET) and deletes the
// dropped ones (HDEL); an unchanged document touches nothing.
type Redis struct {
	client *redis.Client
	prefix string
	query  *Query
}

// NewRedis creates a Redis-backed store with the given options and
// verifies connectivity before returning.
func NewRedis(opts RedisOptions) (*Redis, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "cot"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 5 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Redis{client: client, prefix: opts.KeyPrefix, query: NewQuery()}, nil
}

func (s *Redis) key(collection, id string) string {
	return s.prefix + ":" + collection + ":" + id
}

// Upsert implements Store. Only the diffed fields are sent to Redis.
func (s *Redis) Upsert(ctx context.Context, collection string, doc schema.Document) error {
	id := doc.ID()
	if id == "" {
		return ErrMissingID
	}
	next, err := normalize(doc)
	if err != nil {
		return err
	}

	key := s.key(collection, id)
	prev, err := s.read(ctx, key)
	if err != nil {
		return err
	}

	changed, removed, err := Changed(prev, next)
	if err != nil {
		return err
	}

	if len(changed) > 0 {
		fields := make([]any, 0, len(changed)*2)
		for k, v := range changed {
			data, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("failed to marshal field %q: %w", k, err)
			}
			fields = append(fields, k, data)
		}
		if err := s.client.HSet(ctx, key, fields...).Err(); err != nil {
			return fmt.Errorf("failed to write document %s: %w", id, err)
		}
	}
	if len(removed) > 0 {
		if err := s.client.HDel(ctx, key, removed...).Err(); err != nil {
			return fmt.Errorf("failed to trim document %s: %w", id, err)
		}
	}
	return nil
}

// Get implements Store.
func (s *Redis) Get(ctx context.Context, collection, id string) (schema.Document, error) {
	doc, err := s.read(ctx, s.key(collection, id))
	if err != nil {
		return nil, err
	}
	if len(doc) == 0 {
		return nil, ErrNotFound
	}
	return doc, nil
}

// read fetches a document hash; an absent key yields an empty document.
func (s *Redis) read(ctx context.Context, key string) (schema.Document, error) {
	raw, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read document at %s: %w", key, err)
	}
	doc := make(schema.Document, len(raw))
	for k, v := range raw {
		dec := json.NewDecoder(bytes.NewReader([]byte(v)))
		dec.UseNumber()
		var val any
		if err := dec.Decode(&val); err != nil {
			return nil, fmt.Errorf("corrupt field %q at %s: %w", k, key, err)
		}
		doc[k] = val
	}
	return doc, nil
}

// Remove implements Store.
func (s *Redis) Remove(ctx context.Context, collection, id string) error {
	if err := s.client.Del(ctx, s.key(collection, id)).Err(); err != nil {
		return fmt.Errorf("failed to remove document %s: %w", id, err)
	}
	return nil
}

// List implements Store. Keys are walked with SCAN, so listing a large
// collection does not block the server.
func (s *Redis) List(ctx context.Context, collection string) ([]schema.Document, error) {
	pattern := s.key(collection, "*")
	var out []schema.Document

	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		// A document id may itself contain ':'; only the fixed prefix
		// is stripped, never the id.
		if !strings.HasPrefix(key, s.prefix+":"+collection+":") {
			continue
		}
		doc, err := s.read(ctx, key)
		if err != nil {
			return nil, err
		}
		if len(doc) > 0 {
			out = append(out, doc)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan collection %s: %w", collection, err)
	}
	return out, nil
}

// Find implements Store.
func (s *Redis) Find(ctx context.Context, collection, expr string) ([]schema.Document, error) {
	docs, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	return s.query.Filter(docs, expr)
}

// Close implements Store.
func (s *Redis) Close() error {
	return s.client.Close()
}
