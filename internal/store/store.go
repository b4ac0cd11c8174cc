package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/campus/internal/domain"
)

// Bucket names
var (
	bucketAuth = []byte("auth")
)

const (
	keyToken    = "token"
	openTimeout = time.Second
)

// tokenRecord is the persisted form of the session token
type tokenRecord struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"savedAt"`
}

// TokenStore implements domain.TokenStore on a BoltDB file.
// The file is opened per operation so sibling processes can share it.
type TokenStore struct {
	path   string
	logger *slog.Logger
	mu     sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewTokenStore opens (creating if needed) the token file at path.
// An empty path selects memory-only mode.
func NewTokenStore(path string, logger *slog.Logger) (*TokenStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &TokenStore{path: path, logger: logger, cache: make(map[string][]byte)}
	if path == "" {
		return s, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	err := s.withDB(func(db *bolt.DB) error {
		return db.Update(func(tx *bolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(bucketAuth)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file, or "" in memory-only mode
func (s *TokenStore) Path() string {
	return s.path
}

func (s *TokenStore) withDB(fn func(db *bolt.DB) error) error {
	db, err := bolt.Open(s.path, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return fmt.Errorf("failed to open bolt db: %w", err)
	}
	defer db.Close()
	return fn(db)
}

// Token returns the persisted token, if any
func (s *TokenStore) Token() (string, bool) {
	var rec tokenRecord
	if !s.get(bucketAuth, keyToken, &rec) || rec.Token == "" {
		return "", false
	}
	return rec.Token, true
}

// SetToken persists token
func (s *TokenStore) SetToken(token string) error {
	return s.set(bucketAuth, keyToken, tokenRecord{Token: token, SavedAt: time.Now()})
}

// ClearToken removes the persisted token
func (s *TokenStore) ClearToken() error {
	return s.delete(bucketAuth, keyToken)
}

// Refresh drops the memory cache so the next read goes to disk
func (s *TokenStore) Refresh() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()
}

// Close is a no-op; the file is not held open between operations
func (s *TokenStore) Close() error {
	return nil
}

// === Generic helpers ===

func (s *TokenStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.path == "" {
		return false
	}

	var data []byte
	err := s.withDB(func(db *bolt.DB) error {
		return db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucket)
			if b == nil {
				return nil
			}
			if v := b.Get([]byte(key)); v != nil {
				data = make([]byte, len(v))
				copy(data, v)
			}
			return nil
		})
	})
	if err != nil || data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *TokenStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if s.path != "" {
		err = s.withDB(func(db *bolt.DB) error {
			return db.Update(func(tx *bolt.Tx) error {
				b, err := tx.CreateBucketIfNotExists(bucket)
				if err != nil {
					return err
				}
				return b.Put([]byte(key), data)
			})
		})
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.cache[string(bucket)+":"+key] = data
	s.mu.Unlock()
	return nil
}

func (s *TokenStore) delete(bucket []byte, key string) error {
	s.mu.Lock()
	delete(s.cache, string(bucket)+":"+key)
	s.mu.Unlock()

	if s.path == "" {
		return nil
	}

	return s.withDB(func(db *bolt.DB) error {
		return db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucket)
			if b == nil {
				return nil
			}
			return b.Delete([]byte(key))
		})
	})
}

var _ domain.TokenStore = (*TokenStore)(nil)

// watchNoop serves memory-only stores: no other process can write them
func watchNoop(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}
