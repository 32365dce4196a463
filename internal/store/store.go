// Package store persists jump history and bookmarks in a bbolt file, one
// file per corpus server.
package store

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
)

// MaxJumpHistory caps the number of remembered jumps
const MaxJumpHistory = 50

var (
	bucketHistory   = []byte("history")
	bucketBookmarks = []byte("bookmarks")

	historyKey = []byte("list")
)

// HistoryStore implements domain.HistoryStore. Reads go through an
// in-memory copy of each bucket that is filled on first access and kept
// in step with every write. Without a database the copy is all there is.
type HistoryStore struct {
	db     *bolt.DB
	logger *slog.Logger

	mu     sync.RWMutex
	loaded map[string]bool
	mem    map[string]map[string][]byte
}

// NewHistoryStore opens the per-server database under baseDir. An empty
// baseDir keeps everything in memory.
func NewHistoryStore(baseDir, serverURL string) (*HistoryStore, error) {
	s := &HistoryStore{
		logger: slog.Default(),
		loaded: make(map[string]bool),
		mem:    make(map[string]map[string][]byte),
	}
	if baseDir == "" {
		return s, nil
	}

	dir := baseDir
	if serverURL != "" {
		dir = filepath.Join(baseDir, serverDir(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := bolt.Open(filepath.Join(dir, "corpusview.db"), 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketHistory, bucketBookmarks} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

// serverDir names the directory for one server. Item identifiers are only
// unique within a corpus, so servers never share a file.
func serverDir(serverURL string) string {
	sum := sha256.Sum256([]byte(strings.TrimRight(strings.ToLower(serverURL), "/")))
	return hex.EncodeToString(sum[:6])
}

func (s *HistoryStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// bucket returns the in-memory copy of name, reading it from disk the first
// time. A failed read is not cached, so the next call tries again. Callers
// must not hold s.mu.
func (s *HistoryStore) bucket(name []byte) (map[string][]byte, error) {
	s.mu.RLock()
	if s.loaded[string(name)] || s.db == nil {
		m := s.mem[string(name)]
		s.mu.RUnlock()
		return m, nil
	}
	s.mu.RUnlock()

	fresh := make(map[string][]byte)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(name)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			fresh[string(k)] = append([]byte(nil), v...)
			return nil
		})
	})
	if err != nil {
		s.logger.Error("history store read failed", "bucket", string(name), "error", err)
		return nil, fmt.Errorf("read bucket %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded[string(name)] {
		s.mem[string(name)] = fresh
		s.loaded[string(name)] = true
	}
	return s.mem[string(name)], nil
}

func (s *HistoryStore) read(name, key []byte, dest any) bool {
	m, err := s.bucket(name)
	if err != nil {
		return false
	}
	s.mu.RLock()
	data, ok := m[string(key)]
	s.mu.RUnlock()
	return ok && json.Unmarshal(data, dest) == nil
}

// write stores value under key, or removes key when value is nil
func (s *HistoryStore) write(name, key []byte, value any) error {
	var data []byte
	if value != nil {
		var err error
		if data, err = json.Marshal(value); err != nil {
			return err
		}
	}

	if _, err := s.bucket(name); err != nil {
		return err
	}
	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket(name)
			if data == nil {
				return b.Delete(key)
			}
			return b.Put(key, data)
		})
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.mem[string(name)]
	if m == nil {
		m = make(map[string][]byte)
		s.mem[string(name)] = m
	}
	if data == nil {
		delete(m, string(key))
	} else {
		m[string(key)] = data
	}
	return nil
}

// values returns every value in name ordered by key
func (s *HistoryStore) values(name []byte) [][]byte {
	m, err := s.bucket(name)
	if err != nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}

// bookmarkKey is big-endian so byte order matches numeric order
func bookmarkKey(id int64) []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(id))
}

// RecordJump prepends rec, dropping any older record for the same item and
// anything past MaxJumpHistory
func (s *HistoryStore) RecordJump(rec domain.JumpRecord) error {
	if rec.JumpedAt.IsZero() {
		rec.JumpedAt = time.Now()
	}

	history := s.RecentJumps(0)
	updated := make([]domain.JumpRecord, 0, min(len(history)+1, MaxJumpHistory))
	updated = append(updated, rec)
	for _, h := range history {
		if len(updated) == MaxJumpHistory {
			break
		}
		if h.ID != rec.ID {
			updated = append(updated, h)
		}
	}

	return s.write(bucketHistory, historyKey, updated)
}

// RecentJumps returns up to limit records, newest first. limit <= 0 returns all.
func (s *HistoryStore) RecentJumps(limit int) []domain.JumpRecord {
	var history []domain.JumpRecord
	if !s.read(bucketHistory, historyKey, &history) {
		return nil
	}
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	return history
}

func (s *HistoryStore) AddBookmark(b domain.Bookmark) error {
	if b.ID <= 0 {
		return domain.ErrInvalidIdentifier
	}
	if b.AddedAt.IsZero() {
		b.AddedAt = time.Now()
	}
	return s.write(bucketBookmarks, bookmarkKey(b.ID), b)
}

func (s *HistoryStore) RemoveBookmark(id int64) error {
	return s.write(bucketBookmarks, bookmarkKey(id), nil)
}

func (s *HistoryStore) IsBookmarked(id int64) bool {
	var b domain.Bookmark
	return s.read(bucketBookmarks, bookmarkKey(id), &b)
}

// Bookmarks returns every bookmark ordered by item identifier
func (s *HistoryStore) Bookmarks() []domain.Bookmark {
	var bookmarks []domain.Bookmark
	for _, data := range s.values(bucketBookmarks) {
		var b domain.Bookmark
		if json.Unmarshal(data, &b) == nil {
			bookmarks = append(bookmarks, b)
		}
	}
	return bookmarks
}

var _ domain.HistoryStore = (*HistoryStore)(nil)
