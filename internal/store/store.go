// Package store implements the durable on-device score store.
//
// The store mirrors the browser-local persistence model: one key holds the
// serialized score list, one key holds the last-used player email. All
// operations are synchronous, and storage-layer failures degrade to
// "log and continue" because the game must stay playable without
// durability.
package store

import (
	"encoding/json/v2"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/sheikhAI44/flapppybirdd/internal/domain"
)

// Database keys. A single key holds the whole score list, matching the
// single-storage-key layout the store contract requires.
const (
	keyScores    = "scores:all"
	keyLastEmail = "player:last_email"
)

// Store is the local score store. An in-memory cache backs all reads; every
// mutation re-sorts, truncates to the retention cap, and persists
// synchronously.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	mu        sync.Mutex
	scores    []domain.ScoreRecord // always sorted in leaderboard order
	lastEmail string
}

// New opens the score database at path and loads any persisted state.
// Corrupt or missing data resets to empty rather than failing; the error
// return covers only an unopenable database.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil      // Disable Badger's internal logging
	opts.SyncWrites = true // Score writes must survive a crash

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Store{db: db, logger: logger}
	s.load()
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// load reads the persisted score list and last email into the cache.
// Parse failures reset the store to empty.
func (s *Store) load() {
	err := s.db.View(func(txn *badger.Txn) error {
		if item, err := txn.Get([]byte(keyScores)); err == nil {
			_ = item.Value(func(val []byte) error {
				if uerr := json.Unmarshal(val, &s.scores); uerr != nil {
					s.logger.Warn("local scores corrupt, resetting", "error", uerr)
					s.scores = nil
				}
				return nil
			})
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if item, err := txn.Get([]byte(keyLastEmail)); err == nil {
			_ = item.Value(func(val []byte) error {
				s.lastEmail = string(val)
				return nil
			})
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("failed to read local scores, starting empty", "error", err)
		s.scores = nil
		return
	}

	domain.SortScores(s.scores)
	if len(s.scores) > 0 {
		s.logger.Info("loaded local scores", "count", len(s.scores))
	}
}

// persistScores writes the cached score list. Failures are logged and
// swallowed; the in-memory copy stays authoritative for the session.
func (s *Store) persistScores() {
	data, err := json.Marshal(s.scores)
	if err != nil {
		s.logger.Error("failed to marshal local scores", "error", err)
		return
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyScores), data)
	})
	if err != nil {
		s.logger.Error("failed to persist local scores", "error", err)
	}
}

// Save appends a record, re-sorts, evicts the lowest scores beyond the
// retention cap, and persists. Eviction considers score only, never
// recency.
func (s *Store) Save(rec domain.ScoreRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scores = append(s.scores, rec)
	domain.SortScores(s.scores)
	if len(s.scores) > domain.MaxLocalScores {
		s.scores = s.scores[:domain.MaxLocalScores]
	}
	s.persistScores()
}

// All returns a copy of every stored record, in leaderboard order.
func (s *Store) All() []domain.ScoreRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.scores)
}

// Unsynced returns copies of the records not yet confirmed by the remote
// store, in leaderboard order.
func (s *Store) Unsynced() []domain.ScoreRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.ScoreRecord
	for _, rec := range s.scores {
		if !rec.Synced {
			out = append(out, rec)
		}
	}
	return out
}

// MarkSynced flags the first unsynced record matching (email, score) as
// synced and persists. The pair is an idempotency key, not a unique one: a
// player may legitimately submit the same score twice, so only the first
// unsynced match is taken. Reports whether a record was updated.
func (s *Store) MarkSynced(email string, score int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.scores {
		if s.scores[i].Email == email && s.scores[i].Score == score && !s.scores[i].Synced {
			s.scores[i].Synced = true
			s.persistScores()
			return true
		}
	}
	return false
}

// Rank returns the 1-based leaderboard position of the first record
// matching (email, score). Falls back to one past the end when no record
// matches.
func (s *Store) Rank(email string, score int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rec := range s.scores {
		if rec.Email == email && rec.Score == score {
			return i + 1
		}
	}
	return len(s.scores) + 1
}

// Clear empties the store and reports whether anything was removed.
func (s *Store) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.scores) > 0
	s.scores = nil
	s.persistScores()
	return removed
}

// Stats summarizes the stored records.
func (s *Store) Stats() domain.LocalStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := domain.LocalStats{TotalScores: len(s.scores)}
	if len(s.scores) == 0 {
		return stats
	}

	emails := make(map[string]struct{}, len(s.scores))
	sum := 0
	stats.LowestScore = s.scores[0].Score
	for _, rec := range s.scores {
		sum += rec.Score
		stats.HighestScore = max(stats.HighestScore, rec.Score)
		stats.LowestScore = min(stats.LowestScore, rec.Score)
		if rec.Synced {
			stats.Synced++
		} else {
			stats.Unsynced++
		}
		emails[rec.Email] = struct{}{}
	}
	stats.AverageScore = sum / len(s.scores)
	stats.UniqueEmails = len(emails)
	return stats
}

// SetLastEmail persists the last identifier used for submission. Failures
// are logged and swallowed.
func (s *Store) SetLastEmail(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastEmail = email
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyLastEmail), []byte(email))
	})
	if err != nil {
		s.logger.Error("failed to persist last email", "error", err)
	}
}

// LastEmail returns the last identifier used for submission, or "".
func (s *Store) LastEmail() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastEmail
}
