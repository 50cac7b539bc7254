// Package bolt provides a BoltDB-backed combat session store, so fights
// survive a bot restart.
package bolt

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/nathoo/grandline/engine/save"
	"github.com/nathoo/grandline/store"
	"github.com/nathoo/grandline/types"
)

const sessionBucket = "sessions"

// Store keeps one session per player id in a single bucket.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// GetSession fetches the player's session or returns store.ErrNotFound.
func (s *Store) GetSession(ctx context.Context, playerID string) (*types.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(playerID) == "" {
		return nil, fmt.Errorf("player id is required")
	}

	var sess *types.Session
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket is missing")
		}
		payload := bucket.Get(sessionKey(playerID))
		if payload == nil {
			return store.ErrNotFound
		}
		decoded, err := save.DecodeSession(payload)
		if err != nil {
			return err
		}
		sess = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// PutSession persists the session under its player id.
func (s *Store) PutSession(ctx context.Context, sess *types.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if sess == nil || strings.TrimSpace(sess.PlayerID) == "" {
		return fmt.Errorf("player id is required")
	}

	payload, err := save.EncodeSession(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket is missing")
		}
		return bucket.Put(sessionKey(sess.PlayerID), payload)
	})
}

// DeleteSession removes the player's session. Missing sessions are not an error.
func (s *Store) DeleteSession(ctx context.Context, playerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket is missing")
		}
		return bucket.Delete(sessionKey(playerID))
	})
}

// ActiveSessions returns the number of stored sessions.
func (s *Store) ActiveSessions() int {
	n := 0
	_ = s.db.View(func(tx *bbolt.Tx) error {
		if bucket := tx.Bucket([]byte(sessionBucket)); bucket != nil {
			n = bucket.Stats().KeyN
		}
		return nil
	})
	return n
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(sessionBucket)); err != nil {
			return fmt.Errorf("create session bucket: %w", err)
		}
		return nil
	})
}

func sessionKey(playerID string) []byte {
	return []byte(playerID)
}
