package bolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.etcd.io/bbolt"

	"github.com/nathoo/grandline/store"
	"github.com/nathoo/grandline/types"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessions.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s, path
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestSessionPutGetDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	defer s.Close()

	start := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	sess := &types.Session{
		PlayerID:   "zoro",
		Enemy:      types.Enemy{ID: "e1", Name: "Mr. 1", Level: 9, Health: 150, MaxHealth: 150},
		UserHealth: 120, UserMaxHealth: 140, EnemyHealth: 150, EnemyMaxHealth: 150,
		Turn: types.TurnUser, Status: types.StatusActive, StartTime: start,
		Moves: []types.Move{{Seq: 1, Actor: types.TurnUser, Action: types.ActionDefend, DefendGain: 4, Success: true}},
	}

	if err := s.PutSession(ctx, sess); err != nil {
		t.Fatalf("put session: %v", err)
	}
	got, err := s.GetSession(ctx, "zoro")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.Enemy.Name != "Mr. 1" || got.UserHealth != 120 || !got.StartTime.Equal(start) {
		t.Fatalf("session = %+v", got)
	}
	if len(got.Moves) != 1 || got.Moves[0].DefendGain != 4 {
		t.Fatalf("moves = %+v", got.Moves)
	}
	if n := s.ActiveSessions(); n != 1 {
		t.Fatalf("active sessions = %d, want 1", n)
	}

	if err := s.DeleteSession(ctx, "zoro"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := s.GetSession(ctx, "zoro"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := s.DeleteSession(ctx, "zoro"); err != nil {
		t.Fatalf("deleting a missing session should succeed: %v", err)
	}
}

func TestSessionSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	s, path := openTestStore(t)
	if err := s.PutSession(ctx, &types.Session{PlayerID: "nami", Status: types.StatusActive, EnemyHealth: 33}); err != nil {
		t.Fatalf("put session: %v", err)
	}
	s.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.GetSession(ctx, "nami")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.EnemyHealth != 33 {
		t.Fatalf("enemy health = %d, want 33", got.EnemyHealth)
	}
}

func TestGetSession_CorruptPayload(t *testing.T) {
	s, _ := openTestStore(t)
	defer s.Close()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Put(sessionKey("bad"), []byte("{"))
	})
	if err != nil {
		t.Fatalf("seed corrupt payload: %v", err)
	}
	if _, err := s.GetSession(context.Background(), "bad"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestCanceledContext(t *testing.T) {
	s, _ := openTestStore(t)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.PutSession(ctx, &types.Session{PlayerID: "x"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}
