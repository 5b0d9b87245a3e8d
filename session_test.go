package main

import (
	"testing"
	"time"

	"github.com/hongarc/mintle/internal/hourkey"
)

func TestGetGameStateCreatesBoard(t *testing.T) {
	app := setupTestApp(t)
	game := app.getGameState("test-session-create")

	if game.Bucket != hourkey.BucketID(time.Now()) {
		t.Errorf("board bucket = %s, want current bucket", game.Bucket)
	}
	if len(game.Guesses) != MaxGuesses {
		t.Errorf("board has %d rows, want %d", len(game.Guesses), MaxGuesses)
	}
	if game.CurrentRow != 0 || game.GameOver || game.Won {
		t.Error("fresh board should be empty and in play")
	}

	again := app.getGameState("test-session-create")
	if again != game {
		t.Error("same session and bucket should return the cached board")
	}
}

func TestGetGameStateDiscardsOldBucket(t *testing.T) {
	app := setupTestApp(t)
	stale := app.getGameState("test-session-rollover")
	stale.Bucket = "2000010100" // a bucket long gone
	stale.CurrentRow = 3

	fresh := app.getGameState("test-session-rollover")
	if fresh == stale {
		t.Fatal("a board from a past bucket must be discarded")
	}
	if fresh.CurrentRow != 0 {
		t.Error("rolled-over board should start empty")
	}
	if fresh.Bucket != hourkey.BucketID(time.Now()) {
		t.Errorf("new board bucket = %s, want current", fresh.Bucket)
	}
}

func TestCleanupSessions(t *testing.T) {
	app := setupTestApp(t)

	active := app.getGameState("active-session")
	active.LastAccessTime = time.Now()

	expired := app.getGameState("expired-session")
	expired.LastAccessTime = time.Now().Add(-3 * time.Hour)

	pastBucket := app.getGameState("past-bucket-session")
	pastBucket.Bucket = "2000010100"

	removed := app.cleanupSessions(2 * time.Hour)
	if removed != 2 {
		t.Errorf("removed %d sessions, want 2", removed)
	}

	app.SessionMutex.RLock()
	defer app.SessionMutex.RUnlock()
	if _, ok := app.GameSessions["active-session"]; !ok {
		t.Error("active session must survive cleanup")
	}
	if _, ok := app.GameSessions["expired-session"]; ok {
		t.Error("expired session must be removed")
	}
	if _, ok := app.GameSessions["past-bucket-session"]; ok {
		t.Error("past-bucket session must be removed")
	}
}
