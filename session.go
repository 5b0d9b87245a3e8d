package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/hongarc/mintle/internal/evaluate"
	"github.com/hongarc/mintle/internal/hourkey"
)

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || len(sessionID) < 10 {
		sessionID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(SessionCookieName, sessionID, int(app.CookieMaxAge.Seconds()), "/", "", app.IsProduction, true)
		logInfo("Created new session: %s", sessionID)
	}
	return sessionID
}

// getGameState returns the session's board for the current hour bucket.
// A board left over from an earlier bucket is discarded: the shared word
// has rolled over, so the old guesses no longer apply.
func (app *App) getGameState(sessionID string) *GameState {
	bucket := hourkey.BucketID(time.Now())

	app.SessionMutex.RLock()
	game, exists := app.GameSessions[sessionID]
	app.SessionMutex.RUnlock()

	if exists && game.Bucket == bucket {
		app.SessionMutex.Lock()
		game.LastAccessTime = time.Now()
		app.SessionMutex.Unlock()
		return game
	}

	if exists {
		logInfo("Bucket rolled over for session %s (%s -> %s), starting fresh board", sessionID, game.Bucket, bucket)
	} else {
		logInfo("Creating new game for session: %s", sessionID)
	}
	return app.createNewGame(sessionID, bucket)
}

// createNewGame initializes an empty board for a session and stores it.
func (app *App) createNewGame(sessionID, bucket string) *GameState {
	guesses := lo.Times(MaxGuesses, func(_ int) []evaluate.LetterFeedback {
		return lo.Times(WordLength, func(_ int) evaluate.LetterFeedback { return evaluate.LetterFeedback{} })
	})
	game := &GameState{
		Bucket:         bucket,
		Guesses:        guesses,
		CurrentRow:     0,
		GameOver:       false,
		Won:            false,
		TargetWord:     "",
		GuessHistory:   []string{},
		LastAccessTime: time.Now(),
	}

	app.SessionMutex.Lock()
	app.GameSessions[sessionID] = game
	app.SessionMutex.Unlock()

	return game
}

// saveGameState updates the in-memory game state for a session.
func (app *App) saveGameState(sessionID string, game *GameState) {
	app.SessionMutex.Lock()
	app.GameSessions[sessionID] = game
	game.LastAccessTime = time.Now()
	app.SessionMutex.Unlock()
}

// cleanupSessions removes boards idle for longer than maxAge or stranded
// in a past hour bucket. Returns the number of sessions removed.
func (app *App) cleanupSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	bucket := hourkey.BucketID(time.Now())

	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()

	removed := 0
	for id, game := range app.GameSessions {
		if game.LastAccessTime.Before(cutoff) || game.Bucket < bucket {
			delete(app.GameSessions, id)
			removed++
		}
	}
	return removed
}
