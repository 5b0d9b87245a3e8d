package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/hongarc/mintle/internal/evaluate"
	"github.com/hongarc/mintle/internal/hourkey"
	"github.com/hongarc/mintle/internal/lifecycle"
)

// guessRequest is the body of POST /api/guess.
type guessRequest struct {
	Guess string `json:"guess" binding:"required"`
}

// healthHandler reports liveness plus a few operational numbers.
func (app *App) healthHandler(c *gin.Context) {
	app.SessionMutex.RLock()
	sessions := len(app.GameSessions)
	app.SessionMutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"env":          map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"store":        app.StoreBackend,
		"words_loaded": app.Lexicon.Size(),
		"solutions":    app.Lexicon.SolutionCount(),
		"dictionary":   app.Lexicon.Version(),
		"sessions":     sessions,
		"uptime":       formatUptime(time.Since(app.StartTime)),
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}

// bucketHandler exposes the current hour bucket and the countdown the
// client uses to schedule its rollover timer.
func (app *App) bucketHandler(c *gin.Context) {
	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"bucket":                hourkey.BucketID(now),
		"millisecondsUntilNext": hourkey.UntilNextBucket(now).Milliseconds(),
	})
}

// stateHandler returns the session's board for the current bucket.
func (app *App) stateHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	game := app.getGameState(sessionID)

	c.JSON(http.StatusOK, gin.H{
		"game":                  game,
		"letterStatuses":        evaluate.AggregateLetterStatus(game.feedbackRows()),
		"millisecondsUntilNext": hourkey.UntilNextBucket(time.Now()).Milliseconds(),
	})
}

// guessHandler validates and scores one guess against the hourly word.
func (app *App) guessHandler(c *gin.Context) {
	reqID, _ := c.Request.Context().Value(requestIDKey).(string)
	sessionID := app.getOrCreateSession(c)
	game := app.getGameState(sessionID)

	if game.GameOver {
		c.JSON(http.StatusConflict, gin.H{"error": ErrorGameOver, "game": game})
		return
	}
	if game.CurrentRow >= MaxGuesses {
		c.JSON(http.StatusConflict, gin.H{"error": ErrorNoMoreGuesses, "game": game})
		return
	}

	var req guessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing guess"})
		return
	}

	guess := strings.ToUpper(strings.TrimSpace(req.Guess))
	if len(guess) != WordLength {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ErrorInvalidLength})
		return
	}
	if !app.Lexicon.IsAllowedGuess(guess) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ErrorNotInWordList})
		return
	}

	targetWord, err := app.Words.CurrentWord(c.Request.Context())
	if err != nil {
		logWarn("[request_id=%v] Word lookup failed: %v", reqID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": ErrorWordLookup})
		return
	}

	result, err := evaluate.Evaluate(guess, targetWord)
	if err != nil {
		logWarn("[request_id=%v] Evaluate failed: %v", reqID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "evaluation failed"})
		return
	}

	app.updateGameState(game, guess, targetWord, result)
	app.saveGameState(sessionID, game)

	logInfo("[request_id=%v] session %s guessed %s (attempt %d/%d)", reqID, sessionID, guess, game.CurrentRow, MaxGuesses)

	c.JSON(http.StatusOK, gin.H{
		"row":            result,
		"game":           game,
		"letterStatuses": evaluate.AggregateLetterStatus(game.feedbackRows()),
	})
}

// updateGameState records a scored guess and settles win/lose state.
func (app *App) updateGameState(game *GameState, guess, targetWord string, result []evaluate.LetterFeedback) {
	if game.CurrentRow >= MaxGuesses {
		return
	}
	game.Guesses[game.CurrentRow] = result
	game.GuessHistory = append(game.GuessHistory, guess)
	game.CurrentRow++
	game.LastAccessTime = time.Now()

	if evaluate.IsExactMatch(guess, targetWord) {
		game.Won = true
		game.GameOver = true
		logInfo("Player won! Target word was: %s", targetWord)
	} else if game.CurrentRow >= MaxGuesses {
		game.GameOver = true
		logInfo("Player lost. Target word was: %s", targetWord)
	}

	if game.GameOver {
		game.TargetWord = targetWord
	}
}

// hintHandler suggests a solution word consistent with the board so far.
func (app *App) hintHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	game := app.getGameState(sessionID)

	hint, ok := evaluate.SuggestHint(game.GuessHistory, game.feedbackRows(), app.Lexicon)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"available": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true, "hint": hint})
}

// preGenerateHandler warms upcoming buckets on demand, best effort.
func (app *App) preGenerateHandler(c *gin.Context) {
	count := 3
	if q := c.Query("count"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			count = n
		}
	}
	if count > 24 {
		count = 24
	}

	results := app.Words.PreGenerate(c.Request.Context(), count)
	processed := lo.Map(results, func(r lifecycle.BucketResult, _ int) gin.H {
		out := gin.H{"bucket": r.Bucket, "ok": r.OK}
		if r.Err != nil {
			out["error"] = r.Err.Error()
		}
		return out
	})
	c.JSON(http.StatusOK, gin.H{"processed": processed})
}
