package main

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hongarc/mintle/internal/evaluate"
	"github.com/hongarc/mintle/internal/lexicon"
	"github.com/hongarc/mintle/internal/lifecycle"
)

// App holds all server-wide state and collaborators.
type App struct {
	Lexicon *lexicon.Lexicon
	Words   *lifecycle.Manager

	GameSessions map[string]*GameState
	SessionMutex sync.RWMutex

	LimiterMap   map[string]*rate.Limiter
	LimiterMutex sync.Mutex

	IsProduction   bool
	StoreBackend   string
	SessionTimeout time.Duration
	CookieMaxAge   time.Duration
	RateLimitRPS   int
	RateLimitBurst int
	StartTime      time.Time
}

// GameState is one player's board for one hour bucket. When the bucket
// rolls over the state is discarded and a fresh board starts.
type GameState struct {
	Bucket         string                      `json:"bucket"`
	Guesses        [][]evaluate.LetterFeedback `json:"guesses"`
	CurrentRow     int                         `json:"currentRow"`
	GameOver       bool                        `json:"gameOver"`
	Won            bool                        `json:"won"`
	TargetWord     string                      `json:"targetWord"` // revealed only when the game ends
	GuessHistory   []string                    `json:"guessHistory"`
	LastAccessTime time.Time                   `json:"lastAccessTime"`
}

// feedbackRows returns the filled rows of the board, the shape the
// evaluator's aggregation and hint operations consume.
func (g *GameState) feedbackRows() [][]evaluate.LetterFeedback {
	return g.Guesses[:g.CurrentRow]
}
