package main

// Game configuration constants
const (
	MaxGuesses = 6 // Maximum number of guesses per bucket
	WordLength = 5 // Length of the word to guess
)

// Session configuration constants
const (
	SessionCookieName = "session_id"
)

// Route constants
const (
	RouteHealth      = "/healthz"
	RouteBucket      = "/api/bucket"
	RouteState       = "/api/state"
	RouteGuess       = "/api/guess"
	RouteHint        = "/api/hint"
	RoutePreGenerate = "/api/pregenerate"
)

// Error message constants
const (
	ErrorGameOver      = "game is over"
	ErrorInvalidLength = "word must be 5 letters"
	ErrorNoMoreGuesses = "no more guesses allowed"
	ErrorNotInWordList = "word not recognized"
	ErrorWordLookup    = "could not resolve the current word"
)

// contextKey is the type for request-scoped context keys.
type contextKey string

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)
