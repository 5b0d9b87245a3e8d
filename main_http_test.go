package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/hongarc/mintle/internal/lexicon"
	"github.com/hongarc/mintle/internal/lifecycle"
	"github.com/hongarc/mintle/internal/store"
)

// setupTestApp wires an App against an in-memory word store.
func setupTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lex, err := lexicon.Load()
	if err != nil {
		t.Fatalf("loading lexicon: %v", err)
	}
	return &App{
		Lexicon:        lex,
		Words:          lifecycle.NewManager(store.NewMemoryStore(), lex, ""),
		GameSessions:   make(map[string]*GameState),
		LimiterMap:     make(map[string]*rate.Limiter),
		StoreBackend:   "memory",
		SessionTimeout: 2 * time.Hour,
		CookieMaxAge:   2 * time.Hour,
		RateLimitRPS:   100,
		RateLimitBurst: 100,
		StartTime:      time.Now(),
	}
}

// doJSON performs a request, carrying cookies between calls of a flow.
func doJSON(router *gin.Engine, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealthHandler(t *testing.T) {
	app := setupTestApp(t)
	w := doJSON(app.setupRouter(), "GET", RouteHealth, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s returned %d, want 200", RouteHealth, w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["store"] != "memory" {
		t.Errorf("store = %v, want memory", body["store"])
	}
}

func TestBucketHandler(t *testing.T) {
	app := setupTestApp(t)
	w := doJSON(app.setupRouter(), "GET", RouteBucket, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s returned %d, want 200", RouteBucket, w.Code)
	}
	body := decodeBody(t, w)
	bucket, _ := body["bucket"].(string)
	if len(bucket) != 10 {
		t.Errorf("bucket %q is not 10 digits", bucket)
	}
	ms, _ := body["millisecondsUntilNext"].(float64)
	if ms <= 0 || ms > float64(time.Hour.Milliseconds()) {
		t.Errorf("millisecondsUntilNext = %v, want in (0, 3600000]", ms)
	}
}

func TestStateHandlerCreatesSession(t *testing.T) {
	app := setupTestApp(t)
	w := doJSON(app.setupRouter(), "GET", RouteState, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s returned %d, want 200", RouteState, w.Code)
	}
	if len(w.Result().Cookies()) == 0 {
		t.Error("first visit should set a session cookie")
	}
	body := decodeBody(t, w)
	if _, ok := body["game"]; !ok {
		t.Error("response missing game state")
	}
	if _, ok := body["letterStatuses"]; !ok {
		t.Error("response missing letterStatuses")
	}
}

func TestGuessHandlerValidation(t *testing.T) {
	app := setupTestApp(t)
	router := app.setupRouter()

	tests := []struct {
		name string
		body any
		want int
	}{
		{"missing body", nil, http.StatusBadRequest},
		{"wrong length", gin.H{"guess": "AB"}, http.StatusUnprocessableEntity},
		{"unknown word", gin.H{"guess": "ZZZZZ"}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		w := doJSON(router, "POST", RouteGuess, tt.body, nil)
		if w.Code != tt.want {
			t.Errorf("%s: status %d, want %d", tt.name, w.Code, tt.want)
		}
	}
}

func TestGuessHandlerScoresGuess(t *testing.T) {
	app := setupTestApp(t)
	router := app.setupRouter()

	w := doJSON(router, "POST", RouteGuess, gin.H{"guess": "about"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("POST %s returned %d: %s", RouteGuess, w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	row, _ := body["row"].([]any)
	if len(row) != WordLength {
		t.Fatalf("row has %d entries, want %d", len(row), WordLength)
	}
	first, _ := row[0].(map[string]any)
	if first["letter"] != "A" {
		t.Errorf("row letter = %v, want the normalized guess letter A", first["letter"])
	}
}

func TestGuessHandlerWinFlow(t *testing.T) {
	app := setupTestApp(t)
	router := app.setupRouter()

	// Resolve the hourly word directly; guessing it must end the game won.
	secret, err := app.Words.CurrentWord(context.Background())
	if err != nil {
		t.Fatalf("CurrentWord: %v", err)
	}

	w := doJSON(router, "POST", RouteGuess, gin.H{"guess": secret}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("POST %s returned %d: %s", RouteGuess, w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	game, _ := body["game"].(map[string]any)
	if game["won"] != true || game["gameOver"] != true {
		t.Errorf("game = %v, want won and over", game)
	}
	if game["targetWord"] != secret {
		t.Errorf("targetWord = %v, want %s revealed after game over", game["targetWord"], secret)
	}

	// Same session: further guesses are rejected.
	cookies := w.Result().Cookies()
	w = doJSON(router, "POST", RouteGuess, gin.H{"guess": "about"}, cookies)
	if w.Code != http.StatusConflict {
		t.Errorf("guess after game over: status %d, want 409", w.Code)
	}
}

func TestGuessHandlerAllClientsShareWord(t *testing.T) {
	app := setupTestApp(t)
	router := app.setupRouter()

	// Two separate sessions lose against the same hidden word.
	secret, err := app.Words.CurrentWord(context.Background())
	if err != nil {
		t.Fatalf("CurrentWord: %v", err)
	}
	for session := 0; session < 2; session++ {
		w := doJSON(router, "POST", RouteGuess, gin.H{"guess": secret}, nil)
		body := decodeBody(t, w)
		game, _ := body["game"].(map[string]any)
		if game["targetWord"] != secret {
			t.Errorf("session %d saw word %v, want shared %s", session, game["targetWord"], secret)
		}
	}
}

func TestHintHandler(t *testing.T) {
	app := setupTestApp(t)
	router := app.setupRouter()

	w := doJSON(router, "GET", RouteHint, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s returned %d", RouteHint, w.Code)
	}
	body := decodeBody(t, w)
	if body["available"] != true {
		t.Fatalf("fresh board should always have a hint, got %v", body)
	}
	hint, _ := body["hint"].(string)
	if !app.Lexicon.IsEligibleSolution(hint) {
		t.Errorf("hint %q is not an eligible solution", hint)
	}
}

func TestPreGenerateHandler(t *testing.T) {
	app := setupTestApp(t)
	router := app.setupRouter()

	w := doJSON(router, "POST", RoutePreGenerate+"?count=2", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("POST %s returned %d", RoutePreGenerate, w.Code)
	}
	body := decodeBody(t, w)
	processed, _ := body["processed"].([]any)
	if len(processed) != 2 {
		t.Fatalf("processed %d buckets, want 2", len(processed))
	}
	for _, p := range processed {
		entry, _ := p.(map[string]any)
		if entry["ok"] != true {
			t.Errorf("bucket %v not ok", entry["bucket"])
		}
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	app := setupTestApp(t)
	app.RateLimitRPS = 1
	app.RateLimitBurst = 1
	router := app.setupRouter()

	first := doJSON(router, "POST", RouteGuess, gin.H{"guess": "about"}, nil)
	if first.Code == http.StatusTooManyRequests {
		t.Fatal("first request should pass the limiter")
	}
	second := doJSON(router, "POST", RouteGuess, gin.H{"guess": "other"}, nil)
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second request: status %d, want 429", second.Code)
	}
}
