package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"
	"golang.org/x/time/rate"

	"github.com/hongarc/mintle/internal/lexicon"
	"github.com/hongarc/mintle/internal/lifecycle"
	"github.com/hongarc/mintle/internal/store"
)

func main() {
	_ = godotenv.Load()

	app, err := newApp()
	if err != nil {
		logFatal("Failed to start: %v", err)
	}

	if hours := getEnvInt("PREGENERATE_HOURS", 0); hours > 0 {
		go app.preGenerate(hours)
	}
	go app.cleanupSessionsLoop()

	startServer(app.setupRouter())
}

// newApp loads the lexicon, picks a word-store backend and wires the App.
func newApp() (*App, error) {
	isProduction := os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production"
	logInfo("Starting Mintle in %s mode", map[bool]string{true: "production", false: "development"}[isProduction])

	lex, err := lexicon.Load()
	if err != nil {
		return nil, err
	}
	logInfo("Loaded lexicon: %d words, %d solutions, version %s, checksum %s",
		lex.Size(), lex.SolutionCount(), lex.Version(), lex.Checksum())

	backend, wordStore, err := openWordStore()
	if err != nil {
		return nil, err
	}
	logInfo("Word store backend: %s", backend)

	app := &App{
		Lexicon:        lex,
		Words:          lifecycle.NewManager(wordStore, lex, os.Getenv("WORD_SOURCE_TAG")),
		GameSessions:   make(map[string]*GameState),
		LimiterMap:     make(map[string]*rate.Limiter),
		IsProduction:   isProduction,
		StoreBackend:   backend,
		SessionTimeout: getEnvDuration("SESSION_TIMEOUT", 2*time.Hour),
		CookieMaxAge:   getEnvDuration("COOKIE_MAX_AGE", 2*time.Hour),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
		StartTime:      time.Now(),
	}
	return app, nil
}

// openWordStore selects the shared document store: Redis when configured,
// otherwise a local file-backed store. Both are wrapped with bounded
// backoff for transient failures.
func openWordStore() (string, store.Store, error) {
	attempts := uint64(getEnvInt("STORE_MAX_ATTEMPTS", 4))

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rs := store.NewRedisStore(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rs.Ping(ctx); err != nil {
			return "", nil, err
		}
		return "redis", store.NewRetryingStore(rs, attempts), nil
	}

	dir := os.Getenv("WORD_STORE_DIR")
	if dir == "" {
		dir = "data/words"
	}
	if dirExists(dir) {
		logInfo("Reusing existing word store directory: %s", dir)
	}
	fs, err := store.NewFileStore(dir)
	if err != nil {
		return "", nil, err
	}
	return "file", store.NewRetryingStore(fs, attempts), nil
}

// setupRouter builds the gin engine with the full middleware chain.
func (app *App) setupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	// Word-game responses are per-session and per-hour; never cache them.
	router.Use(cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	}))

	router.Use(requestIDMiddleware())

	router.GET(RouteHealth, app.healthHandler)
	router.GET(RouteBucket, app.bucketHandler)
	router.GET(RouteState, app.stateHandler)
	router.POST(RouteGuess, app.rateLimitMiddleware(), app.guessHandler)
	router.GET(RouteHint, app.hintHandler)
	router.POST(RoutePreGenerate, app.rateLimitMiddleware(), app.preGenerateHandler)

	return router
}

func startServer(router *gin.Engine) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}

// preGenerate warms upcoming hour buckets at startup, best effort.
func (app *App) preGenerate(hours int) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	results := app.Words.PreGenerate(ctx, hours)
	for _, r := range results {
		if r.Err != nil {
			logWarn("Pre-generate bucket %s failed: %v", r.Bucket, r.Err)
		}
	}
	logInfo("Pre-generated %d upcoming buckets", len(results))
}

// cleanupSessionsLoop periodically drops boards that have gone stale or
// belong to an already-finished hour bucket.
func (app *App) cleanupSessionsLoop() {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		removed := app.cleanupSessions(app.SessionTimeout)
		if removed > 0 {
			logInfo("Session cleanup removed %d stale sessions", removed)
		}
	}
}
