package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/chartgeo/internal/api"
	"github.com/inamate/chartgeo/internal/auth"
	"github.com/inamate/chartgeo/internal/config"
	"github.com/inamate/chartgeo/internal/dataset"
	"github.com/inamate/chartgeo/internal/db"
	"github.com/inamate/chartgeo/internal/engine"
	"github.com/inamate/chartgeo/internal/export"
	mw "github.com/inamate/chartgeo/internal/middleware"
	"github.com/inamate/chartgeo/internal/session"
	"github.com/inamate/chartgeo/internal/store"
	"github.com/inamate/chartgeo/internal/typeid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	st := store.New(pool)
	if err := st.Migrate(ctx); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(st, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	datasetService := api.NewService(st)
	datasetHandler := api.NewHandler(datasetService, cfg.Decimation())
	exportHandler := export.NewHandler(datasetService)

	engineOpts := engine.DefaultOptions()
	engineOpts.Interactions = cfg.Interactions()
	engineOpts.Decimation = cfg.Decimation()
	engineOpts.CacheSize = cfg.CacheSize
	engineOpts.TickTTL = cfg.TickTTL

	loader := func(ctx context.Context, datasetID, userID string) (*dataset.Dataset, error) {
		return datasetService.Get(ctx, datasetID, userID)
	}
	hub := session.NewHub(engineOpts, loader)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","sessions":%d}`, hub.SessionCount())
	}).Methods("GET")

	// Protected API routes
	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(authService.AuthMiddleware)
	apiRouter.HandleFunc("/me", authHandler.Me).Methods("GET")
	datasetHandler.Routes(apiRouter)
	apiRouter.HandleFunc("/datasets/{datasetId}/export", exportHandler.Export).Methods("GET")

	// Live chart sessions. Without an id a new session is started.
	ws := &wsHandler{hub: hub, auth: authService, origins: originPatterns(cfg.Origins())}
	r.HandleFunc("/ws/chart", ws.ServeHTTP)
	r.HandleFunc("/ws/chart/{sessionId}", ws.ServeHTTP)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// originPatterns strips the scheme from allowed origins for websocket.Accept.
func originPatterns(origins []string) []string {
	out := make([]string, len(origins))
	for i, o := range origins {
		_, host, ok := strings.Cut(o, "://")
		if !ok {
			host = o
		}
		out[i] = host
	}
	return out
}

type wsHandler struct {
	hub     *session.Hub
	auth    *auth.Service
	origins []string
}

func (h *wsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Browsers cannot set headers on websocket requests; auth via query param.
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	userID, err := h.auth.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	sessionID := mux.Vars(r)["sessionId"]
	if sessionID == "" {
		sessionID = typeid.NewSessionID()
	} else if err := typeid.Validate(sessionID, typeid.PrefixSession); err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := session.NewClient(h.hub, conn, userID, sessionID, uuid.New().String())
	if err := h.hub.Register(client); err != nil {
		if errors.Is(err, session.ErrSessionForbidden) {
			conn.Close(websocket.StatusPolicyViolation, "session belongs to another user")
			return
		}
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
