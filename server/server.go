package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tynda/cache"
	"tynda/config"
	"tynda/db"
	"tynda/logger"
	"tynda/repository"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	conn, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer conn.Close()

	if err := db.InitDB(conn); err != nil {
		logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	redisClient, err := db.ConnectRedis(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()
	logger.Info("Successfully connected to Redis")

	trackRepo := repository.NewMySQLTrackRepository(conn)
	userRepo := repository.NewMySQLUserRepository(conn)
	contactRepo := repository.NewMySQLContactRepository(conn)
	sessions := cache.NewSessionStore(redisClient, cfg.SessionTTL)

	apiHandler := NewAPIHandler(trackRepo, userRepo, contactRepo, sessions, cfg)

	router := mux.NewRouter()

	router.Use(corsMiddleware)
	router.Use(loggingMiddleware)
	router.Use(apiHandler.SessionMiddleware)

	// Track catalog endpoints. List and detail are public; mutations are
	// guarded inside the handlers.
	router.HandleFunc("/api/tracks", apiHandler.ListTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks", apiHandler.CreateTrackHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks/{id}", apiHandler.GetTrackHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}", apiHandler.UpdateTrackHandler).Methods(http.MethodPut)
	router.HandleFunc("/api/tracks/{id}", apiHandler.DeleteTrackHandler).Methods(http.MethodDelete)

	// Account endpoints.
	router.HandleFunc("/api/auth/register", apiHandler.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/logout", apiHandler.LogoutHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/me", apiHandler.MeHandler).Methods(http.MethodGet)

	// Contact form.
	router.HandleFunc("/contact", apiHandler.ContactHandler).Methods(http.MethodPost)

	// Static pages.
	router.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.PublicDir)))

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}

// corsMiddleware adds permissive CORS headers and answers preflight requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs every request with its duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("Request handled",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Duration("duration", time.Since(start)))
	})
}
