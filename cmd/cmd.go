package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"perfect-match-backend/internal/config"
	"perfect-match-backend/internal/handlers"
	"perfect-match-backend/internal/metrics"
	"perfect-match-backend/internal/middleware"
	"perfect-match-backend/internal/repository"
	"perfect-match-backend/internal/repository/memory"
	"perfect-match-backend/internal/repository/mongo"
	"perfect-match-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultConfigPath = "config.yaml"

// stores bundles the persistence collaborators of the selected driver
type stores struct {
	profiles services.ProfileStore
	messages services.MessageStore
	ratings  services.RatingStore
	files    services.FileStore
	close    func()
}

func Run() {
	// Load configuration
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	ctx := context.Background()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to open storage")
	}
	defer st.close()

	// Initialize services
	m := metrics.New()
	presence := services.NewPresenceRegistry(m)
	router := services.NewDeliveryRouter(st.messages, st.profiles, presence, m)

	h := &handlers.Handlers{
		Profile:   handlers.NewProfileHandler(services.NewProfileService(st.profiles)),
		Photo:     handlers.NewPhotoHandler(services.NewPhotoService(st.profiles, st.files), cfg.Server.MaxUploadBytes),
		Match:     handlers.NewMatchHandler(services.NewMatchService(st.profiles, st.ratings)),
		Message:   handlers.NewMessageHandler(router),
		Rating:    handlers.NewRatingHandler(services.NewRatingService(st.profiles, st.ratings, m)),
		WebSocket: handlers.NewWebSocketHandler(presence, router),
	}

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.Server.CORSOrigin))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(m))
		r.Method(http.MethodGet, cfg.Metrics.Path, m.Handler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	h.Mount(r)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("driver", cfg.Storage.Driver).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown
	users, conns := presence.Stats()
	presence.CloseAll()
	log.Info().Int("users", users).Int("connections", conns).Msg("WebSocket connections closed")

	// Shutdown HTTP server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openStores connects the configured storage driver
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		if err := repository.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		log.Info().Msg("Database connection established")

		files, err := openFiles(ctx, cfg, nil)
		if err != nil {
			db.Close()
			return nil, err
		}

		return &stores{
			profiles: repository.NewProfileRepository(db),
			messages: repository.NewMessageRepository(db),
			ratings:  repository.NewRatingRepository(db),
			files:    files,
			close:    db.Close,
		}, nil

	case config.DriverMongo:
		mdb, err := mongo.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("MongoDB connection established")

		closeMongo := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mdb.Close(closeCtx); err != nil {
				log.Error().Err(err).Msg("Failed to disconnect from MongoDB")
			}
		}

		files, err := openFiles(ctx, cfg, nil)
		if err != nil {
			closeMongo()
			return nil, err
		}

		return &stores{
			profiles: mdb.Profiles(),
			messages: mdb.Messages(),
			ratings:  mdb.Ratings(),
			files:    files,
			close:    closeMongo,
		}, nil

	case config.DriverMemory:
		mem := memory.New()
		log.Warn().Msg("Using in-memory storage, data is lost on restart")

		files, err := openFiles(ctx, cfg, mem)
		if err != nil {
			return nil, err
		}

		return &stores{
			profiles: mem.Profiles(),
			messages: mem.Messages(),
			ratings:  mem.Ratings(),
			files:    files,
			close:    func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// openFiles returns S3 photo storage when a bucket is configured. Without one
// photos are kept in memory.
func openFiles(ctx context.Context, cfg *config.Config, mem *memory.Store) (services.FileStore, error) {
	if cfg.AWS.S3Bucket != "" {
		files, err := repository.NewPhotoStorage(ctx, repository.PhotoStorageConfig{
			Region:    cfg.AWS.Region,
			Bucket:    cfg.AWS.S3Bucket,
			AccessKey: cfg.AWS.AccessKey,
			SecretKey: cfg.AWS.SecretKey,
			Endpoint:  cfg.AWS.Endpoint,
			PublicURL: cfg.AWS.PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create photo storage: %w", err)
		}
		return files, nil
	}

	if mem == nil {
		mem = memory.New()
	}
	log.Warn().Msg("No S3 bucket configured, photos are kept in memory")
	return mem.Photos(), nil
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
