// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	nuts "github.com/vaudience/go-nuts"

	"github.com/agrimesh/irrihub/api"
	"github.com/agrimesh/irrihub/internal/cache"
	"github.com/agrimesh/irrihub/internal/config"
	"github.com/agrimesh/irrihub/internal/database"
	"github.com/agrimesh/irrihub/internal/hubservice"
	"github.com/agrimesh/irrihub/internal/ingest"
	"github.com/agrimesh/irrihub/internal/monitoring"
	"github.com/agrimesh/irrihub/internal/repository/postgres"
	"github.com/agrimesh/irrihub/internal/retention"
	"github.com/agrimesh/irrihub/internal/transport"
)

// Server ties the HTTP API, the MQTT ingestion pipeline and the retention
// loop to one lifecycle.
type Server struct {
	config     *config.Config
	srv        *http.Server
	db         database.DB
	latest     *cache.Cache
	hubservice *hubservice.HubService
	cancel     context.CancelFunc
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{
		config: cfg,
		srv: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// Start wires all components, begins listening and blocks until shutdown.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	defer cancel()

	if err := s.initialize(ctx); err != nil {
		return err
	}

	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

func (s *Server) initialize(ctx context.Context) error {
	db, err := database.NewPostgresDB(s.config.Database)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	s.db = db

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := db.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	devices := postgres.NewDeviceRepository(db)
	readings, err := postgres.NewReadingRepository(db)
	if err != nil {
		return fmt.Errorf("readings schema initialization failed: %w", err)
	}

	s.latest = cache.New(s.config.Redis)

	purger := retention.New(readings, s.config.Retention)
	purger.OnPurge(func(deleted int64) {
		nuts.L.Infof("[Server] Retention purge removed %d readings", deleted)
	})
	go purger.Run(ctx)

	location, err := time.LoadLocation(s.config.Analytics.Timezone)
	if err != nil {
		return fmt.Errorf("invalid analytics timezone: %w", err)
	}

	s.hubservice = hubservice.New(devices, readings, s.latest, purger, location, s.config.Analytics.HistoryLimit)
	if err := s.hubservice.Validate(); err != nil {
		return err
	}

	pipeline := ingest.New(devices, readings, s.latest)
	mqttClient, err := transport.NewClient(ctx, s.config.MQTT)
	if err != nil {
		return fmt.Errorf("mqtt connection failed: %w", err)
	}
	ingestor := transport.NewIngestor(mqttClient, s.config.MQTT.TopicRoot, pipeline)
	go ingestor.Start(ctx)

	router := api.NewRouter(s.hubservice)
	router.SetHealthCheck(s.handleHealth())
	router.SetMetrics(monitoring.Handler())

	cors := handlers.CORS(
		handlers.AllowedOrigins(s.config.Server.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-User-ID"}),
	)
	s.srv.Handler = cors(handlers.RecoveryHandler()(router))

	return nil
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	// Stop the ingestor and retention loop before draining HTTP.
	s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	s.latest.Close()
	if err := s.db.Close(); err != nil {
		nuts.L.Errorf("[Server] Error closing database: %v", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

// handleHealth reports process liveness plus database reachability.
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		code := http.StatusOK
		if err := s.db.Ping(ctx); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		w.Write([]byte(`{"status":"` + status + `","version":"` + nuts.GetVersion() + `"}`))
	}
}
