package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fdg312/skin-hub/internal/ai"
	"github.com/fdg312/skin-hub/internal/analytics"
	"github.com/fdg312/skin-hub/internal/blob"
	"github.com/fdg312/skin-hub/internal/config"
	"github.com/fdg312/skin-hub/internal/insights"
	"github.com/fdg312/skin-hub/internal/reports"
	"github.com/fdg312/skin-hub/internal/samples"
	"github.com/fdg312/skin-hub/internal/storage"
	"github.com/fdg312/skin-hub/internal/storage/memory"
	"github.com/fdg312/skin-hub/internal/storage/postgres"
	"github.com/fdg312/skin-hub/internal/summaries"
)

const (
	storageModeMemory   = "memory"
	storageModePostgres = "postgres"
)

// Server представляет HTTP сервер
type Server struct {
	config      *config.Config
	mux         *http.ServeMux
	storage     storage.Storage
	storageMode string
	blobMode    string
	aiMode      string
	aiProvider  ai.Provider
	catalog     *insights.Catalog
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) (*Server, error) {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	// Инициализируем storage
	s.initStorage()

	// Регистрируем маршруты
	if err := s.routes(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// initStorage инициализирует storage (Memory или Postgres)
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("storage: using in-memory storage")
		s.storage = memory.New()
		s.storageMode = storageModeMemory
		return
	}

	log.Println("storage: connecting to PostgreSQL...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
	if err != nil {
		log.Printf("WARN storage: postgres init failed: %v", err)
		log.Println("WARN storage: fallback to in-memory storage")
		s.storage = memory.New()
		s.storageMode = storageModeMemory
		return
	}

	log.Println("storage: PostgreSQL connected")
	s.storage = pgStorage
	s.storageMode = storageModePostgres
}

// newComposer собирает движок сводок поверх AI провайдера
func (s *Server) newComposer() *insights.Composer {
	cfg := insights.DefaultConfig()
	if s.config.AI.Timeout > 0 {
		cfg.GenerativeTimeout = s.config.AI.Timeout
	}

	provider := ai.NewProvider(s.config.AI)
	s.aiMode = provider.Name()
	s.aiProvider = provider
	s.catalog = cfg.Catalog

	return insights.NewComposer(cfg, provider,
		insights.WithVariationSource(insights.NewRandomVariation(s.config.AI.VariationSeed, nil)),
		insights.WithLogger(log.Default()),
	)
}

// routes регистрирует маршруты
func (s *Server) routes() error {
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	if s.config.MetricsEnabled {
		s.mux.Handle("GET /metrics", promhttp.Handler())
	}

	// Samples API
	samplesService := samples.NewService(s.storage)
	samplesHandler := samples.NewHandler(samplesService)
	s.mux.HandleFunc("POST /v1/samples/sync", samplesHandler.HandleSync)
	s.mux.HandleFunc("GET /v1/samples", samplesHandler.HandleList)

	// Summaries API
	summariesService := summaries.NewService(s.newComposer(), samplesService, s.storage, s.config.HistoryDays)
	summariesHandler := summaries.NewHandler(summariesService)
	s.mux.HandleFunc("POST /v1/summaries", summariesHandler.HandleGenerate)
	s.mux.HandleFunc("GET /v1/summaries", summariesHandler.HandleList)
	s.mux.HandleFunc("GET /v1/summaries/latest", summariesHandler.HandleLatest)

	// Reports API
	blobStore, blobMode, err := blob.NewBlobStore(context.Background(), s.config.Blob, log.Default())
	if err != nil {
		return fmt.Errorf("init blob store: %w", err)
	}
	s.blobMode = blobMode

	reportsService := reports.NewService(
		s.storage,
		reports.NewGenerator(samplesService, summariesService, s.catalog),
		blobStore,
		reports.Settings{
			MaxRangeDays:    s.config.ReportsMaxRangeDays,
			PresignTTL:      s.config.Blob.S3.PresignTTLSeconds,
			PublicBaseURL:   s.config.Blob.S3.PublicBaseURL,
			PreferPublicURL: s.config.Blob.S3.PreferPublicURL,
		},
		log.Default(),
	)
	reportsHandler := reports.NewHandlers(reportsService)
	s.mux.HandleFunc("POST /v1/reports", reportsHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/reports", reportsHandler.HandleList)
	s.mux.HandleFunc("GET /v1/reports/{id}", reportsHandler.HandleGet)
	s.mux.HandleFunc("GET /v1/reports/{id}/download", reportsHandler.HandleDownload)
	s.mux.HandleFunc("DELETE /v1/reports/{id}", reportsHandler.HandleDelete)

	// Analytics API
	analyticsHandler := analytics.NewHandler(analytics.NewService(samplesService, s.catalog))
	s.mux.HandleFunc("GET /v1/analytics/statistics", analyticsHandler.HandleStatistics)
	s.mux.HandleFunc("GET /v1/analytics/effectiveness", analyticsHandler.HandleEffectiveness)
	s.mux.HandleFunc("GET /v1/analytics/correlations", analyticsHandler.HandleCorrelations)
	s.mux.HandleFunc("GET /v1/analytics/weekly", analyticsHandler.HandleWeekly)

	return nil
}

// handleHealthz возвращает статус сервера, выбранные режимы и состояние
// circuit breaker AI провайдера, если он есть
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{
		"status":  "ok",
		"storage": s.storageMode,
		"ai":      s.aiMode,
		"blob":    s.blobMode,
	}
	if b, ok := s.aiProvider.(interface{ State() string }); ok {
		body["ai_breaker"] = b.State()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(body)
}

// Handler возвращает mux с цепочкой middleware (снаружи внутрь): CORS → Rate Limit → Metrics → Router
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	handler = RequestMetricsMiddleware(handler)
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("server listening on http://localhost%s", addr)
	log.Printf("health check: http://localhost%s/healthz", addr)

	return srv.ListenAndServe()
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
