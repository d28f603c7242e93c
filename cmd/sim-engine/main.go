package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"

	"github.com/jcbarr81/NexGen-BBPro-Win/models"
	"github.com/jcbarr81/NexGen-BBPro-Win/simulation"
	"github.com/jcbarr81/NexGen-BBPro-Win/stats"
	"github.com/jcbarr81/NexGen-BBPro-Win/tuning"
)

type Config struct {
	Port       string `env:"PORT" envDefault:"8081"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"bbpro_user"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"bbpro_pass"`
	DBName     string `env:"DB_NAME" envDefault:"bbpro_sim"`
	Workers    int    `env:"WORKERS"`
	TuningFile string `env:"TUNING_FILE"`
}

type Server struct {
	db         *pgxpool.Pool
	store      *simulation.Store
	router     *mux.Router
	httpServer *http.Server
	config     *Config
	tuning     *tuning.Config

	mu         sync.RWMutex
	activeRuns map[string]*RunStatus
}

type RunStatus struct {
	RunID       string     `json:"run_id"`
	Status      string     `json:"status"`
	Games       int        `json:"games"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

type SeasonRequest struct {
	Label    string `json:"label"`
	NumTeams int    `json:"num_teams,omitempty"`
	Rounds   int    `json:"rounds,omitempty"`
	Seed     int64  `json:"seed,omitempty"`
	// RandomTalent spreads ratings around league average instead of using
	// all-average rosters.
	RandomTalent bool `json:"random_talent,omitempty"`
}

type SeasonResponse struct {
	RunID     string    `json:"run_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return cfg, nil
}

func NewServer(config *Config) (*Server, error) {
	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		config.DBUser, config.DBPassword, config.DBHost, config.DBPort, config.DBName)

	dbConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse db config: %w", err)
	}
	dbConfig.MaxConns = int32(config.Workers * 2)
	dbConfig.MaxConnLifetime = time.Hour

	db, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	cfg := tuning.Default()
	if config.TuningFile != "" {
		cfg, err = tuning.Load(config.TuningFile)
		if err != nil {
			return nil, err
		}
		log.Printf("Loaded tuning snapshot %q from %s", cfg.Label, config.TuningFile)
	}

	s := &Server{
		db:         db,
		store:      simulation.NewStore(db),
		config:     config,
		tuning:     cfg,
		router:     mux.NewRouter(),
		activeRuns: make(map[string]*RunStatus),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.healthHandler).Methods("GET")
	s.router.HandleFunc("/seasons", s.createSeasonHandler).Methods("POST")
	s.router.HandleFunc("/seasons/{id}/status", s.seasonStatusHandler).Methods("GET")
	s.router.HandleFunc("/seasons/{id}/result", s.seasonResultHandler).Methods("GET")
	s.router.HandleFunc("/tuning", s.tuningHandler).Methods("GET")
}

func (s *Server) Start() error {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	})

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      handlers.LoggingHandler(os.Stdout, c.Handler(s.router)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting season engine on port %s with %d workers",
		s.config.Port, s.config.Workers)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down season engine...")
	s.db.Close()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]any{
		"status":   "healthy",
		"time":     time.Now().UTC(),
		"workers":  s.config.Workers,
		"tuning":   s.tuning.Label,
		"database": "connected",
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.db.Ping(ctx); err != nil {
		health["database"] = "disconnected"
		health["status"] = "unhealthy"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	writeJSON(w, health)
}

func (s *Server) createSeasonHandler(w http.ResponseWriter, r *http.Request) {
	var req SeasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.NumTeams < 2 {
		req.NumTeams = 8
	}
	if req.Rounds < 1 {
		req.Rounds = 1
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}

	runID, err := s.store.CreateRun(r.Context(), req.Label, req.Seed, s.tuning.Label)
	if err != nil {
		log.Printf("Failed to create season run: %v", err)
		http.Error(w, "Failed to create season run", http.StatusInternalServerError)
		return
	}

	created := time.Now().UTC()
	s.mu.Lock()
	s.activeRuns[runID] = &RunStatus{RunID: runID, Status: "running", CreatedAt: created}
	s.mu.Unlock()

	go s.runSeason(runID, req)

	writeJSON(w, SeasonResponse{RunID: runID, Status: "running", CreatedAt: created})
}

func (s *Server) runSeason(runID string, req SeasonRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if err := s.store.UpdateRunStatus(ctx, runID, "running"); err != nil {
		log.Printf("Failed to update run status for %s: %v", runID, err)
	}

	teams := simulation.NeutralLeague(req.NumTeams)
	if req.RandomTalent {
		teams = simulation.GenerateLeague(req.NumTeams, rand.New(rand.NewSource(req.Seed)))
	}

	park := models.NeutralPark()
	result, err := simulation.RunSeason(ctx, simulation.SeasonConfig{
		RunID:     runID,
		Teams:     teams,
		Rounds:    req.Rounds,
		Seed:      req.Seed,
		Workers:   s.config.Workers,
		Tuning:    s.tuning,
		Park:      &park,
		Benchmark: stats.MLBBenchmark(),
	})

	if err != nil {
		log.Printf("Season run %s failed: %v", runID, err)
		s.updateRun(runID, func(status *RunStatus) {
			status.Status = "failed"
			status.Error = err.Error()
		})
		if dbErr := s.store.UpdateRunStatus(ctx, runID, "failed"); dbErr != nil {
			log.Printf("Failed to record failure for %s: %v", runID, dbErr)
		}
		return
	}

	if err := s.store.SaveResult(ctx, result); err != nil {
		log.Printf("Failed to save season result %s: %v", runID, err)
	}
	finished := time.Now().UTC()
	if err := s.store.MarkCompleted(ctx, runID, finished); err != nil {
		log.Printf("Failed to mark run %s completed: %v", runID, err)
	}

	s.updateRun(runID, func(status *RunStatus) {
		status.Status = "completed"
		status.Games = result.Games
		status.CompletedAt = &finished
	})
	log.Printf("Season run %s completed: %d games", runID, result.Games)
}

// updateRun mutates one run's status under the lock. Status handlers read a
// copy under the same lock, so fields are never touched unsynchronized.
func (s *Server) updateRun(runID string, mutate func(*RunStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status, ok := s.activeRuns[runID]; ok {
		mutate(status)
	}
}

func (s *Server) seasonStatusHandler(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["id"]

	s.mu.RLock()
	status, exists := s.activeRuns[runID]
	var snapshot RunStatus
	if exists {
		snapshot = *status
	}
	s.mu.RUnlock()
	if !exists {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	writeJSON(w, snapshot)
}

func (s *Server) seasonResultHandler(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["id"]

	result, err := s.store.LoadResult(r.Context(), runID)
	if err != nil {
		log.Printf("Failed to load result %s: %v", runID, err)
		http.Error(w, "Result not found", http.StatusNotFound)
		return
	}
	writeJSON(w, result)
}

func (s *Server) tuningHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.tuning.Coefficients())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func main() {
	config, err := NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	server, err := NewServer(config)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
