package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"formprobe/adapters/llm"
	"formprobe/adapters/postgres"
	"formprobe/adapters/registry"
	"formprobe/adapters/rng"
	"formprobe/adapters/rules"
	"formprobe/app"
	"formprobe/internal/config"
	"formprobe/internal/errors"
	"formprobe/internal/migration"
	"formprobe/internal/testkit"
	"formprobe/ports"
	"formprobe/ui"
)

// initDatabase connects to PostgreSQL and applies the schema
func initDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}
	return db, nil
}

func buildSynthesizer(cfg *config.Config) *app.Synthesizer {
	ruleGen := rules.NewGenerator(rng.New())
	if !cfg.AI.Enabled {
		log.Println("[Main] OPENAI_API_KEY not set, rule-based generation only")
		return app.NewSynthesizer(ruleGen)
	}

	aiGen, err := llm.NewGenerator(llm.Config{
		Model:       cfg.AI.Model,
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
		Timeout:     cfg.AI.Timeout,
	})
	if err != nil {
		log.Printf("[Main] AI generator unavailable (%v), rule-based generation only", err)
		return app.NewSynthesizer(ruleGen)
	}
	log.Printf("[Main] AI generation enabled, model=%s", cfg.AI.Model)
	return app.NewSynthesizerWithAI(aiGen, ruleGen, cfg.AI.Timeout)
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	// Persistence is optional: without DATABASE_URL runs live in memory only.
	var sink ports.RunSink
	if cfg.Database.Enabled {
		db, err := initDatabase(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		sink = postgres.NewRunSink(db)
		log.Println("[Main] run persistence enabled")
	} else {
		log.Println("[Main] DATABASE_URL not set, runs are not persisted")
	}

	// The aggregator always backs the analytics endpoints; the toggle only
	// controls whether the executor feeds it.
	analytics := app.NewAggregator()
	analytics.Start()
	defer analytics.Stop()
	executorAnalytics := analytics
	if !cfg.Analytics.Enabled {
		log.Println("[Main] analytics recording disabled")
		executorAnalytics = nil
	}

	synth := buildSynthesizer(cfg)

	// The browser capability interface is served by the in-memory simulator;
	// a real driver adapter plugs in behind ports.BrowserPool.
	pool := testkit.NewFakePool()

	executor := app.NewExecutor(app.ExecutorConfig{
		MaxConcurrent: cfg.Executor.MaxConcurrent,
		RunTimeout:    cfg.Executor.RunTimeout,
		QueueBound:    cfg.Executor.QueueBound,
	}, synth, app.NewMachine(app.NewStrategy()), pool, sink, executorAnalytics)
	executor.Start()
	defer executor.Stop()

	server := ui.NewServer(executor, synth, analytics, registry.NewMemoryRegistry())
	if err := server.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
