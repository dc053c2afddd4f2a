// Package main is the entry point for the batch ETL pipeline: it ingests
// the raw student, course, grade, and attendance files, cleans them,
// derives per-student metrics, and loads everything into PostgreSQL.
//
// The run is all-or-nothing at the structural level (missing or malformed
// source files abort before anything is written) and per-record at the
// data level (bad rows are counted and skipped). Exit code 0 means the
// run completed; any structural failure exits 1.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/elite-academy/records-etl/config"
	"github.com/elite-academy/records-etl/internal/domain/metrics"
	"github.com/elite-academy/records-etl/internal/etl"
	"github.com/elite-academy/records-etl/internal/etl/aggregate"
	"github.com/elite-academy/records-etl/internal/etl/load"
	"github.com/elite-academy/records-etl/internal/etl/normalize"
	"github.com/elite-academy/records-etl/internal/etl/source"
	"github.com/elite-academy/records-etl/internal/infrastructure/persistence/postgres"
	"github.com/elite-academy/records-etl/internal/infrastructure/persistence/redis"
	"github.com/elite-academy/records-etl/pkg/logger"
	"github.com/elite-academy/records-etl/pkg/retry"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.App.LogLevel),
		AddCaller: cfg.App.Debug,
	})
	log.Info("starting records ETL",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("data_dir", cfg.Pipeline.DataDir),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE
	// ─────────────────────────────────────────────────────────────────────────
	dbConn, err := connectDatabase(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbConn.Close()

	log.Info("running migrations")
	if err := postgres.NewMigrator(dbConn).Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	if health, err := dbConn.Health(ctx); err == nil && health.Healthy {
		log.Info("database healthy",
			logger.String("ping", health.PingLatency.String()),
			logger.Int("pool_total", int(health.TotalConns)),
			logger.Int("pool_max", int(health.MaxConns)),
		)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. OPTIONAL STANDINGS CACHE
	// ─────────────────────────────────────────────────────────────────────────
	var standingsCache *redis.StandingsCache
	if cfg.Redis.Enabled {
		cache, err := connectRedis(cfg)
		if err != nil {
			// The cache is an accelerator, never a dependency.
			log.Warn("redis unavailable, continuing without cache", logger.Err(err))
		} else {
			defer cache.Close()
			standingsCache = redis.NewStandingsCache(cache, cfg.Redis.TTL)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. PIPELINE ASSEMBLY
	// ─────────────────────────────────────────────────────────────────────────
	studentRepo := postgres.NewStudentRepository(dbConn)
	courseRepo := postgres.NewCourseRepository(dbConn)
	statsRepo := postgres.NewStatsRepository(dbConn)
	companyRepo := postgres.NewCompanyRepository(dbConn)

	loader := load.New(load.Options{
		Tx:          dbConn,
		Students:    studentRepo,
		Courses:     courseRepo,
		Stats:       statsRepo,
		Companies:   companyRepo,
		CompanyName: cfg.Pipeline.DefaultCompany,
		BatchSize:   cfg.Pipeline.BatchSize,
		Logger:      log,
	})

	pipeline := etl.New(
		sourcePaths(cfg.Pipeline),
		normalize.New(normalize.NewServiceNumberGenerator(cfg.Pipeline.IDSeed)),
		aggregate.New(metrics.GPAScale{Divisor: cfg.Pipeline.GPADivisor}),
		loader,
		log,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. RUN
	// ─────────────────────────────────────────────────────────────────────────
	summary, err := pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline run %s: %w", summary.RunID, err)
	}

	if standingsCache != nil {
		refreshStandingsCache(ctx, standingsCache, statsRepo, log)
	}

	printSummary(summary)
	return nil
}

// connectDatabase dials PostgreSQL with retries; the database container
// often comes up slightly after the pipeline in compose setups.
func connectDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) (*postgres.Connection, error) {
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not configured")
	}

	settings := postgres.PoolSettings{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		ConnectTimeout:  cfg.Database.ConnectTimeout,
	}

	var conn *postgres.Connection
	err := retry.Do(ctx,
		func(ctx context.Context) error {
			var err error
			conn, err = postgres.NewConnectionFromURL(ctx, cfg.Database.URL, settings)
			return err
		},
		retry.WithMaxAttempts(cfg.Database.ConnectRetries),
		retry.WithRetryIf(func(error) bool { return true }),
		retry.WithOnRetry(func(attempt int, err error, _ time.Duration) {
			log.Warn("database connect failed, retrying", logger.Int("attempt", attempt), logger.Err(err))
		}),
	)
	return conn, err
}

func connectRedis(cfg *config.Config) (*redis.Cache, error) {
	if cfg.Redis.URL != "" {
		return redis.NewCacheFromURL(cfg.Redis.URL)
	}

	rcfg := redis.DefaultConfig()
	rcfg.Host = cfg.Redis.Host
	rcfg.Port = cfg.Redis.Port
	rcfg.Password = cfg.Redis.Password
	rcfg.DB = cfg.Redis.DB
	return redis.NewCache(rcfg)
}

func refreshStandingsCache(ctx context.Context, cache *redis.StandingsCache, stats *postgres.StatsRepository, log *logger.Logger) {
	standings, err := stats.ListStandings(ctx)
	if err != nil {
		log.Warn("standings read for cache refresh failed", logger.Err(err))
		return
	}
	// Drop stale per-student entries before writing the fresh set.
	if err := cache.Invalidate(ctx); err != nil {
		log.Warn("standings cache invalidation failed", logger.Err(err))
	}
	if err := cache.PutSnapshot(ctx, standings); err != nil {
		log.Warn("standings cache refresh failed", logger.Err(err))
		return
	}
	log.Info("standings cache refreshed", logger.Count(len(standings)))
}

func sourcePaths(p config.PipelineConfig) source.Paths {
	return source.Paths{
		Students:   filepath.Join(p.DataDir, p.StudentsFile),
		Courses:    filepath.Join(p.DataDir, p.CoursesFile),
		Grades:     filepath.Join(p.DataDir, p.GradesFile),
		Attendance: filepath.Join(p.DataDir, p.AttendanceFile),
	}
}

func printSummary(s *etl.RunSummary) {
	fmt.Printf("run %s finished in %s\n", s.RunID, s.Duration.Round(time.Millisecond))
	fmt.Printf("  students:  %d read, %d kept, %d dropped\n", s.Students.Read, s.Students.Kept, s.Students.TotalDropped())
	fmt.Printf("  courses:   %d read, %d kept, %d dropped\n", s.Courses.Read, s.Courses.Kept, s.Courses.TotalDropped())
	fmt.Printf("  stats:     %d students aggregated, %d scores skipped\n", s.Aggregates.Students, s.Aggregates.SkippedScores)
	fmt.Printf("  loaded:    %d students (+%d dup, %d rejected), %d courses (+%d dup), %d stats (%d orphaned)\n",
		s.Load.StudentsInserted, s.Load.StudentsSkipped, s.Load.StudentsFailed,
		s.Load.CoursesInserted, s.Load.CoursesSkipped,
		s.Load.StatsUpserted, s.Load.StatsOrphaned)
}
