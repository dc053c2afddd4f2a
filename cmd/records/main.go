// Package main is the records administration CLI. It covers the single-
// record operations that do not warrant a full pipeline run: registering a
// student, enrolling, recording grades and attendance, and exporting the
// roster and standings reports.
//
// Usage:
//
//	records add-student -name "Thabo Nkosi" -email thabo@academy.mil [-phone ...] [-dob ...] [-rank ...]
//	records enroll -email thabo@academy.mil -course MIL-101 [-start 2026-01-15]
//	records grade -email thabo@academy.mil -course MIL-101 -type exam -score 87.5
//	records attendance -email thabo@academy.mil -course MIL-101 -status Present
//	records stats -email thabo@academy.mil
//	records roster -course MIL-101 [-o roster.csv]
//	records standings [-standing "Honor Roll"] [-o standings.csv]
//	records migrate [-rollback]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/elite-academy/records-etl/config"
	"github.com/elite-academy/records-etl/internal/application/command"
	"github.com/elite-academy/records-etl/internal/application/query"
	"github.com/elite-academy/records-etl/internal/domain/metrics"
	"github.com/elite-academy/records-etl/internal/etl/normalize"
	"github.com/elite-academy/records-etl/internal/infrastructure/persistence/postgres"
	"github.com/elite-academy/records-etl/internal/infrastructure/persistence/redis"
	"github.com/elite-academy/records-etl/internal/reporting"
	"github.com/elite-academy/records-etl/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if err := run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: records <add-student|enroll|grade|attendance|stats|roster|standings|migrate> [flags]")
}

// app bundles everything a subcommand might need.
type app struct {
	cfg  *config.Config
	conn *postgres.Connection
	log  *logger.Logger

	students    *postgres.StudentRepository
	courses     *postgres.CourseRepository
	stats       *postgres.StatsRepository
	companies   *postgres.CompanyRepository
	enrollments *postgres.EnrollmentRepository
}

func run(ctx context.Context, cmd string, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Options{
		Output: os.Stderr,
		Level:  logger.ParseLevel(cfg.App.LogLevel),
	})

	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is not configured")
	}
	conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL, postgres.PoolSettings{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		ConnectTimeout:  cfg.Database.ConnectTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	// The migrate subcommand manages the schema itself; everything else
	// just brings it up to date before running.
	if cmd != "migrate" {
		if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}

	a := &app{
		cfg:         cfg,
		conn:        conn,
		log:         log,
		students:    postgres.NewStudentRepository(conn),
		courses:     postgres.NewCourseRepository(conn),
		stats:       postgres.NewStatsRepository(conn),
		companies:   postgres.NewCompanyRepository(conn),
		enrollments: postgres.NewEnrollmentRepository(conn),
	}

	switch cmd {
	case "add-student":
		return a.addStudent(ctx, args)
	case "enroll":
		return a.enroll(ctx, args)
	case "grade":
		return a.grade(ctx, args)
	case "attendance":
		return a.attendance(ctx, args)
	case "stats":
		return a.studentStats(ctx, args)
	case "roster":
		return a.roster(ctx, args)
	case "standings":
		return a.standings(ctx, args)
	case "migrate":
		return a.migrate(ctx, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Subcommands
// ─────────────────────────────────────────────────────────────────────────────

func (a *app) addStudent(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-student", flag.ExitOnError)
	name := fs.String("name", "", "full name (required)")
	email := fs.String("email", "", "email address (required)")
	phone := fs.String("phone", "", "phone number")
	dob := fs.String("dob", "", "date of birth")
	rank := fs.String("rank", "", "rank")
	company := fs.String("company", a.cfg.Pipeline.DefaultCompany, "company name")
	fs.Parse(args)

	handler := command.NewAddStudentHandler(
		a.students,
		a.companies,
		normalize.NewServiceNumberGenerator(a.cfg.Pipeline.IDSeed),
		a.log,
	)

	res, err := handler.Handle(ctx, command.AddStudentCommand{
		FullName:    *name,
		Email:       *email,
		Phone:       *phone,
		DateOfBirth: *dob,
		Rank:        *rank,
		Company:     *company,
	})
	if err != nil {
		return err
	}

	fmt.Printf("registered %s as %s (id %d)\n", res.Email, res.ServiceNumber, res.StudentID)
	return nil
}

func (a *app) enroll(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("enroll", flag.ExitOnError)
	email := fs.String("email", "", "student email (required)")
	course := fs.String("course", "", "course code (required)")
	start := fs.String("start", "", "start date")
	fs.Parse(args)

	handler := command.NewEnrollStudentHandler(a.students, a.courses, a.enrollments, a.log)

	res, err := handler.Handle(ctx, command.EnrollStudentCommand{
		Email:      *email,
		CourseCode: *course,
		StartDate:  *start,
	})
	if err != nil {
		return err
	}

	fmt.Printf("enrolled (enrollment id %d)\n", res.EnrollmentID)
	return nil
}

func (a *app) grade(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("grade", flag.ExitOnError)
	email := fs.String("email", "", "student email (required)")
	course := fs.String("course", "", "course code (required)")
	typ := fs.String("type", "", "assessment type (required)")
	score := fs.Float64("score", -1, "score 0-100 (required)")
	weight := fs.Float64("weight", 1, "assessment weight")
	date := fs.String("date", "", "assessment date")
	remarks := fs.String("remarks", "", "remarks")
	fs.Parse(args)

	handler := command.NewRecordGradeHandler(a.students, a.courses, a.enrollments, a.log)

	res, err := handler.Handle(ctx, command.RecordGradeCommand{
		Email:          *email,
		CourseCode:     *course,
		AssessmentType: *typ,
		Score:          *score,
		Weight:         *weight,
		AssessmentDate: *date,
		Remarks:        *remarks,
	})
	if err != nil {
		return err
	}

	fmt.Printf("grade recorded (id %d)\n", res.GradeID)
	return nil
}

func (a *app) attendance(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("attendance", flag.ExitOnError)
	email := fs.String("email", "", "student email (required)")
	course := fs.String("course", "", "course code (required)")
	status := fs.String("status", "", "muster status (required)")
	date := fs.String("date", "", "muster date")
	remarks := fs.String("remarks", "", "remarks")
	fs.Parse(args)

	handler := command.NewMarkAttendanceHandler(a.students, a.courses, a.enrollments, a.log)

	res, err := handler.Handle(ctx, command.MarkAttendanceCommand{
		Email:      *email,
		CourseCode: *course,
		Status:     *status,
		MusterDate: *date,
		Remarks:    *remarks,
	})
	if err != nil {
		return err
	}

	fmt.Printf("attendance marked (id %d)\n", res.AttendanceID)
	return nil
}

func (a *app) studentStats(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	email := fs.String("email", "", "student email (required)")
	fs.Parse(args)

	var cache query.StatsCache
	if c := a.standingsCache(); c != nil {
		cache = c
	}
	handler := query.NewGetStudentStatsHandler(a.students, a.stats, cache)

	// Student and stats rows are read together; keep them on one snapshot.
	var view *query.StudentStatsView
	err := a.conn.RunInReadTx(ctx, func(ctx context.Context) error {
		var err error
		view, err = handler.Handle(ctx, query.GetStudentStatsQuery{Email: *email})
		return err
	})
	if err != nil {
		return err
	}

	rec := view.Student
	fmt.Printf("%s  %s  %s  %s\n", rec.ServiceNumber, rec.FullName(), rec.Email, rec.Rank)
	if view.Stats == nil {
		fmt.Println("no stats yet; run the pipeline first")
		return nil
	}
	fmt.Printf("mean score:      %.2f (%d graded)\n", view.Stats.MeanScore, view.Stats.GradedCount)
	fmt.Printf("gpa:             %.2f\n", view.Stats.GPA)
	fmt.Printf("attendance rate: %.2f%%\n", view.Stats.AttendanceRate)
	fmt.Printf("standing:        %s\n", view.Stats.Standing)
	return nil
}

func (a *app) roster(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("roster", flag.ExitOnError)
	course := fs.String("course", "", "course code (required)")
	out := fs.String("o", "", "output file (default stdout)")
	fs.Parse(args)

	handler := query.NewGetRosterHandler(a.courses, a.enrollments)

	// The roster joins course and enrollment reads; a read-only
	// transaction keeps them on one snapshot.
	var view *query.RosterView
	err := a.conn.RunInReadTx(ctx, func(ctx context.Context) error {
		var err error
		view, err = handler.Handle(ctx, query.GetRosterQuery{CourseCode: *course})
		return err
	})
	if err != nil {
		return err
	}

	return withOutput(*out, func(w io.Writer) error {
		return reporting.WriteRosterCSV(w, view.Entries)
	})
}

func (a *app) standings(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("standings", flag.ExitOnError)
	standing := fs.String("standing", "", "filter by standing")
	out := fs.String("o", "", "output file (default stdout)")
	fs.Parse(args)

	var cache query.StandingsCache
	if c := a.standingsCache(); c != nil {
		cache = c
	}
	handler := query.NewGetStandingsHandler(a.stats, cache, a.log)

	standings, err := handler.Handle(ctx, query.GetStandingsQuery{
		Standing: metrics.Standing(*standing),
	})
	if err != nil {
		return err
	}

	return withOutput(*out, func(w io.Writer) error {
		return reporting.WriteStandingsCSV(w, standings)
	})
}

// standingsCache dials the cache when enabled; failures just disable it.
func (a *app) standingsCache() *redis.StandingsCache {
	if !a.cfg.Redis.Enabled {
		return nil
	}

	var (
		cache *redis.Cache
		err   error
	)
	if a.cfg.Redis.URL != "" {
		cache, err = redis.NewCacheFromURL(a.cfg.Redis.URL)
	} else {
		rcfg := redis.DefaultConfig()
		rcfg.Host = a.cfg.Redis.Host
		rcfg.Port = a.cfg.Redis.Port
		rcfg.Password = a.cfg.Redis.Password
		rcfg.DB = a.cfg.Redis.DB
		cache, err = redis.NewCache(rcfg)
	}
	if err != nil {
		a.log.Warn("redis unavailable, reading standings from store", logger.Err(err))
		return nil
	}

	return redis.NewStandingsCache(cache, a.cfg.Redis.TTL)
}

// migrate applies pending migrations, or rolls back the most recent one,
// then prints the per-version schema status.
func (a *app) migrate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	rollback := fs.Bool("rollback", false, "roll back the most recent migration")
	fs.Parse(args)

	m := postgres.NewMigrator(a.conn)

	if *rollback {
		if err := m.Rollback(ctx); err != nil {
			return fmt.Errorf("failed to rollback: %w", err)
		}
	} else {
		if err := m.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}

	status, err := m.Status(ctx)
	if err != nil {
		return err
	}
	for _, mig := range status {
		state := "pending"
		if mig.IsApplied {
			state = "applied " + mig.AppliedAt.Format("2006-01-02 15:04")
		}
		fmt.Printf("%3d  %-22s %s\n", mig.Version, mig.Name, state)
	}
	return nil
}

func withOutput(path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return err
	}
	return f.Close()
}
