// Package etl wires the pipeline stages together: extract, normalize,
// aggregate, load. Stages run sequentially; a stage only ever sees the
// completed output of the previous one.
package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/elite-academy/records-etl/internal/etl/aggregate"
	"github.com/elite-academy/records-etl/internal/etl/load"
	"github.com/elite-academy/records-etl/internal/etl/normalize"
	"github.com/elite-academy/records-etl/internal/etl/source"
	"github.com/elite-academy/records-etl/pkg/logger"
)

// RunSummary is the outcome of one pipeline run.
type RunSummary struct {
	RunID    string
	Duration time.Duration

	Students   normalize.DropReport
	Courses    normalize.DropReport
	Aggregates aggregate.Report
	Load       load.Summary
}

// Pipeline runs the four stages over one set of source files.
type Pipeline struct {
	paths      source.Paths
	normalizer *normalize.Normalizer
	aggregator *aggregate.Aggregator
	loader     *load.Loader
	log        *logger.Logger
}

// New creates a Pipeline.
func New(paths source.Paths, n *normalize.Normalizer, a *aggregate.Aggregator, l *load.Loader, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Default()
	}
	return &Pipeline{
		paths:      paths,
		normalizer: n,
		aggregator: a,
		loader:     l,
		log:        log,
	}
}

// Run executes one full extract-transform-aggregate-load cycle. Extract
// failures and load-phase structural failures abort the run; per-record
// problems are counted in the summary instead.
func (p *Pipeline) Run(ctx context.Context) (*RunSummary, error) {
	start := time.Now()
	summary := &RunSummary{RunID: uuid.NewString()}
	log := p.log.WithRunID(summary.RunID)

	log.Info("pipeline run started")

	// Extract.
	extract, err := source.ReadAll(p.paths)
	if err != nil {
		return summary, fmt.Errorf("extract: %w", err)
	}
	log.Info("extract complete",
		logger.Int("student_rows", len(extract.Students)),
		logger.Int("course_entries", len(extract.Courses)),
		logger.Int("grade_rows", len(extract.Grades)),
		logger.Int("attendance_rows", len(extract.Attendance)),
	)

	// Transform.
	students, studentReport := p.normalizer.Students(extract.Students)
	summary.Students = studentReport
	log.Info("students normalized",
		logger.Stage("normalize"),
		logger.Count(studentReport.Kept),
		logger.Skipped(studentReport.TotalDropped()),
	)

	courses, courseReport := p.normalizer.Courses(extract.Courses)
	summary.Courses = courseReport
	log.Info("courses normalized",
		logger.Stage("normalize"),
		logger.Count(courseReport.Kept),
		logger.Skipped(courseReport.TotalDropped()),
	)

	// Aggregate.
	stats, aggReport := p.aggregator.Compute(extract.Grades, extract.Attendance)
	summary.Aggregates = aggReport
	log.Info("stats aggregated",
		logger.Stage("aggregate"),
		logger.Count(aggReport.Students),
		logger.Skipped(aggReport.SkippedScores+aggReport.SkippedRows),
	)

	// Load.
	loadSummary, err := p.loader.Load(ctx, students, courses, stats)
	if loadSummary != nil {
		summary.Load = *loadSummary
	}
	if err != nil {
		return summary, fmt.Errorf("load: %w", err)
	}
	log.Info("load complete",
		logger.Stage("load"),
		logger.Int("students_inserted", loadSummary.StudentsInserted),
		logger.Int("courses_inserted", loadSummary.CoursesInserted),
		logger.Int("stats_upserted", loadSummary.StatsUpserted),
	)

	summary.Duration = time.Since(start)
	log.Info("pipeline run finished", logger.Duration("duration", summary.Duration))

	return summary, nil
}
