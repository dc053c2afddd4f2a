// Package load implements the load phase: writing clean records and
// aggregated stats into the store in batched transactions. Loads are
// idempotent by natural key, so re-running the pipeline over the same
// inputs never duplicates rows.
package load

import (
	"context"
	"errors"
	"fmt"

	"github.com/elite-academy/records-etl/internal/domain/course"
	"github.com/elite-academy/records-etl/internal/domain/metrics"
	"github.com/elite-academy/records-etl/internal/domain/student"
	"github.com/elite-academy/records-etl/pkg/logger"
)

// TxRunner runs a function within one storage transaction. The postgres
// Connection implements it; tests substitute a pass-through.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Summary counts the outcome of one load. Skips are per-record outcomes,
// not errors; a structural failure aborts the load instead.
type Summary struct {
	StudentsInserted int
	StudentsSkipped  int

	// StudentsFailed counts records rejected by the store for a
	// per-record reason, e.g. a colliding synthetic service number.
	StudentsFailed int

	CoursesInserted int
	CoursesSkipped  int

	StatsUpserted int

	// StatsOrphaned counts stats rows whose email matched no loaded
	// student, usually because the student record was dropped upstream.
	StatsOrphaned int
}

// Loader writes the transform and aggregate outputs through the domain
// repositories.
type Loader struct {
	tx        TxRunner
	students  student.Repository
	courses   course.Repository
	stats     metrics.Repository
	companies student.CompanyDirectory

	companyName string
	batchSize   int
	log         *logger.Logger
}

// Options configures a Loader.
type Options struct {
	Tx        TxRunner
	Students  student.Repository
	Courses   course.Repository
	Stats     metrics.Repository
	Companies student.CompanyDirectory

	// CompanyName is the organizational unit assigned to every student.
	CompanyName string

	// BatchSize is records per transaction; values below 1 load
	// everything in a single transaction.
	BatchSize int

	Logger *logger.Logger
}

// New creates a Loader.
func New(opts Options) *Loader {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	return &Loader{
		tx:          opts.Tx,
		students:    opts.Students,
		courses:     opts.Courses,
		stats:       opts.Stats,
		companies:   opts.Companies,
		companyName: opts.CompanyName,
		batchSize:   opts.BatchSize,
		log:         log.With(logger.Component("loader")),
	}
}

// Load writes students, courses, and stats, in that order. Stats join back
// to students by email, so students must land first. The default company
// is resolved up front; its absence is a precondition failure that aborts
// the run before anything is written.
func (l *Loader) Load(ctx context.Context, students []*student.Record, courses []*course.Record, stats []*metrics.StudentStats) (*Summary, error) {
	companyID, err := l.companies.ResolveByName(ctx, l.companyName)
	if err != nil {
		return nil, fmt.Errorf("resolve default company %q: %w", l.companyName, err)
	}

	summary := &Summary{}

	if err := l.loadStudents(ctx, students, companyID, summary); err != nil {
		return summary, fmt.Errorf("load students: %w", err)
	}
	if err := l.loadCourses(ctx, courses, summary); err != nil {
		return summary, fmt.Errorf("load courses: %w", err)
	}
	if err := l.loadStats(ctx, stats, summary); err != nil {
		return summary, fmt.Errorf("load stats: %w", err)
	}

	return summary, nil
}

func (l *Loader) loadStudents(ctx context.Context, records []*student.Record, companyID int64, summary *Summary) error {
	for _, batch := range chunk(records, l.batchSize) {
		err := l.tx.RunInTx(ctx, func(ctx context.Context) error {
			for _, rec := range batch {
				rec.CompanyID = companyID

				inserted, err := l.students.Insert(ctx, rec)
				if err != nil {
					// A rejected record is skipped; only structural
					// failures abort the batch.
					if errors.Is(err, student.ErrServiceNumberConflict) {
						summary.StudentsFailed++
						l.log.Warn("student rejected by store, skipped",
							logger.Email(rec.Email),
							logger.Err(err),
						)
						continue
					}
					return err
				}
				if !inserted {
					summary.StudentsSkipped++
					l.log.Debug("student already present, skipped", logger.Email(rec.Email))
					continue
				}
				summary.StudentsInserted++
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadCourses(ctx context.Context, records []*course.Record, summary *Summary) error {
	for _, batch := range chunk(records, l.batchSize) {
		err := l.tx.RunInTx(ctx, func(ctx context.Context) error {
			for _, rec := range batch {
				inserted, err := l.courses.Insert(ctx, rec)
				if err != nil {
					return err
				}
				if !inserted {
					summary.CoursesSkipped++
					l.log.Debug("course already present, skipped", logger.CourseCode(rec.Code))
					continue
				}
				summary.CoursesInserted++
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadStats(ctx context.Context, all []*metrics.StudentStats, summary *Summary) error {
	for _, batch := range chunk(all, l.batchSize) {
		err := l.tx.RunInTx(ctx, func(ctx context.Context) error {
			for _, st := range batch {
				studentID, err := l.students.ResolveID(ctx, st.Email)
				if err != nil {
					if isNotFound(err) {
						summary.StatsOrphaned++
						l.log.Warn("stats for unknown student, skipped", logger.Email(st.Email))
						continue
					}
					return err
				}

				if err := l.stats.Upsert(ctx, studentID, st); err != nil {
					return err
				}
				summary.StatsUpserted++
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, student.ErrStudentNotFound)
}

// chunk splits a slice into batches of at most size elements. Size below 1
// yields a single batch.
func chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size < 1 {
		return [][]T{items}
	}

	var batches [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}
