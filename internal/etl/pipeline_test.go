package etl

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/elite-academy/records-etl/internal/domain/course"
	"github.com/elite-academy/records-etl/internal/domain/metrics"
	"github.com/elite-academy/records-etl/internal/domain/student"
	"github.com/elite-academy/records-etl/internal/etl/aggregate"
	"github.com/elite-academy/records-etl/internal/etl/load"
	"github.com/elite-academy/records-etl/internal/etl/normalize"
	"github.com/elite-academy/records-etl/internal/etl/source"
)

// ─────────────────────────────────────────────────────────────────────────────
// In-memory store
// ─────────────────────────────────────────────────────────────────────────────

// memStore implements every repository the loader needs, in one struct.
type memStore struct {
	students map[string]*student.Record
	courses  map[string]*course.Record
	stats    map[int64]*metrics.StudentStats
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{
		students: make(map[string]*student.Record),
		courses:  make(map[string]*course.Record),
		stats:    make(map[int64]*metrics.StudentStats),
	}
}

func (m *memStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *memStore) Insert(_ context.Context, rec *student.Record) (bool, error) {
	if _, ok := m.students[rec.Email]; ok {
		return false, nil
	}
	m.nextID++
	rec.ID = m.nextID
	m.students[rec.Email] = rec
	return true, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*student.Record, error) {
	rec, ok := m.students[student.CanonicalEmail(email)]
	if !ok {
		return nil, student.ErrStudentNotFound
	}
	return rec, nil
}

func (m *memStore) ResolveID(_ context.Context, email string) (int64, error) {
	rec, ok := m.students[student.CanonicalEmail(email)]
	if !ok {
		return 0, student.ErrStudentNotFound
	}
	return rec.ID, nil
}

func (m *memStore) Count(_ context.Context) (int, error) { return len(m.students), nil }

type memCourses struct{ store *memStore }

func (c memCourses) Insert(_ context.Context, rec *course.Record) (bool, error) {
	if _, ok := c.store.courses[rec.Code]; ok {
		return false, nil
	}
	c.store.nextID++
	rec.ID = c.store.nextID
	c.store.courses[rec.Code] = rec
	return true, nil
}

func (c memCourses) GetByCode(_ context.Context, code string) (*course.Record, error) {
	rec, ok := c.store.courses[code]
	if !ok {
		return nil, course.ErrCourseNotFound
	}
	return rec, nil
}

func (c memCourses) ResolveID(_ context.Context, code string) (int64, error) {
	rec, ok := c.store.courses[code]
	if !ok {
		return 0, course.ErrCourseNotFound
	}
	return rec.ID, nil
}

func (c memCourses) List(_ context.Context) ([]*course.Record, error) { return nil, nil }

type memStats struct{ store *memStore }

func (s memStats) Upsert(_ context.Context, studentID int64, stats *metrics.StudentStats) error {
	s.store.stats[studentID] = stats
	return nil
}

func (s memStats) GetByEmail(_ context.Context, email string) (*metrics.StudentStats, error) {
	for _, st := range s.store.stats {
		if st.Email == student.CanonicalEmail(email) {
			return st, nil
		}
	}
	return nil, metrics.ErrStatsNotFound
}

func (s memStats) ListStandings(_ context.Context) ([]*metrics.StudentStats, error) { return nil, nil }

type memCompanies struct{}

func (memCompanies) ResolveByName(_ context.Context, name string) (int64, error) {
	if name != "Alpha Company" {
		return 0, student.ErrCompanyNotFound
	}
	return 1, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────────────────────────────────────

const studentsCSV = `Full Name,Email Address,Phone_Num,DOB,Rank
thabo NKOSI,Thabo.Nkosi@Academy.MIL,082 123 4567,1999-04-12,Cadet
jan smit,jan.smit@academy.mil,27821234567,12/03/2000,Private
jan smit,JAN.SMIT@academy.mil,,,
broken record,no-email-here,,,
zanele dlamini,zanele@academy.mil,12345,1998/07/01,General
`

const coursesJSON = `[
	{"course_code": "MIL-101", "course_title": "Basic Training", "department": "Infantry", "credits": 3, "difficulty": "Basic", "description": "Drill and discipline."},
	{"course_code": "MIL-101", "course_title": "Basic Training Again", "department": "Infantry", "credits": 3, "difficulty": "Basic", "description": ""},
	{"course_code": "NAV-201", "course_title": "Field Navigation", "department": "Recon", "credits": 4, "difficulty": "Intermediate", "description": ""}
]`

const gradesCSV = `Student_Email,Course_Code,Assessment,Raw_Score
thabo.nkosi@academy.mil,MIL-101,exam,80
thabo.nkosi@academy.mil,MIL-101,drill,90
jan.smit@academy.mil,MIL-101,exam,N/A
jan.smit@academy.mil,MIL-101,drill,60
`

const attendanceCSV = `Email,Course,MusterDate,Status
thabo.nkosi@academy.mil,MIL-101,2026-02-01,Present
thabo.nkosi@academy.mil,MIL-101,2026-02-02,Late
jan.smit@academy.mil,MIL-101,2026-02-01,Present
jan.smit@academy.mil,MIL-101,2026-02-02,Absent
`

func writeSources(t *testing.T) source.Paths {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	return source.Paths{
		Students:   write("students_raw.csv", studentsCSV),
		Courses:    write("courses_catalog.json", coursesJSON),
		Grades:     write("grades_raw.csv", gradesCSV),
		Attendance: write("attendance_raw.csv", attendanceCSV),
	}
}

func newTestPipeline(paths source.Paths, store *memStore) *Pipeline {
	gen := normalize.NewServiceNumberGenerator(1).WithClock(func() time.Time {
		return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	})

	loader := load.New(load.Options{
		Tx:          store,
		Students:    store,
		Courses:     memCourses{store},
		Stats:       memStats{store},
		Companies:   memCompanies{},
		CompanyName: "Alpha Company",
		BatchSize:   2,
	})

	return New(paths, normalize.New(gen), aggregate.New(metrics.DefaultGPAScale()), loader, nil)
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestPipeline_FullRun(t *testing.T) {
	store := newMemStore()
	p := newTestPipeline(writeSources(t), store)

	summary, err := p.Run(context.Background())
	assert.NoError(t, err)
	assert.NotEmpty(t, summary.RunID)

	// Five raw students: one duplicate, one invalid email.
	assert.Equal(t, 5, summary.Students.Read)
	assert.Equal(t, 3, summary.Students.Kept)
	assert.Equal(t, 3, summary.Load.StudentsInserted)

	// Three catalog entries, one duplicate code.
	assert.Equal(t, 2, summary.Courses.Kept)
	assert.Equal(t, 2, summary.Load.CoursesInserted)

	// Two students appear in the logs.
	assert.Equal(t, 2, summary.Aggregates.Students)
	assert.Equal(t, 1, summary.Aggregates.SkippedScores)
	assert.Equal(t, 2, summary.Load.StatsUpserted)

	// Thabo: mean 85 -> GPA 3.4, full attendance (Late counts).
	thabo, err := memStats{store}.GetByEmail(context.Background(), "thabo.nkosi@academy.mil")
	assert.NoError(t, err)
	assert.Equal(t, 3.4, thabo.GPA)
	assert.Equal(t, 100.0, thabo.AttendanceRate)
	assert.Equal(t, metrics.StandingGoodStanding, thabo.Standing)

	// Jan: one valid score of 60 -> GPA 2.4, 50% attendance -> warning.
	jan, err := memStats{store}.GetByEmail(context.Background(), "jan.smit@academy.mil")
	assert.NoError(t, err)
	assert.Equal(t, 2.4, jan.GPA)
	assert.Equal(t, 50.0, jan.AttendanceRate)
	assert.Equal(t, metrics.StandingWarning, jan.Standing)

	// The unknown rank fell back to the default.
	zanele, err := store.GetByEmail(context.Background(), "zanele@academy.mil")
	assert.NoError(t, err)
	assert.Equal(t, student.DefaultRank, zanele.Rank)
	assert.Equal(t, "", zanele.Phone)
}

func TestPipeline_ReRunIsIdempotent(t *testing.T) {
	store := newMemStore()
	paths := writeSources(t)

	_, err := newTestPipeline(paths, store).Run(context.Background())
	assert.NoError(t, err)

	summary, err := newTestPipeline(paths, store).Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, summary.Load.StudentsInserted)
	assert.Equal(t, 3, summary.Load.StudentsSkipped)
	assert.Equal(t, 2, summary.Load.StatsUpserted)

	count, _ := store.Count(context.Background())
	assert.Equal(t, 3, count)
}

func TestPipeline_MissingSourceAborts(t *testing.T) {
	store := newMemStore()
	paths := writeSources(t)
	paths.Grades = filepath.Join(t.TempDir(), "absent.csv")

	_, err := newTestPipeline(paths, store).Run(context.Background())
	assert.ErrorIs(t, err, source.ErrSourceNotFound)

	// Nothing was written: extract failures abort before the load phase.
	count, _ := store.Count(context.Background())
	assert.Equal(t, 0, count)
}
