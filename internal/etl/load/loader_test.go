package load

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elite-academy/records-etl/internal/domain/course"
	"github.com/elite-academy/records-etl/internal/domain/metrics"
	"github.com/elite-academy/records-etl/internal/domain/student"
)

// ─────────────────────────────────────────────────────────────────────────────
// In-memory fakes
// ─────────────────────────────────────────────────────────────────────────────

type passthroughTx struct {
	runs int
}

func (p *passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.runs++
	return fn(ctx)
}

type fakeStudentRepo struct {
	byEmail map[string]*student.Record
	nextID  int64

	// conflictOn simulates a stored service number colliding with the
	// record keyed by email, the way the store reports it.
	conflictOn map[string]bool
	attempted  []string
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{byEmail: make(map[string]*student.Record)}
}

func (f *fakeStudentRepo) Insert(_ context.Context, rec *student.Record) (bool, error) {
	f.attempted = append(f.attempted, rec.Email)
	if f.conflictOn[rec.Email] {
		return false, fmt.Errorf("%w: %s", student.ErrServiceNumberConflict, rec.ServiceNumber)
	}
	if _, ok := f.byEmail[rec.Email]; ok {
		return false, nil
	}
	f.nextID++
	rec.ID = f.nextID
	f.byEmail[rec.Email] = rec
	return true, nil
}

func (f *fakeStudentRepo) GetByEmail(_ context.Context, email string) (*student.Record, error) {
	rec, ok := f.byEmail[student.CanonicalEmail(email)]
	if !ok {
		return nil, student.ErrStudentNotFound
	}
	return rec, nil
}

func (f *fakeStudentRepo) ResolveID(_ context.Context, email string) (int64, error) {
	rec, ok := f.byEmail[student.CanonicalEmail(email)]
	if !ok {
		return 0, student.ErrStudentNotFound
	}
	return rec.ID, nil
}

func (f *fakeStudentRepo) Count(_ context.Context) (int, error) {
	return len(f.byEmail), nil
}

type fakeCourseRepo struct {
	byCode map[string]*course.Record
	nextID int64
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{byCode: make(map[string]*course.Record)}
}

func (f *fakeCourseRepo) Insert(_ context.Context, rec *course.Record) (bool, error) {
	if _, ok := f.byCode[rec.Code]; ok {
		return false, nil
	}
	f.nextID++
	rec.ID = f.nextID
	f.byCode[rec.Code] = rec
	return true, nil
}

func (f *fakeCourseRepo) GetByCode(_ context.Context, code string) (*course.Record, error) {
	rec, ok := f.byCode[code]
	if !ok {
		return nil, course.ErrCourseNotFound
	}
	return rec, nil
}

func (f *fakeCourseRepo) ResolveID(_ context.Context, code string) (int64, error) {
	rec, ok := f.byCode[code]
	if !ok {
		return 0, course.ErrCourseNotFound
	}
	return rec.ID, nil
}

func (f *fakeCourseRepo) List(_ context.Context) ([]*course.Record, error) {
	var all []*course.Record
	for _, rec := range f.byCode {
		all = append(all, rec)
	}
	return all, nil
}

type fakeStatsRepo struct {
	byStudentID map[int64]*metrics.StudentStats
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{byStudentID: make(map[int64]*metrics.StudentStats)}
}

func (f *fakeStatsRepo) Upsert(_ context.Context, studentID int64, stats *metrics.StudentStats) error {
	f.byStudentID[studentID] = stats
	return nil
}

func (f *fakeStatsRepo) GetByEmail(_ context.Context, email string) (*metrics.StudentStats, error) {
	for _, st := range f.byStudentID {
		if st.Email == student.CanonicalEmail(email) {
			return st, nil
		}
	}
	return nil, metrics.ErrStatsNotFound
}

func (f *fakeStatsRepo) ListStandings(_ context.Context) ([]*metrics.StudentStats, error) {
	var all []*metrics.StudentStats
	for _, st := range f.byStudentID {
		all = append(all, st)
	}
	return all, nil
}

type fakeCompanies struct {
	byName map[string]int64
}

func (f *fakeCompanies) ResolveByName(_ context.Context, name string) (int64, error) {
	id, ok := f.byName[name]
	if !ok {
		return 0, student.ErrCompanyNotFound
	}
	return id, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────────────────────────────────────

type fixture struct {
	loader   *Loader
	tx       *passthroughTx
	students *fakeStudentRepo
	courses  *fakeCourseRepo
	stats    *fakeStatsRepo
}

func newFixture(batchSize int) *fixture {
	f := &fixture{
		tx:       &passthroughTx{},
		students: newFakeStudentRepo(),
		courses:  newFakeCourseRepo(),
		stats:    newFakeStatsRepo(),
	}
	f.loader = New(Options{
		Tx:          f.tx,
		Students:    f.students,
		Courses:     f.courses,
		Stats:       f.stats,
		Companies:   &fakeCompanies{byName: map[string]int64{"Alpha Company": 1}},
		CompanyName: "Alpha Company",
		BatchSize:   batchSize,
	})
	return f
}

func mustRecord(t *testing.T, email string) *student.Record {
	t.Helper()
	rec, err := student.NewRecord("SN-2026-0001", "Thabo", "Nkosi", email)
	assert.NoError(t, err)
	return rec
}

func mustCourse(t *testing.T, code string) *course.Record {
	t.Helper()
	rec, err := course.NewRecord(code, "Basic Training", "Infantry", 3)
	assert.NoError(t, err)
	return rec
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestLoad_AssignsCompanyAndInserts(t *testing.T) {
	f := newFixture(100)

	summary, err := f.loader.Load(context.Background(),
		[]*student.Record{mustRecord(t, "thabo@academy.mil")},
		[]*course.Record{mustCourse(t, "MIL-101")},
		[]*metrics.StudentStats{{Email: "thabo@academy.mil", GPA: 3.4, AttendanceRate: 100, Standing: metrics.StandingGoodStanding}},
	)

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.StudentsInserted)
	assert.Equal(t, 1, summary.CoursesInserted)
	assert.Equal(t, 1, summary.StatsUpserted)
	assert.Equal(t, 0, summary.StatsOrphaned)

	loaded, err := f.students.GetByEmail(context.Background(), "thabo@academy.mil")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), loaded.CompanyID)
}

func TestLoad_MissingCompanyAbortsBeforeWriting(t *testing.T) {
	f := newFixture(100)
	f.loader.companyName = "Omega Company"

	_, err := f.loader.Load(context.Background(),
		[]*student.Record{mustRecord(t, "thabo@academy.mil")}, nil, nil)

	assert.ErrorIs(t, err, student.ErrCompanyNotFound)
	count, _ := f.students.Count(context.Background())
	assert.Equal(t, 0, count)
}

func TestLoad_IdempotentReRun(t *testing.T) {
	f := newFixture(100)

	students := []*student.Record{mustRecord(t, "thabo@academy.mil")}
	courses := []*course.Record{mustCourse(t, "MIL-101")}
	stats := []*metrics.StudentStats{{Email: "thabo@academy.mil", Standing: metrics.StandingGoodStanding}}

	_, err := f.loader.Load(context.Background(), students, courses, stats)
	assert.NoError(t, err)

	// Second run over the same data inserts nothing new.
	summary, err := f.loader.Load(context.Background(), students, courses, stats)
	assert.NoError(t, err)
	assert.Equal(t, 0, summary.StudentsInserted)
	assert.Equal(t, 1, summary.StudentsSkipped)
	assert.Equal(t, 0, summary.CoursesInserted)
	assert.Equal(t, 1, summary.CoursesSkipped)
	assert.Equal(t, 1, summary.StatsUpserted)

	count, _ := f.students.Count(context.Background())
	assert.Equal(t, 1, count)
}

func TestLoad_OrphanedStatsAreSkipped(t *testing.T) {
	f := newFixture(100)

	summary, err := f.loader.Load(context.Background(), nil, nil,
		[]*metrics.StudentStats{{Email: "ghost@academy.mil", Standing: metrics.StandingGoodStanding}})

	assert.NoError(t, err)
	assert.Equal(t, 0, summary.StatsUpserted)
	assert.Equal(t, 1, summary.StatsOrphaned)
}

func TestLoad_ServiceNumberConflictSkipsOnlyThatRecord(t *testing.T) {
	f := newFixture(100)
	f.students.conflictOn = map[string]bool{"b@academy.mil": true}

	students := []*student.Record{
		mustRecord(t, "a@academy.mil"),
		mustRecord(t, "b@academy.mil"),
		mustRecord(t, "c@academy.mil"),
	}

	summary, err := f.loader.Load(context.Background(), students, nil, nil)

	// One rejected record must not abort the batch or shadow the rest.
	assert.NoError(t, err)
	assert.Equal(t, 2, summary.StudentsInserted)
	assert.Equal(t, 1, summary.StudentsFailed)
	assert.Equal(t, []string{"a@academy.mil", "b@academy.mil", "c@academy.mil"}, f.students.attempted)

	_, err = f.students.GetByEmail(context.Background(), "c@academy.mil")
	assert.NoError(t, err)
}

func TestLoad_BatchesIntoTransactions(t *testing.T) {
	f := newFixture(2)

	students := []*student.Record{
		mustRecord(t, "a@academy.mil"),
		mustRecord(t, "b@academy.mil"),
		mustRecord(t, "c@academy.mil"),
		mustRecord(t, "d@academy.mil"),
		mustRecord(t, "e@academy.mil"),
	}

	summary, err := f.loader.Load(context.Background(), students, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 5, summary.StudentsInserted)
	// Five students at batch size two is three transactions.
	assert.Equal(t, 3, f.tx.runs)
}

func TestChunk(t *testing.T) {
	assert.Nil(t, chunk([]int{}, 2))
	assert.Len(t, chunk([]int{1, 2, 3}, 0), 1)

	batches := chunk([]int{1, 2, 3, 4, 5}, 2)
	assert.Len(t, batches, 3)
	assert.Equal(t, []int{5}, batches[2])
}
