package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elite-academy/records-etl/internal/domain/student"
	"github.com/elite-academy/records-etl/internal/etl/normalize"
)

type fakeStudentRepo struct {
	records map[string]*student.Record
	nextID  int64
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{records: make(map[string]*student.Record)}
}

func (f *fakeStudentRepo) Insert(_ context.Context, rec *student.Record) (bool, error) {
	if _, ok := f.records[rec.Email]; ok {
		return false, nil
	}
	f.nextID++
	rec.ID = f.nextID
	f.records[rec.Email] = rec
	return true, nil
}

func (f *fakeStudentRepo) GetByEmail(_ context.Context, email string) (*student.Record, error) {
	rec, ok := f.records[student.CanonicalEmail(email)]
	if !ok {
		return nil, student.ErrStudentNotFound
	}
	return rec, nil
}

func (f *fakeStudentRepo) ResolveID(_ context.Context, email string) (int64, error) {
	rec, err := f.GetByEmail(context.Background(), email)
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (f *fakeStudentRepo) Count(context.Context) (int, error) {
	return len(f.records), nil
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

func newAddStudentHandler(repo *fakeStudentRepo) *AddStudentHandler {
	companies := &fakeCompanies{byName: map[string]int64{"Alpha Company": 1}}
	return NewAddStudentHandler(repo, companies, normalize.NewServiceNumberGenerator(42), nil)
}

func TestAddStudent_CleansAndRegisters(t *testing.T) {
	repo := newFakeStudentRepo()
	h := newAddStudentHandler(repo)

	result, err := h.Handle(context.Background(), AddStudentCommand{
		FullName:    "  thabo   NKOSI ",
		Email:       " Thabo@Academy.MIL ",
		Phone:       "0821234567",
		DateOfBirth: "12/04/1999",
		Rank:        "cadet",
		Company:     "Alpha Company",
	})
	assert.NoError(t, err)
	assert.Equal(t, "thabo@academy.mil", result.Email)
	assert.NotEmpty(t, result.ServiceNumber)

	rec := repo.records["thabo@academy.mil"]
	assert.Equal(t, "Thabo", rec.FirstName)
	assert.Equal(t, "Nkosi", rec.LastName)
	assert.Equal(t, "+27 82 123 4567", rec.Phone)
	assert.Equal(t, student.RankCadet, rec.Rank)
	assert.Equal(t, int64(1), rec.CompanyID)
}

func TestAddStudent_DuplicateEmailIsAnError(t *testing.T) {
	repo := newFakeStudentRepo()
	h := newAddStudentHandler(repo)

	_, err := h.Handle(context.Background(), AddStudentCommand{
		FullName: "Thabo Nkosi",
		Email:    "thabo@academy.mil",
		Company:  "Alpha Company",
	})
	assert.NoError(t, err)

	_, err = h.Handle(context.Background(), AddStudentCommand{
		FullName: "Thabo Nkosi",
		Email:    "THABO@academy.mil",
		Company:  "Alpha Company",
	})
	assert.ErrorIs(t, err, student.ErrStudentAlreadyExists)
	assert.Equal(t, 1, len(repo.records))
}

func TestAddStudent_UnknownCompanyRejected(t *testing.T) {
	h := newAddStudentHandler(newFakeStudentRepo())

	_, err := h.Handle(context.Background(), AddStudentCommand{
		FullName: "Thabo Nkosi",
		Email:    "thabo@academy.mil",
		Company:  "Omega Company",
	})
	assert.ErrorIs(t, err, student.ErrCompanyNotFound)
}

func TestAddStudentCommand_Validate(t *testing.T) {
	valid := AddStudentCommand{
		FullName: "Thabo Nkosi",
		Email:    "thabo@academy.mil",
		Company:  "Alpha Company",
	}
	assert.NoError(t, valid.Validate())

	missingName := valid
	missingName.FullName = ""
	assert.Error(t, missingName.Validate())

	badEmail := valid
	badEmail.Email = "not-an-email"
	assert.ErrorIs(t, badEmail.Validate(), student.ErrInvalidEmail)

	missingCompany := valid
	missingCompany.Company = ""
	assert.Error(t, missingCompany.Validate())
}
