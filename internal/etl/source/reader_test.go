package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "students.csv",
		"Full Name,Email Address\nThabo Nkosi,thabo@academy.mil\nJan Smit,jan@academy.mil\n")

	records, err := ReadCSV(path)
	assert.NoError(t, err)
	assert.Len(t, records, 2)

	assert.Equal(t, "Thabo Nkosi", records[0].Field("Full Name"))
	assert.Equal(t, "jan@academy.mil", records[1].Field("Email Address"))

	_, ok := records[0].Get("No Such Column")
	assert.False(t, ok)
}

func TestReadCSV_MissingFileIsFatal(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestReadCSV_RaggedRowIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.csv", "a,b\n1,2\n3\n")

	_, err := ReadCSV(path)
	assert.ErrorIs(t, err, ErrMalformedSource)
}

func TestReadCSV_EmptyFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.csv", "")

	_, err := ReadCSV(path)
	assert.ErrorIs(t, err, ErrMalformedSource)
}

func TestReadCourseCatalog(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "courses.json", `[
		{"course_code": "MIL-101", "course_title": "Basic Training", "department": "Infantry", "credits": 3, "difficulty": "Basic", "description": "Drill."}
	]`)

	courses, err := ReadCourseCatalog(path)
	assert.NoError(t, err)
	assert.Len(t, courses, 1)
	assert.Equal(t, "MIL-101", courses[0].Code)
	assert.Equal(t, "Basic Training", courses[0].Title)

	credits, err := courses[0].Credits.Int64()
	assert.NoError(t, err)
	assert.Equal(t, int64(3), credits)
}

func TestReadCourseCatalog_InvalidJSONIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "courses.json", `{"not": "a list"`)

	_, err := ReadCourseCatalog(path)
	assert.ErrorIs(t, err, ErrMalformedSource)
}

func TestReadAll_AnyMissingSourceAborts(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{
		Students:   writeFile(t, dir, "students.csv", "Full Name,Email Address\n"),
		Courses:    writeFile(t, dir, "courses.json", "[]"),
		Grades:     writeFile(t, dir, "grades.csv", "Student_Email,Raw_Score\n"),
		Attendance: filepath.Join(dir, "missing.csv"),
	}

	_, err := ReadAll(paths)
	assert.ErrorIs(t, err, ErrSourceNotFound)

	paths.Attendance = writeFile(t, dir, "attendance.csv", "Email,Status\n")
	extract, err := ReadAll(paths)
	assert.NoError(t, err)
	assert.NotNil(t, extract)
	assert.Empty(t, extract.Students)
}
