package scoring

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/database"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

type fixture struct {
	class    models.SchoolClass
	subjects []models.Subject
	student  models.Student
}

func seed(t *testing.T, db *gorm.DB, subjectNames ...string) fixture {
	t.Helper()
	f := fixture{class: models.SchoolClass{Name: "8-A"}}
	require.NoError(t, db.Create(&f.class).Error)
	for _, name := range subjectNames {
		subj := models.Subject{ClassID: f.class.ID, Name: name}
		require.NoError(t, db.Create(&subj).Error)
		f.subjects = append(f.subjects, subj)
	}
	f.student = models.Student{ClassID: f.class.ID, FullName: "Sara Ahmadi", RollNumber: 1, NationalID: "0012345678"}
	require.NoError(t, db.Create(&f.student).Error)
	return f
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func requireDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(dec(want)), "want %s, got %s", want, got)
}

func addEntry(t *testing.T, db *gorm.DB, studentID uint, subjectID *uint, kind models.EntryKind, value *decimal.Decimal, createdAt time.Time) {
	t.Helper()
	e := models.GradebookEntry{
		StudentID: studentID,
		SubjectID: subjectID,
		Kind:      kind,
		Value:     value,
		Date:      time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC),
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(&e).Error)
}

func addGrade(t *testing.T, db *gorm.DB, studentID, subjectID uint, score string) {
	t.Helper()
	g := models.Grade{StudentID: studentID, SubjectID: subjectID, Score: dec(score)}
	require.NoError(t, db.Create(&g).Error)
}

func addAbsences(t *testing.T, db *gorm.DB, studentID uint, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		a := models.Attendance{
			StudentID: studentID,
			Date:      time.Date(2025, 9, 1+i, 0, 0, 0, 0, time.UTC),
			Present:   false,
		}
		require.NoError(t, db.Create(&a).Error)
	}
}

func TestEffectiveScoreUndefined(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db, "Math")

	_, ok, err := EffectiveScore(db, f.student.ID, f.subjects[0].ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEffectiveScoreBaseOnly(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db, "Math")
	addGrade(t, db, f.student.ID, f.subjects[0].ID, "17.25")

	score, ok, err := EffectiveScore(db, f.student.ID, f.subjects[0].ID)
	require.NoError(t, err)
	require.True(t, ok)
	requireDec(t, "17.25", score)
}

func TestOverrideWinsOverBase(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db, "Math")
	addGrade(t, db, f.student.ID, f.subjects[0].ID, "10")
	addEntry(t, db, f.student.ID, &f.subjects[0].ID, models.EntryOverride, decPtr("15"), time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC))

	score, ok, err := EffectiveScore(db, f.student.ID, f.subjects[0].ID)
	require.NoError(t, err)
	require.True(t, ok)
	requireDec(t, "15", score)
}

func TestLastOverrideWins(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db, "Math")
	addGrade(t, db, f.student.ID, f.subjects[0].ID, "10")
	addEntry(t, db, f.student.ID, &f.subjects[0].ID, models.EntryOverride, decPtr("15"), time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC))
	addEntry(t, db, f.student.ID, &f.subjects[0].ID, models.EntryOverride, decPtr("8"), time.Date(2025, 10, 2, 10, 0, 0, 0, time.UTC))

	score, _, err := EffectiveScore(db, f.student.ID, f.subjects[0].ID)
	require.NoError(t, err)
	requireDec(t, "8", score)
}

func TestAdjustmentsUseMagnitudeOnly(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db, "Math")
	addGrade(t, db, f.student.ID, f.subjects[0].ID, "10")
	// a pos entry stored as -3 still adds 3; a neg entry stored as 2 subtracts 2
	addEntry(t, db, f.student.ID, &f.subjects[0].ID, models.EntryPositive, decPtr("-3"), time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC))
	addEntry(t, db, f.student.ID, &f.subjects[0].ID, models.EntryNegative, decPtr("2"), time.Date(2025, 10, 2, 10, 0, 0, 0, time.UTC))

	score, ok, err := EffectiveScore(db, f.student.ID, f.subjects[0].ID)
	require.NoError(t, err)
	require.True(t, ok)
	requireDec(t, "11", score)
}

func TestAdjustmentsWithoutBaseStayUndefined(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db, "Math")
	addEntry(t, db, f.student.ID, &f.subjects[0].ID, models.EntryPositive, decPtr("3"), time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC))

	_, ok, err := EffectiveScore(db, f.student.ID, f.subjects[0].ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNilValueEntriesAreSkipped(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db, "Math")
	addGrade(t, db, f.student.ID, f.subjects[0].ID, "10")
	addEntry(t, db, f.student.ID, &f.subjects[0].ID, models.EntryPositive, nil, time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC))

	score, _, err := EffectiveScore(db, f.student.ID, f.subjects[0].ID)
	require.NoError(t, err)
	requireDec(t, "10", score)
}

func TestStudentAverageWithAbsencePenalty(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db, "Math", "Physics")
	addGrade(t, db, f.student.ID, f.subjects[0].ID, "12")
	addGrade(t, db, f.student.ID, f.subjects[1].ID, "16")
	addAbsences(t, db, f.student.ID, 3)

	avg, ok, err := StudentAverage(db, f.student.ID)
	require.NoError(t, err)
	require.True(t, ok)
	requireDec(t, "13.4", avg)
}

func TestStudentAverageClampedAtZero(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db, "Math")
	addGrade(t, db, f.student.ID, f.subjects[0].ID, "1")
	addAbsences(t, db, f.student.ID, 10)

	avg, ok, err := StudentAverage(db, f.student.ID)
	require.NoError(t, err)
	require.True(t, ok)
	requireDec(t, "0", avg)
}

func TestStudentAverageUndefinedWithoutScores(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db, "Math", "Physics")
	addAbsences(t, db, f.student.ID, 2)

	_, ok, err := StudentAverage(db, f.student.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStudentAverageSkipsUndefinedSubjects(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db, "Math", "Physics", "Chemistry")
	addGrade(t, db, f.student.ID, f.subjects[0].ID, "12")
	addGrade(t, db, f.student.ID, f.subjects[1].ID, "16")
	// Chemistry has no grade and no override: it must not drag the mean down.

	avg, ok, err := StudentAverage(db, f.student.ID)
	require.NoError(t, err)
	require.True(t, ok)
	requireDec(t, "14", avg)
}

func TestClassAverageUsesRawGradesOnly(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db, "Math", "Physics")
	other := models.Student{ClassID: f.class.ID, FullName: "Omid Karimi", RollNumber: 2}
	require.NoError(t, db.Create(&other).Error)

	addGrade(t, db, f.student.ID, f.subjects[0].ID, "10")
	addGrade(t, db, other.ID, f.subjects[1].ID, "20")
	// overrides and adjustments must not leak into the class mean
	addEntry(t, db, f.student.ID, &f.subjects[0].ID, models.EntryOverride, decPtr("0"), time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC))

	avg, ok, err := ClassAverage(db, f.class.ID)
	require.NoError(t, err)
	require.True(t, ok)
	requireDec(t, "15", avg)
}

func TestClassAverageUndefinedWithoutGrades(t *testing.T) {
	db := newTestDB(t)
	f := seed(t, db, "Math")

	_, ok, err := ClassAverage(db, f.class.ID)
	require.NoError(t, err)
	require.False(t, ok)
}
