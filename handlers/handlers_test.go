package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/config"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/database"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/handlers"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/models"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/routes"
)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	e := echo.New()
	e.Validator = handlers.NewValidator()
	routes.Register(e, &config.Config{JWTSecret: "test-secret"})
	return e
}

func doJSON(e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func createStaff(t *testing.T, username, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, database.DB.Create(&models.User{
		Username: username, PasswordHash: string(hash), Name: "Teacher", Role: "staff",
	}).Error)
}

func staffToken(t *testing.T, e *echo.Echo) string {
	t.Helper()
	createStaff(t, "teacher1", "s3cret")
	rec := doJSON(e, http.MethodPost, "/auth/staff/login", "", map[string]string{
		"username": "teacher1", "password": "s3cret",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody(t, rec)["token"].(string)
}

func TestStaffLoginAndAuthGate(t *testing.T) {
	e := newServer(t)
	createStaff(t, "teacher1", "s3cret")

	rec := doJSON(e, http.MethodPost, "/auth/staff/login", "", map[string]string{
		"username": "teacher1", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodGet, "/staff/classes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodPost, "/auth/staff/login", "", map[string]string{
		"username": "teacher1", "password": "s3cret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeBody(t, rec)["token"].(string)

	rec = doJSON(e, http.MethodGet, "/staff/classes", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateClassConflict(t *testing.T) {
	e := newServer(t)
	token := staffToken(t, e)

	rec := doJSON(e, http.MethodPost, "/staff/classes", token, map[string]string{"name": "8-A"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodPost, "/staff/classes", token, map[string]string{"name": "8-A"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CLASS_NAME_EXISTS", decodeBody(t, rec)["error"])
}

func TestStudentLoginAndDashboard(t *testing.T) {
	e := newServer(t)

	class := models.SchoolClass{Name: "8-A"}
	require.NoError(t, database.DB.Create(&class).Error)
	student := models.Student{
		ClassID: class.ID, FullName: "Sara Ahmadi", RollNumber: 1,
		NationalID: "0012345678", Password: "opaque-pass",
	}
	require.NoError(t, database.DB.Create(&student).Error)

	rec := doJSON(e, http.MethodPost, "/auth/student/login", "", map[string]string{
		"national_id": "0012345678", "password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodPost, "/auth/student/login", "", map[string]string{
		"national_id": "0012345678", "password": "opaque-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := decodeBody(t, rec)["token"].(string)

	rec = doJSON(e, http.MethodGet, "/student/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "Sara Ahmadi", body["student"].(map[string]any)["full_name"])

	// student tokens must not open staff routes
	rec = doJSON(e, http.MethodGet, "/staff/classes", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodPost, "/student/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMarkAttendanceIsIdempotent(t *testing.T) {
	e := newServer(t)
	token := staffToken(t, e)

	class := models.SchoolClass{Name: "8-A"}
	require.NoError(t, database.DB.Create(&class).Error)
	student := models.Student{ClassID: class.ID, FullName: "Sara Ahmadi", RollNumber: 1}
	require.NoError(t, database.DB.Create(&student).Error)

	path := fmt.Sprintf("/staff/classes/%d/attendance", class.ID)
	payload := map[string]any{
		"date": "1404/07/25", // Jalali input is accepted on write paths
		"records": []map[string]any{
			{"student_id": student.ID, "present": false},
		},
	}
	rec := doJSON(e, http.MethodPost, path, token, payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// resubmitting the same day corrects in place instead of conflicting
	payload["records"] = []map[string]any{{"student_id": student.ID, "present": true}}
	rec = doJSON(e, http.MethodPost, path, token, payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rows []models.Attendance
	require.NoError(t, database.DB.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Present)
	assert.Equal(t, time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
		rows[0].Date.Format("2006-01-02"))
	require.NotNil(t, rows[0].DateJalali)
	assert.Equal(t, "1404/07/25", *rows[0].DateJalali)
}

func TestGradebookEntryRejectsBadDateAndValue(t *testing.T) {
	e := newServer(t)
	token := staffToken(t, e)

	class := models.SchoolClass{Name: "8-A"}
	require.NoError(t, database.DB.Create(&class).Error)
	student := models.Student{ClassID: class.ID, FullName: "Sara Ahmadi", RollNumber: 1}
	require.NoError(t, database.DB.Create(&student).Error)

	path := fmt.Sprintf("/staff/students/%d/gradebook", student.ID)

	rec := doJSON(e, http.MethodPost, path, token, map[string]any{
		"kind": "pos", "value": 2, "date": "13/13/40",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_DATE", decodeBody(t, rec)["error"])

	// an override without a value is invalid
	rec = doJSON(e, http.MethodPost, path, token, map[string]any{
		"kind": "num", "date": "2025-10-17",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, path, token, map[string]any{
		"kind": "num", "value": 15, "date": "2025-10-17",
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestGradesUpsertAndAverageEndpoint(t *testing.T) {
	e := newServer(t)
	token := staffToken(t, e)

	class := models.SchoolClass{Name: "8-A"}
	require.NoError(t, database.DB.Create(&class).Error)
	math := models.Subject{ClassID: class.ID, Name: "Math"}
	physics := models.Subject{ClassID: class.ID, Name: "Physics"}
	require.NoError(t, database.DB.Create(&math).Error)
	require.NoError(t, database.DB.Create(&physics).Error)
	student := models.Student{ClassID: class.ID, FullName: "Sara Ahmadi", RollNumber: 1}
	require.NoError(t, database.DB.Create(&student).Error)

	path := fmt.Sprintf("/staff/students/%d/grades", student.ID)
	rec := doJSON(e, http.MethodPut, path, token, map[string]any{
		"scores": []map[string]any{
			{"subject_id": math.ID, "score": 12},
			{"subject_id": physics.ID, "score": 16},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// overwrite one score; still exactly one Grade per pair
	rec = doJSON(e, http.MethodPut, path, token, map[string]any{
		"scores": []map[string]any{{"subject_id": math.ID, "score": 14}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var grades []models.Grade
	require.NoError(t, database.DB.Find(&grades).Error)
	assert.Len(t, grades, 2)

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/staff/students/%d/average", student.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	avg, err := decimal.NewFromString(fmt.Sprintf("%v", decodeBody(t, rec)["average"]))
	require.NoError(t, err)
	assert.True(t, avg.Equal(decimal.NewFromInt(15)), "got %s", avg)

	rec = doJSON(e, http.MethodPut, path, token, map[string]any{
		"scores": []map[string]any{{"subject_id": math.ID, "score": 21}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStudentAverageUnknownStudent(t *testing.T) {
	e := newServer(t)
	token := staffToken(t, e)

	rec := doJSON(e, http.MethodGet, "/staff/students/4242/average", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "STUDENT_NOT_FOUND", decodeBody(t, rec)["error"])
}

func TestArchiveResetEndpoint(t *testing.T) {
	e := newServer(t)
	token := staffToken(t, e)

	class := models.SchoolClass{Name: "8-A"}
	require.NoError(t, database.DB.Create(&class).Error)
	student := models.Student{ClassID: class.ID, FullName: "Sara Ahmadi", RollNumber: 1}
	require.NoError(t, database.DB.Create(&student).Error)
	for i := 0; i < 3; i++ {
		require.NoError(t, database.DB.Create(&models.Attendance{
			StudentID: student.ID,
			Date:      time.Date(2025, 9, 1+i, 0, 0, 0, 0, time.UTC),
			Present:   false,
		}).Error)
	}

	rec := doJSON(e, http.MethodPost, "/staff/archive/reset?scope=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/staff/archive/reset", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.EqualValues(t, 3, body["attendance_archived"])
	assert.EqualValues(t, 0, body["gradebook_archived"])

	// drained tables make the next run a no-op
	rec = doJSON(e, http.MethodPost, "/staff/archive/reset", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.EqualValues(t, 0, body["attendance_archived"])

	rec = doJSON(e, http.MethodGet, "/staff/history/attendance?present=0", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 3)

	rec = doJSON(e, http.MethodDelete, "/staff/history/attendance", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(e, http.MethodGet, "/staff/history/attendance", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Empty(t, rows)
}
