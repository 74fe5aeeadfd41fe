package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rateme/internal/config"
	"rateme/internal/httpapi/middleware"
	"rateme/internal/httpapi/models"
	"rateme/internal/httpapi/repository"
	"rateme/internal/httpapi/service"
	"rateme/internal/mailer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeCompletion stands in for the external completion service.
type fakeCompletion struct {
	response string
	err      error
}

func (f *fakeCompletion) GenerateText(_ context.Context, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
}

// newTestApp wires the full API over an in-memory database, the way the
// server binary does it, minus Redis and SendGrid.
func newTestApp(t *testing.T, completion service.CompletionClient) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Course{},
		&models.Feedback{},
		&models.Suggestion{},
	))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}

	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	suggestionRepo := repository.NewSuggestionRepository(db)

	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	courseService := service.NewCourseService(courseRepo)
	notificationService := service.NewNotificationService(mailer.NewConsoleMailer(log), "", log)
	feedbackService := service.NewFeedbackService(feedbackRepo, courseRepo, userRepo, notificationService, nil, log)
	statsService := service.NewStatsService(feedbackRepo, nil, log)
	suggestionService := service.NewSuggestionService(suggestionRepo, feedbackRepo, userRepo, completion, notificationService, log)
	profileService := service.NewProfileService(userRepo, t.TempDir(), 800, log)

	r := gin.New()
	api := r.Group("/api")
	NewAuthHandler(authService).RegisterRoutes(api)

	protected := api.Group("", middleware.AuthMiddleware(authService))
	NewCourseHandler(courseService).RegisterRoutes(protected)
	NewFeedbackHandler(feedbackService, courseService, userRepo).RegisterRoutes(protected)
	NewSuggestionHandler(suggestionService).RegisterRoutes(protected)
	NewDashboardHandler(courseService, feedbackService, statsService, suggestionService).RegisterRoutes(protected)
	NewReportHandler(feedbackService, statsService, userRepo).RegisterRoutes(protected)
	NewProfileHandler(profileService).RegisterRoutes(protected)

	return &testApp{router: r, db: db}
}

func (app *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

// register creates an account through the API and returns its token and ID.
func (app *testApp) register(t *testing.T, username string, role models.Role) (token, userID string) {
	t.Helper()

	w := app.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username":   username,
		"email":      username + "@example.com",
		"password":   "secret123",
		"first_name": "Test",
		"last_name":  username,
		"role":       string(role),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
		UserID      string `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken, resp.UserID
}

func (app *testApp) createCourse(t *testing.T, token, code string) int64 {
	t.Helper()

	w := app.do(t, http.MethodPost, "/api/courses", token, gin.H{
		"code": code,
		"name": "Course " + code,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ID
}

func TestRegisterLoginFlow(t *testing.T) {
	app := newTestApp(t, nil)

	token, _ := app.register(t, "alice", models.RoleStudent)
	require.NotEmpty(t, token)

	w := app.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t, nil)

	w := app.do(t, http.MethodGet, "/api/dashboard", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodGet, "/api/dashboard", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGating(t *testing.T) {
	app := newTestApp(t, nil)

	studentToken, _ := app.register(t, "student1", models.RoleStudent)
	lecturerToken, _ := app.register(t, "lecturer1", models.RoleLecturer)

	// lecturer-only routes reject students
	w := app.do(t, http.MethodPost, "/api/courses", studentToken, gin.H{"code": "CS101", "name": "Intro"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodPost, "/api/suggestions", studentToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodGet, "/api/reports/feedback", studentToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// student-only routes reject lecturers
	w = app.do(t, http.MethodGet, "/api/lecturers", lecturerToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestFeedbackSubmitAndDuplicate(t *testing.T) {
	app := newTestApp(t, nil)

	studentToken, _ := app.register(t, "student1", models.RoleStudent)
	lecturerToken, lecturerID := app.register(t, "lecturer1", models.RoleLecturer)
	courseID := app.createCourse(t, lecturerToken, "CS101")

	path := fmt.Sprintf("/api/lecturers/%s/feedback", lecturerID)
	body := gin.H{
		"course_id":       courseID,
		"rating":          4,
		"teaching_rating": 5,
		"comment":         "clear explanations",
	}

	w := app.do(t, http.MethodPost, path, studentToken, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(t, http.MethodPost, path, studentToken, body)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "already submitted feedback")
}

func TestFeedbackSubmit_ValidationAndUnknowns(t *testing.T) {
	app := newTestApp(t, nil)

	studentToken, _ := app.register(t, "student1", models.RoleStudent)
	lecturerToken, lecturerID := app.register(t, "lecturer1", models.RoleLecturer)
	courseID := app.createCourse(t, lecturerToken, "CS101")

	path := fmt.Sprintf("/api/lecturers/%s/feedback", lecturerID)

	// rating out of range fails binding
	w := app.do(t, http.MethodPost, path, studentToken, gin.H{"course_id": courseID, "rating": 6})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// unknown lecturer
	w = app.do(t, http.MethodPost, "/api/lecturers/00000000-0000-0000-0000-000000000000/feedback", studentToken,
		gin.H{"course_id": courseID, "rating": 4})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestLecturerDashboard(t *testing.T) {
	app := newTestApp(t, nil)

	studentToken, _ := app.register(t, "student1", models.RoleStudent)
	lecturerToken, lecturerID := app.register(t, "lecturer1", models.RoleLecturer)
	courseID := app.createCourse(t, lecturerToken, "CS101")

	w := app.do(t, http.MethodPost, fmt.Sprintf("/api/lecturers/%s/feedback", lecturerID), studentToken, gin.H{
		"course_id":    courseID,
		"rating":       5,
		"is_anonymous": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(t, http.MethodGet, "/api/dashboard", lecturerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Role           string    `json:"role"`
		AvgRating      float64   `json:"avg_rating"`
		TotalFeedback  int64     `json:"total_feedback"`
		ChartLabels    []string  `json:"chart_labels"`
		ChartData      []float64 `json:"chart_data"`
		RecentFeedback []struct {
			StudentName string `json:"student_name"`
		} `json:"recent_feedback"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "lecturer", resp.Role)
	require.Equal(t, 5.0, resp.AvgRating)
	require.Equal(t, int64(1), resp.TotalFeedback)
	require.Equal(t, service.ChartLabels, resp.ChartLabels)
	require.Len(t, resp.RecentFeedback, 1)
	require.Equal(t, "Anonymous", resp.RecentFeedback[0].StudentName)
}

func TestStudentDashboard(t *testing.T) {
	app := newTestApp(t, nil)

	studentToken, _ := app.register(t, "student1", models.RoleStudent)
	lecturerToken, _ := app.register(t, "lecturer1", models.RoleLecturer)
	app.createCourse(t, lecturerToken, "CS101")

	w := app.do(t, http.MethodGet, "/api/dashboard", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Role    string `json:"role"`
		Courses []struct {
			Code string `json:"code"`
		} `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "student", resp.Role)
	require.Len(t, resp.Courses, 1)
	require.Equal(t, "CS101", resp.Courses[0].Code)
}

func TestSuggestionEndpoints(t *testing.T) {
	app := newTestApp(t, &fakeCompletion{response: "1. Teaching: use more examples"})

	studentToken, _ := app.register(t, "student1", models.RoleStudent)
	lecturerToken, lecturerID := app.register(t, "lecturer1", models.RoleLecturer)
	courseID := app.createCourse(t, lecturerToken, "CS101")

	// no feedback yet
	w := app.do(t, http.MethodPost, "/api/suggestions", lecturerToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "No feedback available yet")

	w = app.do(t, http.MethodPost, fmt.Sprintf("/api/lecturers/%s/feedback", lecturerID), studentToken,
		gin.H{"course_id": courseID, "rating": 3, "comment": "too fast"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(t, http.MethodPost, "/api/suggestions", lecturerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), "use more examples")

	w = app.do(t, http.MethodGet, "/api/suggestions", lecturerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Suggestions []struct {
			BasedOnFeedbackCount int `json:"based_on_feedback_count"`
		} `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Suggestions, 1)
	require.Equal(t, 1, resp.Suggestions[0].BasedOnFeedbackCount)
}

func TestSuggestionGenerate_NotConfigured(t *testing.T) {
	app := newTestApp(t, nil)

	studentToken, _ := app.register(t, "student1", models.RoleStudent)
	lecturerToken, lecturerID := app.register(t, "lecturer1", models.RoleLecturer)
	courseID := app.createCourse(t, lecturerToken, "CS101")

	w := app.do(t, http.MethodPost, fmt.Sprintf("/api/lecturers/%s/feedback", lecturerID), studentToken,
		gin.H{"course_id": courseID, "rating": 3})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(t, http.MethodPost, "/api/suggestions", lecturerToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "not configured")
}

func TestReportExport(t *testing.T) {
	app := newTestApp(t, nil)

	studentToken, _ := app.register(t, "student1", models.RoleStudent)
	lecturerToken, lecturerID := app.register(t, "lecturer1", models.RoleLecturer)
	courseID := app.createCourse(t, lecturerToken, "CS101")

	// nothing to export yet
	w := app.do(t, http.MethodGet, "/api/reports/feedback", lecturerToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "No feedback available to export")

	w = app.do(t, http.MethodPost, fmt.Sprintf("/api/lecturers/%s/feedback", lecturerID), studentToken,
		gin.H{"course_id": courseID, "rating": 4})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(t, http.MethodGet, "/api/reports/feedback", lecturerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "feedback_report_lecturer1_")
	require.Equal(t, "%PDF", w.Body.String()[:4])
}

func TestCourseCreate_DuplicateCode(t *testing.T) {
	app := newTestApp(t, nil)

	lecturerToken, _ := app.register(t, "lecturer1", models.RoleLecturer)
	app.createCourse(t, lecturerToken, "CS101")

	w := app.do(t, http.MethodPost, "/api/courses", lecturerToken, gin.H{
		"code": "CS101",
		"name": "Duplicate",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestProfilePictureUpload(t *testing.T) {
	app := newTestApp(t, nil)

	token, _ := app.register(t, "student1", models.RoleStudent)

	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("profile_picture", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write(pngBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/users/me/profile-picture", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), ".jpg")
}

func TestListLecturersWithCourses(t *testing.T) {
	app := newTestApp(t, nil)

	studentToken, _ := app.register(t, "student1", models.RoleStudent)
	lecturerToken, lecturerID := app.register(t, "lecturer1", models.RoleLecturer)
	app.createCourse(t, lecturerToken, "CS101")
	app.createCourse(t, lecturerToken, "CS202")

	w := app.do(t, http.MethodGet, "/api/lecturers", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Lecturers []struct {
			ID      string `json:"id"`
			Courses []struct {
				Code string `json:"code"`
			} `json:"courses"`
		} `json:"lecturers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Lecturers, 1)
	require.Equal(t, lecturerID, resp.Lecturers[0].ID)
	require.Len(t, resp.Lecturers[0].Courses, 2)

	w = app.do(t, http.MethodGet, fmt.Sprintf("/api/lecturers/%s/courses", lecturerID), studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}
