package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"portal/internal/auth"
	"portal/internal/config"
	"portal/internal/entity"
	"portal/internal/model"
	"portal/internal/storage"
)

const testJWTSecret = "test-secret-0123456789"

type testServer struct {
	router *gin.Engine
	repo   model.Repository
	cfg    config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := config.Config{
		DBType:               "sqlite",
		DBPath:               filepath.Join(dir, "portal_test.db"),
		StorageType:          "local",
		StorageLocalDir:      filepath.Join(dir, "files"),
		StoragePublicBaseURL: "/files",
		JWTSecret:            testJWTSecret,
		JWTIssuer:            "portal",
		JWTExpirationMinutes: 60,
		AdminEmail:           "admin@portal.com",
		AdminPassword:        "admin-pass-123",
		AdminName:            "Administrator",
	}

	repo, err := model.InitRepository(&cfg)
	require.NoError(t, err)
	require.NoError(t, model.SeedAdminUser(t.Context(), repo, cfg))

	store, err := storage.NewStorage(cfg)
	require.NoError(t, err)

	handler, err := NewHTTPHandler(cfg, repo, store)
	require.NoError(t, err)

	r := gin.New()
	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", handler.Register)
	authGroup.POST("/login", handler.Login)

	protected := apiGroup.Group("")
	protected.Use(handler.AuthMiddleware())
	protected.GET("/me", handler.Me)
	protected.PATCH("/me", handler.UpdateMe)
	protected.GET("/announcements", handler.ListAnnouncements)
	protected.GET("/materials", handler.ListMaterials)

	teacherGroup := protected.Group("/teacher")
	teacherGroup.Use(handler.RequireRoles(entity.RoleTeacher, entity.RoleAdmin))
	teacherGroup.GET("/courses", handler.ListTeacherCourses)
	teacherGroup.POST("/courses", handler.CreateCourse)
	teacherGroup.POST("/assignments", handler.CreateAssignment)
	teacherGroup.GET("/submissions/:assignment_id", handler.ListSubmissions)
	teacherGroup.POST("/grade", handler.GradeSubmission)
	teacherGroup.POST("/announcements", handler.CreateAnnouncement)
	teacherGroup.POST("/materials", handler.CreateMaterial)

	studentGroup := protected.Group("/student")
	studentGroup.Use(handler.RequireRoles(entity.RoleStudent))
	studentGroup.GET("/courses", handler.ListStudentCourses)
	studentGroup.POST("/enroll", handler.EnrollCourse)
	studentGroup.GET("/assignments", handler.ListStudentAssignments)
	studentGroup.POST("/submit", handler.SubmitAssignment)
	studentGroup.POST("/submissions/upload", handler.UploadSubmissionFile)

	adminGroup := protected.Group("/admin")
	adminGroup.Use(handler.RequireRoles(entity.RoleAdmin))
	adminGroup.GET("/users", handler.ListUsers)
	adminGroup.POST("/approve", handler.ApproveUser)
	adminGroup.POST("/assign-teacher", handler.AssignTeacher)
	adminGroup.GET("/stats", handler.Stats)

	return &testServer{router: r, repo: repo, cfg: cfg}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	return decodeJSON[APIError](t, w)
}

func (s *testServer) register(t *testing.T, name, email, password, role string) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     role,
	})
}

func (s *testServer) login(t *testing.T, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": password,
	})
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	w := s.login(t, s.cfg.AdminEmail, s.cfg.AdminPassword)
	require.Equal(t, http.StatusOK, w.Code, "admin login failed: %s", w.Body.String())
	return decodeJSON[entity.AuthResponse](t, w).Token
}

// registerApprovedTeacher 注册一个教师并由管理员批准，返回可用 token。
func (s *testServer) registerApprovedTeacher(t *testing.T, email string) string {
	t.Helper()
	w := s.register(t, "Teacher", email, "password123", "teacher")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeJSON[entity.AuthResponse](t, w)

	admin := s.adminToken(t)
	approve := s.do(t, http.MethodPost, "/api/admin/approve", admin, gin.H{"user_id": created.User.ID})
	require.Equal(t, http.StatusOK, approve.Code, approve.Body.String())

	login := s.login(t, email, "password123")
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())
	return decodeJSON[entity.AuthResponse](t, login).Token
}

func (s *testServer) registerStudent(t *testing.T, email string) string {
	t.Helper()
	w := s.register(t, "Student", email, "password123", "student")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeJSON[entity.AuthResponse](t, w).Token
}

func TestRegisterStudentGetsUsableToken(t *testing.T) {
	s := newTestServer(t)

	w := s.register(t, "Alice", "alice@example.com", "password123", "student")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decodeJSON[entity.AuthResponse](t, w)
	require.NotEmpty(t, resp.Token)
	require.True(t, resp.User.Approved)
	require.Equal(t, entity.RoleStudent, resp.User.Role)

	me := s.do(t, http.MethodGet, "/api/me", resp.Token, nil)
	require.Equal(t, http.StatusOK, me.Code)
	profile := decodeJSON[entity.UserSummary](t, me)
	require.Equal(t, "alice@example.com", profile.Email)
}

func TestTeacherApprovalGate(t *testing.T) {
	s := newTestServer(t)

	w := s.register(t, "Bob", "bob@example.com", "password123", "teacher")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeJSON[entity.AuthResponse](t, w)
	require.False(t, created.User.Approved)

	// 注册返回的 token 也不能使用，中间件按数据库状态拦截
	me := s.do(t, http.MethodGet, "/api/me", created.Token, nil)
	require.Equal(t, http.StatusForbidden, me.Code)
	require.Equal(t, ErrCodePendingApproval, decodeAPIError(t, me).Code)

	login := s.login(t, "bob@example.com", "password123")
	require.Equal(t, http.StatusForbidden, login.Code)
	require.Equal(t, ErrCodePendingApproval, decodeAPIError(t, login).Code)

	admin := s.adminToken(t)
	approve := s.do(t, http.MethodPost, "/api/admin/approve", admin, gin.H{"user_id": created.User.ID})
	require.Equal(t, http.StatusOK, approve.Code, approve.Body.String())
	require.True(t, decodeJSON[entity.UserSummary](t, approve).Approved)

	login = s.login(t, "bob@example.com", "password123")
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())
}

func TestRegisterAdminRejected(t *testing.T) {
	s := newTestServer(t)

	w := s.register(t, "Mallory", "mallory@example.com", "password123", "admin")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, ErrCodeInvalidRequest, decodeAPIError(t, w).Code)
}

func TestRegisterInvalidRole(t *testing.T) {
	s := newTestServer(t)

	w := s.register(t, "Eve", "eve@example.com", "password123", "superuser")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestServer(t)

	first := s.register(t, "Alice", "alice@example.com", "password123", "student")
	require.Equal(t, http.StatusCreated, first.Code)

	second := s.register(t, "Alice Again", "alice@example.com", "password456", "student")
	require.Equal(t, http.StatusConflict, second.Code)
	require.Equal(t, ErrCodeEmailExists, decodeAPIError(t, second).Code)

	// 邮箱大小写不同也算重复
	third := s.register(t, "Alice Upper", "ALICE@example.com", "password456", "student")
	require.Equal(t, http.StatusConflict, third.Code)
}

func TestLoginDoesNotLeakAccountExistence(t *testing.T) {
	s := newTestServer(t)

	w := s.register(t, "Alice", "alice@example.com", "password123", "student")
	require.Equal(t, http.StatusCreated, w.Code)

	unknown := s.login(t, "nobody@example.com", "password123")
	wrongPass := s.login(t, "alice@example.com", "wrong-password")

	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, http.StatusUnauthorized, wrongPass.Code)

	unknownErr := decodeAPIError(t, unknown)
	wrongErr := decodeAPIError(t, wrongPass)
	require.Equal(t, unknownErr.Code, wrongErr.Code)
	require.Equal(t, unknownErr.Message, wrongErr.Message)
	require.Equal(t, ErrCodeInvalidCredentials, unknownErr.Code)
}

func TestAuthMiddlewareRejections(t *testing.T) {
	s := newTestServer(t)

	t.Run("missing header", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/me", "", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, ErrCodeUnauthorized, decodeAPIError(t, w).Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Basic abc123")
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, ErrCodeUnauthorized, decodeAPIError(t, w).Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/me", "not-a-jwt", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, ErrCodeUnauthorized, decodeAPIError(t, w).Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := auth.NewManager("another-secret-value", "portal", time.Hour)
		require.NoError(t, err)
		token, _, err := other.IssueToken(&entity.DbUser{ID: 1, Role: entity.RoleAdmin})
		require.NoError(t, err)

		w := s.do(t, http.MethodGet, "/api/me", token, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, ErrCodeUnauthorized, decodeAPIError(t, w).Code)
	})
}

func TestExpiredTokenReportedSeparately(t *testing.T) {
	s := newTestServer(t)
	s.registerStudent(t, "alice@example.com")

	// 手工签发一个已过期但签名正确的 token
	now := time.Now().UTC()
	claims := auth.Claims{
		UserID: 2,
		Role:   entity.RoleStudent,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "2",
			Issuer:    "portal",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
			NotBefore: jwt.NewNumericDate(now.Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	w := s.do(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, ErrCodeTokenExpired, decodeAPIError(t, w).Code)
}

func TestTokenForDeletedAccountRejected(t *testing.T) {
	s := newTestServer(t)

	// 签名正确但 subject 不存在
	manager, err := auth.NewManager(testJWTSecret, "portal", time.Hour)
	require.NoError(t, err)
	token, _, err := manager.IssueToken(&entity.DbUser{ID: 9999, Role: entity.RoleStudent})
	require.NoError(t, err)

	w := s.do(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, ErrCodeUnauthorized, decodeAPIError(t, w).Code)
}

func TestCourseOwnershipMatrix(t *testing.T) {
	s := newTestServer(t)

	ownerToken := s.registerApprovedTeacher(t, "owner@example.com")
	otherToken := s.registerApprovedTeacher(t, "other@example.com")
	adminToken := s.adminToken(t)

	created := s.do(t, http.MethodPost, "/api/teacher/courses", ownerToken, gin.H{
		"title":   "Algebra",
		"subject": "math",
	})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	course := decodeJSON[entity.DbCourse](t, created)

	assignmentBody := gin.H{"course_id": course.ID, "title": "Homework 1"}

	t.Run("owner may create assignment", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/teacher/assignments", ownerToken, assignmentBody)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("other teacher is rejected", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/teacher/assignments", otherToken, assignmentBody)
		require.Equal(t, http.StatusForbidden, w.Code)
		require.Equal(t, ErrCodeNotCourseOwner, decodeAPIError(t, w).Code)
	})

	t.Run("admin bypasses ownership", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/teacher/assignments", adminToken, assignmentBody)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("unknown course is 404", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/teacher/assignments", ownerToken, gin.H{
			"course_id": 9999, "title": "Ghost",
		})
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, ErrCodeCourseNotFound, decodeAPIError(t, w).Code)
	})
}

func TestRoleGuards(t *testing.T) {
	s := newTestServer(t)

	studentToken := s.registerStudent(t, "student@example.com")
	teacherToken := s.registerApprovedTeacher(t, "teacher@example.com")

	t.Run("student cannot reach teacher routes", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/teacher/courses", studentToken, gin.H{"title": "Nope"})
		require.Equal(t, http.StatusForbidden, w.Code)
		require.Equal(t, ErrCodeForbidden, decodeAPIError(t, w).Code)
	})

	t.Run("teacher cannot reach student routes", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/student/enroll", teacherToken, gin.H{"course_id": 1})
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("teacher cannot reach admin routes", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/admin/stats", teacherToken, nil)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestStudentSubmissionFlow(t *testing.T) {
	s := newTestServer(t)

	teacherToken := s.registerApprovedTeacher(t, "teacher@example.com")
	studentToken := s.registerStudent(t, "student@example.com")

	created := s.do(t, http.MethodPost, "/api/teacher/courses", teacherToken, gin.H{"title": "Physics"})
	require.Equal(t, http.StatusCreated, created.Code)
	course := decodeJSON[entity.DbCourse](t, created)

	aw := s.do(t, http.MethodPost, "/api/teacher/assignments", teacherToken, gin.H{
		"course_id": course.ID, "title": "Lab report",
	})
	require.Equal(t, http.StatusCreated, aw.Code)
	assignment := decodeJSON[entity.DbAssignment](t, aw)

	// 未选课时提交被拒
	denied := s.do(t, http.MethodPost, "/api/student/submit", studentToken, gin.H{
		"assignment_id": assignment.ID, "content": "draft",
	})
	require.Equal(t, http.StatusForbidden, denied.Code)
	require.Equal(t, ErrCodeNotEnrolled, decodeAPIError(t, denied).Code)

	enroll := s.do(t, http.MethodPost, "/api/student/enroll", studentToken, gin.H{"course_id": course.ID})
	require.Equal(t, http.StatusCreated, enroll.Code)

	// 重复选课是幂等的
	again := s.do(t, http.MethodPost, "/api/student/enroll", studentToken, gin.H{"course_id": course.ID})
	require.Equal(t, http.StatusOK, again.Code)

	courses := s.do(t, http.MethodGet, "/api/student/courses", studentToken, nil)
	require.Equal(t, http.StatusOK, courses.Code)
	require.Len(t, decodeJSON[[]entity.DbCourse](t, courses), 1)

	submit := s.do(t, http.MethodPost, "/api/student/submit", studentToken, gin.H{
		"assignment_id": assignment.ID, "content": "first version",
	})
	require.Equal(t, http.StatusCreated, submit.Code, submit.Body.String())
	submission := decodeJSON[entity.DbSubmission](t, submit)

	// 重新提交覆盖原内容
	resubmit := s.do(t, http.MethodPost, "/api/student/submit", studentToken, gin.H{
		"assignment_id": assignment.ID, "content": "second version",
	})
	require.Equal(t, http.StatusOK, resubmit.Code)
	updated := decodeJSON[entity.DbSubmission](t, resubmit)
	require.Equal(t, submission.ID, updated.ID)
	require.Equal(t, "second version", updated.Content)

	listPath := fmt.Sprintf("/api/teacher/submissions/%d", assignment.ID)
	listed := s.do(t, http.MethodGet, listPath, teacherToken, nil)
	require.Equal(t, http.StatusOK, listed.Code)
	require.Len(t, decodeJSON[[]entity.DbSubmission](t, listed), 1)

	graded := s.do(t, http.MethodPost, "/api/teacher/grade", teacherToken, gin.H{
		"submission_id": submission.ID, "grade": 92.5, "feedback": "well done",
	})
	require.Equal(t, http.StatusOK, graded.Code, graded.Body.String())
	final := decodeJSON[entity.DbSubmission](t, graded)
	require.NotNil(t, final.Grade)
	require.InDelta(t, 92.5, *final.Grade, 0.001)
	require.Equal(t, "well done", final.Feedback)
}

func TestSubmissionFileUpload(t *testing.T) {
	s := newTestServer(t)

	teacherToken := s.registerApprovedTeacher(t, "teacher@example.com")
	studentToken := s.registerStudent(t, "student@example.com")

	created := s.do(t, http.MethodPost, "/api/teacher/courses", teacherToken, gin.H{"title": "Biology"})
	require.Equal(t, http.StatusCreated, created.Code)
	course := decodeJSON[entity.DbCourse](t, created)

	aw := s.do(t, http.MethodPost, "/api/teacher/assignments", teacherToken, gin.H{
		"course_id": course.ID, "title": "Herbarium",
	})
	require.Equal(t, http.StatusCreated, aw.Code)
	assignment := decodeJSON[entity.DbAssignment](t, aw)

	enroll := s.do(t, http.MethodPost, "/api/student/enroll", studentToken, gin.H{"course_id": course.ID})
	require.Equal(t, http.StatusCreated, enroll.Code)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "herbarium scan.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4 herbarium"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/student/submissions/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+studentToken)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	uploaded := decodeJSON[map[string]string](t, w)
	fileURL := uploaded["file_url"]
	require.True(t, strings.HasPrefix(fileURL, "/files/submissions/"), "got %q", fileURL)

	submit := s.do(t, http.MethodPost, "/api/student/submit", studentToken, gin.H{
		"assignment_id": assignment.ID, "content": "see attachment", "file_url": fileURL,
	})
	require.Equal(t, http.StatusCreated, submit.Code, submit.Body.String())
	require.Equal(t, fileURL, decodeJSON[entity.DbSubmission](t, submit).FileURL)

	t.Run("missing file part is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/student/submissions/upload", nil)
		req.Header.Set("Authorization", "Bearer "+studentToken)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, ErrCodeMissingField, decodeAPIError(t, w).Code)
	})
}

func TestAnnouncementVisibility(t *testing.T) {
	s := newTestServer(t)

	teacherToken := s.registerApprovedTeacher(t, "teacher@example.com")
	enrolledToken := s.registerStudent(t, "enrolled@example.com")
	outsiderToken := s.registerStudent(t, "outsider@example.com")

	created := s.do(t, http.MethodPost, "/api/teacher/courses", teacherToken, gin.H{"title": "History"})
	require.Equal(t, http.StatusCreated, created.Code)
	course := decodeJSON[entity.DbCourse](t, created)

	enroll := s.do(t, http.MethodPost, "/api/student/enroll", enrolledToken, gin.H{"course_id": course.ID})
	require.Equal(t, http.StatusCreated, enroll.Code)

	global := s.do(t, http.MethodPost, "/api/teacher/announcements", teacherToken, gin.H{
		"title": "Welcome", "content": "portal open",
	})
	require.Equal(t, http.StatusCreated, global.Code, global.Body.String())

	scoped := s.do(t, http.MethodPost, "/api/teacher/announcements", teacherToken, gin.H{
		"title": "Exam", "content": "next week", "audience": "course", "course_id": course.ID,
	})
	require.Equal(t, http.StatusCreated, scoped.Code, scoped.Body.String())

	// course audience 没带 course_id 是 400
	missing := s.do(t, http.MethodPost, "/api/teacher/announcements", teacherToken, gin.H{
		"title": "Broken", "content": "x", "audience": "course",
	})
	require.Equal(t, http.StatusBadRequest, missing.Code)
	require.Equal(t, ErrCodeMissingField, decodeAPIError(t, missing).Code)

	enrolledList := s.do(t, http.MethodGet, "/api/announcements", enrolledToken, nil)
	require.Equal(t, http.StatusOK, enrolledList.Code)
	require.Len(t, decodeJSON[[]entity.DbAnnouncement](t, enrolledList), 2)

	outsiderList := s.do(t, http.MethodGet, "/api/announcements", outsiderToken, nil)
	require.Equal(t, http.StatusOK, outsiderList.Code)
	outsiderItems := decodeJSON[[]entity.DbAnnouncement](t, outsiderList)
	require.Len(t, outsiderItems, 1)
	require.Equal(t, "Welcome", outsiderItems[0].Title)

	teacherList := s.do(t, http.MethodGet, "/api/announcements", teacherToken, nil)
	require.Equal(t, http.StatusOK, teacherList.Code)
	require.Len(t, decodeJSON[[]entity.DbAnnouncement](t, teacherList), 2)
}

func TestMaterialVisibility(t *testing.T) {
	s := newTestServer(t)

	teacherToken := s.registerApprovedTeacher(t, "teacher@example.com")
	enrolledToken := s.registerStudent(t, "enrolled@example.com")
	outsiderToken := s.registerStudent(t, "outsider@example.com")

	created := s.do(t, http.MethodPost, "/api/teacher/courses", teacherToken, gin.H{"title": "Chemistry"})
	require.Equal(t, http.StatusCreated, created.Code)
	course := decodeJSON[entity.DbCourse](t, created)

	enroll := s.do(t, http.MethodPost, "/api/student/enroll", enrolledToken, gin.H{"course_id": course.ID})
	require.Equal(t, http.StatusCreated, enroll.Code)

	material := s.do(t, http.MethodPost, "/api/teacher/materials", teacherToken, gin.H{
		"course_id": course.ID, "title": "Syllabus", "file_url": "https://example.com/syllabus.pdf",
	})
	require.Equal(t, http.StatusCreated, material.Code, material.Body.String())

	enrolledList := s.do(t, http.MethodGet, "/api/materials", enrolledToken, nil)
	require.Equal(t, http.StatusOK, enrolledList.Code)
	require.Len(t, decodeJSON[[]entity.DbMaterial](t, enrolledList), 1)

	outsiderList := s.do(t, http.MethodGet, "/api/materials", outsiderToken, nil)
	require.Equal(t, http.StatusOK, outsiderList.Code)
	require.Empty(t, decodeJSON[[]entity.DbMaterial](t, outsiderList))
}

func TestAdminUserListingAndStats(t *testing.T) {
	s := newTestServer(t)

	s.registerStudent(t, "s1@example.com")
	s.registerStudent(t, "s2@example.com")
	s.registerApprovedTeacher(t, "t1@example.com")
	admin := s.adminToken(t)

	listed := s.do(t, http.MethodGet, "/api/admin/users?role=student", admin, nil)
	require.Equal(t, http.StatusOK, listed.Code, listed.Body.String())
	page := decodeJSON[entity.UserListResponse](t, listed)
	require.Len(t, page.Users, 2)
	require.EqualValues(t, 2, page.Meta.Total)

	stats := s.do(t, http.MethodGet, "/api/admin/stats", admin, nil)
	require.Equal(t, http.StatusOK, stats.Code)
	counts := decodeJSON[entity.PortalStats](t, stats)
	require.EqualValues(t, 4, counts.Users) // admin + 两个学生 + 一个教师
	require.EqualValues(t, 2, counts.Students)
	require.EqualValues(t, 1, counts.Teachers)
}

func TestAssignTeacherTransfersOwnership(t *testing.T) {
	s := newTestServer(t)

	fromToken := s.registerApprovedTeacher(t, "from@example.com")
	s.registerApprovedTeacher(t, "to@example.com")
	admin := s.adminToken(t)

	created := s.do(t, http.MethodPost, "/api/teacher/courses", fromToken, gin.H{"title": "Latin"})
	require.Equal(t, http.StatusCreated, created.Code)
	course := decodeJSON[entity.DbCourse](t, created)

	loginTo := s.login(t, "to@example.com", "password123")
	require.Equal(t, http.StatusOK, loginTo.Code)
	toResp := decodeJSON[entity.AuthResponse](t, loginTo)

	w := s.do(t, http.MethodPost, "/api/admin/assign-teacher", admin, gin.H{
		"course_id": course.ID, "teacher_id": toResp.User.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, toResp.User.ID, decodeJSON[entity.DbCourse](t, w).TeacherID)

	t.Run("non-teacher target is rejected", func(t *testing.T) {
		s.registerStudent(t, "stud@example.com")
		loginStud := s.login(t, "stud@example.com", "password123")
		studID := decodeJSON[entity.AuthResponse](t, loginStud).User.ID

		w := s.do(t, http.MethodPost, "/api/admin/assign-teacher", admin, gin.H{
			"course_id": course.ID, "teacher_id": studID,
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProfileUpdate(t *testing.T) {
	s := newTestServer(t)

	token := s.registerStudent(t, "alice@example.com")

	w := s.do(t, http.MethodPatch, "/api/me", token, gin.H{"name": "Alice Liddell", "bio": "studies math"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	profile := decodeJSON[entity.UserSummary](t, w)
	require.Equal(t, "Alice Liddell", profile.Name)
	require.Equal(t, "studies math", profile.Bio)

	// 没有字段的 PATCH 是无操作
	noop := s.do(t, http.MethodPatch, "/api/me", token, gin.H{})
	require.Equal(t, http.StatusOK, noop.Code)
}
