package handlers_test

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"jobready-portal/internal/models"
	"jobready-portal/tests/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCoursesAnonymous(t *testing.T) {
	router, ctx := setupRouter(t)
	testutils.CreateTestCourse(t, ctx.DB)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/training/courses", "", ""))
	require.Equal(t, 200, w.Code)

	var resp map[string]interface{}
	testutils.ParseJSONResponse(t, w, &resp)
	courses := resp["data"].([]interface{})
	require.Len(t, courses, 1)
	assert.NotContains(t, courses[0].(map[string]interface{}), "enrolled")
}

func TestListCoursesCategoryFilter(t *testing.T) {
	router, ctx := setupRouter(t)

	testutils.CreateTestCourse(t, ctx.DB)
	other := testutils.CreateTestCourse(t, ctx.DB)
	require.NoError(t, ctx.DB.Model(other).UpdateColumn("category", "cv-writing").Error)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/training/courses?category=cv-writing", "", ""))
	require.Equal(t, 200, w.Code)

	var resp map[string]interface{}
	testutils.ParseJSONResponse(t, w, &resp)
	courses := resp["data"].([]interface{})
	require.Len(t, courses, 1)
	assert.Equal(t, other.ID.String(), courses[0].(map[string]interface{})["id"])
}

func TestGetCourseOrdersModules(t *testing.T) {
	router, ctx := setupRouter(t)
	course := testutils.CreateTestCourse(t, ctx.DB)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/training/courses/"+course.ID.String(), "", ""))
	require.Equal(t, 200, w.Code)

	var resp map[string]interface{}
	testutils.ParseJSONResponse(t, w, &resp)
	modules := resp["data"].(map[string]interface{})["modules"].([]interface{})
	require.Len(t, modules, 2)
	assert.Equal(t, float64(1), modules[0].(map[string]interface{})["order_index"])
	assert.Equal(t, float64(2), modules[1].(map[string]interface{})["order_index"])
}

func TestEnrollLifecycle(t *testing.T) {
	router, ctx := setupRouter(t)

	course := testutils.CreateTestCourse(t, ctx.DB)
	user := testutils.CreateTestUser(t, ctx.DB)
	token := testutils.GenerateAuthToken(t, ctx.JWTService, user.ID)

	url := "/api/training/courses/" + course.ID.String() + "/enroll"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("POST", url, "", token))
	require.Equal(t, 201, w.Code)

	// double enrollment conflicts
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("POST", url, "", token))
	assert.Equal(t, 409, w.Code)
}

func TestEnrollInactiveCourse(t *testing.T) {
	router, ctx := setupRouter(t)

	course := testutils.CreateTestCourse(t, ctx.DB)
	require.NoError(t, ctx.DB.Model(course).UpdateColumn("is_active", false).Error)

	user := testutils.CreateTestUser(t, ctx.DB)
	token := testutils.GenerateAuthToken(t, ctx.JWTService, user.ID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("POST", "/api/training/courses/"+course.ID.String()+"/enroll", "", token))
	assert.Equal(t, 404, w.Code)
}

func TestUpdateProgressCompletion(t *testing.T) {
	router, ctx := setupRouter(t)

	course := testutils.CreateTestCourse(t, ctx.DB)
	user := testutils.CreateTestUser(t, ctx.DB)
	token := testutils.GenerateAuthToken(t, ctx.JWTService, user.ID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest(
		"POST", "/api/training/courses/"+course.ID.String()+"/enroll", "", token))
	require.Equal(t, 201, w.Code)

	progressURL := "/api/training/courses/" + course.ID.String() + "/progress"

	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("PUT", progressURL, `{"progress":50}`, token))
	require.Equal(t, 200, w.Code)

	var enrollment models.UserTraining
	require.NoError(t, ctx.DB.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, 50, enrollment.Progress)
	assert.False(t, enrollment.Completed)
	assert.Nil(t, enrollment.CompletedAt)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("PUT", progressURL, `{"progress":100}`, token))
	require.Equal(t, 200, w.Code)

	require.NoError(t, ctx.DB.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.True(t, enrollment.Completed)
	require.NotNil(t, enrollment.CompletedAt)

	// dropping below 100 clears completion
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("PUT", progressURL, `{"progress":80}`, token))
	require.Equal(t, 200, w.Code)

	require.NoError(t, ctx.DB.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.False(t, enrollment.Completed)
	assert.Nil(t, enrollment.CompletedAt)
}

func TestUpdateProgressNotEnrolled(t *testing.T) {
	router, ctx := setupRouter(t)

	course := testutils.CreateTestCourse(t, ctx.DB)
	user := testutils.CreateTestUser(t, ctx.DB)
	token := testutils.GenerateAuthToken(t, ctx.JWTService, user.ID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest(
		"PUT", "/api/training/courses/"+course.ID.String()+"/progress", `{"progress":50}`, token))
	assert.Equal(t, 404, w.Code)
}

func TestUpdateProgressModuleUpsertIdempotent(t *testing.T) {
	router, ctx := setupRouter(t)

	course := testutils.CreateTestCourse(t, ctx.DB)
	user := testutils.CreateTestUser(t, ctx.DB)
	token := testutils.GenerateAuthToken(t, ctx.JWTService, user.ID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest(
		"POST", "/api/training/courses/"+course.ID.String()+"/enroll", "", token))
	require.Equal(t, 201, w.Code)

	var module models.TrainingModule
	require.NoError(t, ctx.DB.Where("course_id = ?", course.ID).Order("order_index ASC").First(&module).Error)

	body := fmt.Sprintf(`{"progress":50,"module_id":%q}`, module.ID)
	for i := 0; i < 2; i++ {
		w = httptest.NewRecorder()
		router.ServeHTTP(w, testutils.CreateAuthenticatedRequest(
			"PUT", "/api/training/courses/"+course.ID.String()+"/progress", body, token))
		require.Equal(t, 200, w.Code)
	}

	var count int64
	require.NoError(t, ctx.DB.Model(&models.UserModuleProgress{}).
		Where("user_id = ? AND module_id = ?", user.ID, module.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMyCourses(t *testing.T) {
	router, ctx := setupRouter(t)

	course := testutils.CreateTestCourse(t, ctx.DB)
	user := testutils.CreateTestUser(t, ctx.DB)
	token := testutils.GenerateAuthToken(t, ctx.JWTService, user.ID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest(
		"POST", "/api/training/courses/"+course.ID.String()+"/enroll", "", token))
	require.Equal(t, 201, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/training/my-courses", "", token))
	require.Equal(t, 200, w.Code)

	var resp map[string]interface{}
	testutils.ParseJSONResponse(t, w, &resp)
	enrollments := resp["data"].([]interface{})
	require.Len(t, enrollments, 1)
	assert.NotNil(t, enrollments[0].(map[string]interface{})["course"])
}

func TestListCategories(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/training/categories", "", ""))
	require.Equal(t, 200, w.Code)

	var resp map[string]interface{}
	testutils.ParseJSONResponse(t, w, &resp)
	categories := resp["data"].([]interface{})
	assert.Len(t, categories, 6)
}
