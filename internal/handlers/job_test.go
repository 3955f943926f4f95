package handlers_test

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"jobready-portal/internal/models"
	"jobready-portal/tests/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListJobsAnonymousHasNoFlags(t *testing.T) {
	router, ctx := setupRouter(t)
	testutils.CreateTestJob(t, ctx.DB)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/jobs", "", ""))
	require.Equal(t, 200, w.Code)

	var resp map[string]interface{}
	testutils.ParseJSONResponse(t, w, &resp)

	jobs := resp["data"].([]interface{})
	require.Len(t, jobs, 1)

	job := jobs[0].(map[string]interface{})
	assert.NotContains(t, job, "has_applied")
	assert.NotContains(t, job, "is_saved")
}

func TestListJobsAuthenticatedHasFlags(t *testing.T) {
	router, ctx := setupRouter(t)
	testutils.CreateTestJob(t, ctx.DB)

	user := testutils.CreateTestUser(t, ctx.DB)
	token := testutils.GenerateAuthToken(t, ctx.JWTService, user.ID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/jobs", "", token))
	require.Equal(t, 200, w.Code)

	var resp map[string]interface{}
	testutils.ParseJSONResponse(t, w, &resp)

	jobs := resp["data"].([]interface{})
	require.Len(t, jobs, 1)

	job := jobs[0].(map[string]interface{})
	assert.Equal(t, false, job["has_applied"])
	assert.Equal(t, false, job["is_saved"])
}

func TestListJobsExcludesClosedAndInactive(t *testing.T) {
	router, ctx := setupRouter(t)

	open := testutils.CreateTestJob(t, ctx.DB)

	expired := testutils.CreateTestJob(t, ctx.DB)
	require.NoError(t, ctx.DB.Model(expired).
		UpdateColumn("application_deadline", time.Now().UTC().AddDate(0, 0, -1)).Error)

	inactive := testutils.CreateTestJob(t, ctx.DB)
	require.NoError(t, ctx.DB.Model(inactive).UpdateColumn("is_active", false).Error)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/jobs", "", ""))
	require.Equal(t, 200, w.Code)

	var resp map[string]interface{}
	testutils.ParseJSONResponse(t, w, &resp)

	jobs := resp["data"].([]interface{})
	require.Len(t, jobs, 1)
	assert.Equal(t, open.ID.String(), jobs[0].(map[string]interface{})["id"])
}

func TestListJobsPagination(t *testing.T) {
	router, ctx := setupRouter(t)
	for i := 0; i < 25; i++ {
		testutils.CreateTestJob(t, ctx.DB)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/jobs?page=2&limit=10", "", ""))
	require.Equal(t, 200, w.Code)

	var resp map[string]interface{}
	testutils.ParseJSONResponse(t, w, &resp)

	jobs := resp["data"].([]interface{})
	assert.Len(t, jobs, 10)

	pagination := resp["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["page"])
	assert.Equal(t, float64(10), pagination["limit"])
	assert.Equal(t, float64(25), pagination["total"])
	assert.Equal(t, float64(3), pagination["pages"])
}

func TestListJobsLimitClamped(t *testing.T) {
	router, ctx := setupRouter(t)
	testutils.CreateTestJob(t, ctx.DB)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/jobs?limit=500", "", ""))
	require.Equal(t, 200, w.Code)

	var resp map[string]interface{}
	testutils.ParseJSONResponse(t, w, &resp)
	pagination := resp["pagination"].(map[string]interface{})
	assert.Equal(t, float64(50), pagination["limit"])
}

func TestListJobsFilters(t *testing.T) {
	router, ctx := setupRouter(t)

	job := testutils.CreateTestJob(t, ctx.DB)
	require.NoError(t, ctx.DB.Model(job).Updates(map[string]interface{}{
		"title":      "Warehouse Supervisor",
		"location":   "Cape Town, Western Cape",
		"salary_min": 8000.0,
		"salary_max": 12000.0,
	}).Error)

	other := testutils.CreateTestJob(t, ctx.DB)
	require.NoError(t, ctx.DB.Model(other).Updates(map[string]interface{}{
		"title":      "Cashier",
		"location":   "Durban, KwaZulu-Natal",
		"salary_min": 4000.0,
		"salary_max": 6000.0,
	}).Error)

	cases := []struct {
		query string
		want  string
	}{
		{"search=Warehouse", "Warehouse Supervisor"},
		{"location=Durban", "Cashier"},
		{"minSalary=10000", "Warehouse Supervisor"},
		{"maxSalary=5000", "Cashier"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/jobs?"+tc.query, "", ""))
		require.Equal(t, 200, w.Code, tc.query)

		var resp map[string]interface{}
		testutils.ParseJSONResponse(t, w, &resp)
		jobs := resp["data"].([]interface{})
		require.Len(t, jobs, 1, tc.query)
		assert.Equal(t, tc.want, jobs[0].(map[string]interface{})["title"], tc.query)
	}
}

func TestGetJobBumpsViewCount(t *testing.T) {
	router, ctx := setupRouter(t)
	job := testutils.CreateTestJob(t, ctx.DB)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/jobs/"+job.ID.String(), "", ""))
		require.Equal(t, 200, w.Code)
	}

	var stored models.Job
	require.NoError(t, ctx.DB.First(&stored, "id = ?", job.ID).Error)
	assert.Equal(t, 2, stored.ViewCount)
}

func TestGetJobNotFound(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/jobs/00000000-0000-0000-0000-000000000000", "", ""))
	assert.Equal(t, 404, w.Code)
}

func TestApplyLifecycle(t *testing.T) {
	router, ctx := setupRouter(t)

	job := testutils.CreateTestJob(t, ctx.DB)
	user := testutils.CreateTestUser(t, ctx.DB)
	cv := testutils.CreateTestCV(t, ctx.DB, user.ID)
	token := testutils.GenerateAuthToken(t, ctx.JWTService, user.ID)

	body := fmt.Sprintf(`{"cv_id":%q,"cover_letter":"I am a great fit."}`, cv.ID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("POST", "/api/jobs/"+job.ID.String()+"/apply", body, token))
	require.Equal(t, 201, w.Code)

	// application_count bumps with the insert
	var stored models.Job
	require.NoError(t, ctx.DB.First(&stored, "id = ?", job.ID).Error)
	assert.Equal(t, 1, stored.ApplicationCount)

	// second application conflicts
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("POST", "/api/jobs/"+job.ID.String()+"/apply", body, token))
	assert.Equal(t, 409, w.Code)
}

func TestApplyDeadlinePassed(t *testing.T) {
	router, ctx := setupRouter(t)

	job := testutils.CreateTestJob(t, ctx.DB)
	require.NoError(t, ctx.DB.Model(job).
		UpdateColumn("application_deadline", time.Now().UTC().AddDate(0, 0, -1)).Error)

	user := testutils.CreateTestUser(t, ctx.DB)
	cv := testutils.CreateTestCV(t, ctx.DB, user.ID)
	token := testutils.GenerateAuthToken(t, ctx.JWTService, user.ID)

	body := fmt.Sprintf(`{"cv_id":%q}`, cv.ID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("POST", "/api/jobs/"+job.ID.String()+"/apply", body, token))
	assert.Equal(t, 400, w.Code)
}

func TestApplyWithSomeoneElsesCV(t *testing.T) {
	router, ctx := setupRouter(t)

	job := testutils.CreateTestJob(t, ctx.DB)
	owner := testutils.CreateTestUser(t, ctx.DB)
	cv := testutils.CreateTestCV(t, ctx.DB, owner.ID)

	applicant := testutils.CreateTestUser(t, ctx.DB)
	token := testutils.GenerateAuthToken(t, ctx.JWTService, applicant.ID)

	body := fmt.Sprintf(`{"cv_id":%q}`, cv.ID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("POST", "/api/jobs/"+job.ID.String()+"/apply", body, token))
	assert.Equal(t, 404, w.Code)
}

func TestToggleSave(t *testing.T) {
	router, ctx := setupRouter(t)

	job := testutils.CreateTestJob(t, ctx.DB)
	user := testutils.CreateTestUser(t, ctx.DB)
	token := testutils.GenerateAuthToken(t, ctx.JWTService, user.ID)

	url := "/api/jobs/" + job.ID.String() + "/save"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("POST", url, "", token))
	require.Equal(t, 200, w.Code)

	var resp map[string]interface{}
	testutils.ParseJSONResponse(t, w, &resp)
	assert.Equal(t, true, resp["data"].(map[string]interface{})["saved"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("POST", url, "", token))
	require.Equal(t, 200, w.Code)

	testutils.ParseJSONResponse(t, w, &resp)
	assert.Equal(t, false, resp["data"].(map[string]interface{})["saved"])
}

func TestMyApplicationsStatusFilter(t *testing.T) {
	router, ctx := setupRouter(t)

	user := testutils.CreateTestUser(t, ctx.DB)
	cv := testutils.CreateTestCV(t, ctx.DB, user.ID)
	token := testutils.GenerateAuthToken(t, ctx.JWTService, user.ID)

	jobA := testutils.CreateTestJob(t, ctx.DB)
	jobB := testutils.CreateTestJob(t, ctx.DB)

	for _, job := range []*models.Job{jobA, jobB} {
		body := fmt.Sprintf(`{"cv_id":%q}`, cv.ID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("POST", "/api/jobs/"+job.ID.String()+"/apply", body, token))
		require.Equal(t, 201, w.Code)
	}

	require.NoError(t, ctx.DB.Model(&models.JobApplication{}).
		Where("job_id = ?", jobA.ID).
		UpdateColumn("status", models.ApplicationStatusShortlisted).Error)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/jobs/applications/my?status=shortlisted", "", token))
	require.Equal(t, 200, w.Code)

	var resp map[string]interface{}
	testutils.ParseJSONResponse(t, w, &resp)
	applications := resp["data"].([]interface{})
	require.Len(t, applications, 1)

	application := applications[0].(map[string]interface{})
	assert.Equal(t, jobA.ID.String(), application["job_id"])
	assert.NotNil(t, application["job"])
}

func TestMySavedJobsOnlyActive(t *testing.T) {
	router, ctx := setupRouter(t)

	user := testutils.CreateTestUser(t, ctx.DB)
	token := testutils.GenerateAuthToken(t, ctx.JWTService, user.ID)

	active := testutils.CreateTestJob(t, ctx.DB)
	deactivated := testutils.CreateTestJob(t, ctx.DB)

	for _, job := range []*models.Job{active, deactivated} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("POST", "/api/jobs/"+job.ID.String()+"/save", "", token))
		require.Equal(t, 200, w.Code)
	}

	require.NoError(t, ctx.DB.Model(deactivated).UpdateColumn("is_active", false).Error)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/jobs/saved/my", "", token))
	require.Equal(t, 200, w.Code)

	var resp map[string]interface{}
	testutils.ParseJSONResponse(t, w, &resp)
	saved := resp["data"].([]interface{})
	require.Len(t, saved, 1)
	assert.Equal(t, active.ID.String(), saved[0].(map[string]interface{})["job_id"])
}
