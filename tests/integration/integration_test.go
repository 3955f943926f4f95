package integration

import (
	"net/http/httptest"
	"testing"

	"jobready-portal/internal/database"
	"jobready-portal/internal/server"
	"jobready-portal/tests/testutils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegisterBuildCVAndApply walks the primary user journey end to end:
// register, create a CV, add an education entry, browse jobs and apply.
func TestRegisterBuildCVAndApply(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := testutils.SetupTestContext(t)
	router := server.New(ctx.Config, ctx.Logger, ctx.DB).Router()

	// register
	register := `{"full_name":"Thabo Mokoena","phone":"0821234567","password":"secret1","preferred_language":"zu","location":"Soweto"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("POST", "/api/auth/register", register, ""))
	require.Equal(t, 201, w.Code)

	var resp map[string]interface{}
	testutils.ParseJSONResponse(t, w, &resp)
	token := resp["data"].(map[string]interface{})["token"].(string)
	require.NotEmpty(t, token)

	// create a CV in the preferred language
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("POST", "/api/cv", `{"title":"My CV","language":"zu"}`, token))
	require.Equal(t, 201, w.Code)

	testutils.ParseJSONResponse(t, w, &resp)
	cvID := resp["data"].(map[string]interface{})["cv_id"].(string)

	// add an education entry
	education := `{"institution":"University of Johannesburg","degree":"Diploma","start_year":2018,"end_year":2020}`
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("POST", "/api/cv/"+cvID+"/education", education, token))
	require.Equal(t, 201, w.Code)

	// the stored CV carries exactly that entry
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/cv/"+cvID, "", token))
	require.Equal(t, 200, w.Code)

	testutils.ParseJSONResponse(t, w, &resp)
	cvData := resp["data"].(map[string]interface{})
	assert.Equal(t, "My CV", cvData["title"])
	assert.Equal(t, "zu", cvData["language"])

	educationEntries := cvData["education"].([]interface{})
	require.Len(t, educationEntries, 1)
	entry := educationEntries[0].(map[string]interface{})
	assert.Equal(t, "University of Johannesburg", entry["institution"])
	assert.Equal(t, "Diploma", entry["degree"])
	assert.Equal(t, float64(2018), entry["start_year"])
	assert.Equal(t, float64(2020), entry["end_year"])

	// browse the board and apply with the new CV
	job := testutils.CreateTestJob(t, ctx.DB)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/jobs", "", token))
	require.Equal(t, 200, w.Code)

	testutils.ParseJSONResponse(t, w, &resp)
	jobs := resp["data"].([]interface{})
	require.Len(t, jobs, 1)
	assert.Equal(t, false, jobs[0].(map[string]interface{})["has_applied"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest(
		"POST", "/api/jobs/"+job.ID.String()+"/apply", `{"cv_id":"`+cvID+`"}`, token))
	require.Equal(t, 201, w.Code)

	// the listing now reflects the application
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/jobs", "", token))
	require.Equal(t, 200, w.Code)

	testutils.ParseJSONResponse(t, w, &resp)
	jobs = resp["data"].([]interface{})
	require.Len(t, jobs, 1)
	assert.Equal(t, true, jobs[0].(map[string]interface{})["has_applied"])

	// and the dashboard counts it
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/users/me/stats", "", token))
	require.Equal(t, 200, w.Code)

	testutils.ParseJSONResponse(t, w, &resp)
	stats := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["applications"])
	assert.Equal(t, float64(1), stats["cvs"])
}

// TestSeededCatalog verifies the development seeders produce a browsable
// board and course catalog.
func TestSeededCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := testutils.SetupTestContext(t)
	require.NoError(t, database.SeedData(ctx.Logger))

	router := server.New(ctx.Config, ctx.Logger, ctx.DB).Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/jobs?language=zu", "", ""))
	require.Equal(t, 200, w.Code)

	var resp map[string]interface{}
	testutils.ParseJSONResponse(t, w, &resp)
	assert.NotEmpty(t, resp["data"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/training/courses", "", ""))
	require.Equal(t, 200, w.Code)

	testutils.ParseJSONResponse(t, w, &resp)
	courses := resp["data"].([]interface{})
	assert.Len(t, courses, 6)

	// seeding twice is a no-op
	require.NoError(t, database.SeedData(ctx.Logger))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutils.CreateAuthenticatedRequest("GET", "/api/training/courses", "", ""))
	testutils.ParseJSONResponse(t, w, &resp)
	assert.Len(t, resp["data"].([]interface{}), 6)
}
