package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gncitizen/internal/handler"
	"gncitizen/internal/repository"
	"gncitizen/internal/service/siteimport"
	"gncitizen/internal/testutil"
	"gncitizen/pkg/auth"
	"gncitizen/pkg/rbac"
	"gncitizen/pkg/trace"
)

const testSecret = "router-test-secret"

const uploadCollection = `{
	"type": "FeatureCollection",
	"features": [
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [5.71, 45.19]}, "properties": {"nom": "Mare du col"}},
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [5.72, 45.18]}, "properties": {"nom": "Mare basse"}}
	]
}`

type downDB struct{}

func (downDB) PingContext(context.Context) error { return errors.New("connection refused") }

func newTestRouter(t *testing.T, fx *testutil.Fixture, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	opts := handler.Options{}
	programs := repository.NewProgramRepository(fx.DB, log)
	sites := repository.NewSiteRepository(fx.DB, log)

	h := Handlers{
		Modules:  handler.NewModuleHandler(repository.NewModuleRepository(fx.DB, log), log, opts),
		Projects: handler.NewProjectHandler(repository.NewProjectRepository(fx.DB, log), programs, log, opts),
		Programs: handler.NewProgramHandler(programs, repository.NewCustomFormRepository(fx.DB, log), log, opts),
		Stats:    handler.NewStatsHandler(repository.NewStatsRepository(fx.DB, log), log, opts),
		Media:    handler.NewMediaHandler(t.TempDir(), log, opts),
		Upload:   handler.NewUploadHandler(programs, sites, siteimport.NewService(programs, sites, log), log, opts),
	}
	return NewRouter(h, log, fx.DB, secret)
}

func uploadRequest(t *testing.T, filename, content string, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func bearer(t *testing.T, req *http.Request) *http.Request {
	return bearerAs(t, req, rbac.RoleAdmin)
}

func bearerAs(t *testing.T, req *http.Request, role string) *http.Request {
	t.Helper()

	token, err := auth.GenerateJWT(7, role, testSecret, time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndReadiness(t *testing.T) {
	fx := testutil.NewFixture(t)
	r := newTestRouter(t, fx, testSecret)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(trace.HeaderName))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	req.Header.Set(trace.HeaderName, "trace-123")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "trace-123", w.Header().Get(trace.HeaderName))
	assert.JSONEq(t, `{"status":"ready","db_breaker":"disabled"}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gnc_http_request_duration_seconds")
}

func TestReadinessWithDatabaseDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Handlers{
		Modules:  &handler.ModuleHandler{},
		Projects: &handler.ProjectHandler{},
		Programs: &handler.ProgramHandler{},
		Stats:    &handler.StatsHandler{},
		Media:    &handler.MediaHandler{},
		Upload:   &handler.UploadHandler{},
	}, zap.NewNop(), downDB{}, "")

	w := serve(r, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "db_not_ready")
}

func TestRoutes(t *testing.T) {
	fx := testutil.NewFixture(t)
	obs := fx.Module("observations")
	projectID := fx.Project("p")
	fx.Program(projectID, obs, "garden")

	r := newTestRouter(t, fx, testSecret)

	for _, target := range []string{
		"/stats",
		"/modules",
		"/projects",
		"/programs",
		"/programs?with_geom",
		"/projects/" + strconv.Itoa(projectID) + "/stats",
		"/projects/" + strconv.Itoa(projectID) + "/programs",
	} {
		w := serve(r, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusOK, w.Code, target)
	}

	w := serve(r, httptest.NewRequest(http.MethodGet, "/projects/999/stats", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRequiresToken(t *testing.T) {
	fx := testutil.NewFixture(t)
	r := newTestRouter(t, fx, testSecret)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/admin/upload", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/upload", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	forged, err := auth.GenerateJWT(7, rbac.RoleAdmin, "other-secret", time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/admin/upload", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	w = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, bearerAs(t, httptest.NewRequest(http.MethodGet, "/admin/upload", nil), rbac.RoleUser))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(r, bearer(t, httptest.NewRequest(http.MethodGet, "/admin/upload", nil)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"programs":[],"site_types":[]}`, w.Body.String())
}

func TestAdminDisabledWithoutSecret(t *testing.T) {
	fx := testutil.NewFixture(t)
	r := newTestRouter(t, fx, "")

	w := serve(r, bearer(t, httptest.NewRequest(http.MethodGet, "/admin/upload", nil)))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUploadGeoJSON(t *testing.T) {
	fx := testutil.NewFixture(t)
	sites := fx.Module("sites")
	projectID := fx.Project("p")
	programID := fx.Program(projectID, sites, "ponds")
	pond := fx.SiteType("pond")

	r := newTestRouter(t, fx, testSecret)

	req := uploadRequest(t, "ponds.geojson", uploadCollection, map[string]string{
		"feature_name": "nom",
		"program":      strconv.Itoa(programID),
		"site_type":    strconv.Itoa(pond),
	})
	w := serve(r, bearer(t, req))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true,"imported":2}`, w.Body.String())
	assert.Equal(t, 2, fx.Count("t_sites"))

	var name string
	require.NoError(t, fx.DB.QueryRow(`SELECT name FROM t_sites ORDER BY id_site LIMIT 1`).Scan(&name))
	assert.Equal(t, "Mare du col", name)

	// The imported sites show up in the project counters.
	w = serve(r, httptest.NewRequest(http.MethodGet, "/projects/"+strconv.Itoa(projectID)+"/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats["sites"])
}

func TestUploadGeoJSON_Rejections(t *testing.T) {
	fx := testutil.NewFixture(t)
	sites := fx.Module("sites")
	projectID := fx.Project("p")
	programID := strconv.Itoa(fx.Program(projectID, sites, "ponds"))

	r := newTestRouter(t, fx, testSecret)

	cases := []struct {
		name     string
		filename string
		content  string
		fields   map[string]string
		status   int
	}{
		{"wrong extension", "ponds.csv", uploadCollection, map[string]string{"feature_name": "nom", "program": programID}, http.StatusBadRequest},
		{"missing program", "ponds.json", uploadCollection, map[string]string{"feature_name": "nom"}, http.StatusBadRequest},
		{"missing feature name", "ponds.json", uploadCollection, map[string]string{"program": programID}, http.StatusBadRequest},
		{"unknown property", "ponds.json", uploadCollection, map[string]string{"feature_name": "name", "program": programID}, http.StatusBadRequest},
		{"not a collection", "ponds.json", `{"type":"Feature"}`, map[string]string{"feature_name": "nom", "program": programID}, http.StatusBadRequest},
		{"unknown program", "ponds.json", uploadCollection, map[string]string{"feature_name": "nom", "program": "999"}, http.StatusNotFound},
		{"unknown site type", "ponds.json", uploadCollection, map[string]string{"feature_name": "nom", "program": programID, "site_type": "999"}, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(r, bearer(t, uploadRequest(t, tc.filename, tc.content, tc.fields)))
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
	assert.Equal(t, 0, fx.Count("t_sites"))
}
