package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/existflow/awaree/internal/model"
	"github.com/existflow/awaree/internal/report"
	"github.com/existflow/awaree/internal/store"
	"github.com/existflow/awaree/internal/studio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, projects ...model.Project) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "studio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	if len(projects) > 0 {
		require.NoError(t, st.SaveProjects(context.Background(), projects))
	}
	s := New(st)
	s.now = func() time.Time { return testNow }
	return s, st
}

func testProject(id, name string) model.Project {
	p := model.Project{
		ID:        id,
		Name:      name,
		Subject:   "Typographie",
		Type:      model.TypeSolo,
		Status:    model.StatusInProgress,
		CreatedAt: model.Millis(testNow),
		UpdatedAt: model.Millis(testNow),
		Tasks: []model.Task{
			{ID: "t1", Title: "Croquis", IsCompleted: true, Status: model.StatusDone, SubTasks: []model.SubTask{}},
			{ID: "t2", Title: "Maquette", Status: model.StatusTodo, SubTasks: []model.SubTask{}},
		},
		Progress: 50,
	}
	p.Normalize()
	return p
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListProjects(t *testing.T) {
	archived := testProject("p2", "Archive")
	archived.IsArchived = true
	s, _ := newTestServer(t, testProject("p1", "Affiche"), archived)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []ProjectSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Affiche", list[0].Name)
	assert.Equal(t, 2, list[0].Tasks)
	assert.Equal(t, 1, list[0].Done)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/projects?archived=true", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "p2", list[0].ID)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/projects?sort=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProject(t *testing.T) {
	s, _ := newTestServer(t, testProject("p1", "Affiche"))

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/projects/p1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var p model.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, testProject("p1", "Affiche"), p)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/projects/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjectReportRoundTrips(t *testing.T) {
	s, _ := newTestServer(t, testProject("p1", "Affiche Festival"))

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/projects/p1/report", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "awaree_rapport_affiche_festival.html")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	payload, err := report.Decode(rec.Body.Bytes(), report.KindHTML)
	require.NoError(t, err)
	assert.Equal(t, testProject("p1", "Affiche Festival"), *payload.Project)
}

func TestImportNewProject(t *testing.T) {
	s, st := newTestServer(t)

	body, err := json.Marshal(testProject("p9", "Logo"))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := do(t, s, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"action":"insert","projectId":"p9"}`, rec.Body.String())

	state := st.Load(context.Background())
	require.Len(t, state.Projects, 1)
	assert.Equal(t, "Logo", state.Projects[0].Name)
}

func TestImportCollisionNeedsReplace(t *testing.T) {
	s, st := newTestServer(t, testProject("p1", "Affiche"))

	incoming := testProject("p1", "Affiche v2")
	data, err := report.Encode(incoming, testNow)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewReader(data))
	req.Header.Set("Content-Type", "text/html")
	rec := do(t, s, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Affiche", st.Load(context.Background()).Projects[0].Name)

	req = httptest.NewRequest(http.MethodPost, "/api/import?replace=true", bytes.NewReader(data))
	req.Header.Set("Content-Type", "text/html")
	rec = do(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"action":"replace","projectId":"p1"}`, rec.Body.String())

	projects := st.Load(context.Background()).Projects
	require.Len(t, projects, 1)
	assert.Equal(t, "Affiche v2", projects[0].Name)
}

func TestImportMultipartReport(t *testing.T) {
	s, st := newTestServer(t)

	data, err := report.Encode(testProject("p3", "Motion"), testNow)
	require.NoError(t, err)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "awaree_rapport_motion.html")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := do(t, s, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, st.Load(context.Background()).Projects, 1)
}

func TestImportRejectsInvalidFile(t *testing.T) {
	s, st := newTestServer(t, testProject("p1", "Affiche"))

	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewReader([]byte("<html><body>nothing</body></html>")))
	req.Header.Set("Content-Type", "text/html")
	rec := do(t, s, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, st.Load(context.Background()).Projects, 1)
}

func TestImportBackup(t *testing.T) {
	s, st := newTestServer(t, testProject("p1", "Affiche"))

	events := []model.AppEvent{{ID: "e1", Title: "Jury", Date: model.Millis(testNow), Types: []model.EventType{model.EventExam}}}
	body, err := json.Marshal(studio.Backup{Events: &events})
	require.NoError(t, err)

	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewReader(body)))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, httptest.NewRequest(http.MethodPost, "/api/import?replace=true", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"action":"restore","collections":["events"]}`, rec.Body.String())

	state := st.Load(context.Background())
	assert.Len(t, state.Projects, 1)
	assert.Equal(t, events, state.Events)
}

func TestImportSealedBackupNeedsPassphrase(t *testing.T) {
	s, st := newTestServer(t)

	plain, err := report.EncodeBackup(studio.State{Projects: []model.Project{testProject("p5", "Illu")}}, testNow)
	require.NoError(t, err)
	sealed, err := report.Seal(plain, "secret")
	require.NoError(t, err)

	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/api/import?replace=true", bytes.NewReader(sealed)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/import?replace=true", bytes.NewReader(sealed))
	req.Header.Set("X-Awaree-Passphrase", "secret")
	rec = do(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, st.Load(context.Background()).Projects, 1)
}

func TestBackupDownload(t *testing.T) {
	s, _ := newTestServer(t, testProject("p1", "Affiche"))

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/backup", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "awaree_backup_2026-03-02.json")

	payload, err := report.Decode(rec.Body.Bytes(), report.KindJSON)
	require.NoError(t, err)
	require.NotNil(t, payload.Backup)
	require.NotNil(t, payload.Backup.Projects)
	assert.Len(t, *payload.Backup.Projects, 1)
}

func TestStatsAndEvents(t *testing.T) {
	s, st := newTestServer(t, testProject("p1", "Affiche"))
	require.NoError(t, st.SaveEvents(context.Background(), []model.AppEvent{
		{ID: "e1", Title: "Jury", Date: model.Millis(testNow.AddDate(0, 0, 2)), Types: []model.EventType{model.EventExam}},
		{ID: "e2", Title: "Cours", Date: model.Millis(testNow.AddDate(0, 0, -2)), Types: []model.EventType{model.EventClass}},
	}))

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var stats studio.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 50, stats.TaskRatio)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/events?period=upcoming", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var events []model.AppEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].ID)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/events?tag=Nope", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
