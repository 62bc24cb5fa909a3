package console

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenikar/fire_command_center/internal/ai"
	"github.com/shenikar/fire_command_center/internal/client"
	"github.com/shenikar/fire_command_center/internal/fleet"
	"github.com/shenikar/fire_command_center/internal/geo"
	"github.com/shenikar/fire_command_center/internal/models"
	"github.com/shenikar/fire_command_center/internal/notify"
	"github.com/shenikar/fire_command_center/internal/session"
	"github.com/shenikar/fire_command_center/internal/store"
	"github.com/shenikar/fire_command_center/internal/tacmap"
)

// fakeAPI - Incident API в памяти для консоли
type fakeAPI struct {
	mu        sync.Mutex
	incidents []models.Incident
	notes     int

	loginErr error
	statsErr error
}

func (f *fakeAPI) ListIncidents(_ context.Context) ([]models.Incident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Incident, len(f.incidents))
	for i, inc := range f.incidents {
		out[i] = inc.Clone()
	}
	return out, nil
}

func (f *fakeAPI) CreateIncident(_ context.Context, draft models.IncidentDraft) (models.Incident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inc := models.Incident{
		ID: fmt.Sprintf("INC-%06d", len(f.incidents)+1), Type: draft.Type,
		Priority: models.PriorityMedium, Status: models.StatusNew,
		AssignedVehicles: []string{}, Notes: []models.Note{},
	}
	f.incidents = append([]models.Incident{inc}, f.incidents...)
	return inc.Clone(), nil
}

func (f *fakeAPI) UpdateIncident(_ context.Context, id string, patch models.IncidentPatch) (models.Incident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, inc := range f.incidents {
		if inc.ID == id {
			if patch.Status != nil {
				f.incidents[i].Status = *patch.Status
			}
			return f.incidents[i].Clone(), nil
		}
	}
	return models.Incident{}, &client.RequestError{Op: "update incident", StatusCode: http.StatusNotFound, Message: "Not found"}
}

func (f *fakeAPI) DeleteIncident(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, inc := range f.incidents {
		if inc.ID == id {
			f.incidents = append(f.incidents[:i], f.incidents[i+1:]...)
			return nil
		}
	}
	return &client.RequestError{Op: "delete incident", StatusCode: http.StatusNotFound, Message: "Not found"}
}

func (f *fakeAPI) AddNote(_ context.Context, id, author, content string) (models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, inc := range f.incidents {
		if inc.ID == id {
			f.notes++
			note := models.Note{ID: fmt.Sprintf("n-%08d", f.notes), Author: author, Content: content}
			f.incidents[i].Notes = append(f.incidents[i].Notes, note)
			return note, nil
		}
	}
	return models.Note{}, &client.RequestError{Op: "add note", StatusCode: http.StatusNotFound}
}

func (f *fakeAPI) GetStats(_ context.Context) (models.Stats, error) {
	if f.statsErr != nil {
		return models.Stats{}, f.statsErr
	}
	return models.Stats{DailyFireCount: 2, MonthlyFireCount: 9}, nil
}

func (f *fakeAPI) Login(_ context.Context, username, password string) (models.User, error) {
	if f.loginErr != nil {
		return models.User{}, f.loginErr
	}
	if username != "admin" || password != "admin" {
		return models.User{}, &client.RequestError{Op: "login", StatusCode: http.StatusUnauthorized, Message: msgInvalidCredentials}
	}
	return models.User{ID: "u-1", Name: "Administrador", Role: "Comandante Operacional"}, nil
}

type testEnv struct {
	api      *fakeAPI
	store    *store.Store
	session  *session.Manager
	notifier *notify.Center
	handler  *Handler
	router   *gin.Engine
}

var testVehicles = []models.Vehicle{
	{ID: "V-01", Type: "Auto Bomba", Status: models.VehicleAvailable, Location: models.Coordinates{Lat: -23.570, Lon: -46.620}},
	{ID: "V-04", Type: "Tanque", Status: models.VehicleMaintenance, Location: models.Coordinates{Lat: -23.540, Lon: -46.645}},
}

var testPersonnel = []models.Personnel{
	{ID: "B-001", Name: "Cap. Nascimento", Role: "Comandante", Status: models.PersonnelReady, Base: "Base Central", LastHealthCheck: "2024-05-20"},
	{ID: "B-002", Name: "Ten. Ripley", Role: "Líder de Equipe", Status: models.PersonnelReady, Base: "Base Sul", LastHealthCheck: "2024-05-21"},
	{ID: "B-003", Name: "Sgt. Foley", Role: "Operador", Status: models.PersonnelRest, Base: "Base Central", LastHealthCheck: "2024-05-19"},
	{ID: "B-004", Name: "Sd. Ryan", Role: "Resgatista", Status: models.PersonnelTraining, Base: "Academia", LastHealthCheck: "2024-05-22"},
	{ID: "B-005", Name: "Cb. Hicks", Role: "Motorista", Status: models.PersonnelReady, Base: "Base Central", LastHealthCheck: "2024-05-20"},
	{ID: "B-006", Name: "Sd. Vasquez", Role: "Resgatista", Status: models.PersonnelLeave, Base: "Base Sul", LastHealthCheck: "2024-05-18"},
}

func testIncidents() []models.Incident {
	return []models.Incident{
		{
			ID: "I-100", Type: "Incêndio Estrutural", Priority: models.PriorityCritical, Status: models.StatusNew,
			Location: models.Coordinates{Lat: -23.5505, Lon: -46.6333}, Address: "Av. Paulista, 1000",
			AssignedVehicles: []string{}, Notes: []models.Note{},
		},
		{
			ID: "I-101", Type: "Resgate Animal", Priority: models.PriorityLow, Status: models.StatusResolved,
			Location: models.Coordinates{Lat: -23.545, Lon: -46.625}, Address: "Rua Oscar Freire, 500",
			AssignedVehicles: []string{"V-05"}, Notes: []models.Note{},
		},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	api := &fakeAPI{incidents: testIncidents()}
	center := notify.NewCenter(time.Minute)
	st := store.New(api, center, logger, store.Options{Operator: "Op. COE"})
	require.NoError(t, st.Refresh(context.Background()))

	sess := session.NewManager(session.NewMemoryStorage(), "coe_user", logger)

	h := NewHandler(Deps{
		Store:    st,
		API:      api,
		Session:  sess,
		Fleet:    fleet.NewRegistry(fleet.Roster{Vehicles: testVehicles, Personnel: testPersonnel}),
		Renderer: tacmap.NewRenderer(geo.Default()),
		Reporter: ai.NewReporter(nil, logger),
		Notifier: center,
		Logger:   logger,
	})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.RegisterRoutes(router)

	return &testEnv{api: api, store: st, session: sess, notifier: center, handler: h, router: router}
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	w := e.do(http.MethodPost, "/console/login", `{"username":"admin","password":"admin"}`)
	require.Equal(t, http.StatusOK, w.Code)
}

func (e *testEnv) do(method, url, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/console/login", `{"username":"admin","password":"admin"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	user, ok := env.session.Current()
	require.True(t, ok)
	assert.Equal(t, "u-1", user.ID)

	w = env.do(http.MethodGet, "/console/me", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Administrador")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/console/login", `{"username":"admin","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), msgInvalidCredentials)
	assert.False(t, env.session.IsAuthenticated())
}

func TestLogin_RateLimitedPassesServerMessage(t *testing.T) {
	env := newTestEnv(t)
	env.api.loginErr = &client.RequestError{Op: "login", StatusCode: http.StatusTooManyRequests, Message: "Muitas tentativas. Aguarde 1 minuto."}

	w := env.do(http.MethodPost, "/console/login", `{"username":"admin","password":"admin"}`)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Muitas tentativas")
}

func TestLogin_ConnectionFailure(t *testing.T) {
	env := newTestEnv(t)
	env.api.loginErr = &client.RequestError{Op: "login", Err: fmt.Errorf("connection refused")}

	w := env.do(http.MethodPost, "/console/login", `{"username":"admin","password":"admin"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	active := env.notifier.Active()
	require.NotEmpty(t, active)
	assert.Equal(t, notify.KindError, active[len(active)-1].Kind)
}

func TestRoutes_RequireSession(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/console/incidents", "/console/map.svg", "/console/sitrep", "/console/me", "/console/personnel"} {
		w := env.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestSession_SharedByAllClients(t *testing.T) {
	// Подготовка
	env := newTestEnv(t)

	// Действие: вход с одного клиента
	req := httptest.NewRequest(http.MethodPost, "/console/login", strings.NewReader(`{"username":"admin","password":"admin"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "10.0.0.1:5000"
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Проверки: другой клиент без cookie видит того же оператора
	req = httptest.NewRequest(http.MethodGet, "/console/me", nil)
	req.RemoteAddr = "10.0.0.2:6000"
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Administrador")

	// выход с любого клиента закрывает сессию для всех
	require.Equal(t, http.StatusNoContent, env.do(http.MethodPost, "/console/logout", "").Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/console/me", "").Code)
}

func TestLogout_EndsSession(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	w := env.do(http.MethodPost, "/console/logout", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(http.MethodGet, "/console/incidents", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListIncidents_FilterAndSearch(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	var all, active, found []models.Incident

	w := env.do(http.MethodGet, "/console/incidents", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 2)

	w = env.do(http.MethodGet, "/console/incidents?filter=active", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &active))
	require.Len(t, active, 1)
	assert.Equal(t, "I-100", active[0].ID)

	w = env.do(http.MethodGet, "/console/incidents?q=oscar", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "I-101", found[0].ID)

	w = env.do(http.MethodGet, "/console/incidents?filter=closed", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateIncident_SelectsCreated(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	w := env.do(http.MethodPost, "/console/incidents", `{"type":"Vazamento de Gás"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Incident
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	sel, ok := env.store.Selected()
	require.True(t, ok)
	assert.Equal(t, created.ID, sel.ID)
	assert.Len(t, env.store.Incidents(), 3)
}

func TestCreateIncident_ValidationError(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	w := env.do(http.MethodPost, "/console/incidents", `{"description":"sem tipo"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, env.store.Incidents(), 2)
}

func TestDeleteIncident(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	w := env.do(http.MethodDelete, "/console/incidents/I-101", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, env.store.Incidents(), 1)

	w = env.do(http.MethodDelete, "/console/incidents/I-404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelection_DraftSurvivesAndNoteUsesIt(t *testing.T) {
	// Подготовка
	env := newTestEnv(t)
	env.login(t)

	// Действие
	w := env.do(http.MethodPost, "/console/incidents/I-100/select", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodPut, "/console/selection/draft", `{"text":"Equipe no local"}`)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.NoError(t, env.store.Refresh(context.Background()))

	// Проверки: черновик пережил опрос
	w = env.do(http.MethodGet, "/console/selection", "")
	require.Equal(t, http.StatusOK, w.Code)
	var sel selectionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sel))
	assert.Equal(t, "I-100", sel.Incident.ID)
	assert.Equal(t, "Equipe no local", sel.NoteDraft)

	// Действие: пустой content отправляет черновик
	w = env.do(http.MethodPost, "/console/selection/notes", `{}`)

	// Проверки
	require.Equal(t, http.StatusCreated, w.Code)
	var note models.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &note))
	assert.Equal(t, "Equipe no local", note.Content)
	assert.Equal(t, "Administrador", note.Author)
	assert.Empty(t, env.store.NoteDraft())

	selected, ok := env.store.Selected()
	require.True(t, ok)
	require.Len(t, selected.Notes, 1)
}

func TestSelection_EmptyNoteRejected(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.do(http.MethodPost, "/console/incidents/I-100/select", "")

	w := env.do(http.MethodPost, "/console/selection/notes", `{"content":""}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, env.api.notes)
}

func TestSelection_RequiresSelectedIncident(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/console/selection"},
		{http.MethodPost, "/console/selection/dispatch"},
		{http.MethodPost, "/console/selection/suggest"},
		{http.MethodGet, "/console/selection/share"},
	} {
		w := env.do(tc.method, tc.path, "")
		assert.Equal(t, http.StatusConflict, w.Code, tc.path)
	}
}

func TestSelectUnknownIncident(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	w := env.do(http.MethodPost, "/console/incidents/I-404/select", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDispatch_LocalTransition(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.do(http.MethodPost, "/console/incidents/I-100/select", "")

	w := env.do(http.MethodPost, "/console/selection/dispatch", "")

	require.Equal(t, http.StatusOK, w.Code)
	var inc models.Incident
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inc))
	assert.Equal(t, models.StatusInProgress, inc.Status)
	assert.Equal(t, []string{"V-99 (Sim)"}, inc.AssignedVehicles)
}

func TestDispatch_ResolvedIncidentConflict(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.do(http.MethodPost, "/console/incidents/I-101/select", "")

	w := env.do(http.MethodPost, "/console/selection/dispatch", "")

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateStatus_SelectedIncident(t *testing.T) {
	// Подготовка
	env := newTestEnv(t)
	env.login(t)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/console/incidents/I-100/select", "").Code)

	// Действие
	w := env.do(http.MethodPut, "/console/selection/status", `{"status":"Em Atendimento"}`)

	// Проверки
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Incident
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, models.StatusInProgress, got.Status)

	env.api.mu.Lock()
	assert.Equal(t, models.StatusInProgress, env.api.incidents[0].Status)
	env.api.mu.Unlock()
}

func TestUpdateStatus_Rejected(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	w := env.do(http.MethodPut, "/console/selection/status", `{"status":"Fechado"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/console/incidents/I-101/select", "").Code)

	w = env.do(http.MethodPut, "/console/selection/status", `{"status":"Novo"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodPut, "/console/selection/status", `{"status":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPut, "/console/selection/status", `{"status":"Em Andamento"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShareAndSuggest(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.do(http.MethodPost, "/console/incidents/I-100/select", "")

	w := env.do(http.MethodGet, "/console/selection/share", "")
	require.Equal(t, http.StatusOK, w.Code)
	var share shareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &share))
	assert.Contains(t, share.Text, "Incêndio Estrutural")
	assert.True(t, strings.HasPrefix(share.URL, "https://web.whatsapp.com/send?text="))

	w = env.do(http.MethodPost, "/console/selection/suggest", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ai.MsgUnavailable)
}

func TestMapSVG_OnlyActiveIncidents(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	w := env.do(http.MethodGet, "/console/map.svg", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Equal(t, 1, strings.Count(body, `class="incident"`))
	assert.Equal(t, 2, strings.Count(body, `class="vehicle"`))
	assert.Contains(t, body, "I-100")
	assert.NotContains(t, body, "I-101")
}

func TestMapClick_SelectsIncident(t *testing.T) {
	// Подготовка
	env := newTestEnv(t)
	env.login(t)
	pt := geo.Default().Project(models.Coordinates{Lat: -23.5505, Lon: -46.6333})

	// Действие
	w := env.do(http.MethodPost, "/console/map/click", fmt.Sprintf(`{"x":%g,"y":%g}`, pt.X+0.5, pt.Y))

	// Проверки
	require.Equal(t, http.StatusOK, w.Code)
	var resp mapClickResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "incident", resp.Kind)
	require.NotNil(t, resp.Incident)
	assert.Equal(t, "I-100", resp.Incident.ID)

	assert.InDelta(t, 0, resp.DistanceMeters, 1)

	sel, ok := env.store.Selected()
	require.True(t, ok)
	assert.Equal(t, "I-100", sel.ID)
}

func TestMapClick_Vehicle(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	pt := geo.Default().Project(testVehicles[0].Location)

	w := env.do(http.MethodPost, "/console/map/click", fmt.Sprintf(`{"x":%g,"y":%g}`, pt.X, pt.Y))

	require.Equal(t, http.StatusOK, w.Code)
	var resp mapClickResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "vehicle", resp.Kind)
	require.NotNil(t, resp.Vehicle)
	assert.Equal(t, "V-01", resp.Vehicle.ID)
	_, selected := env.store.Selected()
	assert.False(t, selected)
}

func TestMapClick_Miss(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	w := env.do(http.MethodPost, "/console/map/click", `{"x":1,"y":99}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodPost, "/console/map/click", `{"x":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPersonnel_Pages(t *testing.T) {
	// Подготовка
	env := newTestEnv(t)
	env.login(t)

	// Действие
	w := env.do(http.MethodGet, "/console/personnel", "")

	// Проверки
	require.Equal(t, http.StatusOK, w.Code)
	var first fleet.PersonnelPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, 5, first.PageSize)
	assert.Equal(t, 6, first.Total)
	assert.Equal(t, 2, first.TotalPages)
	require.Len(t, first.Items, 5)
	assert.Equal(t, "Cap. Nascimento", first.Items[0].Name)
	assert.Contains(t, w.Body.String(), `"status":"Descanso"`)

	w = env.do(http.MethodGet, "/console/personnel?page=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var second fleet.PersonnelPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	require.Len(t, second.Items, 1)
	assert.Equal(t, models.PersonnelLeave, second.Items[0].Status)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/console/personnel?page=0", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/console/personnel?page=dois", "").Code)
}

func TestStatsAndSitrep(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	w := env.do(http.MethodGet, "/console/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"monthlyFireCount":9`)

	w = env.do(http.MethodGet, "/console/sitrep", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Currently managing 1 active incidents with 1 available vehicles.")
	assert.Contains(t, w.Body.String(), `"simulated":true`)

	env.api.statsErr = fmt.Errorf("boom")
	w = env.do(http.MethodGet, "/console/stats", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestVehiclesAndNotifications(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.do(http.MethodPost, "/console/incidents/I-100/select", "")
	env.do(http.MethodPost, "/console/selection/dispatch", "")

	w := env.do(http.MethodGet, "/console/vehicles", "")
	require.Equal(t, http.StatusOK, w.Code)
	var vehicles []models.Vehicle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vehicles))
	assert.Len(t, vehicles, 2)

	w = env.do(http.MethodGet, "/console/vehicles/V-04", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Manutenção")

	w = env.do(http.MethodGet, "/console/vehicles/V-77", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/console/notifications", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Recursos despachados para o local.")
}

// serve поднимает консоль на реальном listener: потоковые ответы
// httptest.ResponseRecorder не отдает до завершения обработчика.
func (e *testEnv) serve(t *testing.T) (*http.Server, string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &http.Server{Handler: e.router, ReadHeaderTimeout: time.Second}
	srv.RegisterOnShutdown(e.handler.Close)
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = srv.Close() })

	return srv, "http://" + ln.Addr().String()
}

func TestEvents_HeadersFlushedAndNotificationDelivered(t *testing.T) {
	// Подготовка
	env := newTestEnv(t)
	env.login(t)
	_, base := env.serve(t)

	// Действие
	resp, err := http.Get(base + "/console/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	// Проверки
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body := bufio.NewReader(resp.Body)
	line, err := body.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": connected\n", line)

	env.notifier.Success("Viatura despachada")

	var got strings.Builder
	for !strings.Contains(got.String(), "Viatura despachada") {
		line, err := body.ReadString('\n')
		require.NoError(t, err)
		got.WriteString(line)
	}
	assert.Contains(t, got.String(), "event:notification")
}

func TestEvents_ShutdownDoesNotWaitForOpenStream(t *testing.T) {
	// Подготовка
	env := newTestEnv(t)
	env.login(t)
	srv, base := env.serve(t)

	resp, err := http.Get(base + "/console/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	_, err = bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	// Действие
	start := time.Now()
	err = srv.Shutdown(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
