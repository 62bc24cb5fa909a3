package store

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/fire_command_center/internal/client"
	"github.com/shenikar/fire_command_center/internal/models"
	"github.com/shenikar/fire_command_center/internal/notify"
)

// fakeAPI - Incident API в памяти
type fakeAPI struct {
	mu        sync.Mutex
	incidents []models.Incident
	seq       int

	listCalls   int
	createCalls int
	deleteCalls int
	noteCalls   int
	updateCalls int

	// listHook вызывается после снятия снимка коллекции, но до возврата
	listHook  func()
	failList  error
	failWrite error
}

func newFakeAPI(incidents ...models.Incident) *fakeAPI {
	return &fakeAPI{incidents: incidents}
}

func (f *fakeAPI) ListIncidents(_ context.Context) ([]models.Incident, error) {
	f.mu.Lock()
	f.listCalls++
	if f.failList != nil {
		err := f.failList
		f.mu.Unlock()
		return nil, err
	}
	snapshot := make([]models.Incident, len(f.incidents))
	for i, inc := range f.incidents {
		snapshot[i] = inc.Clone()
	}
	hook := f.listHook
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return snapshot, nil
}

func (f *fakeAPI) CreateIncident(_ context.Context, draft models.IncidentDraft) (models.Incident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.failWrite != nil {
		return models.Incident{}, f.failWrite
	}
	f.seq++
	inc := models.Incident{
		ID:               fmt.Sprintf("INC-%06d", f.seq),
		Type:             draft.Type,
		Priority:         draft.Priority,
		Status:           draft.Status,
		Address:          draft.Address,
		Description:      draft.Description,
		Timestamp:        time.Date(2026, 10, 17, 10, f.seq, 0, 0, time.UTC),
		AssignedVehicles: []string{},
		Notes:            []models.Note{},
	}
	f.incidents = append([]models.Incident{inc}, f.incidents...)
	return inc.Clone(), nil
}

func (f *fakeAPI) UpdateIncident(_ context.Context, id string, patch models.IncidentPatch) (models.Incident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.failWrite != nil {
		return models.Incident{}, f.failWrite
	}
	for i, inc := range f.incidents {
		if inc.ID == id {
			if patch.Status != nil {
				f.incidents[i].Status = *patch.Status
			}
			return f.incidents[i].Clone(), nil
		}
	}
	return models.Incident{}, &client.RequestError{Op: "update incident", StatusCode: 404, Message: "Not found"}
}

func (f *fakeAPI) DeleteIncident(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.failWrite != nil {
		return f.failWrite
	}
	for i, inc := range f.incidents {
		if inc.ID == id {
			f.incidents = append(f.incidents[:i], f.incidents[i+1:]...)
			return nil
		}
	}
	return &client.RequestError{Op: "delete incident", StatusCode: 404, Message: "Not found"}
}

func (f *fakeAPI) AddNote(_ context.Context, id, author, content string) (models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noteCalls++
	if f.failWrite != nil {
		return models.Note{}, f.failWrite
	}
	for i, inc := range f.incidents {
		if inc.ID == id {
			f.seq++
			note := models.Note{
				ID:        fmt.Sprintf("n-%08d", f.seq),
				Author:    author,
				Content:   content,
				Timestamp: time.Date(2026, 10, 17, 11, f.seq, 0, 0, time.UTC),
			}
			f.incidents[i].Notes = append(f.incidents[i].Notes, note)
			return note, nil
		}
	}
	return models.Note{}, &client.RequestError{Op: "add note", StatusCode: 404, Message: "Not found"}
}

func (f *fakeAPI) set(incidents ...models.Incident) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incidents = incidents
}

func (f *fakeAPI) calls() (list, create, del, note int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.createCalls, f.deleteCalls, f.noteCalls
}

func newTestStore(t *testing.T, api IncidentAPI) (*Store, *notify.Center) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	center := notify.NewCenter(time.Minute)
	s := New(api, center, logger, Options{Interval: 20 * time.Millisecond})
	return s, center
}

func sampleIncidents() []models.Incident {
	ts := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	return []models.Incident{
		{
			ID: "I-100", Type: "Incêndio Estrutural", Priority: models.PriorityCritical, Status: models.StatusInProgress,
			Location: models.Coordinates{Lat: -23.562, Lon: -46.650}, Address: "Av. Paulista, 1000",
			AssignedVehicles: []string{"V-02", "V-03"}, Timestamp: ts,
			Notes: []models.Note{{ID: "n1", Author: "Op. COE", Content: "Chamado recebido via 193.", Timestamp: ts}},
		},
		{
			ID: "I-101", Type: "Colisão Veicular", Priority: models.PriorityHigh, Status: models.StatusNew,
			Location: models.Coordinates{Lat: -23.545, Lon: -46.625}, Address: "Radial Leste, Km 2",
			AssignedVehicles: []string{}, Timestamp: ts, Notes: []models.Note{},
		},
		{
			ID: "I-102", Type: "Resgate Animal", Priority: models.PriorityLow, Status: models.StatusResolved,
			Location: models.Coordinates{Lat: -23.570, Lon: -46.660}, Address: "Rua Oscar Freire, 500",
			AssignedVehicles: []string{"V-05"}, Timestamp: ts, Notes: []models.Note{},
		},
	}
}
