package service

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/shenikar/fire_command_center/internal/lifecycle"
	"github.com/shenikar/fire_command_center/internal/models"
)

var (
	// ErrNotFound - инцидент не существует
	ErrNotFound = errors.New("incident not found")
	// ErrInvalidTransition - недопустимая смена статуса
	ErrInvalidTransition = lifecycle.ErrInvalidTransition
	// ErrTooManyAttempts - превышен лимит попыток входа
	ErrTooManyAttempts = errors.New("too many login attempts")
	// ErrInvalidCredentials - неверный логин или пароль
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrStaleCache - кэш инвалидировали, пока список читался из бд
	ErrStaleCache = errors.New("incidents cache is stale")
)

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id string) (*models.Incident, error)
	Update(ctx context.Context, incident *models.Incident) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Incident, error)
	AddNote(ctx context.Context, incidentID string, note *models.Note) error
	GetIncidentsFromCache(ctx context.Context) ([]models.Incident, error)
	IncidentsCacheVersion(ctx context.Context) (int64, error)
	SetIncidentsCache(ctx context.Context, incidents []models.Incident, version int64) error
	InvalidateIncidentsCache(ctx context.Context) error
}

// AttemptCounter считает попытки в скользящем окне
type AttemptCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// IncidentService определяет контракт бизнес-логики управления инцидентами
type IncidentService interface {
	CreateIncident(ctx context.Context, draft models.IncidentDraft) (*models.Incident, error)
	GetIncident(ctx context.Context, id string) (*models.Incident, error)
	ListIncidents(ctx context.Context) ([]models.Incident, error)
	UpdateIncident(ctx context.Context, id string, patch models.IncidentPatch) (*models.Incident, error)
	DeleteIncident(ctx context.Context, id string) error
	AddNote(ctx context.Context, id, author, content string) (*models.Note, error)
	GetStats(ctx context.Context) (*models.Stats, error)
}

// AuthService определяет контракт входа оператора
type AuthService interface {
	Login(ctx context.Context, clientIP, username, password string) (*models.User, error)
}
