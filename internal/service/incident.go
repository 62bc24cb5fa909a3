package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/fire_command_center/internal/config"
	"github.com/shenikar/fire_command_center/internal/lifecycle"
	"github.com/shenikar/fire_command_center/internal/models"
	"github.com/shenikar/fire_command_center/internal/webhook"
)

const (
	defaultTag     = "OUTRO"
	defaultAddress = "Manual"
	fireTag        = "FOGO"
)

type incidentService struct {
	repo             IncidentRepository
	logger           *logrus.Logger
	cfg              *config.Config
	webhookPublisher webhook.WebhookPublisher
	now              func() time.Time
}

func NewIncidentService(repo IncidentRepository, logger *logrus.Logger, cfg *config.Config, publisher webhook.WebhookPublisher) IncidentService {
	return &incidentService{
		repo:             repo,
		logger:           logger,
		cfg:              cfg,
		webhookPublisher: publisher,
		now:              time.Now,
	}
}

func (s *incidentService) log(method string) *logrus.Entry {
	return s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  method,
	})
}

// CreateIncident создает инцидент с серверным id и временем регистрации
func (s *incidentService) CreateIncident(ctx context.Context, draft models.IncidentDraft) (*models.Incident, error) {
	log := s.log("CreateIncident").WithField("type", draft.Type)
	log.Info("Attempting to create a new incident")

	incident := &models.Incident{
		ID:               newIncidentID(),
		Type:             draft.Type,
		Tag:              draft.Tag,
		Priority:         draft.Priority,
		Status:           draft.Status,
		Address:          draft.Address,
		Description:      draft.Description,
		Location:         models.Coordinates{Lat: s.cfg.DefaultLat, Lon: s.cfg.DefaultLon},
		AssignedVehicles: []string{},
		Notes:            []models.Note{},
		Timestamp:        s.now().UTC(),
	}
	if incident.Tag == "" {
		incident.Tag = defaultTag
	}
	if incident.Priority == models.PriorityUnset {
		incident.Priority = models.PriorityMedium
	}
	if incident.Status == models.StatusUnset {
		incident.Status = models.StatusNew
	}
	if incident.Address == "" {
		incident.Address = defaultAddress
	}
	if draft.Location != nil {
		incident.Location = *draft.Location
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return nil, fmt.Errorf("service: could not create incident: %w", err)
	}
	s.invalidateCache(ctx, log)

	event := webhook.Event{
		Event:     webhook.EventIncidentCreated,
		Incident:  *incident,
		Timestamp: incident.Timestamp,
	}
	if err := s.webhookPublisher.Publish(ctx, event); err != nil {
		log.WithError(err).Error("Failed to publish webhook event")
	}

	log.WithField("incident_id", incident.ID).Info("Incident created successfully")
	return incident, nil
}

// GetIncident получает инцидент по ID
func (s *incidentService) GetIncident(ctx context.Context, id string) (*models.Incident, error) {
	log := s.log("GetIncident").WithField("incident_id", id)

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}
	return incident, nil
}

// ListIncidents возвращает все инциденты, новые первыми. Список кэшируется в Redis.
func (s *incidentService) ListIncidents(ctx context.Context) ([]models.Incident, error) {
	log := s.log("ListIncidents")

	cached, err := s.repo.GetIncidentsFromCache(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to read incidents from cache")
	}
	if cached != nil {
		log.WithField("count", len(cached)).Debug("Incidents served from cache")
		return cached, nil
	}

	// Поколение читается до запроса в бд: если между чтением и записью кэш
	// инвалидируют, устаревший список в Redis не попадет.
	version, versionErr := s.repo.IncidentsCacheVersion(ctx)
	if versionErr != nil {
		log.WithError(versionErr).Warn("Failed to read incidents cache version")
	}

	incidents, err := s.repo.List(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	if versionErr == nil {
		err := s.repo.SetIncidentsCache(ctx, incidents, version)
		switch {
		case errors.Is(err, ErrStaleCache):
			log.Debug("Incidents cache changed during read, skipping cache write")
		case err != nil:
			log.WithError(err).Warn("Failed to cache incidents")
		}
	}

	log.WithField("count", len(incidents)).Debug("Incidents listed successfully")
	return incidents, nil
}

// UpdateIncident частично обновляет инцидент. Смена статуса проходит через
// машину состояний жизненного цикла.
func (s *incidentService) UpdateIncident(ctx context.Context, id string, patch models.IncidentPatch) (*models.Incident, error) {
	log := s.log("UpdateIncident").WithField("incident_id", id)
	log.Info("Attempting to update incident")

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent incident")
		return nil, fmt.Errorf("service: could not update incident: %w", err)
	}

	if patch.Status != nil && *patch.Status != models.StatusUnset {
		if err := lifecycle.Transition(existing, *patch.Status); err != nil {
			log.WithError(err).Warn("Rejected status transition")
			return nil, fmt.Errorf("service: could not update incident: %w", err)
		}
	}
	if patch.Type != nil {
		existing.Type = *patch.Type
	}
	if patch.Tag != nil {
		existing.Tag = *patch.Tag
	}
	if patch.Priority != nil && *patch.Priority != models.PriorityUnset {
		existing.Priority = *patch.Priority
	}
	if patch.Address != nil {
		existing.Address = *patch.Address
	}
	if patch.Description != nil {
		existing.Description = *patch.Description
	}
	if patch.AssignedVehicles != nil {
		existing.AssignedVehicles = append([]string{}, patch.AssignedVehicles...)
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		log.WithError(err).Error("Failed to update incident in repository")
		return nil, fmt.Errorf("service: could not update incident: %w", err)
	}
	s.invalidateCache(ctx, log)

	log.Info("Incident updated successfully")
	return existing, nil
}

// DeleteIncident удаляет инцидент вместе с журналом
func (s *incidentService) DeleteIncident(ctx context.Context, id string) error {
	log := s.log("DeleteIncident").WithField("incident_id", id)
	log.Info("Attempting to delete incident")

	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to delete incident in repository")
		return fmt.Errorf("service: could not delete incident: %w", err)
	}
	s.invalidateCache(ctx, log)

	log.Info("Incident deleted successfully")
	return nil
}

// AddNote добавляет заметку в конец журнала инцидента
func (s *incidentService) AddNote(ctx context.Context, id, author, content string) (*models.Note, error) {
	log := s.log("AddNote").WithField("incident_id", id)

	note := &models.Note{
		ID:        newNoteID(),
		Author:    author,
		Content:   content,
		Timestamp: s.now().UTC(),
	}
	if err := s.repo.AddNote(ctx, id, note); err != nil {
		log.WithError(err).Warn("Failed to add note in repository")
		return nil, fmt.Errorf("service: could not add note: %w", err)
	}
	s.invalidateCache(ctx, log)

	log.WithField("note_id", note.ID).Info("Note added successfully")
	return note, nil
}

// GetStats считает агрегаты панели мониторинга по всем инцидентам
func (s *incidentService) GetStats(ctx context.Context) (*models.Stats, error) {
	incidents, err := s.ListIncidents(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not compute stats: %w", err)
	}
	stats := ComputeStats(incidents, s.now())
	return &stats, nil
}

func (s *incidentService) invalidateCache(ctx context.Context, log *logrus.Entry) {
	if err := s.repo.InvalidateIncidentsCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate incidents cache")
	}
}

var statusColors = map[models.IncidentStatus]string{
	models.StatusNew:        "#ef4444",
	models.StatusInProgress: "#f59e0b",
	models.StatusResolved:   "#10b981",
	models.StatusClosed:     "#64748b",
}

// ComputeStats строит агрегаты относительно момента now в его часовом поясе:
// пожары (тег FOGO) за сегодня и за месяц, разбивку по статусам и
// активность за сегодня по четырехчасовым интервалам.
func ComputeStats(incidents []models.Incident, now time.Time) models.Stats {
	loc := now.Location()
	year, month, day := now.Date()

	stats := models.Stats{
		ActivityData:    make([]models.ActivityBucket, 0, 6),
		StatusBreakdown: make([]models.StatusBucket, 0, len(models.IncidentStatuses())),
	}

	var buckets [6]int
	byStatus := make(map[models.IncidentStatus]int)

	for _, inc := range incidents {
		ts := inc.Timestamp.In(loc)
		y, m, d := ts.Date()
		today := y == year && m == month && d == day

		if inc.Tag == fireTag {
			if today {
				stats.DailyFireCount++
			}
			if y == year && m == month {
				stats.MonthlyFireCount++
			}
		}
		if today {
			buckets[ts.Hour()/4]++
		}
		byStatus[inc.Status]++
	}

	for i, n := range buckets {
		stats.ActivityData = append(stats.ActivityData, models.ActivityBucket{
			Name:  fmt.Sprintf("%02dh", i*4),
			Fires: n,
		})
	}
	for _, st := range models.IncidentStatuses() {
		stats.StatusBreakdown = append(stats.StatusBreakdown, models.StatusBucket{
			Name:  st.String(),
			Value: byStatus[st],
			Color: statusColors[st],
		})
	}
	return stats
}

func newIncidentID() string {
	return "INC-" + strings.ToUpper(uuid.NewString()[:6])
}

func newNoteID() string {
	return "n-" + uuid.NewString()[:8]
}
