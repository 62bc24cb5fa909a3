package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/fire_command_center/internal/lifecycle"
	"github.com/shenikar/fire_command_center/internal/metrics"
	"github.com/shenikar/fire_command_center/internal/models"
)

var (
	// ErrNotFound - инцидента нет в текущей коллекции
	ErrNotFound = errors.New("incident not found in store")
	// ErrEmptyNote - пустой текст заметки
	ErrEmptyNote = errors.New("note content is empty")
)

// IncidentAPI определяет контракт Incident API, которым пользуется хранилище
type IncidentAPI interface {
	ListIncidents(ctx context.Context) ([]models.Incident, error)
	CreateIncident(ctx context.Context, draft models.IncidentDraft) (models.Incident, error)
	UpdateIncident(ctx context.Context, id string, patch models.IncidentPatch) (models.Incident, error)
	DeleteIncident(ctx context.Context, id string) error
	AddNote(ctx context.Context, id, author, content string) (models.Note, error)
}

// Notifier - канал сообщений оператору
type Notifier interface {
	Info(msg string)
	Success(msg string)
	Error(msg string)
}

// Options - параметры хранилища
type Options struct {
	// Interval - период опроса API
	Interval time.Duration
	// Operator - автор заметок по умолчанию
	Operator string
	// SimVehicleID - условная машина, которую назначает локальная отправка
	SimVehicleID string
}

// Store - кэш инцидентов текущей сессии с опросом API и выбранным инцидентом.
// Коллекция целиком заменяется при каждом обновлении; локальные правки
// живут до следующего опроса.
type Store struct {
	api      IncidentAPI
	notifier Notifier
	logger   *logrus.Logger
	opts     Options

	// refreshMu гарантирует не более одного обновления одновременно
	refreshMu sync.Mutex

	mu         sync.RWMutex
	incidents  []models.Incident
	selectedID string
	selected   *models.Incident
	noteDraft  string
	// generation растет после каждой успешной мутации на сервере.
	// Обновление, начатое до мутации, отбрасывается.
	generation  uint64
	version     uint64
	pollFailing bool
}

// New создает хранилище
func New(api IncidentAPI, notifier Notifier, logger *logrus.Logger, opts Options) *Store {
	if opts.Interval <= 0 {
		opts.Interval = 3 * time.Second
	}
	if opts.Operator == "" {
		opts.Operator = "Op. COE"
	}
	if opts.SimVehicleID == "" {
		opts.SimVehicleID = "V-99 (Sim)"
	}
	return &Store{
		api:       api,
		notifier:  notifier,
		logger:    logger,
		opts:      opts,
		incidents: []models.Incident{},
	}
}

func (s *Store) log(method string) *logrus.Entry {
	return s.logger.WithFields(logrus.Fields{
		"service": "store",
		"method":  method,
	})
}

// Run обновляет коллекцию сразу и затем с периодом Options.Interval,
// пока ctx не отменен. Тик пропускается, если обновление еще выполняется.
func (s *Store) Run(ctx context.Context) error {
	log := s.log("Run")
	log.WithField("interval", s.opts.Interval).Info("Starting incident polling")

	s.poll(ctx)

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping incident polling")
			return nil
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

func (s *Store) poll(ctx context.Context) {
	if !s.refreshMu.TryLock() {
		metrics.ObserveRefresh(metrics.OutcomeSkipped)
		s.log("poll").Debug("Refresh already in flight, skipping tick")
		return
	}
	defer s.refreshMu.Unlock()

	err := s.refreshLocked(ctx)

	s.mu.Lock()
	wasFailing := s.pollFailing
	s.pollFailing = err != nil
	s.mu.Unlock()

	// Сообщаем только о смене состояния, а не о каждом неудачном тике
	switch {
	case err != nil && !wasFailing && ctx.Err() == nil:
		s.notifier.Error("Falha ao atualizar ocorrências.")
	case err == nil && wasFailing:
		s.notifier.Info("Conexão restabelecida.")
	}
}

// Refresh загружает полную коллекцию и заменяет ею локальную.
// Если идет другое обновление, вызов дожидается его окончания.
func (s *Store) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Store) refreshLocked(ctx context.Context) error {
	log := s.log("Refresh")

	s.mu.RLock()
	gen := s.generation
	s.mu.RUnlock()

	incidents, err := s.api.ListIncidents(ctx)
	if err != nil {
		metrics.ObserveRefresh(metrics.OutcomeError)
		log.WithError(err).Warn("Failed to load incidents")
		return fmt.Errorf("store: could not refresh incidents: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		metrics.ObserveRefresh(metrics.OutcomeStale)
		log.Debug("Discarding refresh started before a local mutation")
		return nil
	}

	s.applyLocked(incidents)
	metrics.ObserveRefresh(metrics.OutcomeSuccess)
	return nil
}

func (s *Store) applyLocked(fetched []models.Incident) {
	incidents := make([]models.Incident, len(fetched))
	for i, inc := range fetched {
		incidents[i] = inc.Clone()
	}

	if !reflect.DeepEqual(s.incidents, incidents) {
		s.incidents = incidents
		s.version++
	}

	if s.selectedID == "" {
		return
	}

	idx := indexOf(s.incidents, s.selectedID)
	if idx < 0 {
		s.log("Refresh").WithField("incident_id", s.selectedID).Info("Selected incident disappeared, clearing selection")
		s.notifier.Info(fmt.Sprintf("Ocorrência %s não está mais disponível.", s.selectedID))
		s.clearSelectionLocked()
		return
	}

	// Черновик заметки не трогаем: меняется только снимок выбранного инцидента
	if !reflect.DeepEqual(*s.selected, s.incidents[idx]) {
		updated := s.incidents[idx].Clone()
		s.selected = &updated
		s.version++
	}
}

// Create создает инцидент, обновляет коллекцию и выбирает новый инцидент
func (s *Store) Create(ctx context.Context, draft models.IncidentDraft) (models.Incident, error) {
	log := s.log("Create").WithField("type", draft.Type)
	log.Info("Attempting to create a new incident")

	created, err := s.api.CreateIncident(ctx, draft)
	if err != nil {
		log.WithError(err).Error("Failed to create incident")
		s.notifier.Error("Erro ao criar ocorrência")
		return models.Incident{}, fmt.Errorf("store: could not create incident: %w", err)
	}

	// Новый инцидент виден сразу, даже если следующее обновление не удастся
	s.mu.Lock()
	s.generation++
	if indexOf(s.incidents, created.ID) < 0 {
		s.incidents = append([]models.Incident{created.Clone()}, s.incidents...)
		s.version++
	}
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		log.WithError(err).Warn("Refresh after create failed")
	}

	s.mu.Lock()
	selected := created
	if idx := indexOf(s.incidents, created.ID); idx >= 0 {
		selected = s.incidents[idx]
	}
	s.selectLocked(selected)
	s.mu.Unlock()

	log.WithField("incident_id", created.ID).Info("Incident created successfully")
	s.notifier.Success(fmt.Sprintf("Ocorrência %s criada.", created.ID))
	return created.Clone(), nil
}

// Remove удаляет инцидент, снимает выбор с него и обновляет коллекцию
func (s *Store) Remove(ctx context.Context, id string) error {
	log := s.log("Remove").WithField("incident_id", id)
	log.Info("Attempting to delete incident")

	if err := s.api.DeleteIncident(ctx, id); err != nil {
		log.WithError(err).Error("Failed to delete incident")
		s.notifier.Error("Erro ao apagar registro.")
		return fmt.Errorf("store: could not delete incident %s: %w", id, err)
	}

	s.mu.Lock()
	s.generation++
	if idx := indexOf(s.incidents, id); idx >= 0 {
		s.incidents = append(s.incidents[:idx:idx], s.incidents[idx+1:]...)
		s.version++
	}
	if s.selectedID == id {
		s.clearSelectionLocked()
	}
	s.mu.Unlock()

	s.notifier.Success("Registro apagado.")

	if err := s.Refresh(ctx); err != nil {
		log.WithError(err).Warn("Refresh after delete failed")
	}
	return nil
}

// AppendNote отправляет заметку и сразу добавляет ее в локальный журнал,
// не дожидаясь следующего опроса. Пустой author заменяется оператором.
func (s *Store) AppendNote(ctx context.Context, id, author, content string) (models.Note, error) {
	log := s.log("AppendNote").WithField("incident_id", id)

	if strings.TrimSpace(content) == "" {
		return models.Note{}, ErrEmptyNote
	}
	if author == "" {
		author = s.opts.Operator
	}

	note, err := s.api.AddNote(ctx, id, author, content)
	if err != nil {
		log.WithError(err).Error("Failed to add note")
		s.notifier.Error("Erro ao adicionar nota")
		return models.Note{}, fmt.Errorf("store: could not add note to %s: %w", id, err)
	}

	s.mu.Lock()
	s.generation++
	if idx := indexOf(s.incidents, id); idx >= 0 {
		inc := s.incidents[idx].Clone()
		inc.Notes = append(inc.Notes, note)
		s.incidents[idx] = inc
	}
	if s.selectedID == id {
		sel := s.selected.Clone()
		sel.Notes = append(sel.Notes, note)
		s.selected = &sel
		s.noteDraft = ""
	}
	s.version++
	s.mu.Unlock()

	log.WithField("note_id", note.ID).Info("Note added successfully")
	s.notifier.Success("Nota adicionada.")
	return note, nil
}

// UpdateStatus переводит инцидент в новый статус на сервере. Переход
// проверяется по машине состояний до запроса; ответ сервера сразу
// заменяет локальную копию.
func (s *Store) UpdateStatus(ctx context.Context, id string, to models.IncidentStatus) (models.Incident, error) {
	log := s.log("UpdateStatus").WithFields(logrus.Fields{"incident_id": id, "status": to.String()})

	s.mu.RLock()
	idx := indexOf(s.incidents, id)
	var from models.IncidentStatus
	if idx >= 0 {
		from = s.incidents[idx].Status
	}
	s.mu.RUnlock()
	if idx < 0 {
		return models.Incident{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !lifecycle.CanTransition(from, to) {
		log.Warn("Status transition rejected")
		s.notifier.Error(fmt.Sprintf("Não é possível mudar de %s para %s.", from, to))
		return models.Incident{}, fmt.Errorf("%w: %q -> %q", lifecycle.ErrInvalidTransition, from, to)
	}

	updated, err := s.api.UpdateIncident(ctx, id, models.IncidentPatch{Status: &to})
	if err != nil {
		log.WithError(err).Error("Failed to update incident status")
		s.notifier.Error("Erro ao atualizar status.")
		return models.Incident{}, fmt.Errorf("store: could not update status of %s: %w", id, err)
	}

	s.mu.Lock()
	s.generation++
	if idx := indexOf(s.incidents, id); idx >= 0 {
		s.incidents[idx] = updated.Clone()
	}
	if s.selectedID == id {
		sel := updated.Clone()
		s.selected = &sel
	}
	s.version++
	s.mu.Unlock()

	log.Info("Incident status updated")
	s.notifier.Success(fmt.Sprintf("Status atualizado: %s.", to))
	return updated.Clone(), nil
}

// Dispatch назначает условную машину и переводит инцидент в работу.
// Изменение только локальное: API не вызывается, и следующий опрос его перезапишет.
func (s *Store) Dispatch(id string) (models.Incident, error) {
	log := s.log("Dispatch").WithField("incident_id", id)

	s.mu.Lock()
	idx := indexOf(s.incidents, id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Incident{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	updated := s.incidents[idx].Clone()
	if err := lifecycle.Dispatch(&updated, s.opts.SimVehicleID); err != nil {
		s.mu.Unlock()
		log.WithError(err).Warn("Dispatch rejected")
		s.notifier.Error("Não é possível despachar para uma ocorrência encerrada.")
		return models.Incident{}, err
	}

	s.incidents[idx] = updated
	if s.selectedID == id {
		sel := updated.Clone()
		s.selected = &sel
	}
	s.version++
	s.mu.Unlock()

	log.WithField("vehicle_id", s.opts.SimVehicleID).Info("Simulated dispatch applied locally")
	s.notifier.Success("Recursos despachados para o local.")
	return updated.Clone(), nil
}

// Select делает инцидент выбранным. Черновик заметки сбрасывается,
// только если выбран другой инцидент.
func (s *Store) Select(id string) (models.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.incidents, id)
	if idx < 0 {
		return models.Incident{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.selectLocked(s.incidents[idx])
	return s.selected.Clone(), nil
}

// ClearSelection снимает выбор
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID != "" {
		s.clearSelectionLocked()
	}
}

// Selected возвращает снимок выбранного инцидента
func (s *Store) Selected() (models.Incident, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return models.Incident{}, false
	}
	return s.selected.Clone(), true
}

// Incidents возвращает копию текущей коллекции
func (s *Store) Incidents() []models.Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Incident, len(s.incidents))
	for i, inc := range s.incidents {
		out[i] = inc.Clone()
	}
	return out
}

// Filtered возвращает коллекцию, отфильтрованную по режиму и поиску
func (s *Store) Filtered(mode lifecycle.FilterMode, query string) []models.Incident {
	return lifecycle.Filter(s.Incidents(), mode, query)
}

// SetNoteDraft сохраняет набираемый текст заметки
func (s *Store) SetNoteDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noteDraft = text
}

// NoteDraft возвращает набираемый текст заметки
func (s *Store) NoteDraft() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.noteDraft
}

// Version растет при каждом видимом изменении состояния
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) selectLocked(inc models.Incident) {
	if inc.ID != s.selectedID {
		s.noteDraft = ""
	}
	sel := inc.Clone()
	s.selectedID = inc.ID
	s.selected = &sel
	s.version++
}

func (s *Store) clearSelectionLocked() {
	s.selectedID = ""
	s.selected = nil
	s.noteDraft = ""
	s.version++
}

func indexOf(incidents []models.Incident, id string) int {
	for i, inc := range incidents {
		if inc.ID == id {
			return i
		}
	}
	return -1
}
