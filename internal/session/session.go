// Package session хранит текущего оператора консоли. Состояние явно
// инициализируется из постоянного хранилища при старте и очищается при выходе.
//
// Сессия одна на процесс: консоль обслуживает одно рабочее место оператора,
// и вход с любого клиента открывает ее для всех, кто обращается к этому процессу.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/fire_command_center/internal/models"
)

// ParseError - сохраненная сессия повреждена
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("session %s is malformed: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Manager - сессия оператора
type Manager struct {
	storage Storage
	key     string
	logger  *logrus.Logger

	mu   sync.RWMutex
	user *models.User
}

// NewManager создает менеджер, сохраняющий пользователя под ключом key
func NewManager(storage Storage, key string, logger *logrus.Logger) *Manager {
	return &Manager{storage: storage, key: key, logger: logger}
}

func (m *Manager) log(method string) *logrus.Entry {
	return m.logger.WithFields(logrus.Fields{
		"service": "session",
		"method":  method,
	})
}

// Init восстанавливает пользователя из хранилища. Поврежденная запись
// удаляется, и сессия остается неаутентифицированной.
func (m *Manager) Init(ctx context.Context) error {
	log := m.log("Init")

	data, err := m.storage.Get(ctx, m.key)
	if errors.Is(err, ErrNoEntry) {
		log.Debug("No persisted session")
		return nil
	}
	if err != nil {
		return err
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil || user.ID == "" {
		if err == nil {
			err = errors.New("user id is empty")
		}
		perr := &ParseError{Key: m.key, Err: err}
		log.WithError(perr).Warn("Discarding corrupt persisted session")
		if derr := m.storage.Delete(ctx, m.key); derr != nil {
			log.WithError(derr).Error("Failed to delete corrupt session")
		}
		m.set(nil)
		return nil
	}

	m.set(&user)
	log.WithField("user_id", user.ID).Info("Session restored")
	return nil
}

// Login сохраняет пользователя и делает его текущим
func (m *Manager) Login(ctx context.Context, user models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := m.storage.Set(ctx, m.key, data); err != nil {
		return err
	}
	m.set(&user)
	m.log("Login").WithField("user_id", user.ID).Info("Operator logged in")
	return nil
}

// Teardown завершает сессию и удаляет сохраненную запись
func (m *Manager) Teardown(ctx context.Context) error {
	m.set(nil)
	if err := m.storage.Delete(ctx, m.key); err != nil {
		return err
	}
	m.log("Teardown").Info("Operator logged out")
	return nil
}

// Current возвращает текущего пользователя
func (m *Manager) Current() (models.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return models.User{}, false
	}
	return *m.user, true
}

// IsAuthenticated сообщает, выполнен ли вход
func (m *Manager) IsAuthenticated() bool {
	_, ok := m.Current()
	return ok
}

func (m *Manager) set(user *models.User) {
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
}
