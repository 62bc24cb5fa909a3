package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/fire_command_center/internal/metrics"
	"github.com/shenikar/fire_command_center/internal/models"
)

// Client - HTTP-клиент Incident API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// New создает клиента. apiKey может быть пустым, если сервер не требует ключ.
func New(baseURL, apiKey string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ListIncidents возвращает полную коллекцию инцидентов
func (c *Client) ListIncidents(ctx context.Context) ([]models.Incident, error) {
	var incidents []models.Incident
	if err := c.do(ctx, "list incidents", http.MethodGet, "/api/incidents", nil, &incidents); err != nil {
		return nil, err
	}
	return incidents, nil
}

// CreateIncident создает инцидент; сервер назначает id и timestamp
func (c *Client) CreateIncident(ctx context.Context, draft models.IncidentDraft) (models.Incident, error) {
	var inc models.Incident
	if err := c.do(ctx, "create incident", http.MethodPost, "/api/incidents", draft, &inc); err != nil {
		return models.Incident{}, err
	}
	return inc, nil
}

// UpdateIncident частично обновляет инцидент
func (c *Client) UpdateIncident(ctx context.Context, id string, patch models.IncidentPatch) (models.Incident, error) {
	var inc models.Incident
	if err := c.do(ctx, "update incident", http.MethodPut, "/api/incidents/"+url.PathEscape(id), patch, &inc); err != nil {
		return models.Incident{}, err
	}
	return inc, nil
}

// DeleteIncident удаляет инцидент
func (c *Client) DeleteIncident(ctx context.Context, id string) error {
	return c.do(ctx, "delete incident", http.MethodDelete, "/api/incidents/"+url.PathEscape(id), nil, nil)
}

// AddNote добавляет заметку в журнал инцидента
func (c *Client) AddNote(ctx context.Context, id, author, content string) (models.Note, error) {
	body := map[string]string{"author": author, "content": content}
	var note models.Note
	if err := c.do(ctx, "add note", http.MethodPost, "/api/incidents/"+url.PathEscape(id)+"/notes", body, &note); err != nil {
		return models.Note{}, err
	}
	return note, nil
}

// GetStats возвращает агрегаты для панели мониторинга
func (c *Client) GetStats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	if err := c.do(ctx, "get stats", http.MethodGet, "/api/stats", nil, &stats); err != nil {
		return models.Stats{}, err
	}
	return stats, nil
}

type loginResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Login проверяет учетные данные оператора
func (c *Client) Login(ctx context.Context, username, password string) (models.User, error) {
	body := map[string]string{"username": username, "password": password}
	var resp loginResponse
	if err := c.do(ctx, "login", http.MethodPost, "/api/login", body, &resp); err != nil {
		return models.User{}, err
	}
	if !resp.Success || resp.User == nil {
		return models.User{}, &RequestError{Op: "login", StatusCode: http.StatusUnauthorized, Message: resp.Message}
	}
	return *resp.User, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (err error) {
	defer func() { metrics.ObserveAPICall(op, err) }()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &RequestError{Op: op, Err: fmt.Errorf("failed to marshal request: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	log := c.logger.WithFields(logrus.Fields{"op": op, "method": method, "path": path})
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("Incident API request failed")
		return &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.WithField("status", resp.StatusCode).Warn("Incident API returned non-success status")
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	log.Debug("Incident API request completed")
	return nil
}

// errorMessage достает текст ошибки из тела {"error": ...} или {"message": ...}
func errorMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
