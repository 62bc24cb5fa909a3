// Package ai формирует сводки обстановки (SITREP) и рекомендации по ресурсам
// с помощью генеративной модели. Ошибки модели наружу не выходят: вызывающий
// всегда получает текст.
package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/fire_command_center/internal/models"
)

const (
	MsgReportFailed      = "Error generating report. Please check system logs."
	MsgNoResponse        = "No response generated."
	MsgUnavailable       = "AI unavailable."
	MsgSuggestionFailed  = "Error getting suggestions."
	MsgNoSuggestion      = "No suggestion available."
	simulatedReportFmt   = "API Key not configured. Using simulation: Currently managing %d active incidents with %d available vehicles."
	situationInstruction = `You are an AI assistant for a Fire Department COE.
Based on the provided data, generate a concise, professional Situation Report (SITREP) for the shift commander.
Focus on critical incidents and resource availability. Use military/emergency style brevity.`
)

// UnavailableError - модель не настроена или вернула ошибку
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("ai: %s: generator not configured", e.Op)
	}
	return fmt.Sprintf("ai: %s: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Reporter строит промпты из снимка инцидентов и машин
type Reporter struct {
	gen    Generator
	logger *logrus.Logger
}

// NewReporter создает Reporter. gen может быть nil.
func NewReporter(gen Generator, logger *logrus.Logger) *Reporter {
	return &Reporter{gen: gen, logger: logger}
}

// Enabled сообщает, подключена ли модель
func (r *Reporter) Enabled() bool {
	return r.gen != nil
}

// SituationReport возвращает SITREP по текущей обстановке
func (r *Reporter) SituationReport(ctx context.Context, incidents []models.Incident, vehicles []models.Vehicle) string {
	active := countActive(incidents)
	available := countAvailable(vehicles)

	if r.gen == nil {
		r.logUnavailable(&UnavailableError{Op: "situation report"})
		return fmt.Sprintf(simulatedReportFmt, active, available)
	}

	type incidentSummary struct {
		Type     string          `json:"type"`
		Priority models.Priority `json:"priority"`
		Desc     string          `json:"desc"`
	}
	summaries := make([]incidentSummary, 0, len(incidents))
	for _, inc := range incidents {
		summaries = append(summaries, incidentSummary{Type: inc.Type, Priority: inc.Priority, Desc: inc.Description})
	}
	detail, _ := json.Marshal(summaries)

	prompt := fmt.Sprintf(`%s

Data:
- Active Incidents: %d
- Detailed Incident List: %s
- Available Vehicles: %d
- Total Vehicles: %d
`, situationInstruction, active, detail, available, len(vehicles))

	text, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		r.logUnavailable(&UnavailableError{Op: "situation report", Err: err})
		return MsgReportFailed
	}
	if text == "" {
		return MsgNoResponse
	}
	return text
}

// SuggestResources рекомендует, какие свободные машины направить на инцидент
func (r *Reporter) SuggestResources(ctx context.Context, incident models.Incident, vehicles []models.Vehicle) string {
	if r.gen == nil {
		r.logUnavailable(&UnavailableError{Op: "suggest resources"})
		return MsgUnavailable
	}

	type vehicleSummary struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	available := []vehicleSummary{}
	for _, v := range vehicles {
		if v.Status == models.VehicleAvailable {
			available = append(available, vehicleSummary{ID: v.ID, Type: v.Type})
		}
	}
	resources, _ := json.Marshal(available)

	prompt := fmt.Sprintf(`Incident: %s (%s) at %s.
Description: %s.
Available Resources: %s.

Suggest which vehicle IDs to dispatch and why. Keep it short.`,
		incident.Type, incident.Priority, incident.Address, incident.Description, resources)

	text, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		r.logUnavailable(&UnavailableError{Op: "suggest resources", Err: err})
		return MsgSuggestionFailed
	}
	if text == "" {
		return MsgNoSuggestion
	}
	return text
}

func (r *Reporter) logUnavailable(err *UnavailableError) {
	entry := r.logger.WithFields(logrus.Fields{
		"service": "ai",
		"op":      err.Op,
	})
	if err.Err != nil {
		entry.WithError(err).Error("Generative model call failed")
		return
	}
	entry.Debug("Generative model not configured, using fallback")
}

func countActive(incidents []models.Incident) int {
	n := 0
	for _, inc := range incidents {
		if inc.IsActive() {
			n++
		}
	}
	return n
}

func countAvailable(vehicles []models.Vehicle) int {
	n := 0
	for _, v := range vehicles {
		if v.Status == models.VehicleAvailable {
			n++
		}
	}
	return n
}
