package lifecycle

import (
	"fmt"
	"strings"

	"github.com/shenikar/fire_command_center/internal/models"
)

// FilterMode - режим списка инцидентов
type FilterMode int

const (
	FilterAll FilterMode = iota
	FilterActive
)

// ParseFilterMode разбирает значение query-параметра ("all", "active" или пусто)
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	}
	return FilterAll, fmt.Errorf("unknown filter mode %q", s)
}

func (m FilterMode) String() string {
	if m == FilterActive {
		return "active"
	}
	return "all"
}

// IsActive - инцидент не завершен и не закрыт
func IsActive(inc models.Incident) bool {
	return inc.IsActive()
}

// Active возвращает только активные инциденты, сохраняя порядок
func Active(incidents []models.Incident) []models.Incident {
	return Filter(incidents, FilterActive, "")
}

// Filter отбирает инциденты по режиму и поисковой строке.
// Поиск регистронезависимый, по типу, адресу и идентификатору.
func Filter(incidents []models.Incident, mode FilterMode, query string) []models.Incident {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if mode == FilterActive && !inc.IsActive() {
			continue
		}
		if q != "" && !matches(inc, q) {
			continue
		}
		out = append(out, inc)
	}
	return out
}

func matches(inc models.Incident, q string) bool {
	return strings.Contains(strings.ToLower(inc.Type), q) ||
		strings.Contains(strings.ToLower(inc.Address), q) ||
		strings.Contains(strings.ToLower(inc.ID), q)
}
