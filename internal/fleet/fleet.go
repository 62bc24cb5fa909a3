// Package fleet загружает состав машин и дежурной смены из YAML. Без файла
// используется встроенный демонстрационный состав.
package fleet

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shenikar/fire_command_center/internal/models"
)

//go:embed roster.yaml
var defaultRoster []byte

var (
	ErrEmptyRoster = errors.New("fleet roster has no vehicles")
	ErrInvalidPage = errors.New("page must be positive")
)

// DefaultPageSize - размер страницы списка личного состава
const DefaultPageSize = 5

const healthCheckLayout = "2006-01-02"

// Roster - машины и дежурная смена. Секция personnel необязательна.
type Roster struct {
	Vehicles  []models.Vehicle   `yaml:"vehicles"`
	Personnel []models.Personnel `yaml:"personnel"`
}

// Parse разбирает YAML-документ состава. Машины без lastUpdate получают now.
func Parse(data []byte, now time.Time) (Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Roster{}, fmt.Errorf("failed to parse fleet roster: %w", err)
	}
	if len(r.Vehicles) == 0 {
		return Roster{}, ErrEmptyRoster
	}
	if err := checkVehicles(r.Vehicles, now); err != nil {
		return Roster{}, err
	}
	if err := checkPersonnel(r.Personnel); err != nil {
		return Roster{}, err
	}
	return r, nil
}

func checkVehicles(vehicles []models.Vehicle, now time.Time) error {
	seen := make(map[string]struct{}, len(vehicles))
	for i := range vehicles {
		v := &vehicles[i]
		if v.ID == "" {
			return fmt.Errorf("fleet roster: vehicle #%d has no id", i+1)
		}
		if _, dup := seen[v.ID]; dup {
			return fmt.Errorf("fleet roster: duplicate vehicle id %q", v.ID)
		}
		seen[v.ID] = struct{}{}
		if v.Status == models.VehicleUnset {
			return fmt.Errorf("fleet roster: vehicle %q has no status", v.ID)
		}
		if v.LastUpdate.IsZero() {
			v.LastUpdate = now
		}
	}
	return nil
}

func checkPersonnel(personnel []models.Personnel) error {
	seen := make(map[string]struct{}, len(personnel))
	for i, p := range personnel {
		if p.ID == "" {
			return fmt.Errorf("fleet roster: personnel #%d has no id", i+1)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("fleet roster: duplicate personnel id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
		if p.Status == models.PersonnelUnset {
			return fmt.Errorf("fleet roster: personnel %q has no status", p.ID)
		}
		if p.LastHealthCheck != "" {
			if _, err := time.Parse(healthCheckLayout, p.LastHealthCheck); err != nil {
				return fmt.Errorf("fleet roster: personnel %q has invalid lastHealthCheck %q", p.ID, p.LastHealthCheck)
			}
		}
	}
	return nil
}

// Load читает состав из файла path или, если path пуст, встроенный состав
func Load(path string, now time.Time) (Roster, error) {
	if path == "" {
		return Parse(defaultRoster, now)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Roster{}, fmt.Errorf("failed to read fleet roster %s: %w", path, err)
	}
	return Parse(data, now)
}

// Registry - потокобезопасный снимок состава для консоли
type Registry struct {
	mu        sync.RWMutex
	vehicles  []models.Vehicle
	personnel []models.Personnel
}

// NewRegistry создает реестр из загруженного состава
func NewRegistry(r Roster) *Registry {
	return &Registry{
		vehicles:  append([]models.Vehicle(nil), r.Vehicles...),
		personnel: append([]models.Personnel(nil), r.Personnel...),
	}
}

// Vehicles возвращает копию состава
func (r *Registry) Vehicles() []models.Vehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Vehicle(nil), r.vehicles...)
}

// Available возвращает машины в статусе "Disponível"
func (r *Registry) Available() []models.Vehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Vehicle
	for _, v := range r.vehicles {
		if v.Status == models.VehicleAvailable {
			out = append(out, v)
		}
	}
	return out
}

// Get ищет машину по идентификатору
func (r *Registry) Get(id string) (models.Vehicle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return models.Vehicle{}, false
}

// PersonnelPage - одна страница списка личного состава. Page считается с 1.
type PersonnelPage struct {
	Items      []models.Personnel `json:"items"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	Total      int                `json:"total"`
	TotalPages int                `json:"totalPages"`
}

// Personnel возвращает копию дежурной смены
func (r *Registry) Personnel() []models.Personnel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Personnel(nil), r.personnel...)
}

// PersonnelPage режет смену на страницы по size человек. Страница за
// последней возвращается пустой; size <= 0 означает DefaultPageSize.
func (r *Registry) PersonnelPage(page, size int) (PersonnelPage, error) {
	if page < 1 {
		return PersonnelPage{}, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}
	if size <= 0 {
		size = DefaultPageSize
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.personnel)
	p := PersonnelPage{
		Items:      []models.Personnel{},
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: (total + size - 1) / size,
	}
	start := (page - 1) * size
	if start >= total {
		return p, nil
	}
	end := min(start+size, total)
	p.Items = append(p.Items, r.personnel[start:end]...)
	return p, nil
}
