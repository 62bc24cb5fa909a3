// Package tacmap строит тактическую карту: символы машин и активных
// инцидентов в плоскости проектора, попадание указателем и отрисовку в SVG.
package tacmap

import (
	"github.com/golang/geo/r2"

	"github.com/shenikar/fire_command_center/internal/geo"
	"github.com/shenikar/fire_command_center/internal/lifecycle"
	"github.com/shenikar/fire_command_center/internal/models"
)

const (
	ColorVehicleAvailable = "#3b82f6"
	ColorVehicleOnScene   = "#eab308"
	ColorVehicleOther     = "#64748b"
	ColorIncident         = "#ef4444"

	vehicleHitRadius  = 1.5
	incidentHitRadius = 2.5
)

// Kind - тип символа на карте
type Kind int

const (
	KindVehicle Kind = iota + 1
	KindIncident
)

func (k Kind) String() string {
	switch k {
	case KindVehicle:
		return "vehicle"
	case KindIncident:
		return "incident"
	default:
		return "unknown"
	}
}

// Symbol - отрисованный маркер вместе с исходной записью
type Symbol struct {
	Kind     Kind
	ID       string
	Label    string
	Position r2.Point
	Color    string
	Pulse    bool
	InView   bool

	Vehicle  *models.Vehicle
	Incident *models.Incident
}

// Scene - результат отрисовки. Символы идут в порядке рисования:
// сначала машины, затем инциденты поверх них.
type Scene struct {
	Symbols    []Symbol
	SelectedID string
}

// Renderer - чистое представление над снимком хранилища
type Renderer struct {
	Projector       geo.Projector
	OnVehicleClick  func(models.Vehicle)
	OnIncidentClick func(models.Incident)
}

// NewRenderer создает рендерер с заданным проектором
func NewRenderer(p geo.Projector) *Renderer {
	return &Renderer{Projector: p}
}

// Render строит сцену из всех машин и только активных инцидентов.
// Входные срезы не изменяются.
func (r *Renderer) Render(vehicles []models.Vehicle, incidents []models.Incident) Scene {
	scene := Scene{Symbols: make([]Symbol, 0, len(vehicles)+len(incidents))}

	for i := range vehicles {
		v := vehicles[i]
		pos := r.Projector.Project(v.Location)
		scene.Symbols = append(scene.Symbols, Symbol{
			Kind:     KindVehicle,
			ID:       v.ID,
			Label:    v.ID,
			Position: pos,
			Color:    VehicleColor(v.Status),
			InView:   geo.InView(pos),
			Vehicle:  &v,
		})
	}

	for _, inc := range lifecycle.Active(incidents) {
		inc := inc.Clone()
		pos := r.Projector.Project(inc.Location)
		scene.Symbols = append(scene.Symbols, Symbol{
			Kind:     KindIncident,
			ID:       inc.ID,
			Label:    inc.Type,
			Position: pos,
			Color:    ColorIncident,
			Pulse:    inc.Priority == models.PriorityCritical,
			InView:   geo.InView(pos),
			Incident: &inc,
		})
	}

	return scene
}

// VehicleColor - цвет маркера машины по ее статусу
func VehicleColor(status models.VehicleStatus) string {
	switch status {
	case models.VehicleAvailable:
		return ColorVehicleAvailable
	case models.VehicleOnScene:
		return ColorVehicleOnScene
	default:
		return ColorVehicleOther
	}
}

// Find ищет символ по типу и идентификатору
func (s Scene) Find(kind Kind, id string) (Symbol, bool) {
	for _, sym := range s.Symbols {
		if sym.Kind == kind && sym.ID == id {
			return sym, true
		}
	}
	return Symbol{}, false
}

// HitTest возвращает верхний символ, в радиус которого попадает точка
func (s Scene) HitTest(p r2.Point) (Symbol, bool) {
	for i := len(s.Symbols) - 1; i >= 0; i-- {
		sym := s.Symbols[i]
		if sym.Position.Sub(p).Norm() <= hitRadius(sym.Kind) {
			return sym, true
		}
	}
	return Symbol{}, false
}

// Click передает полную запись символа под точкой в соответствующий обработчик.
// Возвращает false, если под точкой ничего нет.
func (r *Renderer) Click(scene Scene, p r2.Point) bool {
	sym, ok := scene.HitTest(p)
	if !ok {
		return false
	}
	switch sym.Kind {
	case KindVehicle:
		if r.OnVehicleClick != nil {
			r.OnVehicleClick(*sym.Vehicle)
		}
	case KindIncident:
		if r.OnIncidentClick != nil {
			r.OnIncidentClick(sym.Incident.Clone())
		}
	}
	return true
}

func hitRadius(k Kind) float64 {
	if k == KindIncident {
		return incidentHitRadius
	}
	return vehicleHitRadius
}
