package models

import "fmt"

// Priority - срочность инцидента. Значения упорядочены: PriorityCritical самый срочный.
type Priority int

const (
	PriorityUnset Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

// IncidentStatus - состояние инцидента в жизненном цикле
type IncidentStatus int

const (
	StatusUnset IncidentStatus = iota
	StatusNew
	StatusInProgress
	StatusResolved
	StatusClosed
)

// VehicleStatus - оперативное состояние машины
type VehicleStatus int

const (
	VehicleUnset VehicleStatus = iota
	VehicleAvailable
	VehicleDispatched
	VehicleOnScene
	VehicleMaintenance
)

// Таблицы отображения внутреннего значения в подпись, которую видит оператор.
// Эти же подписи используются как формат обмена с Incident API.
var (
	priorityLabels = map[Priority]string{
		PriorityLow:      "Baixa",
		PriorityMedium:   "Média",
		PriorityHigh:     "Alta",
		PriorityCritical: "Crítica",
	}

	statusLabels = map[IncidentStatus]string{
		StatusNew:        "Novo",
		StatusInProgress: "Em Atendimento",
		StatusResolved:   "Encerrado",
		StatusClosed:     "Fechado",
	}

	vehicleStatusLabels = map[VehicleStatus]string{
		VehicleAvailable:   "Disponível",
		VehicleDispatched:  "Em Deslocamento",
		VehicleOnScene:     "Em Missão",
		VehicleMaintenance: "Manutenção",
	}
)

// Priorities возвращает все приоритеты по возрастанию срочности
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// IncidentStatuses возвращает все статусы в порядке жизненного цикла
func IncidentStatuses() []IncidentStatus {
	return []IncidentStatus{StatusNew, StatusInProgress, StatusResolved, StatusClosed}
}

func (p Priority) String() string {
	if l, ok := priorityLabels[p]; ok {
		return l
	}
	return ""
}

// ParsePriority преобразует подпись в Priority
func ParsePriority(label string) (Priority, error) {
	for p, l := range priorityLabels {
		if l == label {
			return p, nil
		}
	}
	return PriorityUnset, fmt.Errorf("unknown incident priority %q", label)
}

func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*p = PriorityUnset
		return nil
	}
	v, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (s IncidentStatus) String() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return ""
}

// ParseIncidentStatus преобразует подпись в IncidentStatus
func ParseIncidentStatus(label string) (IncidentStatus, error) {
	for s, l := range statusLabels {
		if l == label {
			return s, nil
		}
	}
	return StatusUnset, fmt.Errorf("unknown incident status %q", label)
}

func (s IncidentStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *IncidentStatus) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = StatusUnset
		return nil
	}
	v, err := ParseIncidentStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Terminal сообщает, что из статуса нет переходов
func (s IncidentStatus) Terminal() bool {
	return s == StatusResolved || s == StatusClosed
}

func (s VehicleStatus) String() string {
	if l, ok := vehicleStatusLabels[s]; ok {
		return l
	}
	return ""
}

// ParseVehicleStatus преобразует подпись в VehicleStatus
func ParseVehicleStatus(label string) (VehicleStatus, error) {
	for s, l := range vehicleStatusLabels {
		if l == label {
			return s, nil
		}
	}
	return VehicleUnset, fmt.Errorf("unknown vehicle status %q", label)
}

func (s VehicleStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *VehicleStatus) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = VehicleUnset
		return nil
	}
	v, err := ParseVehicleStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
