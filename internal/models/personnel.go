package models

import "fmt"

// PersonnelStatus - готовность бойца к выезду
type PersonnelStatus int

const (
	PersonnelUnset PersonnelStatus = iota
	PersonnelReady
	PersonnelRest
	PersonnelTraining
	PersonnelLeave
)

var personnelStatusLabels = map[PersonnelStatus]string{
	PersonnelReady:    "Pronto",
	PersonnelRest:     "Descanso",
	PersonnelTraining: "Treinamento",
	PersonnelLeave:    "Férias",
}

// Personnel - боец дежурной смены
type Personnel struct {
	ID     string          `json:"id" yaml:"id"`
	Name   string          `json:"name" yaml:"name"`
	Role   string          `json:"role" yaml:"role"`
	Status PersonnelStatus `json:"status" yaml:"status"`
	Base   string          `json:"base" yaml:"base"`
	// LastHealthCheck - дата последнего медосмотра, YYYY-MM-DD
	LastHealthCheck string `json:"lastHealthCheck" yaml:"lastHealthCheck"`
}

func (s PersonnelStatus) String() string {
	return personnelStatusLabels[s]
}

// ParsePersonnelStatus преобразует подпись в PersonnelStatus
func ParsePersonnelStatus(label string) (PersonnelStatus, error) {
	for s, l := range personnelStatusLabels {
		if l == label {
			return s, nil
		}
	}
	return PersonnelUnset, fmt.Errorf("unknown personnel status %q", label)
}

func (s PersonnelStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *PersonnelStatus) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = PersonnelUnset
		return nil
	}
	v, err := ParsePersonnelStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
