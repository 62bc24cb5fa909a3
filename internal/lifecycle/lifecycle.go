package lifecycle

import (
	"errors"
	"fmt"

	"github.com/shenikar/fire_command_center/internal/models"
)

// ErrInvalidTransition - запрошенный переход статуса не разрешен
var ErrInvalidTransition = errors.New("invalid status transition")

// transitions - разрешенные переходы. Resolved и Closed терминальные.
var transitions = map[models.IncidentStatus][]models.IncidentStatus{
	models.StatusNew:        {models.StatusInProgress, models.StatusResolved, models.StatusClosed},
	models.StatusInProgress: {models.StatusResolved, models.StatusClosed},
}

// CanTransition сообщает, допустим ли переход from -> to.
// Переход в тот же статус всегда допустим.
func CanTransition(from, to models.IncidentStatus) bool {
	if from == to {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition переводит инцидент в новый статус
func Transition(inc *models.Incident, to models.IncidentStatus) error {
	if !CanTransition(inc.Status, to) {
		return fmt.Errorf("%w: %q -> %q", ErrInvalidTransition, inc.Status, to)
	}
	inc.Status = to
	return nil
}

// Dispatch назначает машину на инцидент и переводит новый инцидент в работу.
// Повторная отправка той же машины добавляет ее повторно.
func Dispatch(inc *models.Incident, vehicleID string) error {
	if inc.Status.Terminal() {
		return fmt.Errorf("%w: cannot dispatch to %q incident", ErrInvalidTransition, inc.Status)
	}
	if err := Transition(inc, models.StatusInProgress); err != nil {
		return err
	}
	inc.AssignedVehicles = append(inc.AssignedVehicles, vehicleID)
	return nil
}
