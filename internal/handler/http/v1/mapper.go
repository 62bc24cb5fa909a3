package v1

import "github.com/shenikar/fire_command_center/internal/models"

// DTOToIncidentDraft преобразует DTO создания в черновик инцидента
func DTOToIncidentDraft(dto CreateIncidentRequest) models.IncidentDraft {
	draft := models.IncidentDraft{
		Type:        dto.Type,
		Tag:         dto.Tag,
		Priority:    dto.Priority,
		Status:      dto.Status,
		Address:     dto.Address,
		Description: dto.Description,
	}
	if dto.Location != nil {
		draft.Location = &models.Coordinates{Lat: dto.Location.Lat, Lon: dto.Location.Lon}
	}
	return draft
}

// DTOToIncidentPatch преобразует DTO обновления в частичное обновление
func DTOToIncidentPatch(dto UpdateIncidentRequest) models.IncidentPatch {
	return models.IncidentPatch{
		Type:             dto.Type,
		Tag:              dto.Tag,
		Priority:         dto.Priority,
		Status:           dto.Status,
		Address:          dto.Address,
		Description:      dto.Description,
		AssignedVehicles: dto.AssignedVehicles,
	}
}
