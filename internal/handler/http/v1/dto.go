package v1

import "github.com/shenikar/fire_command_center/internal/models"

// LocationRequest DTO координат
// @Description DTO координат
type LocationRequest struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
}

// CreateIncidentRequest DTO для создания инцидента
// @Description DTO для создания инцидента. Приоритет и статус передаются подписями (Média, Novo).
type CreateIncidentRequest struct {
	Type        string                `json:"type" validate:"required,min=2,max=100"`
	Tag         string                `json:"tag,omitempty" validate:"omitempty,max=50"`
	Priority    models.Priority       `json:"priority,omitempty" swaggertype:"string" example:"Média"`
	Status      models.IncidentStatus `json:"status,omitempty" swaggertype:"string" example:"Novo"`
	Address     string                `json:"address,omitempty" validate:"max=255"`
	Description string                `json:"description,omitempty" validate:"max=500"`
	Location    *LocationRequest      `json:"location,omitempty"`
}

// UpdateIncidentRequest DTO для частичного обновления инцидента
// @Description DTO для частичного обновления инцидента. Отсутствующие поля не меняются.
type UpdateIncidentRequest struct {
	Type             *string                `json:"type,omitempty" validate:"omitempty,min=2,max=100"`
	Tag              *string                `json:"tag,omitempty" validate:"omitempty,max=50"`
	Priority         *models.Priority       `json:"priority,omitempty" swaggertype:"string" example:"Alta"`
	Status           *models.IncidentStatus `json:"status,omitempty" swaggertype:"string" example:"Em Atendimento"`
	Address          *string                `json:"address,omitempty" validate:"omitempty,max=255"`
	Description      *string                `json:"description,omitempty" validate:"omitempty,max=500"`
	AssignedVehicles []string               `json:"assignedVehicles,omitempty" validate:"omitempty,dive,required,max=50"`
}

// AddNoteRequest DTO для добавления заметки
// @Description DTO для добавления заметки
type AddNoteRequest struct {
	Author  string `json:"author" validate:"required,max=100"`
	Content string `json:"content" validate:"required,max=2000"`
}

// LoginRequest DTO для входа оператора
// @Description DTO для входа оператора
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse DTO ответа на вход
// @Description DTO ответа на вход
type LoginResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user,omitempty"`
	Message string       `json:"message,omitempty"`
}

// SuccessResponse DTO подтверждения операции
// @Description DTO подтверждения операции
type SuccessResponse struct {
	Success bool `json:"success"`
}
