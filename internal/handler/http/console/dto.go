package console

import "github.com/shenikar/fire_command_center/internal/models"

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createIncidentRequest struct {
	Type        string                `json:"type" validate:"required,min=2,max=100"`
	Tag         string                `json:"tag,omitempty" validate:"omitempty,max=50"`
	Priority    models.Priority       `json:"priority,omitempty"`
	Status      models.IncidentStatus `json:"status,omitempty"`
	Address     string                `json:"address,omitempty" validate:"max=255"`
	Description string                `json:"description,omitempty" validate:"max=500"`
	Location    *locationRequest      `json:"location,omitempty"`
}

type locationRequest struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
}

func (r createIncidentRequest) draft() models.IncidentDraft {
	d := models.IncidentDraft{
		Type:        r.Type,
		Tag:         r.Tag,
		Priority:    r.Priority,
		Status:      r.Status,
		Address:     r.Address,
		Description: r.Description,
	}
	if r.Location != nil {
		d.Location = &models.Coordinates{Lat: r.Location.Lat, Lon: r.Location.Lon}
	}
	return d
}

type draftRequest struct {
	Text string `json:"text" validate:"max=2000"`
}

// noteRequest - пустой content означает "отправить текущий черновик"
type noteRequest struct {
	Content string `json:"content" validate:"max=2000"`
}

type statusRequest struct {
	Status models.IncidentStatus `json:"status"`
}

type mapClickRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

type mapClickResponse struct {
	Kind     string           `json:"kind"`
	Vehicle  *models.Vehicle  `json:"vehicle,omitempty"`
	Incident *models.Incident `json:"incident,omitempty"`
	// DistanceMeters - расстояние от центра карты (штаба)
	DistanceMeters float64 `json:"distanceMeters"`
}

type selectionResponse struct {
	Incident  models.Incident `json:"incident"`
	NoteDraft string          `json:"noteDraft"`
}

type shareResponse struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type textResponse struct {
	Text string `json:"text"`
}

type sitrepResponse struct {
	Text string `json:"text"`
	// Simulated - модель не подключена, текст собран локально
	Simulated bool `json:"simulated"`
}
