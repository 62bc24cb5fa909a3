package models

import (
	"slices"
	"time"
)

// Coordinates - географическая точка в градусах
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Incident - зарегистрированное происшествие с журналом заметок
type Incident struct {
	ID               string         `json:"id"`
	Type             string         `json:"type"`
	Tag              string         `json:"tag,omitempty"`
	Priority         Priority       `json:"priority"`
	Status           IncidentStatus `json:"status"`
	Location         Coordinates    `json:"location"`
	Address          string         `json:"address"`
	AssignedVehicles []string       `json:"assignedVehicles"`
	Description      string         `json:"description"`
	Timestamp        time.Time      `json:"timestamp"`
	Notes            []Note         `json:"notes"`
}

// Note - запись в оперативном журнале инцидента
type Note struct {
	ID            string    `json:"id"`
	Author        string    `json:"author"`
	Content       string    `json:"content"`
	Timestamp     time.Time `json:"timestamp"`
	AttachmentURL string    `json:"attachmentUrl,omitempty"`
}

// IsActive - инцидент активен, пока он не закрыт и не завершен
func (i Incident) IsActive() bool {
	return !i.Status.Terminal()
}

// Clone возвращает копию инцидента, не разделяющую срезы с оригиналом
func (i Incident) Clone() Incident {
	c := i
	c.AssignedVehicles = slices.Clone(i.AssignedVehicles)
	c.Notes = slices.Clone(i.Notes)
	if c.AssignedVehicles == nil {
		c.AssignedVehicles = []string{}
	}
	if c.Notes == nil {
		c.Notes = []Note{}
	}
	return c
}

// IncidentDraft - поля, которые клиент передает при создании инцидента
type IncidentDraft struct {
	Type        string         `json:"type"`
	Tag         string         `json:"tag,omitempty"`
	Priority    Priority       `json:"priority,omitempty"`
	Status      IncidentStatus `json:"status,omitempty"`
	Address     string         `json:"address,omitempty"`
	Description string         `json:"description,omitempty"`
	Location    *Coordinates   `json:"location,omitempty"`
}

// IncidentPatch - частичное обновление. nil означает "не менять".
type IncidentPatch struct {
	Type             *string         `json:"type,omitempty"`
	Tag              *string         `json:"tag,omitempty"`
	Priority         *Priority       `json:"priority,omitempty"`
	Status           *IncidentStatus `json:"status,omitempty"`
	Address          *string         `json:"address,omitempty"`
	Description      *string         `json:"description,omitempty"`
	AssignedVehicles []string        `json:"assignedVehicles,omitempty"`
}
