package models

import "time"

// Vehicle - пожарная машина или другое средство реагирования
type Vehicle struct {
	ID         string        `json:"id" yaml:"id"`
	Type       string        `json:"type" yaml:"type"`
	Status     VehicleStatus `json:"status" yaml:"status"`
	Location   Coordinates   `json:"location" yaml:"location"`
	Driver     string        `json:"driver" yaml:"driver"`
	Capacity   int           `json:"capacity" yaml:"capacity"`
	LastUpdate time.Time     `json:"lastUpdate" yaml:"lastUpdate"`
}

// User - оператор, вошедший в консоль
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}
