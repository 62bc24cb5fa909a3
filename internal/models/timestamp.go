package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Форматы меток времени, которые принимает клиент. Метка без смещения
// (например, "2024-05-20T10:15:30.123456") считается временем в UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp разбирает метку времени ISO-8601 со смещением или без него.
// Пустая строка дает нулевое время.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// UnmarshalJSON принимает timestamp как со смещением, так и без него
func (i *Incident) UnmarshalJSON(data []byte) error {
	type plain Incident
	aux := struct {
		*plain
		Timestamp string `json:"timestamp"`
	}{plain: (*plain)(i)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	ts, err := ParseTimestamp(aux.Timestamp)
	if err != nil {
		return fmt.Errorf("incident %s: %w", i.ID, err)
	}
	i.Timestamp = ts
	return nil
}

// UnmarshalJSON принимает timestamp как со смещением, так и без него
func (n *Note) UnmarshalJSON(data []byte) error {
	type plain Note
	aux := struct {
		*plain
		Timestamp string `json:"timestamp"`
	}{plain: (*plain)(n)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	ts, err := ParseTimestamp(aux.Timestamp)
	if err != nil {
		return fmt.Errorf("note %s: %w", n.ID, err)
	}
	n.Timestamp = ts
	return nil
}
