package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Patch types carry the omitted-vs-null distinction of partial updates through
// JSON binding: UnmarshalJSON only runs for keys present in the payload, so
// Set stays false for omitted fields.

type DatePatch struct {
	Set   bool
	Value *time.Time
}

func (p *DatePatch) UnmarshalJSON(data []byte) error {
	p.Set = true
	if string(data) == "null" {
		p.Value = nil
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	p.Value = &parsed
	return nil
}

type StringPatch struct {
	Set   bool
	Value *string
}

func (p *StringPatch) UnmarshalJSON(data []byte) error {
	p.Set = true
	if string(data) == "null" {
		p.Value = nil
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Value = &raw
	return nil
}

type StringListPatch struct {
	Set   bool
	Value []string
}

func (p *StringListPatch) UnmarshalJSON(data []byte) error {
	p.Set = true
	if string(data) == "null" {
		p.Value = nil
		return nil
	}
	return json.Unmarshal(data, &p.Value)
}

type UUIDPatch struct {
	Set   bool
	Value *uuid.UUID
}

func (p *UUIDPatch) UnmarshalJSON(data []byte) error {
	p.Set = true
	if string(data) == "null" {
		p.Value = nil
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	p.Value = &parsed
	return nil
}

// ParseDate accepts the date formats the UI sends.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrInvalidInput)
	}
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date %q", ErrInvalidInput, raw)
}
