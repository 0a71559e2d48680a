// Package types provides the record types shared by the store, view-model and
// coordinator layers of the job tracker.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ID is an opaque record identifier. Remote collections sometimes emit
// numeric ids, so decoding accepts JSON numbers as well as strings.
type ID string

func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Application is a single tracked job application. Values are treated as
// immutable: mutations produce a new Application.
type Application struct {
	ID          ID         `json:"id"`
	Company     string     `json:"company"`
	Position    string     `json:"position"`
	Status      Status     `json:"status"`
	DateApplied Date       `json:"dateApplied,omitzero"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// NewApplication holds the user-entered fields for a record that does not
// exist yet. Status and DateApplied are optional and defaulted by the store.
type NewApplication struct {
	Company     string `json:"company" validate:"notblank"`
	Position    string `json:"position" validate:"notblank"`
	Status      Status `json:"status,omitempty" validate:"omitempty,taxonomy"`
	DateApplied Date   `json:"dateApplied,omitzero" validate:"omitempty,notfuture"`
	Notes       string `json:"notes,omitempty"`
}

// Validate checks f with the process-wide validator.
func (f NewApplication) Validate() error {
	return DefaultValidator().ValidateNew(f)
}

// Normalize trims text fields.
func (f NewApplication) Normalize() NewApplication {
	f.Company = strings.TrimSpace(f.Company)
	f.Position = strings.TrimSpace(f.Position)
	f.Notes = strings.TrimSpace(f.Notes)
	return f
}

// ApplicationPatch is a partial update. Nil fields are left untouched.
type ApplicationPatch struct {
	Company     *string `json:"company,omitempty" validate:"omitempty,notblank"`
	Position    *string `json:"position,omitempty" validate:"omitempty,notblank"`
	Status      *Status `json:"status,omitempty" validate:"omitempty,taxonomy"`
	DateApplied *Date   `json:"dateApplied,omitempty" validate:"omitempty,notfuture"`
	Notes       *string `json:"notes,omitempty"`
}

// StatusPatch builds a patch that only changes the status.
func StatusPatch(s Status) ApplicationPatch {
	return ApplicationPatch{Status: &s}
}

// Validate checks the fields present in p with the process-wide validator.
func (p ApplicationPatch) Validate() error {
	return DefaultValidator().ValidatePatch(p)
}

// IsEmpty reports whether p changes nothing.
func (p ApplicationPatch) IsEmpty() bool {
	return p.Company == nil && p.Position == nil && p.Status == nil && p.DateApplied == nil && p.Notes == nil
}

// Apply returns a copy of a with the provided fields merged in. A zero
// DateApplied in the patch is ignored.
func (p ApplicationPatch) Apply(a Application) Application {
	if p.Company != nil {
		a.Company = strings.TrimSpace(*p.Company)
	}
	if p.Position != nil {
		a.Position = strings.TrimSpace(*p.Position)
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.DateApplied != nil && !p.DateApplied.IsZero() {
		a.DateApplied = *p.DateApplied
	}
	if p.Notes != nil {
		a.Notes = strings.TrimSpace(*p.Notes)
	}
	return a
}

// PagedResult is one page of a remote collection.
type PagedResult struct {
	Items      []Application `json:"items"`
	TotalCount int           `json:"totalCount"`
}
