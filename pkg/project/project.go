// Package project persists design projects as flat JSON files and
// tracks their lifecycle status.
package project

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound indicates an unknown project id.
var ErrNotFound = errors.New("project not found")

// Status is a project lifecycle state.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusDeleted  Status = "deleted"
	StatusImported Status = "imported"
)

// transitions lists the allowed status changes. Deleted is terminal.
var transitions = map[Status][]Status{
	StatusActive:   {StatusArchived, StatusDeleted},
	StatusArchived: {StatusDeleted},
	StatusImported: {StatusActive},
}

// TransitionError reports a disallowed status change.
type TransitionError struct {
	From, To Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

// CanTransition reports whether from may change to to.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Asset is a media file attached to a project.
type Asset struct {
	ID      string    `json:"id"`
	Path    string    `json:"path"`
	Kind    string    `json:"kind,omitempty"`
	AddedAt time.Time `json:"addedAt"`
}

// WorkflowRef records a workflow run against a project. The full
// step-by-step record lives with the orchestrator; the project keeps
// only this summary.
type WorkflowRef struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	ExecutedAt time.Time `json:"executedAt"`
}

// Settings carries per-project preferences.
type Settings struct {
	DefaultModel string `json:"defaultModel,omitempty"`
	OutputFormat string `json:"outputFormat,omitempty"`
	AutoSave     bool   `json:"autoSave"`
}

// ClientInfo describes who the project is for.
type ClientInfo struct {
	Name           string `json:"name,omitempty"`
	TargetAudience string `json:"targetAudience,omitempty"`
	Industry       string `json:"industry,omitempty"`
}

// Project is the persisted record for one design project.
type Project struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Type           string         `json:"type,omitempty"`
	Description    string         `json:"description,omitempty"`
	Client         ClientInfo     `json:"clientInfo,omitzero"`
	Status         Status         `json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Settings       Settings       `json:"settings"`
	Requirements   map[string]any `json:"requirements,omitempty"`
	StyleGuide     map[string]any `json:"styleGuide,omitempty"`
	Specifications map[string]any `json:"specifications,omitempty"`
	Assets         []Asset        `json:"assets,omitempty"`
	Workflows      []WorkflowRef  `json:"workflows,omitempty"`
}

// setStatus applies a validated lifecycle transition in place.
func (p *Project) setStatus(to Status) error {
	if p.Status == to {
		return nil
	}
	if !CanTransition(p.Status, to) {
		return &TransitionError{From: p.Status, To: to}
	}
	p.Status = to
	return nil
}
