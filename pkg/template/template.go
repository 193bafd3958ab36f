// Package template manages parameterized prompt templates.
//
// Rendering is literal substring substitution of ${param}
// placeholders, not a templating language: no conditionals, loops,
// or escaping. Templates declaring parameters that the caller does
// not supply render anyway; the untouched placeholders and the list
// of missing parameters come back in the metadata.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	clog "github.com/itsrayland/pwx/pkg/log"
)

// ErrNotFound indicates an unknown template id.
var ErrNotFound = errors.New("template not found")

// ValidationError reports a template missing required fields.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("template missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Template is a named prompt with declared parameters. The canonical
// placeholder syntax is ${param}.
type Template struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Model       string              `json:"model"`
	Category    string              `json:"category"`
	Text        string              `json:"template"`
	Description string              `json:"description,omitempty"`
	Parameters  []string            `json:"parameters"`
	Examples    []map[string]string `json:"examples,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	Custom      bool                `json:"custom,omitempty"`
}

// Summary is the listing view of a template.
type Summary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Model          string `json:"model"`
	Category       string `json:"category"`
	Description    string `json:"description,omitempty"`
	ParameterCount int    `json:"parameterCount"`
	HasExamples    bool   `json:"hasExamples"`
	Custom         bool   `json:"custom"`
}

// Filter narrows List results. Empty fields match everything.
type Filter struct {
	Model    string
	Category string
}

// Metadata describes one render.
type Metadata struct {
	TemplateID        string            `json:"templateId"`
	TemplateName      string            `json:"templateName"`
	Model             string            `json:"model"`
	Category          string            `json:"category"`
	Parameters        map[string]string `json:"parameters"`
	MissingParameters []string          `json:"missingParameters"`
	RenderedAt        time.Time         `json:"renderedAt"`
}

// RenderResult is the rendered prompt plus its metadata.
type RenderResult struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// Store holds templates in insertion order.
type Store struct {
	mu        sync.RWMutex
	templates map[string]*Template
	order     []string
	dir       string
}

// NewStore creates a store seeded with the built-in templates.
// dir is where custom templates are loaded from and saved to.
func NewStore(dir string) *Store {
	s := &Store{
		templates: make(map[string]*Template),
		dir:       dir,
	}
	registerBuiltins(s)
	return s
}

// Add registers a template under id. Name and text are required.
func (s *Store) Add(id string, t *Template) error {
	var missing []string
	if t.Name == "" {
		missing = append(missing, "name")
	}
	if t.Text == "" {
		missing = append(missing, "template")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}

	cp := *t
	cp.ID = id
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	if cp.Parameters == nil {
		cp.Parameters = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.templates[id]; !exists {
		s.order = append(s.order, id)
	}
	s.templates[id] = &cp
	return nil
}

// Get returns a copy of the template under id.
func (s *Store) Get(id string) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	cp := *t
	return &cp, nil
}

// Render substitutes supplied parameters into the template text.
// Declared parameters with no supplied value are reported in
// Metadata.MissingParameters and their placeholder text is left
// untouched; rendering is best-effort, never aborted.
func (s *Store) Render(id string, params map[string]string) (*RenderResult, error) {
	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	content := t.Text
	for key, value := range params {
		content = strings.ReplaceAll(content, "${"+key+"}", value)
	}

	missing := []string{}
	for _, p := range t.Parameters {
		if _, ok := params[p]; !ok {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		clog.Debug("template rendered with missing parameters", "template", id, "missing", missing)
	}

	return &RenderResult{
		Content: content,
		Metadata: Metadata{
			TemplateID:        t.ID,
			TemplateName:      t.Name,
			Model:             t.Model,
			Category:          t.Category,
			Parameters:        params,
			MissingParameters: missing,
			RenderedAt:        time.Now().UTC(),
		},
	}, nil
}

// List returns template summaries in insertion order, narrowed by
// the filter.
func (s *Store) List(f Filter) []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Summary
	for _, id := range s.order {
		t := s.templates[id]
		if f.Model != "" && t.Model != f.Model {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		out = append(out, Summary{
			ID:             t.ID,
			Name:           t.Name,
			Model:          t.Model,
			Category:       t.Category,
			Description:    t.Description,
			ParameterCount: len(t.Parameters),
			HasExamples:    len(t.Examples) > 0,
			Custom:         t.Custom,
		})
	}
	return out
}

// CreateCustom registers a user-supplied template under a generated
// id and returns it.
func (s *Store) CreateCustom(t *Template) (*Template, error) {
	id := "custom-" + uuid.NewString()
	cp := *t
	cp.Custom = true
	if err := s.Add(id, &cp); err != nil {
		return nil, err
	}
	return s.Get(id)
}

// LoadDir loads *.json template files from the store directory.
// A missing directory is fine: built-ins still apply. Individual
// bad files are skipped with a warning.
func (s *Store) LoadDir() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			clog.Debug("templates directory not found, using built-ins only", "dir", s.dir)
			return nil
		}
		return fmt.Errorf("read templates dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			clog.Warn("failed to read template file", "path", path, "error", err)
			continue
		}
		var t Template
		if err := json.Unmarshal(data, &t); err != nil {
			clog.Warn("failed to parse template file", "path", path, "error", err)
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		if err := s.Add(id, &t); err != nil {
			clog.Warn("invalid template file", "path", path, "error", err)
		}
	}
	return nil
}

// Save writes the template under id to the store directory.
func (s *Store) Save(id string) error {
	t, err := s.Get(id)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal template: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create templates dir: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dir, id+".json"), data, 0o644)
}
