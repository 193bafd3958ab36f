package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	clog "github.com/itsrayland/pwx/pkg/log"
)

// exportVersion tags exported project files so Import can reject
// payloads written by an incompatible release.
const exportVersion = "1.0"

// Store reads and writes projects under <dir>/<id>.json.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created
// lazily on first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// CreateOptions carries optional fields for Create.
type CreateOptions struct {
	Type        string
	Description string
	Client      ClientInfo
	Settings    Settings
}

// Create persists a new active project and returns it. The project
// is on disk before this returns; a write failure means no project.
func (s *Store) Create(name string, opts CreateOptions) (*Project, error) {
	if name == "" {
		return nil, fmt.Errorf("project name is required")
	}
	now := time.Now().UTC()
	p := &Project{
		ID:          "proj_" + uuid.NewString(),
		Name:        name,
		Type:        opts.Type,
		Description: opts.Description,
		Client:      opts.Client,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
		Settings:    opts.Settings,
	}
	if err := s.save(p); err != nil {
		return nil, err
	}
	clog.Info("project created", "id", p.ID, "name", p.Name)
	return p, nil
}

// Load reads the project under id.
func (s *Store) Load(id string) (*Project, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("read project %s: %w", id, err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse project %s: %w", id, err)
	}
	return &p, nil
}

// Update applies mutate to the stored project and persists the
// result. UpdatedAt is bumped; ID, CreatedAt, and Status are
// protected from accidental change.
func (s *Store) Update(id string, mutate func(*Project)) (*Project, error) {
	p, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	keepID, keepCreated, keepStatus := p.ID, p.CreatedAt, p.Status
	mutate(p)
	p.ID, p.CreatedAt, p.Status = keepID, keepCreated, keepStatus
	p.UpdatedAt = time.Now().UTC()
	if err := s.save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete marks the project deleted. The file stays on disk; deletion
// is a status, not a removal.
func (s *Store) Delete(id string) error {
	return s.transition(id, StatusDeleted)
}

// Archive marks the project archived.
func (s *Store) Archive(id string) error {
	return s.transition(id, StatusArchived)
}

// Activate promotes an imported project to active.
func (s *Store) Activate(id string) error {
	return s.transition(id, StatusActive)
}

func (s *Store) transition(id string, to Status) error {
	p, err := s.Load(id)
	if err != nil {
		return err
	}
	if err := p.setStatus(to); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	return s.save(p)
}

// ListFilter narrows List results. Zero value lists everything
// except deleted projects; set IncludeDeleted to see those too.
type ListFilter struct {
	Status         Status
	Type           string
	IncludeDeleted bool
}

// List returns projects sorted by creation time, newest first.
func (s *Store) List(f ListFilter) ([]*Project, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read projects dir: %w", err)
	}

	var out []*Project
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		p, err := s.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			clog.Warn("skipping unreadable project file", "file", entry.Name(), "error", err)
			continue
		}
		if p.Status == StatusDeleted && !f.IncludeDeleted && f.Status != StatusDeleted {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Search returns non-deleted projects whose name, description, or
// client name contains the query, case-insensitively.
func (s *Store) Search(query string) ([]*Project, error) {
	all, err := s.List(ListFilter{})
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var out []*Project
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Client.Name), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Stats summarizes the stored projects.
type Stats struct {
	Total          int            `json:"total"`
	ByStatus       map[Status]int `json:"byStatus"`
	ByType         map[string]int `json:"byType"`
	WithStyleGuide int            `json:"withStyleGuide"`
	TotalAssets    int            `json:"totalAssets"`
	TotalWorkflows int            `json:"totalWorkflows"`
}

// Stats scans every stored project, deleted ones included.
func (s *Store) Stats() (*Stats, error) {
	all, err := s.List(ListFilter{IncludeDeleted: true})
	if err != nil {
		return nil, err
	}
	st := &Stats{
		ByStatus: make(map[Status]int),
		ByType:   make(map[string]int),
	}
	for _, p := range all {
		st.Total++
		st.ByStatus[p.Status]++
		if p.Type != "" {
			st.ByType[p.Type]++
		}
		if len(p.StyleGuide) > 0 {
			st.WithStyleGuide++
		}
		st.TotalAssets += len(p.Assets)
		st.TotalWorkflows += len(p.Workflows)
	}
	return st, nil
}

type exportMetadata struct {
	TotalAssets       int  `json:"totalAssets"`
	TotalWorkflows    int  `json:"totalWorkflows"`
	HasStyleGuide     bool `json:"hasStyleGuide"`
	HasSpecifications bool `json:"hasSpecifications"`
}

type exportEnvelope struct {
	Version    string         `json:"version"`
	ExportedAt time.Time      `json:"exportedAt"`
	Metadata   exportMetadata `json:"metadata"`
	Project    *Project       `json:"project"`
}

// ExportResult is the serialized project plus the derived file
// metadata callers surface to the user.
type ExportResult struct {
	Data     []byte `json:"-"`
	FileName string `json:"fileName"`
	Size     int    `json:"size"`
}

// Export serializes the project for transfer to another workstation.
// The file name is the slugged project name plus the export date.
func (s *Store) Export(id string) (*ExportResult, error) {
	p, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	env := exportEnvelope{
		Version:    exportVersion,
		ExportedAt: now,
		Metadata: exportMetadata{
			TotalAssets:       len(p.Assets),
			TotalWorkflows:    len(p.Workflows),
			HasStyleGuide:     len(p.StyleGuide) > 0,
			HasSpecifications: len(p.Specifications) > 0,
		},
		Project: p,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, err
	}
	slug := strings.Join(strings.Fields(strings.ToLower(p.Name)), "-")
	return &ExportResult{
		Data:     data,
		FileName: fmt.Sprintf("%s-export-%s.json", slug, now.Format("2006-01-02")),
		Size:     len(data),
	}, nil
}

// Import creates a project from an exported payload. The imported
// project gets a fresh id and starts in the imported status so the
// operator activates it deliberately.
func (s *Store) Import(data []byte) (*Project, error) {
	var env exportEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse import payload: %w", err)
	}
	if env.Project == nil {
		return nil, fmt.Errorf("import payload has no project")
	}
	if env.Version != exportVersion {
		return nil, fmt.Errorf("unsupported export version %q", env.Version)
	}
	p := *env.Project
	now := time.Now().UTC()
	p.ID = "proj_" + uuid.NewString()
	p.Status = StatusImported
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.save(&p); err != nil {
		return nil, err
	}
	clog.Info("project imported", "id", p.ID, "name", p.Name)
	return &p, nil
}

// Clone copies a project under a new name and fresh id. Workflow
// history does not carry over; the clone starts active.
func (s *Store) Clone(id, newName string) (*Project, error) {
	src, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	if newName == "" {
		newName = src.Name + " (copy)"
	}
	now := time.Now().UTC()
	cp := *src
	cp.ID = "proj_" + uuid.NewString()
	cp.Name = newName
	cp.Status = StatusActive
	cp.CreatedAt = now
	cp.UpdatedAt = now
	cp.Workflows = nil
	if err := s.save(&cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

// AddWorkflowRef appends a workflow summary to the project record.
func (s *Store) AddWorkflowRef(id string, ref WorkflowRef) error {
	_, err := s.Update(id, func(p *Project) {
		p.Workflows = append(p.Workflows, ref)
	})
	return err
}

// SetRequirements stores gathered requirements on the project.
func (s *Store) SetRequirements(id string, reqs map[string]any) error {
	_, err := s.Update(id, func(p *Project) {
		p.Requirements = reqs
	})
	return err
}

// SetStyleGuide stores the generated style guide on the project.
func (s *Store) SetStyleGuide(id string, guide map[string]any) error {
	_, err := s.Update(id, func(p *Project) {
		p.StyleGuide = guide
	})
	return err
}

// SetSpecifications stores generated specifications on the project.
func (s *Store) SetSpecifications(id string, specs map[string]any) error {
	_, err := s.Update(id, func(p *Project) {
		p.Specifications = specs
	})
	return err
}

// AddAssets attaches media files to the project.
func (s *Store) AddAssets(id string, paths []string, kind string) ([]Asset, error) {
	var added []Asset
	now := time.Now().UTC()
	for _, path := range paths {
		added = append(added, Asset{
			ID:      "asset_" + uuid.NewString(),
			Path:    path,
			Kind:    kind,
			AddedAt: now,
		})
	}
	_, err := s.Update(id, func(p *Project) {
		p.Assets = append(p.Assets, added...)
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (s *Store) save(p *Project) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create projects dir: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project %s: %w", p.ID, err)
	}
	if err := os.WriteFile(s.path(p.ID), data, 0o644); err != nil {
		return fmt.Errorf("write project %s: %w", p.ID, err)
	}
	return nil
}
