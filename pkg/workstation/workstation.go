// Package workstation wires the project store, template store, and
// model manager into one orchestrator and runs multi-step design
// workflows against the active project.
package workstation

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/itsrayland/pwx/pkg/config"
	clog "github.com/itsrayland/pwx/pkg/log"
	"github.com/itsrayland/pwx/pkg/model"
	"github.com/itsrayland/pwx/pkg/project"
	"github.com/itsrayland/pwx/pkg/template"
)

// ErrNoActiveProject means a workflow was started with no project
// selected.
var ErrNoActiveProject = errors.New("no active project: create or select one first")

// ModelRunner is the slice of the model manager the orchestrator
// uses. *model.Manager satisfies it.
type ModelRunner interface {
	GatherRequirements(ctx context.Context, projectDescription string, clientInfo any) (model.Response, error)
	GenerateTechnicalSpec(ctx context.Context, requirements, constraints any) (*model.TechnicalSpec, error)
	AnalyzeAndGenerate(ctx context.Context, mediaAssets []string, colorPalette any) (model.Response, error)
}

// Workstation is the top-level orchestrator. All collaborators are
// injected at construction; there is no package-level state.
type Workstation struct {
	cfg       *config.Config
	Projects  *project.Store
	Templates *template.Store
	Models    ModelRunner

	mu      sync.Mutex
	active  *project.Project
	history []*Record
}

// New builds a workstation from validated config. Custom templates
// under the templates directory are loaded best-effort.
func New(cfg *config.Config) (*Workstation, error) {
	templates := template.NewStore(cfg.TemplatesDirectory)
	if err := templates.LoadDir(); err != nil {
		clog.Warn("loading custom templates failed", "error", err)
	}
	return &Workstation{
		cfg:       cfg,
		Projects:  project.NewStore(filepath.Join(cfg.OutputDirectory, "projects")),
		Templates: templates,
		Models:    model.NewManager(cfg),
	}, nil
}

// CreateProject creates a project and makes it active.
func (w *Workstation) CreateProject(name string, opts project.CreateOptions) (*project.Project, error) {
	p, err := w.Projects.Create(name, opts)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	w.active = p
	w.mu.Unlock()
	return p, nil
}

// UseProject loads a project and makes it active. Deleted projects
// cannot be selected.
func (w *Workstation) UseProject(id string) (*project.Project, error) {
	p, err := w.Projects.Load(id)
	if err != nil {
		return nil, err
	}
	if p.Status == project.StatusDeleted {
		return nil, &project.TransitionError{From: project.StatusDeleted, To: project.StatusActive}
	}
	w.mu.Lock()
	w.active = p
	w.mu.Unlock()
	return p, nil
}

// ActiveProject returns the currently selected project, or nil.
func (w *Workstation) ActiveProject() *project.Project {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// reloadActive refreshes the in-memory active project from disk
// after a workflow persisted changes to it.
func (w *Workstation) reloadActive() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active == nil {
		return
	}
	if p, err := w.Projects.Load(w.active.ID); err == nil {
		w.active = p
	}
}
