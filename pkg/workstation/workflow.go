package workstation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	clog "github.com/itsrayland/pwx/pkg/log"
	"github.com/itsrayland/pwx/pkg/media"
	"github.com/itsrayland/pwx/pkg/model"
	"github.com/itsrayland/pwx/pkg/project"
	"github.com/itsrayland/pwx/pkg/spec"
	"github.com/itsrayland/pwx/pkg/styleguide"
	"github.com/itsrayland/pwx/pkg/template"
)

// ErrUnknownWorkflowType means the requested workflow is not one of
// WorkflowTypes.
var ErrUnknownWorkflowType = errors.New("unknown workflow type")

// Workflow type names accepted by ExecuteWorkflow.
const (
	WorkflowFullDesignSpec   = "full-design-spec"
	WorkflowStyleGuide       = "style-guide-generation"
	WorkflowMediaAnalysis    = "media-analysis"
	WorkflowTemplateCreation = "prompt-template-creation"
)

// WorkflowTypes lists every supported workflow.
var WorkflowTypes = []string{
	WorkflowFullDesignSpec,
	WorkflowStyleGuide,
	WorkflowMediaAnalysis,
	WorkflowTemplateCreation,
}

// Step statuses. A step record is appended exactly once, after the
// step finished, and never mutated afterwards.
const (
	StepCompleted = "completed"
	StepFailed    = "failed"
)

// Workflow statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Step is the immutable record of one finished workflow step.
type Step struct {
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
	Output    any       `json:"output,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Record is the full history entry for one workflow run.
type Record struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Steps     []Step    `json:"steps"`
	Error     string    `json:"error,omitempty"`
}

// Duration is the wall time of the run.
func (r *Record) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// Options carries per-run workflow inputs.
type Options struct {
	// DesignSpec seeds style guide generation when no model-derived
	// palette is available.
	DesignSpec *styleguide.DesignSpec
	// MediaAssets are file paths to analyze. For full-design-spec a
	// non-empty list adds the media analysis step.
	MediaAssets []string
	// Template is the template to create, for
	// prompt-template-creation runs.
	Template *template.Template
}

// ExecuteWorkflow runs the named workflow against the active
// project. Steps run sequentially; the first failure stops the run.
// Failed runs are recorded in history like completed ones, with the
// failing step and error preserved, and are returned alongside the
// error.
func (w *Workstation) ExecuteWorkflow(ctx context.Context, workflowType string, opts Options) (*Record, error) {
	active := w.ActiveProject()
	if active == nil {
		return nil, ErrNoActiveProject
	}
	// The store may have newer state than the in-memory selection.
	if fresh, err := w.Projects.Load(active.ID); err == nil {
		active = fresh
	}

	rec := &Record{
		ID:        "wf_" + uuid.NewString(),
		ProjectID: active.ID,
		Type:      workflowType,
		StartTime: time.Now().UTC(),
	}

	var err error
	switch workflowType {
	case WorkflowFullDesignSpec:
		err = w.runFullDesignSpec(ctx, rec, active, opts)
	case WorkflowStyleGuide:
		err = w.runStyleGuide(rec, active, opts)
	case WorkflowMediaAnalysis:
		err = w.runMediaAnalysis(rec, active, opts)
	case WorkflowTemplateCreation:
		err = w.runTemplateCreation(rec, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownWorkflowType, workflowType)
	}

	rec.EndTime = time.Now().UTC()
	if err != nil {
		rec.Status = StatusFailed
		rec.Error = err.Error()
		clog.Warn("workflow failed", "id", rec.ID, "type", rec.Type, "error", err)
	} else {
		rec.Status = StatusCompleted
		clog.Info("workflow completed", "id", rec.ID, "type", rec.Type, "steps", len(rec.Steps))
	}

	w.mu.Lock()
	w.history = append(w.history, rec)
	w.mu.Unlock()

	if refErr := w.Projects.AddWorkflowRef(active.ID, project.WorkflowRef{
		ID:         rec.ID,
		Type:       rec.Type,
		Status:     rec.Status,
		ExecutedAt: rec.StartTime,
	}); refErr != nil {
		clog.Warn("recording workflow on project failed", "project", active.ID, "error", refErr)
	}
	w.reloadActive()

	return rec, err
}

// runStep executes fn and appends the finished step record. The
// record goes in exactly once, completed or failed.
func runStep(rec *Record, name string, fn func() (any, error)) error {
	started := time.Now().UTC()
	out, err := fn()
	step := Step{
		Name:      name,
		StartedAt: started,
		EndedAt:   time.Now().UTC(),
	}
	if err != nil {
		step.Status = StepFailed
		step.Error = err.Error()
		rec.Steps = append(rec.Steps, step)
		return fmt.Errorf("step %s: %w", name, err)
	}
	step.Status = StepCompleted
	step.Output = out
	rec.Steps = append(rec.Steps, step)
	return nil
}

func (w *Workstation) runFullDesignSpec(ctx context.Context, rec *Record, p *project.Project, opts Options) error {
	var requirements model.Response
	if err := runStep(rec, "requirements-gathering", func() (any, error) {
		description := p.Description
		if description == "" {
			description = p.Name
		}
		resp, err := w.Models.GatherRequirements(ctx, description, p.Client)
		if err != nil {
			return nil, err
		}
		requirements = resp
		return resp.Payload(), nil
	}); err != nil {
		return err
	}
	if err := w.Projects.SetRequirements(p.ID, requirements.Payload()); err != nil {
		return fmt.Errorf("persist requirements: %w", err)
	}

	var techSpec *model.TechnicalSpec
	if err := runStep(rec, "spec-generation", func() (any, error) {
		spec, err := w.Models.GenerateTechnicalSpec(ctx, requirements.Payload(), map[string]any{"projectType": p.Type})
		if err != nil {
			return nil, err
		}
		techSpec = spec
		return map[string]any{"model": spec.Model, "parsed": spec.Response.Parsed()}, nil
	}); err != nil {
		return err
	}
	if err := w.Projects.SetSpecifications(p.ID, techSpec.Response.Payload()); err != nil {
		return fmt.Errorf("persist specifications: %w", err)
	}

	if len(opts.MediaAssets) > 0 {
		if err := runStep(rec, "media-generation", func() (any, error) {
			resp, err := w.Models.AnalyzeAndGenerate(ctx, opts.MediaAssets, techSpec.ColorPalette())
			if err != nil {
				return nil, err
			}
			return resp.Payload(), nil
		}); err != nil {
			return err
		}
	}

	var guide *styleguide.StyleGuide
	if err := runStep(rec, "style-guide-generation", func() (any, error) {
		designSpec := designSpecFrom(techSpec, opts)
		g, err := styleguide.Generate(designSpec, styleguide.ProjectInfo{ID: p.ID, Name: p.Name})
		if err != nil {
			return nil, err
		}
		guide = g
		return map[string]any{"tokens": len(g.DesignTokens)}, nil
	}); err != nil {
		return err
	}
	guideMap, err := toMap(guide)
	if err != nil {
		return fmt.Errorf("encode style guide: %w", err)
	}
	if err := w.Projects.SetStyleGuide(p.ID, guideMap); err != nil {
		return fmt.Errorf("persist style guide: %w", err)
	}

	return runStep(rec, "output-generation", func() (any, error) {
		// The store now holds requirements, specifications and the
		// style guide; compile the document from that state.
		fresh, err := w.Projects.Load(p.ID)
		if err != nil {
			return nil, err
		}
		outputs := make(map[string]any, len(spec.Formats))
		for format, res := range spec.GenerateAll(spec.Compile(fresh)) {
			if res.Err != nil {
				outputs[format] = map[string]any{"error": res.Err.Error()}
				continue
			}
			outputs[format] = map[string]any{"fileName": res.File.Name, "size": len(res.File.Content)}
		}
		return outputs, nil
	})
}

func (w *Workstation) runStyleGuide(rec *Record, p *project.Project, opts Options) error {
	return runStep(rec, "style-guide-generation", func() (any, error) {
		var designSpec styleguide.DesignSpec
		if opts.DesignSpec != nil {
			designSpec = *opts.DesignSpec
		}
		g, err := styleguide.Generate(designSpec, styleguide.ProjectInfo{ID: p.ID, Name: p.Name})
		if err != nil {
			return nil, err
		}
		guideMap, err := toMap(g)
		if err != nil {
			return nil, err
		}
		if err := w.Projects.SetStyleGuide(p.ID, guideMap); err != nil {
			return nil, err
		}
		return guideMap, nil
	})
}

func (w *Workstation) runMediaAnalysis(rec *Record, p *project.Project, opts Options) error {
	files := opts.MediaAssets
	if len(files) == 0 {
		for _, a := range p.Assets {
			files = append(files, a.Path)
		}
	}

	return runStep(rec, "media-analysis", func() (any, error) {
		report, err := media.Analyze(files, media.TypeFull)
		if err != nil {
			return nil, err
		}
		reportMap, err := toMap(report)
		if err != nil {
			return nil, err
		}
		_, err = w.Projects.Update(p.ID, func(q *project.Project) {
			if q.Requirements == nil {
				q.Requirements = make(map[string]any)
			}
			q.Requirements["mediaAnalysis"] = reportMap
		})
		if err != nil {
			return nil, err
		}
		return reportMap, nil
	})
}

func (w *Workstation) runTemplateCreation(rec *Record, opts Options) error {
	if opts.Template == nil {
		return fmt.Errorf("prompt-template-creation needs a template definition")
	}

	return runStep(rec, "template-creation", func() (any, error) {
		t, err := w.Templates.CreateCustom(opts.Template)
		if err != nil {
			return nil, err
		}
		if err := w.Templates.Save(t.ID); err != nil {
			return nil, err
		}
		return map[string]any{"id": t.ID, "name": t.Name}, nil
	})
}

// designSpecFrom seeds style guide generation: an explicit design
// spec from the caller wins, then the model-proposed palette, then
// defaults.
func designSpecFrom(techSpec *model.TechnicalSpec, opts Options) styleguide.DesignSpec {
	if opts.DesignSpec != nil {
		return *opts.DesignSpec
	}
	var ds styleguide.DesignSpec
	if palette := techSpec.ColorPalette(); palette != nil {
		if v, ok := palette["primary"].(string); ok {
			ds.ColorPalette.Primary = v
		}
		if v, ok := palette["secondary"].(string); ok {
			ds.ColorPalette.Secondary = v
		}
		if v, ok := palette["accent"].(string); ok {
			ds.ColorPalette.Accent = v
		}
		if v, ok := palette["neutral"].(string); ok {
			ds.ColorPalette.Neutral = v
		}
	}
	return ds
}

// toMap round-trips a value through JSON into a loose map, the shape
// the project store persists.
func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
