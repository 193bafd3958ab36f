package workstation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/itsrayland/pwx/pkg/model"
	"github.com/itsrayland/pwx/pkg/project"
	"github.com/itsrayland/pwx/pkg/styleguide"
	"github.com/itsrayland/pwx/pkg/template"
)

// stubModels fakes the model manager. Setting fail makes the named
// call return an error.
type stubModels struct {
	fail      string
	gotClient any
}

func (s *stubModels) GatherRequirements(ctx context.Context, description string, clientInfo any) (model.Response, error) {
	s.gotClient = clientInfo
	if s.fail == "requirements" {
		return model.Response{}, errors.New("claude unavailable")
	}
	return model.Response{
		Value:     map[string]any{"audience": "SMB buyers"},
		Raw:       `{"audience":"SMB buyers"}`,
		Timestamp: time.Now().UTC(),
	}, nil
}

func (s *stubModels) GenerateTechnicalSpec(ctx context.Context, requirements, constraints any) (*model.TechnicalSpec, error) {
	if s.fail == "techspec" {
		return nil, errors.New("openai unavailable")
	}
	return &model.TechnicalSpec{
		Content: `{"colorPalette":{"primary":"#112233"}}`,
		Model:   "gpt-4o",
		Response: model.Response{
			Value: map[string]any{"colorPalette": map[string]any{"primary": "#112233"}},
			Raw:   `{"colorPalette":{"primary":"#112233"}}`,
		},
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (s *stubModels) AnalyzeAndGenerate(ctx context.Context, mediaAssets []string, colorPalette any) (model.Response, error) {
	if s.fail == "media" {
		return model.Response{}, errors.New("ulm unavailable")
	}
	return model.Response{
		Value: map[string]any{"palette": []any{"#112233"}},
		Raw:   `{"palette":["#112233"]}`,
	}, nil
}

func newTestWorkstation(t *testing.T, models ModelRunner) *Workstation {
	t.Helper()
	return &Workstation{
		Projects:  project.NewStore(t.TempDir()),
		Templates: template.NewStore(t.TempDir()),
		Models:    models,
	}
}

func stepNames(rec *Record) []string {
	var names []string
	for _, s := range rec.Steps {
		names = append(names, s.Name)
	}
	return names
}

func TestExecuteWorkflowRequiresActiveProject(t *testing.T) {
	w := newTestWorkstation(t, &stubModels{})
	_, err := w.ExecuteWorkflow(context.Background(), WorkflowStyleGuide, Options{})
	if !errors.Is(err, ErrNoActiveProject) {
		t.Errorf("expected ErrNoActiveProject, got %v", err)
	}
}

func TestExecuteWorkflowUnknownType(t *testing.T) {
	w := newTestWorkstation(t, &stubModels{})
	if _, err := w.CreateProject("P", project.CreateOptions{}); err != nil {
		t.Fatal(err)
	}
	_, err := w.ExecuteWorkflow(context.Background(), "deploy-to-prod", Options{})
	if !errors.Is(err, ErrUnknownWorkflowType) {
		t.Errorf("expected ErrUnknownWorkflowType, got %v", err)
	}
	if len(w.History("")) != 0 {
		t.Error("unknown workflow type must not be recorded")
	}
}

func TestFullDesignSpecWithoutMedia(t *testing.T) {
	models := &stubModels{}
	w := newTestWorkstation(t, models)
	p, _ := w.CreateProject("Acme", project.CreateOptions{
		Client: project.ClientInfo{Name: "Acme Corp", TargetAudience: "SMB buyers", Industry: "retail"},
	})

	rec, err := w.ExecuteWorkflow(context.Background(), WorkflowFullDesignSpec, Options{})
	if err != nil {
		t.Fatalf("ExecuteWorkflow: %v", err)
	}
	if rec.Status != StatusCompleted {
		t.Errorf("status = %s", rec.Status)
	}
	if ci, ok := models.gotClient.(project.ClientInfo); !ok || ci.TargetAudience != "SMB buyers" || ci.Industry != "retail" {
		t.Errorf("client info passed to requirements gathering = %#v", models.gotClient)
	}
	want := []string{"requirements-gathering", "spec-generation", "style-guide-generation", "output-generation"}
	got := stepNames(rec)
	if len(got) != len(want) {
		t.Fatalf("steps = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d = %s, want %s", i, got[i], want[i])
		}
		if rec.Steps[i].Status != StepCompleted {
			t.Errorf("step %s status = %s", got[i], rec.Steps[i].Status)
		}
	}

	outputs, _ := rec.Steps[3].Output.(map[string]any)
	for _, format := range []string{"markdown", "json", "html"} {
		slot, _ := outputs[format].(map[string]any)
		if name, _ := slot["fileName"].(string); name == "" {
			t.Errorf("output-generation %s slot = %v", format, outputs[format])
		}
	}
	pdf, _ := outputs["pdf"].(map[string]any)
	if msg, _ := pdf["error"].(string); msg == "" {
		t.Errorf("pdf slot should carry its error, got %v", outputs["pdf"])
	}

	stored, err := w.Projects.Load(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Requirements["audience"] != "SMB buyers" {
		t.Errorf("requirements not persisted: %v", stored.Requirements)
	}
	if len(stored.StyleGuide) == 0 || len(stored.Specifications) == 0 {
		t.Error("style guide and specifications must be persisted")
	}
	if len(stored.Workflows) != 1 || stored.Workflows[0].ID != rec.ID {
		t.Errorf("workflow ref not recorded: %v", stored.Workflows)
	}
}

func TestFullDesignSpecWithMediaAddsStep(t *testing.T) {
	w := newTestWorkstation(t, &stubModels{})
	_, _ = w.CreateProject("Acme", project.CreateOptions{})

	rec, err := w.ExecuteWorkflow(context.Background(), WorkflowFullDesignSpec, Options{
		MediaAssets: []string{"hero.png"},
	})
	if err != nil {
		t.Fatalf("ExecuteWorkflow: %v", err)
	}
	got := stepNames(rec)
	if len(got) != 5 {
		t.Fatalf("steps = %v, want 5 with media", got)
	}
	if got[2] != "media-generation" {
		t.Errorf("step 3 = %s, want media-generation", got[2])
	}
	if got[4] != "output-generation" {
		t.Errorf("last step = %s, want output-generation", got[4])
	}
}

func TestFullDesignSpecFailureRecorded(t *testing.T) {
	w := newTestWorkstation(t, &stubModels{fail: "techspec"})
	p, _ := w.CreateProject("Acme", project.CreateOptions{})

	rec, err := w.ExecuteWorkflow(context.Background(), WorkflowFullDesignSpec, Options{})
	if err == nil {
		t.Fatal("expected workflow error")
	}
	if rec == nil {
		t.Fatal("failed workflow must still return its record")
	}
	if rec.Status != StatusFailed || rec.Error == "" {
		t.Errorf("record = %+v", rec)
	}
	if rec.EndTime.IsZero() {
		t.Error("failed record must carry an end time")
	}
	got := stepNames(rec)
	if len(got) != 2 {
		t.Fatalf("steps = %v, want 2 (stop at failure)", got)
	}
	if rec.Steps[0].Status != StepCompleted || rec.Steps[1].Status != StepFailed {
		t.Errorf("step statuses = %s, %s", rec.Steps[0].Status, rec.Steps[1].Status)
	}

	hist := w.History(p.ID)
	if len(hist) != 1 || hist[0].Status != StatusFailed {
		t.Error("failed workflow must be recorded in history")
	}
	stored, _ := w.Projects.Load(p.ID)
	if len(stored.Workflows) != 1 || stored.Workflows[0].Status != StatusFailed {
		t.Errorf("failed workflow ref missing: %v", stored.Workflows)
	}
}

func TestStyleGuideWorkflow(t *testing.T) {
	w := newTestWorkstation(t, &stubModels{})
	p, _ := w.CreateProject("Acme", project.CreateOptions{})

	rec, err := w.ExecuteWorkflow(context.Background(), WorkflowStyleGuide, Options{
		DesignSpec: &styleguide.DesignSpec{
			ColorPalette: styleguide.ColorPalette{Primary: "#112233"},
		},
	})
	if err != nil {
		t.Fatalf("ExecuteWorkflow: %v", err)
	}
	if len(rec.Steps) != 1 || rec.Steps[0].Name != "style-guide-generation" {
		t.Fatalf("steps = %v", stepNames(rec))
	}

	stored, _ := w.Projects.Load(p.ID)
	colors, _ := stored.StyleGuide["colorSystem"].(map[string]any)
	primary, _ := colors["primary"].(map[string]any)
	if primary["500"] != "#112233" {
		t.Errorf("persisted primary 500 = %v", primary["500"])
	}
}

func TestMediaAnalysisWorkflowUsesProjectAssets(t *testing.T) {
	w := newTestWorkstation(t, &stubModels{})
	p, _ := w.CreateProject("Acme", project.CreateOptions{})
	if _, err := w.Projects.AddAssets(p.ID, []string{"hero.png", "logo.svg"}, "image"); err != nil {
		t.Fatal(err)
	}

	rec, err := w.ExecuteWorkflow(context.Background(), WorkflowMediaAnalysis, Options{})
	if err != nil {
		t.Fatalf("ExecuteWorkflow: %v", err)
	}
	if rec.Status != StatusCompleted || len(rec.Steps) != 1 || rec.Steps[0].Name != "media-analysis" {
		t.Fatalf("record = %+v", rec)
	}
	stored, _ := w.Projects.Load(p.ID)
	if stored.Requirements["mediaAnalysis"] == nil {
		t.Error("analysis results must be persisted on the project")
	}
}

func TestTemplateCreationWorkflow(t *testing.T) {
	w := newTestWorkstation(t, &stubModels{})
	_, _ = w.CreateProject("Acme", project.CreateOptions{})

	rec, err := w.ExecuteWorkflow(context.Background(), WorkflowTemplateCreation, Options{
		Template: &template.Template{
			Name:       "Landing Copy",
			Text:       "Write copy for ${page}",
			Parameters: []string{"page"},
		},
	})
	if err != nil {
		t.Fatalf("ExecuteWorkflow: %v", err)
	}
	if len(rec.Steps) != 1 || rec.Steps[0].Name != "template-creation" {
		t.Fatalf("steps = %v", stepNames(rec))
	}

	out, _ := rec.Steps[0].Output.(map[string]any)
	id, _ := out["id"].(string)
	if id == "" {
		t.Fatal("template-creation step should report the new id")
	}
	if _, err := w.Templates.Get(id); err != nil {
		t.Errorf("created template not in store: %v", err)
	}
}

func TestTemplateCreationRequiresTemplate(t *testing.T) {
	w := newTestWorkstation(t, &stubModels{})
	_, _ = w.CreateProject("Acme", project.CreateOptions{})
	rec, err := w.ExecuteWorkflow(context.Background(), WorkflowTemplateCreation, Options{})
	if err == nil {
		t.Fatal("expected error without template definition")
	}
	if rec.Status != StatusFailed {
		t.Errorf("status = %s", rec.Status)
	}
}

func TestHistoryReturnsCopies(t *testing.T) {
	w := newTestWorkstation(t, &stubModels{})
	_, _ = w.CreateProject("Acme", project.CreateOptions{})
	if _, err := w.ExecuteWorkflow(context.Background(), WorkflowStyleGuide, Options{}); err != nil {
		t.Fatal(err)
	}

	hist := w.History("")
	hist[0].Status = "tampered"
	hist[0].Steps[0].Name = "tampered"

	again := w.History("")
	if again[0].Status != StatusCompleted || again[0].Steps[0].Name == "tampered" {
		t.Error("mutating returned history must not affect the store")
	}
}

func TestHistoryFiltersByProject(t *testing.T) {
	w := newTestWorkstation(t, &stubModels{})
	a, _ := w.CreateProject("A", project.CreateOptions{})
	if _, err := w.ExecuteWorkflow(context.Background(), WorkflowStyleGuide, Options{}); err != nil {
		t.Fatal(err)
	}
	b, _ := w.CreateProject("B", project.CreateOptions{})
	if _, err := w.ExecuteWorkflow(context.Background(), WorkflowStyleGuide, Options{}); err != nil {
		t.Fatal(err)
	}

	if got := len(w.History(a.ID)); got != 1 {
		t.Errorf("history(A) = %d records", got)
	}
	if got := len(w.History(b.ID)); got != 1 {
		t.Errorf("history(B) = %d records", got)
	}
	if got := len(w.History("")); got != 2 {
		t.Errorf("history(all) = %d records", got)
	}
}

func TestProjectMetrics(t *testing.T) {
	w := newTestWorkstation(t, &stubModels{})
	p, _ := w.CreateProject("Acme", project.CreateOptions{})

	if _, err := w.ExecuteWorkflow(context.Background(), WorkflowStyleGuide, Options{}); err != nil {
		t.Fatal(err)
	}
	w.Models = &stubModels{fail: "requirements"}
	if _, err := w.ExecuteWorkflow(context.Background(), WorkflowFullDesignSpec, Options{}); err == nil {
		t.Fatal("expected failure")
	}

	m := w.ProjectMetrics(p.ID)
	if m.TotalWorkflows != 2 || m.Completed != 1 || m.Failed != 1 {
		t.Errorf("metrics = %+v", m)
	}
	if m.SuccessRate != 0.5 {
		t.Errorf("success rate = %v", m.SuccessRate)
	}
	if m.ByType[WorkflowStyleGuide] != 1 || m.ByType[WorkflowFullDesignSpec] != 1 {
		t.Errorf("byType = %v", m.ByType)
	}
}

func TestUseProjectRejectsDeleted(t *testing.T) {
	w := newTestWorkstation(t, &stubModels{})
	p, _ := w.CreateProject("Acme", project.CreateOptions{})
	if err := w.Projects.Delete(p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := w.UseProject(p.ID); err == nil {
		t.Error("deleted project must not become active")
	}
}
