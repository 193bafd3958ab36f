package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir())
}

func TestCreatePersistsBeforeReturn(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	p, err := s.Create("Acme Redesign", CreateOptions{Type: "web-design", Client: ClientInfo{Name: "Acme"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(p.ID, "proj_") {
		t.Errorf("id = %q, want proj_ prefix", p.ID)
	}
	if p.Status != StatusActive {
		t.Errorf("status = %s, want active", p.Status)
	}
	if _, err := os.Stat(filepath.Join(dir, p.ID+".json")); err != nil {
		t.Errorf("project file should exist on return: %v", err)
	}
}

func TestCreateRequiresName(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Create("", CreateOptions{}); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestLoadUnknown(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Load("proj_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProtectsIdentityFields(t *testing.T) {
	s := newTestStore(t)
	p, _ := s.Create("P", CreateOptions{})

	updated, err := s.Update(p.ID, func(q *Project) {
		q.Description = "new description"
		q.ID = "proj_hacked"
		q.Status = StatusDeleted
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != p.ID {
		t.Errorf("ID changed to %s", updated.ID)
	}
	if updated.Status != StatusActive {
		t.Errorf("Status changed to %s", updated.Status)
	}
	if updated.Description != "new description" {
		t.Errorf("Description = %q", updated.Description)
	}
	if !updated.UpdatedAt.After(p.UpdatedAt) && !updated.UpdatedAt.Equal(p.UpdatedAt) {
		t.Error("UpdatedAt should not move backwards")
	}
}

func TestDeleteIsSoft(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	p, _ := s.Create("P", CreateOptions{})

	if err := s.Delete(p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, p.ID+".json")); err != nil {
		t.Errorf("file should remain after soft delete: %v", err)
	}
	got, err := s.Load(p.ID)
	if err != nil {
		t.Fatalf("Load after delete: %v", err)
	}
	if got.Status != StatusDeleted {
		t.Errorf("status = %s, want deleted", got.Status)
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusActive, StatusArchived, true},
		{StatusActive, StatusDeleted, true},
		{StatusArchived, StatusDeleted, true},
		{StatusImported, StatusActive, true},
		{StatusDeleted, StatusActive, false},
		{StatusDeleted, StatusArchived, false},
		{StatusArchived, StatusImported, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.ok {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.ok)
		}
	}
}

func TestDeletedIsTerminal(t *testing.T) {
	s := newTestStore(t)
	p, _ := s.Create("P", CreateOptions{})
	if err := s.Delete(p.ID); err != nil {
		t.Fatal(err)
	}
	err := s.Archive(p.ID)
	var terr *TransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if terr.From != StatusDeleted || terr.To != StatusArchived {
		t.Errorf("unexpected transition error: %v", terr)
	}
}

func TestListExcludesDeletedByDefault(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.Create("Alive", CreateOptions{})
	d, _ := s.Create("Dead", CreateOptions{})
	if err := s.Delete(d.ID); err != nil {
		t.Fatal(err)
	}

	got, err := s.List(ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != a.ID {
		t.Errorf("expected only %s, got %d projects", a.ID, len(got))
	}

	all, err := s.List(ListFilter{IncludeDeleted: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("IncludeDeleted: expected 2, got %d", len(all))
	}
}

func TestListFilterByType(t *testing.T) {
	s := newTestStore(t)
	_, _ = s.Create("A", CreateOptions{Type: "web-design"})
	_, _ = s.Create("B", CreateOptions{Type: "branding"})

	got, err := s.List(ListFilter{Type: "branding"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "B" {
		t.Errorf("type filter: got %d projects", len(got))
	}
}

func TestSearch(t *testing.T) {
	s := newTestStore(t)
	_, _ = s.Create("Acme Redesign", CreateOptions{Client: ClientInfo{Name: "Acme Corp", Industry: "retail"}})
	_, _ = s.Create("Other", CreateOptions{Description: "portfolio for acme people"})
	_, _ = s.Create("Unrelated", CreateOptions{})

	got, err := s.Search("ACME")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("search: expected 2 matches, got %d", len(got))
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s := newTestStore(t)
	src, _ := s.Create("Exported", CreateOptions{Client: ClientInfo{Name: "C"}})

	res, err := s.Export(src.ID)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.FileName != "exported-export-"+time.Now().UTC().Format("2006-01-02")+".json" {
		t.Errorf("file name = %q", res.FileName)
	}
	if res.Size != len(res.Data) || res.Size == 0 {
		t.Errorf("size = %d, data = %d bytes", res.Size, len(res.Data))
	}

	dest := newTestStore(t)
	imp, err := dest.Import(res.Data)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if imp.ID == src.ID {
		t.Error("imported project must get a fresh id")
	}
	if imp.Status != StatusImported {
		t.Errorf("status = %s, want imported", imp.Status)
	}
	if imp.Name != "Exported" || imp.Client.Name != "C" {
		t.Errorf("content not carried over: %+v", imp)
	}

	if err := dest.Activate(imp.ID); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	got, _ := dest.Load(imp.ID)
	if got.Status != StatusActive {
		t.Errorf("status after activate = %s", got.Status)
	}
}

func TestImportRejectsBadPayload(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Import([]byte("{not json")); err == nil {
		t.Error("expected parse error")
	}
	if _, err := s.Import([]byte(`{"version":"9.9","project":{"name":"x"}}`)); err == nil {
		t.Error("expected version error")
	}
	if _, err := s.Import([]byte(`{"version":"1.0"}`)); err == nil {
		t.Error("expected missing project error")
	}
}

func TestClone(t *testing.T) {
	s := newTestStore(t)
	src, _ := s.Create("Original", CreateOptions{Type: "web-design"})
	if err := s.AddWorkflowRef(src.ID, WorkflowRef{ID: "wf_1", Type: "media-analysis", Status: "completed"}); err != nil {
		t.Fatal(err)
	}

	cp, err := s.Clone(src.ID, "")
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if cp.ID == src.ID {
		t.Error("clone must get a fresh id")
	}
	if cp.Name != "Original (copy)" {
		t.Errorf("default clone name = %q", cp.Name)
	}
	if len(cp.Workflows) != 0 {
		t.Error("workflow history must not carry over")
	}
	if cp.Type != "web-design" {
		t.Errorf("type not copied: %q", cp.Type)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.Create("A", CreateOptions{Type: "web-design"})
	_, _ = s.Create("B", CreateOptions{Type: "web-design"})
	c, _ := s.Create("C", CreateOptions{Type: "branding"})
	if err := s.Delete(c.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.SetStyleGuide(a.ID, map[string]any{"meta": "x"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddAssets(a.ID, []string{"a.png", "b.png"}, "image"); err != nil {
		t.Fatal(err)
	}

	st, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Total != 3 {
		t.Errorf("Total = %d, want 3 (deleted still counted)", st.Total)
	}
	if st.ByStatus[StatusActive] != 2 || st.ByStatus[StatusDeleted] != 1 {
		t.Errorf("ByStatus = %v", st.ByStatus)
	}
	if st.ByType["web-design"] != 2 {
		t.Errorf("ByType = %v", st.ByType)
	}
	if st.WithStyleGuide != 1 {
		t.Errorf("WithStyleGuide = %d", st.WithStyleGuide)
	}
	if st.TotalAssets != 2 {
		t.Errorf("TotalAssets = %d", st.TotalAssets)
	}
}

func TestAddAssets(t *testing.T) {
	s := newTestStore(t)
	p, _ := s.Create("P", CreateOptions{})

	added, err := s.AddAssets(p.ID, []string{"hero.png", "logo.svg"}, "image")
	if err != nil {
		t.Fatalf("AddAssets: %v", err)
	}
	if len(added) != 2 {
		t.Fatalf("added %d assets", len(added))
	}
	for _, a := range added {
		if !strings.HasPrefix(a.ID, "asset_") {
			t.Errorf("asset id %q missing prefix", a.ID)
		}
	}
	got, _ := s.Load(p.ID)
	if len(got.Assets) != 2 {
		t.Errorf("persisted %d assets", len(got.Assets))
	}
}

func TestListEmptyDirectory(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "never-created"))
	got, err := s.List(ListFilter{})
	if err != nil {
		t.Fatalf("List on missing dir: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no projects, got %d", len(got))
	}
}
