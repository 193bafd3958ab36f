package spec

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/itsrayland/pwx/pkg/project"
)

func sampleProject() *project.Project {
	return &project.Project{
		ID:          "proj_test",
		Name:        "Acme Redesign",
		Type:        "web-design",
		Client:      project.ClientInfo{Name: "Acme Corp"},
		Description: "Full refresh of the marketing site.",
		Status:      project.StatusActive,
		Requirements: map[string]any{
			"audience": "SMB buyers",
			"pages":    []any{"home", "pricing"},
		},
		StyleGuide: map[string]any{
			"colorSystem": map[string]any{"primary": "#112233"},
		},
		Assets: []project.Asset{{ID: "asset_1", Path: "hero.png", Kind: "image"}},
	}
}

func TestCompileSections(t *testing.T) {
	doc := Compile(sampleProject())

	if doc.Title != "Acme Redesign — Design Specification" {
		t.Errorf("title = %q", doc.Title)
	}
	var headings []string
	for _, s := range doc.Sections {
		headings = append(headings, s.Heading)
	}
	want := []string{"Overview", "Requirements", "Style Guide", "Assets"}
	if strings.Join(headings, ",") != strings.Join(want, ",") {
		t.Errorf("headings = %v, want %v", headings, want)
	}
}

func TestCompileEmptyProject(t *testing.T) {
	doc := Compile(&project.Project{ID: "proj_x", Name: "Bare", Status: project.StatusActive})
	if len(doc.Sections) != 1 || doc.Sections[0].Heading != "Overview" {
		t.Errorf("empty project should still get an overview, got %d sections", len(doc.Sections))
	}
}

func TestGenerateMarkdown(t *testing.T) {
	f, err := Generate(Compile(sampleProject()), FormatMarkdown)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if f.Name != "specification.md" {
		t.Errorf("name = %q", f.Name)
	}
	if !strings.Contains(f.Content, "# Acme Redesign") {
		t.Error("markdown missing h1")
	}
	if !strings.Contains(f.Content, "## Requirements") {
		t.Error("markdown missing requirements heading")
	}
}

func TestGenerateJSON(t *testing.T) {
	f, err := Generate(Compile(sampleProject()), FormatJSON)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var decoded Document
	if err := json.Unmarshal([]byte(f.Content), &decoded); err != nil {
		t.Fatalf("json output does not parse: %v", err)
	}
	if decoded.ProjectID != "proj_test" {
		t.Errorf("projectId = %q", decoded.ProjectID)
	}
}

func TestGenerateHTMLStructure(t *testing.T) {
	doc := Compile(sampleProject())
	f, err := Generate(doc, FormatHTML)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	q, err := goquery.NewDocumentFromReader(strings.NewReader(f.Content))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	if q.Find("h1").Length() != 1 {
		t.Error("want exactly one h1")
	}
	if q.Find("section > h2").Length() != len(doc.Sections) {
		t.Error("want one h2 per section")
	}
	if !strings.Contains(q.Find("head title").Text(), "Acme Redesign") {
		t.Error("head title missing project name")
	}
}

func TestGeneratePDFNotImplemented(t *testing.T) {
	_, err := Generate(Compile(sampleProject()), FormatPDF)
	if !errors.Is(err, ErrPDFNotImplemented) {
		t.Errorf("expected ErrPDFNotImplemented, got %v", err)
	}
}

func TestGenerateUnknownFormat(t *testing.T) {
	_, err := Generate(Compile(sampleProject()), "docx")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestGenerateAllToleratesFailures(t *testing.T) {
	out := GenerateAll(Compile(sampleProject()))

	if len(out) != len(Formats) {
		t.Fatalf("expected %d slots, got %d", len(Formats), len(out))
	}
	for format, res := range out {
		hasFile := res.File != nil
		hasErr := res.Err != nil
		if hasFile == hasErr {
			t.Errorf("format %s: exactly one of File and Err must be set", format)
		}
	}
	if out[FormatPDF].Err == nil {
		t.Error("pdf slot should carry its error")
	}
	if out[FormatMarkdown].File == nil {
		t.Error("markdown should succeed despite pdf failing")
	}
}

func TestValidateCompleteDocument(t *testing.T) {
	report := Validate(Compile(sampleProject()))
	if !report.Valid() {
		t.Errorf("complete document should be valid, issues: %+v", report.Issues)
	}
	if report.Score != 100 {
		t.Errorf("score = %d, want 100 (issues: %+v)", report.Score, report.Issues)
	}
}

func TestValidateBareDocumentWarnsButValid(t *testing.T) {
	report := Validate(Compile(&project.Project{ID: "p", Name: "Bare", Status: project.StatusActive}))
	if !report.Valid() {
		t.Errorf("warnings alone should not invalidate, issues: %+v", report.Issues)
	}
	if report.Score == 100 {
		t.Error("missing requirements and style guide should cost score")
	}
	var rules []string
	for _, issue := range report.Issues {
		rules = append(rules, issue.Rule)
	}
	joined := strings.Join(rules, ",")
	if !strings.Contains(joined, "has-requirements") || !strings.Contains(joined, "has-style-guide") {
		t.Errorf("expected requirements and style guide warnings, got %v", rules)
	}
}

func TestValidateRulesRunIndependently(t *testing.T) {
	doc := &Document{
		Title: "",
		Sections: []Section{
			{Heading: "Misc", Body: ""},
		},
	}
	report := Validate(doc)
	if report.Valid() {
		t.Error("document with errors should be invalid")
	}
	seen := map[string]bool{}
	for _, issue := range report.Issues {
		seen[issue.Rule] = true
	}
	// Multiple distinct rules must report even though the first fails.
	for _, want := range []string{"has-title", "has-overview", "sections-nonempty"} {
		if !seen[want] {
			t.Errorf("rule %s did not report; all rules must run", want)
		}
	}
}
