// Package spec assembles project specification documents and
// renders them to deliverable formats.
package spec

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/itsrayland/pwx/pkg/project"
)

// Section is one heading plus body in a compiled document.
type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Document is the format-neutral compiled specification. Generate
// renders it; Compile builds it from a project record.
type Document struct {
	Title       string         `json:"title"`
	ProjectID   string         `json:"projectId"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Sections    []Section      `json:"sections"`
	Data        map[string]any `json:"data,omitempty"`
}

// Compile assembles a specification document from a project record.
// Sections are emitted only for the parts the project actually has;
// an empty project still yields a valid document with an overview.
func Compile(p *project.Project) *Document {
	doc := &Document{
		Title:       p.Name + " — Design Specification",
		ProjectID:   p.ID,
		GeneratedAt: time.Now().UTC(),
		Data: map[string]any{
			"project": map[string]any{
				"id":     p.ID,
				"name":   p.Name,
				"type":   p.Type,
				"client": p.Client,
				"status": string(p.Status),
			},
		},
	}

	var overview strings.Builder
	fmt.Fprintf(&overview, "Project: %s\n", p.Name)
	if p.Client.Name != "" {
		fmt.Fprintf(&overview, "Client: %s\n", p.Client.Name)
	}
	if p.Type != "" {
		fmt.Fprintf(&overview, "Type: %s\n", p.Type)
	}
	if p.Description != "" {
		fmt.Fprintf(&overview, "\n%s\n", p.Description)
	}
	doc.Sections = append(doc.Sections, Section{Heading: "Overview", Body: overview.String()})

	if len(p.Requirements) > 0 {
		doc.Sections = append(doc.Sections, Section{
			Heading: "Requirements",
			Body:    renderMap(p.Requirements),
		})
		doc.Data["requirements"] = p.Requirements
	}
	if len(p.StyleGuide) > 0 {
		doc.Sections = append(doc.Sections, Section{
			Heading: "Style Guide",
			Body:    renderMap(p.StyleGuide),
		})
		doc.Data["styleGuide"] = p.StyleGuide
	}
	if len(p.Specifications) > 0 {
		doc.Sections = append(doc.Sections, Section{
			Heading: "Technical Specifications",
			Body:    renderMap(p.Specifications),
		})
		doc.Data["specifications"] = p.Specifications
	}
	if len(p.Assets) > 0 {
		var b strings.Builder
		for _, a := range p.Assets {
			fmt.Fprintf(&b, "- %s (%s)\n", a.Path, a.Kind)
		}
		doc.Sections = append(doc.Sections, Section{Heading: "Assets", Body: b.String()})
	}
	return doc
}

// renderMap flattens a loose map into readable key/value lines,
// sorted for stable output. Nested maps indent one level.
func renderMap(m map[string]any) string {
	var b strings.Builder
	writeMap(&b, m, "")
	return b.String()
}

func writeMap(b *strings.Builder, m map[string]any, indent string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := m[k].(type) {
		case map[string]any:
			fmt.Fprintf(b, "%s%s:\n", indent, k)
			writeMap(b, v, indent+"  ")
		case []any:
			fmt.Fprintf(b, "%s%s:\n", indent, k)
			for _, item := range v {
				fmt.Fprintf(b, "%s  - %v\n", indent, item)
			}
		default:
			fmt.Fprintf(b, "%s%s: %v\n", indent, k, v)
		}
	}
}
