package spec

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"

	clog "github.com/itsrayland/pwx/pkg/log"
)

// Supported output formats.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatHTML     = "html"
	FormatPDF      = "pdf"
)

// Formats lists every format GenerateAll attempts, in render order.
var Formats = []string{FormatMarkdown, FormatJSON, FormatHTML, FormatPDF}

// ErrUnsupportedFormat indicates a format Generate does not know.
var ErrUnsupportedFormat = errors.New("unsupported specification format")

// ErrPDFNotImplemented is returned for the pdf format. PDF export
// needs a rendering backend that is not wired yet.
var ErrPDFNotImplemented = errors.New("pdf export not implemented")

// File is one rendered specification artifact.
type File struct {
	Name    string `json:"name"`
	Format  string `json:"format"`
	Content string `json:"content"`
}

// Generate renders the document in the given format.
func Generate(doc *Document, format string) (*File, error) {
	switch format {
	case FormatMarkdown:
		return &File{Name: "specification.md", Format: format, Content: renderMarkdown(doc)}, nil
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal specification: %w", err)
		}
		return &File{Name: "specification.json", Format: format, Content: string(data) + "\n"}, nil
	case FormatHTML:
		return &File{Name: "specification.html", Format: format, Content: renderHTML(doc)}, nil
	case FormatPDF:
		return nil, ErrPDFNotImplemented
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Result is one slot of a GenerateAll run. Exactly one of File and
// Err is set.
type Result struct {
	File *File
	Err  error
}

// GenerateAll renders every supported format. A failing format does
// not stop the rest; each slot carries its own outcome.
func GenerateAll(doc *Document) map[string]Result {
	out := make(map[string]Result, len(Formats))
	for _, format := range Formats {
		f, err := Generate(doc, format)
		if err != nil {
			clog.Debug("format generation failed", "format", format, "error", err)
			out[format] = Result{Err: err}
			continue
		}
		out[format] = Result{File: f}
	}
	return out
}

func renderMarkdown(doc *Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	fmt.Fprintf(&b, "Generated: %s\n\n", doc.GeneratedAt.Format("2006-01-02 15:04 UTC"))
	for _, s := range doc.Sections {
		fmt.Fprintf(&b, "## %s\n\n%s\n", s.Heading, s.Body)
	}
	return b.String()
}

func renderHTML(doc *Document) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(doc.Title))
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(doc.Title))
	fmt.Fprintf(&b, "<p class=\"generated\">Generated: %s</p>\n", doc.GeneratedAt.Format("2006-01-02 15:04 UTC"))
	for _, s := range doc.Sections {
		b.WriteString("<section>\n")
		fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(s.Heading))
		fmt.Fprintf(&b, "<pre>%s</pre>\n", html.EscapeString(s.Body))
		b.WriteString("</section>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
