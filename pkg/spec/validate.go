package spec

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Issue is one finding from a validation rule.
type Issue struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Report aggregates a validation run. Score is the percentage of
// rules that passed.
type Report struct {
	Score  int     `json:"score"`
	Passed int     `json:"passed"`
	Total  int     `json:"total"`
	Issues []Issue `json:"issues"`
}

// Valid reports whether no error-severity issues were found.
func (r *Report) Valid() bool {
	for _, issue := range r.Issues {
		if issue.Severity == "error" {
			return false
		}
	}
	return true
}

type rule struct {
	name  string
	check func(doc *Document) []Issue
}

// rules run independently: one failing never stops the others.
var rules = []rule{
	{"has-title", checkTitle},
	{"has-overview", checkOverview},
	{"has-requirements", checkRequirements},
	{"has-style-guide", checkStyleGuide},
	{"sections-nonempty", checkSectionsNonEmpty},
	{"html-structure", checkHTMLStructure},
}

// Validate runs every rule against the document and aggregates
// the findings into a scored report.
func Validate(doc *Document) *Report {
	report := &Report{Total: len(rules), Issues: []Issue{}}
	for _, r := range rules {
		issues := r.check(doc)
		if len(issues) == 0 {
			report.Passed++
			continue
		}
		report.Issues = append(report.Issues, issues...)
	}
	if report.Total > 0 {
		report.Score = report.Passed * 100 / report.Total
	}
	return report
}

func checkTitle(doc *Document) []Issue {
	if strings.TrimSpace(doc.Title) == "" {
		return []Issue{{Rule: "has-title", Severity: "error", Message: "document has no title"}}
	}
	return nil
}

func checkOverview(doc *Document) []Issue {
	for _, s := range doc.Sections {
		if s.Heading == "Overview" {
			return nil
		}
	}
	return []Issue{{Rule: "has-overview", Severity: "error", Message: "document has no Overview section"}}
}

func checkRequirements(doc *Document) []Issue {
	for _, s := range doc.Sections {
		if s.Heading == "Requirements" {
			return nil
		}
	}
	return []Issue{{Rule: "has-requirements", Severity: "warning", Message: "no Requirements section; run requirements gathering first"}}
}

func checkStyleGuide(doc *Document) []Issue {
	for _, s := range doc.Sections {
		if s.Heading == "Style Guide" {
			return nil
		}
	}
	return []Issue{{Rule: "has-style-guide", Severity: "warning", Message: "no Style Guide section; generate a style guide first"}}
}

func checkSectionsNonEmpty(doc *Document) []Issue {
	var issues []Issue
	for _, s := range doc.Sections {
		if strings.TrimSpace(s.Body) == "" {
			issues = append(issues, Issue{
				Rule:     "sections-nonempty",
				Severity: "error",
				Message:  fmt.Sprintf("section %q has no content", s.Heading),
			})
		}
	}
	return issues
}

// checkHTMLStructure renders the HTML deliverable and verifies its
// structure: a titled head, exactly one h1, and an h2 per section.
func checkHTMLStructure(doc *Document) []Issue {
	q, err := goquery.NewDocumentFromReader(strings.NewReader(renderHTML(doc)))
	if err != nil {
		return []Issue{{Rule: "html-structure", Severity: "error", Message: fmt.Sprintf("html output does not parse: %v", err)}}
	}

	var issues []Issue
	if strings.TrimSpace(q.Find("head title").Text()) == "" {
		issues = append(issues, Issue{Rule: "html-structure", Severity: "error", Message: "html output has no head title"})
	}
	if n := q.Find("h1").Length(); n != 1 {
		issues = append(issues, Issue{Rule: "html-structure", Severity: "error", Message: fmt.Sprintf("html output has %d h1 elements, want 1", n)})
	}
	if n := q.Find("section > h2").Length(); n != len(doc.Sections) {
		issues = append(issues, Issue{Rule: "html-structure", Severity: "error", Message: fmt.Sprintf("html output has %d section headings for %d sections", n, len(doc.Sections))})
	}
	return issues
}
