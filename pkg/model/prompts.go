package model

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Provider-specific convenience calls. Each builds one natural
// language prompt, issues a single Execute, and best-effort parses
// the reply. Unparseable JSON is not an error; the tagged Response
// forces callers to branch.

// TechnicalSpec is the output of GenerateTechnicalSpec.
type TechnicalSpec struct {
	Content     string
	Model       string
	GeneratedAt time.Time
	Response    Response
}

// ColorPalette extracts the color palette from the parsed spec, or
// nil when the reply did not parse or carries no palette.
func (s *TechnicalSpec) ColorPalette() map[string]any {
	if !s.Response.Parsed() {
		return nil
	}
	palette, _ := s.Response.Value["colorPalette"].(map[string]any)
	return palette
}

// GatherRequirements asks Claude for a structured requirements
// analysis of the project.
func (m *Manager) GatherRequirements(ctx context.Context, projectDescription string, clientInfo any) (Response, error) {
	clientJSON, _ := json.MarshalIndent(clientInfo, "", "  ")

	prompt := fmt.Sprintf(`As an expert UX researcher and business analyst, analyze this project and generate comprehensive requirements:

Project: %s
Client: %s

Please provide a detailed requirements analysis in JSON format including:
- Business objectives and success metrics
- Target user personas with demographics and goals
- Functional requirements organized by priority
- Technical constraints and integrations needed
- Brand guidelines and design preferences
- Content strategy and information architecture
- Accessibility requirements (WCAG 2.1 AA)
- Performance expectations
- Mobile and responsive considerations

Structure your response as valid JSON that can be parsed and used programmatically.`, projectDescription, clientJSON)

	raw, err := m.ExecutePrompt(ctx, "claude", prompt, &Options{Temperature: 0.3})
	if err != nil {
		return Response{}, err
	}
	return parseResponse(raw), nil
}

// GenerateTechnicalSpec asks OpenAI for a technical specification
// derived from the gathered requirements.
func (m *Manager) GenerateTechnicalSpec(ctx context.Context, requirements, constraints any) (*TechnicalSpec, error) {
	reqJSON, _ := json.MarshalIndent(requirements, "", "  ")
	conJSON, _ := json.MarshalIndent(constraints, "", "  ")

	prompt := fmt.Sprintf(`Generate a comprehensive technical specification document based on these requirements:

Requirements: %s
Constraints: %s

Create a detailed technical specification including:

1. System architecture: frontend framework, state management, API integration patterns, build and deployment strategy
2. Component library: atomic design structure, component specifications, styling approach
3. Design system: color palette with semantic tokens, typography scale, spacing and layout grid, border radius and shadows
4. Responsive design: breakpoint definitions, mobile-first approach, touch targets
5. Accessibility: WCAG 2.1 AA compliance checklist, ARIA roles, keyboard navigation, screen reader support
6. Implementation examples with practical code snippets

Format as a comprehensive markdown document with practical code examples.`, reqJSON, conJSON)

	adapter, err := m.Get("openai")
	if err != nil {
		return nil, err
	}

	raw, err := adapter.Execute(ctx, prompt, &Options{
		SystemPrompt: "You are a senior frontend architect and technical specification writer.",
		Temperature:  0.3,
	})
	if err != nil {
		return nil, err
	}

	spec := &TechnicalSpec{
		Content:     raw,
		GeneratedAt: time.Now().UTC(),
		Response:    parseResponse(raw),
	}
	if o, ok := adapter.(*OpenAI); ok {
		spec.Model = o.model
	}
	return spec, nil
}

// AnalyzeAndGenerate asks ULM to analyze media assets against an
// existing palette and propose design elements.
func (m *Manager) AnalyzeAndGenerate(ctx context.Context, mediaAssets []string, colorPalette any) (Response, error) {
	paletteJSON, _ := json.MarshalIndent(colorPalette, "", "  ")

	prompt := fmt.Sprintf(`Analyze these media assets and generate design elements:

Assets: %s
Existing Color Palette: %s

Provide:
1. Color analysis and extraction
2. Typography recommendations based on visual style
3. Layout pattern suggestions
4. Icon style recommendations
5. Image treatment approaches
6. CSS design tokens

Return structured JSON with practical implementation details.`, strings.Join(mediaAssets, ", "), paletteJSON)

	raw, err := m.ExecutePrompt(ctx, "ulm", prompt, nil)
	if err != nil {
		return Response{}, err
	}
	return parseResponse(raw), nil
}
