package template

import "time"

// builtinEpoch keeps built-in CreatedAt stable across runs.
var builtinEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func registerBuiltins(s *Store) {
	builtins := []struct {
		id string
		t  Template
	}{
		{
			id: "claude-requirements-gathering",
			t: Template{
				Name:        "Requirements Gathering",
				Model:       "claude",
				Category:    "requirements",
				Description: "Conversational elicitation of design requirements for a web project",
				Text: `You are a senior design consultant gathering requirements for a new web project.

Client: ${clientName}
Project type: ${projectType}
Initial brief: ${brief}

Ask clarifying questions about the target audience, brand personality, content priorities, and functional needs. Then summarize the gathered requirements as JSON with keys: audience, brandPersonality, contentPriorities, functionalNeeds, openQuestions.`,
				Parameters: []string{"clientName", "projectType", "brief"},
				Examples: []map[string]string{
					{"clientName": "Acme Corp", "projectType": "marketing site", "brief": "Refresh our aging product pages"},
				},
			},
		},
		{
			id: "claude-conversational-design",
			t: Template{
				Name:        "Conversational Design Session",
				Model:       "claude",
				Category:    "design",
				Description: "Iterative design exploration grounded in gathered requirements",
				Text: `You are collaborating on the visual design for ${projectName}.

Requirements so far:
${requirements}

Propose a design direction covering layout, color mood, and typography. Respond as JSON with keys: layout, colorMood, typography, rationale.`,
				Parameters: []string{"projectName", "requirements"},
			},
		},
		{
			id: "openai-technical-specs",
			t: Template{
				Name:        "Technical Specification",
				Model:       "openai",
				Category:    "specification",
				Description: "Structured technical spec from a design direction",
				Text: `You are a technical architect. Produce an implementation specification for the following design:

${designSummary}

Target stack: ${stack}

Respond as JSON with keys: components, dataModel, apiEndpoints, buildSteps.`,
				Parameters: []string{"designSummary", "stack"},
			},
		},
		{
			id: "openai-jsx-components",
			t: Template{
				Name:        "Component Scaffolding",
				Model:       "openai",
				Category:    "implementation",
				Description: "Component structure derived from a specification section",
				Text: `Generate the component breakdown for this part of the specification:

${specSection}

Use the project style guide tokens where relevant:
${designTokens}

Respond as JSON with keys: components (array of {name, props, children}), notes.`,
				Parameters: []string{"specSection", "designTokens"},
			},
		},
		{
			id: "ulm-image-analysis",
			t: Template{
				Name:        "Image Analysis",
				Model:       "ulm",
				Category:    "media",
				Description: "Color and style analysis of reference imagery",
				Text: `Analyze the following reference images for ${projectName}:

${imageList}

Extract the dominant color palette, stylistic themes, and mood. Respond as JSON with keys: palette, themes, mood.`,
				Parameters: []string{"projectName", "imageList"},
			},
		},
		{
			id: "ulm-moodboard-generation",
			t: Template{
				Name:        "Moodboard Direction",
				Model:       "ulm",
				Category:    "media",
				Description: "Moodboard brief from analyzed media and brand notes",
				Text: `Create a moodboard direction for ${projectName}.

Media analysis:
${mediaAnalysis}

Brand notes: ${brandNotes}

Respond as JSON with keys: direction, imagery, colorStory.`,
				Parameters: []string{"projectName", "mediaAnalysis", "brandNotes"},
			},
		},
		{
			id: "self-review-validation",
			t: Template{
				Name:        "Design Review",
				Model:       "claude",
				Category:    "review",
				Description: "Critical review of a generated specification",
				Text: `Review the following design specification for completeness, accessibility, and internal consistency:

${specification}

List concrete issues and suggested fixes. Plain prose, most severe issues first.`,
				Parameters: []string{"specification"},
			},
		},
	}

	for _, b := range builtins {
		t := b.t
		t.CreatedAt = builtinEpoch
		// Built-ins are code constants; Add cannot fail on them.
		_ = s.Add(b.id, &t)
	}
}
