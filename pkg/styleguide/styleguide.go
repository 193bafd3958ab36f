// Package styleguide derives a complete style guide from a design
// specification. Generation is pure: no model calls, no file IO,
// same input always yields the same guide (bar timestamps).
package styleguide

import (
	"fmt"
	"time"
)

// Default palette used for any color the design spec leaves blank.
const (
	defaultPrimary   = "#2563eb"
	defaultSecondary = "#64748b"
	defaultAccent    = "#f59e0b"
	defaultNeutral   = "#6b7280"
)

// ColorPalette is the seed palette from a design spec.
type ColorPalette struct {
	Primary   string `json:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty"`
	Accent    string `json:"accent,omitempty"`
	Neutral   string `json:"neutral,omitempty"`
}

// TypographyInput is the typography portion of a design spec.
type TypographyInput struct {
	HeadingFont string `json:"headingFont,omitempty"`
	BodyFont    string `json:"bodyFont,omitempty"`
}

// DesignSpec is the input to Generate. All fields are optional;
// blanks fall back to workable defaults.
type DesignSpec struct {
	ColorPalette     ColorPalette    `json:"colorPalette"`
	Typography       TypographyInput `json:"typography"`
	BrandPersonality []string        `json:"brandPersonality,omitempty"`
	Mood             string          `json:"mood,omitempty"`
}

// Meta identifies a generated guide.
type Meta struct {
	ProjectID   string    `json:"projectId,omitempty"`
	ProjectName string    `json:"projectName,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
	Version     string    `json:"version"`
}

// BrandIdentity captures the non-visual brand attributes.
type BrandIdentity struct {
	Personality []string `json:"personality"`
	Mood        string   `json:"mood"`
	VoiceTone   []string `json:"voiceTone"`
}

// ColorSystem holds the derived shade scales plus semantic colors.
type ColorSystem struct {
	Primary   map[string]string `json:"primary"`
	Secondary map[string]string `json:"secondary"`
	Accent    map[string]string `json:"accent"`
	Neutral   map[string]string `json:"neutral"`
	Semantic  map[string]string `json:"semantic"`
}

// TypeScaleEntry is one step of the typographic scale.
type TypeScaleEntry struct {
	Size       string `json:"size"`
	LineHeight string `json:"lineHeight"`
	Weight     int    `json:"weight"`
}

// Typography is the derived type system.
type Typography struct {
	HeadingFont string                    `json:"headingFont"`
	BodyFont    string                    `json:"bodyFont"`
	Scale       map[string]TypeScaleEntry `json:"scale"`
	Weights     map[string]int            `json:"weights"`
}

// ComponentSpec describes a base component's token usage.
type ComponentSpec struct {
	Description string            `json:"description"`
	Tokens      map[string]string `json:"tokens"`
	Variants    []string          `json:"variants,omitempty"`
}

// Accessibility lists the contrast and focus requirements the guide
// commits to.
type Accessibility struct {
	MinContrastNormal string   `json:"minContrastNormal"`
	MinContrastLarge  string   `json:"minContrastLarge"`
	FocusRing         string   `json:"focusRing"`
	Guidelines        []string `json:"guidelines"`
}

// StyleGuide is the complete generated guide.
type StyleGuide struct {
	Meta          Meta                     `json:"meta"`
	BrandIdentity BrandIdentity            `json:"brandIdentity"`
	ColorSystem   ColorSystem              `json:"colorSystem"`
	Typography    Typography               `json:"typography"`
	Spacing       map[string]string        `json:"spacing"`
	Components    map[string]ComponentSpec `json:"components"`
	DesignTokens  map[string]string        `json:"designTokens"`
	Accessibility Accessibility            `json:"accessibility"`
	Examples      map[string]string        `json:"examples"`
}

// ProjectInfo is the slice of project identity the guide records.
// Kept minimal so generation does not depend on the project store.
type ProjectInfo struct {
	ID   string
	Name string
}

// Generate derives a style guide from the design spec. Invalid hex
// colors in the palette are an error; everything else has defaults.
func Generate(spec DesignSpec, proj ProjectInfo) (*StyleGuide, error) {
	palette := spec.ColorPalette
	if palette.Primary == "" {
		palette.Primary = defaultPrimary
	}
	if palette.Secondary == "" {
		palette.Secondary = defaultSecondary
	}
	if palette.Accent == "" {
		palette.Accent = defaultAccent
	}
	if palette.Neutral == "" {
		palette.Neutral = defaultNeutral
	}

	primary, err := colorScale(palette.Primary)
	if err != nil {
		return nil, fmt.Errorf("primary color: %w", err)
	}
	secondary, err := colorScale(palette.Secondary)
	if err != nil {
		return nil, fmt.Errorf("secondary color: %w", err)
	}
	accent, err := colorScale(palette.Accent)
	if err != nil {
		return nil, fmt.Errorf("accent color: %w", err)
	}
	neutral, err := colorScale(palette.Neutral)
	if err != nil {
		return nil, fmt.Errorf("neutral color: %w", err)
	}

	headingFont := spec.Typography.HeadingFont
	if headingFont == "" {
		headingFont = "Inter"
	}
	bodyFont := spec.Typography.BodyFont
	if bodyFont == "" {
		bodyFont = "Inter"
	}

	mood := spec.Mood
	if mood == "" {
		mood = "balanced"
	}
	personality := spec.BrandPersonality
	if len(personality) == 0 {
		personality = []string{"professional", "approachable"}
	}

	colors := ColorSystem{
		Primary:   primary,
		Secondary: secondary,
		Accent:    accent,
		Neutral:   neutral,
		Semantic: map[string]string{
			"success": "#16a34a",
			"warning": "#d97706",
			"error":   "#dc2626",
			"info":    primary["400"],
		},
	}

	typography := Typography{
		HeadingFont: headingFont,
		BodyFont:    bodyFont,
		Scale: map[string]TypeScaleEntry{
			"xs":   {Size: "0.75rem", LineHeight: "1rem", Weight: 400},
			"sm":   {Size: "0.875rem", LineHeight: "1.25rem", Weight: 400},
			"base": {Size: "1rem", LineHeight: "1.5rem", Weight: 400},
			"lg":   {Size: "1.125rem", LineHeight: "1.75rem", Weight: 500},
			"xl":   {Size: "1.25rem", LineHeight: "1.75rem", Weight: 600},
			"2xl":  {Size: "1.5rem", LineHeight: "2rem", Weight: 600},
			"3xl":  {Size: "1.875rem", LineHeight: "2.25rem", Weight: 700},
			"4xl":  {Size: "2.25rem", LineHeight: "2.5rem", Weight: 700},
		},
		Weights: map[string]int{
			"regular":  400,
			"medium":   500,
			"semibold": 600,
			"bold":     700,
		},
	}

	spacing := map[string]string{
		"xs":  "0.25rem",
		"sm":  "0.5rem",
		"md":  "1rem",
		"lg":  "1.5rem",
		"xl":  "2rem",
		"2xl": "3rem",
		"3xl": "4rem",
	}

	components := map[string]ComponentSpec{
		"button": {
			Description: "Primary action trigger",
			Tokens: map[string]string{
				"background":       primary["500"],
				"background-hover": primary["600"],
				"text":             "#ffffff",
				"radius":           "0.375rem",
				"padding":          spacing["sm"] + " " + spacing["md"],
			},
			Variants: []string{"primary", "secondary", "ghost", "destructive"},
		},
		"card": {
			Description: "Content container with elevation",
			Tokens: map[string]string{
				"background": "#ffffff",
				"border":     neutral["200"],
				"radius":     "0.5rem",
				"padding":    spacing["lg"],
				"shadow":     "0 1px 3px rgba(0,0,0,0.1)",
			},
		},
		"input": {
			Description: "Text entry field",
			Tokens: map[string]string{
				"background":   "#ffffff",
				"border":       neutral["300"],
				"border-focus": primary["500"],
				"radius":       "0.375rem",
				"padding":      spacing["sm"],
			},
			Variants: []string{"default", "error", "disabled"},
		},
		"navigation": {
			Description: "Top-level site navigation",
			Tokens: map[string]string{
				"background":  "#ffffff",
				"text":        neutral["700"],
				"text-active": primary["600"],
				"height":      "4rem",
			},
		},
	}

	guide := &StyleGuide{
		Meta: Meta{
			ProjectID:   proj.ID,
			ProjectName: proj.Name,
			GeneratedAt: time.Now().UTC(),
			Version:     "1.0",
		},
		BrandIdentity: BrandIdentity{
			Personality: personality,
			Mood:        mood,
			VoiceTone:   voiceToneFor(personality),
		},
		ColorSystem: colors,
		Typography:  typography,
		Spacing:     spacing,
		Components:  components,
		Accessibility: Accessibility{
			MinContrastNormal: "4.5:1",
			MinContrastLarge:  "3:1",
			FocusRing:         "2px solid " + primary["500"],
			Guidelines: []string{
				"All interactive elements must be keyboard reachable",
				"Color must never be the only carrier of meaning",
				"Body text meets WCAG AA contrast against its background",
			},
		},
		Examples: map[string]string{
			"heading": fmt.Sprintf("font-family: %s; font-weight: 700; color: %s;", headingFont, neutral["900"]),
			"body":    fmt.Sprintf("font-family: %s; font-weight: 400; color: %s;", bodyFont, neutral["700"]),
			"link":    fmt.Sprintf("color: %s; text-decoration: underline;", primary["600"]),
		},
	}
	guide.DesignTokens = flattenTokens(guide)
	return guide, nil
}

// voiceToneFor maps brand personality words to voice guidance.
func voiceToneFor(personality []string) []string {
	toneMap := map[string]string{
		"professional": "clear and direct",
		"approachable": "warm and plainspoken",
		"playful":      "light and conversational",
		"bold":         "confident and assertive",
		"minimal":      "spare and precise",
		"elegant":      "refined and measured",
	}
	var tones []string
	for _, p := range personality {
		if tone, ok := toneMap[p]; ok {
			tones = append(tones, tone)
		}
	}
	if len(tones) == 0 {
		tones = []string{"clear and direct"}
	}
	return tones
}
