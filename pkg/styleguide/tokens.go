package styleguide

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Token output formats understood by RenderTokens.
const (
	TokensCSS  = "css"
	TokensSCSS = "scss"
	TokensJS   = "js"
	TokensJSON = "json"
)

// ErrUnknownTokenFormat wraps the format name in the returned error.
func errUnknownTokenFormat(format string) error {
	return fmt.Errorf("unknown token format %q (want css, scss, js, or json)", format)
}

// flattenTokens collapses the guide's color, spacing, and type
// systems into flat kebab-case token names.
func flattenTokens(g *StyleGuide) map[string]string {
	tokens := make(map[string]string)

	scales := map[string]map[string]string{
		"color-primary":   g.ColorSystem.Primary,
		"color-secondary": g.ColorSystem.Secondary,
		"color-accent":    g.ColorSystem.Accent,
		"color-neutral":   g.ColorSystem.Neutral,
	}
	for prefix, scale := range scales {
		for shade, hex := range scale {
			tokens[prefix+"-"+shade] = hex
		}
	}
	for name, hex := range g.ColorSystem.Semantic {
		tokens["color-"+name] = hex
	}
	for name, value := range g.Spacing {
		tokens["space-"+name] = value
	}
	for name, entry := range g.Typography.Scale {
		tokens["font-size-"+name] = entry.Size
		tokens["line-height-"+name] = entry.LineHeight
	}
	tokens["font-heading"] = g.Typography.HeadingFont
	tokens["font-body"] = g.Typography.BodyFont
	return tokens
}

// RenderTokens serializes the guide's design tokens in the given
// format. Output is sorted by token name so renders are stable.
func (g *StyleGuide) RenderTokens(format string) (string, error) {
	names := make([]string, 0, len(g.DesignTokens))
	for name := range g.DesignTokens {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	switch format {
	case TokensCSS:
		b.WriteString(":root {\n")
		for _, name := range names {
			fmt.Fprintf(&b, "  --%s: %s;\n", name, g.DesignTokens[name])
		}
		b.WriteString("}\n")
	case TokensSCSS:
		for _, name := range names {
			fmt.Fprintf(&b, "$%s: %s;\n", name, g.DesignTokens[name])
		}
	case TokensJS:
		b.WriteString("export const tokens = {\n")
		for _, name := range names {
			fmt.Fprintf(&b, "  %q: %q,\n", name, g.DesignTokens[name])
		}
		b.WriteString("};\n")
	case TokensJSON:
		ordered := make(map[string]string, len(names))
		for _, name := range names {
			ordered[name] = g.DesignTokens[name]
		}
		data, err := json.MarshalIndent(ordered, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal tokens: %w", err)
		}
		return string(data) + "\n", nil
	default:
		return "", errUnknownTokenFormat(format)
	}
	return b.String(), nil
}
