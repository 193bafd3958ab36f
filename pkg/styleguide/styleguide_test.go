package styleguide

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestGeneratePreservesSuppliedPrimary(t *testing.T) {
	g, err := Generate(DesignSpec{
		ColorPalette: ColorPalette{Primary: "#112233"},
	}, ProjectInfo{ID: "proj_1", Name: "Test"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if g.ColorSystem.Primary["500"] != "#112233" {
		t.Errorf("primary 500 = %q, want supplied #112233", g.ColorSystem.Primary["500"])
	}
}

func TestGenerateDefaults(t *testing.T) {
	g, err := Generate(DesignSpec{}, ProjectInfo{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if g.ColorSystem.Primary["500"] != defaultPrimary {
		t.Errorf("default primary = %q", g.ColorSystem.Primary["500"])
	}
	if g.Typography.HeadingFont == "" || g.Typography.BodyFont == "" {
		t.Error("fonts must default")
	}
	if len(g.BrandIdentity.Personality) == 0 {
		t.Error("personality must default")
	}
	if g.Meta.Version != "1.0" {
		t.Errorf("version = %q", g.Meta.Version)
	}
}

func TestGenerateRejectsBadColor(t *testing.T) {
	_, err := Generate(DesignSpec{
		ColorPalette: ColorPalette{Primary: "not-a-color"},
	}, ProjectInfo{})
	if err == nil {
		t.Fatal("expected error for invalid hex")
	}
	if !strings.Contains(err.Error(), "primary") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestColorScaleShape(t *testing.T) {
	scale, err := colorScale("#2563eb")
	if err != nil {
		t.Fatalf("colorScale: %v", err)
	}
	for _, shade := range []string{"50", "100", "200", "300", "400", "500", "600", "700", "800", "900"} {
		hex, ok := scale[shade]
		if !ok {
			t.Errorf("missing shade %s", shade)
			continue
		}
		if !strings.HasPrefix(hex, "#") || len(hex) != 7 {
			t.Errorf("shade %s = %q, not a hex color", shade, hex)
		}
	}
	// Lighter shades toward 50, darker toward 900.
	lightest, _ := parseHex(scale["50"])
	base, _ := parseHex(scale["500"])
	darkest, _ := parseHex(scale["900"])
	if lightest.r+lightest.g+lightest.b <= base.r+base.g+base.b {
		t.Error("50 should be lighter than 500")
	}
	if darkest.r+darkest.g+darkest.b >= base.r+base.g+base.b {
		t.Error("900 should be darker than 500")
	}
}

func TestParseHexShortForm(t *testing.T) {
	c, err := parseHex("#abc")
	if err != nil {
		t.Fatalf("parseHex: %v", err)
	}
	if c.hex() != "#aabbcc" {
		t.Errorf("short form expanded to %s", c.hex())
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	spec := DesignSpec{
		ColorPalette:     ColorPalette{Primary: "#336699", Accent: "#cc3300"},
		BrandPersonality: []string{"bold"},
	}
	a, err := Generate(spec, ProjectInfo{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(spec, ProjectInfo{})
	if err != nil {
		t.Fatal(err)
	}
	aj, _ := json.Marshal(a.ColorSystem)
	bj, _ := json.Marshal(b.ColorSystem)
	if string(aj) != string(bj) {
		t.Error("same spec must yield the same color system")
	}
}

func TestDesignTokensFlattened(t *testing.T) {
	g, err := Generate(DesignSpec{ColorPalette: ColorPalette{Primary: "#112233"}}, ProjectInfo{})
	if err != nil {
		t.Fatal(err)
	}
	if g.DesignTokens["color-primary-500"] != "#112233" {
		t.Errorf("color-primary-500 = %q", g.DesignTokens["color-primary-500"])
	}
	if g.DesignTokens["space-md"] == "" {
		t.Error("spacing tokens missing")
	}
	if g.DesignTokens["font-heading"] == "" {
		t.Error("font tokens missing")
	}
}

func TestRenderTokensFormats(t *testing.T) {
	g, err := Generate(DesignSpec{}, ProjectInfo{})
	if err != nil {
		t.Fatal(err)
	}

	css, err := g.RenderTokens(TokensCSS)
	if err != nil {
		t.Fatalf("css: %v", err)
	}
	if !strings.HasPrefix(css, ":root {") || !strings.Contains(css, "--color-primary-500:") {
		t.Errorf("css output malformed:\n%s", css[:min(len(css), 200)])
	}

	scss, err := g.RenderTokens(TokensSCSS)
	if err != nil {
		t.Fatalf("scss: %v", err)
	}
	if !strings.Contains(scss, "$color-primary-500:") {
		t.Error("scss output missing variables")
	}

	js, err := g.RenderTokens(TokensJS)
	if err != nil {
		t.Fatalf("js: %v", err)
	}
	if !strings.HasPrefix(js, "export const tokens = {") {
		t.Error("js output malformed")
	}

	jsonOut, err := g.RenderTokens(TokensJSON)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal([]byte(jsonOut), &decoded); err != nil {
		t.Fatalf("json output does not parse: %v", err)
	}
	if decoded["color-primary-500"] != g.ColorSystem.Primary["500"] {
		t.Error("json tokens disagree with color system")
	}
}

func TestRenderTokensUnknownFormat(t *testing.T) {
	g, err := Generate(DesignSpec{}, ProjectInfo{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.RenderTokens("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestComponentsUsePalette(t *testing.T) {
	g, err := Generate(DesignSpec{ColorPalette: ColorPalette{Primary: "#112233"}}, ProjectInfo{})
	if err != nil {
		t.Fatal(err)
	}
	btn, ok := g.Components["button"]
	if !ok {
		t.Fatal("button component missing")
	}
	if btn.Tokens["background"] != "#112233" {
		t.Errorf("button background = %q, want primary 500", btn.Tokens["background"])
	}
}
