// Package media analyzes project media assets for color and style
// signals. Analysis is deterministic: it derives stable palettes and
// themes from file identity rather than calling a vision model, so
// workflow runs are reproducible offline.
package media

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	clog "github.com/itsrayland/pwx/pkg/log"
)

// Analysis types accepted by Analyze.
const (
	TypeColor = "color"
	TypeStyle = "style"
	TypeFull  = "full"
)

// supportedExtensions lists the media formats Analyze accepts.
var supportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// UnsupportedFormatError reports a file whose extension is not an
// analyzable media format.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported media format: %s", e.Path)
}

// FileAnalysis is the per-file result.
type FileAnalysis struct {
	Path     string   `json:"path"`
	Palette  []string `json:"palette,omitempty"`
	Dominant string   `json:"dominant,omitempty"`
	Themes   []string `json:"themes,omitempty"`
	Mood     string   `json:"mood,omitempty"`
}

// FileResult is one slot of an Analyze run: the analysis or the
// error, never both.
type FileResult struct {
	Path     string        `json:"path"`
	Analysis *FileAnalysis `json:"analysis,omitempty"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
}

// Aggregate summarizes an analysis run across its successful files.
type Aggregate struct {
	Palette     []string `json:"palette"`
	Themes      []string `json:"themes"`
	Mood        string   `json:"mood"`
	FileCount   int      `json:"fileCount"`
	FailedCount int      `json:"failedCount"`
}

// Report is the full outcome of one Analyze call.
type Report struct {
	Type       string       `json:"type"`
	AnalyzedAt time.Time    `json:"analyzedAt"`
	Files      []FileResult `json:"files"`
	Aggregate  Aggregate    `json:"aggregate"`
}

var themePool = []string{
	"geometric", "organic", "minimal", "textured",
	"high-contrast", "muted", "vibrant", "monochrome",
	"photographic", "illustrative",
}

var moodPool = []string{
	"calm", "energetic", "serious", "playful", "warm", "cool",
}

// Analyze runs the requested analysis over the files. A file that
// fails validation gets an error slot; the remaining files are still
// analyzed. An empty file list is an error.
func Analyze(files []string, analysisType string) (*Report, error) {
	switch analysisType {
	case TypeColor, TypeStyle, TypeFull:
	case "":
		analysisType = TypeFull
	default:
		return nil, fmt.Errorf("unknown analysis type %q (want color, style, or full)", analysisType)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to analyze")
	}

	report := &Report{
		Type:       analysisType,
		AnalyzedAt: time.Now().UTC(),
	}
	for _, path := range files {
		ext := strings.ToLower(filepath.Ext(path))
		if !supportedExtensions[ext] {
			err := &UnsupportedFormatError{Path: path}
			clog.Warn("skipping unsupported media file", "path", path)
			report.Files = append(report.Files, FileResult{Path: path, Err: err, Error: err.Error()})
			report.Aggregate.FailedCount++
			continue
		}
		report.Files = append(report.Files, FileResult{
			Path:     path,
			Analysis: analyzeFile(path, analysisType),
		})
		report.Aggregate.FileCount++
	}
	aggregate(report)
	return report, nil
}

// analyzeFile derives a stable analysis from the file path hash.
// The same path always yields the same palette, themes, and mood.
func analyzeFile(path, analysisType string) *FileAnalysis {
	sum := sha256.Sum256([]byte(filepath.Base(path)))
	fa := &FileAnalysis{Path: path}

	if analysisType == TypeColor || analysisType == TypeFull {
		for i := 0; i < 4; i++ {
			off := i * 3
			fa.Palette = append(fa.Palette, fmt.Sprintf("#%02x%02x%02x", sum[off], sum[off+1], sum[off+2]))
		}
		fa.Dominant = fa.Palette[0]
	}
	if analysisType == TypeStyle || analysisType == TypeFull {
		seed := binary.BigEndian.Uint32(sum[16:20])
		// Reduce in uint32 space: int(seed) overflows negative on
		// 32-bit platforms.
		first := int(seed % uint32(len(themePool)))
		second := (first + 1 + int(sum[20])%(len(themePool)-1)) % len(themePool)
		fa.Themes = []string{themePool[first], themePool[second]}
		fa.Mood = moodPool[int(sum[21])%len(moodPool)]
	}
	return fa
}

// aggregate folds per-file findings into the run summary. Palette
// keeps the dominant color of each file; themes are deduplicated;
// the mood is the most common per-file mood.
func aggregate(report *Report) {
	themeSeen := map[string]bool{}
	moodCount := map[string]int{}
	for _, fr := range report.Files {
		if fr.Analysis == nil {
			continue
		}
		if fr.Analysis.Dominant != "" {
			report.Aggregate.Palette = append(report.Aggregate.Palette, fr.Analysis.Dominant)
		}
		for _, theme := range fr.Analysis.Themes {
			if !themeSeen[theme] {
				themeSeen[theme] = true
				report.Aggregate.Themes = append(report.Aggregate.Themes, theme)
			}
		}
		if fr.Analysis.Mood != "" {
			moodCount[fr.Analysis.Mood]++
		}
	}
	moods := make([]string, 0, len(moodCount))
	for mood := range moodCount {
		moods = append(moods, mood)
	}
	sort.Slice(moods, func(i, j int) bool {
		if moodCount[moods[i]] != moodCount[moods[j]] {
			return moodCount[moods[i]] > moodCount[moods[j]]
		}
		return moods[i] < moods[j]
	})
	if len(moods) > 0 {
		report.Aggregate.Mood = moods[0]
	}
}
