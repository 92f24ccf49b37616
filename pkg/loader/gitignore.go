package loader

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/Dicklesworthstone/context_loader/pkg/model"
)

// GitignoreName is the ignore file consulted at the workspace root.
const GitignoreName = ".gitignore"

// PatternMatcher evaluates relative paths against an ordered list of
// ignore-style patterns. Later patterns override earlier ones, and a
// matching !pattern re-includes a previously excluded path.
type PatternMatcher struct {
	rules []patternRule
}

type patternRule struct {
	negate  bool
	matcher *ignore.GitIgnore
}

// CompilePatterns builds a matcher from preprocessed pattern lines.
// Each pattern compiles independently so an unusable line is skipped
// without discarding the rest of the file.
func CompilePatterns(lines []string) *PatternMatcher {
	pm := &PatternMatcher{}
	for _, line := range lines {
		negate := strings.HasPrefix(line, "!")
		body := strings.TrimPrefix(line, "!")
		if body == "" {
			log.Printf("warning: skipping empty gitignore pattern %q", line)
			continue
		}
		m := ignore.CompileIgnoreLines(body)
		if m == nil {
			log.Printf("warning: skipping unusable gitignore pattern %q", line)
			continue
		}
		pm.rules = append(pm.rules, patternRule{negate: negate, matcher: m})
	}
	return pm
}

// Ignored reports whether the slash-separated relative path rel is
// excluded by the pattern list.
func (pm *PatternMatcher) Ignored(rel string) bool {
	ignored := false
	for _, r := range pm.rules {
		if r.matcher.MatchesPath(rel) {
			ignored = !r.negate
		}
	}
	return ignored
}

// Len returns the number of usable rules in the matcher.
func (pm *PatternMatcher) Len() int {
	return len(pm.rules)
}

// PreprocessLines trims whitespace and drops blank lines and comments,
// preserving the order of the remaining patterns.
func PreprocessLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// LoadPatterns reads and preprocesses the workspace .gitignore. A
// missing file yields a nil matcher and no error; any other read
// failure is propagated so the caller can decide fallback policy.
func LoadPatterns(root string) (*PatternMatcher, error) {
	path := filepath.Join(root, GitignoreName)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return CompilePatterns(PreprocessLines(string(raw))), nil
}

// SeedSelection computes the initial selection for a freshly opened
// workspace. Without a .gitignore no files are pre-selected; with one,
// every crawled file that the patterns do not ignore is selected.
func SeedSelection(root string, files []model.FileRecord) (model.SelectionSet, error) {
	selected := model.NewSelectionSet()

	pm, err := LoadPatterns(root)
	if err != nil {
		return nil, err
	}
	if pm == nil {
		return selected, nil
	}

	for _, rec := range files {
		rel, err := filepath.Rel(root, rec.Path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if !pm.Ignored(filepath.ToSlash(rel)) {
			selected.Add(rec.Path)
		}
	}
	return selected, nil
}
