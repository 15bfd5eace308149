// Package skills holds the canonical skill taxonomy and the matching rules
// used to find skills in résumé text.
package skills

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/resumeiq-api/internal/model"
)

//go:embed vocabulary.yaml
var defaultVocabulary []byte

// vocabularyFile mirrors vocabulary.yaml
type vocabularyFile struct {
	Terms      map[string][]string `yaml:"terms"`
	Aliases    map[string][]string `yaml:"aliases"`
	Categories []struct {
		Name    string   `yaml:"name"`
		Members []string `yaml:"members"`
	} `yaml:"categories"`
	Levels []struct {
		Level      string   `yaml:"level"`
		Indicators []string `yaml:"indicators"`
	} `yaml:"levels"`
}

type category struct {
	name    string
	members []string
}

type levelRule struct {
	level      model.SkillLevel
	indicators []string
}

// Vocabulary is an immutable skill taxonomy. It is safe for concurrent use.
type Vocabulary struct {
	terms      []string          // surface forms, longest first
	aliases    map[string]string // surface form -> canonical name
	categories []category
	levels     []levelRule
}

// Load parses a YAML vocabulary definition
func Load(data []byte) (*Vocabulary, error) {
	var file vocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing vocabulary: %w", err)
	}

	v := &Vocabulary{aliases: make(map[string]string)}

	seen := make(map[string]bool)
	addTerm := func(t string) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		v.terms = append(v.terms, t)
	}

	for _, group := range file.Terms {
		for _, t := range group {
			addTerm(t)
		}
	}

	for canonical, variants := range file.Aliases {
		canonical = strings.ToLower(strings.TrimSpace(canonical))
		addTerm(canonical)
		for _, variant := range variants {
			variant = strings.ToLower(strings.TrimSpace(variant))
			if variant == "" || variant == canonical {
				continue
			}
			if prev, ok := v.aliases[variant]; ok && prev != canonical {
				return nil, fmt.Errorf("alias %q maps to both %q and %q", variant, prev, canonical)
			}
			v.aliases[variant] = canonical
			addTerm(variant)
		}
	}

	if len(v.terms) == 0 {
		return nil, fmt.Errorf("vocabulary has no terms")
	}

	// Longest first so "react native" is consumed before "react"
	sort.Slice(v.terms, func(i, j int) bool {
		if len(v.terms[i]) != len(v.terms[j]) {
			return len(v.terms[i]) > len(v.terms[j])
		}
		return v.terms[i] < v.terms[j]
	})

	for _, c := range file.Categories {
		members := make([]string, 0, len(c.Members))
		for _, m := range c.Members {
			members = append(members, strings.ToLower(strings.TrimSpace(m)))
		}
		v.categories = append(v.categories, category{name: c.Name, members: members})
	}

	for _, l := range file.Levels {
		level := model.SkillLevel(l.Level)
		if level.Rank() == 0 {
			return nil, fmt.Errorf("unknown skill level %q", l.Level)
		}
		v.levels = append(v.levels, levelRule{level: level, indicators: l.Indicators})
	}

	return v, nil
}

var defaultOnce = sync.OnceValue(func() *Vocabulary {
	v, err := Load(defaultVocabulary)
	if err != nil {
		panic(fmt.Sprintf("embedded vocabulary: %v", err))
	}
	return v
})

// Default returns the process-wide vocabulary built from the embedded table
func Default() *Vocabulary {
	return defaultOnce()
}

// Terms returns a copy of every surface form, longest first
func (v *Vocabulary) Terms() []string {
	return append([]string(nil), v.terms...)
}

// NormalizeAlias folds a surface variant onto its canonical name.
// Unknown tokens are returned lowercased and trimmed.
func (v *Vocabulary) NormalizeAlias(raw string) string {
	token := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	if canonical, ok := v.aliases[token]; ok {
		return canonical
	}
	return token
}

// Categorize buckets a skill by exact membership, then by substring
// membership for list entries of three or more characters. Unknown skills
// return "".
func (v *Vocabulary) Categorize(skill string) string {
	name := v.NormalizeAlias(skill)
	if name == "" {
		return ""
	}

	for _, c := range v.categories {
		for _, m := range c.members {
			if m == name {
				return c.name
			}
		}
	}

	for _, c := range v.categories {
		for _, m := range c.members {
			if len(m) >= 3 && strings.Contains(name, m) {
				return c.name
			}
		}
	}
	return ""
}

// ── Package-level helpers over the default vocabulary ──

func ExtractSkills(text string) []string { return Default().ExtractSkills(text) }

func NormalizeAlias(raw string) string { return Default().NormalizeAlias(raw) }

func Categorize(skill string) string { return Default().Categorize(skill) }
