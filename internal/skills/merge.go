package skills

import (
	"sort"

	"github.com/yourusername/resumeiq-api/internal/model"
)

// MergeSkills unifies two skill collections by canonical name. Sources are
// unioned, the most specific level wins, and category/context are filled
// from whichever side has them. The result does not depend on argument or
// element order, and merging a collection with itself changes nothing.
func (v *Vocabulary) MergeSkills(existing, incoming []model.DetectedSkill) []model.DetectedSkill {
	byName := make(map[string]*model.DetectedSkill, len(existing)+len(incoming))
	sources := make(map[string]map[string]bool)

	add := func(s model.DetectedSkill) {
		name := v.NormalizeAlias(s.Name)
		if name == "" {
			return
		}

		cur, ok := byName[name]
		if !ok {
			cur = &model.DetectedSkill{Name: name}
			byName[name] = cur
			sources[name] = make(map[string]bool)
		}

		if s.Level.Rank() > cur.Level.Rank() {
			cur.Level = s.Level
		}
		cur.Category = pickSmallest(cur.Category, s.Category)
		cur.Context = pickSmallest(cur.Context, s.Context)
		for _, src := range s.Sources {
			if src != "" {
				sources[name][src] = true
			}
		}
	}

	for _, s := range existing {
		add(s)
	}
	for _, s := range incoming {
		add(s)
	}

	out := make([]model.DetectedSkill, 0, len(byName))
	for name, s := range byName {
		if s.Category == "" {
			s.Category = v.Categorize(name)
		}
		s.Sources = make([]string, 0, len(sources[name]))
		for src := range sources[name] {
			s.Sources = append(s.Sources, src)
		}
		sort.Strings(s.Sources)
		out = append(out, *s)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// pickSmallest returns the lexically smaller non-empty value
func pickSmallest(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	case b < a:
		return b
	default:
		return a
	}
}

func MergeSkills(existing, incoming []model.DetectedSkill) []model.DetectedSkill {
	return Default().MergeSkills(existing, incoming)
}
