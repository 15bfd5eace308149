package skills

import (
	"bytes"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yourusername/resumeiq-api/internal/model"
	"github.com/yourusername/resumeiq-api/internal/textnorm"
)

// ExtractSkills returns the canonical names of every vocabulary skill found
// in text, sorted alphabetically. Terms are tried longest first and each
// matched span is blanked out, so "node.js" is never counted again as
// "node". A term only matches on word boundaries: "pythonic" is not python.
func (v *Vocabulary) ExtractSkills(text string) []string {
	work := []byte(textnorm.Normalize(text))
	if len(work) == 0 {
		return []string{}
	}

	found := make(map[string]bool)
	for _, term := range v.terms {
		if consumeTerm(work, term) {
			found[v.NormalizeAlias(term)] = true
		}
	}

	out := make([]string, 0, len(found))
	for name := range found {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// consumeTerm blanks every boundary-delimited occurrence of term in work and
// reports whether there was at least one.
func consumeTerm(work []byte, term string) bool {
	needle := []byte(term)
	matched := false
	from := 0
	for from < len(work) {
		idx := bytes.Index(work[from:], needle)
		if idx < 0 {
			break
		}
		start := from + idx
		end := start + len(term)

		before, _ := utf8.DecodeLastRune(work[:start])
		after, _ := utf8.DecodeRune(work[end:])
		if (start == 0 || !isSkillRune(before)) &&
			(end == len(work) || !isSkillRune(after)) {
			for i := start; i < end; i++ {
				work[i] = ' '
			}
			matched = true
		}
		from = start + 1
	}
	return matched
}

// isSkillRune reports whether r may continue a skill token. '+' and '#' count
// so that "c" never matches inside "c++" or "c#". Punctuation outside ASCII,
// such as curly quotes and dashes, is a boundary.
func isSkillRune(r rune) bool {
	switch r {
	case '+', '#', '_':
		return true
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

var (
	levelSuffix    = regexp.MustCompile(`\(([^)]+)\)\s*$`)
	skillDelimiter = regexp.MustCompile(`[\n,|;•·*~]|\s[-–—]\s`)
)

// DetectLevel splits a "Python (Advanced)" style item into the skill text and
// its declared level. Items without a recognised qualifier return "".
func (v *Vocabulary) DetectLevel(item string) (string, model.SkillLevel) {
	item = strings.TrimSpace(item)
	m := levelSuffix.FindStringSubmatchIndex(item)
	if m == nil {
		return item, ""
	}

	name := strings.TrimSpace(item[:m[0]])
	qualifier := strings.ToLower(item[m[2]:m[3]])
	for _, rule := range v.levels {
		for _, indicator := range rule.indicators {
			if strings.Contains(qualifier, indicator) {
				return name, rule.level
			}
		}
	}
	return name, ""
}

// DetectSkills finds vocabulary skills in a block of section text, keeping
// the declared level and a short context snippet for each. Repeated mentions
// are merged.
func (v *Vocabulary) DetectSkills(text, source string) []model.DetectedSkill {
	var detected []model.DetectedSkill

	for _, item := range skillDelimiter.Split(text, -1) {
		item = strings.TrimSpace(item)
		if len(item) < 2 {
			continue
		}

		name, level := v.DetectLevel(item)
		context := ""
		if len(item) < 100 {
			context = item
		}

		for _, skill := range v.ExtractSkills(name) {
			s := model.DetectedSkill{
				Name:     skill,
				Level:    level,
				Category: v.Categorize(skill),
				Sources:  []string{},
				Context:  context,
			}
			if source != "" {
				s.Sources = []string{source}
			}
			detected = append(detected, s)
		}
	}

	return v.MergeSkills(nil, detected)
}

func DetectSkills(text, source string) []model.DetectedSkill {
	return Default().DetectSkills(text, source)
}
