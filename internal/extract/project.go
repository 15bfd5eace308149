package extract

import (
	"regexp"
	"strings"

	"github.com/yourusername/resumeiq-api/internal/model"
)

// projectSeparator splits "Name - Role" or "Name | Jan 2023 - Present".
// A bare hyphen needs surrounding spaces so "scikit-learn" stays whole.
var projectSeparator = regexp.MustCompile(`\s+-\s+|\s*[–—|]\s*`)

// Projects parses a projects section, one entry per block. Technologies are
// every vocabulary skill mentioned anywhere in the block.
func (e *Extractor) Projects(content string) []model.Project {
	out := []model.Project{}

	for _, lines := range splitBlocks(content) {
		name, fragment := splitFirst(projectSeparator, lines[0])

		p := model.Project{
			Name:         name,
			Description:  strings.Join(lines[1:], "\n"),
			Technologies: e.vocab.ExtractSkills(strings.Join(lines, "\n")),
		}

		if fragment != "" {
			if r, ok := findDateRange(fragment); ok {
				p.StartDate, p.EndDate, p.IsCurrent = r.start, r.end, r.current
				fragment = cutSpan(fragment, r.loc)
			}
			p.Role = fragment
		}

		out = append(out, p)
	}

	return out
}
