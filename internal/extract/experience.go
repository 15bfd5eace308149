package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yourusername/resumeiq-api/internal/model"
)

// dateScanLines is how many leading lines of a block may hold its dates
const dateScanLines = 3

var (
	atSeparator   = regexp.MustCompile(` at `)
	achievementRe = regexp.MustCompile(`^[A-Z][a-z]+(ed|ing)\b`)
)

// Experience parses an experience section, one entry per block. The first
// line is "<title> at <company>"; dates may sit on any of the first three
// lines.
func (e *Extractor) Experience(content string) []model.Experience {
	out := []model.Experience{}

	for _, lines := range splitBlocks(content) {
		first := lines[0]

		var dates dateRange
		for i := 0; i < len(lines) && i < dateScanLines; i++ {
			r, ok := findDateRange(lines[i])
			if !ok {
				continue
			}
			dates = r
			if i == 0 {
				first = cutSpan(first, r.loc)
			}
			break
		}

		title, company := splitFirst(atSeparator, first)

		out = append(out, model.Experience{
			Title:        title,
			Company:      company,
			StartDate:    dates.start,
			EndDate:      dates.end,
			IsCurrent:    dates.current,
			Description:  strings.Join(lines[1:], "\n"),
			Skills:       e.vocab.ExtractSkills(strings.Join(lines, "\n")),
			Achievements: achievements(lines[1:]),
		})
	}

	return out
}

// achievements collects bullet lines and lines opening with a capitalised
// "-ed"/"-ing" verb
func achievements(lines []string) []string {
	out := []string{}
	for _, line := range lines {
		if r, size := utf8.DecodeRuneInString(line); strings.ContainsRune("•-*>", r) {
			if item := strings.TrimSpace(line[size:]); item != "" {
				out = append(out, item)
			}
			continue
		}
		if achievementRe.MatchString(line) {
			out = append(out, line)
		}
	}
	return out
}
