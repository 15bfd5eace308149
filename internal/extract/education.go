package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yourusername/resumeiq-api/internal/model"
)

var (
	educationSeparator = regexp.MustCompile(`,\s*|\s+at\s+|\s+from\s+`)
	gpaRe              = regexp.MustCompile(`(?i)\bGPA[:\s]*(\d+(?:\.\d+)?)(?:\s*/\s*\d+(?:\.\d+)?)?`)
)

// Education parses an education section, one entry per block. A GPA given
// as "3.8/4.0" keeps only the first component.
func (e *Extractor) Education(content string) []model.Education {
	out := []model.Education{}

	for _, lines := range splitBlocks(content) {
		first := lines[0]
		var dates dateRange

		for i, line := range lines {
			r, ok := findDateRange(line)
			if !ok {
				continue
			}
			dates = r
			if i == 0 {
				first = cutSpan(first, r.loc)
			}
			break
		}

		degree, institution := splitFirst(educationSeparator, first)

		ed := model.Education{
			Degree:      degree,
			Institution: institution,
			StartDate:   dates.start,
			EndDate:     dates.end,
			Description: strings.Join(lines[1:], "\n"),
		}

		for _, line := range lines {
			m := gpaRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if gpa, err := strconv.ParseFloat(m[1], 64); err == nil {
				ed.GPA = &gpa
				break
			}
		}

		out = append(out, ed)
	}

	return out
}
