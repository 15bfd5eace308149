// Package extract turns section text into structured résumé entities.
package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/yourusername/resumeiq-api/internal/skills"
)

// Extractor parses section content into entities. It holds only read-only
// tables and is safe for concurrent use.
type Extractor struct {
	vocab *skills.Vocabulary
	now   func() time.Time
}

type Option func(*Extractor)

// WithClock sets the time source used to resolve "present" in date ranges
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

func New(vocab *skills.Vocabulary, opts ...Option) *Extractor {
	if vocab == nil {
		vocab = skills.Default()
	}
	e := &Extractor{vocab: vocab, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// splitBlocks breaks section content into blank-line separated blocks of
// trimmed, non-empty lines. Fully blank blocks are skipped.
func splitBlocks(content string) [][]string {
	var (
		blocks  [][]string
		current []string
	)
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

// ── Date ranges ───────────────────────────────────────

// monthYear is "<month> <year>" with a full or abbreviated month name, so
// an ordinary word before a year ("Acme 2019") is not read as a date.
const monthYear = `\b(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+\d{4}`

var (
	monthRange = regexp.MustCompile(`(?i)(` + monthYear + `)\s*[-–—]\s*(` + monthYear + `|present|current|now)\b`)
	yearRange  = regexp.MustCompile(`(?i)\b((?:19|20)\d{2})\s*[-–—]\s*((?:19|20)\d{2}|present|current|now)\b`)
)

type dateRange struct {
	start   string
	end     string
	current bool
	loc     []int // byte span of the match in the scanned line
}

// findDateRange looks for "<Month Year> - <Month Year|Present>" and falls
// back to "YYYY - YYYY|Present". Open-ended tokens become "Present".
func findDateRange(line string) (dateRange, bool) {
	m := monthRange.FindStringSubmatchIndex(line)
	if m == nil {
		m = yearRange.FindStringSubmatchIndex(line)
	}
	if m == nil {
		return dateRange{}, false
	}

	r := dateRange{
		start: line[m[2]:m[3]],
		end:   line[m[4]:m[5]],
		loc:   []int{m[0], m[1]},
	}
	switch strings.ToLower(r.end) {
	case "present", "current", "now":
		r.end = "Present"
		r.current = true
	}
	return r, true
}

// cutSpan removes line[loc[0]:loc[1]] and tidies the separators left behind
func cutSpan(line string, loc []int) string {
	out := line[:loc[0]] + " " + line[loc[1]:]
	out = strings.Join(strings.Fields(out), " ")
	return strings.Trim(out, " |,;-–—()[]")
}

// splitFirst splits s on the first match of sep. The second value is ""
// when sep does not occur.
func splitFirst(sep *regexp.Regexp, s string) (string, string) {
	parts := sep.Split(s, 2)
	if len(parts) < 2 {
		return strings.TrimSpace(s), ""
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}
