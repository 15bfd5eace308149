// Package section splits cleaned résumé text into labeled sections.
package section

import (
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/yourusername/resumeiq-api/internal/model"
	"github.com/yourusername/resumeiq-api/internal/textnorm"
)

// maxCapsHeaderLen bounds the all-caps header heuristic
const maxCapsHeaderLen = 30

// experienceLike matches lines that belong to work history. They are dropped
// from every other section because upstream misclassification tends to bleed
// job titles into skills, education and projects.
var experienceLike = regexp.MustCompile(`(?i)\b(engineer|developer|intern|sde|company|fintech|worked|experience|software|remote|role)`)

// Segmenter detects section headers line by line and accumulates the lines
// between them. A Segmenter is immutable and safe for concurrent use.
type Segmenter struct {
	exact        map[string]model.SectionKind // lowercased alias -> kind
	compact      map[string]model.SectionKind // letters-only alias -> kind
	keepPreamble bool
}

type Option func(*Segmenter)

// WithPreamble keeps the lines before the first header as the Contact section
// instead of discarding them.
func WithPreamble() Option {
	return func(s *Segmenter) { s.keepPreamble = true }
}

// WithAliases replaces the header alias table
func WithAliases(aliases map[model.SectionKind][]string) Option {
	return func(s *Segmenter) { s.index(aliases) }
}

func New(opts ...Option) *Segmenter {
	s := &Segmenter{}
	s.index(defaultAliases)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// index builds the lookup tables. Kinds are walked in canonical order so an
// alias listed under two kinds always resolves to the earlier one.
func (s *Segmenter) index(aliases map[model.SectionKind][]string) {
	s.exact = make(map[string]model.SectionKind)
	s.compact = make(map[string]model.SectionKind)
	for _, kind := range model.SectionKinds {
		for _, alias := range aliases[kind] {
			key := collapse(alias)
			if key == "" {
				continue
			}
			if _, ok := s.exact[key]; !ok {
				s.exact[key] = kind
			}
			c := textnorm.Compact(alias)
			if _, ok := s.compact[c]; !ok && c != "" {
				s.compact[c] = kind
			}
		}
	}
}

var defaultSegmenter = sync.OnceValue(func() *Segmenter { return New() })

// Segment runs the default segmenter
func Segment(text string) *model.ResumeDocument {
	return defaultSegmenter().Segment(text)
}

// accumulator collects the content of one kind across every header occurrence
type accumulator struct {
	lines []string
	start int
	end   int
}

// Segment splits text into sections. Repeated headers of one kind append to
// the same section with a blank line between the occurrences. Empty input,
// or input without a recognised header, yields an empty document.
func (s *Segmenter) Segment(text string) *model.ResumeDocument {
	if strings.TrimSpace(text) == "" {
		return model.NewResumeDocument()
	}

	lines := strings.Split(text, "\n")

	var (
		order  []model.SectionKind
		acc    = make(map[model.SectionKind]*accumulator)
		active model.SectionKind
		buf    []string
		first  = -1
		last   = -1
	)

	flush := func() {
		content := trimBlank(buf)
		if active == "" || len(content) == 0 {
			return
		}
		a, ok := acc[active]
		if !ok {
			a = &accumulator{start: first}
			acc[active] = a
			order = append(order, active)
		} else {
			a.lines = append(a.lines, "")
		}
		a.lines = append(a.lines, content...)
		a.end = last
	}

	if s.keepPreamble {
		active = model.SectionContact
	}

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		next := nextNonBlank(lines, i+1)

		nextLine := ""
		if next >= 0 {
			nextLine = strings.TrimSpace(lines[next])
		}

		if kind, ok := s.header(line, nextLine); ok {
			flush()
			active, buf, first, last = kind, nil, -1, -1
			if next >= 0 && isUnderline(nextLine, line) {
				i = next
			}
			continue
		}

		if active == "" {
			continue
		}
		if line == "" {
			if len(buf) > 0 && buf[len(buf)-1] != "" {
				buf = append(buf, "")
			}
			continue
		}
		if active != model.SectionExperience && experienceLike.MatchString(line) {
			continue
		}

		if first < 0 {
			first = i
		}
		last = i
		buf = append(buf, line)
	}
	flush()

	sections := make([]*model.Section, 0, len(order))
	for _, kind := range order {
		a := acc[kind]
		sections = append(sections, &model.Section{
			Kind:        kind,
			DisplayName: kind.DisplayName(),
			Content:     strings.Join(a.lines, "\n"),
			StartOffset: a.start,
			EndOffset:   a.end,
			Level:       1,
			Subsections: []*model.Section{},
		})
	}
	return model.NewResumeDocument(sections...)
}

// header reports whether line is a section header. next is the following
// non-blank line, used to recognise underlined headers.
func (s *Segmenter) header(line, next string) (model.SectionKind, bool) {
	if line == "" {
		return "", false
	}

	key := strings.TrimSpace(collapse(line))
	key = strings.TrimSpace(strings.TrimRight(key, ":."))
	if kind, ok := s.exact[key]; ok {
		return kind, true
	}
	if strings.HasSuffix(key, "s") {
		if kind, ok := s.exact[strings.TrimSuffix(key, "s")]; ok {
			return kind, true
		}
	}

	compact := textnorm.Compact(line)
	if compact == "" {
		return "", false
	}
	if isUnderline(next, line) || (isAllCaps(line) && utf8.RuneCountInString(line) < maxCapsHeaderLen) {
		if kind, ok := s.compact[compact]; ok {
			return kind, true
		}
	}
	return "", false
}

// isUnderline reports whether under is a rule of '-' or '=' at least as long
// as the header text above it
func isUnderline(under, header string) bool {
	if under == "" {
		return false
	}
	for _, r := range under {
		if r != '-' && r != '=' && r != ' ' {
			return false
		}
	}
	return utf8.RuneCountInString(under) >= utf8.RuneCountInString(header)
}

// isAllCaps reports whether s has at least one letter and no lowercase ones
func isAllCaps(s string) bool {
	hasUpper := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

func collapse(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func nextNonBlank(lines []string, from int) int {
	for j := from; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) != "" {
			return j
		}
	}
	return -1
}

// trimBlank drops leading and trailing blank lines
func trimBlank(lines []string) []string {
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
