package textnorm

import "strings"

// brokenHeaders maps letters-only line forms to canonical header names.
// PDF extraction often splits or glues header letters ("SK ILLS",
// "PortfolioEXPERIENCE"); these are the forms seen in practice.
var brokenHeaders = map[string]string{
	"aboutme":                "SUMMARY",
	"careerobjective":        "SUMMARY",
	"skills":                 "SKILLS",
	"technicalskills":        "SKILLS",
	"education":              "EDUCATION",
	"experience":             "EXPERIENCE",
	"workexperience":         "EXPERIENCE",
	"professionalexperience": "EXPERIENCE",
	"portfolioexperience":    "EXPERIENCE",
	"projects":               "PROJECTS",
	"certifications":         "CERTIFICATIONS",
	"certificates":           "CERTIFICATIONS",
	"links":                  "CONTACT",
	"achievements":           "AWARDS",
}

// FixBrokenHeaders rewrites lines whose letters spell a known header into the
// canonical header name. Each canonical header is emitted at most once; later
// lines resolving to an already emitted header are dropped. Every other line
// passes through unchanged and in order.
func FixBrokenHeaders(text string) string {
	seen := make(map[string]bool)
	lines := strings.Split(text, "\n")
	fixed := make([]string, 0, len(lines))

	for _, line := range lines {
		compact := asciiLetters(line)

		header, ok := brokenHeaders[compact]
		if !ok {
			fixed = append(fixed, line)
			continue
		}
		if seen[header] {
			continue
		}
		seen[header] = true
		fixed = append(fixed, header)
	}

	return strings.Join(fixed, "\n")
}

// asciiLetters keeps only a-z/A-Z and lowercases them
func asciiLetters(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}
