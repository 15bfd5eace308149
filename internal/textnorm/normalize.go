// Package textnorm cleans text extracted from résumé documents before it is
// segmented or matched against vocabularies.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// bulletGlyphs are list markers that PDF extraction leaves inline
const bulletGlyphs = "•▪●◦■►▸‣∙·➢"

func isBullet(r rune) bool {
	return strings.ContainsRune(bulletGlyphs, r)
}

// Normalize prepares text for keyword matching: lowercase, bullets and
// control characters turned into spaces, whitespace runs collapsed, trimmed.
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)
	text = strings.Map(func(r rune) rune {
		if isBullet(r) || unicode.IsControl(r) {
			return ' '
		}
		return r
	}, text)

	return strings.Join(strings.Fields(text), " ")
}

// CleanLines removes extraction noise without touching line structure:
// CRLF becomes LF, control characters other than tab are dropped and
// trailing whitespace is trimmed from every line.
func CleanLines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.Map(func(r rune) rune {
			if r == '\t' {
				return ' '
			}
			if unicode.IsControl(r) || r == unicode.ReplacementChar {
				return -1
			}
			return r
		}, line)
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.Join(lines, "\n")
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Compact reduces a line to its bare lowercase ASCII letters, so that
// "S K I L L S", "Éducation:" and "skills" compare equal to their headers.
func Compact(text string) string {
	decomposed, _, err := transform.String(stripMarks, text)
	if err != nil {
		decomposed = text
	}

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range strings.ToLower(decomposed) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
