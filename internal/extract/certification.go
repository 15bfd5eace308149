package extract

import (
	"regexp"

	"github.com/yourusername/resumeiq-api/internal/model"
)

// A bare "credential" only introduces an ID when followed by ':' or '#'.
var (
	certSeparator = regexp.MustCompile(`,\s*|\s+from\s+|\s+by\s+`)
	issuedRe      = regexp.MustCompile(`(?i)\b(?:issued|earned)[:\s]*(` + monthYear + `)`)
	openRangeRe   = regexp.MustCompile(`(?i)(` + monthYear + `)\s*[-–—]\s*(?:present|current|now)\b`)
	credentialRe  = regexp.MustCompile(`(?i)(?:\bcredential\s*id\b|\bcredential\s*[:#]|\bid\b)[:#\s]*([A-Za-z0-9][A-Za-z0-9-]*)`)
)

// Certifications parses a certifications section, one entry per block
func (e *Extractor) Certifications(content string) []model.Certification {
	out := []model.Certification{}

	for _, lines := range splitBlocks(content) {
		name, issuer := splitFirst(certSeparator, lines[0])

		// "AWS SA, Amazon, Issued Jan 2023" keeps only "Amazon" as issuer
		for _, re := range []*regexp.Regexp{issuedRe, openRangeRe, credentialRe} {
			if loc := re.FindStringIndex(issuer); loc != nil {
				issuer = cutSpan(issuer, []int{loc[0], len(issuer)})
			}
		}

		c := model.Certification{Name: name, Issuer: issuer}

		for _, line := range lines {
			if c.IssueDate == "" {
				if m := issuedRe.FindStringSubmatch(line); m != nil {
					c.IssueDate = m[1]
				} else if m := openRangeRe.FindStringSubmatch(line); m != nil {
					c.IssueDate = m[1]
				}
			}
			if c.CredentialID == "" {
				if m := credentialRe.FindStringSubmatch(line); m != nil {
					c.CredentialID = m[1]
				}
			}
		}

		out = append(out, c)
	}

	return out
}
