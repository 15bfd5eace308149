package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/yourusername/resumeiq-api/internal/model"
)

// Seniority levels
const (
	LevelFresher = "Fresher"
	LevelJunior  = "Junior"
	LevelMid     = "Mid"
	LevelSenior  = "Senior"
)

type seniorityRule struct {
	keyword    string
	level      string
	confidence float64
}

// seniorityRules are tried in order; the first keyword found wins
var seniorityRules = []seniorityRule{
	{"intern", LevelFresher, 0.35},
	{"junior", LevelJunior, 0.45},
	{"software engineer", LevelMid, 0.60},
	{"backend developer", LevelMid, 0.65},
	{"senior", LevelSenior, 0.80},
	{"lead", LevelSenior, 0.90},
	{"manager", LevelSenior, 0.95},
}

var (
	yearsClaimRe = regexp.MustCompile(`(\d+)\+?\s+years?`)
	yearSpanRe   = regexp.MustCompile(`(20\d{2})\s*[-–—]\s*(20\d{2}|present)`)
)

// YearsOfExperience reads "N+ years" claims (largest wins) or, failing that,
// the first "20YY - 20YY|present" span. "present" resolves to currentYear.
func YearsOfExperience(text string, currentYear int) float64 {
	text = strings.ToLower(text)

	if claims := yearsClaimRe.FindAllStringSubmatch(text, -1); len(claims) > 0 {
		best := 0
		for _, m := range claims {
			if n, err := strconv.Atoi(m[1]); err == nil && n > best {
				best = n
			}
		}
		return float64(best)
	}

	if m := yearSpanRe.FindStringSubmatch(text); m != nil {
		start, _ := strconv.Atoi(m[1])
		end := currentYear
		if m[2] != "present" {
			end, _ = strconv.Atoi(m[2])
		}
		return math.Max(0, float64(end-start))
	}

	return 0
}

// InferSeniority combines title keywords with years of experience. Years
// can only raise confidence, never lower it.
func InferSeniority(text string, currentYear int) model.Seniority {
	years := YearsOfExperience(text, currentYear)
	lower := strings.ToLower(text)

	level, confidence := LevelFresher, 0.35
	for _, rule := range seniorityRules {
		if strings.Contains(lower, rule.keyword) {
			level, confidence = rule.level, rule.confidence
			break
		}
	}

	switch {
	case years >= 5:
		level, confidence = LevelSenior, math.Max(confidence, 0.85)
	case years >= 3:
		level, confidence = LevelMid, math.Max(confidence, 0.65)
	case years >= 1:
		level, confidence = LevelJunior, math.Max(confidence, 0.45)
	}

	return model.Seniority{
		Years:      years,
		Level:      level,
		Confidence: math.Round(confidence*10000) / 100,
	}
}

// Seniority infers seniority using the extractor's clock
func (e *Extractor) Seniority(text string) model.Seniority {
	return InferSeniority(text, e.now().Year())
}
