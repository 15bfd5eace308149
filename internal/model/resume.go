package model

import (
	"encoding/json"
)

// ── Section document model ────────────────────────────

// SectionKind labels a region of résumé text
type SectionKind string

const (
	SectionContact        SectionKind = "contact"
	SectionSummary        SectionKind = "summary"
	SectionSkills         SectionKind = "skills"
	SectionExperience     SectionKind = "experience"
	SectionEducation      SectionKind = "education"
	SectionProjects       SectionKind = "projects"
	SectionCertifications SectionKind = "certifications"
	SectionLanguages      SectionKind = "languages"
	SectionAwards         SectionKind = "awards"
	SectionPublications   SectionKind = "publications"
	SectionVolunteer      SectionKind = "volunteer"
	SectionInterests      SectionKind = "interests"
	SectionReferences     SectionKind = "references"
	SectionCustom         SectionKind = "custom"
)

// SectionKinds lists every kind in canonical display order.
var SectionKinds = []SectionKind{
	SectionContact, SectionSummary, SectionSkills, SectionExperience,
	SectionEducation, SectionProjects, SectionCertifications, SectionLanguages,
	SectionAwards, SectionPublications, SectionVolunteer, SectionInterests,
	SectionReferences, SectionCustom,
}

// DisplayName returns the human-facing title of a kind
func (k SectionKind) DisplayName() string {
	switch k {
	case SectionContact:
		return "Contact"
	case SectionSummary:
		return "Summary"
	case SectionSkills:
		return "Skills"
	case SectionExperience:
		return "Experience"
	case SectionEducation:
		return "Education"
	case SectionProjects:
		return "Projects"
	case SectionCertifications:
		return "Certifications"
	case SectionLanguages:
		return "Languages"
	case SectionAwards:
		return "Awards"
	case SectionPublications:
		return "Publications"
	case SectionVolunteer:
		return "Volunteer"
	case SectionInterests:
		return "Interests"
	case SectionReferences:
		return "References"
	default:
		return "Custom"
	}
}

// Section is a contiguous labeled region of résumé text.
// StartOffset and EndOffset are 0-based line indices into the segmented text.
type Section struct {
	Kind        SectionKind `json:"kind"`
	DisplayName string      `json:"displayName"`
	Content     string      `json:"content"`
	StartOffset int         `json:"startOffset"`
	EndOffset   int         `json:"endOffset"`
	Level       int         `json:"level"`
	Parent      *Section    `json:"-"`
	Subsections []*Section  `json:"subsections"`
}

// ResumeDocument is the read-only result of segmentation
type ResumeDocument struct {
	sections map[SectionKind]*Section
}

// NewResumeDocument builds a document from finished sections. Later sections
// of an already present kind are ignored; the segmenter never produces them.
func NewResumeDocument(sections ...*Section) *ResumeDocument {
	doc := &ResumeDocument{sections: make(map[SectionKind]*Section, len(sections))}
	for _, s := range sections {
		if s == nil {
			continue
		}
		if _, exists := doc.sections[s.Kind]; exists {
			continue
		}
		doc.sections[s.Kind] = s
	}
	return doc
}

// Section returns the section of the given kind, if present
func (d *ResumeDocument) Section(kind SectionKind) (*Section, bool) {
	if d == nil {
		return nil, false
	}
	s, ok := d.sections[kind]
	return s, ok
}

// Content returns the raw content of a section, or "" when absent
func (d *ResumeDocument) Content(kind SectionKind) string {
	if s, ok := d.Section(kind); ok {
		return s.Content
	}
	return ""
}

func (d *ResumeDocument) Has(kind SectionKind) bool {
	_, ok := d.Section(kind)
	return ok
}

// Kinds returns the present kinds in canonical order
func (d *ResumeDocument) Kinds() []SectionKind {
	kinds := make([]SectionKind, 0, d.Len())
	for _, k := range SectionKinds {
		if d.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func (d *ResumeDocument) Len() int {
	if d == nil {
		return 0
	}
	return len(d.sections)
}

func (d *ResumeDocument) IsEmpty() bool { return d.Len() == 0 }

// MarshalJSON encodes the document as an object keyed by section kind
func (d *ResumeDocument) MarshalJSON() ([]byte, error) {
	out := make(map[SectionKind]*Section, d.Len())
	for _, k := range d.Kinds() {
		out[k] = d.sections[k]
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a document written by MarshalJSON. Keys that are
// not a known kind are dropped.
func (d *ResumeDocument) UnmarshalJSON(data []byte) error {
	var raw map[SectionKind]*Section
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	sections := make([]*Section, 0, len(raw))
	for _, k := range SectionKinds {
		if s := raw[k]; s != nil {
			s.Kind = k
			sections = append(sections, s)
		}
	}
	*d = *NewResumeDocument(sections...)
	return nil
}

// ── Skills ────────────────────────────────────────────

// SkillLevel is a self-declared proficiency qualifier
type SkillLevel string

const (
	LevelExpert       SkillLevel = "Expert"
	LevelAdvanced     SkillLevel = "Advanced"
	LevelIntermediate SkillLevel = "Intermediate"
	LevelBeginner     SkillLevel = "Beginner"
	LevelNovice       SkillLevel = "Novice"
)

// Rank orders levels by confidence (higher = more specific). Unset is 0.
func (l SkillLevel) Rank() int {
	switch l {
	case LevelExpert:
		return 5
	case LevelAdvanced:
		return 4
	case LevelIntermediate:
		return 3
	case LevelBeginner:
		return 2
	case LevelNovice:
		return 1
	default:
		return 0
	}
}

// DetectedSkill is a canonical skill with where and how it was found
type DetectedSkill struct {
	Name     string     `json:"name"`
	Level    SkillLevel `json:"level,omitempty"`
	Category string     `json:"category,omitempty"`
	Sources  []string   `json:"sources"`
	Context  string     `json:"context,omitempty"`
}

// ── Extracted entities ────────────────────────────────

type Experience struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	IsCurrent    bool     `json:"isCurrent"`
	Description  string   `json:"description,omitempty"`
	Skills       []string `json:"skills"`
	Achievements []string `json:"achievements"`
}

type Project struct {
	Name         string   `json:"name"`
	Role         string   `json:"role,omitempty"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	IsCurrent    bool     `json:"isCurrent"`
}

type Education struct {
	Degree      string   `json:"degree"`
	Institution string   `json:"institution"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	GPA         *float64 `json:"gpa,omitempty"`
	Description string   `json:"description,omitempty"`
}

type Certification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	IssueDate    string `json:"issueDate,omitempty"`
	CredentialID string `json:"credentialId,omitempty"`
}

// Seniority is the inferred career level of a candidate
type Seniority struct {
	Years      float64 `json:"experienceYears"`
	Level      string  `json:"seniority"`
	Confidence float64 `json:"confidence"`
}

// Insights are rule-based observations about a parsed profile
type Insights struct {
	Strengths           []string       `json:"strengths"`
	AreasForImprovement []string       `json:"areasForImprovement"`
	RoleSuitability     map[string]int `json:"roleSuitability"`
}

// ResumeProfile aggregates everything the extractors pulled out of a document
type ResumeProfile struct {
	Skills         []DetectedSkill `json:"skills"`
	Experience     []Experience    `json:"experience"`
	Projects       []Project       `json:"projects"`
	Education      []Education     `json:"education"`
	Certifications []Certification `json:"certifications"`
	Insights       Insights        `json:"insights"`
}

// ── Scores ────────────────────────────────────────────

// ATSResult is the role-aware keyword match. Its shape is relied upon by
// every downstream consumer.
type ATSResult struct {
	Score         int      `json:"score"`
	Role          string   `json:"role"`
	OriginalRole  string   `json:"originalRole"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
	RoleSkills    []string `json:"roleSkills"`
}

// Section quality statuses
const (
	StatusMissing   = "missing"
	StatusNeedsWork = "needs_work"
	StatusAverage   = "average"
	StatusGood      = "good"
	StatusExcellent = "excellent"
	StatusInferred  = "inferred"
)

type SectionScore struct {
	Score    int    `json:"score"`
	Status   string `json:"status"`
	Feedback string `json:"feedback"`
}

type QualityResult struct {
	OverallScore  int                     `json:"overallScore"`
	SectionScores map[string]SectionScore `json:"sectionScores"`
	Verdict       string                  `json:"verdict"`
}

type Strength struct {
	Score int    `json:"score"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// RolePrediction is the best-fitting role for a document's skills
type RolePrediction struct {
	Role          string   `json:"role"`
	Confidence    float64  `json:"confidence"`
	MatchedSkills []string `json:"matchedSkills"`
}

// JDMatchResult compares a résumé against a job description
type JDMatchResult struct {
	ATSMatchScore int      `json:"atsMatchScore"`
	RoleFit       string   `json:"roleFit"`
	Role          string   `json:"role"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
	Suggestions   []string `json:"atsImprovementSuggestions"`
	FallbackUsed  bool     `json:"fallbackUsed"`
}

// ── Improvements ──────────────────────────────────────

type ProjectSuggestion struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	TechStack     []string `json:"techStack"`
	ImpactBullets []string `json:"impactBullets"`
}

// Improvements has the same shape whether it came from the assistant or
// from the deterministic generator.
type Improvements struct {
	Summary           string              `json:"summary"`
	Strengths         []string            `json:"strengths"`
	Weaknesses        []string            `json:"weaknesses"`
	SkillsToAdd       []string            `json:"skillsToAdd"`
	SkillPhrases      []string            `json:"skillPhrases"`
	ExperienceBullets []string            `json:"experienceBullets"`
	Projects          []ProjectSuggestion `json:"projects"`
	FormattingTips    []string            `json:"formattingTips"`
	ActionItems       []string            `json:"actionItems"`
	FallbackUsed      bool                `json:"fallbackUsed"`
}

// RewriteResult is a role-targeted rewrite of résumé content
type RewriteResult struct {
	Summary          string              `json:"rewrittenSummary"`
	Experience       []string            `json:"rewrittenExperience"`
	Projects         []ProjectSuggestion `json:"rewrittenProjects"`
	Skills           map[string][]string `json:"rewrittenSkills"`
	ATSKeywordsAdded []string            `json:"atsKeywordsAdded"`
	Role             string              `json:"role"`
	OriginalRole     string              `json:"originalRole"`
	FallbackUsed     bool                `json:"fallbackUsed"`
}
