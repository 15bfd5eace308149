package model

import (
	"time"

	"github.com/google/uuid"
)

// Analysis is the full result of running a résumé through the pipeline
type Analysis struct {
	CacheKey       string          `json:"cacheKey"`
	Role           string          `json:"role"`
	OriginalRole   string          `json:"originalRole"`
	RoleConfidence float64         `json:"roleConfidence"`
	Sections       *ResumeDocument `json:"sections"`
	Profile        ResumeProfile   `json:"profile"`
	ATS            ATSResult       `json:"ats"`
	Quality        QualityResult   `json:"quality"`
	Strength       Strength        `json:"strength"`
	Improvements   Improvements    `json:"improvements"`
	FinalVerdict   string          `json:"finalVerdict"`
	FallbackUsed   bool            `json:"fallbackUsed"`
	Report         Report          `json:"report"`
}

// ── Report ────────────────────────────────────────────

// Report is the presentation-ready view of an Analysis
type Report struct {
	Role           string          `json:"role"`
	Metrics        ReportMetrics   `json:"metrics"`
	Highlights     ReportFlags     `json:"highlights"`
	Sections       []ReportSection `json:"sections"`
	FormattingTips []string        `json:"formattingTips"`
	ActionItems    []string        `json:"actionItems"`
}

type ReportMetrics struct {
	ATSScore       int      `json:"atsScore"`
	QualityScore   int      `json:"qualityScore"`
	Strength       Strength `json:"strength"`
	RoleConfidence float64  `json:"roleConfidence"`
}

type ReportFlags struct {
	NeedsProjects         bool `json:"needsProjects"`
	NeedsExperience       bool `json:"needsExperience"`
	MissingCriticalSkills bool `json:"missingCriticalSkills"`
}

// ReportSection is one card of the report. Only the fields relevant to the
// card's ID are set.
type ReportSection struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Content   string              `json:"content,omitempty"`
	Strengths []string            `json:"strengths,omitempty"`
	Missing   []string            `json:"missing,omitempty"`
	Bullets   []string            `json:"bullets,omitempty"`
	Items     []ProjectSuggestion `json:"items,omitempty"`
}

// ── Stored analyses ───────────────────────────────────

// AnalysisRecord is a persisted analysis in a user's history
type AnalysisRecord struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	CacheKey     string    `json:"cacheKey"`
	Filename     string    `json:"filename,omitempty"`
	Role         string    `json:"role"`
	ATSScore     int       `json:"atsScore"`
	QualityScore int       `json:"qualityScore"`
	Strength     int       `json:"strength"`
	FallbackUsed bool      `json:"fallbackUsed"`
	Result       *Analysis `json:"result,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
