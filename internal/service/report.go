package service

import (
	"math"

	"github.com/yourusername/resumeiq-api/internal/model"
)

const reportListLimit = 5

// BuildReport shapes an analysis into the card layout the frontend renders
func BuildReport(a *model.Analysis) model.Report {
	imp := a.Improvements
	gaps := imp.SkillsToAdd[:min(len(imp.SkillsToAdd), reportListLimit)]
	strong := imp.Strengths[:min(len(imp.Strengths), reportListLimit)]

	experience := a.Quality.SectionScores[string(model.SectionExperience)].Status
	projects := a.Quality.SectionScores[string(model.SectionProjects)].Status

	return model.Report{
		Role: a.Role,
		Metrics: model.ReportMetrics{
			ATSScore:       a.ATS.Score,
			QualityScore:   a.Quality.OverallScore,
			Strength:       a.Strength,
			RoleConfidence: math.Round(a.RoleConfidence*100) / 100,
		},
		Highlights: model.ReportFlags{
			NeedsProjects:         projects == "" || projects == model.StatusMissing || projects == model.StatusAverage,
			NeedsExperience:       experience == "" || experience == model.StatusMissing || experience == model.StatusInferred,
			MissingCriticalSkills: len(gaps) > 0,
		},
		Sections: []model.ReportSection{
			{ID: "summary", Title: "Professional Summary", Content: imp.Summary},
			{ID: "skills", Title: "Skills Analysis", Strengths: strong, Missing: gaps},
			{ID: "experience", Title: "Experience Suggestions", Bullets: imp.ExperienceBullets[:min(len(imp.ExperienceBullets), reportListLimit)]},
			{ID: "projects", Title: "Recommended Projects", Items: imp.Projects},
		},
		FormattingTips: imp.FormattingTips,
		ActionItems:    imp.ActionItems,
	}
}
