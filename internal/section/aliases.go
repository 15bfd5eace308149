package section

import "github.com/yourusername/resumeiq-api/internal/model"

// defaultAliases are the header spellings recognised for each kind. Custom
// has no aliases; it is never produced by header detection.
var defaultAliases = map[model.SectionKind][]string{
	model.SectionContact:        {"contact", "contact info", "contact information", "personal details", "personal information"},
	model.SectionSummary:        {"summary", "profile", "about", "about me", "career objective", "objective", "professional summary"},
	model.SectionSkills:         {"skills", "technical skills", "core competencies", "technical expertise", "key skills", "professional skills"},
	model.SectionExperience:     {"experience", "work experience", "employment history", "professional experience", "work history"},
	model.SectionEducation:      {"education", "academic background", "academic qualifications", "education & training"},
	model.SectionProjects:       {"projects", "academic projects", "personal projects", "key projects", "project experience"},
	model.SectionCertifications: {"certifications", "certificates", "licenses", "professional certifications"},
	model.SectionLanguages:      {"languages", "language skills", "language proficiency"},
	model.SectionAwards:         {"awards", "honors & awards", "achievements"},
	model.SectionPublications:   {"publications", "research papers", "papers"},
	model.SectionVolunteer:      {"volunteer work", "volunteer experience", "volunteering"},
	model.SectionInterests:      {"interests", "hobbies"},
	model.SectionReferences:     {"references", "professional references"},
}

// DefaultAliases returns a copy of the built-in header alias table
func DefaultAliases() map[model.SectionKind][]string {
	out := make(map[model.SectionKind][]string, len(defaultAliases))
	for k, v := range defaultAliases {
		out[k] = append([]string(nil), v...)
	}
	return out
}
