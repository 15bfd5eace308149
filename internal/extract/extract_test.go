package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/resumeiq-api/internal/model"
	"github.com/yourusername/resumeiq-api/internal/section"
	"github.com/yourusername/resumeiq-api/internal/skills"
)

func newExtractor() *Extractor {
	return New(skills.Default(), WithClock(func() time.Time {
		return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	}))
}

func TestSplitBlocks(t *testing.T) {
	blocks := splitBlocks("\n  a\nb  \n\n \n\nc\n")
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, blocks)
	assert.Empty(t, splitBlocks("   \n\n"))
}

func TestFindDateRange(t *testing.T) {
	tests := []struct {
		line    string
		start   string
		end     string
		current bool
		ok      bool
	}{
		{"Jan 2020 - Present", "Jan 2020", "Present", true, true},
		{"March 2018 – June 2021", "March 2018", "June 2021", false, true},
		{"Sept. 2019 — current", "Sept. 2019", "Present", true, true},
		{"2016 - 2020", "2016", "2020", false, true},
		{"2021-now", "2021", "Present", true, true},
		{"Built APIs", "", "", false, false},
		{"Acme 2019 - Present", "2019", "Present", true, true},
		{"Globex 2017 - Initech 2019", "", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			r, ok := findDateRange(tt.line)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.start, r.start)
			assert.Equal(t, tt.end, r.end)
			assert.Equal(t, tt.current, r.current)
		})
	}
}

func TestExperience(t *testing.T) {
	e := newExtractor()

	got := e.Experience("Backend Engineer at Acme\nJan 2020 - Present\nBuilt APIs.")
	require.Len(t, got, 1)
	x := got[0]
	assert.Equal(t, "Backend Engineer", x.Title)
	assert.Equal(t, "Acme", x.Company)
	assert.Equal(t, "Jan 2020", x.StartDate)
	assert.Equal(t, "Present", x.EndDate)
	assert.True(t, x.IsCurrent)
	assert.Equal(t, "Jan 2020 - Present\nBuilt APIs.", x.Description)
	assert.Empty(t, x.Achievements)
}

func TestExperienceDatesOnFirstLine(t *testing.T) {
	e := newExtractor()

	tests := []struct {
		line    string
		title   string
		company string
		start   string
	}{
		{"Backend Engineer at Acme 2019 - Present", "Backend Engineer", "Acme", "2019"},
		{"Backend Engineer at Acme | Jan 2019 - Present", "Backend Engineer", "Acme", "Jan 2019"},
		{"Data Analyst at Initech (May 2020 - Dec 2022)", "Data Analyst", "Initech", "May 2020"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := e.Experience(tt.line)
			require.Len(t, got, 1)
			assert.Equal(t, tt.title, got[0].Title)
			assert.Equal(t, tt.company, got[0].Company)
			assert.Equal(t, tt.start, got[0].StartDate)
		})
	}
}

func TestExperienceBlocksAndAchievements(t *testing.T) {
	e := newExtractor()
	content := "Data Intern at Initech | Jun 2019 - Aug 2019\n" +
		"• Designed ETL jobs in Python\n" +
		"Improved Spark throughput by 30%\n" +
		"Led reviews\n" +
		"\n" +
		"Freelance\n" +
		"2015 - 2017"

	got := e.Experience(content)
	require.Len(t, got, 2)

	assert.Equal(t, "Data Intern", got[0].Title)
	assert.Equal(t, "Initech", got[0].Company)
	assert.Equal(t, "Jun 2019", got[0].StartDate)
	assert.Equal(t, "Aug 2019", got[0].EndDate)
	assert.False(t, got[0].IsCurrent)
	assert.Equal(t, []string{"Designed ETL jobs in Python", "Improved Spark throughput by 30%"}, got[0].Achievements)
	assert.Equal(t, []string{"etl", "python", "spark"}, got[0].Skills)

	assert.Equal(t, "Freelance", got[1].Title)
	assert.Equal(t, "", got[1].Company)
	assert.Equal(t, "2015", got[1].StartDate)
	assert.Equal(t, "2017", got[1].EndDate)
}

func TestExperienceEmpty(t *testing.T) {
	got := newExtractor().Experience("  \n\n ")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestProjects(t *testing.T) {
	e := newExtractor()
	content := "ResumeIQ - Lead Developer | Jan 2023 - Present\n" +
		"Built a parser with Go and PostgreSQL\n" +
		"\n" +
		"scikit-learn Classifier\n" +
		"Trained models with scikit-learn and Pandas"

	got := e.Projects(content)
	require.Len(t, got, 2)

	assert.Equal(t, "ResumeIQ", got[0].Name)
	assert.Equal(t, "Lead Developer", got[0].Role)
	assert.Equal(t, "Jan 2023", got[0].StartDate)
	assert.Equal(t, "Present", got[0].EndDate)
	assert.True(t, got[0].IsCurrent)
	assert.Equal(t, []string{"go", "sql"}, got[0].Technologies)
	assert.Equal(t, "Built a parser with Go and PostgreSQL", got[0].Description)

	assert.Equal(t, "scikit-learn Classifier", got[1].Name)
	assert.Equal(t, "", got[1].Role)
	assert.Equal(t, []string{"pandas", "scikit-learn"}, got[1].Technologies)
}

func TestEducation(t *testing.T) {
	e := newExtractor()
	content := "BSc Computer Science, MIT\n2016 - 2020\nGPA: 3.8/4.0\n" +
		"\n" +
		"B.Tech in CSE from IIT Delhi, 2012 - 2016\nGPA: N/A"

	got := e.Education(content)
	require.Len(t, got, 2)

	assert.Equal(t, "BSc Computer Science", got[0].Degree)
	assert.Equal(t, "MIT", got[0].Institution)
	assert.Equal(t, "2016", got[0].StartDate)
	assert.Equal(t, "2020", got[0].EndDate)
	require.NotNil(t, got[0].GPA)
	assert.InDelta(t, 3.8, *got[0].GPA, 1e-9)

	assert.Equal(t, "B.Tech in CSE", got[1].Degree)
	assert.Equal(t, "IIT Delhi", got[1].Institution)
	assert.Equal(t, "2012", got[1].StartDate)
	assert.Nil(t, got[1].GPA)
}

func TestCertifications(t *testing.T) {
	e := newExtractor()
	content := "AWS Certified Solutions Architect, Amazon Web Services\nIssued Jan 2023\nCredential ID: ABC-123\n" +
		"\n" +
		"CKA by CNCF, Issued: March 2022\n" +
		"\n" +
		"Scrum Master"

	got := e.Certifications(content)
	require.Len(t, got, 3)

	assert.Equal(t, model.Certification{
		Name:         "AWS Certified Solutions Architect",
		Issuer:       "Amazon Web Services",
		IssueDate:    "Jan 2023",
		CredentialID: "ABC-123",
	}, got[0])

	assert.Equal(t, model.Certification{
		Name:      "CKA",
		Issuer:    "CNCF",
		IssueDate: "March 2022",
	}, got[1])

	assert.Equal(t, model.Certification{Name: "Scrum Master"}, got[2])
}

func TestCertificationCredentialNeedsMarker(t *testing.T) {
	e := newExtractor()

	tests := []struct {
		content string
		want    string
	}{
		{"CKAD, CNCF\nCredential verification URL on request", ""},
		{"CKAD, CNCF\nCredential: X9-77", "X9-77"},
		{"CKAD, CNCF\nCredential #X9-78", "X9-78"},
		{"CKAD, CNCF\nID 4411", "4411"},
	}
	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			got := e.Certifications(tt.content)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].CredentialID)
		})
	}
}

func TestYearsOfExperience(t *testing.T) {
	assert.Equal(t, 10.0, YearsOfExperience("2 years at A, 10+ years overall", 2026))
	assert.Equal(t, 7.0, YearsOfExperience("Worked 2019 - Present", 2026))
	assert.Equal(t, 3.0, YearsOfExperience("2018 – 2021", 2026))
	assert.Equal(t, 0.0, YearsOfExperience("2021 - 2018", 2026))
	assert.Equal(t, 0.0, YearsOfExperience("no dates here", 2026))
}

func TestInferSeniority(t *testing.T) {
	tests := []struct {
		text       string
		level      string
		confidence float64
	}{
		{"Software Engineer Intern", LevelFresher, 35},
		{"Junior dev 2022 - 2023", LevelJunior, 45},
		{"Software Engineer", LevelMid, 60},
		{"Backend Developer with 7+ years", LevelSenior, 85},
		{"Team Lead", LevelSenior, 90},
		{"Engineering Manager", LevelSenior, 95},
		{"Built things 2022 - present", LevelMid, 65},
		{"", LevelFresher, 35},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := InferSeniority(tt.text, 2026)
			assert.Equal(t, tt.level, got.Level)
			assert.Equal(t, tt.confidence, got.Confidence)
		})
	}
}

func TestExtractorSeniorityUsesClock(t *testing.T) {
	got := newExtractor().Seniority("2020 - present")
	assert.Equal(t, 6.0, got.Years)
	assert.Equal(t, LevelSenior, got.Level)
}

const sampleResume = `SKILLS
Python (Expert), Go, PostgreSQL, Docker

EXPERIENCE
Team Lead at Acme
Jan 2020 - Present
- Built REST APIs in Go serving 1M requests
Optimized queries by 40%

PROJECTS
Parser - Go
Parsed 10k resumes

EDUCATION
MSc Computer Science, Stanford
2016 - 2018
GPA: 3.9/4.0

CERTIFICATIONS
CKA by CNCF
Credential ID: CKA-42`

func TestProfile(t *testing.T) {
	doc := section.Segment(sampleResume)
	p := newExtractor().Profile(doc)

	names := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"docker", "go", "python", "rest api", "sql"}, names)
	assert.Equal(t, []string{"experience", "projects", "skills"}, p.Skills[1].Sources)
	assert.Equal(t, model.LevelExpert, p.Skills[2].Level)

	require.Len(t, p.Experience, 1)
	assert.Equal(t, "Team Lead", p.Experience[0].Title)
	assert.Equal(t, []string{"Built REST APIs in Go serving 1M requests", "Optimized queries by 40%"}, p.Experience[0].Achievements)

	require.Len(t, p.Projects, 1)
	assert.Equal(t, "Parser", p.Projects[0].Name)

	require.Len(t, p.Education, 1)
	require.NotNil(t, p.Education[0].GPA)
	assert.InDelta(t, 3.9, *p.Education[0].GPA, 1e-9)

	require.Len(t, p.Certifications, 1)
	assert.Equal(t, "CKA-42", p.Certifications[0].CredentialID)

	assert.Equal(t, []string{
		"Strong technical skills in go, python.",
		"2+ years of professional experience.",
		"Holds a MSc Computer Science from Stanford.",
	}, p.Insights.Strengths)
	assert.Empty(t, p.Insights.AreasForImprovement)
	assert.Equal(t, map[string]int{"Software Developer": 85, "Engineering Manager": 80}, p.Insights.RoleSuitability)
}

func TestProfileEmptyDocument(t *testing.T) {
	p := newExtractor().Profile(section.Segment(""))
	assert.Empty(t, p.Skills)
	assert.NotNil(t, p.Experience)
	assert.Empty(t, p.Insights.Strengths)
	assert.Len(t, p.Insights.AreasForImprovement, 2)
}
