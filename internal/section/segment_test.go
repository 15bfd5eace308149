package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/resumeiq-api/internal/model"
)

func TestSegmentEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n\t\n"} {
		doc := Segment(text)
		require.NotNil(t, doc)
		assert.True(t, doc.IsEmpty())
	}
}

func TestSegmentNoHeaders(t *testing.T) {
	doc := Segment("Jane Doe\njane@example.com\nLikes long walks")
	assert.True(t, doc.IsEmpty())
}

func TestSegmentSkillsAndExperience(t *testing.T) {
	text := "SKILLS\nPython, SQL\n\nEXPERIENCE\nBackend Engineer at Acme\nJan 2020 - Present\nBuilt APIs."

	doc := Segment(text)
	require.Equal(t, 2, doc.Len())
	assert.Equal(t, []model.SectionKind{model.SectionSkills, model.SectionExperience}, doc.Kinds())

	skills, ok := doc.Section(model.SectionSkills)
	require.True(t, ok)
	assert.Equal(t, "Python, SQL", skills.Content)
	assert.Equal(t, "Skills", skills.DisplayName)
	assert.Equal(t, 1, skills.StartOffset)
	assert.Equal(t, 1, skills.EndOffset)
	assert.Equal(t, 1, skills.Level)

	exp, ok := doc.Section(model.SectionExperience)
	require.True(t, ok)
	assert.Equal(t, "Backend Engineer at Acme\nJan 2020 - Present\nBuilt APIs.", exp.Content)
	assert.Equal(t, 4, exp.StartOffset)
	assert.Equal(t, 6, exp.EndOffset)
}

func TestSegmentDuplicateHeadersCollapse(t *testing.T) {
	text := "SKILLS\nPython\n\nEDUCATION\nBSc Computer Science, MIT\n\nSKILLS\nDocker"

	doc := Segment(text)
	require.Equal(t, 2, doc.Len())
	assert.Equal(t, "Python\n\nDocker", doc.Content(model.SectionSkills))

	skills, _ := doc.Section(model.SectionSkills)
	assert.Equal(t, 1, skills.StartOffset)
	assert.Equal(t, 7, skills.EndOffset)
}

func TestSegmentHeaderForms(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind model.SectionKind
		want string
	}{
		{"trailing colon", "Technical Skills:\nGo", model.SectionSkills, "Go"},
		{"trailing period", "Education.\nBSc", model.SectionEducation, "BSc"},
		{"plural tolerant", "Certificationss\nAWS", model.SectionCertifications, "AWS"},
		{"mixed case", "Work History\nAcme", model.SectionExperience, "Acme"},
		{"spaced caps", "S K I L L S\nGo", model.SectionSkills, "Go"},
		{"accented caps", "ÉDUCATION\nBSc", model.SectionEducation, "BSc"},
		{"underlined", "Key Projects!\n=============\nResume parser", model.SectionProjects, "Resume parser"},
		{"dashed underline", "Hobbies\n-------\nChess", model.SectionInterests, "Chess"},
		{"ampersand alias", "Honors & Awards\nDean's list", model.SectionAwards, "Dean's list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Segment(tt.text)
			require.True(t, doc.Has(tt.kind), "kinds: %v", doc.Kinds())
			assert.Equal(t, tt.want, doc.Content(tt.kind))
		})
	}
}

func TestSegmentShortUnderlineIsContent(t *testing.T) {
	doc := Segment("SKILLS\nGo\nKey Projects!\n---\nParser")
	assert.False(t, doc.Has(model.SectionProjects))
	assert.Equal(t, "Go\nKey Projects!\n---\nParser", doc.Content(model.SectionSkills))
}

func TestSegmentLongCapsLineIsNotHeader(t *testing.T) {
	doc := Segment("SKILLS\nGo\nP R O F E S S I O N A L  C E R T I F I C A T I O N S\nAWS")
	assert.Equal(t, []model.SectionKind{model.SectionSkills}, doc.Kinds())
}

func TestSegmentDropsExperienceLikeLines(t *testing.T) {
	text := "SKILLS\nPython, Go\nSoftware Engineer at Acme\nDocker\n\nEXPERIENCE\nSoftware Engineer at Acme"

	doc := Segment(text)
	assert.Equal(t, "Python, Go\nDocker", doc.Content(model.SectionSkills))
	assert.Equal(t, "Software Engineer at Acme", doc.Content(model.SectionExperience))
}

func TestSegmentBlankLines(t *testing.T) {
	text := "EXPERIENCE\n\n\nDev at A\n2020 - 2021\n\n\n\nDev at B\n\n"

	doc := Segment(text)
	assert.Equal(t, "Dev at A\n2020 - 2021\n\nDev at B", doc.Content(model.SectionExperience))
}

func TestSegmentSkipsEmptySections(t *testing.T) {
	doc := Segment("SUMMARY\n\nSKILLS\nGo")
	assert.Equal(t, []model.SectionKind{model.SectionSkills}, doc.Kinds())
}

func TestSegmentPreamble(t *testing.T) {
	text := "Jane Doe\njane@example.com\n\nSKILLS\nGo"

	assert.False(t, Segment(text).Has(model.SectionContact))

	doc := New(WithPreamble()).Segment(text)
	assert.Equal(t, "Jane Doe\njane@example.com", doc.Content(model.SectionContact))
	assert.Equal(t, "Go", doc.Content(model.SectionSkills))
}

func TestSegmentWithAliases(t *testing.T) {
	s := New(WithAliases(map[model.SectionKind][]string{
		model.SectionSkills: {"toolbox"},
	}))

	doc := s.Segment("TOOLBOX\nGo\nSKILLS\nRust")
	assert.Equal(t, "Go\nSKILLS\nRust", doc.Content(model.SectionSkills))
}

func TestSegmentIsDeterministic(t *testing.T) {
	text := "SUMMARY\nBuilder\nSKILLS\nGo\nPROJECTS\nParser - Go\nEDUCATION\nBSc, MIT"
	first, err := Segment(text).MarshalJSON()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Segment(text).MarshalJSON()
		require.NoError(t, err)
		assert.JSONEq(t, string(first), string(again))
	}
}

func TestDefaultAliasesIsACopy(t *testing.T) {
	a := DefaultAliases()
	a[model.SectionSkills][0] = "mutated"
	assert.Equal(t, "skills", DefaultAliases()[model.SectionSkills][0])
}
