package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/resumeiq-api/internal/extract"
	"github.com/yourusername/resumeiq-api/internal/improve"
	"github.com/yourusername/resumeiq-api/internal/model"
	"github.com/yourusername/resumeiq-api/internal/scoring"
	"github.com/yourusername/resumeiq-api/internal/section"
	"github.com/yourusername/resumeiq-api/internal/skills"
	"github.com/yourusername/resumeiq-api/internal/textnorm"
)

var (
	// ErrNotText rejects input that is not valid UTF-8 text
	ErrNotText = errors.New("input is not text")
	// ErrEmptyText rejects input with nothing but whitespace
	ErrEmptyText = errors.New("input text is empty")
)

// cacheVersion is bumped whenever scoring changes invalidate stored results
const cacheVersion = "v4.0"

const unknownRole = "Unknown"

// AnalyzeRequest is one résumé to analyze. An empty Role asks the analyzer
// to predict one. UseAssistant allows the optional collaborator to be tried.
type AnalyzeRequest struct {
	Text         string
	Role         string
	UseAssistant bool
}

// Analyzer runs the full résumé pipeline. It holds only read-only tables
// and is safe for concurrent use.
type Analyzer struct {
	segmenter  *section.Segmenter
	extractor  *extract.Extractor
	scorer     *scoring.Scorer
	generator  *improve.Generator
	rewriter   *improve.Rewriter
	assistant  Assistant
	now        func() time.Time
	batchLimit int
}

type Option func(*Analyzer)

// WithAssistant enables the language-model collaborator
func WithAssistant(a Assistant) Option {
	return func(an *Analyzer) { an.assistant = a }
}

func WithSegmenter(s *section.Segmenter) Option {
	return func(an *Analyzer) { an.segmenter = s }
}

// WithClock sets the time source used to resolve "present" in date ranges
func WithClock(now func() time.Time) Option {
	return func(an *Analyzer) { an.now = now }
}

// WithBatchLimit bounds how many résumés AnalyzeBatch works on at once
func WithBatchLimit(n int) Option {
	return func(an *Analyzer) {
		if n > 0 {
			an.batchLimit = n
		}
	}
}

// NewAnalyzer wires the pipeline. nil tables select the embedded defaults.
func NewAnalyzer(vocab *skills.Vocabulary, roles *scoring.RoleTable, opts ...Option) *Analyzer {
	a := &Analyzer{now: time.Now, batchLimit: 4}
	for _, opt := range opts {
		opt(a)
	}
	if a.segmenter == nil {
		a.segmenter = section.New()
	}
	a.extractor = extract.New(vocab, extract.WithClock(a.now))
	a.scorer = scoring.New(vocab, roles)
	a.generator = improve.NewGenerator()
	a.rewriter = improve.NewRewriter(vocab, a.scorer.Roles())
	return a
}

// ValidateText reports ErrNotText for invalid UTF-8 or binary content and
// ErrEmptyText for blank input.
func ValidateText(text string) error {
	if !utf8.ValidString(text) || strings.ContainsRune(text, 0) {
		return ErrNotText
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	return nil
}

// prepare validates and cleans raw text and segments it
func (a *Analyzer) prepare(text string) (string, *model.ResumeDocument, error) {
	if err := ValidateText(text); err != nil {
		return "", nil, err
	}
	cleaned := textnorm.FixBrokenHeaders(textnorm.CleanLines(text))
	return cleaned, a.segmenter.Segment(cleaned), nil
}

// ── Analysis ──────────────────────────────────────────

// Analyze runs one résumé through segmentation, extraction, scoring and
// improvement generation.
func (a *Analyzer) Analyze(ctx context.Context, req AnalyzeRequest) (*model.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cleaned, doc, err := a.prepare(req.Text)
	if err != nil {
		return nil, err
	}

	role, confidence := strings.TrimSpace(req.Role), 100.0
	if role == "" {
		pred := a.scorer.PredictRole(doc)
		confidence = pred.Confidence
		if pred.Role != unknownRole {
			role = pred.Role
		}
	}

	ats := a.scorer.ATS(cleaned, role)
	ats.OriginalRole = req.Role
	quality := scoring.EvaluateQuality(doc, a.now().Year())
	imp := a.improvements(ctx, cleaned, ats, req.UseAssistant)

	analysis := &model.Analysis{
		CacheKey:       a.CacheKey(req.Text, req.Role),
		Role:           ats.Role,
		OriginalRole:   req.Role,
		RoleConfidence: confidence,
		Sections:       doc,
		Profile:        a.extractor.Profile(doc),
		ATS:            ats,
		Quality:        quality,
		Strength:       scoring.CalculateStrength(ats.Score, quality.OverallScore),
		Improvements:   imp,
		FinalVerdict:   improve.FinalVerdict(ats.Score, quality.OverallScore),
		FallbackUsed:   imp.FallbackUsed,
	}
	analysis.Report = BuildReport(analysis)

	log.Debug().
		Str("role", analysis.Role).
		Int("ats", ats.Score).
		Int("quality", quality.OverallScore).
		Bool("fallback", analysis.FallbackUsed).
		Msg("Resume analyzed")

	return analysis, nil
}

// AnalyzeBatch analyzes independent résumés concurrently. Results keep the
// order of reqs; the first failure cancels the rest.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, reqs []AnalyzeRequest) ([]*model.Analysis, error) {
	results := make([]*model.Analysis, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.batchLimit)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			res, err := a.Analyze(ctx, req)
			if err != nil {
				return fmt.Errorf("analyzing resume %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Parse segments a résumé and extracts its profile without scoring it
func (a *Analyzer) Parse(text string) (*model.ResumeDocument, model.ResumeProfile, error) {
	_, doc, err := a.prepare(text)
	if err != nil {
		return nil, model.ResumeProfile{}, err
	}
	return doc, a.extractor.Profile(doc), nil
}

// MatchJobDescription compares a résumé with a job description, using the
// assistant when allowed and the rule-based matcher otherwise.
func (a *Analyzer) MatchJobDescription(ctx context.Context, resumeText, jobDescription, role string, useAssistant bool) (model.JDMatchResult, error) {
	if err := ValidateText(resumeText); err != nil {
		return model.JDMatchResult{}, err
	}
	if err := ValidateText(jobDescription); err != nil {
		return model.JDMatchResult{}, fmt.Errorf("job description: %w", err)
	}
	resumeText = textnorm.CleanLines(resumeText)
	jobDescription = textnorm.CleanLines(jobDescription)

	if a.assistant != nil && useAssistant {
		raw, err := a.assistant.MatchJobDescription(ctx, resumeText, jobDescription, role)
		if err == nil {
			if res, ok := improve.JDMatchFromLoose(raw); ok {
				res.Role = "Not specified"
				if role != "" {
					res.Role = a.scorer.Roles().NormalizeRole(role)
				}
				return res, nil
			}
			err = ErrMalformedResponse
		}
		log.Warn().Err(err).Str("op", "jd_match").Msg("Assistant unavailable, using rule-based match")
	}

	return a.scorer.MatchJobDescription(resumeText, jobDescription, role), nil
}

// Rewrite produces a role-targeted rewrite. An empty level is inferred from
// the résumé's seniority signals.
func (a *Analyzer) Rewrite(ctx context.Context, text, role, level string, useAssistant bool) (model.RewriteResult, error) {
	cleaned, _, err := a.prepare(text)
	if err != nil {
		return model.RewriteResult{}, err
	}
	if level == "" {
		level = a.extractor.Seniority(cleaned).Level
	}
	ats := a.scorer.ATS(cleaned, role)

	if a.assistant != nil && useAssistant {
		raw, err := a.assistant.RewriteResume(ctx, cleaned, ats.Role, level)
		if err == nil {
			if res, ok := improve.RewriteFromLoose(raw); ok {
				res.Role = ats.Role
				res.OriginalRole = role
				return res, nil
			}
			err = ErrMalformedResponse
		}
		log.Warn().Err(err).Str("op", "rewrite").Msg("Assistant unavailable, using rule-based rewrite")
	}

	return a.rewriter.Rewrite(cleaned, role, level, ats), nil
}

// improvements asks the assistant when allowed and substitutes the
// rule-based generator on any failure.
func (a *Analyzer) improvements(ctx context.Context, text string, ats model.ATSResult, useAssistant bool) model.Improvements {
	if a.assistant != nil && useAssistant {
		raw, err := a.assistant.ImproveResume(ctx, text, ats.Role, ats)
		if err == nil {
			if imp, ok := improve.FromLoose(raw); ok {
				return imp
			}
			err = ErrMalformedResponse
		}
		log.Warn().Err(err).Str("op", "improve").Msg("Assistant unavailable, using rule-based improvements")
	}
	return a.generator.Generate(text, ats.Role, ats)
}

// CacheKey identifies an analysis of text for role. It changes whenever the
// text, the requested role, its normalized form or cacheVersion changes.
func (a *Analyzer) CacheKey(text, role string) string {
	return cacheKey(text, role, a.scorer.Roles().NormalizeRole(role))
}

func cacheKey(text, role, normalized string) string {
	sum := sha256.Sum256([]byte(cacheVersion + "::" + text + "::" + role + "::" + normalized))
	return hex.EncodeToString(sum[:])
}

// Roles returns the role table the analyzer scores against
func (a *Analyzer) Roles() *scoring.RoleTable {
	return a.scorer.Roles()
}
