package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yourusername/resumeiq-api/internal/model"
)

var (
	// ErrAssistantDisabled is returned when no API key is configured
	ErrAssistantDisabled = errors.New("assistant not configured")
	// ErrMalformedResponse marks assistant output that could not be used
	ErrMalformedResponse = errors.New("malformed assistant response")
)

// Assistant is the optional language-model collaborator. Every method
// returns the decoded JSON object; callers validate it and fall back to the
// rule-based generators on any error.
type Assistant interface {
	ImproveResume(ctx context.Context, resumeText, role string, ats model.ATSResult) (map[string]any, error)
	MatchJobDescription(ctx context.Context, resumeText, jobDescription, role string) (map[string]any, error)
	RewriteResume(ctx context.Context, resumeText, role, level string) (map[string]any, error)
}

const DefaultClaudeModel = "claude-sonnet-4-5-20250929"

// ClaudeClient wraps the Anthropic Messages API. Calls are spaced at least
// minInterval apart across all goroutines.
type ClaudeClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	limiter *rate.Limiter
}

func NewClaudeClient(apiKey, baseURL, model string, minInterval time.Duration) *ClaudeClient {
	if model == "" {
		model = DefaultClaudeModel
	}
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &ClaudeClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// ── Anthropic API request/response types ──────────────

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	System      string          `json:"system,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// complete sends one system/user exchange and decodes the reply as a JSON
// object.
func (c *ClaudeClient) complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (map[string]any, error) {
	if c.apiKey == "" {
		return nil, ErrAssistantDisabled
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for assistant slot: %w", err)
	}

	jsonBody, err := json.Marshal(claudeRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		System:      system,
		Messages:    []claudeMessage{{Role: "user", Content: user}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var claudeResp claudeResponse
	if err := json.Unmarshal(body, &claudeResp); err != nil {
		return nil, fmt.Errorf("parsing Claude response: %w", err)
	}

	if len(claudeResp.Content) == 0 {
		return nil, fmt.Errorf("empty response from Claude: %w", ErrMalformedResponse)
	}

	text := stripCodeFences(strings.TrimSpace(claudeResp.Content[0].Text))

	var result map[string]any
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if result == nil {
		return nil, ErrMalformedResponse
	}
	return result, nil
}

// ── Improvements ──────────────────────────────────────

const improveSystemPrompt = `You are a resume intelligence engine used by an ATS and career-coaching platform.

Think like an ATS, a technical recruiter and a hiring manager.

Rules:
- Do NOT exaggerate experience
- Do NOT invent companies, certifications or skills
- Be honest but constructive
- Keep recommendations realistic for the candidate's current level

Respond with ONLY a JSON object (no markdown, no backticks, no explanation):
{
  "summary": "Role-focused professional summary",
  "strengths": ["skill or quality"],
  "weaknesses": ["gap"],
  "skills_to_add": ["skill"],
  "skill_phrases": ["Proficient in ..."],
  "experience_bullets": ["Rewritten bullet with action verb and impact"],
  "projects": [
    {"title": "string", "description": "string", "tech_stack": ["string"], "impact_bullets": ["string"]}
  ],
  "formatting_tips": ["string"],
  "action_items": ["string"]
}

Limits: at most 6 strengths, weaknesses and skills_to_add; 8 skill_phrases; 5 experience_bullets; 2 projects; 5 action_items.`

func (c *ClaudeClient) ImproveResume(ctx context.Context, resumeText, role string, ats model.ATSResult) (map[string]any, error) {
	user := fmt.Sprintf(
		"Current role focus: %s\nATS score: %d\nMatched skills: %s\nMissing skills: %s\n\nResume text:\n\"\"\"%s\"\"\"",
		role, ats.Score,
		strings.Join(ats.MatchedSkills[:min(len(ats.MatchedSkills), 10)], ", "),
		strings.Join(ats.MissingSkills[:min(len(ats.MissingSkills), 10)], ", "),
		resumeText,
	)
	return c.complete(ctx, improveSystemPrompt, user, 2500, 0.3)
}

// ── Job description match ─────────────────────────────

const jdMatchSystemPrompt = `You are an Applicant Tracking System used by large software companies.

Compare a resume with a job description. Identify skill, tool and responsibility overlap, score the match realistically (do not inflate) and highlight missing critical requirements.

Rules:
- Do not fabricate skills
- Do not assume experience that is not stated
- Be strict but fair

Respond with ONLY a JSON object (no markdown, no backticks):
{
  "ats_match_score": 78,
  "role_fit": "Strong | Moderate | Weak | Poor",
  "matched_skills": ["python"],
  "missing_skills": ["docker"],
  "ats_improvement_suggestions": ["Add Docker usage in projects"]
}`

func (c *ClaudeClient) MatchJobDescription(ctx context.Context, resumeText, jobDescription, role string) (map[string]any, error) {
	user := fmt.Sprintf("Target role: %s\n\nResume:\n\"\"\"%s\"\"\"\n\nJob Description:\n\"\"\"%s\"\"\"",
		role, resumeText, jobDescription)
	return c.complete(ctx, jdMatchSystemPrompt, user, 1500, 0.2)
}

// ── Rewrite ───────────────────────────────────────────

const rewriteSystemPrompt = `You are a senior technical recruiter and ATS optimization expert. You rewrite resumes for software industry roles.

Rules:
- Never fabricate experience
- Never exaggerate skills
- Never add companies or certifications not mentioned
- Use action verbs and quantified impact when possible
- Keep content realistic for the candidate's level

Respond with ONLY a JSON object (no markdown, no backticks):
{
  "rewritten_summary": "string",
  "rewritten_experience": ["bullet"],
  "rewritten_projects": [
    {"title": "string", "description": "string", "tech_stack": ["string"], "impact": ["string"]}
  ],
  "rewritten_skills": {"languages": ["string"], "frameworks": ["string"], "databases": ["string"], "tools": ["string"], "other": ["string"]},
  "ats_keywords_added": ["string"]
}`

func (c *ClaudeClient) RewriteResume(ctx context.Context, resumeText, role, level string) (map[string]any, error) {
	user := fmt.Sprintf("Target role: %s\nCandidate level: %s\nDo NOT add fake experience.\n\nResume text:\n%s",
		role, level, resumeText)
	return c.complete(ctx, rewriteSystemPrompt, user, 2500, 0.25)
}

// stripCodeFences removes markdown ```json ... ``` wrappers
func stripCodeFences(text string) string {
	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx != -1 {
			text = text[idx+1:]
		}
		if idx := strings.LastIndex(text, "```"); idx != -1 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	return text
}
