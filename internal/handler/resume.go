package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/resumeiq-api/internal/middleware"
	"github.com/yourusername/resumeiq-api/internal/model"
	"github.com/yourusername/resumeiq-api/internal/service"
)

const (
	// maxResumeRunes caps pasted résumé text before analysis
	maxResumeRunes = 30000
	// minExtractedText rejects PDFs that are most likely scanned images
	minExtractedText = 50
	maxBatchSize     = 10
	defaultHistory   = 20
	maxHistory       = 100
)

// AnalysisStore persists analyses and serves them back as a per-user cache
type AnalysisStore interface {
	Save(ctx context.Context, userID uuid.UUID, filename string, a *model.Analysis) (*model.AnalysisRecord, error)
	FindByCacheKey(ctx context.Context, userID uuid.UUID, cacheKey string) (*model.Analysis, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.AnalysisRecord, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

// UserLookup supplies the user's saved target role
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type ResumeHandler struct {
	analyzer *service.Analyzer
	store    AnalysisStore
	users    UserLookup
}

func NewResumeHandler(analyzer *service.Analyzer, store AnalysisStore, users UserLookup) *ResumeHandler {
	return &ResumeHandler{analyzer: analyzer, store: store, users: users}
}

// Upload handles POST /resume/upload
// Accepts a PDF via multipart form, extracts its text and analyzes it
func (h *ResumeHandler) Upload(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files are supported"})
		return
	}
	if header.Size > service.MaxPDFSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large. Maximum size is 10MB."})
		return
	}

	fileBytes, err := io.ReadAll(io.LimitReader(file, service.MaxPDFSize+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	text, err := service.ExtractPDFText(fileBytes)
	switch {
	case errors.Is(err, service.ErrNotPDF):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid PDF file"})
		return
	case errors.Is(err, service.ErrPDFTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large. Maximum size is 10MB."})
		return
	case err != nil:
		log.Error().Err(err).Msg("Failed to extract text from PDF")
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Could not extract text from this PDF. It may be image-based or corrupted.",
		})
		return
	}
	if len(text) < minExtractedText {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Very little text was extracted. This PDF may be image-based (scanned). Try a text-based PDF.",
		})
		return
	}

	log.Info().
		Str("filename", header.Filename).
		Int("bytes", len(fileBytes)).
		Int("textLen", len(text)).
		Msg("Resume PDF text extracted")

	h.analyze(c, userID, header.Filename, text, c.PostForm("role"))
}

// Analyze handles POST /resume/analyze
func (h *ResumeHandler) Analyze(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req struct {
		ResumeText string `json:"resumeText" binding:"required"`
		Role       string `json:"role"`
		Filename   string `json:"filename"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resumeText is required"})
		return
	}

	h.analyze(c, userID, req.Filename, req.ResumeText, req.Role)
}

func (h *ResumeHandler) analyze(c *gin.Context, userID uuid.UUID, filename, text, role string) {
	ctx := c.Request.Context()
	text = capRunes(text, maxResumeRunes)
	if role == "" {
		role = h.targetRole(ctx, userID)
	}
	useAssistant := middleware.HasAssistant(c)

	if err := service.ValidateText(text); err != nil {
		respondInputError(c, err)
		return
	}

	key := h.analyzer.CacheKey(text, role)
	if h.store != nil {
		cached, err := h.store.FindByCacheKey(ctx, userID, key)
		if err != nil {
			log.Warn().Err(err).Msg("Analysis cache lookup failed")
		}
		// A fallback result is not reused when the assistant could do better
		if cached != nil && (!useAssistant || !cached.FallbackUsed) {
			c.JSON(http.StatusOK, gin.H{"analysis": cached, "cached": true})
			return
		}
	}

	analysis, err := h.analyzer.Analyze(ctx, service.AnalyzeRequest{
		Text:         text,
		Role:         role,
		UseAssistant: useAssistant,
	})
	if err != nil {
		respondInputError(c, err)
		return
	}

	if h.store != nil {
		if _, err := h.store.Save(ctx, userID, filename, analysis); err != nil {
			log.Error().Err(err).Str("userId", userID.String()).Msg("Failed to save analysis")
		}
	}

	log.Info().
		Str("userId", userID.String()).
		Str("role", analysis.Role).
		Int("ats", analysis.ATS.Score).
		Int("quality", analysis.Quality.OverallScore).
		Bool("fallback", analysis.FallbackUsed).
		Msg("Resume analyzed")

	c.JSON(http.StatusOK, gin.H{"analysis": analysis, "cached": false})
}

// Batch handles POST /resume/batch
func (h *ResumeHandler) Batch(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req struct {
		Resumes []struct {
			ResumeText string `json:"resumeText"`
			Role       string `json:"role"`
		} `json:"resumes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Resumes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resumes is required"})
		return
	}
	if len(req.Resumes) > maxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At most " + strconv.Itoa(maxBatchSize) + " resumes per batch"})
		return
	}

	useAssistant := middleware.HasAssistant(c)
	reqs := make([]service.AnalyzeRequest, len(req.Resumes))
	for i, r := range req.Resumes {
		reqs[i] = service.AnalyzeRequest{
			Text:         capRunes(r.ResumeText, maxResumeRunes),
			Role:         r.Role,
			UseAssistant: useAssistant,
		}
	}

	results, err := h.analyzer.AnalyzeBatch(c.Request.Context(), reqs)
	if err != nil {
		respondInputError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": results})
}

// Parse handles POST /resume/parse
func (h *ResumeHandler) Parse(c *gin.Context) {
	var req struct {
		ResumeText string `json:"resumeText" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resumeText is required"})
		return
	}

	doc, profile, err := h.analyzer.Parse(capRunes(req.ResumeText, maxResumeRunes))
	if err != nil {
		respondInputError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": doc, "profile": profile})
}

// JDMatch handles POST /resume/jd-match
func (h *ResumeHandler) JDMatch(c *gin.Context) {
	var req struct {
		ResumeText     string `json:"resumeText" binding:"required"`
		JobDescription string `json:"jobDescription" binding:"required"`
		Role           string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resumeText and jobDescription are required"})
		return
	}

	res, err := h.analyzer.MatchJobDescription(c.Request.Context(),
		capRunes(req.ResumeText, maxResumeRunes), capRunes(req.JobDescription, maxResumeRunes),
		req.Role, middleware.HasAssistant(c))
	if err != nil {
		respondInputError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Rewrite handles POST /resume/rewrite
func (h *ResumeHandler) Rewrite(c *gin.Context) {
	var req struct {
		ResumeText string `json:"resumeText" binding:"required"`
		Role       string `json:"role"`
		Level      string `json:"level"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resumeText is required"})
		return
	}

	res, err := h.analyzer.Rewrite(c.Request.Context(), capRunes(req.ResumeText, maxResumeRunes),
		req.Role, req.Level, middleware.HasAssistant(c))
	if err != nil {
		respondInputError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// History handles GET /resume/history
func (h *ResumeHandler) History(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	limit := defaultHistory
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = min(l, maxHistory)
	}

	records, err := h.store.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list analyses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": records})
}

// DeleteHistory handles DELETE /resume/history/:id
func (h *ResumeHandler) DeleteHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid analysis ID"})
		return
	}

	deleted, err := h.store.Delete(c.Request.Context(), userID, id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to delete analysis")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete analysis"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// targetRole returns the user's saved role, or "" to let the analyzer predict one
func (h *ResumeHandler) targetRole(ctx context.Context, userID uuid.UUID) string {
	if h.users == nil {
		return ""
	}
	user, err := h.users.FindByID(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load target role")
		return ""
	}
	if user == nil {
		return ""
	}
	return user.TargetRole
}

// respondInputError maps pipeline errors to HTTP statuses
func respondInputError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotText):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Input must be UTF-8 text"})
	case errors.Is(err, service.ErrEmptyText):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Input text is empty"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Request cancelled"})
	default:
		log.Error().Err(err).Msg("Resume pipeline failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

func capRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
