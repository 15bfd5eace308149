package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/resumeiq-api/internal/middleware"
	"github.com/yourusername/resumeiq-api/internal/model"
	"github.com/yourusername/resumeiq-api/internal/scoring"
	"github.com/yourusername/resumeiq-api/internal/service"
)

const sampleResume = `Jane Doe
jane@example.com

SKILLS
Python, Go, Docker, SQL, REST API

EXPERIENCE
Backend Engineer at Acme Corp
Jan 2021 - Present
- Developed REST API services in Go handling 2M requests per day

EDUCATION
B.Tech in Computer Science, MIT, 2016 - 2020`

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Fakes ─────────────────────────────────────────────

type fakeStore struct {
	mu        sync.Mutex
	saved     map[string]*model.Analysis
	saves     int
	listLimit int
	deletable uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: map[string]*model.Analysis{}}
}

func (s *fakeStore) Save(_ context.Context, userID uuid.UUID, filename string, a *model.Analysis) (*model.AnalysisRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.saved[a.CacheKey] = a
	return &model.AnalysisRecord{ID: uuid.New(), UserID: userID, CacheKey: a.CacheKey, Filename: filename}, nil
}

func (s *fakeStore) FindByCacheKey(_ context.Context, _ uuid.UUID, key string) (*model.Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[key], nil
}

func (s *fakeStore) ListByUser(_ context.Context, _ uuid.UUID, limit int) ([]model.AnalysisRecord, error) {
	s.listLimit = limit
	return []model.AnalysisRecord{}, nil
}

func (s *fakeStore) Delete(_ context.Context, _ uuid.UUID, id uuid.UUID) (bool, error) {
	return id == s.deletable, nil
}

type fakeUsers struct {
	user    *model.User
	created *model.User
	role    string
}

func (f *fakeUsers) FindByID(context.Context, uuid.UUID) (*model.User, error) {
	return f.user, nil
}

func (f *fakeUsers) FindByFirebaseUID(context.Context, string) (*model.User, error) {
	return f.user, nil
}

func (f *fakeUsers) Create(_ context.Context, uid, email, name string) (*model.User, error) {
	f.created = &model.User{ID: uuid.New(), FirebaseUID: uid, Email: email, Name: name}
	return f.created, nil
}

func (f *fakeUsers) UpdateTargetRole(_ context.Context, id uuid.UUID, role string) (*model.User, error) {
	f.role = role
	return &model.User{ID: id, TargetRole: role}, nil
}

// ── Helpers ───────────────────────────────────────────

func newAnalyzer() *service.Analyzer {
	return service.NewAnalyzer(nil, nil, service.WithClock(func() time.Time {
		return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	}))
}

// signedIn sets the identity the auth middleware would normally provide
func signedIn(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyFirebaseUID, "uid-1")
		c.Set(middleware.ContextKeyEmail, "jane@example.com")
		c.Set(middleware.ContextKeyUserID, userID.String())
		c.Set(middleware.ContextKeyPlan, model.PlanFree)
	}
}

func newRouter(h *ResumeHandler, userID uuid.UUID) *gin.Engine {
	r := gin.New()
	g := r.Group("/resume", signedIn(userID))
	g.POST("/upload", h.Upload)
	g.POST("/analyze", h.Analyze)
	g.POST("/batch", h.Batch)
	g.POST("/parse", h.Parse)
	g.POST("/jd-match", h.JDMatch)
	g.POST("/rewrite", h.Rewrite)
	g.GET("/history", h.History)
	g.DELETE("/history/:id", h.DeleteHistory)
	return r
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type analyzeResponse struct {
	Analysis struct {
		CacheKey     string `json:"cacheKey"`
		Role         string `json:"role"`
		OriginalRole string `json:"originalRole"`
		FallbackUsed bool   `json:"fallbackUsed"`
		ATS          struct {
			Score int `json:"score"`
		} `json:"ats"`
	} `json:"analysis"`
	Cached bool `json:"cached"`
}

// ── Resume ────────────────────────────────────────────

func TestAnalyzeCachesResult(t *testing.T) {
	store := newFakeStore()
	r := newRouter(NewResumeHandler(newAnalyzer(), store, nil), uuid.New())

	w := postJSON(r, "/resume/analyze", gin.H{"resumeText": sampleResume, "role": "backend"})
	require.Equal(t, http.StatusOK, w.Code)

	var first analyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.False(t, first.Cached)
	assert.Equal(t, "Backend Developer", first.Analysis.Role)
	assert.True(t, first.Analysis.FallbackUsed)
	assert.Equal(t, 1, store.saves)

	w = postJSON(r, "/resume/analyze", gin.H{"resumeText": sampleResume, "role": "backend"})
	require.Equal(t, http.StatusOK, w.Code)

	var second analyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.True(t, second.Cached)
	assert.Equal(t, first.Analysis.CacheKey, second.Analysis.CacheKey)
	assert.Equal(t, first.Analysis.ATS.Score, second.Analysis.ATS.Score)
	assert.Equal(t, 1, store.saves)
}

func TestAnalyzeUsesTargetRole(t *testing.T) {
	users := &fakeUsers{user: &model.User{TargetRole: "DevOps Engineer"}}
	r := newRouter(NewResumeHandler(newAnalyzer(), newFakeStore(), users), uuid.New())

	w := postJSON(r, "/resume/analyze", gin.H{"resumeText": sampleResume})
	require.Equal(t, http.StatusOK, w.Code)

	var res analyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "DevOps Engineer", res.Analysis.OriginalRole)
}

func TestAnalyzeInputErrors(t *testing.T) {
	r := newRouter(NewResumeHandler(newAnalyzer(), newFakeStore(), nil), uuid.New())

	tests := []struct {
		name string
		body any
		want int
	}{
		{"missing text", gin.H{"role": "backend"}, http.StatusBadRequest},
		{"blank text", gin.H{"resumeText": "   \n\t"}, http.StatusUnprocessableEntity},
		{"binary text", gin.H{"resumeText": "PK\x00\x03"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/resume/analyze", tt.body)
			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestAnalyzeUnauthenticated(t *testing.T) {
	h := NewResumeHandler(newAnalyzer(), newFakeStore(), nil)
	r := gin.New()
	r.POST("/resume/analyze", h.Analyze)

	w := postJSON(r, "/resume/analyze", gin.H{"resumeText": sampleResume})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadRejectsNonPDF(t *testing.T) {
	r := newRouter(NewResumeHandler(newAnalyzer(), newFakeStore(), nil), uuid.New())

	tests := []struct {
		name     string
		filename string
		content  string
		wantErr  string
	}{
		{"wrong extension", "resume.docx", "%PDF-1.4", "Only PDF files are supported"},
		{"bad magic", "resume.pdf", "hello world", "Invalid PDF file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body bytes.Buffer
			mw := multipart.NewWriter(&body)
			fw, err := mw.CreateFormFile("file", tt.filename)
			require.NoError(t, err)
			_, err = fw.Write([]byte(tt.content))
			require.NoError(t, err)
			require.NoError(t, mw.Close())

			req := httptest.NewRequest(http.MethodPost, "/resume/upload", &body)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantErr)
		})
	}
}

func TestBatch(t *testing.T) {
	r := newRouter(NewResumeHandler(newAnalyzer(), newFakeStore(), nil), uuid.New())

	w := postJSON(r, "/resume/batch", gin.H{"resumes": []gin.H{
		{"resumeText": sampleResume, "role": "backend"},
		{"resumeText": sampleResume, "role": "devops"},
	}})
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Analyses []struct {
			OriginalRole string `json:"originalRole"`
		} `json:"analyses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Analyses, 2)
	assert.Equal(t, "backend", res.Analyses[0].OriginalRole)
	assert.Equal(t, "devops", res.Analyses[1].OriginalRole)

	tooMany := make([]gin.H, maxBatchSize+1)
	for i := range tooMany {
		tooMany[i] = gin.H{"resumeText": sampleResume}
	}
	assert.Equal(t, http.StatusBadRequest, postJSON(r, "/resume/batch", gin.H{"resumes": tooMany}).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(r, "/resume/batch", gin.H{"resumes": []gin.H{}}).Code)
}

func TestParse(t *testing.T) {
	r := newRouter(NewResumeHandler(newAnalyzer(), newFakeStore(), nil), uuid.New())

	w := postJSON(r, "/resume/parse", gin.H{"resumeText": sampleResume})
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Sections map[string]json.RawMessage `json:"sections"`
		Profile  model.ResumeProfile        `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Contains(t, res.Sections, "skills")
	assert.Contains(t, res.Sections, "experience")
	require.NotEmpty(t, res.Profile.Experience)
	assert.Equal(t, "Acme Corp", res.Profile.Experience[0].Company)
}

func TestJDMatch(t *testing.T) {
	r := newRouter(NewResumeHandler(newAnalyzer(), newFakeStore(), nil), uuid.New())

	w := postJSON(r, "/resume/jd-match", gin.H{
		"resumeText":     sampleResume,
		"jobDescription": "We need Go, Docker and Kubernetes",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var res model.JDMatchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, []string{"docker", "go"}, res.MatchedSkills)
	assert.Equal(t, []string{"kubernetes"}, res.MissingSkills)
	assert.True(t, res.FallbackUsed)

	w = postJSON(r, "/resume/jd-match", gin.H{"resumeText": sampleResume})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRewrite(t *testing.T) {
	r := newRouter(NewResumeHandler(newAnalyzer(), newFakeStore(), nil), uuid.New())

	w := postJSON(r, "/resume/rewrite", gin.H{"resumeText": sampleResume, "role": "backend", "level": "Senior"})
	require.Equal(t, http.StatusOK, w.Code)

	var res model.RewriteResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "Backend Developer", res.Role)
	assert.NotEmpty(t, res.Summary)
	assert.True(t, res.FallbackUsed)
}

func TestHistory(t *testing.T) {
	store := newFakeStore()
	r := newRouter(NewResumeHandler(newAnalyzer(), store, nil), uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/resume/history?limit=500", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, maxHistory, store.listLimit)
	assert.JSONEq(t, `{"analyses":[]}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/resume/history", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, defaultHistory, store.listLimit)
}

func TestDeleteHistory(t *testing.T) {
	store := newFakeStore()
	store.deletable = uuid.New()
	r := newRouter(NewResumeHandler(newAnalyzer(), store, nil), uuid.New())

	tests := []struct {
		name string
		id   string
		want int
	}{
		{"invalid id", "nope", http.StatusBadRequest},
		{"unknown id", uuid.New().String(), http.StatusNotFound},
		{"owned id", store.deletable.String(), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/resume/history/"+tt.id, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCapRunes(t *testing.T) {
	assert.Equal(t, "héll", capRunes("héllo", 4))
	assert.Equal(t, "abc", capRunes("abc", 10))
}

// ── Auth & profile ────────────────────────────────────

func TestGoogleSignInCreatesUser(t *testing.T) {
	users := &fakeUsers{}
	r := gin.New()
	r.POST("/auth/google", signedIn(uuid.New()), NewAuthHandler(users).GoogleSignIn)

	w := postJSON(r, "/auth/google", gin.H{"name": "Jane Doe"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, users.created)
	assert.Equal(t, "uid-1", users.created.FirebaseUID)
	assert.Equal(t, "jane@example.com", users.created.Email)
	assert.Equal(t, "Jane Doe", users.created.Name)
	assert.NotContains(t, w.Body.String(), "uid-1")
}

func TestGoogleSignInExistingUser(t *testing.T) {
	users := &fakeUsers{user: &model.User{ID: uuid.New(), Email: "jane@example.com"}}
	r := gin.New()
	r.POST("/auth/google", signedIn(uuid.New()), NewAuthHandler(users).GoogleSignIn)

	w := postJSON(r, "/auth/google", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, users.created)
}

func TestUpdateTargetRole(t *testing.T) {
	users := &fakeUsers{}
	h := NewProfileHandler(users, nil)
	r := gin.New()
	r.PUT("/profile/role", signedIn(uuid.New()), h.UpdateTargetRole)

	req := func(body any) *httptest.ResponseRecorder {
		data, _ := json.Marshal(body)
		rq := httptest.NewRequest(http.MethodPut, "/profile/role", bytes.NewReader(data))
		rq.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, rq)
		return w
	}

	w := req(gin.H{"role": "senior backend"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, scoring.DefaultRoles().NormalizeRole("senior backend"), users.role)

	assert.Equal(t, http.StatusBadRequest, req(gin.H{"role": "  "}).Code)
}

func TestGetRoles(t *testing.T) {
	r := gin.New()
	r.GET("/roles", NewProfileHandler(&fakeUsers{}, nil).GetRoles)

	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Backend Developer")
}
