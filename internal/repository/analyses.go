package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourusername/resumeiq-api/internal/model"
)

// AnalysisRepo stores analysis history. The (user_id, cache_key) pair is
// unique, so it doubles as a per-user result cache.
type AnalysisRepo struct {
	pool *pgxpool.Pool
}

func NewAnalysisRepo(pool *pgxpool.Pool) *AnalysisRepo {
	return &AnalysisRepo{pool: pool}
}

// Save stores an analysis for a user, replacing any earlier result with the
// same cache key.
func (r *AnalysisRepo) Save(ctx context.Context, userID uuid.UUID, filename string, a *model.Analysis) (*model.AnalysisRecord, error) {
	result, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encoding analysis: %w", err)
	}

	rec := model.AnalysisRecord{
		UserID:       userID,
		CacheKey:     a.CacheKey,
		Filename:     filename,
		Role:         a.Role,
		ATSScore:     a.ATS.Score,
		QualityScore: a.Quality.OverallScore,
		Strength:     a.Strength.Score,
		FallbackUsed: a.FallbackUsed,
		Result:       a,
	}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO analyses (id, user_id, cache_key, filename, role, ats_score, quality_score,
		                      strength, fallback_used, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, cache_key) DO UPDATE
		SET filename = $4, role = $5, ats_score = $6, quality_score = $7,
		    strength = $8, fallback_used = $9, result = $10, created_at = now()
		RETURNING id, created_at
	`, uuid.New(), rec.UserID, rec.CacheKey, rec.Filename, rec.Role, rec.ATSScore,
		rec.QualityScore, rec.Strength, rec.FallbackUsed, result,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("saving analysis: %w", err)
	}
	return &rec, nil
}

// FindByCacheKey returns a stored analysis, or nil when none exists
func (r *AnalysisRepo) FindByCacheKey(ctx context.Context, userID uuid.UUID, cacheKey string) (*model.Analysis, error) {
	var result []byte
	err := r.pool.QueryRow(ctx, `
		SELECT result FROM analyses WHERE user_id = $1 AND cache_key = $2
	`, userID, cacheKey).Scan(&result)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding analysis by cache key: %w", err)
	}

	var a model.Analysis
	if err := json.Unmarshal(result, &a); err != nil {
		return nil, fmt.Errorf("decoding stored analysis: %w", err)
	}
	return &a, nil
}

// ListByUser returns a user's analyses newest first, without the full result
func (r *AnalysisRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.AnalysisRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, cache_key, filename, role, ats_score, quality_score,
		       strength, fallback_used, created_at
		FROM analyses
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	defer rows.Close()

	records := []model.AnalysisRecord{}
	for rows.Next() {
		var rec model.AnalysisRecord
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.CacheKey, &rec.Filename, &rec.Role,
			&rec.ATSScore, &rec.QualityScore, &rec.Strength, &rec.FallbackUsed, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning analysis: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating analyses: %w", err)
	}
	return records, nil
}

// Delete removes one analysis. It reports false when the user owns no such
// record.
func (r *AnalysisRepo) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM analyses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("deleting analysis: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
