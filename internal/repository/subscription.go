package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourusername/resumeiq-api/internal/model"
)

// SubscriptionRepo reads plan data. Rows are written by the billing system.
type SubscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *SubscriptionRepo {
	return &SubscriptionRepo{pool: pool}
}

// FindByUserID returns the subscription for a user, or nil when there is none
func (r *SubscriptionRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Subscription, error) {
	var s model.Subscription
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, plan, status, current_period_end, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1
	`, userID).Scan(
		&s.ID, &s.UserID, &s.Plan, &s.Status, &s.CurrentPeriodEnd,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding subscription by user: %w", err)
	}
	return &s, nil
}

// PlanFor returns the plan currently in effect for a user
func (r *SubscriptionRepo) PlanFor(ctx context.Context, userID uuid.UUID) (string, error) {
	sub, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return model.PlanFree, err
	}
	return sub.EffectivePlan(), nil
}
