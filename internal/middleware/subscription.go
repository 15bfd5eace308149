package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/resumeiq-api/internal/model"
)

// ContextKeyPlan is the key for the resolved subscription plan in the Gin context
const ContextKeyPlan = "plan"

// PlanLookup returns the plan currently in effect for a user
type PlanLookup interface {
	PlanFor(ctx context.Context, userID uuid.UUID) (string, error)
}

// ResolvePlan stores the caller's effective plan in the context. The stored
// subscription wins; the token's plan claim is used only when there is no
// lookup or it fails, and free otherwise.
func ResolvePlan(plans PlanLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		plan := model.PlanFree
		if claim := GetPlanClaim(c); claim != "" {
			plan = claim
		}
		if userID, err := uuid.Parse(GetUserID(c)); err == nil && plans != nil {
			p, err := plans.PlanFor(c.Request.Context(), userID)
			if err != nil {
				log.Warn().Err(err).Str("userId", userID.String()).Str("fallback", plan).Msg("Failed to resolve plan")
			} else {
				plan = p
			}
		}
		c.Set(ContextKeyPlan, plan)
		c.Next()
	}
}

// RequirePlan aborts with 402 when the resolved plan is below minPlan.
//
// Plan hierarchy: free (0) < pro (1) < pro_plus (2)
func RequirePlan(minPlan string) gin.HandlerFunc {
	minLevel := model.PlanLevel(minPlan)

	return func(c *gin.Context) {
		userPlan := GetPlan(c)
		if model.PlanLevel(userPlan) < minLevel {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"error":        "upgrade_required",
				"requiredPlan": minPlan,
				"currentPlan":  userPlan,
			})
			return
		}
		c.Next()
	}
}

// GetPlan returns the plan set by ResolvePlan, or free when none was set
func GetPlan(c *gin.Context) string {
	if p, ok := c.Get(ContextKeyPlan); ok {
		if s, ok := p.(string); ok && s != "" {
			return s
		}
	}
	return model.PlanFree
}

// HasAssistant reports whether the caller's plan includes the Claude assistant
func HasAssistant(c *gin.Context) bool {
	return model.PlanLevel(GetPlan(c)) >= model.PlanLevel(model.PlanPro)
}
