package middleware

import (
	"context"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/yourusername/resumeiq-api/internal/model"
)

const (
	// ContextKeyFirebaseUID is the key for the Firebase UID in the Gin context
	ContextKeyFirebaseUID = "firebase_uid"
	// ContextKeyUserID is the key for the internal user UUID in the Gin context
	ContextKeyUserID = "user_id"
	// ContextKeyEmail is the key for the verified email claim
	ContextKeyEmail = "email"
	// ContextKeyPlanClaim is the key for the plan custom claim, if the token carries one
	ContextKeyPlanClaim = "plan_claim"
)

// TokenVerifier checks a Firebase ID token. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthMiddleware validates Firebase ID tokens and injects the UID into context
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware creates a Firebase-backed auth middleware
func NewAuthMiddleware(ctx context.Context, projectID string) (*AuthMiddleware, error) {
	var app *firebase.App
	var err error

	if projectID != "" {
		app, err = firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	} else {
		// Falls back to GOOGLE_APPLICATION_CREDENTIALS or default credentials
		app, err = firebase.NewApp(ctx, nil, option.WithoutAuthentication())
	}
	if err != nil {
		return nil, err
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return NewAuthMiddlewareWithVerifier(client), nil
}

// NewAuthMiddlewareWithVerifier wraps an existing verifier
func NewAuthMiddlewareWithVerifier(v TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: v}
}

// Authenticate is the Gin middleware handler
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing Authorization header",
			})
			return
		}

		// Expect "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid Authorization header format",
			})
			return
		}

		token, err := am.verifier.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			log.Warn().Err(err).Msg("Failed to verify Firebase token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		c.Set(ContextKeyFirebaseUID, token.UID)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set(ContextKeyEmail, email)
		}
		if plan := planClaim(token); plan != "" {
			c.Set(ContextKeyPlanClaim, plan)
		}

		c.Next()
	}
}

// planClaim reads the "plan" custom claim set through the Admin SDK.
// Unknown values are ignored.
func planClaim(token *auth.Token) string {
	plan, _ := token.Claims["plan"].(string)
	switch plan {
	case model.PlanFree, model.PlanPro, model.PlanProPlus:
		return plan
	}
	return ""
}

// GetFirebaseUID extracts the Firebase UID from the Gin context
func GetFirebaseUID(c *gin.Context) string {
	return c.GetString(ContextKeyFirebaseUID)
}

// GetUserID extracts the internal user UUID from the Gin context
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// GetEmail returns the verified email claim, if any
func GetEmail(c *gin.Context) string {
	return c.GetString(ContextKeyEmail)
}

// GetPlanClaim returns the plan custom claim from the verified token, if any
func GetPlanClaim(c *gin.Context) string {
	return c.GetString(ContextKeyPlanClaim)
}
