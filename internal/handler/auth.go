package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/resumeiq-api/internal/middleware"
	"github.com/yourusername/resumeiq-api/internal/model"
	"github.com/yourusername/resumeiq-api/internal/scoring"
)

// UserStore is the subset of the user repository the handlers need
type UserStore interface {
	UserLookup
	FindByFirebaseUID(ctx context.Context, firebaseUID string) (*model.User, error)
	Create(ctx context.Context, firebaseUID, email, name string) (*model.User, error)
	UpdateTargetRole(ctx context.Context, id uuid.UUID, role string) (*model.User, error)
}

type AuthHandler struct {
	users UserStore
}

func NewAuthHandler(users UserStore) *AuthHandler {
	return &AuthHandler{users: users}
}

// GoogleSignIn handles POST /auth/google
// Creates or fetches a user based on Firebase token
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	firebaseUID := middleware.GetFirebaseUID(c)
	if firebaseUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	user, err := h.users.FindByFirebaseUID(c.Request.Context(), firebaseUID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to look up user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	if user == nil {
		var req struct {
			Name string `json:"name"`
		}
		// The body is optional; a missing name is stored as empty
		_ = c.ShouldBindJSON(&req)

		user, err = h.users.Create(c.Request.Context(), firebaseUID, middleware.GetEmail(c), req.Name)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
			return
		}
		log.Info().Str("uid", firebaseUID).Msg("New user created")
	}

	c.JSON(http.StatusOK, user)
}

// ProfileHandler serves the signed-in user's profile and target role
type ProfileHandler struct {
	users UserStore
	roles *scoring.RoleTable
}

func NewProfileHandler(users UserStore, roles *scoring.RoleTable) *ProfileHandler {
	if roles == nil {
		roles = scoring.DefaultRoles()
	}
	return &ProfileHandler{users: users, roles: roles}
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	user, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "plan": middleware.GetPlan(c)})
}

// UpdateTargetRole handles PUT /profile/role
// The role is normalized before it is stored
func (h *ProfileHandler) UpdateTargetRole(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Role) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role is required"})
		return
	}

	updated, err := h.users.UpdateTargetRole(c.Request.Context(), userID, h.roles.NormalizeRole(req.Role))
	if err != nil {
		log.Error().Err(err).Msg("Failed to update target role")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update target role"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// GetRoles returns the roles with a skill table
// GET /roles
func (h *ProfileHandler) GetRoles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"roles": h.roles.Roles()})
}

// getUserID extracts and parses the user UUID from context
func getUserID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(middleware.GetUserID(c))
}
