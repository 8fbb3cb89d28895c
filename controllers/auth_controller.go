package controllers

import (
	"net/http"
	"time"

	"hotel-frontdesk/access"
	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	Auth   *services.AuthService
	Table  *access.Table
	Secret string
	TTL    time.Duration
}

func NewAuthController(auth *services.AuthService, table *access.Table, secret string, ttl time.Duration) *AuthController {
	return &AuthController{Auth: auth, Table: table, Secret: secret, TTL: ttl}
}

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	admin, err := ac.Auth.Authenticate(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		log.Warn().Str("username", payload.Username).Msg("login failed")
		respondServiceError(c, err)
		return
	}

	role := admin.PrimaryRole()
	token, exp, err := utils.NewAccessToken(ac.Secret, admin.ID, admin.Username, role, ac.TTL)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	permissions := ac.Table.Operations(role)
	if role == access.OwnerRole {
		permissions = access.AllOperations()
	}

	log.Info().Uint("admin_id", admin.ID).Str("role", role).Msg("login")
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token":       token,
		"expiresAt":   exp,
		"role":        role,
		"permissions": permissions,
		"user": gin.H{
			"id":       admin.ID,
			"fullName": admin.FullName,
			"username": admin.Username,
		},
	})
}
