package controllers

import (
	"net/http"

	"hotel-frontdesk/access"
	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"

	"github.com/gin-gonic/gin"
)

type RoleController struct {
	Capabilities *services.CapabilityService
}

func NewRoleController(capabilities *services.CapabilityService) *RoleController {
	return &RoleController{Capabilities: capabilities}
}

type rolePermissionsPayload struct {
	Permissions []string `json:"permissions"`
}

// GET /api/roles
func (rc *RoleController) GetRoles(c *gin.Context) {
	roles, err := rc.Capabilities.ListRoles(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"roles":   roles,
		"modules": access.Modules,
	})
}

// PUT /api/roles/:id/permissions. :id may be the numeric id or the role name.
func (rc *RoleController) UpdateRolePermissions(c *gin.Context) {
	var payload rolePermissionsPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	ops, err := rc.Capabilities.SetPermissions(c.Request.Context(), c.Param("id"), payload.Permissions)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "permissions updated", "permissions": ops})
}
