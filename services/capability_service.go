package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"hotel-frontdesk/access"
	"hotel-frontdesk/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CapabilityService keeps the in-memory capability table in step with the
// role_permissions table.
type CapabilityService struct {
	DB    *gorm.DB
	Table *access.Table
}

func NewCapabilityService(db *gorm.DB, table *access.Table) *CapabilityService {
	if table == nil {
		table = access.NewTable(nil)
	}
	return &CapabilityService{DB: db, Table: table}
}

type RoleMemberView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type RoleView struct {
	ID          uint                       `json:"id"`
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Permissions map[string]map[string]bool `json:"permissions"`
	Members     []RoleMemberView           `json:"members"`
}

func emptyPermissionGrid() map[string]map[string]bool {
	grid := map[string]map[string]bool{}
	for module, actions := range access.Modules {
		grid[module] = map[string]bool{}
		for _, action := range actions {
			grid[module][action] = false
		}
	}
	return grid
}

func tags(perms []models.RolePermission) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, p.Permission)
	}
	return out
}

// Reload replaces the table contents with what is stored.
func (s *CapabilityService) Reload(ctx context.Context) error {
	var roles []models.Role
	if err := s.DB.WithContext(ctx).Preload("Permissions").Find(&roles).Error; err != nil {
		return fmt.Errorf("load roles: %w", err)
	}
	for _, role := range roles {
		s.Table.Set(role.Name, tags(role.Permissions))
	}
	log.Info().Int("roles", len(roles)).Msg("capability table loaded")
	return nil
}

func (s *CapabilityService) ListRoles(ctx context.Context) ([]RoleView, error) {
	var roles []models.Role
	if err := s.DB.WithContext(ctx).Preload("Permissions").Preload("Members").Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}

	out := make([]RoleView, 0, len(roles))
	for _, role := range roles {
		grid := emptyPermissionGrid()
		for _, perm := range role.Permissions {
			module, action, ok := strings.Cut(perm.Permission, ".")
			if !ok {
				continue
			}
			if _, known := grid[module]; !known {
				grid[module] = map[string]bool{}
			}
			grid[module][action] = true
		}

		members := make([]RoleMemberView, 0, len(role.Members))
		for _, admin := range role.Members {
			members = append(members, RoleMemberView{ID: admin.ID, Name: admin.FullName, Email: admin.Username})
		}

		out = append(out, RoleView{
			ID:          role.ID,
			Name:        role.Name,
			Description: role.Description,
			Permissions: grid,
			Members:     members,
		})
	}
	return out, nil
}

func (s *CapabilityService) findRole(ctx context.Context, idOrName string) (models.Role, error) {
	var role models.Role
	idOrName = strings.TrimSpace(idOrName)

	q := s.DB.WithContext(ctx)
	var err error
	if id, perr := strconv.ParseUint(idOrName, 10, 64); perr == nil && id > 0 {
		err = q.First(&role, id).Error
	} else {
		err = q.Where("LOWER(name) = ?", strings.ToLower(idOrName)).First(&role).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return role, ErrRoleNotFound
	}
	return role, err
}

// SetPermissions replaces a role's permission tags and refreshes the table.
// Unknown tags are rejected.
func (s *CapabilityService) SetPermissions(ctx context.Context, idOrName string, permissions []string) ([]string, error) {
	role, err := s.findRole(ctx, idOrName)
	if err != nil {
		return nil, err
	}

	known := map[string]struct{}{}
	for _, op := range access.AllOperations() {
		known[op] = struct{}{}
	}
	seen := map[string]struct{}{}
	clean := make([]string, 0, len(permissions))
	for _, p := range permissions {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := known[p]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPermission, p)
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		clean = append(clean, p)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", role.ID).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		if len(clean) == 0 {
			return nil
		}
		rows := make([]models.RolePermission, 0, len(clean))
		for _, p := range clean {
			rows = append(rows, models.RolePermission{RoleID: role.ID, Permission: p})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	s.Table.Set(role.Name, clean)
	log.Info().Str("role", role.Name).Int("permissions", len(clean)).Msg("role permissions updated")
	return s.Table.Operations(role.Name), nil
}
