// Package access maps staff roles to the operation tags they may invoke.
package access

import (
	"sort"
	"strings"
	"sync"
)

// Operation tags, "<module>.<action>".
const (
	RoomView       = "roomManagement.view"
	RoomCreate     = "roomManagement.create"
	RoomEdit       = "roomManagement.edit"
	RoomDelete     = "roomManagement.delete"
	RoomEditStatus = "roomManagement.editStatus"

	GuestView     = "guestManagement.view"
	GuestCheckIn  = "guestManagement.checkIn"
	GuestCheckout = "guestManagement.checkout"
	GuestShift    = "guestManagement.shift"
	GuestNotes    = "guestManagement.notes"

	BillPreview = "billing.preview"
	BillInvoice = "billing.invoice"

	RolesView = "rolesAndPermissions.view"
	RolesEdit = "rolesAndPermissions.edit"

	SettingsEdit = "settings.edit"
)

const OwnerRole = "owner"

// Modules lists every known action per module; role screens render this grid.
var Modules = map[string][]string{
	"roomManagement":      {"view", "create", "edit", "delete", "editStatus"},
	"guestManagement":     {"view", "checkIn", "checkout", "shift", "notes"},
	"billing":             {"preview", "invoice"},
	"rolesAndPermissions": {"view", "edit"},
	"settings":            {"edit"},
}

// AllOperations returns every tag in Modules, sorted.
func AllOperations() []string {
	ops := make([]string, 0, 16)
	for module, actions := range Modules {
		for _, a := range actions {
			ops = append(ops, module+"."+a)
		}
	}
	sort.Strings(ops)
	return ops
}

// Defaults is the capability set seeded for a fresh install.
func Defaults() map[string][]string {
	return map[string][]string{
		OwnerRole: AllOperations(),
		"manager": {
			RoomView, RoomCreate, RoomEdit, RoomEditStatus,
			GuestView, GuestCheckIn, GuestCheckout, GuestShift, GuestNotes,
			BillPreview, BillInvoice, RolesView,
		},
		"receptionist": {
			RoomView, RoomEditStatus,
			GuestView, GuestCheckIn, GuestCheckout, GuestShift,
			BillPreview, BillInvoice,
		},
		"cleaner": {RoomView, RoomEditStatus},
	}
}

// Table is a goroutine-safe role -> operation set lookup. Role names are
// case-insensitive.
type Table struct {
	mu    sync.RWMutex
	roles map[string]map[string]struct{}
}

func NewTable(initial map[string][]string) *Table {
	t := &Table{roles: map[string]map[string]struct{}{}}
	for role, ops := range initial {
		t.Set(role, ops)
	}
	return t
}

func key(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// Set replaces the operation set of a role.
func (t *Table) Set(role string, ops []string) {
	set := make(map[string]struct{}, len(ops))
	for _, op := range ops {
		op = strings.TrimSpace(op)
		if op != "" {
			set[op] = struct{}{}
		}
	}
	t.mu.Lock()
	t.roles[key(role)] = set
	t.mu.Unlock()
}

// Allows reports whether role may perform op. The owner role may do anything.
func (t *Table) Allows(role, op string) bool {
	k := key(role)
	if k == OwnerRole {
		return true
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.roles[k][op]
	return ok
}

// Operations returns the sorted operation set of a role.
func (t *Table) Operations(role string) []string {
	t.mu.RLock()
	set := t.roles[key(role)]
	ops := make([]string, 0, len(set))
	for op := range set {
		ops = append(ops, op)
	}
	t.mu.RUnlock()
	sort.Strings(ops)
	return ops
}
