// Package rbac holds the permission catalog and the access checker that
// gates every mutating endpoint.
package rbac

// Permission name constants. The catalog below is the only source of
// grantable permissions; roles referencing anything else are rejected.
const (
	PermReadChemicals   = "read_chemicals"
	PermWriteChemicals  = "write_chemicals"
	PermDeleteChemicals = "delete_chemicals"

	PermReadExperiments   = "read_experiments"
	PermWriteExperiments  = "write_experiments"
	PermDeleteExperiments = "delete_experiments"

	PermReadUsers   = "read_users"
	PermManageUsers = "manage_users"

	PermManageRoles = "manage_roles"

	PermViewDashboard = "view_dashboard"
	// PermSystemAdmin implies every other permission.
	PermSystemAdmin = "system_admin"

	// Broad legacy permissions kept for roles created before the
	// per-resource split. See impliedBy in checker.go.
	PermLegacyRead   = "read"
	PermLegacyWrite  = "write"
	PermLegacyDelete = "delete"
)

// Permission categories.
const (
	CategoryChemicals   = "chemicals"
	CategoryExperiments = "experiments"
	CategoryUsers       = "users"
	CategoryRoles       = "roles"
	CategorySystem      = "system"
	CategoryLegacy      = "legacy"
)

// Permission describes one grantable permission.
type Permission struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// catalog is seeded at compile time and never mutated at runtime. Order is
// stable and is the display order.
var catalog = []Permission{
	{PermReadChemicals, "View chemical inventory", CategoryChemicals},
	{PermWriteChemicals, "Add and edit chemicals", CategoryChemicals},
	{PermDeleteChemicals, "Delete chemicals", CategoryChemicals},

	{PermReadExperiments, "View experiments", CategoryExperiments},
	{PermWriteExperiments, "Create and edit experiments", CategoryExperiments},
	{PermDeleteExperiments, "Delete experiments", CategoryExperiments},

	{PermReadUsers, "View user information", CategoryUsers},
	{PermManageUsers, "Create, edit, and delete users", CategoryUsers},

	{PermManageRoles, "Create and manage roles and permissions", CategoryRoles},

	{PermViewDashboard, "Access dashboard", CategorySystem},
	{PermSystemAdmin, "Full system administration", CategorySystem},

	{PermLegacyRead, "General read access", CategoryLegacy},
	{PermLegacyWrite, "General write access", CategoryLegacy},
	{PermLegacyDelete, "General delete access", CategoryLegacy},
}

var catalogIndex = func() map[string]Permission {
	idx := make(map[string]Permission, len(catalog))
	for _, p := range catalog {
		idx[p.Name] = p
	}
	return idx
}()

// Catalog returns the full permission catalog in stable display order.
func Catalog() []Permission {
	out := make([]Permission, len(catalog))
	copy(out, catalog)
	return out
}

// Exists reports whether name is a registered permission.
func Exists(name string) bool {
	_, ok := catalogIndex[name]
	return ok
}

// ByCategory groups the catalog for display. This is a pure projection of
// Catalog, not stored state; categories appear in catalog order.
func ByCategory() map[string][]Permission {
	groups := make(map[string][]Permission)
	for _, p := range catalog {
		groups[p.Category] = append(groups[p.Category], p)
	}
	return groups
}
