package auth

import "strings"

// Permission keys known to the system. The catalog below is seeded into the
// permissions table at startup; the authorization policy may only reference these keys.
const (
	// PermRoleView allows listing and reading roles.
	PermRoleView = "ROLE_VIEW"
	// PermRoleCreate allows creating roles.
	PermRoleCreate = "ROLE_CREATE"
	// PermRoleUpdate allows renaming roles and changing their permission sets.
	PermRoleUpdate = "ROLE_UPDATE"
	// PermRoleDelete allows deleting roles that are no longer assigned.
	PermRoleDelete = "ROLE_DELETE"

	// PermPermissionView allows listing permissions.
	PermPermissionView = "PERMISSION_VIEW"
	// PermPermissionCreate allows adding permissions to the catalog.
	PermPermissionCreate = "PERMISSION_CREATE"
	// PermPermissionUpdate allows renaming permissions and assigning them to roles.
	PermPermissionUpdate = "PERMISSION_UPDATE"
	// PermPermissionDelete allows deleting unreferenced permissions.
	PermPermissionDelete = "PERMISSION_DELETE"

	// PermUserView allows viewing user accounts.
	PermUserView = "USER_VIEW"
	// PermUserViewGlobal allows viewing every user account, including other administrators.
	PermUserViewGlobal = "USER_VIEW_GLOBAL"
	// PermUserUpdate allows changing user accounts and their role assignments.
	PermUserUpdate = "USER_UPDATE"

	// PermSetupManage allows editing the global navigation layout.
	PermSetupManage = "SETUP_MANAGE"
	// PermMenuCustomize allows a user to store a personal navigation layout.
	PermMenuCustomize = "MENU_CUSTOMIZE"
	// PermActivityView allows reading the administrative activity log.
	PermActivityView = "ACTIVITY_VIEW"
	// PermSettingsView allows viewing application settings.
	PermSettingsView = "SETTINGS_VIEW"
	// PermPublicEndpointsView allows listing the routes that bypass authentication.
	PermPublicEndpointsView = "SYSTEM_PUBLIC_ENDPOINTS_VIEW"

	PermInvoiceView = "INVOICE_VIEW"
	PermOrderView   = "ORDER_VIEW"
	PermProductView = "PRODUCT_VIEW"

	PermBlogView   = "BLOG_VIEW"
	PermBlogEdit   = "BLOG_EDIT"
	PermBlogDelete = "BLOG_DELETE"

	// Storefront customer permissions. Keys with ReservedPrefix are hidden from the admin permission list.
	PermCustomerProfileView   = "CUSTOMER_PROFILE_VIEW"
	PermCustomerProfileUpdate = "CUSTOMER_PROFILE_UPDATE"
	PermCustomerOrderView     = "CUSTOMER_ORDER_VIEW"
)

const (
	// ReservedPrefix marks storefront permissions excluded from admin listings by default.
	ReservedPrefix = "CUSTOMER_"

	// RoleAdmin is the system role holding every catalog permission.
	RoleAdmin = "ADMIN"
	// RoleCustomer is the system role holding the storefront defaults.
	RoleCustomer = "CUSTOMER"
)

// CatalogEntry is a permission key with its display name.
type CatalogEntry struct {
	Key  string
	Name string
}

// Catalog lists every permission known to the code base.
var Catalog = []CatalogEntry{
	{Key: PermRoleView, Name: "View roles"},
	{Key: PermRoleCreate, Name: "Create roles"},
	{Key: PermRoleUpdate, Name: "Update roles"},
	{Key: PermRoleDelete, Name: "Delete roles"},
	{Key: PermPermissionView, Name: "View permissions"},
	{Key: PermPermissionCreate, Name: "Create permissions"},
	{Key: PermPermissionUpdate, Name: "Update permissions"},
	{Key: PermPermissionDelete, Name: "Delete permissions"},
	{Key: PermUserView, Name: "View users"},
	{Key: PermUserViewGlobal, Name: "View all users"},
	{Key: PermUserUpdate, Name: "Update users"},
	{Key: PermSetupManage, Name: "Manage setup"},
	{Key: PermMenuCustomize, Name: "Customize navigation"},
	{Key: PermActivityView, Name: "View activity"},
	{Key: PermSettingsView, Name: "View settings"},
	{Key: PermPublicEndpointsView, Name: "View public endpoints"},
	{Key: PermInvoiceView, Name: "View invoices"},
	{Key: PermOrderView, Name: "View orders"},
	{Key: PermProductView, Name: "View products"},
	{Key: PermBlogView, Name: "View blog posts"},
	{Key: PermBlogEdit, Name: "Edit blog posts"},
	{Key: PermBlogDelete, Name: "Delete blog posts"},
	{Key: PermCustomerProfileView, Name: "View own profile"},
	{Key: PermCustomerProfileUpdate, Name: "Update own profile"},
	{Key: PermCustomerOrderView, Name: "View own orders"},
}

// CustomerDefaults are granted to the CUSTOMER role on bootstrap.
var CustomerDefaults = []string{
	PermCustomerProfileView,
	PermCustomerProfileUpdate,
	PermCustomerOrderView,
}

// CatalogKeys returns the keys of Catalog in declaration order.
func CatalogKeys() []string {
	keys := make([]string, len(Catalog))
	for i, e := range Catalog {
		keys[i] = e.Key
	}

	return keys
}

// IsReserved reports whether key belongs to the storefront namespace.
func IsReserved(key string) bool {
	return strings.HasPrefix(key, ReservedPrefix)
}

// NormalizeRoleKey returns the canonical form of a role key. Role keys compare case-insensitively.
func NormalizeRoleKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}
