// Package navigation composes the navigation menu a principal may see:
// the static menu tree filtered by permission, merged with a stored layout override.
package navigation

import (
	"fmt"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
)

// Node is an entry of the static menu tree.
// An empty Permission makes the node visible to any authenticated principal.
type Node struct {
	ID         string
	Label      string
	Icon       string
	Path       string
	Permission string
	Children   []Node
}

// DefaultMenu returns the static menu tree of the admin console.
func DefaultMenu() []Node {
	return []Node{
		{ID: "dashboard", Label: "Dashboard", Icon: "home", Path: "/dashboard"},
		{ID: "sales", Label: "Sales", Icon: "bolt", Children: []Node{
			{ID: "orders", Label: "Orders", Icon: "cart", Path: "/orders", Permission: auth.PermOrderView},
			{ID: "invoices", Label: "Invoices", Icon: "receipt", Path: "/invoices", Permission: auth.PermInvoiceView},
		}},
		{ID: "catalog", Label: "Catalog", Icon: "box", Path: "/products", Permission: auth.PermProductView},
		{ID: "blog", Label: "Blog", Icon: "pen", Permission: auth.PermBlogView, Children: []Node{
			{ID: "blog-posts", Label: "Posts", Icon: "file", Path: "/blog/posts", Permission: auth.PermBlogView},
			{ID: "blog-drafts", Label: "Drafts", Icon: "edit", Path: "/blog/drafts", Permission: auth.PermBlogEdit},
			{ID: "blog-trash", Label: "Trash", Icon: "trash", Path: "/blog/trash", Permission: auth.PermBlogDelete},
		}},
		{ID: "access", Label: "Access Control", Icon: "lock", Children: []Node{
			{ID: "users", Label: "Users", Icon: "users", Path: "/users", Permission: auth.PermUserView},
			{ID: "roles", Label: "Roles", Icon: "shield", Path: "/roles", Permission: auth.PermRoleView},
			{ID: "permissions", Label: "Permissions", Icon: "key", Path: "/permissions", Permission: auth.PermPermissionView},
			{
				ID:         "public-endpoints",
				Label:      "Public Endpoints",
				Icon:       "globe",
				Path:       "/system/public-endpoints",
				Permission: auth.PermPublicEndpointsView,
			},
		}},
		{ID: "activity", Label: "Activity", Icon: "list", Path: "/activity", Permission: auth.PermActivityView},
		{ID: "settings", Label: "Settings", Icon: "gear", Path: "/settings", Permission: auth.PermSettingsView},
		{ID: "setup", Label: "Setup", Icon: "compass", Path: "/setup", Permission: auth.PermSetupManage},
		{ID: "profile", Label: "Profile", Icon: "user", Path: "/profile"},
	}
}

// validateTree checks that node ids are non-empty and unique across the whole tree.
func validateTree(nodes []Node, seen map[string]struct{}) error {
	for _, n := range nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: menu node %q has no id", ErrInvalidMenu, n.Label)
		}

		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("%w: duplicate menu node id %q", ErrInvalidMenu, n.ID)
		}

		seen[n.ID] = struct{}{}

		if err := validateTree(n.Children, seen); err != nil {
			return err
		}
	}

	return nil
}
