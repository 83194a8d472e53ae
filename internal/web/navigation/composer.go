package navigation

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
)

// Item is a node of a composed menu.
type Item struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Icon       string `json:"icon,omitempty"`
	Path       string `json:"path,omitempty"`
	Permission string `json:"permission,omitempty"`
	Visible    bool   `json:"visible"`
	Position   *int   `json:"position,omitempty"`
	Children   []Item `json:"children"`
}

// Menu is the menu a principal sees together with the defaults it was derived from.
type Menu struct {
	LayoutKey string     `json:"layoutKey"`
	Scope     Scope      `json:"scope"`
	Items     []Item     `json:"items"`
	Defaults  []Item     `json:"defaults"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	UpdatedBy string     `json:"updatedBy,omitempty"`
}

// Composer merges the static menu tree with permissions and layout overrides.
// It holds no per-request state and is safe for concurrent use.
type Composer struct {
	tree []Node
	ids  map[string]struct{}
}

// NewComposer creates a composer for tree. Node ids must be unique across the tree.
func NewComposer(tree []Node) (*Composer, error) {
	ids := make(map[string]struct{})
	if err := validateTree(tree, ids); err != nil {
		return nil, err
	}

	return &Composer{tree: tree, ids: ids}, nil
}

// Compose returns the menu for a principal holding perms.
// Permission gating runs first; an override can hide or reorder the remaining nodes but
// never bring back a node the principal may not see.
func (c *Composer) Compose(layoutKey string, perms *auth.PermissionSet, ov *Override) Menu {
	defaults := filter(c.tree, perms)

	menu := Menu{
		LayoutKey: layoutKey,
		Scope:     ScopeDefault,
		Defaults:  toItems(defaults, nil),
	}

	if ov == nil {
		menu.Items = toItems(defaults, nil)
		return menu
	}

	overrides := c.index(layoutKey, ov.Nodes)

	menu.Scope = ov.Scope
	menu.Items = toItems(defaults, overrides)
	menu.UpdatedAt = ov.UpdatedAt
	menu.UpdatedBy = ov.UpdatedBy

	return menu
}

// Annotate returns the full static tree with the override applied to ordering and
// hidden nodes kept but marked invisible. It is the view of the layout editor.
func (c *Composer) Annotate(layoutKey string, ov *Override) []Item {
	var overrides map[string]NodeOverride
	if ov != nil {
		overrides = c.index(layoutKey, ov.Nodes)
	}

	return annotate(c.tree, overrides)
}

// Sanitize drops overrides for unknown node ids and repeated ids, keeping the first.
// It returns the kept overrides and the dropped ids.
func (c *Composer) Sanitize(nodes []NodeOverride) ([]NodeOverride, []string) {
	kept := make([]NodeOverride, 0, len(nodes))
	seen := make(map[string]struct{}, len(nodes))

	var dropped []string

	for _, n := range nodes {
		_, known := c.ids[n.NodeID]
		_, dup := seen[n.NodeID]

		if !known || dup {
			dropped = append(dropped, n.NodeID)
			continue
		}

		seen[n.NodeID] = struct{}{}
		kept = append(kept, n)
	}

	return kept, dropped
}

// index maps overrides by node id. Stale ids are skipped with a warning.
func (c *Composer) index(layoutKey string, nodes []NodeOverride) map[string]NodeOverride {
	out := make(map[string]NodeOverride, len(nodes))

	var stale []string

	for _, n := range nodes {
		if _, ok := c.ids[n.NodeID]; !ok {
			stale = append(stale, n.NodeID)
			continue
		}

		if _, dup := out[n.NodeID]; !dup {
			out[n.NodeID] = n
		}
	}

	if len(stale) > 0 {
		log.Warn().Str("layout_key", layoutKey).Strs("node_ids", stale).
			Msg("menu layout references unknown nodes")
	}

	return out
}

// filter keeps nodes without a permission or whose permission is held.
// A pruned parent takes its subtree with it; a kept parent may end up without children.
func filter(nodes []Node, perms *auth.PermissionSet) []Node {
	out := make([]Node, 0, len(nodes))

	for _, n := range nodes {
		if n.Permission != "" && !perms.Has(n.Permission) {
			continue
		}

		n.Children = filter(n.Children, perms)
		out = append(out, n)
	}

	return out
}

// toItems converts nodes, dropping hidden ones and ordering siblings by override position.
func toItems(nodes []Node, overrides map[string]NodeOverride) []Item {
	items := make([]Item, 0, len(nodes))

	for _, n := range nodes {
		ov := overrides[n.ID]
		if ov.Visible != nil && !*ov.Visible {
			continue
		}

		item := newItem(n, ov)
		item.Children = toItems(n.Children, overrides)
		items = append(items, item)
	}

	sortByPosition(items)

	return items
}

func annotate(nodes []Node, overrides map[string]NodeOverride) []Item {
	items := make([]Item, 0, len(nodes))

	for _, n := range nodes {
		ov := overrides[n.ID]

		item := newItem(n, ov)
		item.Visible = ov.Visible == nil || *ov.Visible
		item.Children = annotate(n.Children, overrides)
		items = append(items, item)
	}

	sortByPosition(items)

	return items
}

func newItem(n Node, ov NodeOverride) Item {
	return Item{
		ID:         n.ID,
		Label:      n.Label,
		Icon:       n.Icon,
		Path:       n.Path,
		Permission: n.Permission,
		Visible:    true,
		Position:   ov.Position,
	}
}

// sortByPosition puts positioned items first in ascending order;
// the rest keep their static relative order after them.
func sortByPosition(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		pi, pj := items[i].Position, items[j].Position

		switch {
		case pi != nil && pj != nil:
			return *pi < *pj
		case pi != nil:
			return true
		default:
			return false
		}
	})
}
