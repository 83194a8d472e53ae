package navigation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/menulayout"
	"github.com/StoreAdmin/StoreAdmin/internal/db/dbtest"
	"github.com/StoreAdmin/StoreAdmin/internal/db/models"
)

func boolPtr(v bool) *bool { return &v }

func intPtr(v int) *int { return &v }

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.ID)
	}

	return out
}

func find(items []Item, id string) *Item {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}

		if found := find(items[i].Children, id); found != nil {
			return found
		}
	}

	return nil
}

func testTree() []Node {
	return []Node{
		{ID: "A", Label: "A"},
		{ID: "B", Label: "B"},
		{ID: "C", Label: "C"},
		{ID: "D", Label: "D"},
		{ID: "blog", Label: "Blog", Children: []Node{
			{ID: "posts", Label: "Posts", Permission: auth.PermBlogView},
			{ID: "trash", Label: "Trash", Permission: auth.PermBlogDelete},
		}},
		{ID: "admin", Label: "Admin", Permission: auth.PermRoleView, Children: []Node{
			{ID: "roles", Label: "Roles"},
		}},
	}
}

func newTestComposer(t *testing.T) *Composer {
	t.Helper()

	c, err := NewComposer(testTree())
	require.NoError(t, err)

	return c
}

func TestNewComposerRejectsInvalidTrees(t *testing.T) {
	_, err := NewComposer([]Node{{ID: "a"}, {ID: "b", Children: []Node{{ID: "a"}}}})
	require.ErrorIs(t, err, ErrInvalidMenu)

	_, err = NewComposer([]Node{{Label: "no id"}})
	require.ErrorIs(t, err, ErrInvalidMenu)

	_, err = NewComposer(DefaultMenu())
	require.NoError(t, err)
}

func TestComposePermissionFiltering(t *testing.T) {
	c := newTestComposer(t)

	menu := c.Compose("PRIMARY", auth.NewPermissionSet(auth.PermBlogEdit, auth.PermBlogView), nil)

	assert.Equal(t, ScopeDefault, menu.Scope)
	assert.Equal(t, []string{"A", "B", "C", "D", "blog"}, ids(menu.Items))
	assert.NotNil(t, find(menu.Items, "posts"))
	assert.Nil(t, find(menu.Items, "trash"))
	assert.Nil(t, find(menu.Items, "admin"), "failing parent is pruned")
	assert.Nil(t, find(menu.Items, "roles"), "with its subtree")
	assert.Equal(t, menu.Items, menu.Defaults)
}

func TestComposeKeepsParentWithoutVisibleChildren(t *testing.T) {
	c := newTestComposer(t)

	menu := c.Compose("PRIMARY", auth.NewPermissionSet(), nil)

	blog := find(menu.Items, "blog")
	require.NotNil(t, blog)
	assert.Empty(t, blog.Children)
}

func TestComposeOrdering(t *testing.T) {
	c := newTestComposer(t)

	ov := &Override{Scope: ScopeGlobal, Nodes: []NodeOverride{
		{NodeID: "A", Position: intPtr(1)},
		{NodeID: "B", Position: intPtr(0)},
	}}

	menu := c.Compose("PRIMARY", auth.NewPermissionSet(), ov)

	assert.Equal(t, []string{"B", "A", "C", "D", "blog"}, ids(menu.Items))
	assert.Equal(t, []string{"A", "B", "C", "D", "blog"}, ids(menu.Defaults), "defaults stay untouched")
	assert.Equal(t, ScopeGlobal, menu.Scope)
}

func TestComposeOrdersChildren(t *testing.T) {
	c := newTestComposer(t)

	ov := &Override{Scope: ScopeUser, Nodes: []NodeOverride{{NodeID: "trash", Position: intPtr(0)}}}

	menu := c.Compose("PRIMARY", auth.NewPermissionSet(auth.PermBlogView, auth.PermBlogDelete), ov)

	assert.Equal(t, []string{"trash", "posts"}, ids(find(menu.Items, "blog").Children))
}

func TestComposeHidesNodes(t *testing.T) {
	c := newTestComposer(t)

	ov := &Override{Scope: ScopeUser, Nodes: []NodeOverride{
		{NodeID: "C", Visible: boolPtr(false)},
		{NodeID: "blog", Visible: boolPtr(false)},
		{NodeID: "D", Visible: boolPtr(true)},
	}}

	menu := c.Compose("PRIMARY", auth.NewPermissionSet(auth.PermBlogView), ov)

	assert.Equal(t, []string{"A", "B", "D"}, ids(menu.Items))
	assert.Nil(t, find(menu.Items, "posts"), "hidden parent hides its children")
}

func TestComposeCannotResurrect(t *testing.T) {
	c := newTestComposer(t)

	ov := &Override{Scope: ScopeUser, Nodes: []NodeOverride{
		{NodeID: "trash", Visible: boolPtr(true), Position: intPtr(0)},
		{NodeID: "admin", Visible: boolPtr(true), Position: intPtr(0)},
	}}

	menu := c.Compose("PRIMARY", auth.NewPermissionSet(auth.PermBlogView), ov)

	assert.Nil(t, find(menu.Items, "trash"))
	assert.Nil(t, find(menu.Items, "admin"))
}

func TestComposeSkipsStaleOverrides(t *testing.T) {
	c := newTestComposer(t)

	updated := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ov := &Override{
		Scope: ScopeGlobal,
		Nodes: []NodeOverride{
			{NodeID: "removed-long-ago", Position: intPtr(0)},
			{NodeID: "D", Position: intPtr(0)},
			{NodeID: "D", Position: intPtr(9)},
		},
		UpdatedAt: &updated,
		UpdatedBy: "Ada Admin",
	}

	menu := c.Compose("PRIMARY", auth.NewPermissionSet(), ov)

	assert.Equal(t, []string{"D", "A", "B", "C", "blog"}, ids(menu.Items))
	assert.Equal(t, &updated, menu.UpdatedAt)
	assert.Equal(t, "Ada Admin", menu.UpdatedBy)
}

func TestAnnotate(t *testing.T) {
	c := newTestComposer(t)

	items := c.Annotate("PRIMARY", &Override{Nodes: []NodeOverride{
		{NodeID: "admin", Visible: boolPtr(false), Position: intPtr(0)},
	}})

	assert.Equal(t, []string{"admin", "A", "B", "C", "D", "blog"}, ids(items))
	assert.False(t, items[0].Visible)
	assert.Equal(t, auth.PermRoleView, items[0].Permission)
	assert.True(t, find(items, "roles").Visible)

	assert.Len(t, c.Annotate("PRIMARY", nil), len(testTree()))
}

func TestSanitize(t *testing.T) {
	c := newTestComposer(t)

	kept, dropped := c.Sanitize([]NodeOverride{
		{NodeID: "A", Position: intPtr(2)},
		{NodeID: "ghost"},
		{NodeID: "A", Position: intPtr(0)},
		{NodeID: "roles", Visible: boolPtr(false)},
	})

	assert.Equal(t, []string{"ghost", "A"}, dropped)
	require.Len(t, kept, 2)
	assert.Equal(t, 2, *kept[0].Position)
	assert.Equal(t, "roles", kept[1].NodeID)
}

func TestOverridesRoundTrip(t *testing.T) {
	raw, err := EncodeOverrides(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	in := []NodeOverride{{NodeID: "A", Visible: boolPtr(false), Position: intPtr(3)}}
	raw, err = EncodeOverrides(in)
	require.NoError(t, err)

	out, err := DecodeOverrides(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = DecodeOverrides("{not json")
	require.Error(t, err)
}

func TestUserOverrideShadowsGlobal(t *testing.T) {
	db := dbtest.Open(t)
	c := newTestComposer(t)

	admin := models.User{Username: "admin", Email: "admin@example.com", FullName: "Ada Admin", Active: true}
	require.NoError(t, db.Create(&admin).Error)

	global, err := EncodeOverrides([]NodeOverride{
		{NodeID: "A", Visible: boolPtr(false)},
		{NodeID: "D", Position: intPtr(0)},
	})
	require.NoError(t, err)
	_, err = menulayout.Upsert(db, "PRIMARY", nil, global, &admin.ID)
	require.NoError(t, err)

	userID := uint64(42)

	t.Run("global applies without a user row", func(t *testing.T) {
		ov, err := LoadOverride(db, "PRIMARY", userID)
		require.NoError(t, err)
		require.NotNil(t, ov)
		assert.Equal(t, ScopeGlobal, ov.Scope)
		assert.Equal(t, "Ada Admin", ov.UpdatedBy)

		menu := c.Compose("PRIMARY", auth.NewPermissionSet(), ov)
		assert.Equal(t, []string{"D", "B", "C", "blog"}, ids(menu.Items))
	})

	t.Run("user row fully shadows the global row", func(t *testing.T) {
		mine, err := EncodeOverrides([]NodeOverride{{NodeID: "C", Position: intPtr(0)}})
		require.NoError(t, err)
		_, err = menulayout.Upsert(db, "PRIMARY", &userID, mine, &userID)
		require.NoError(t, err)

		ov, err := LoadOverride(db, "PRIMARY", userID)
		require.NoError(t, err)
		assert.Equal(t, ScopeUser, ov.Scope)

		menu := c.Compose("PRIMARY", auth.NewPermissionSet(), ov)
		assert.Equal(t, []string{"C", "A", "B", "D", "blog"}, ids(menu.Items))
	})

	t.Run("no rows", func(t *testing.T) {
		ov, err := LoadOverride(db, "SIDEBAR", userID)
		require.NoError(t, err)
		assert.Nil(t, ov)

		ov, err = LoadGlobalOverride(db, "SIDEBAR")
		require.NoError(t, err)
		assert.Nil(t, ov)
	})

	t.Run("unreadable user row still shadows the global row", func(t *testing.T) {
		other := uint64(43)
		_, err := menulayout.Upsert(db, "PRIMARY", &other, "{broken", &other)
		require.NoError(t, err)

		ov, err := LoadOverride(db, "PRIMARY", other)
		require.NoError(t, err)
		assert.Nil(t, ov)

		menu := c.Compose("PRIMARY", auth.NewPermissionSet(), ov)
		assert.Equal(t, []string{"A", "B", "C", "D", "blog"}, ids(menu.Items))

		global, err := LoadGlobalOverride(db, "PRIMARY")
		require.NoError(t, err)
		require.NotNil(t, global)
		assert.Equal(t, ScopeGlobal, global.Scope)
	})
}
