package role

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/paging"
	"github.com/StoreAdmin/StoreAdmin/internal/db/dbtest"
	"github.com/StoreAdmin/StoreAdmin/internal/db/models"
)

// seedPermissions inserts permissions and returns their ids in order.
func seedPermissions(t *testing.T, db *gorm.DB, keys ...string) []uint {
	t.Helper()

	ids := make([]uint, 0, len(keys))

	for _, k := range keys {
		p := models.Permission{Key: k, Name: k}
		require.NoError(t, db.Create(&p).Error, "failed to seed test data")

		ids = append(ids, p.ID)
	}

	return ids
}

func permissionKeys(r *models.Role) []string {
	keys := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		keys = append(keys, p.Key)
	}

	return keys
}

func TestNilDB(t *testing.T) {
	_, err := Get(nil, 1)
	require.ErrorIs(t, err, ErrDBNil)

	_, err = Create(nil, "A", "a")
	require.ErrorIs(t, err, ErrDBNil)

	require.ErrorIs(t, Delete(nil, 1), ErrDBNil)

	_, err = AssignPermissions(nil, 1, []uint{1})
	require.ErrorIs(t, err, ErrDBNil)
}

func TestCreate(t *testing.T) {
	db := dbtest.Open(t)

	role, err := Create(db, " editor ", "Editor")
	require.NoError(t, err)
	assert.Equal(t, "EDITOR", role.Key)
	assert.NotZero(t, role.ID)
	assert.Empty(t, role.Permissions)

	testCases := []struct {
		name          string
		key           string
		roleName      string
		expectedError error
	}{
		{name: "duplicate key ignoring case", key: "Editor", roleName: "Other", expectedError: auth.ErrConflict},
		{name: "empty key", key: "  ", roleName: "Other", expectedError: auth.ErrValidation},
		{name: "empty name", key: "VIEWER", roleName: "", expectedError: auth.ErrValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Create(db, tc.key, tc.roleName)
			require.ErrorIs(t, err, tc.expectedError)
		})
	}
}

func TestUpdate(t *testing.T) {
	db := dbtest.Open(t)

	editor, err := Create(db, "EDITOR", "Editor")
	require.NoError(t, err)
	_, err = Create(db, "VIEWER", "Viewer")
	require.NoError(t, err)

	// keeping the own key is not a conflict
	updated, err := Update(db, editor.ID, "editor", "Content editor")
	require.NoError(t, err)
	assert.Equal(t, "EDITOR", updated.Key)
	assert.Equal(t, "Content editor", updated.Name)

	_, err = Update(db, editor.ID, "viewer", "Editor")
	require.ErrorIs(t, err, auth.ErrConflict)

	_, err = Update(db, 999, "GHOST", "Ghost")
	require.ErrorIs(t, err, auth.ErrNotFound)
}

func TestAssignPermissions(t *testing.T) {
	db := dbtest.Open(t)
	ids := seedPermissions(t, db, "BLOG_VIEW", "BLOG_EDIT", "BLOG_DELETE")

	role, err := Create(db, "EDITOR", "Editor")
	require.NoError(t, err)

	role, err = AssignPermissions(db, role.ID, []uint{ids[0], ids[1], ids[0]})
	require.NoError(t, err)
	assert.Equal(t, []string{"BLOG_VIEW", "BLOG_EDIT"}, permissionKeys(role))

	t.Run("empty set is a validation error and keeps permissions", func(t *testing.T) {
		_, err := AssignPermissions(db, role.ID, nil)
		require.ErrorIs(t, err, auth.ErrValidation)

		got, err := Get(db, role.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"BLOG_VIEW", "BLOG_EDIT"}, permissionKeys(got))
	})

	t.Run("unknown permission leaves the set untouched", func(t *testing.T) {
		_, err := AssignPermissions(db, role.ID, []uint{ids[2], 4242})
		require.ErrorIs(t, err, auth.ErrNotFound)
		assert.Contains(t, err.Error(), "4242")

		got, err := Get(db, role.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"BLOG_VIEW", "BLOG_EDIT"}, permissionKeys(got))
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := AssignPermissions(db, 999, []uint{ids[0]})
		require.ErrorIs(t, err, auth.ErrNotFound)
	})

	t.Run("replaces the whole set", func(t *testing.T) {
		got, err := AssignPermissions(db, role.ID, []uint{ids[2]})
		require.NoError(t, err)
		assert.Equal(t, []string{"BLOG_DELETE"}, permissionKeys(got))
	})
}

func TestAssignPermissionsConcurrentReaders(t *testing.T) {
	const readers = 4

	db := dbtest.OpenPooled(t, readers+1)
	ids := seedPermissions(t, db, "A", "B", "C", "D")

	role, err := Create(db, "R", "R")
	require.NoError(t, err)

	setA := []uint{ids[0], ids[1]}
	setB := []uint{ids[2], ids[3]}

	_, err = AssignPermissions(db, role.ID, setA)
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		done atomic.Bool
		seen atomic.Int64
	)

	for range readers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for !done.Load() {
				got, err := Get(db, role.ID)
				if !assert.NoError(t, err) {
					return
				}

				keys := permissionKeys(got)
				if !assert.True(t,
					assert.ObjectsAreEqual([]string{"A", "B"}, keys) || assert.ObjectsAreEqual([]string{"C", "D"}, keys),
					"observed partial set %v", keys) {
					return
				}

				seen.Add(1)
			}
		}()
	}

	for i := range 50 {
		set := setA
		if i%2 == 0 {
			set = setB
		}

		if _, err := AssignPermissions(db, role.ID, set); !assert.NoError(t, err) {
			break
		}
	}

	done.Store(true)
	wg.Wait()

	assert.Positive(t, seen.Load())
}

func TestRemovePermission(t *testing.T) {
	db := dbtest.Open(t)
	ids := seedPermissions(t, db, "BLOG_VIEW", "BLOG_EDIT")

	role, err := Create(db, "EDITOR", "Editor")
	require.NoError(t, err)
	_, err = AssignPermissions(db, role.ID, ids)
	require.NoError(t, err)

	got, err := RemovePermission(db, role.ID, ids[1])
	require.NoError(t, err)
	assert.Equal(t, []string{"BLOG_VIEW"}, permissionKeys(got))

	_, err = RemovePermission(db, role.ID, ids[1])
	require.ErrorIs(t, err, auth.ErrNotFound)
}

func TestDelete(t *testing.T) {
	db := dbtest.Open(t)
	ids := seedPermissions(t, db, "BLOG_VIEW")

	held, err := Create(db, "HELD", "Held")
	require.NoError(t, err)
	free, err := Create(db, "FREE", "Free")
	require.NoError(t, err)
	_, err = AssignPermissions(db, free.ID, ids)
	require.NoError(t, err)

	user := models.User{Username: "u", Email: "u@example.com", Active: true}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.UserRole{UserID: user.ID, RoleID: held.ID}).Error)

	t.Run("referenced role is a conflict", func(t *testing.T) {
		require.ErrorIs(t, Delete(db, held.ID), auth.ErrConflict)

		_, err := Get(db, held.ID)
		require.NoError(t, err)
	})

	t.Run("unreferenced role is removed with its associations", func(t *testing.T) {
		require.NoError(t, Delete(db, free.ID))

		_, err := Get(db, free.ID)
		require.ErrorIs(t, err, auth.ErrNotFound)

		var links int64
		require.NoError(t, db.Model(&models.RolePermission{}).Where("role_id = ?", free.ID).Count(&links).Error)
		assert.Zero(t, links)

		var perms int64
		require.NoError(t, db.Model(&models.Permission{}).Count(&perms).Error)
		assert.Equal(t, int64(1), perms)
	})

	t.Run("unknown role", func(t *testing.T) {
		require.ErrorIs(t, Delete(db, 999), auth.ErrNotFound)
	})

	t.Run("system role", func(t *testing.T) {
		sys, err := EnsureSystemRole(db, "ADMIN", "Administrator", []string{"BLOG_VIEW"})
		require.NoError(t, err)
		require.ErrorIs(t, Delete(db, sys.ID), auth.ErrConflict)
	})
}

func TestEnsureSystemRole(t *testing.T) {
	db := dbtest.Open(t)
	seedPermissions(t, db, "A", "B")

	first, err := EnsureSystemRole(db, "admin", "Administrator", []string{"A"})
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", first.Key)
	assert.True(t, first.IsSystem)
	assert.Equal(t, []string{"A"}, permissionKeys(first))

	second, err := EnsureSystemRole(db, "ADMIN", "Renamed", []string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Administrator", second.Name)
	assert.Equal(t, []string{"A", "B"}, permissionKeys(second))
}

func TestList(t *testing.T) {
	db := dbtest.Open(t)

	for _, k := range []string{"B", "C", "A"} {
		_, err := Create(db, k, "role "+k)
		require.NoError(t, err)
	}

	res, err := List(db, paging.Request{Sort: "key", Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "A", res.Items[0].Key)
	assert.Equal(t, "B", res.Items[1].Key)
}

func TestUpdateSystemRoleKeepsKey(t *testing.T) {
	db := dbtest.Open(t)

	admin, err := EnsureSystemRole(db, "ADMIN", "Administrator", nil)
	require.NoError(t, err)

	_, err = Update(db, admin.ID, "ROOT", "Administrator")
	require.ErrorIs(t, err, auth.ErrConflict)

	renamed, err := Update(db, admin.ID, "admin", "Administrators")
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", renamed.Key)
	assert.Equal(t, "Administrators", renamed.Name)
}
