package menulayout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/db/dbtest"
	"github.com/StoreAdmin/StoreAdmin/internal/db/models"
)

func ptr(v uint64) *uint64 { return &v }

func TestNilDB(t *testing.T) {
	_, err := Get(nil, "PRIMARY", nil)
	require.ErrorIs(t, err, ErrDBNil)

	_, err = Resolve(nil, "PRIMARY", 1)
	require.ErrorIs(t, err, ErrDBNil)

	require.ErrorIs(t, Delete(nil, "PRIMARY", nil), ErrDBNil)
}

func TestResolve(t *testing.T) {
	db := dbtest.Open(t)

	got, err := Resolve(db, "PRIMARY", 7)
	require.NoError(t, err)
	assert.Nil(t, got, "no override stored")

	_, err = Upsert(db, "PRIMARY", nil, `[{"nodeId":"global"}]`, ptr(1))
	require.NoError(t, err)

	got, err = Resolve(db, "PRIMARY", 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.UserID)
	assert.Equal(t, `[{"nodeId":"global"}]`, got.StructureJSON)

	_, err = Upsert(db, "PRIMARY", ptr(7), `[{"nodeId":"mine"}]`, ptr(7))
	require.NoError(t, err)

	got, err = Resolve(db, "PRIMARY", 7)
	require.NoError(t, err)
	require.NotNil(t, got.UserID)
	assert.Equal(t, uint64(7), *got.UserID)
	assert.Equal(t, `[{"nodeId":"mine"}]`, got.StructureJSON)

	// another user still gets the global row
	got, err = Resolve(db, "PRIMARY", 8)
	require.NoError(t, err)
	assert.Nil(t, got.UserID)

	// other layout keys are independent
	got, err = Resolve(db, "SIDEBAR", 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpsertKeepsOneRowPerScope(t *testing.T) {
	db := dbtest.Open(t)

	first, err := Upsert(db, "PRIMARY", nil, "[]", ptr(1))
	require.NoError(t, err)

	second, err := Upsert(db, "PRIMARY", nil, `[{"nodeId":"a"}]`, ptr(2))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, `[{"nodeId":"a"}]`, second.StructureJSON)
	require.NotNil(t, second.UpdatedByUserID)
	assert.Equal(t, uint64(2), *second.UpdatedByUserID)

	var count int64
	require.NoError(t, db.Model(&models.MenuLayout{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err = Upsert(db, "", nil, "[]", nil)
	require.ErrorIs(t, err, auth.ErrValidation)
}

func TestDelete(t *testing.T) {
	db := dbtest.Open(t)

	_, err := Upsert(db, "PRIMARY", ptr(3), "[]", ptr(3))
	require.NoError(t, err)

	require.NoError(t, Delete(db, "PRIMARY", ptr(3)))
	require.ErrorIs(t, Delete(db, "PRIMARY", ptr(3)), auth.ErrNotFound)

	_, err = Get(db, "PRIMARY", ptr(3))
	require.ErrorIs(t, err, auth.ErrNotFound)
}
