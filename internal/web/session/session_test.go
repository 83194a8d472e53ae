package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLifecycle(t *testing.T) {
	store := New(NewMemoryStorage(), time.Minute)

	id, err := store.Create(7)
	require.NoError(t, err)
	assert.Len(t, id, 64)

	data, err := store.Read(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), data.UserID)
	assert.False(t, data.CreatedAt.IsZero())

	require.NoError(t, store.Delete(id))

	_, err = store.Read(id)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestStoreReadUnknown(t *testing.T) {
	store := New(NewMemoryStorage(), time.Minute)

	_, err := store.Read("")
	require.ErrorIs(t, err, ErrNoSession)

	_, err = store.Read("does-not-exist")
	require.ErrorIs(t, err, ErrNoSession)
}

func TestStoreExpiry(t *testing.T) {
	store := New(NewMemoryStorage(), 20*time.Millisecond)

	id, err := store.Create(1)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, err := store.Read(id)
		return err != nil
	}, time.Second, 10*time.Millisecond)
}

func TestNewPanicsOnNilStorage(t *testing.T) {
	assert.Panics(t, func() { New(nil, time.Minute) })
}

func TestGenerateSessionIDIsRandom(t *testing.T) {
	a, err := GenerateSessionID()
	require.NoError(t, err)

	b, err := GenerateSessionID()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
