package checkout

import (
	"testing"
	"time"

	"eventwave/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutGetDelete(t *testing.T) {
	st := NewStore(time.Minute)

	s, err := NewSession(paidEvent(), 1, &fakeGateway{})
	require.NoError(t, err)
	st.Put(s)

	got, err := st.Get(s.ID())
	require.NoError(t, err)
	assert.Equal(t, s.ID(), got.ID())

	st.Delete(s.ID())
	_, err = st.Get(s.ID())
	assert.True(t, domain.IsNotFound(err))
}

func TestStoreGetUnknownID(t *testing.T) {
	st := NewStore(time.Minute)
	_, err := st.Get("nope")
	assert.True(t, domain.IsNotFound(err))
}

func TestStoreSweepEvictsIdleSessions(t *testing.T) {
	st := NewStore(time.Minute)

	idle, err := NewSession(paidEvent(), 1, &fakeGateway{})
	require.NoError(t, err)
	st.Put(idle)

	st.sweep(time.Now().Add(2 * time.Minute))

	_, err = st.Get(idle.ID())
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, 0, st.Len())
}

func TestStoreSweepKeepsBusySessions(t *testing.T) {
	st := NewStore(time.Minute)

	busy, err := NewSession(paidEvent(), 1, &fakeGateway{})
	require.NoError(t, err)
	busy.submitting = true
	st.Put(busy)

	st.sweep(time.Now().Add(2 * time.Minute))

	_, err = st.Get(busy.ID())
	assert.NoError(t, err, "a session mid-submission must not be evicted")
}

func TestStoreCountCallback(t *testing.T) {
	st := NewStore(time.Minute)
	var last int
	st.OnCountChange = func(n int) { last = n }

	s, err := NewSession(paidEvent(), 1, &fakeGateway{})
	require.NoError(t, err)
	st.Put(s)
	assert.Equal(t, 1, last)

	st.Delete(s.ID())
	assert.Equal(t, 0, last)
}
