package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_NextPrev(t *testing.T) {
	tests := []struct {
		status   Status
		next     Status
		nextOK   bool
		prev     Status
		prevOK   bool
		isOpen   bool
		position int
	}{
		{StatusBooked, StatusReceived, true, StatusBooked, false, true, 0},
		{StatusReceived, StatusEncoded, true, StatusBooked, true, true, 1},
		{StatusEncoded, StatusDelivered, true, StatusReceived, true, true, 2},
		{StatusDelivered, StatusFinished, true, StatusEncoded, true, true, 3},
		{StatusFinished, StatusFinished, false, StatusDelivered, true, false, 4},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			next, ok := tt.status.Next()
			assert.Equal(t, tt.next, next)
			assert.Equal(t, tt.nextOK, ok)

			prev, ok := tt.status.Prev()
			assert.Equal(t, tt.prev, prev)
			assert.Equal(t, tt.prevOK, ok)

			assert.Equal(t, tt.isOpen, tt.status.IsOpen())
			assert.Equal(t, tt.position, tt.status.Index())
		})
	}
}

func TestStatus_Unknown(t *testing.T) {
	s := Status("Shipped")
	assert.False(t, s.Valid())
	assert.Equal(t, -1, s.Index())
	assert.False(t, s.IsOpen())

	_, ok := s.Next()
	assert.False(t, ok)
	_, ok = s.Prev()
	assert.False(t, ok)
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("Delivered")
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, st)

	for _, bad := range []string{"Shipped", "delivered", "", " Booked"} {
		_, err := ParseStatus(bad)
		require.Error(t, err, bad)
		assert.True(t, errors.Is(err, ErrInvalidStatus))
	}
}

func TestStatusGroups(t *testing.T) {
	all := AllStatuses()
	assert.Len(t, all, 5)
	assert.Equal(t, append(OpenStatuses(), FinishedStatuses()...), all)

	// callers must not be able to reorder the pipeline
	all[0] = StatusFinished
	assert.Equal(t, StatusBooked, AllStatuses()[0])
}
