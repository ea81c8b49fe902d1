package sandbox

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInitializer struct {
	participants []Participant
	err          error
	gotCount     int
	gotHuman     bool
}

func (s *stubInitializer) InitializeCharacters(ctx context.Context, count int, userEngagementEnabled bool) ([]Participant, error) {
	s.gotCount = count
	s.gotHuman = userEngagementEnabled
	return s.participants, s.err
}

func TestNewInitializerStateDefaults(t *testing.T) {
	s := NewInitializerState()
	assert.Equal(t, 2, s.Count)
	assert.True(t, s.HumanEnabled)
	assert.Equal(t, 4, s.MaxCount())
	assert.NoError(t, s.Validate())
}

func TestInitializerCountBounds(t *testing.T) {
	t.Run("increment stops at four with a human", func(t *testing.T) {
		s := NewInitializerState()
		for i := 0; i < 10; i++ {
			s = s.Increment()
		}
		assert.Equal(t, 4, s.Count)
		assert.False(t, s.CanIncrement())
	})

	t.Run("increment stops at five without a human", func(t *testing.T) {
		s := NewInitializerState().SetHumanEnabled(false)
		for i := 0; i < 10; i++ {
			s = s.Increment()
		}
		assert.Equal(t, 5, s.Count)
	})

	t.Run("decrement stops at one", func(t *testing.T) {
		s := NewInitializerState()
		for i := 0; i < 10; i++ {
			s = s.Decrement()
		}
		assert.Equal(t, 1, s.Count)
		assert.False(t, s.CanDecrement())
	})

	t.Run("every reachable state is in range", func(t *testing.T) {
		s := NewInitializerState()
		ops := []func(InitializerState) InitializerState{
			InitializerState.Increment,
			InitializerState.Decrement,
			InitializerState.ToggleHuman,
			InitializerState.Increment,
			InitializerState.Increment,
			InitializerState.ToggleHuman,
			InitializerState.Increment,
			InitializerState.ToggleHuman,
			InitializerState.Decrement,
			InitializerState.Decrement,
			InitializerState.Decrement,
			InitializerState.Decrement,
			InitializerState.ToggleHuman,
		}
		for _, op := range ops {
			s = op(s)
			require.NoError(t, s.Validate(), "state %+v", s)
		}
	})
}

func TestInitializerSingleCharacterForcesHuman(t *testing.T) {
	s := NewInitializerState().SetHumanEnabled(false)
	require.False(t, s.HumanEnabled)

	s = s.Decrement()
	assert.Equal(t, 1, s.Count)
	assert.True(t, s.HumanEnabled)
	assert.True(t, s.HumanLocked())

	// The toggle does nothing while locked.
	s = s.ToggleHuman()
	assert.True(t, s.HumanEnabled)
	s = s.SetHumanEnabled(false)
	assert.True(t, s.HumanEnabled)
}

func TestInitializerHumanToggleAdjustsMax(t *testing.T) {
	t.Run("turning the human off at four keeps the count", func(t *testing.T) {
		s := InitializerState{Count: 4, HumanEnabled: true}
		s = s.SetHumanEnabled(false)
		assert.Equal(t, 4, s.Count)
		assert.Equal(t, 5, s.MaxCount())
		assert.True(t, s.CanIncrement())
	})

	t.Run("turning the human on at five clamps to four", func(t *testing.T) {
		s := InitializerState{Count: 5, HumanEnabled: false}
		s = s.SetHumanEnabled(true)
		assert.Equal(t, 4, s.Count)
		assert.True(t, s.HumanEnabled)
	})
}

func TestInitializerValidate(t *testing.T) {
	tests := []struct {
		name    string
		state   InitializerState
		wantErr bool
	}{
		{"zero", InitializerState{Count: 0, HumanEnabled: true}, true},
		{"one with human", InitializerState{Count: 1, HumanEnabled: true}, false},
		{"one without human", InitializerState{Count: 1, HumanEnabled: false}, true},
		{"four with human", InitializerState{Count: 4, HumanEnabled: true}, false},
		{"five with human", InitializerState{Count: 5, HumanEnabled: true}, true},
		{"five without human", InitializerState{Count: 5, HumanEnabled: false}, false},
		{"six without human", InitializerState{Count: 6, HumanEnabled: false}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInitialize(t *testing.T) {
	roster := []Participant{
		{Type: ParticipantHuman, Name: "User", Backstory: "curious"},
		{Type: ParticipantAI, Name: "Seraphina Vale", Backstory: "exiled from Valoria"},
	}

	t.Run("success hands over the roster", func(t *testing.T) {
		client := &stubInitializer{participants: roster}
		var got []Participant
		err := Initialize(context.Background(), client, InitializerState{Count: 1, HumanEnabled: true}, func(p []Participant) {
			got = p
		})
		require.NoError(t, err)
		assert.Equal(t, roster, got)
		assert.Equal(t, 1, client.gotCount)
		assert.True(t, client.gotHuman)
	})

	t.Run("failure leaves the caller uninitialized", func(t *testing.T) {
		cause := errors.New("connection refused")
		client := &stubInitializer{err: cause}
		called := false
		err := Initialize(context.Background(), client, NewInitializerState(), func([]Participant) {
			called = true
		})
		require.Error(t, err)
		assert.False(t, called)

		var initErr *InitializationError
		require.True(t, errors.As(err, &initErr))
		assert.ErrorIs(t, err, cause)
	})
}
