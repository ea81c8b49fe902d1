package sandbox

import (
	"context"
	"fmt"
)

// MaxParticipants caps the cast size, the optional human included.
const MaxParticipants = 5

const (
	DefaultCharacterCount = 2
	minCharacterCount     = 1
)

// CharacterInitializer fabricates a participant roster.
type CharacterInitializer interface {
	InitializeCharacters(ctx context.Context, count int, userEngagementEnabled bool) ([]Participant, error)
}

// InitializerState holds the roster request being configured.
//
// The zero value is not valid; use NewInitializerState.
type InitializerState struct {
	Count        int  `json:"count"`
	HumanEnabled bool `json:"userEngagementEnabled"`
}

// NewInitializerState returns the default request: two characters plus the user.
func NewInitializerState() InitializerState {
	return InitializerState{
		Count:        DefaultCharacterCount,
		HumanEnabled: true,
	}
}

// MaxCount is the largest allowed AI count for the current human setting.
func (s InitializerState) MaxCount() int {
	if s.HumanEnabled {
		return MaxParticipants - 1
	}
	return MaxParticipants
}

// HumanLocked reports whether human participation is forced on. A single AI
// needs someone to talk to.
func (s InitializerState) HumanLocked() bool {
	return s.Count == minCharacterCount
}

// CanIncrement reports whether another character fits.
func (s InitializerState) CanIncrement() bool {
	return s.Count < s.MaxCount()
}

// CanDecrement reports whether a character can be removed.
func (s InitializerState) CanDecrement() bool {
	return s.Count > minCharacterCount
}

// Increment adds a character, up to MaxCount.
func (s InitializerState) Increment() InitializerState {
	if s.CanIncrement() {
		s.Count++
	}
	return s
}

// Decrement removes a character, down to one. Reaching one forces human
// participation on.
func (s InitializerState) Decrement() InitializerState {
	if s.CanDecrement() {
		s.Count--
	}
	if s.HumanLocked() {
		s.HumanEnabled = true
	}
	return s
}

// SetHumanEnabled changes human participation. Turning it off while locked is
// ignored. Turning it on clamps the count to the smaller maximum; turning it
// off leaves the count alone.
func (s InitializerState) SetHumanEnabled(enabled bool) InitializerState {
	if !enabled && s.HumanLocked() {
		return s
	}
	s.HumanEnabled = enabled
	if s.Count > s.MaxCount() {
		s.Count = s.MaxCount()
	}
	return s
}

// ToggleHuman flips human participation, honoring the lock.
func (s InitializerState) ToggleHuman() InitializerState {
	return s.SetHumanEnabled(!s.HumanEnabled)
}

// Validate checks the invariants for requests built outside the form.
func (s InitializerState) Validate() error {
	if s.Count < minCharacterCount || s.Count > s.MaxCount() {
		return fmt.Errorf("character count must be between %d and %d, got %d", minCharacterCount, s.MaxCount(), s.Count)
	}
	if s.HumanLocked() && !s.HumanEnabled {
		return fmt.Errorf("a single character requires user participation")
	}
	return nil
}

// Initialize asks the backend for a roster. On success onInitialized receives
// the participants; on failure it is not called and an *InitializationError is
// returned.
func Initialize(ctx context.Context, client CharacterInitializer, state InitializerState, onInitialized func([]Participant)) error {
	log.WithFields(map[string]interface{}{
		"count":                   state.Count,
		"user_engagement_enabled": state.HumanEnabled,
	}).Info("Initializing characters")

	participants, err := client.InitializeCharacters(ctx, state.Count, state.HumanEnabled)
	if err != nil {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Error("Failed to initialize conversation")
		return &InitializationError{Err: err}
	}

	log.WithFields(map[string]interface{}{
		"participants": len(participants),
	}).Info("Characters initialized")
	onInitialized(participants)
	return nil
}
