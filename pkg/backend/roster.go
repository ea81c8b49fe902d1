package backend

import (
	"fmt"

	"github.com/mattsolo1/grove-sandbox/pkg/sandbox"
)

// Fallback cast used when no generator is available. The backend uses the
// same values when character generation fails.
const (
	DefaultHumanName      = "User"
	DefaultHumanBackstory = "A curious human exploring conversations with AI characters."
	DefaultAIBackstory    = "A mysterious character from a fantasy world."
)

// DefaultRoster returns count placeholder characters, preceded by the user
// when userEngagementEnabled is set.
func DefaultRoster(count int, userEngagementEnabled bool) []sandbox.Participant {
	participants := make([]sandbox.Participant, 0, count+1)
	if userEngagementEnabled {
		participants = append(participants, sandbox.Participant{
			Type:      sandbox.ParticipantHuman,
			Name:      DefaultHumanName,
			Backstory: DefaultHumanBackstory,
		})
	}
	for i := 0; i < count; i++ {
		participants = append(participants, sandbox.Participant{
			Type:      sandbox.ParticipantAI,
			Name:      fmt.Sprintf("Character%d", i+1),
			Backstory: DefaultAIBackstory,
		})
	}
	return participants
}
