package sandbox

import "strings"

// ParticipantType distinguishes the human user from generated characters.
type ParticipantType string

const (
	ParticipantHuman ParticipantType = "HUMAN"
	ParticipantAI    ParticipantType = "AI"
)

const (
	// StrangerName is the participant name attached to turns typed by the user.
	// It is not derived from the HUMAN participant's name.
	StrangerName = "Stranger"

	// SelfReflectionPrefix marks turns the backend injects for its own bookkeeping.
	SelfReflectionPrefix = "This is what I know about myself"
)

// Participant is a member of the conversation cast. Names identify
// participants and must be unique within a conversation.
type Participant struct {
	Type      ParticipantType `json:"type" jsonschema:"enum=HUMAN,enum=AI"`
	Name      string          `json:"name"`
	Backstory string          `json:"backstory"`
}

// DialogTurn is one attributed utterance.
type DialogTurn struct {
	Participant string `json:"participant"`
	Content     string `json:"content"`
}

// IsSelfReflection reports whether the turn is internal backend bookkeeping.
func (t DialogTurn) IsSelfReflection() bool {
	return strings.HasPrefix(t.Content, SelfReflectionPrefix)
}

// IsStranger reports whether the turn was typed by the local user.
func (t DialogTurn) IsStranger() bool {
	return t.Participant == StrangerName
}

// Conversation is the full state exchanged with the backend. The client never
// patches it; each successful continuation replaces it.
type Conversation struct {
	Participants []Participant `json:"participants"`
	DialogTurns  []DialogTurn  `json:"dialogTurns"`
}

// NewConversation starts a conversation with no turns.
func NewConversation(participants []Participant) Conversation {
	p := make([]Participant, len(participants))
	copy(p, participants)
	return Conversation{
		Participants: p,
		DialogTurns:  []DialogTurn{},
	}
}

// AppendTurn returns a copy of c with turn added at the end. The receiver's
// backing arrays are never shared with the result.
func (c Conversation) AppendTurn(turn DialogTurn) Conversation {
	turns := make([]DialogTurn, len(c.DialogTurns), len(c.DialogTurns)+1)
	copy(turns, c.DialogTurns)
	return Conversation{
		Participants: c.Participants,
		DialogTurns:  append(turns, turn),
	}
}

// VisibleTurns returns the turns meant for the reader, in order.
func (c Conversation) VisibleTurns() []DialogTurn {
	visible := make([]DialogTurn, 0, len(c.DialogTurns))
	for _, turn := range c.DialogTurns {
		if turn.IsSelfReflection() {
			continue
		}
		visible = append(visible, turn)
	}
	return visible
}

// Humans returns the HUMAN participants.
func (c Conversation) Humans() []Participant {
	return c.participantsOfType(ParticipantHuman)
}

// AIs returns the AI participants.
func (c Conversation) AIs() []Participant {
	return c.participantsOfType(ParticipantAI)
}

func (c Conversation) participantsOfType(t ParticipantType) []Participant {
	var out []Participant
	for _, p := range c.Participants {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out
}

// HasHuman reports whether the local user takes part in the conversation.
func (c Conversation) HasHuman() bool {
	return len(c.Humans()) > 0
}

// IsOneOnOne reports whether the cast is exactly one HUMAN and one AI.
func (c Conversation) IsOneOnOne() bool {
	return len(c.Humans()) == 1 && len(c.AIs()) == 1
}

// Participant looks a participant up by name.
func (c Conversation) Participant(name string) (Participant, bool) {
	for _, p := range c.Participants {
		if p.Name == name {
			return p, true
		}
	}
	return Participant{}, false
}

// UnattributedTurns returns the indexes of turns whose participant does not
// name anyone in the cast. User turns are attributed to StrangerName, so a
// cast whose human has another name always reports them here.
func (c Conversation) UnattributedTurns() []int {
	names := make(map[string]struct{}, len(c.Participants))
	for _, p := range c.Participants {
		names[p.Name] = struct{}{}
	}
	var out []int
	for i, turn := range c.DialogTurns {
		if _, ok := names[turn.Participant]; !ok {
			out = append(out, i)
		}
	}
	return out
}

// Normalize replaces nil slices with empty ones so the conversation always
// encodes participants and dialogTurns as JSON arrays.
func (c Conversation) Normalize() Conversation {
	if c.Participants == nil {
		c.Participants = []Participant{}
	}
	if c.DialogTurns == nil {
		c.DialogTurns = []DialogTurn{}
	}
	return c
}
