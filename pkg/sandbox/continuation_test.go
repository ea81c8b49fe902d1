package sandbox

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubContinuer struct {
	result *Conversation
	err    error
	sent   []Conversation
}

func (s *stubContinuer) ContinueConversation(ctx context.Context, conversation Conversation) (*Conversation, error) {
	s.sent = append(s.sent, conversation)
	return s.result, s.err
}

var (
	human = Participant{Type: ParticipantHuman, Name: "User", Backstory: "A curious human."}
	eamon = Participant{Type: ParticipantAI, Name: "Eamon Blackwood", Backstory: "A wandering scribe."}
	sera  = Participant{Type: ParticipantAI, Name: "Seraphina Vale", Backstory: "Exiled from Valoria."}
)

func oneOnOne() Conversation {
	return NewConversation([]Participant{human, sera})
}

func TestCanSubmit(t *testing.T) {
	tests := []struct {
		name         string
		conversation Conversation
		input        string
		inFlight     bool
		want         bool
	}{
		{"one-on-one with empty input", oneOnOne(), "", false, false},
		{"one-on-one with blank input", oneOnOne(), "  \n\t ", false, false},
		{"one-on-one with input", oneOnOne(), "hello", false, true},
		{"one-on-one in flight", oneOnOne(), "hello", true, false},
		{"ai only with empty input", NewConversation([]Participant{eamon, sera}), "", false, true},
		{"single ai without human", NewConversation([]Participant{sera}), "", false, true},
		{"group with human and empty input", NewConversation([]Participant{human, eamon, sera}), "", false, true},
		{"group in flight", NewConversation([]Participant{human, eamon, sera}), "", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanSubmit(tt.conversation, tt.input, tt.inFlight))
		})
	}
}

func TestInputRequired(t *testing.T) {
	assert.True(t, InputRequired(oneOnOne(), " "))
	assert.False(t, InputRequired(oneOnOne(), "hi"))
	assert.False(t, InputRequired(NewConversation([]Participant{human, eamon, sera}), ""))
}

func TestCandidateFor(t *testing.T) {
	base := oneOnOne().AppendTurn(DialogTurn{Participant: "Seraphina Vale", Content: "Greetings."})

	t.Run("trimmed input is appended as the stranger", func(t *testing.T) {
		candidate := CandidateFor(base, "  Tell me more about Valoria.\n")
		require.Len(t, candidate.DialogTurns, 2)
		assert.Equal(t, base.DialogTurns[0], candidate.DialogTurns[0])
		assert.Equal(t, DialogTurn{Participant: "Stranger", Content: "Tell me more about Valoria."}, candidate.DialogTurns[1])
		assert.Len(t, base.DialogTurns, 1, "the original conversation is untouched")
	})

	t.Run("blank input sends the conversation unchanged", func(t *testing.T) {
		candidate := CandidateFor(base, "   ")
		assert.Equal(t, base, candidate)
	})
}

func TestContinueSuccessReplacesConversation(t *testing.T) {
	prior := oneOnOne().AppendTurn(DialogTurn{Participant: "Seraphina Vale", Content: "Greetings, stranger."})
	serverResponse := &Conversation{
		Participants: prior.Participants,
		DialogTurns: []DialogTurn{
			{Participant: "Seraphina Vale", Content: "Greetings, stranger."},
			{Participant: "Stranger", Content: "Tell me more about Valoria."},
			{Participant: "Seraphina Vale", Content: "This is what I know about myself: I was exiled."},
			{Participant: "Seraphina Vale", Content: "Valoria is a realm of light."},
		},
	}
	client := &stubContinuer{result: serverResponse}

	var calls int
	var got Conversation
	err := Continue(context.Background(), client, prior, "Tell me more about Valoria.", func(c Conversation) {
		calls++
		got = c
	})
	require.NoError(t, err)

	require.Len(t, client.sent, 1)
	sent := client.sent[0]
	require.Len(t, sent.DialogTurns, len(prior.DialogTurns)+1)
	assert.Equal(t, prior.DialogTurns, sent.DialogTurns[:len(prior.DialogTurns)])
	assert.Equal(t, DialogTurn{Participant: "Stranger", Content: "Tell me more about Valoria."}, sent.DialogTurns[len(sent.DialogTurns)-1])

	assert.Equal(t, 1, calls)
	assert.Equal(t, *serverResponse, got)
}

func TestContinueWithoutInputSendsConversationAsIs(t *testing.T) {
	prior := NewConversation([]Participant{eamon, sera})
	client := &stubContinuer{result: &prior}

	err := Continue(context.Background(), client, prior, "", func(Conversation) {})
	require.NoError(t, err)
	require.Len(t, client.sent, 1)
	assert.Equal(t, prior, client.sent[0])
}

func TestContinueFailureLeavesConversationUntouched(t *testing.T) {
	prior := oneOnOne()
	cause := errors.New("timeout")
	client := &stubContinuer{err: cause}

	called := false
	err := Continue(context.Background(), client, prior, "hello", func(Conversation) {
		called = true
	})
	require.Error(t, err)
	assert.False(t, called)
	assert.Empty(t, prior.DialogTurns)

	var contErr *ContinuationError
	require.True(t, errors.As(err, &contErr))
	assert.Equal(t, "Failed to continue conversation. Please try again.", contErr.UserMessage())
	assert.ErrorIs(t, err, cause)
}

func TestContinueNilResponseIsAFailure(t *testing.T) {
	client := &stubContinuer{}
	called := false
	err := Continue(context.Background(), client, oneOnOne(), "hello", func(Conversation) {
		called = true
	})
	require.Error(t, err)
	assert.False(t, called)
}

func TestSelfReflectionIsResentButHidden(t *testing.T) {
	reflection := DialogTurn{Participant: "Seraphina Vale", Content: "This is what I know about myself: I was exiled."}
	conversation := oneOnOne().AppendTurn(reflection).AppendTurn(DialogTurn{Participant: "Seraphina Vale", Content: "Hello."})

	assert.NotContains(t, conversation.VisibleTurns(), reflection)

	client := &stubContinuer{result: &conversation}
	require.NoError(t, Continue(context.Background(), client, conversation, "Hi", func(Conversation) {}))
	assert.Contains(t, client.sent[0].DialogTurns, reflection)
}
