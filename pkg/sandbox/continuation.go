package sandbox

import (
	"context"
	"errors"
	"strings"
)

// ConversationContinuer produces the next turn(s) of a conversation.
type ConversationContinuer interface {
	ContinueConversation(ctx context.Context, conversation Conversation) (*Conversation, error)
}

// ConversationSetter replaces the caller-owned conversation.
type ConversationSetter func(Conversation)

// CanSubmit reports whether a continuation may be requested. Nothing can be
// submitted while a request is in flight, and a one-on-one conversation needs
// user input. Every other cast lets the characters talk among themselves.
func CanSubmit(conversation Conversation, input string, inFlight bool) bool {
	if inFlight {
		return false
	}
	if conversation.IsOneOnOne() && strings.TrimSpace(input) == "" {
		return false
	}
	return true
}

// InputRequired reports whether the UI should prompt for a message.
func InputRequired(conversation Conversation, input string) bool {
	return conversation.IsOneOnOne() && strings.TrimSpace(input) == ""
}

// CandidateFor builds the conversation to send. Non-blank input becomes a
// trailing StrangerName turn; otherwise the conversation is sent unchanged.
func CandidateFor(conversation Conversation, input string) Conversation {
	content := strings.TrimSpace(input)
	if content == "" {
		return conversation
	}
	return conversation.AppendTurn(DialogTurn{
		Participant: StrangerName,
		Content:     content,
	})
}

// Continue sends the candidate conversation to the backend. On success set is
// called once with the server's conversation, which replaces local state
// wholesale. On failure set is not called and a *ContinuationError is returned.
func Continue(ctx context.Context, client ConversationContinuer, conversation Conversation, input string, set ConversationSetter) error {
	candidate := CandidateFor(conversation, input)

	if idx := candidate.UnattributedTurns(); len(idx) > 0 {
		log.WithFields(map[string]interface{}{
			"turn_indexes": idx,
		}).Debug("Conversation contains turns not attributed to any participant")
	}

	log.WithFields(map[string]interface{}{
		"participants": len(candidate.Participants),
		"turns":        len(candidate.DialogTurns),
		"with_input":   len(candidate.DialogTurns) > len(conversation.DialogTurns),
	}).Info("Continuing conversation")

	result, err := client.ContinueConversation(ctx, candidate)
	if err == nil && result == nil {
		err = errors.New("backend returned no conversation")
	}
	if err != nil {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Error("Error continuing conversation")
		return &ContinuationError{Err: err}
	}

	log.WithFields(map[string]interface{}{
		"turns": len(result.DialogTurns),
	}).Info("Conversation continued")
	set(*result)
	return nil
}
