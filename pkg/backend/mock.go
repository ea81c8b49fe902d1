package backend

import (
	"context"
	"sync"

	"github.com/mattsolo1/grove-sandbox/pkg/sandbox"
)

// MockClient is a mock implementation of Client for testing.
// It records every request without touching the network.
type MockClient struct {
	mu sync.Mutex

	// InitializeRequests records all roster requests
	InitializeRequests []InitializeCharactersRequest

	// ContinueRequests records every conversation that was sent
	ContinueRequests []sandbox.Conversation

	// InitializeFunc allows custom behavior for InitializeCharacters in tests
	InitializeFunc func(count int, userEngagementEnabled bool) ([]sandbox.Participant, error)

	// ContinueFunc allows custom behavior for ContinueConversation in tests
	ContinueFunc func(conversation sandbox.Conversation) (*sandbox.Conversation, error)
}

// InitializeCharacters implements the Client interface for testing.
// By default it returns one AI per requested character, plus the user.
func (m *MockClient) InitializeCharacters(ctx context.Context, count int, userEngagementEnabled bool) ([]sandbox.Participant, error) {
	m.mu.Lock()
	m.InitializeRequests = append(m.InitializeRequests, InitializeCharactersRequest{
		Count:                 count,
		UserEngagementEnabled: userEngagementEnabled,
	})
	fn := m.InitializeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(count, userEngagementEnabled)
	}
	return DefaultRoster(count, userEngagementEnabled), nil
}

// ContinueConversation implements the Client interface for testing.
// By default the conversation is echoed back.
func (m *MockClient) ContinueConversation(ctx context.Context, conversation sandbox.Conversation) (*sandbox.Conversation, error) {
	m.mu.Lock()
	m.ContinueRequests = append(m.ContinueRequests, conversation)
	fn := m.ContinueFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(conversation)
	}
	return &conversation, nil
}

// LastContinueRequest returns the most recent conversation sent, if any.
func (m *MockClient) LastContinueRequest() (sandbox.Conversation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.ContinueRequests) == 0 {
		return sandbox.Conversation{}, false
	}
	return m.ContinueRequests[len(m.ContinueRequests)-1], true
}
