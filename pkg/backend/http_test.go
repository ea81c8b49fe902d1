package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mattsolo1/grove-sandbox/pkg/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeCharactersWireFormat(t *testing.T) {
	var gotBody map[string]interface{}
	var gotHeaders http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/initializeCharacters", r.URL.Path)
		gotHeaders = r.Header.Clone()
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"type": "HUMAN", "name": "User", "backstory": "A curious human."},
			{"type": "AI", "name": "Eamon Blackwood", "backstory": "todo"}
		]`)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL+"/", time.Second)
	participants, err := client.InitializeCharacters(context.Background(), 1, true)
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"count": float64(1), "userEngagementEnabled": true}, gotBody)
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.NotEmpty(t, gotHeaders.Get("X-Request-ID"))

	require.Len(t, participants, 2)
	assert.Equal(t, sandbox.ParticipantHuman, participants[0].Type)
	assert.Equal(t, "Eamon Blackwood", participants[1].Name)
}

func TestContinueConversationWireFormat(t *testing.T) {
	var gotBody map[string]json.RawMessage

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/continueConversation", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"participants": [{"type": "AI", "name": "Seraphina Vale", "backstory": "b"}],
			"dialogTurns": [{"participant": "Seraphina Vale", "content": "Hello."}]
		}`)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)
	conversation := sandbox.Conversation{
		Participants: []sandbox.Participant{{Type: sandbox.ParticipantAI, Name: "Seraphina Vale", Backstory: "b"}},
	}
	result, err := client.ContinueConversation(context.Background(), conversation)
	require.NoError(t, err)

	require.Contains(t, gotBody, "conversation")
	assert.JSONEq(t, `{
		"participants": [{"type": "AI", "name": "Seraphina Vale", "backstory": "b"}],
		"dialogTurns": []
	}`, string(gotBody["conversation"]))

	require.Len(t, result.DialogTurns, 1)
	assert.Equal(t, "Hello.", result.DialogTurns[0].Content)
}

func TestHTTPClientStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream LLM timed out", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)
	_, err := client.ContinueConversation(context.Background(), sandbox.Conversation{})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, "upstream LLM timed out", statusErr.Body)
}

func TestHTTPClientDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not json")
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, time.Second)
	_, err := client.InitializeCharacters(context.Background(), 2, true)
	assert.Error(t, err)
}

func TestHTTPClientTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewHTTPClient(server.URL, 50*time.Millisecond)
	_, err := client.InitializeCharacters(context.Background(), 2, true)
	assert.Error(t, err)
}

func TestNewHTTPClientDefaults(t *testing.T) {
	client := NewHTTPClient("http://localhost:8000/", 0)
	assert.Equal(t, "http://localhost:8000", client.BaseURL())
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
}
