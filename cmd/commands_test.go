package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mattsolo1/grove-core/cli"
	"github.com/mattsolo1/grove-sandbox/pkg/backend"
	"github.com/mattsolo1/grove-sandbox/pkg/fakebackend"
	"github.com/mattsolo1/grove-sandbox/pkg/sandbox"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cmdResult struct {
	stdout string
	stderr string
	err    error
}

// runSandbox executes the CLI against a fresh fake backend in an empty
// working directory.
func runSandbox(t *testing.T, fake *fakebackend.Server, stdin string, args ...string) cmdResult {
	t.Helper()
	clearSandboxEnv(t)
	t.Chdir(t.TempDir())

	root := cli.NewStandardCommand("sandbox", "Character conversation sandbox")
	root.SilenceUsage = true
	root.SilenceErrors = true
	AddGlobalFlags(root)
	root.AddCommand(NewInitCmd(), NewContinueCmd(), NewConfigCmd())

	if fake != nil {
		srv := httptest.NewServer(fake)
		t.Cleanup(srv.Close)
		args = append(args, "--api-url", srv.URL)
	}

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return cmdResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func decodeConversation(t *testing.T, data string) sandbox.Conversation {
	t.Helper()
	var conversation sandbox.Conversation
	require.NoError(t, json.Unmarshal([]byte(data), &conversation))
	return conversation
}

func TestInitCommandJSON(t *testing.T) {
	fake := fakebackend.New()
	res := runSandbox(t, fake, "", "init", "--count", "1", "--json")
	require.NoError(t, res.err)

	conversation := decodeConversation(t, res.stdout)
	require.Len(t, conversation.Participants, 2)
	assert.True(t, conversation.IsOneOnOne())
	assert.NotNil(t, conversation.DialogTurns)
	assert.Empty(t, conversation.DialogTurns)
	assert.Contains(t, res.stdout, `"dialogTurns": []`)

	assert.Equal(t, []backend.InitializeCharactersRequest{{Count: 1, UserEngagementEnabled: true}}, fake.InitializeRequests())
}

func TestInitCommandPretty(t *testing.T) {
	res := runSandbox(t, fakebackend.New(), "", "init", "--count", "3", "--human=false")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "Participants:")
	assert.Contains(t, res.stdout, "Character3 (AI): "+backend.DefaultAIBackstory)
	assert.NotContains(t, res.stdout, "HUMAN")
}

func TestInitCommandValidatesBeforeCalling(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "too many with human", args: []string{"init", "--count", "5"}},
		{name: "zero characters", args: []string{"init", "--count", "0"}},
		{name: "single character without human", args: []string{"init", "--count", "1", "--human=false"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := fakebackend.New()
			res := runSandbox(t, fake, "", tt.args...)
			assert.Error(t, res.err)
			assert.Empty(t, fake.InitializeRequests())
		})
	}
}

func TestInitCommandBackendFailure(t *testing.T) {
	res := runSandbox(t, fakebackend.New(fakebackend.WithInitializeFailure()), "", "init")
	require.Error(t, res.err)

	var initErr *sandbox.InitializationError
	assert.True(t, errors.As(res.err, &initErr))
}

func oneOnOneJSON(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(sandbox.NewConversation(backend.DefaultRoster(1, true)))
	require.NoError(t, err)
	return string(data)
}

func TestContinueCommandFromStdin(t *testing.T) {
	fake := fakebackend.New()
	res := runSandbox(t, fake, oneOnOneJSON(t), "continue", "-m", "  Tell me about Valoria.  ")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "Stranger: Tell me about Valoria.")
	assert.Contains(t, res.stdout, "Character1: Character1 answers the stranger")

	sent := fake.ContinueRequests()
	require.Len(t, sent, 1)
	require.Len(t, sent[0].DialogTurns, 1)
	assert.Equal(t, sandbox.DialogTurn{Participant: sandbox.StrangerName, Content: "Tell me about Valoria."}, sent[0].DialogTurns[0])
}

func TestContinueCommandRequiresMessageOneOnOne(t *testing.T) {
	fake := fakebackend.New()
	res := runSandbox(t, fake, oneOnOneJSON(t), "continue", "-m", "   ")
	require.Error(t, res.err)
	assert.Equal(t, sandbox.InputRequiredMessage, res.err.Error())
	assert.Empty(t, fake.ContinueRequests())
}

func TestContinueCommandFromFileAsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversation.json")
	data, err := json.Marshal(sandbox.NewConversation(backend.DefaultRoster(2, false)))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	fake := fakebackend.New(fakebackend.WithSelfReflection())
	res := runSandbox(t, fake, "", "continue", "--file", path, "--json")
	require.NoError(t, res.err)

	conversation := decodeConversation(t, res.stdout)
	require.Len(t, conversation.DialogTurns, 2)
	assert.True(t, conversation.DialogTurns[0].IsSelfReflection())
	assert.Equal(t, "Character1 picks up the thread.", conversation.DialogTurns[1].Content)
	assert.Empty(t, fake.ContinueRequests()[0].DialogTurns)
}

func TestContinueCommandHidesSelfReflection(t *testing.T) {
	input, err := json.Marshal(sandbox.NewConversation(backend.DefaultRoster(2, false)))
	require.NoError(t, err)

	res := runSandbox(t, fakebackend.New(fakebackend.WithSelfReflection()), string(input), "continue")
	require.NoError(t, res.err)
	assert.NotContains(t, res.stdout, sandbox.SelfReflectionPrefix)
	assert.Contains(t, res.stdout, "Character1: Character1 picks up the thread.")
}

func TestContinueCommandFailure(t *testing.T) {
	res := runSandbox(t, fakebackend.New(fakebackend.WithContinueFailure()), oneOnOneJSON(t), "continue", "-m", "Hello")
	require.Error(t, res.err)

	var contErr *sandbox.ContinuationError
	assert.True(t, errors.As(res.err, &contErr))
	assert.Contains(t, res.stderr, sandbox.ContinueFailedMessage)
	assert.Empty(t, res.stdout)
}

func TestContinueCommandRejectsBadInput(t *testing.T) {
	res := runSandbox(t, nil, "not json", "continue")
	assert.ErrorContains(t, res.err, "parse conversation")

	res = runSandbox(t, nil, `{"participants": [], "dialogTurns": []}`, "continue")
	assert.ErrorContains(t, res.err, "no participants")
}

func TestConfigCommand(t *testing.T) {
	res := runSandbox(t, nil, "", "config", "--api-url", "http://backend:9000/", "--timeout", "5s")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "sandbox:")
	assert.Contains(t, res.stdout, "environment: development")
	assert.Contains(t, res.stdout, "api_base_url: http://backend:9000/")
	assert.Contains(t, res.stdout, "resolved_api_base_url: http://backend:9000")
	assert.Contains(t, res.stdout, "timeout: 5s")
}

func TestConfigCommandJSON(t *testing.T) {
	res := runSandbox(t, nil, "", "config", "--json")
	require.NoError(t, res.err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, EnvironmentDevelopment, got["environment"])
	assert.Equal(t, DevelopmentBaseURL, got["resolved_api_base_url"])
	assert.Equal(t, "1m0s", got["timeout"])
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, c := range []*cobra.Command{NewChatCmd(), NewInitCmd(), NewContinueCmd(), NewConfigCmd(), NewFakeBackendCmd()} {
		assert.NotEmpty(t, c.Short, c.Use)
		assert.NotNil(t, c.RunE, c.Use)
	}
}
