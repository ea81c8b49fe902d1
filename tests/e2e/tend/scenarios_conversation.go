// File: tests/e2e/tend/scenarios_conversation.go
package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mattsolo1/grove-sandbox/pkg/fakebackend"
	"github.com/mattsolo1/grove-sandbox/pkg/sandbox"
	"github.com/mattsolo1/grove-tend/pkg/fs"
	"github.com/mattsolo1/grove-tend/pkg/harness"
)

const failedMessage = "Failed to continue conversation. Please try again."

// HeadlessConversationScenario initializes a one-on-one cast and continues it
// through the headless commands.
func HeadlessConversationScenario() *harness.Scenario {
	backend := newFakeBackend()
	return &harness.Scenario{
		Name:        "sandbox-headless-conversation",
		Description: "Initializes a roster and continues the conversation with and without user input.",
		Tags:        []string{"init", "continue"},
		Steps: []harness.Step{
			backend.Start(),
			harness.NewStep("Initialize a one-on-one roster", func(ctx *harness.Context) error {
				cmd, err := sandboxCommand(ctx, "init", "--count", "1", "--json")
				if err != nil {
					return err
				}
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.Error != nil {
					return result.Error
				}

				var conversation sandbox.Conversation
				if err := json.Unmarshal([]byte(result.Stdout), &conversation); err != nil {
					return fmt.Errorf("init output is not a conversation: %w", err)
				}
				if !conversation.IsOneOnOne() {
					return fmt.Errorf("expected one user and one character, got %d participants", len(conversation.Participants))
				}
				return fs.WriteString(filepath.Join(ctx.RootDir, "conversation.json"), result.Stdout)
			}),
			harness.NewStep("Continue without a message is refused", func(ctx *harness.Context) error {
				cmd, err := sandboxCommand(ctx, "continue", "--file", "conversation.json")
				if err != nil {
					return err
				}
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.Error == nil {
					return fmt.Errorf("continue without a message should fail in a one-on-one conversation")
				}
				if !strings.Contains(result.Stderr, "Please type a message to continue the conversation.") {
					return fmt.Errorf("expected the input-required message, got: %s", result.Stderr)
				}
				return nil
			}),
			harness.NewStep("Continue with a message", func(ctx *harness.Context) error {
				cmd, err := sandboxCommand(ctx, "continue", "--file", "conversation.json", "-m", "Tell me about Valoria.")
				if err != nil {
					return err
				}
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.Error != nil {
					return result.Error
				}
				for _, want := range []string{"Stranger: Tell me about Valoria.", "Character1: "} {
					if !strings.Contains(result.Stdout, want) {
						return fmt.Errorf("expected %q in output:\n%s", want, result.Stdout)
					}
				}
				return nil
			}),
			harness.NewStep("Let AI-only characters talk", func(ctx *harness.Context) error {
				cmd, err := sandboxCommand(ctx, "init", "--count", "3", "--human=false", "--json")
				if err != nil {
					return err
				}
				result := cmd.Run()
				if result.Error != nil {
					return result.Error
				}
				if err := fs.WriteString(filepath.Join(ctx.RootDir, "ai-only.json"), result.Stdout); err != nil {
					return err
				}

				cmd, err = sandboxCommand(ctx, "continue", "--file", "ai-only.json")
				if err != nil {
					return err
				}
				result = cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.Error != nil {
					return result.Error
				}
				if !strings.Contains(result.Stdout, "Character1 picks up the thread.") {
					return fmt.Errorf("expected the first character to speak, got:\n%s", result.Stdout)
				}
				return nil
			}),
			backend.Stop(),
		},
	}
}

// SelfReflectionScenario checks that self-reflection turns are kept in the
// conversation but hidden from the transcript.
func SelfReflectionScenario() *harness.Scenario {
	backend := newFakeBackend(fakebackend.WithSelfReflection())
	return &harness.Scenario{
		Name:        "sandbox-self-reflection-hidden",
		Description: "Self-reflection turns survive in JSON output but are not printed.",
		Tags:        []string{"continue", "view"},
		Steps: []harness.Step{
			backend.Start(),
			harness.NewStep("Initialize AI-only roster", func(ctx *harness.Context) error {
				cmd, err := sandboxCommand(ctx, "init", "--count", "2", "--human=false", "--json")
				if err != nil {
					return err
				}
				result := cmd.Run()
				if result.Error != nil {
					return result.Error
				}
				return fs.WriteString(filepath.Join(ctx.RootDir, "conversation.json"), result.Stdout)
			}),
			harness.NewStep("JSON output keeps the reflection", func(ctx *harness.Context) error {
				cmd, err := sandboxCommand(ctx, "continue", "--file", "conversation.json", "--json")
				if err != nil {
					return err
				}
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.Error != nil {
					return result.Error
				}
				if !strings.Contains(result.Stdout, sandbox.SelfReflectionPrefix) {
					return fmt.Errorf("expected the self-reflection turn in JSON output")
				}
				return nil
			}),
			harness.NewStep("Pretty output hides the reflection", func(ctx *harness.Context) error {
				cmd, err := sandboxCommand(ctx, "continue", "--file", "conversation.json")
				if err != nil {
					return err
				}
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.Error != nil {
					return result.Error
				}
				if strings.Contains(result.Stdout, sandbox.SelfReflectionPrefix) {
					return fmt.Errorf("self-reflection turn should not be printed")
				}
				return nil
			}),
			backend.Stop(),
		},
	}
}

// ContinueFailureScenario checks the fixed failure message and that the
// input conversation is left untouched.
func ContinueFailureScenario() *harness.Scenario {
	backend := newFakeBackend(fakebackend.WithContinueFailure())
	return &harness.Scenario{
		Name:        "sandbox-continue-failure",
		Description: "A failed continuation reports the fixed message and changes nothing.",
		Tags:        []string{"continue", "errors"},
		Steps: []harness.Step{
			backend.Start(),
			harness.NewStep("Initialize roster", func(ctx *harness.Context) error {
				cmd, err := sandboxCommand(ctx, "init", "--count", "2", "--json")
				if err != nil {
					return err
				}
				result := cmd.Run()
				if result.Error != nil {
					return result.Error
				}
				return fs.WriteString(filepath.Join(ctx.RootDir, "conversation.json"), result.Stdout)
			}),
			harness.NewStep("Continue fails with the fixed message", func(ctx *harness.Context) error {
				path := filepath.Join(ctx.RootDir, "conversation.json")
				before, err := fs.ReadString(path)
				if err != nil {
					return err
				}

				cmd, err := sandboxCommand(ctx, "continue", "--file", "conversation.json", "-m", "Hello?")
				if err != nil {
					return err
				}
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.Error == nil {
					return fmt.Errorf("continue should fail when the backend errors")
				}
				if !strings.Contains(result.Stderr, failedMessage) {
					return fmt.Errorf("expected %q on stderr, got: %s", failedMessage, result.Stderr)
				}

				after, err := fs.ReadString(path)
				if err != nil {
					return err
				}
				if before != after {
					return fmt.Errorf("conversation file should not change on failure")
				}
				return nil
			}),
			backend.Stop(),
		},
	}
}
