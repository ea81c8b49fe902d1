package sandbox

import "fmt"

// ContinueFailedMessage is shown to the user when a continuation fails.
const ContinueFailedMessage = "Failed to continue conversation. Please try again."

// InputRequiredMessage prompts for input in a one-on-one conversation.
const InputRequiredMessage = "Please type a message to continue the conversation."

// InitializationError reports a failed roster request.
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialize characters: %v", e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

// ContinuationError reports a failed turn request. The conversation it was
// raised for is left as it was.
type ContinuationError struct {
	Err error
}

func (e *ContinuationError) Error() string {
	return fmt.Sprintf("continue conversation: %v", e.Err)
}

func (e *ContinuationError) Unwrap() error {
	return e.Err
}

// UserMessage is the fixed text surfaced in the UI.
func (e *ContinuationError) UserMessage() string {
	return ContinueFailedMessage
}
