// Package api provides the generative language API client implementation.
package api

// GJSON paths for extracting values from generateContent responses.
const (
	// PathCandidateText is the reply text of the first candidate
	PathCandidateText = "candidates.0.content.parts.0.text"

	// PathBlockReason is set when the prompt was blocked and no candidates exist
	PathBlockReason = "promptFeedback.blockReason"

	// PathFinishReason is the first candidate's finish reason
	PathFinishReason = "candidates.0.finishReason"

	// PathErrorMessage is the message of an error envelope on non-2xx responses
	PathErrorMessage = "error.message"
)
