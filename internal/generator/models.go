package generator

// Request is the input of the generate-message action.
type Request struct {
	LayoutTemplate string `json:"layoutTemplate"`
	Tone           string `json:"tone,omitempty"`
}

// Result is the output of the generate-message action. Message holds the
// generated copy on success and a user-facing failure string otherwise.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Output is the structured response requested from providers that support schemas.
type Output struct {
	MessageCopy string `json:"messageCopy" jsonschema:"description=The generated message copy."`
}

// FailureMessage is returned to the UI whenever generation fails.
const FailureMessage = "Failed to generate message. Please try again."
