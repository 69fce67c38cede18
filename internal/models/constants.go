// Package models contains data types and constants for the generative language API.
package models

// Endpoints for the generative language API
const (
	EndpointBase = "https://generativelanguage.googleapis.com"

	// EndpointGeneratePath is formatted with the model id
	EndpointGeneratePath = "/v1beta/models/%s:generateContent"
)

// Wire roles understood by the provider
const (
	WireRoleUser  = "user"
	WireRoleModel = "model"
)

// Model identifies a provider model
type Model struct {
	Name        string
	Description string
}

// Available models
var (
	Model20Flash = Model{
		Name:        "gemini-2.0-flash",
		Description: "Fast general purpose model",
	}

	Model25Flash = Model{
		Name:        "gemini-2.5-flash",
		Description: "Newer fast model with better reasoning",
	}

	Model25Pro = Model{
		Name:        "gemini-2.5-pro",
		Description: "Most capable model, slower",
	}

	// DefaultModel is used when no model is configured
	DefaultModel = Model20Flash
)

// AllModels returns a list of all known models
func AllModels() []Model {
	return []Model{Model20Flash, Model25Flash, Model25Pro}
}

// ModelFromName returns a Model by its name.
// Unknown names are passed through so newer models work without a release.
func ModelFromName(name string) Model {
	for _, m := range AllModels() {
		if m.Name == name {
			return m
		}
	}
	if name == "" {
		return DefaultModel
	}
	return Model{Name: name}
}

// ErrorMessagePrefix is prepended to failure descriptions shown in the conversation
const ErrorMessagePrefix = "Sorry, I encountered an error. Please try again. Error: "
