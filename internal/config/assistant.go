package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Assistant is the static profile of the chat assistant: its title, the
// instruction sent ahead of every conversation and the canned questions.
type Assistant struct {
	Name              string   `yaml:"name"`
	Title             string   `yaml:"title"`
	QuestionsHeading  string   `yaml:"questions_heading"`
	SystemInstruction string   `yaml:"system_instruction"`
	Questions         []string `yaml:"questions"`
}

// defaultSystemInstruction directs concise, list-friendly, emoji-annotated replies
const defaultSystemInstruction = `You are a logistics assistant. Provide concise, well-formatted responses with bullet points or numbered lists when appropriate. Keep responses brief and to the point. Format your response as follows:
- Use bullet points for lists
- Use bold for important information
- Keep paragraphs short (2-3 lines max)
- Use emojis for better visual organization
- Include relevant details only
- Use clear headings when needed
- Format numbers and prices clearly
- Use line breaks for better readability`

// DefaultQuestions returns the canned questions in display order
func DefaultQuestions() []string {
	return []string{
		"How do I send an item through your service?",
		"What are the delivery options available?",
		"How is the price calculated?",
		"What items can I send?",
		"How do I track my shipment?",
		"What are the delivery time estimates?",
		"How do I become a delivery partner?",
		"What are the payment methods accepted?",
		"What are the weight and size limits?",
		"How do I calculate shipping costs?",
	}
}

// DefaultAssistant returns the built-in assistant profile
func DefaultAssistant() Assistant {
	return Assistant{
		Name:              "wedeliver",
		Title:             "WeDeliver",
		QuestionsHeading:  "Common Questions",
		SystemInstruction: defaultSystemInstruction,
		Questions:         DefaultQuestions(),
	}
}

// GetAssistantPath returns the path to the assistant profile override
func GetAssistantPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "assistant.yaml"), nil
}

// LoadAssistant loads the assistant profile, falling back to the defaults
func LoadAssistant() (Assistant, error) {
	path, err := GetAssistantPath()
	if err != nil {
		return DefaultAssistant(), err
	}
	return LoadAssistantFrom(path)
}

// LoadAssistantFrom reads a YAML profile from path and merges it over the
// defaults. Empty fields keep their default value. A missing file is not an error.
func LoadAssistantFrom(path string) (Assistant, error) {
	def := DefaultAssistant()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return def, nil
		}
		return def, errors.Wrap(err, "failed to read assistant profile")
	}

	var custom Assistant
	if err := yaml.Unmarshal(data, &custom); err != nil {
		return def, errors.Wrapf(err, "failed to parse assistant profile %s", path)
	}

	return mergeAssistant(def, custom), nil
}

// mergeAssistant overlays the non-empty fields of custom on def
func mergeAssistant(def, custom Assistant) Assistant {
	if strings.TrimSpace(custom.Name) != "" {
		def.Name = custom.Name
	}
	if strings.TrimSpace(custom.Title) != "" {
		def.Title = custom.Title
	}
	if strings.TrimSpace(custom.QuestionsHeading) != "" {
		def.QuestionsHeading = custom.QuestionsHeading
	}
	if strings.TrimSpace(custom.SystemInstruction) != "" {
		def.SystemInstruction = strings.TrimSpace(custom.SystemInstruction)
	}

	var questions []string
	for _, q := range custom.Questions {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}
	if len(questions) > 0 {
		def.Questions = questions
	}
	return def
}

// SaveAssistantTo writes the profile as YAML, mainly so users can start from the defaults
func SaveAssistantTo(path string, a Assistant) error {
	data, err := yaml.Marshal(a)
	if err != nil {
		return errors.Wrap(err, "failed to marshal assistant profile")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(err, "failed to write assistant profile")
	}
	return nil
}
