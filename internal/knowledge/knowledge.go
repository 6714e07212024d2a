// Package knowledge holds the support agent's instructional prompt and the
// store knowledge base it answers from. The knowledge base is a swappable
// payload: deployments can replace the built-in content with a YAML file
// without touching orchestration logic.
package knowledge

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Base is the knowledge payload rendered into the system prompt.
type Base struct {
	Name         string    `yaml:"name"`
	Tagline      string    `yaml:"tagline"`
	Website      string    `yaml:"website"`
	SupportEmail string    `yaml:"support_email"`
	SupportPhone string    `yaml:"support_phone"`
	Sections     []Section `yaml:"sections"`
}

// Section is one titled block of knowledge-base content.
type Section struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// LoadFile reads a knowledge base from a YAML document.
func LoadFile(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML knowledge-base content.
func Parse(data []byte) (*Base, error) {
	var base Base
	if err := yaml.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge YAML: %w", err)
	}
	if base.Name == "" {
		return nil, fmt.Errorf("knowledge base name is required")
	}
	return &base, nil
}

// SystemPrompt renders the instructional prompt with the knowledge base
// embedded. This is injected once per generation and never persisted as a
// conversation message.
func (b *Base) SystemPrompt() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are a friendly and helpful customer support agent for %s, %s.\n\n", b.Name, firstLower(b.Tagline))
	sb.WriteString(`Your role is to:
1. Answer customer questions accurately using the knowledge base provided
2. Be concise but thorough - don't give overly long responses
3. Be empathetic and professional
`)
	fmt.Fprintf(&sb, "4. If you don't know something or it's not in your knowledge base, politely say so and suggest contacting %s", b.SupportEmail)
	if b.SupportPhone != "" {
		fmt.Fprintf(&sb, " or calling %s", b.SupportPhone)
	}
	sb.WriteString("\n5. Never make up information about policies, prices, or products\n\n")

	sb.WriteString(`Important guidelines:
- Keep responses friendly but professional
- Use bullet points for lists when helpful
- If a customer seems frustrated, acknowledge their feelings
- Always offer to help further at the end of your response
- Don't use excessive emojis or overly casual language

Here is your knowledge base:
`)

	for _, section := range b.Sections {
		fmt.Fprintf(&sb, "\n## %s\n%s\n", section.Title, strings.TrimSpace(section.Body))
	}

	fmt.Fprintf(&sb, "\nRemember: You're representing %s, so maintain a helpful and trustworthy tone.", b.Name)

	return sb.String()
}

func firstLower(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
