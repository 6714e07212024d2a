package knowledge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleYAML = `name: Acme Outfitters
tagline: Gear for every trail
website: https://acme.example
support_email: help@acme.example
support_phone: 1-800-555-0100
sections:
  - title: Shipping
    body: |
      Orders ship within 2 business days.
  - title: Returns
    body: |
      30-day returns on unworn items.
`

func TestParse(t *testing.T) {
	t.Run("parses a full document", func(t *testing.T) {
		base, err := Parse([]byte(sampleYAML))
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if base.Name != "Acme Outfitters" {
			t.Errorf("unexpected name: %q", base.Name)
		}
		if base.SupportEmail != "help@acme.example" {
			t.Errorf("unexpected support email: %q", base.SupportEmail)
		}
		if len(base.Sections) != 2 {
			t.Fatalf("expected 2 sections, got %d", len(base.Sections))
		}
		if base.Sections[1].Title != "Returns" {
			t.Errorf("unexpected section title: %q", base.Sections[1].Title)
		}
	})

	t.Run("rejects a document without a name", func(t *testing.T) {
		_, err := Parse([]byte("tagline: nameless\n"))
		if err == nil {
			t.Fatal("expected an error for a missing name")
		}
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("name: [unclosed"))
		if err == nil {
			t.Fatal("expected a parse error")
		}
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("loads from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kb.yaml")
		if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		base, err := LoadFile(path)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if base.Name != "Acme Outfitters" {
			t.Errorf("unexpected name: %q", base.Name)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatal("expected an error for a missing file")
		}
	})
}

func TestSystemPrompt(t *testing.T) {
	base, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	prompt := base.SystemPrompt()

	wantFragments := []string{
		"customer support agent for Acme Outfitters, gear for every trail",
		"contacting help@acme.example or calling 1-800-555-0100",
		"## Shipping",
		"Orders ship within 2 business days.",
		"## Returns",
		"representing Acme Outfitters",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}
}

func TestDefault(t *testing.T) {
	base := Default()
	if base.Name == "" {
		t.Fatal("default knowledge base must have a name")
	}
	if len(base.Sections) == 0 {
		t.Fatal("default knowledge base must have sections")
	}

	prompt := base.SystemPrompt()
	for _, section := range base.Sections {
		if !strings.Contains(prompt, "## "+section.Title) {
			t.Errorf("prompt missing section %q", section.Title)
		}
	}
}
