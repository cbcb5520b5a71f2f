package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/javamaster/pkg/content"
	"github.com/vanderheijden86/javamaster/pkg/model"
)

// AssertPercent verifies p is a valid percentage.
func AssertPercent(t *testing.T, name string, p int) {
	t.Helper()
	if p < 0 || p > 100 {
		t.Errorf("%s = %d, want value in [0,100]", name, p)
	}
}

// AssertNoDuplicateTopicIDs verifies all topic ids are unique.
func AssertNoDuplicateTopicIDs(t *testing.T, topics []model.Topic) {
	t.Helper()
	seen := make(map[string]bool)
	for _, topic := range topics {
		if seen[topic.ID] {
			t.Errorf("duplicate topic ID: %s", topic.ID)
		}
		seen[topic.ID] = true
	}
}

// AssertTopicsValid verifies every topic passes validation.
func AssertTopicsValid(t *testing.T, topics []model.Topic) {
	t.Helper()
	for i, topic := range topics {
		if err := topic.Validate(); err != nil {
			t.Errorf("topic %d (%s) invalid: %v", i, topic.ID, err)
		}
	}
}

// AssertTranscript verifies the senders of a transcript in order.
func AssertTranscript(t *testing.T, msgs []model.ChatMessage, senders ...model.Sender) {
	t.Helper()
	if len(msgs) != len(senders) {
		t.Fatalf("transcript has %d messages, want %d", len(msgs), len(senders))
	}
	for i, m := range msgs {
		if m.Sender != senders[i] {
			t.Errorf("message %d sender = %s, want %s", i, m.Sender, senders[i])
		}
		if m.ID == "" {
			t.Errorf("message %d has no id", i)
		}
	}
}

// AssertContainsAll verifies s contains every fragment.
func AssertContainsAll(t *testing.T, s string, fragments ...string) {
	t.Helper()
	for _, f := range fragments {
		if !strings.Contains(s, f) {
			t.Errorf("expected output to contain %q\n---\n%s", f, s)
		}
	}
}

// AssertJSONEqual compares two values after JSON round-tripping.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}

	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}

	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// WriteCatalogFile writes c as YAML to dir/name and returns the path.
func WriteCatalogFile(t *testing.T, dir, name string, c content.Catalog) string {
	t.Helper()

	data, err := yaml.Marshal(c)
	if err != nil {
		t.Fatalf("failed to marshal catalog: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}
	return path
}
