// Package knowledge serves the static educational snippets used to enrich prompts.
package knowledge

import (
	_ "embed"
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/Keshavr57/SmartStock/internal/common"
	"github.com/Keshavr57/SmartStock/internal/models"
)

// MaxMatches is the most snippets a single query may pull in.
const MaxMatches = 3

//go:embed topics.toml
var defaultTopics []byte

type topicsFile struct {
	Entry []models.KnowledgeEntry `toml:"entry"`
}

// Base is an immutable, ordered set of knowledge entries. Safe for concurrent use.
type Base struct {
	entries  []models.KnowledgeEntry
	keywords []string
	byTopic  map[string]int
}

// Parse builds a Base from TOML of the form [[entry]] topic=... text=...
func Parse(data []byte) (*Base, error) {
	var f topicsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge topics: %w", err)
	}
	return New(f.Entry)
}

// New builds a Base from entries, keeping their order.
func New(entries []models.KnowledgeEntry) (*Base, error) {
	b := &Base{
		entries:  make([]models.KnowledgeEntry, 0, len(entries)),
		keywords: make([]string, 0, len(entries)),
		byTopic:  make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		topic := strings.TrimSpace(e.Topic)
		if topic == "" {
			return nil, fmt.Errorf("knowledge entry %d has no topic", i)
		}
		if strings.TrimSpace(e.Text) == "" {
			return nil, fmt.Errorf("knowledge entry %q has no text", topic)
		}
		if _, dup := b.byTopic[topic]; dup {
			return nil, fmt.Errorf("duplicate knowledge topic %q", topic)
		}
		b.byTopic[topic] = len(b.entries)
		b.entries = append(b.entries, models.KnowledgeEntry{Topic: topic, Text: strings.TrimSpace(e.Text)})
		b.keywords = append(b.keywords, Keyword(topic))
	}
	return b, nil
}

// Default returns the built-in knowledge base. It panics if the embedded table is invalid.
func Default() *Base {
	b, err := Parse(defaultTopics)
	if err != nil {
		panic(err)
	}
	return b
}

// Keyword is the phrase a query must contain to match topic.
func Keyword(topic string) string {
	return strings.NewReplacer("_", " ", "-", " ").Replace(topic)
}

// Match returns up to limit entries whose keyword occurs as whole words in text.
func (b *Base) Match(text string, limit int) []models.KnowledgeEntry {
	if limit <= 0 {
		return nil
	}
	normalized := common.NormalizeQuery(text)

	var out []models.KnowledgeEntry
	for i, kw := range b.keywords {
		if !common.ContainsPhrase(normalized, kw) {
			continue
		}
		out = append(out, b.entries[i])
		if len(out) == limit {
			break
		}
	}
	return out
}

// Lookup returns the entry for topic.
func (b *Base) Lookup(topic string) (models.KnowledgeEntry, bool) {
	i, ok := b.byTopic[topic]
	if !ok {
		return models.KnowledgeEntry{}, false
	}
	return b.entries[i], true
}

// Topics lists topic keys in table order.
func (b *Base) Topics() []string {
	out := make([]string, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Topic
	}
	return out
}
