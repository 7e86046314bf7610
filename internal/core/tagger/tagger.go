// Package tagger classifies submission payloads against a keyword table
package tagger

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed tags.yaml
var defaultTable []byte

// Insight types
const (
	InsightPriority = "priority"
	InsightQuery    = "query"
)

// Category is one tag and the keywords that trigger it
type Category struct {
	Tag      string   `yaml:"tag"`
	Keywords []string `yaml:"keywords"`
}

type priorityRule struct {
	From    string `yaml:"from"`
	Message string `yaml:"message"`
	Level   string `yaml:"level"`
}

type queryRule struct {
	From    string `yaml:"from"`
	Marker  string `yaml:"marker"`
	Message string `yaml:"message"`
}

type table struct {
	Categories []Category `yaml:"categories"`
	Insights   struct {
		Priority priorityRule `yaml:"priority"`
		Query    queryRule    `yaml:"query"`
	} `yaml:"insights"`
}

// Tag is a matched category with its confidence
type Tag struct {
	Tag        string  `json:"tag"`
	Confidence float64 `json:"confidence"`
}

// Insight is a derived note about a submission
type Insight struct {
	Type     string         `json:"type"`
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Result is everything Classify derives from one payload
type Result struct {
	Tags     []Tag
	Insights []Insight
}

// Classifier matches text against a loaded keyword table
// It is immutable after Load and safe for concurrent use
type Classifier struct {
	cats     []Category
	byTag    map[string][]string
	priority priorityRule
	query    queryRule
}

// Load parses a YAML keyword table
func Load(b []byte) (*Classifier, error) {
	var t table
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("tagger: parse table: %w", err)
	}
	if len(t.Categories) == 0 {
		return nil, fmt.Errorf("tagger: table has no categories")
	}
	c := &Classifier{byTag: make(map[string][]string, len(t.Categories))}
	lower := cases.Lower(language.Und)
	for _, cat := range t.Categories {
		if cat.Tag == "" {
			return nil, fmt.Errorf("tagger: category without tag")
		}
		if _, dup := c.byTag[cat.Tag]; dup {
			return nil, fmt.Errorf("tagger: duplicate category %q", cat.Tag)
		}
		kws := make([]string, 0, len(cat.Keywords))
		seen := map[string]bool{}
		for _, k := range cat.Keywords {
			k = lower.String(strings.TrimSpace(k))
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			kws = append(kws, k)
		}
		c.cats = append(c.cats, Category{Tag: cat.Tag, Keywords: kws})
		c.byTag[cat.Tag] = kws
	}
	for _, from := range []string{t.Insights.Priority.From, t.Insights.Query.From} {
		if _, ok := c.byTag[from]; from != "" && !ok {
			return nil, fmt.Errorf("tagger: insight refers to unknown category %q", from)
		}
	}
	c.priority = t.Insights.Priority
	c.query = t.Insights.Query
	return c, nil
}

// Default returns the classifier built from the embedded table
func Default() *Classifier {
	c, err := Load(defaultTable)
	if err != nil {
		panic(err)
	}
	return c
}

// Categories returns the loaded categories in table order
func (c *Classifier) Categories() []Category {
	out := make([]Category, len(c.cats))
	copy(out, c.cats)
	return out
}

// Confidence maps a keyword hit count to [0.5, 1.0]
func Confidence(hits int) float64 {
	if hits <= 0 {
		return 0
	}
	v := math.Min(0.5+0.1*float64(hits), 1.0)
	// two decimals, 0.5+0.1*3 is not 0.8 in float64
	return math.Round(v*100) / 100
}

// Classify derives tags and insights from serialized payload text
func (c *Classifier) Classify(text string) Result {
	text = cases.Lower(language.Und).String(text)

	var res Result
	for _, cat := range c.cats {
		if n := hits(text, cat.Keywords); n > 0 {
			res.Tags = append(res.Tags, Tag{Tag: cat.Tag, Confidence: Confidence(n)})
		}
	}

	if p := c.priority; p.From != "" && hits(text, c.byTag[p.From]) > 0 {
		res.Insights = append(res.Insights, Insight{
			Type:     InsightPriority,
			Message:  p.Message,
			Metadata: map[string]any{"priority": p.Level},
		})
	}
	if q := c.query; q.From != "" || q.Marker != "" {
		marked := q.Marker != "" && strings.Contains(text, q.Marker)
		if marked || hits(text, c.byTag[q.From]) > 0 {
			res.Insights = append(res.Insights, Insight{Type: InsightQuery, Message: q.Message})
		}
	}
	return res
}

func hits(text string, kws []string) int {
	n := 0
	for _, k := range kws {
		if strings.Contains(text, k) {
			n++
		}
	}
	return n
}

// Canonical renders a JSON document as compact JSON with sorted object keys
// Numbers keep their literal form so equal payloads render byte identical
func Canonical(raw []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("tagger: canonical decode: %w", err)
	}
	return CanonicalValue(v)
}

// CanonicalValue is Canonical for an already decoded value
func CanonicalValue(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("tagger: canonical encode: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
