package suite

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type TestSuite struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Version     string           `yaml:"version"`
	Templates   []*QueryTemplate `yaml:"templates,omitempty"`
	Queries     []Query          `yaml:"queries"`
}

// Query is one benchmark case. Expression carries the search expression that
// engines compile natively; the Engines map overrides it with a raw
// engine-specific query where the automatic compilation is not wanted.
type Query struct {
	ID          string                 `yaml:"id"`
	Description string                 `yaml:"description"`
	Expression  string                 `yaml:"expression,omitempty"`
	Engines     map[string]EngineQuery `yaml:"engines,omitempty"`
	Judgments   []RelevanceJudgment    `yaml:"judgments"`
}

type RelevanceJudgment struct {
	DocID     string `yaml:"doc_id"`
	Relevance int    `yaml:"relevance"`
}

// EngineQuery is a raw query override for one engine. Exactly one source is
// used: an inline query, a file relative to the suite directory, or a
// registered template with params. In YAML a plain string is shorthand for
// the inline form.
type EngineQuery struct {
	Query    string         `yaml:"query,omitempty"`
	File     string         `yaml:"file,omitempty"`
	Template string         `yaml:"template,omitempty"`
	Params   TemplateParams `yaml:"params,omitempty"`
}

func (eq *EngineQuery) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&eq.Query)
	}

	type rawEngineQuery EngineQuery
	var raw rawEngineQuery
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*eq = EngineQuery(raw)
	return nil
}

type ResolvedQuery struct {
	Query string
}

// Resolve materializes the raw query: inline wins, then file, then template.
func (eq EngineQuery) Resolve(registry *TemplateRegistry, suiteDir string) (*ResolvedQuery, error) {
	switch {
	case eq.Query != "":
		return &ResolvedQuery{Query: eq.Query}, nil

	case eq.File != "":
		data, err := os.ReadFile(filepath.Join(suiteDir, eq.File))
		if err != nil {
			return nil, fmt.Errorf("read query file %q: %w", eq.File, err)
		}
		return &ResolvedQuery{Query: string(data)}, nil

	case eq.Template != "":
		if registry == nil {
			return nil, fmt.Errorf("template %q referenced but no templates registered", eq.Template)
		}
		return registry.RenderQuery(eq.Template, eq.Params)

	default:
		return nil, fmt.Errorf("engine query has no query, file, or template")
	}
}

// ResolveEngineQuery resolves the override for the named engine, or nil when
// the engine has none and should compile the expression itself.
func (q *Query) ResolveEngineQuery(engineName string, registry *TemplateRegistry, suiteDir string) (*ResolvedQuery, error) {
	eq, ok := q.Engines[engineName]
	if !ok {
		return nil, nil
	}
	return eq.Resolve(registry, suiteDir)
}

// JudgmentMap converts the judgments slice to a map keyed by doc ID.
func (q *Query) JudgmentMap() map[string]int {
	m := make(map[string]int, len(q.Judgments))
	for _, j := range q.Judgments {
		m[j.DocID] = j.Relevance
	}
	return m
}
