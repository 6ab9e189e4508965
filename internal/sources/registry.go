// Package sources maintains the persistent registry of data sources and their
// per-run yield statistics. Curated sources are human-configured and permanent;
// discovered sources live or die by their yield.
package sources

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/kgrajski/neurotech-newshound/internal/globaltime"
	"github.com/kgrajski/neurotech-newshound/internal/record"
)

// MaxSources caps the total number of enabled sources.
const MaxSources = 40

// ColdDays is the silence window after which a discovered source is pruned.
const ColdDays = 30

// HighYieldRatio is the in-scope/fetched ratio above which a source is
// classified as high yield.
const HighYieldRatio = 0.3

// Stats accumulates per-source yield counters across runs.
type Stats struct {
	Runs           int    `json:"runs"`
	TotalFetched   int    `json:"total_fetched"`
	InScopeCount   int    `json:"in_scope_count"`
	HighScoreCount int    `json:"high_score_count"`
	LastHitDate    string `json:"last_hit_date,omitempty"`
	LastRunDate    string `json:"last_run_date,omitempty"`
}

// Source is one registry entry, curated or discovered.
type Source struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Category       record.SourceCategory `json:"category"`
	Type           string                `json:"type"`
	URL            string                `json:"url,omitempty"`
	Enabled        bool                  `json:"enabled"`
	Curated        bool                  `json:"curated"`
	Flagged        bool                  `json:"flagged,omitempty"`
	DiscoveredDate string                `json:"discovered_date,omitempty"`
	Stats          Stats                 `json:"stats"`
}

// Registry is the persisted source document.
type Registry struct {
	MaxSources int      `json:"max_sources"`
	Created    string   `json:"created"`
	LastPruned string   `json:"last_pruned,omitempty"`
	Sources    []Source `json:"sources"`
}

//go:embed registry.schema.json
var registrySchemaJSON string

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// Store reads and writes the registry document. Missing file means first run:
// the registry is seeded from the curated defaults. Malformed or
// schema-invalid files are errors, never silently reinitialized.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads and validates the registry, merging in any curated defaults that
// were added in code since the file was written.
func (s *Store) Load() (*Registry, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		registry := newDefaultRegistry()
		if err := s.Save(registry); err != nil {
			return nil, fmt.Errorf("initialize registry: %w", err)
		}
		return registry, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", s.path, err)
	}

	value, err := decodeStrictJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("registry %s is malformed: %w", s.path, err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load registry schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("registry %s failed schema validation: %w", s.path, err)
	}

	var registry Registry
	if err := json.Unmarshal(raw, &registry); err != nil {
		return nil, fmt.Errorf("unmarshal registry %s: %w", s.path, err)
	}

	registry.mergeDefaults()
	return &registry, nil
}

// Save persists the registry document. Like history saves, failures are fatal
// to the run: source-health invariants depend on durable state.
func (s *Store) Save(registry *Registry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}

	data, err := json.MarshalIndent(registry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write registry %s: %w", s.path, err)
	}
	return nil
}

func newDefaultRegistry() *Registry {
	registry := &Registry{
		MaxSources: MaxSources,
		Created:    globaltime.Today(),
		Sources:    make([]Source, 0, len(defaultSources)),
	}
	registry.Sources = append(registry.Sources, defaultSources...)
	return registry
}

// mergeDefaults appends curated defaults added in code after the registry
// file was first written.
func (r *Registry) mergeDefaults() {
	existing := make(map[string]struct{}, len(r.Sources))
	for _, s := range r.Sources {
		existing[s.ID] = struct{}{}
	}
	for _, def := range defaultSources {
		if _, ok := existing[def.ID]; !ok {
			r.Sources = append(r.Sources, def)
		}
	}
}

// Enabled returns enabled sources, optionally filtered by fetch mechanism.
func (r *Registry) Enabled(sourceType string) []Source {
	var out []Source
	for _, s := range r.Sources {
		if !s.Enabled {
			continue
		}
		if sourceType != "" && s.Type != sourceType {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (r *Registry) find(id string) *Source {
	for i := range r.Sources {
		if r.Sources[i].ID == id {
			return &r.Sources[i]
		}
	}
	return nil
}

// Summary renders a per-category overview for run logs.
func (r *Registry) Summary() string {
	enabled := r.Enabled("")
	byCat := map[string][]string{}
	for _, s := range enabled {
		byCat[string(s.Category)] = append(byCat[string(s.Category)], s.Name)
	}

	cats := make([]string, 0, len(byCat))
	for cat := range byCat {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	var b strings.Builder
	fmt.Fprintf(&b, "sources: %d enabled / %d total", len(enabled), len(r.Sources))
	for _, cat := range cats {
		fmt.Fprintf(&b, "\n  %s: %s", cat, strings.Join(byCat[cat], ", "))
	}
	return b.String()
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource("registry.schema.json", strings.NewReader(registrySchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("registry.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}
		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("document is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("document contains trailing content")
	}
	return value, nil
}
