package sources

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStore_FirstRunSeedsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sources.json")
	registry, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("first load failed: %v", err)
	}

	if len(registry.Sources) != len(defaultSources) {
		t.Fatalf("expected %d seeded sources, got %d", len(defaultSources), len(registry.Sources))
	}
	if registry.MaxSources != MaxSources {
		t.Fatalf("expected max_sources %d, got %d", MaxSources, registry.MaxSources)
	}
	for _, s := range registry.Sources {
		if !s.Curated {
			t.Fatalf("seeded source %q must be curated", s.ID)
		}
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("first run must persist the seeded registry: %v", err)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sources.json")
	store := NewStore(path)

	registry, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	registry.RecordStats("pubmed", 25, 4, 1)
	if err := store.Save(registry); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := store.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	stats := reloaded.find("pubmed").Stats
	if stats.Runs != 1 || stats.TotalFetched != 25 || stats.InScopeCount != 4 || stats.HighScoreCount != 1 {
		t.Fatalf("stats lost in round trip: %+v", stats)
	}
}

func TestStore_MergesNewCuratedDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sources.json")
	payload := `{
  "max_sources": 40,
  "created": "2026-01-01",
  "sources": [
    {"id": "pubmed", "name": "PubMed", "category": "database", "type": "api", "enabled": true, "curated": true}
  ]
}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	registry, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(registry.Sources) != len(defaultSources) {
		t.Fatalf("expected defaults merged to %d sources, got %d", len(defaultSources), len(registry.Sources))
	}
	if registry.find("nature_neuro") == nil {
		t.Fatalf("curated defaults added in code must be merged on load")
	}
}

func TestStore_CorruptRegistryFailsFast(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sources.json")
	if err := os.WriteFile(path, []byte("[1,2"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := NewStore(path).Load(); err == nil {
		t.Fatalf("corrupt registry must fail fast, not reinitialize")
	}
}

func TestStore_SchemaViolationFailsFast(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sources.json")
	// Valid JSON but missing required fields.
	if err := os.WriteFile(path, []byte(`{"sources": []}`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := NewStore(path).Load(); err == nil {
		t.Fatalf("schema-invalid registry must fail fast")
	}
}

func TestRegistry_EnabledFilter(t *testing.T) {
	t.Parallel()

	r := testRegistry(
		Source{ID: "a", Type: "rss", Enabled: true},
		Source{ID: "b", Type: "api", Enabled: true},
		Source{ID: "c", Type: "rss", Enabled: false},
	)

	if got := len(r.Enabled("")); got != 2 {
		t.Fatalf("expected 2 enabled sources, got %d", got)
	}
	rss := r.Enabled("rss")
	if len(rss) != 1 || rss[0].ID != "a" {
		t.Fatalf("unexpected rss filter result: %+v", rss)
	}
}
