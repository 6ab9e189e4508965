package vocab

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fixture = `settings:
  pubmed_field: Title/Abstract
  max_terms_per_category: 3
primary_terms:
  interfaces:
    - brain-computer interface
    - BCI
  hardware:
    - microelectrode*
qualifier_terms:
  context:
    - implant*
    - human
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocabulary.yaml")
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	v, err := Load(filepath.Join(t.TempDir(), "vocabulary.yaml"))
	if err != nil {
		t.Fatalf("missing vocabulary must not be an error: %v", err)
	}
	if len(v.PrimaryTerms()) != 0 {
		t.Fatalf("expected empty vocabulary")
	}
	if v.PubMedQuery() != "" {
		t.Fatalf("empty vocabulary must build an empty query")
	}
}

func TestTerms_FlattenedAndDeduplicated(t *testing.T) {
	t.Parallel()

	v, err := Load(writeFixture(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	primary := v.PrimaryTerms()
	if len(primary) != 3 {
		t.Fatalf("expected 3 primary terms, got %d: %v", len(primary), primary)
	}
	if len(v.QualifierTerms()) != 2 {
		t.Fatalf("expected 2 qualifier terms")
	}
}

func TestPubMedQuery(t *testing.T) {
	t.Parallel()

	v, err := Load(writeFixture(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	query := v.PubMedQuery()
	if !strings.Contains(query, `"brain-computer interface"[Title/Abstract]`) {
		t.Fatalf("multi-word phrase must be quoted, got %q", query)
	}
	if !strings.Contains(query, "microelectrode*[Title/Abstract]") {
		t.Fatalf("wildcard term must stay unquoted, got %q", query)
	}
	if !strings.Contains(query, ") AND (") {
		t.Fatalf("query must AND primary and qualifier clauses, got %q", query)
	}
}

func TestRegexTerms_StripWildcardsAndShortTerms(t *testing.T) {
	t.Parallel()

	v, err := Load(writeFixture(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	for _, term := range v.RegexTerms() {
		if strings.HasSuffix(term, "*") {
			t.Fatalf("regex term %q kept its wildcard", term)
		}
		if len(term) < 3 {
			t.Fatalf("regex term %q under three characters", term)
		}
	}
}

func TestAddTerms(t *testing.T) {
	t.Parallel()

	path := writeFixture(t)
	v, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	added, skipped, err := v.AddTerms([]TermEntry{
		{Term: "stentrode", Group: "primary", Category: "hardware"},
		{Term: "BCI", Group: "primary", Category: "interfaces"},
	}, "unit test", false)
	if err != nil {
		t.Fatalf("add terms: %v", err)
	}
	if len(added) != 1 || added[0] != "stentrode" {
		t.Fatalf("unexpected added terms: %v", added)
	}
	if len(skipped) != 1 || !strings.Contains(skipped[0], "duplicate") {
		t.Fatalf("expected BCI skipped as duplicate, got %v", skipped)
	}

	// Persisted with provenance: reload from disk and confirm.
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	found := false
	for _, term := range reloaded.PrimaryTerms() {
		if term == "stentrode" {
			found = true
		}
	}
	if !found {
		t.Fatalf("added term must survive a reload")
	}
}

func TestAddTerms_CategoryLimit(t *testing.T) {
	t.Parallel()

	v, err := Load(writeFixture(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// interfaces already has 2 terms; the limit is 3.
	_, _, err = v.AddTerms([]TermEntry{
		{Term: "neural lace", Group: "primary", Category: "interfaces"},
		{Term: "cortical modem", Group: "primary", Category: "interfaces"},
	}, "unit test", true)
	if err != nil {
		t.Fatalf("add terms: %v", err)
	}

	added, skipped, err := v.AddTerms([]TermEntry{
		{Term: "synthetic telepathy", Group: "primary", Category: "interfaces"},
	}, "unit test", true)
	if err != nil {
		t.Fatalf("add terms: %v", err)
	}
	if len(added) != 0 {
		t.Fatalf("category at limit must not accept more terms, added %v", added)
	}
	if len(skipped) != 1 || !strings.Contains(skipped[0], "limit") {
		t.Fatalf("expected limit skip reason, got %v", skipped)
	}
}

func TestAddTerms_DryRunDoesNotPersist(t *testing.T) {
	t.Parallel()

	path := writeFixture(t)
	v, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, _, err := v.AddTerms([]TermEntry{
		{Term: "stentrode", Group: "primary", Category: "hardware"},
	}, "unit test", true); err != nil {
		t.Fatalf("dry-run add: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	for _, term := range reloaded.PrimaryTerms() {
		if term == "stentrode" {
			t.Fatalf("dry run must not write to disk")
		}
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	v, err := Load(writeFixture(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	stats := v.Stats()
	if stats.PrimaryTotal != 3 || stats.QualifierTotal != 2 || stats.GrandTotal != 5 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Primary["interfaces"] != 2 {
		t.Fatalf("expected 2 interface terms, got %d", stats.Primary["interfaces"])
	}
}
