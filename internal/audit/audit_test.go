package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/kgrajski/neurotech-newshound/internal/record"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	ledger, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return ledger
}

func TestLedger_RunRoundTrip(t *testing.T) {
	ledger := openTestLedger(t)

	latest, err := ledger.LatestRun()
	if err != nil {
		t.Fatalf("LatestRun on empty ledger: %v", err)
	}
	if latest != nil {
		t.Fatalf("empty ledger returned a run: %+v", latest)
	}

	started := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	runID, err := ledger.AppendRun(&RunRecord{
		StartedAt:    started,
		FinishedAt:   started.Add(2 * time.Minute),
		Status:       "completed",
		RawCount:     120,
		InScopeCount: 30,
		ScoredCount:  18,
		SkippedCount: 12,
		AlertCount:   2,
	})
	if err != nil {
		t.Fatalf("AppendRun: %v", err)
	}
	if runID == 0 {
		t.Fatal("AppendRun returned zero id")
	}

	latest, err = ledger.LatestRun()
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if latest == nil || latest.ID != runID || latest.AlertCount != 2 {
		t.Fatalf("latest run = %+v, want id %d with 2 alerts", latest, runID)
	}
}

func TestLedger_AppendAdjustmentsSkipsUnadjusted(t *testing.T) {
	ledger := openTestLedger(t)

	runID, err := ledger.AppendRun(&RunRecord{Status: "completed", StartedAt: time.Now(), FinishedAt: time.Now()})
	if err != nil {
		t.Fatalf("AppendRun: %v", err)
	}

	original := 9
	items := []record.ScoredRecord{
		{Score: 8}, // untouched by review
		{
			ScopedRecord:     record.ScopedRecord{Hash: "abc123", Record: record.Record{Title: "Adjusted item"}},
			Score:            6,
			Adjusted:         true,
			OriginalScore:    &original,
			AdjustmentReason: "duplicate coverage",
		},
	}
	if err := ledger.AppendAdjustments(runID, items); err != nil {
		t.Fatalf("AppendAdjustments: %v", err)
	}

	var rows []AdjustmentRecord
	if err := ledger.db.Find(&rows).Error; err != nil {
		t.Fatalf("read adjustments: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("stored %d adjustment rows, want 1", len(rows))
	}
	if rows[0].OldScore != 9 || rows[0].NewScore != 6 || rows[0].ItemHash != "abc123" {
		t.Fatalf("adjustment row = %+v", rows[0])
	}
}

func TestLedger_Runs_NewestFirst(t *testing.T) {
	ledger := openTestLedger(t)

	for i := 0; i < 3; i++ {
		if _, err := ledger.AppendRun(&RunRecord{Status: "completed", StartedAt: time.Now(), FinishedAt: time.Now()}); err != nil {
			t.Fatalf("AppendRun %d: %v", i, err)
		}
	}

	runs, err := ledger.Runs(2)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID < runs[1].ID {
		t.Fatalf("runs not newest first: %d then %d", runs[0].ID, runs[1].ID)
	}
}
