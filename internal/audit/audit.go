// Package audit keeps a durable append-only ledger of pipeline runs, reviewer
// adjustments, and discovered sources in a local SQLite database. Ledger
// writes are best-effort: a failed append is reported to the caller but must
// never abort a run.
package audit

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/kgrajski/neurotech-newshound/internal/record"
)

// RunRecord is one completed pipeline run.
type RunRecord struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	StartedAt    time.Time `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt   time.Time `gorm:"column:finished_at;not null" json:"finished_at"`
	Status       string    `gorm:"column:status;not null" json:"status"`
	RawCount     int       `gorm:"column:raw_count;not null;default:0" json:"raw_count"`
	InScopeCount int       `gorm:"column:in_scope_count;not null;default:0" json:"in_scope_count"`
	ScoredCount  int       `gorm:"column:scored_count;not null;default:0" json:"scored_count"`
	SkippedCount int       `gorm:"column:skipped_count;not null;default:0" json:"skipped_count"`
	AlertCount   int       `gorm:"column:alert_count;not null;default:0" json:"alert_count"`
	Errors       string    `gorm:"column:errors" json:"errors,omitempty"`
}

func (RunRecord) TableName() string { return "runs" }

// AdjustmentRecord is one reviewer score override applied during a run.
type AdjustmentRecord struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RunID    int64  `gorm:"column:run_id;not null;index" json:"run_id"`
	ItemHash string `gorm:"column:item_hash;not null" json:"item_hash"`
	Title    string `gorm:"column:title;not null" json:"title"`
	OldScore int    `gorm:"column:old_score;not null" json:"old_score"`
	NewScore int    `gorm:"column:new_score;not null" json:"new_score"`
	Reason   string `gorm:"column:reason" json:"reason,omitempty"`
}

func (AdjustmentRecord) TableName() string { return "adjustments" }

// DiscoveryRecord is one source added to the registry outside the curated set.
type DiscoveryRecord struct {
	ID       int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RunID    int64     `gorm:"column:run_id;index" json:"run_id"`
	SourceID string    `gorm:"column:source_id;not null" json:"source_id"`
	Name     string    `gorm:"column:name;not null" json:"name"`
	URL      string    `gorm:"column:url" json:"url,omitempty"`
	AddedAt  time.Time `gorm:"column:added_at;not null" json:"added_at"`
}

func (DiscoveryRecord) TableName() string { return "discoveries" }

// Ledger wraps the audit database.
type Ledger struct {
	db *gorm.DB
}

// Open opens or creates the audit database and migrates its schema.
func Open(path string) (*Ledger, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open audit db %s: %w", path, err)
	}
	if err := db.AutoMigrate(&RunRecord{}, &AdjustmentRecord{}, &DiscoveryRecord{}); err != nil {
		return nil, fmt.Errorf("migrate audit db: %w", err)
	}
	return &Ledger{db: db}, nil
}

// AppendRun writes a run row and returns its id so adjustment and discovery
// rows can reference it.
func (l *Ledger) AppendRun(run *RunRecord) (int64, error) {
	if err := l.db.Create(run).Error; err != nil {
		return 0, fmt.Errorf("append run: %w", err)
	}
	return run.ID, nil
}

// AppendAdjustments writes the reviewer overrides applied during runID.
func (l *Ledger) AppendAdjustments(runID int64, items []record.ScoredRecord) error {
	rows := make([]AdjustmentRecord, 0, len(items))
	for _, item := range items {
		if !item.Adjusted || item.OriginalScore == nil {
			continue
		}
		rows = append(rows, AdjustmentRecord{
			RunID:    runID,
			ItemHash: item.Hash,
			Title:    item.Title,
			OldScore: *item.OriginalScore,
			NewScore: item.Score,
			Reason:   item.AdjustmentReason,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := l.db.Create(&rows).Error; err != nil {
		return fmt.Errorf("append adjustments: %w", err)
	}
	return nil
}

// AppendDiscovery records a newly added source.
func (l *Ledger) AppendDiscovery(runID int64, sourceID, name, url string, at time.Time) error {
	row := DiscoveryRecord{RunID: runID, SourceID: sourceID, Name: name, URL: url, AddedAt: at}
	if err := l.db.Create(&row).Error; err != nil {
		return fmt.Errorf("append discovery: %w", err)
	}
	return nil
}

// LatestRun returns the most recent run row, or nil if the ledger is empty.
func (l *Ledger) LatestRun() (*RunRecord, error) {
	var run RunRecord
	err := l.db.Order("id DESC").First(&run).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return &run, nil
}

// Runs returns up to limit recent runs, newest first.
func (l *Ledger) Runs(limit int) ([]RunRecord, error) {
	var runs []RunRecord
	if err := l.db.Order("id DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}
