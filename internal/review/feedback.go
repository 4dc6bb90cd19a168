package review

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"vegly/internal/core"
	"vegly/internal/logger"
)

const feedbackType = "hitl_correction"

// recentLimit caps the feedback tail returned by Stats.
const recentLimit = 20

// FeedbackLog is an append-only JSONL record of human corrections, kept
// for knowledge base curation and accuracy analysis.
type FeedbackLog struct {
	mu   sync.Mutex
	path string
	log  *slog.Logger
}

// NewFeedbackLog writes to the JSONL file at path, creating parent
// directories on first append.
func NewFeedbackLog(path string) *FeedbackLog {
	return &FeedbackLog{path: path, log: logger.Get()}
}

// Path returns the log file location.
func (l *FeedbackLog) Path() string {
	return l.path
}

// Append writes one record per correction. Callers should log and move
// on when this fails; a correction must not be rejected because feedback
// could not be persisted.
func (l *FeedbackLog) Append(requestID string, corrections []core.Correction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create feedback dir: %w", err)
		}
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open feedback log: %w", err)
	}
	defer f.Close()

	for _, c := range corrections {
		record := core.FeedbackRecord{
			Timestamp:    time.Now().UTC(),
			RequestID:    requestID,
			DishName:     c.Name,
			HumanLabel:   c.IsVegetarian,
			FeedbackType: feedbackType,
		}
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encode feedback record: %w", err)
		}
		if _, err := f.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("write feedback record: %w", err)
		}
	}

	l.log.Info("Logged corrections", "count", len(corrections), "path", l.path)
	return nil
}

// DishStats counts human labels for one dish.
type DishStats struct {
	VegCount    int `json:"veg_count"`
	NonVegCount int `json:"non_veg_count"`
}

// Stats aggregates the collected feedback.
type Stats struct {
	TotalCorrections int                   `json:"total_corrections"`
	UniqueDishes     int                   `json:"unique_dishes"`
	DishStats        map[string]DishStats  `json:"dish_stats"`
	RecentFeedback   []core.FeedbackRecord `json:"recent_feedback"`
}

// Stats reads the whole log and aggregates per-dish counts plus the most
// recent records. A missing file is an empty log; malformed lines are
// skipped with a warning.
func (l *FeedbackLog) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := Stats{
		DishStats:      map[string]DishStats{},
		RecentFeedback: []core.FeedbackRecord{},
	}

	f, err := os.Open(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.log.Error("Failed to open feedback log", "error", err, "path", l.path)
		}
		return stats
	}
	defer f.Close()

	var records []core.FeedbackRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record core.FeedbackRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			l.log.Warn("Skipping malformed feedback line", "error", err)
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		l.log.Error("Failed to read feedback log", "error", err, "path", l.path)
	}

	for _, r := range records {
		d := stats.DishStats[r.DishName]
		if r.HumanLabel {
			d.VegCount++
		} else {
			d.NonVegCount++
		}
		stats.DishStats[r.DishName] = d
	}

	stats.TotalCorrections = len(records)
	stats.UniqueDishes = len(stats.DishStats)
	if len(records) > recentLimit {
		records = records[len(records)-recentLimit:]
	}
	stats.RecentFeedback = append(stats.RecentFeedback, records...)
	return stats
}
