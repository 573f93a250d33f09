package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/csvutils-cli/internal/analysis"
	"github.com/KaramelBytes/csvutils-cli/internal/profile"
	"github.com/KaramelBytes/csvutils-cli/internal/source"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a run id is not in the store.
var ErrNotFound = errors.New("run not found")

// Run is one completed profiling run.
type Run struct {
	ID        string `gorm:"primaryKey;size:36"`
	File      string `gorm:"size:512"`
	Path      string `gorm:"size:4096"`
	Delimiter string `gorm:"size:8"`
	Rows      int
	Columns   int
	Truncated bool
	CreatedAt time.Time   `gorm:"index"`
	Cols      []RunColumn `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

func (Run) TableName() string { return "runs" }

// RunColumn is the persisted profile of one column within a Run.
type RunColumn struct {
	ID           uint   `gorm:"primaryKey"`
	RunID        string `gorm:"size:36;index"`
	Position     int
	Title        string
	MaxWidth     int
	IntegerCount int
	FloatCount   int
	TextCount    int
	EverNonEmpty bool
}

func (RunColumn) TableName() string { return "run_columns" }

// Profile converts the row back into a column profile.
func (c RunColumn) Profile() profile.Column {
	return profile.Column{
		Position:     c.Position,
		Title:        c.Title,
		MaxWidth:     c.MaxWidth,
		Tally:        profile.Tally{Integer: c.IntegerCount, Float: c.FloatCount, Text: c.TextCount},
		EverNonEmpty: c.EverNonEmpty,
	}
}

// Store keeps profiling runs in a SQLite database.
type Store struct {
	db *gorm.DB
}

// Open creates or opens the database at path and migrates its schema.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("history store: path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history store: mkdir: %w", err)
	}
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("history store: open: %w", err)
	}
	if err := db.AutoMigrate(&Run{}, &RunColumn{}); err != nil {
		return nil, fmt.Errorf("history store: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record persists a finished report.
func (s *Store) Record(rep *analysis.Report) error {
	if rep == nil || rep.RunID == "" {
		return fmt.Errorf("history store: report has no run id")
	}
	delim := rep.Delimiter
	if delim == 0 {
		delim = ','
	}
	run := Run{
		ID:        rep.RunID,
		File:      rep.Name,
		Path:      rep.Path,
		Delimiter: source.DisplayDelimiter(delim),
		Rows:      rep.Rows,
		Columns:   len(rep.Cols),
		Truncated: rep.Truncated,
		CreatedAt: rep.StartedAt,
		Cols:      make([]RunColumn, 0, len(rep.Cols)),
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	for _, c := range rep.Cols {
		run.Cols = append(run.Cols, RunColumn{
			Position:     c.Position,
			Title:        c.Title,
			MaxWidth:     c.MaxWidth,
			IntegerCount: c.Tally.Integer,
			FloatCount:   c.Tally.Float,
			TextCount:    c.Tally.Text,
			EverNonEmpty: c.EverNonEmpty,
		})
	}
	if err := s.db.Create(&run).Error; err != nil {
		return fmt.Errorf("history store: insert run: %w", err)
	}
	return nil
}

// Recent lists the newest runs first, without their columns.
func (s *Store) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	if err := s.db.Order("created_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("history store: list runs: %w", err)
	}
	return runs, nil
}

// Get loads a run and its columns ordered by position.
func (s *Store) Get(id string) (*Run, error) {
	var run Run
	err := s.db.Preload("Cols", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("history store: get run: %w", err)
	}
	return &run, nil
}
