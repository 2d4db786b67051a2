// Package server manages the ragdeck render log.
// It initializes GORM with SQLite and keeps one row per HTTP render pass.
package server

import (
	"fmt"
	"sort"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vesaa/ragdeck/internal/models"
)

// Store is the render log.
type Store struct {
	db *gorm.DB
}

// OpenStore opens the SQLite database at path and runs AutoMigrate.
func OpenStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.AutoMigrate(&models.RenderEvent{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record persists one render pass.
func (s *Store) Record(ev *models.RenderEvent) error {
	return s.db.Create(ev).Error
}

// Stats aggregates the log per page, sorted by page slug.
func (s *Store) Stats() ([]models.PageStat, error) {
	var events []models.RenderEvent
	if err := s.db.Order("id asc").Find(&events).Error; err != nil {
		return nil, err
	}

	byPage := make(map[string]*models.PageStat)
	for _, ev := range events {
		st, ok := byPage[ev.Page]
		if !ok {
			st = &models.PageStat{Page: ev.Page}
			byPage[ev.Page] = st
		}
		st.Renders++
		if !ev.OK {
			st.Failures++
			st.LastError = ev.Error
		}
		st.LastRenderAt = ev.CreatedAt
	}

	out := make([]models.PageStat, 0, len(byPage))
	for _, st := range byPage {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Page < out[j].Page })
	return out, nil
}
