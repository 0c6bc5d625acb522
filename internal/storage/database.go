package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ikclouds/not-fight-club/internal/constants"
	"github.com/ikclouds/not-fight-club/internal/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Entry is one persisted key-value pair.
type Entry struct {
	Scope     string `gorm:"column:entry_scope;primaryKey;size:16"`
	Key       string `gorm:"column:entry_key;primaryKey;size:64"`
	Value     string `gorm:"column:entry_value;type:text"`
	UpdatedAt time.Time
}

// TableName overrides the default GORM table name so the persisted table is
// `kv_entries` instead of `entries`.
func (Entry) TableName() string { return "kv_entries" }

// OpenDB opens (creating if needed) the SQLite database at dataSourceName
// and migrates the schema.
func OpenDB(dataSourceName string) (*gorm.DB, error) {
	if dir := filepath.Dir(dataSourceName); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dir, err)
		}
	}
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return db, nil
}

type sqlStore struct {
	db *gorm.DB
}

// NewSQLStore returns a Store over db. Session rows left by a previous
// process are removed so every process starts a new session.
func NewSQLStore(db *gorm.DB) (Store, error) {
	s := &sqlStore{db: db}
	if err := s.ClearSession(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *sqlStore) Get(scope Scope, key string) (string, bool, error) {
	var e Entry
	err := s.db.Where("entry_scope = ? AND entry_key = ?", string(scope), key).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return e.Value, true, nil
}

func (s *sqlStore) Set(scope Scope, key, value string) error {
	e := Entry{Scope: string(scope), Key: key, Value: value}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_scope"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"entry_value", "updated_at"}),
	}).Create(&e).Error
}

func (s *sqlStore) ClearSession() error {
	res := s.db.Where("entry_scope = ?", string(Session)).Delete(&Entry{})
	if res.Error != nil {
		return fmt.Errorf("clear session entries: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		logging.Info("session cleared", logging.Fields{"rows": res.RowsAffected})
	}
	return nil
}

func (s *sqlStore) Remove(scope Scope, key string) error {
	err := s.db.Where("entry_scope = ? AND entry_key = ?", string(scope), key).Delete(&Entry{}).Error
	if err != nil {
		logging.Error("failed to remove entry", err, logging.Fields{constants.LogFieldScope: scope, constants.LogFieldKey: key})
	}
	return err
}
