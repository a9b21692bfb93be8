// Package postgres implements kv.Store on a single PostgreSQL table through GORM.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barberbook/internal/kv"
)

// Entry is the row backing one key.
type Entry struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     []byte `gorm:"not null"`
	Revision  int64  `gorm:"not null;default:1"`
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "kv_entries" }

type Store struct {
	db *gorm.DB
}

// Open connects with a bounded pool and migrates the table.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return New(db)
}

// New wraps an existing connection and migrates the table.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate kv_entries: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Driver() kv.Driver { return kv.DriverPostgres }

func (s *Store) Get(ctx context.Context, key string) (kv.Entry, error) {
	var row Entry
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return kv.Entry{}, kv.ErrNotFound
	}
	if err != nil {
		return kv.Entry{}, fmt.Errorf("postgres get %s: %w", key, err)
	}
	return kv.Entry{Key: key, Value: row.Value, Revision: strconv.FormatInt(row.Revision, 10)}, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	row := Entry{Key: key, Value: value, Revision: 1, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":      value,
			"revision":   gorm.Expr("kv_entries.revision + 1"),
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("postgres set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("postgres delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) CompareAndSwap(ctx context.Context, key, revision string, value []byte) (bool, error) {
	now := time.Now().UTC()
	if revision == "" {
		res := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&Entry{Key: key, Value: value, Revision: 1, UpdatedAt: now})
		if res.Error != nil {
			return false, fmt.Errorf("postgres create %s: %w", key, res.Error)
		}
		return res.RowsAffected == 1, nil
	}

	rev, err := strconv.ParseInt(revision, 10, 64)
	if err != nil {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Model(&Entry{}).
		Where("key = ? AND revision = ?", key, rev).
		Updates(map[string]any{
			"value":      value,
			"revision":   gorm.Expr("revision + 1"),
			"updated_at": now,
		})
	if res.Error != nil {
		return false, fmt.Errorf("postgres cas %s: %w", key, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ kv.Store = (*Store)(nil)
