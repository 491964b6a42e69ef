package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// PostgresStore keeps one row per user with jsonb columns.
type PostgresStore struct {
	db *gorm.DB
}

func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("open postgres: empty dsn")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&ProfileRecord{}); err != nil {
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Load(ctx context.Context, userID string) (*Document, error) {
	var rec ProfileRecord
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile get: %w", err)
	}
	doc, err := decodeRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", userID, err)
	}
	return doc, nil
}

func (s *PostgresStore) Save(ctx context.Context, userID string, doc Document) error {
	rec, err := encodeRecord(userID, doc)
	if err != nil {
		return fmt.Errorf("profile %s: %w", userID, err)
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("profile upsert: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]string, error) {
	var users []string
	err := s.db.WithContext(ctx).Model(&ProfileRecord{}).Order("user_id").Pluck("user_id", &users).Error
	if err != nil {
		return nil, fmt.Errorf("profile list: %w", err)
	}
	return users, nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
