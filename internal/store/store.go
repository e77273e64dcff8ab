package store

import (
	"context"

	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Job() Job
	Application() Application
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db          *gorm.DB
	job         Job
	application Application
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:          db,
		job:         NewJobStore(db),
		application: NewApplicationStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Job() Job {
	return s.job
}

func (s *DataStore) Application() Application {
	return s.application
}

func (s *DataStore) InitialMigration() error {
	ctx := context.Background()
	if err := s.Job().InitialMigration(ctx); err != nil {
		return err
	}
	return s.Application().InitialMigration(ctx)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
