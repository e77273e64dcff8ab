package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cleanmatch/cleanmatch/internal/store/model"
)

type Application interface {
	List(ctx context.Context, filter *ApplicationQueryFilter) (model.ApplicationList, error)
	ListWithOffer(ctx context.Context, filter *ApplicationQueryFilter) (model.ApplicationList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Application, error)
	Create(ctx context.Context, application model.Application) (*model.Application, error)
	ExistsFor(ctx context.Context, offerID, cleanerID uuid.UUID) (bool, error)
	RejectAllExcept(ctx context.Context, offerID, selectedID uuid.UUID) (int64, error)
	MarkSelected(ctx context.Context, id uuid.UUID, selectedAt time.Time) (*model.Application, error)
	InitialMigration(ctx context.Context) error
}

type ApplicationStore struct {
	db *gorm.DB
}

// Make sure we conform to Application interface
var _ Application = (*ApplicationStore)(nil)

func NewApplicationStore(db *gorm.DB) Application {
	return &ApplicationStore{db: db}
}

func (s *ApplicationStore) InitialMigration(ctx context.Context) error {
	return s.getDB(ctx).AutoMigrate(&model.Application{})
}

func (s *ApplicationStore) List(ctx context.Context, filter *ApplicationQueryFilter) (model.ApplicationList, error) {
	var applications model.ApplicationList
	tx := s.getDB(ctx).Model(&applications).Order("created_at DESC")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if result := tx.Find(&applications); result.Error != nil {
		return nil, result.Error
	}
	return applications, nil
}

// ListWithOffer loads applications together with the job they reference.
func (s *ApplicationStore) ListWithOffer(ctx context.Context, filter *ApplicationQueryFilter) (model.ApplicationList, error) {
	var applications model.ApplicationList
	tx := s.getDB(ctx).Model(&applications).Preload("Offer").Order("created_at DESC")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if result := tx.Find(&applications); result.Error != nil {
		return nil, result.Error
	}
	return applications, nil
}

func (s *ApplicationStore) Get(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var application model.Application
	result := s.getDB(ctx).First(&application, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &application, nil
}

// Create inserts a new application. The unique index on
// (offer_id, cleaner_id) is the authoritative duplicate guard; a
// constraint violation surfaces as ErrDuplicateKey.
func (s *ApplicationStore) Create(ctx context.Context, application model.Application) (*model.Application, error) {
	result := s.getDB(ctx).Clauses(clause.Returning{}).Create(&application)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &application, nil
}

func (s *ApplicationStore) ExistsFor(ctx context.Context, offerID, cleanerID uuid.UUID) (bool, error) {
	var count int64
	result := s.getDB(ctx).Model(&model.Application{}).
		Where("offer_id = ? AND cleaner_id = ?", offerID, cleanerID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// RejectAllExcept bulk-transitions every application of the offer to
// rejected, sparing the selected one.
func (s *ApplicationStore) RejectAllExcept(ctx context.Context, offerID, selectedID uuid.UUID) (int64, error) {
	result := s.getDB(ctx).Model(&model.Application{}).
		Where("offer_id = ? AND id != ?", offerID, selectedID).
		Update("status", model.ApplicationStatusRejected)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (s *ApplicationStore) MarkSelected(ctx context.Context, id uuid.UUID, selectedAt time.Time) (*model.Application, error) {
	var application model.Application
	if err := s.getDB(ctx).First(&application, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	application.Status = model.ApplicationStatusSelected
	application.SelectedAt = &selectedAt
	if err := s.getDB(ctx).Save(&application).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

func (s *ApplicationStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
