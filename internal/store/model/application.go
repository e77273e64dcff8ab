package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusSelected ApplicationStatus = "selected"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Application is a cleaner's bid on an open offer. The (offer, cleaner)
// pair is unique: a cleaner may apply to a given offer at most once.
// The Offer reference is non-owning; selecting or converting the job
// does not cascade here, the matching protocol settles applications
// explicitly.
type Application struct {
	ID         uuid.UUID         `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	CreatedAt  time.Time         `gorm:"not null"`
	UpdatedAt  time.Time         `gorm:"not null"`
	OfferID    uuid.UUID         `gorm:"not null;type:VARCHAR(255);uniqueIndex:applications_offer_cleaner_key"`
	CleanerID  uuid.UUID         `gorm:"not null;type:VARCHAR(255);uniqueIndex:applications_offer_cleaner_key;index:applications_cleaner_status_idx"`
	Status     ApplicationStatus `gorm:"not null;type:VARCHAR(20);default:pending;index:applications_cleaner_status_idx"`
	AppliedAt  time.Time         `gorm:"not null"`
	SelectedAt *time.Time
	Offer      *Job `gorm:"foreignKey:OfferID;references:ID"`
}

type ApplicationList []Application

func (a Application) String() string {
	val, _ := json.Marshal(a)
	return string(val)
}
