package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusAccepted  JobStatus = "accepted"
	JobStatusDeclined  JobStatus = "declined"
	JobStatusCancelled JobStatus = "cancelled"
	JobStatusCompleted JobStatus = "completed"
	JobStatusOpen      JobStatus = "open"
)

type RequestType string

const (
	RequestTypeSpecific RequestType = "specific"
	RequestTypeGeneral  RequestType = "general"
)

// ServiceTypes is the closed set of cleaning services a job can book.
var ServiceTypes = []string{
	"house cleaning",
	"deep cleaning",
	"carpet cleaning",
	"window cleaning",
	"office cleaning",
	"move-in/move-out cleaning",
	"post-construction cleaning",
	"upholstery cleaning",
}

// Job is the central booking entity. A specific job targets one cleaner
// from creation; a general job ("offer") is open to applications until
// the client selects one.
type Job struct {
	ID          uuid.UUID   `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	CreatedAt   time.Time   `gorm:"not null"`
	UpdatedAt   time.Time   `gorm:"not null"`
	ClientID    uuid.UUID   `gorm:"not null;type:VARCHAR(255);index:jobs_client_status_idx"`
	CleanerID   *uuid.UUID  `gorm:"type:VARCHAR(255);index:jobs_cleaner_status_idx"`
	Service     string      `gorm:"not null;type:VARCHAR(100)"`
	Date        time.Time   `gorm:"not null;index:jobs_status_date_idx,priority:2"`
	StartTime   string      `gorm:"not null;type:VARCHAR(5)"`
	EndTime     string      `gorm:"not null;type:VARCHAR(5)"`
	Status      JobStatus   `gorm:"not null;type:VARCHAR(20);default:pending;index:jobs_client_status_idx;index:jobs_cleaner_status_idx;index:jobs_type_status_idx,priority:2;index:jobs_status_date_idx,priority:1"`
	RequestType RequestType `gorm:"not null;column:request_type;type:VARCHAR(20);default:specific;index:jobs_type_status_idx,priority:1"`
	Note        *string     `gorm:"type:VARCHAR(500)"`
	Budget      *float64
	Deadline    *time.Time
	AcceptedAt  *time.Time
	CompletedAt *time.Time
	Rating      *int
	Review      *string `gorm:"type:VARCHAR(500)"`
	ClientRated bool    `gorm:"not null;default:false"`
}

type JobList []Job

func (j Job) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}

// StartsAt combines the job's calendar date with its HH:MM start time.
func (j *Job) StartsAt() time.Time {
	return at(j.Date, j.StartTime)
}

// EndsAt combines the job's calendar date with its HH:MM end time.
func (j *Job) EndsAt() time.Time {
	return at(j.Date, j.EndTime)
}

// ShouldAutoComplete reports whether a job is an accepted booking whose
// end time has passed and must be swept to completed.
func (j *Job) ShouldAutoComplete(now time.Time) bool {
	if j.Status != JobStatusAccepted {
		return false
	}
	return now.After(j.EndsAt())
}

// IsTerminal reports whether the job reached a state from which no
// further status mutation is permitted.
func (j *Job) IsTerminal() bool {
	switch j.Status {
	case JobStatusDeclined, JobStatusCancelled, JobStatusCompleted:
		return true
	}
	return false
}

// Duration returns the booked time span in decimal hours.
func (j *Job) Duration() float64 {
	startHour, startMinute := clockParts(j.StartTime)
	endHour, endMinute := clockParts(j.EndTime)
	return float64((endHour*60+endMinute)-(startHour*60+startMinute)) / 60
}

// TotalCost returns the job cost for a given hourly rate.
func (j *Job) TotalCost(hourlyRate float64) float64 {
	return j.Duration() * hourlyRate
}

// ValidServiceType reports whether s belongs to the service catalog.
func ValidServiceType(s string) bool {
	for _, known := range ServiceTypes {
		if s == known {
			return true
		}
	}
	return false
}

// at anchors an HH:MM clock string onto the calendar day of date,
// in date's location.
func at(date time.Time, clock string) time.Time {
	hour, minute := clockParts(clock)
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
}

func clockParts(clock string) (int, int) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	hour, _ := strconv.Atoi(parts[0])
	minute, _ := strconv.Atoi(parts[1])
	return hour, minute
}
