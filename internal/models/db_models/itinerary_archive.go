package db_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type BaseModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CreatedAt int64          `gorm:"autoCreateTime"`
	UpdatedAt int64          `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now().Unix()
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}

func (b *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	b.UpdatedAt = time.Now().Unix()
	return nil
}

// ItineraryArchive is the persisted record of an approved plan. The full
// draft is stored as JSON; list fields that reports query directly get
// their own columns.
type ItineraryArchive struct {
	BaseModel
	SessionID      string `gorm:"uniqueIndex"`
	Origin         string
	Destination    string
	StartDate      string
	EndDate        string
	DaysAtDest     int
	NightsAtDest   int
	FlightOptionID string
	HotelOptionID  string
	CarOptionID    string
	TotalUSD       float64
	SafetyConcerns pq.StringArray `gorm:"type:text[]"`
	PackingList    pq.StringArray `gorm:"type:text[]"`
	ItineraryJSON  string         `gorm:"type:jsonb"`
	ApprovedAt     int64
}
