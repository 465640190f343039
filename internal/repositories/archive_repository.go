package repositories

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tripsmith/internal/models/db_models"
	"tripsmith/internal/models/response_models"
)

// ArchiveRepository persists approved itineraries. Archival is best effort:
// callers log failures and move on, approval never depends on it.
type ArchiveRepository interface {
	SaveApprovedPlan(ctx context.Context, session *response_models.PlanningSession) error
}

type archiveRepository struct {
	db *gorm.DB
}

func NewArchiveRepository(db *gorm.DB) ArchiveRepository {
	return &archiveRepository{db: db}
}

func (r *archiveRepository) SaveApprovedPlan(ctx context.Context, session *response_models.PlanningSession) error {
	it := session.Itinerary
	if it == nil {
		return nil
	}

	itineraryJSON, err := json.Marshal(it)
	if err != nil {
		return err
	}

	record := db_models.ItineraryArchive{
		SessionID:      session.ID,
		Origin:         session.Preferences.Origin,
		Destination:    session.Preferences.Destination,
		StartDate:      session.Preferences.StartDate,
		EndDate:        session.Preferences.EndDate,
		DaysAtDest:     it.StayWindow.DaysAtDestination,
		NightsAtDest:   it.StayWindow.NightsAtDestination,
		TotalUSD:       it.Costs.TotalUSD,
		SafetyConcerns: it.SafetyConcerns,
		PackingList:    it.PackingList,
		ItineraryJSON:  string(itineraryJSON),
		ApprovedAt:     time.Now().Unix(),
	}
	if session.Confirmations.Flight != nil {
		record.FlightOptionID = session.Confirmations.Flight.OptionID
	}
	if session.Confirmations.Hotel != nil {
		record.HotelOptionID = session.Confirmations.Hotel.OptionID
	}
	if session.Confirmations.CarRental != nil {
		record.CarOptionID = session.Confirmations.CarRental.OptionID
	}

	// Re-approving a session replaces its archived row.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			UpdateAll: true,
		}).
		Create(&record).Error
}

// NoOpArchiveRepository is used when no database is configured; the
// service stays memory-only.
type noOpArchiveRepository struct{}

func NewNoOpArchiveRepository() ArchiveRepository {
	log.Println("POSTGRES_URL not set, approved plans will not be archived")
	return &noOpArchiveRepository{}
}

func (r *noOpArchiveRepository) SaveApprovedPlan(ctx context.Context, session *response_models.PlanningSession) error {
	return nil
}
