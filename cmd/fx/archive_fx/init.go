package archive_fx

import (
	"os"

	"go.uber.org/fx"

	"tripsmith/internal/infra"
	"tripsmith/internal/models/db_models"
	"tripsmith/internal/repositories"
)

var Module = fx.Provide(provideArchiveRepository)

func provideArchiveRepository() (repositories.ArchiveRepository, error) {
	if os.Getenv("POSTGRES_URL") == "" {
		return repositories.NewNoOpArchiveRepository(), nil
	}

	db := infra.InitPostgresql()
	if err := db.AutoMigrate(&db_models.ItineraryArchive{}); err != nil {
		return nil, err
	}
	return repositories.NewArchiveRepository(db), nil
}
