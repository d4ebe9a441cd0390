package database

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"propertyapi/internal/models"
	"propertyapi/internal/repositories"
)

//go:embed data/seed.json
var seedData []byte

const seedBatchSize = 100

// SeedProperties returns the bundled dataset.
func SeedProperties() ([]models.Property, error) {
	var properties []models.Property
	if err := json.Unmarshal(seedData, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode seed data: %w", err)
	}
	return properties, nil
}

// Seed loads the bundled dataset when the repository is empty.
func Seed(ctx context.Context, repo repositories.PropertyRepository, log *slog.Logger) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info("database is already seeded", slog.Int64("properties", count))
		return nil
	}

	properties, err := SeedProperties()
	if err != nil {
		return err
	}
	if err := repo.CreateInBatches(ctx, properties, seedBatchSize); err != nil {
		return fmt.Errorf("failed to seed properties: %w", err)
	}

	log.Info("database seeded", slog.Int("properties", len(properties)))
	return nil
}
