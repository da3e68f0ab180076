package database

import (
	"context"
	_ "embed"
	"fmt"

	"business-fundability-engine/internal/models"
)

//go:embed schema.sql
var Schema string

// ApplySchema creates any missing tables and indexes.
func (db *DB) ApplySchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// SeedCatalog loads a catalog into the opportunity tables.
func (db *DB) SeedCatalog(ctx context.Context, catalog *models.Catalog) (int, error) {
	repo := NewOpportunityRepository(db)
	seeded := 0
	for i := range catalog.Funding {
		if err := repo.UpsertFunding(ctx, &catalog.Funding[i]); err != nil {
			return seeded, err
		}
		seeded++
	}
	for i := range catalog.TradeLines {
		if err := repo.UpsertTradeLine(ctx, &catalog.TradeLines[i]); err != nil {
			return seeded, err
		}
		seeded++
	}
	return seeded, nil
}
