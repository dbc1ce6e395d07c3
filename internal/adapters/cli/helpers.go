package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/andrescamacho/cartel-go/internal/adapters/persistence"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/shared"
	"github.com/andrescamacho/cartel-go/internal/infrastructure/config"
	"github.com/andrescamacho/cartel-go/internal/infrastructure/database"
)

// env bundles everything a CLI command needs to drive a handler
type env struct {
	db            *gorm.DB
	cartelRepo    *persistence.GormCartelRepository
	npcRepo       *persistence.GormNPCRepository
	territoryRepo *persistence.GormTerritoryRepository
	missionRepo   *persistence.GormMissionRepository
	ledger        *persistence.GormPlayerLedger
	cat           *catalog.Catalog
	clock         shared.Clock
	rng           shared.Rand
}

// openEnv loads config, connects to the database and wires repositories
func openEnv() (*env, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	cat := catalog.Default()
	if err := database.SeedTerritories(db, cat); err != nil {
		return nil, fmt.Errorf("failed to seed territories: %w", err)
	}

	return &env{
		db:            db,
		cartelRepo:    persistence.NewGormCartelRepository(db),
		npcRepo:       persistence.NewGormNPCRepository(db),
		territoryRepo: persistence.NewGormTerritoryRepository(db),
		missionRepo:   persistence.NewGormMissionRepository(db),
		ledger:        persistence.NewGormPlayerLedger(db),
		cat:           cat,
		clock:         shared.NewRealClock(),
		rng:           shared.NewSystemRand(),
	}, nil
}

// Close releases the database connection
func (e *env) Close() {
	_ = database.Close(e.db)
}

// cartelID resolves the --player-id flag to the player's cartel
func (e *env) cartelID(ctx context.Context) (int, error) {
	if playerID == 0 {
		return 0, fmt.Errorf("--player-id flag is required")
	}
	c, err := e.cartelRepo.FindByPlayerID(ctx, playerID)
	if err != nil {
		return 0, fmt.Errorf("no cartel for player %d: %w", playerID, err)
	}
	return c.ID, nil
}

// parseCrew parses a comma-separated NPC id list ("3,4,5")
func parseCrew(s string) ([]int, error) {
	if s == "" {
		return nil, fmt.Errorf("--crew flag is required (comma-separated NPC ids)")
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid NPC id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// formatMoney formats a dollar amount with thousands separators
func formatMoney(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	str := strconv.FormatInt(amount, 10)
	if len(str) > 3 {
		var b strings.Builder
		for i, c := range str {
			if i > 0 && (len(str)-i)%3 == 0 {
				b.WriteByte(',')
			}
			b.WriteRune(c)
		}
		str = b.String()
	}
	return sign + "$" + str
}
