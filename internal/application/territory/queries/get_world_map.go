package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/domain/catalog"
	"github.com/andrescamacho/cartel-go/internal/domain/territory"
)

// GetWorldMapQuery fetches the full shared territory map
type GetWorldMapQuery struct{}

// MapEntry joins static territory data with its live control state
type MapEntry struct {
	Def       catalog.TerritoryDef
	Territory *territory.Territory
}

// GetWorldMapResponse carries the map
type GetWorldMapResponse struct {
	Entries []MapEntry
}

// GetWorldMapHandler handles the world map query
type GetWorldMapHandler struct {
	territoryRepo territory.Repository
	catalog       *catalog.Catalog
}

// NewGetWorldMapHandler creates a new world map handler
func NewGetWorldMapHandler(territoryRepo territory.Repository, cat *catalog.Catalog) *GetWorldMapHandler {
	return &GetWorldMapHandler{territoryRepo: territoryRepo, catalog: cat}
}

// Handle executes the world map query
func (h *GetWorldMapHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*GetWorldMapQuery); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	territories, err := h.territoryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*territory.Territory, len(territories))
	for _, t := range territories {
		byID[t.ID] = t
	}

	entries := make([]MapEntry, 0, len(h.catalog.Territories))
	for id, def := range h.catalog.Territories {
		t, ok := byID[id]
		if !ok {
			t = territory.New(id)
		}
		entries = append(entries, MapEntry{Def: def, Territory: t})
	}
	return &GetWorldMapResponse{Entries: entries}, nil
}
