package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cartel-go/internal/application/common"
	"github.com/andrescamacho/cartel-go/internal/domain/cartel"
)

// LeaderboardQuery fetches the top cartels by reputation
type LeaderboardQuery struct {
	Limit int
}

// LeaderboardEntry is one ranked row
type LeaderboardEntry struct {
	Rank       int
	CartelID   int
	Name       string
	Reputation int64
	RepLevel   int
}

// LeaderboardResponse carries the ranking
type LeaderboardResponse struct {
	Entries []LeaderboardEntry
}

// LeaderboardHandler handles the leaderboard query
type LeaderboardHandler struct {
	cartelRepo cartel.Repository
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(cartelRepo cartel.Repository) *LeaderboardHandler {
	return &LeaderboardHandler{cartelRepo: cartelRepo}
}

// Handle executes the leaderboard query
func (h *LeaderboardHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*LeaderboardQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}
	cartels, err := h.cartelRepo.ListByReputation(ctx, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(cartels))
	for i, c := range cartels {
		entries = append(entries, LeaderboardEntry{
			Rank:       i + 1,
			CartelID:   c.ID,
			Name:       c.Name,
			Reputation: c.Reputation,
			RepLevel:   c.RepLevel,
		})
	}
	return &LeaderboardResponse{Entries: entries}, nil
}
