package npc

import "context"

// Repository persists NPCs. Reserve must be an atomic conditional flip
// so two concurrent mission creations cannot double-book the same NPC.
type Repository interface {
	FindByID(ctx context.Context, id int) (*NPC, error)
	ListByCartel(ctx context.Context, cartelID int) ([]*NPC, error)
	ListIdleByRole(ctx context.Context, cartelID int, role string) ([]*NPC, error)
	ListAllAlive(ctx context.Context) ([]*NPC, error)
	CountAlive(ctx context.Context, cartelID int) (int, error)
	Add(ctx context.Context, n *NPC) error
	Save(ctx context.Context, n *NPC) error
	Delete(ctx context.Context, id int) error

	// Reserve flips status idle → on_mission and stamps missionID in one
	// conditional update; returns a ContentionError if the NPC was no
	// longer idle.
	Reserve(ctx context.Context, id int, missionID string) error
}
