package cartel

import "context"

// Repository persists cartel aggregates. Save must write the whole
// aggregate (inventory and labs included) atomically.
type Repository interface {
	FindByID(ctx context.Context, id int) (*Cartel, error)
	FindByPlayerID(ctx context.Context, playerID int) (*Cartel, error)
	ListAll(ctx context.Context) ([]*Cartel, error)
	ListByReputation(ctx context.Context, limit int) ([]*Cartel, error)
	Add(ctx context.Context, c *Cartel) error
	Save(ctx context.Context, c *Cartel) error
	Delete(ctx context.Context, id int) error
}
