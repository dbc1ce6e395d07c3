package territory

import "context"

// Repository persists the shared territory map. ClaimIfUnclaimed must be
// an atomic check-and-set on controlled_by so two cartels cannot claim
// the same location.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Territory, error)
	ListAll(ctx context.Context) ([]*Territory, error)
	ListControlledBy(ctx context.Context, cartelID int) ([]*Territory, error)
	Save(ctx context.Context, t *Territory) error

	// ClaimIfUnclaimed sets controlledBy only when it is still null;
	// returns a ContentionError when another cartel got there first.
	ClaimIfUnclaimed(ctx context.Context, id string, cartelID, basePower int) error
}
