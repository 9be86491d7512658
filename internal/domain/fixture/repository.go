package fixture

import "context"

// Repository stores the whole fixtures table. Saves replace every data row;
// adapters keep their own header.
type Repository interface {
	List(ctx context.Context) ([]Fixture, error)
	ReplaceAll(ctx context.Context, fixtures []Fixture) error
}
