package repo

import (
	"context"

	"github.com/RockkLee/order-bot/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MenuRepository interface {
	Upsert(ctx context.Context, menu *domain.Menu) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Menu, error)
	GetByRestaurantID(ctx context.Context, restaurantID string) (*domain.Menu, error)
	FindItem(ctx context.Context, itemID string) (*domain.MenuItem, error)
}

// ItemFinder is the slice of the catalog the cart engine needs.
type ItemFinder interface {
	FindItem(ctx context.Context, itemID string) (*domain.MenuItem, error)
}
