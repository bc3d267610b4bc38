package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RockkLee/order-bot/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const menusCollection = "menus"

type MenuRepository struct {
	collection *mongo.Collection
}

func NewMenuRepository(db *mongo.Database) *MenuRepository {
	return &MenuRepository{
		collection: db.Collection(menusCollection),
	}
}

// Upsert replaces the restaurant's menu, keeping its id when one already exists.
func (r *MenuRepository) Upsert(ctx context.Context, menu *domain.Menu) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now()
	var existing domain.Menu
	err := r.collection.FindOne(ctx, bson.M{"restaurant_id": menu.RestaurantID},
		options.FindOne().SetProjection(bson.M{"_id": 1, "created_at": 1})).Decode(&existing)
	switch {
	case err == nil:
		menu.ID = existing.ID
		menu.CreatedAt = existing.CreatedAt
	case errors.Is(err, mongo.ErrNoDocuments):
		if menu.ID.IsZero() {
			menu.ID = primitive.NewObjectID()
		}
		menu.CreatedAt = now
	default:
		return fmt.Errorf("failed to look up menu: %w", err)
	}
	menu.UpdatedAt = now

	_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": menu.ID}, menu, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save menu: %w", err)
	}

	return nil
}

func (r *MenuRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Menu, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MenuRepository) GetByRestaurantID(ctx context.Context, restaurantID string) (*domain.Menu, error) {
	return r.findOne(ctx, bson.M{"restaurant_id": restaurantID})
}

func (r *MenuRepository) findOne(ctx context.Context, filter bson.M) (*domain.Menu, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var menu domain.Menu
	err := r.collection.FindOne(ctx, filter).Decode(&menu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMenuNotFound
		}
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}

	return &menu, nil
}

// FindItem looks an item up across all menus.
func (r *MenuRepository) FindItem(ctx context.Context, itemID string) (*domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"products.$": 1})

	var menu domain.Menu
	err := r.collection.FindOne(ctx, bson.M{"products.id": itemID}, opts).Decode(&menu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("item %s: %w", itemID, domain.ErrItemNotFound)
		}
		return nil, fmt.Errorf("failed to find menu item: %w", err)
	}
	if len(menu.Items) == 0 {
		return nil, fmt.Errorf("item %s: %w", itemID, domain.ErrItemNotFound)
	}

	return &menu.Items[0], nil
}
