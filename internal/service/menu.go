package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/RockkLee/order-bot/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type MenuParser interface {
	ParseMenu(ctx context.Context, spreadsheetID, restaurantName string) (*domain.Menu, error)
}

type MenuService struct {
	menus  repo.MenuRepository
	parser MenuParser
	logger *zap.SugaredLogger
}

func NewMenuService(menus repo.MenuRepository, parser MenuParser, logger *zap.SugaredLogger) *MenuService {
	return &MenuService{
		menus:  menus,
		parser: parser,
		logger: logger,
	}
}

// Get accepts either a menu ObjectID in hex or a restaurant id.
func (s *MenuService) Get(ctx context.Context, menuID string) (*domain.Menu, error) {
	if oid, err := primitive.ObjectIDFromHex(menuID); err == nil {
		return s.menus.GetByID(ctx, oid)
	}
	return s.menus.GetByRestaurantID(ctx, menuID)
}

func (s *MenuService) Items(ctx context.Context, menuID string) ([]domain.MenuItem, error) {
	menu, err := s.Get(ctx, menuID)
	if err != nil {
		return nil, err
	}
	return menu.Items, nil
}

// Import reads a menu from a spreadsheet and replaces the restaurant's stored menu.
func (s *MenuService) Import(ctx context.Context, spreadsheetID, restaurantName string) (*domain.Menu, error) {
	if s.parser == nil {
		return nil, fmt.Errorf("menu import is not configured")
	}

	s.logger.Infow("importing menu", "spreadsheet_id", spreadsheetID, "restaurant", restaurantName)

	menu, err := s.parser.ParseMenu(ctx, spreadsheetID, restaurantName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse menu: %w", err)
	}

	if err := s.menus.Upsert(ctx, menu); err != nil {
		return nil, fmt.Errorf("failed to save menu: %w", err)
	}

	s.logger.Infow("menu imported", "menu_id", menu.ID.Hex(), "restaurant_id", menu.RestaurantID, "items", len(menu.Items))
	return menu, nil
}

// SearchItems matches available items whose name or category contains query,
// case-insensitively. An empty query matches every available item.
func SearchItems(items []domain.MenuItem, query string) []domain.MenuItem {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []domain.MenuItem{}
	for _, it := range items {
		if !it.Available() {
			continue
		}
		if q == "" ||
			strings.Contains(strings.ToLower(it.Name), q) ||
			strings.Contains(strings.ToLower(it.Category), q) {
			out = append(out, it)
		}
	}
	return out
}
