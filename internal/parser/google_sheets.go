package parser

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/RockkLee/order-bot/internal/domain"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// menuRange covers the sheet layout:
//
//	A id | B name | C status | D price | E description |
//	F group id | G group name | H group min | I group max |
//	J attribute id | K attribute name | L attribute min | M attribute max | N attribute price
//
// A row with only column A set starts a category.
const menuRange = "A:N"

type GoogleSheetsParser struct {
	service *sheets.Service
}

type Config struct {
	CredentialsJSON []byte
}

func New(ctx context.Context, cfg Config) (*GoogleSheetsParser, error) {
	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(cfg.CredentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &GoogleSheetsParser{
		service: service,
	}, nil
}

func (p *GoogleSheetsParser) ParseMenu(ctx context.Context, spreadsheetID, restaurantName string) (*domain.Menu, error) {
	resp, err := p.service.Spreadsheets.Values.Get(spreadsheetID, menuRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	return ParseRows(resp.Values, restaurantName)
}

// ParseRows builds a menu from raw sheet values. The first row is a header.
func ParseRows(values [][]interface{}, restaurantName string) (*domain.Menu, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("no data found in spreadsheet")
	}

	b := newMenuBuilder(restaurantName)
	for _, raw := range values[1:] {
		b.add(row(raw))
	}
	menu := b.build()

	if len(menu.Items) == 0 {
		return nil, fmt.Errorf("spreadsheet has no menu items")
	}
	return menu, nil
}

type row []interface{}

func (r row) cell(i int) string {
	if i >= len(r) || r[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", r[i]))
}

func (r row) intAt(i int) int {
	n, _ := strconv.Atoi(r.cell(i))
	return n
}

func (r row) floatAt(i int) float64 {
	f, _ := strconv.ParseFloat(r.cell(i), 64)
	return f
}

type menuBuilder struct {
	menu     *domain.Menu
	category string
	current  *domain.MenuItem
	groups   map[string]int
	attrs    map[string]bool
}

func newMenuBuilder(restaurantName string) *menuBuilder {
	return &menuBuilder{
		menu: &domain.Menu{
			Name:            restaurantName,
			RestaurantID:    RestaurantID(restaurantName),
			Items:           []domain.MenuItem{},
			AttributeGroups: []domain.AttributeGroup{},
			Attributes:      []domain.Attribute{},
		},
		groups: make(map[string]int),
		attrs:  make(map[string]bool),
	}
}

func (b *menuBuilder) add(r row) {
	switch {
	case len(r) == 0:
	case r.cell(0) != "" && r.cell(1) == "":
		b.flush()
		b.category = r.cell(0)
	case r.cell(0) != "":
		b.flush()
		b.current = &domain.MenuItem{
			ID:          r.cell(0),
			Name:        r.cell(1),
			Status:      itemStatus(r.cell(2)),
			Price:       r.floatAt(3),
			Description: r.cell(4),
			Category:    b.category,
		}
	case r.cell(5) != "":
		b.attribute(r)
	}
}

// attribute records a modifier row and links its group to the current item.
func (b *menuBuilder) attribute(r row) {
	groupID := r.cell(5)
	idx, ok := b.groups[groupID]
	if !ok {
		b.menu.AttributeGroups = append(b.menu.AttributeGroups, domain.AttributeGroup{
			ID:         groupID,
			Name:       r.cell(6),
			Min:        r.intAt(7),
			Max:        r.intAt(8),
			Attributes: []string{},
		})
		idx = len(b.menu.AttributeGroups) - 1
		b.groups[groupID] = idx
	}

	if attrID := r.cell(9); attrID != "" {
		if !b.attrs[attrID] {
			b.menu.Attributes = append(b.menu.Attributes, domain.Attribute{
				ID:    attrID,
				Name:  r.cell(10),
				Min:   r.intAt(11),
				Max:   r.intAt(12),
				Price: r.floatAt(13),
			})
			b.attrs[attrID] = true
		}
		group := &b.menu.AttributeGroups[idx]
		if !contains(group.Attributes, attrID) {
			group.Attributes = append(group.Attributes, attrID)
		}
	}

	if b.current != nil && !contains(b.current.Attributes, groupID) {
		b.current.Attributes = append(b.current.Attributes, groupID)
	}
}

func (b *menuBuilder) flush() {
	if b.current != nil {
		b.menu.Items = append(b.menu.Items, *b.current)
		b.current = nil
	}
}

func (b *menuBuilder) build() *domain.Menu {
	b.flush()
	return b.menu
}

func itemStatus(s string) string {
	switch strings.ToLower(s) {
	case domain.ItemStatusNotAvailable, "false", "no":
		return domain.ItemStatusNotAvailable
	case domain.ItemStatusDeleted:
		return domain.ItemStatusDeleted
	default:
		return domain.ItemStatusAvailable
	}
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// RestaurantID derives the catalog key from a display name.
func RestaurantID(restaurantName string) string {
	return strings.Join(strings.Fields(strings.ToLower(restaurantName)), "-")
}
