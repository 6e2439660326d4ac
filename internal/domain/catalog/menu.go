package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/ganot/fete-till/internal/domain/order"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Menu is the YAML description of the items and where they sit on the grid.
type Menu struct {
	Items []MenuItem `yaml:"items"`
}

// MenuItem is one entry of a menu file. Slot is optional.
type MenuItem struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Category string            `yaml:"category"`
	Prices   map[string]string `yaml:"prices"`
	Slot     *int              `yaml:"slot"`
}

// LoadMenu reads a menu file.
func LoadMenu(path string) (*Menu, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}
	return ParseMenu(data)
}

// ParseMenu decodes menu YAML.
func ParseMenu(data []byte) (*Menu, error) {
	var menu Menu
	if err := yaml.Unmarshal(data, &menu); err != nil {
		return nil, fmt.Errorf("parse menu file: %w", err)
	}
	return &menu, nil
}

// Item converts the entry into a catalog item.
func (m MenuItem) Item() (Item, error) {
	prices := make(map[order.PriceTier]decimal.Decimal, len(m.Prices))
	for name, raw := range m.Prices {
		tier, err := order.ParseTier(name)
		if err != nil {
			return Item{}, fmt.Errorf("item %s: %w", m.ID, err)
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return Item{}, fmt.Errorf("item %s price %q: %w", m.ID, raw, err)
		}
		prices[tier] = price
	}
	return Item{ID: m.ID, Name: m.Name, Category: m.Category, Prices: prices}, nil
}

// ApplyMenu upserts every item of the menu and assigns the slots it names.
// Applying the same menu twice leaves the catalog unchanged.
func (s *Service) ApplyMenu(ctx context.Context, menu *Menu) error {
	for _, entry := range menu.Items {
		item, err := entry.Item()
		if err != nil {
			return err
		}
		if _, err := s.Upsert(ctx, item); err != nil {
			return fmt.Errorf("upsert item %s: %w", entry.ID, err)
		}
		if entry.Slot != nil {
			if err := s.AssignButton(ctx, *entry.Slot, item.ID); err != nil {
				return fmt.Errorf("assign %s to slot %d: %w", entry.ID, *entry.Slot, err)
			}
		}
	}
	if s.logger != nil {
		s.logger.Info("menu applied", "items", len(menu.Items))
	}
	return nil
}
