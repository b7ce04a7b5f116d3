// Package seed loads menu catalogs from YAML documents and writes them
// into a repository.Store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Lixing-Zhang/storefront-menu/internal/models"
)

// Document is one menu file. Categories nest under their restaurant, and
// templates and dishes under their category.
type Document struct {
	Restaurants []RestaurantDoc `yaml:"restaurants"`
}

type RestaurantDoc struct {
	ID         string        `yaml:"id"`
	Name       string        `yaml:"name"`
	Currency   string        `yaml:"currency"`
	Categories []CategoryDoc `yaml:"categories"`
}

type CategoryDoc struct {
	ID        string        `yaml:"id"`
	Name      string        `yaml:"name"`
	Position  int           `yaml:"position"`
	Templates []TemplateDoc `yaml:"templates"`
	Dishes    []DishDoc     `yaml:"dishes"`
}

// TemplateDoc is a category template. Active defaults to true.
type TemplateDoc struct {
	ID           string      `yaml:"id"`
	DisplayOrder int         `yaml:"displayOrder"`
	Active       *bool       `yaml:"active"`
	Name         string      `yaml:"name"`
	Required     bool        `yaml:"required"`
	Min          uint        `yaml:"min"`
	Max          uint        `yaml:"max"`
	Options      []OptionDoc `yaml:"options"`
}

type GroupDoc struct {
	ID       string      `yaml:"id"`
	Name     string      `yaml:"name"`
	Required bool        `yaml:"required"`
	Min      uint        `yaml:"min"`
	Max      uint        `yaml:"max"`
	Options  []OptionDoc `yaml:"options"`
}

type OptionDoc struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Price   Amount `yaml:"price"`
	Default bool   `yaml:"default"`
}

type DishDoc struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Position  int        `yaml:"position"`
	BasePrice Amount     `yaml:"basePrice"`
	Sizes     []SizeDoc  `yaml:"sizes"`
	Detached  bool       `yaml:"detached"`
	Groups    []GroupDoc `yaml:"groups"`
}

type SizeDoc struct {
	Label string `yaml:"label"`
	Price Amount `yaml:"price"`
}

// Amount is a money value written in major units, e.g. 2.50 or "-0.25".
type Amount models.Money

// UnmarshalYAML parses the scalar as a decimal so 0.1 never goes through
// a float.
func (a *Amount) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: money amount must be a scalar", n.Line)
	}
	m, err := models.ParseMoney(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*a = Amount(m)
	return nil
}

// Parse decodes one YAML document. Unknown keys are rejected.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, fmt.Errorf("failed to parse menu document: %w", err)
	}
	return &doc, nil
}

// Writer is the part of the store a document is applied to.
type Writer interface {
	SaveRestaurant(ctx context.Context, r models.Restaurant) error
	SaveCategory(ctx context.Context, c models.Category) error
	SaveTemplate(ctx context.Context, t models.CategoryTemplate) error
	SaveDish(ctx context.Context, d models.Dish) error
}

// Stats counts the records written by Apply.
type Stats struct {
	Restaurants int `json:"restaurants"`
	Categories  int `json:"categories"`
	Templates   int `json:"templates"`
	Dishes      int `json:"dishes"`
}

func (s *Stats) add(o Stats) {
	s.Restaurants += o.Restaurants
	s.Categories += o.Categories
	s.Templates += o.Templates
	s.Dishes += o.Dishes
}

// Apply upserts every record of the document, parents first. It stops at
// the first record the store rejects.
func (d *Document) Apply(ctx context.Context, w Writer) (Stats, error) {
	var stats Stats
	for _, rd := range d.Restaurants {
		if err := w.SaveRestaurant(ctx, models.Restaurant{ID: rd.ID, Name: rd.Name, Currency: rd.Currency}); err != nil {
			return stats, fmt.Errorf("save restaurant %s: %w", rd.ID, err)
		}
		stats.Restaurants++

		for ci, cd := range rd.Categories {
			c := models.Category{
				ID:           cd.ID,
				RestaurantID: rd.ID,
				Name:         cd.Name,
				Position:     positionOr(cd.Position, ci),
			}
			if err := w.SaveCategory(ctx, c); err != nil {
				return stats, fmt.Errorf("save category %s: %w", cd.ID, err)
			}
			stats.Categories++

			for _, td := range cd.Templates {
				if err := w.SaveTemplate(ctx, td.template(cd.ID)); err != nil {
					return stats, fmt.Errorf("save template %s: %w", td.ID, err)
				}
				stats.Templates++
			}

			for di, dd := range cd.Dishes {
				if err := w.SaveDish(ctx, dd.dish(cd.ID, di)); err != nil {
					return stats, fmt.Errorf("save dish %s: %w", dd.ID, err)
				}
				stats.Dishes++
			}
		}
	}
	return stats, nil
}

// ApplyAll applies documents in order and sums their stats.
func ApplyAll(ctx context.Context, w Writer, docs []*Document) (Stats, error) {
	var total Stats
	for i, doc := range docs {
		stats, err := doc.Apply(ctx, w)
		total.add(stats)
		if err != nil {
			return total, fmt.Errorf("menu document %d: %w", i+1, err)
		}
	}
	return total, nil
}

func (td TemplateDoc) template(categoryID string) models.CategoryTemplate {
	active := true
	if td.Active != nil {
		active = *td.Active
	}
	return models.CategoryTemplate{
		ID:           td.ID,
		CategoryID:   categoryID,
		DisplayOrder: td.DisplayOrder,
		Active:       active,
		Group: models.ModifierGroup{
			ID:            td.ID,
			Name:          td.Name,
			IsRequired:    td.Required,
			MinSelections: td.Min,
			MaxSelections: td.Max,
			Options:       options(td.Options),
			Origin:        models.TemplateOrigin(td.ID),
		},
	}
}

func (dd DishDoc) dish(categoryID string, index int) models.Dish {
	d := models.Dish{
		ID:               dd.ID,
		CategoryID:       categoryID,
		Name:             dd.Name,
		Position:         positionOr(dd.Position, index),
		BasePrice:        models.Money(dd.BasePrice),
		InheritanceState: models.Inherited,
	}
	if dd.Detached {
		d.InheritanceState = models.Detached
	}
	for _, s := range dd.Sizes {
		d.SizeVariants = append(d.SizeVariants, models.SizeVariant{Label: s.Label, Price: models.Money(s.Price)})
	}
	for _, g := range dd.Groups {
		d.CustomGroups = append(d.CustomGroups, models.ModifierGroup{
			ID:            g.ID,
			Name:          g.Name,
			IsRequired:    g.Required,
			MinSelections: g.Min,
			MaxSelections: g.Max,
			Options:       options(g.Options),
			Origin:        models.DishOrigin(dd.ID),
		})
	}
	return d
}

func options(docs []OptionDoc) []models.ModifierOption {
	out := make([]models.ModifierOption, 0, len(docs))
	for _, o := range docs {
		out = append(out, models.ModifierOption{
			ID:                  o.ID,
			Name:                o.Name,
			PriceDelta:          models.Money(o.Price),
			IsIncludedByDefault: o.Default,
		})
	}
	return out
}

// positionOr keeps an explicit position and otherwise numbers from 1 in
// file order.
func positionOr(position, index int) int {
	if position != 0 {
		return position
	}
	return index + 1
}
