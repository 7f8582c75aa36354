package catalog

import (
	"fmt"

	"household-meal-planner/internal/member"
)

// Kind names the diet category a catalog belongs to.
type Kind string

const (
	KindVegetarian Kind = "vegetarian"
	KindGlutenFree Kind = "gluten-free"
	KindDefault    Kind = "default"
)

// Set holds one catalog per diet category. It is built once at startup and
// shared read-only by every generation run.
type Set struct {
	Vegetarian *Catalog
	GlutenFree *Catalog
	Default    *Catalog
}

// Kind applies the selection policy: vegetarian wins over gluten-free, and
// anything else, including an empty set, falls back to the default catalog.
// dairy-free and nut-free have no dedicated catalog.
func (s *Set) Kind(restrictions member.Restrictions) Kind {
	switch {
	case restrictions.Has(member.Vegetarian):
		return KindVegetarian
	case restrictions.Has(member.GlutenFree):
		return KindGlutenFree
	default:
		return KindDefault
	}
}

// Classify returns the catalog selected for a member's restrictions.
func (s *Set) Classify(restrictions member.Restrictions) *Catalog {
	return s.ByKind(s.Kind(restrictions))
}

// ByKind returns the catalog for k, or nil for an unknown kind.
func (s *Set) ByKind(k Kind) *Catalog {
	switch k {
	case KindVegetarian:
		return s.Vegetarian
	case KindGlutenFree:
		return s.GlutenFree
	case KindDefault:
		return s.Default
	}
	return nil
}

// Validate checks every catalog in the set.
func (s *Set) Validate() error {
	for _, k := range []Kind{KindVegetarian, KindGlutenFree, KindDefault} {
		if err := s.ByKind(k).Validate(); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	return nil
}

// Builtin returns the catalogs the service ships with.
func Builtin() *Set {
	return &Set{
		Vegetarian: New(string(KindVegetarian), map[Slot][]string{
			Breakfast: {"Oatmeal", "Avocado toast", "Smoothie bowl"},
			Lunch:     {"Vegetable stir fry", "Quinoa salad", "Lentil soup"},
			Dinner:    {"Vegetable curry", "Stuffed peppers", "Pasta primavera"},
			Snacks:    {"Fruit", "Yogurt", "Nuts"},
		}),
		GlutenFree: New(string(KindGlutenFree), map[Slot][]string{
			Breakfast: {"Eggs with veggies", "Gluten-free pancakes", "Smoothie"},
			Lunch:     {"Grilled chicken salad", "Rice bowls", "Stir fry with tamari"},
			Dinner:    {"Grilled fish with veggies", "Beef stew with potatoes", "Quinoa pilaf"},
			Snacks:    {"Rice cakes", "Cheese", "Fruit"},
		}),
		Default: New(string(KindDefault), map[Slot][]string{
			Breakfast: {"Pancakes", "Eggs and bacon", "Cereal"},
			Lunch:     {"Sandwiches", "Soup and salad", "Pasta"},
			Dinner:    {"Grilled chicken", "Pizza", "Tacos"},
			Snacks:    {"Chips", "Cookies", "Fruit"},
		}),
	}
}
