package catalog

import (
	"errors"
	"fmt"
)

// Slot is a meal slot within a day.
type Slot string

const (
	Breakfast Slot = "breakfast"
	Lunch     Slot = "lunch"
	Dinner    Slot = "dinner"
	Snacks    Slot = "snacks"
)

// Slots lists every slot a day plan must fill, in display order.
var Slots = []Slot{Breakfast, Lunch, Dinner, Snacks}

// ErrMalformedCatalog marks a catalog with a missing or empty slot.
var ErrMalformedCatalog = errors.New("malformed meal catalog")

// Catalog is an immutable set of candidate dishes per slot.
type Catalog struct {
	name   string
	dishes map[Slot][]string
}

// New copies dishes into a new Catalog. It does not validate; call Validate
// (or let the generator do it) before relying on every slot being present.
func New(name string, dishes map[Slot][]string) *Catalog {
	copied := make(map[Slot][]string, len(dishes))
	for slot, list := range dishes {
		copied[slot] = append([]string(nil), list...)
	}
	return &Catalog{name: name, dishes: copied}
}

// Name is the diet category the catalog serves.
func (c *Catalog) Name() string {
	return c.name
}

// Dishes returns a copy of the candidate list for slot.
func (c *Catalog) Dishes(slot Slot) []string {
	return append([]string(nil), c.dishes[slot]...)
}

// Dish picks the candidate for the given day index, rotating through the
// slot's list: list[day mod len(list)].
func (c *Catalog) Dish(slot Slot, day int) (string, error) {
	list := c.dishes[slot]
	if len(list) == 0 {
		return "", fmt.Errorf("%w: %s catalog has no %s dishes", ErrMalformedCatalog, c.name, slot)
	}
	if day < 0 {
		return "", fmt.Errorf("negative day index %d", day)
	}
	return list[day%len(list)], nil
}

// Validate checks that every slot has at least one dish.
func (c *Catalog) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: catalog is nil", ErrMalformedCatalog)
	}
	for _, slot := range Slots {
		if len(c.dishes[slot]) == 0 {
			return fmt.Errorf("%w: %s catalog has no %s dishes", ErrMalformedCatalog, c.name, slot)
		}
	}
	return nil
}
