package planner

import (
	"fmt"

	"household-meal-planner/internal/catalog"
)

// Generate builds a week of day plans from c. Day d gets, for every slot,
// the dish at index d mod len(slot list), so the result depends only on the
// catalog. A catalog with a missing or empty slot yields an error wrapping
// catalog.ErrMalformedCatalog and no days.
func Generate(c *catalog.Catalog) ([]DayPlan, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	days := make([]DayPlan, DaysPerWeek)
	for d := range days {
		var picks [4]string
		for i, slot := range catalog.Slots {
			dish, err := c.Dish(slot, d)
			if err != nil {
				return nil, fmt.Errorf("day %d: %w", d, err)
			}
			picks[i] = dish
		}
		days[d] = DayPlan{
			Breakfast: picks[0],
			Lunch:     picks[1],
			Dinner:    picks[2],
			Snacks:    picks[3],
		}
	}
	return days, nil
}
