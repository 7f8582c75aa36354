package member

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Restriction is a dietary restriction a family member can declare.
type Restriction string

const (
	Vegetarian Restriction = "vegetarian"
	GlutenFree Restriction = "gluten-free"
	DairyFree  Restriction = "dairy-free"
	NutFree    Restriction = "nut-free"
	None       Restriction = "none"
)

// KnownRestrictions lists every accepted restriction value.
var KnownRestrictions = []Restriction{Vegetarian, GlutenFree, DairyFree, NutFree, None}

// ParseRestriction validates a raw restriction value.
func ParseRestriction(s string) (Restriction, error) {
	r := Restriction(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(KnownRestrictions, r) {
		return "", fmt.Errorf("unknown dietary restriction %q", s)
	}
	return r, nil
}

// Restrictions is an unordered, deduplicated set of restrictions.
type Restrictions map[Restriction]struct{}

// NewRestrictions builds a set, dropping duplicates.
func NewRestrictions(rs ...Restriction) Restrictions {
	set := make(Restrictions, len(rs))
	for _, r := range rs {
		set[r] = struct{}{}
	}
	return set
}

// ParseRestrictions validates and deduplicates raw values.
func ParseRestrictions(raw []string) (Restrictions, error) {
	set := make(Restrictions, len(raw))
	for _, s := range raw {
		r, err := ParseRestriction(s)
		if err != nil {
			return nil, err
		}
		set[r] = struct{}{}
	}
	return set, nil
}

// Has reports whether r is in the set.
func (s Restrictions) Has(r Restriction) bool {
	_, ok := s[r]
	return ok
}

// Sorted returns the set as a sorted slice, for stable serialization.
func (s Restrictions) Sorted() []Restriction {
	out := make([]Restriction, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// MarshalJSON encodes the set as a sorted JSON array.
func (s Restrictions) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a JSON array, rejecting unknown values.
func (s *Restrictions) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseRestrictions(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Member is a registered household participant.
type Member struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	HashedPassword string       `json:"-"`
	Restrictions   Restrictions `json:"dietary_restrictions"`
	Disabled       bool         `json:"disabled"`
	CreatedAt      time.Time    `json:"created_at"`
}
