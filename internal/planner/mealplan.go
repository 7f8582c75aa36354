package planner

import "time"

// DaysPerWeek is the fixed length of every weekly plan.
const DaysPerWeek = 7

// DayPlan represents the plan for a single day.
type DayPlan struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
	Snacks    string `json:"snacks"`
}

// WeeklyPlan is the one current plan stored for a member.
type WeeklyPlan struct {
	MemberID  string    `json:"member_id"`
	Days      []DayPlan `json:"days"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
