package models

import "time"

// Team represents an FBS program
type Team struct {
	ID         int64      `db:"id" json:"id" validate:"required"`
	Name       string     `db:"name" json:"name" validate:"required"`
	Conference Conference `db:"conference" json:"conference"`
	Rating     *float64   `db:"elo_rating" json:"elo_rating"`
	Rank       *int       `db:"rank" json:"rank"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// IsRanked reports whether the team currently carries a poll ranking
func (t *Team) IsRanked() bool {
	return t.Rank != nil && *t.Rank > 0
}

// HasRating reports whether the team has a computed rating
func (t *Team) HasRating() bool {
	return t.Rating != nil
}
