package models

import "time"

// RatingSnapshot is one entry in a team's rating history
type RatingSnapshot struct {
	TeamID    int64     `db:"team_id" json:"team_id"`
	GameID    *int64    `db:"game_id" json:"game_id"` // nil for the seed entry
	Rating    float64   `db:"rating" json:"rating"`
	Delta     float64   `db:"delta" json:"delta"`
	AsOf      time.Time `db:"as_of" json:"as_of"`
	Sequence  int       `db:"sequence" json:"sequence"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// IsSeed reports whether the snapshot is the initial seed
func (s RatingSnapshot) IsSeed() bool {
	return s.GameID == nil
}
