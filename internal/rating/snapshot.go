package rating

import (
	"fmt"
	"time"
)

// Snapshot is an immutable view of ratings safe to share across goroutines
type Snapshot struct {
	ratings map[int64]float64
	names   map[string]int64
	asOf    time.Time
}

// NewSnapshot builds a snapshot from stored ratings
func NewSnapshot(ratings map[int64]float64, names map[string]int64, asOf time.Time) Snapshot {
	r := make(map[int64]float64, len(ratings))
	for id, v := range ratings {
		r[id] = v
	}
	n := make(map[string]int64, len(names))
	for name, id := range names {
		n[name] = id
	}
	return Snapshot{ratings: r, names: n, asOf: asOf}
}

// RatingFor returns a team's rating by id
func (s Snapshot) RatingFor(teamID int64) (float64, bool) {
	r, ok := s.ratings[teamID]
	return r, ok
}

// RatingByName returns a team's rating by name
func (s Snapshot) RatingByName(name string) (float64, bool) {
	id, ok := s.names[name]
	if !ok {
		return 0, false
	}
	return s.RatingFor(id)
}

// Len returns the number of rated teams
func (s Snapshot) Len() int {
	return len(s.ratings)
}

// AsOf returns the start date of the last game folded into the snapshot
func (s Snapshot) AsOf() time.Time {
	return s.asOf
}

// Version identifies the snapshot for cache keys
func (s Snapshot) Version() string {
	return fmt.Sprintf("%s/%d", s.asOf.UTC().Format(time.RFC3339), len(s.ratings))
}
