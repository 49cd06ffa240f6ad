package rating

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/ricks-picks/internal/models"
)

// GameUpdate describes the rating change produced by one game
type GameUpdate struct {
	GameID           int64
	HomeTeamID       int64
	AwayTeamID       int64
	HomeBefore       float64
	AwayBefore       float64
	HomeAfter        float64
	AwayAfter        float64
	ExpectedHome     float64
	ActualHome       float64
	MarginMultiplier float64
	PlayedAt         time.Time
}

// HomeDelta returns the change applied to the home team
func (u GameUpdate) HomeDelta() float64 {
	return u.HomeAfter - u.HomeBefore
}

// AwayDelta returns the change applied to the away team
func (u GameUpdate) AwayDelta() float64 {
	return u.AwayAfter - u.AwayBefore
}

// SkippedRecord is a game the replay passed over
type SkippedRecord struct {
	GameID int64
	Reason error
}

// ReplayReport summarizes a bulk replay
type ReplayReport struct {
	Processed int
	Ignored   int
	Skipped   []SkippedRecord
	Updates   []GameUpdate
	Duration  time.Duration
}

// SkipCounts groups skipped records by reason label
func (r *ReplayReport) SkipCounts() map[string]int {
	counts := make(map[string]int)
	for _, s := range r.Skipped {
		counts[ReasonLabel(s.Reason)]++
	}
	return counts
}

// ReasonLabel maps a skip reason to a short label for logs and metrics
func ReasonLabel(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrMissingTeam):
		return "missing_team"
	case errors.Is(err, ErrMalformedRecord):
		return "malformed_record"
	case errors.Is(err, ErrDuplicateGame):
		return "duplicate_game"
	case errors.Is(err, ErrOrderingViolation):
		return "ordering_violation"
	default:
		return "other"
	}
}

// TeamRating is a row of the current standings
type TeamRating struct {
	TeamID      int64             `json:"team_id"`
	Name        string            `json:"name"`
	Conference  models.Conference `json:"conference"`
	Rating      float64           `json:"rating"`
	GamesPlayed int               `json:"games_played"`
}

// Engine folds completed games into per-team ratings.
// It is not safe for concurrent use; share the result of Ratings() instead.
type Engine struct {
	cfg           Config
	power         models.ConferenceSet
	teams         map[int64]models.Team
	ratings       map[int64]float64
	history       map[int64][]models.RatingSnapshot
	processed     map[int64]struct{}
	lastProcessed time.Time
	logger        logrus.FieldLogger
}

// Initialize seeds every team from its conference
func Initialize(teams []models.Team, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rating config: %w", err)
	}

	e := &Engine{
		cfg:       cfg,
		power:     models.NewConferenceSet(cfg.PowerConferences),
		teams:     make(map[int64]models.Team, len(teams)),
		ratings:   make(map[int64]float64, len(teams)),
		history:   make(map[int64][]models.RatingSnapshot, len(teams)),
		processed: make(map[int64]struct{}),
		logger:    logrus.StandardLogger(),
	}

	for _, team := range teams {
		seed := cfg.LowerSeed
		if e.power.Contains(team.Conference) {
			seed = cfg.UpperSeed
		}
		e.teams[team.ID] = team
		e.ratings[team.ID] = seed
		e.history[team.ID] = []models.RatingSnapshot{{TeamID: team.ID, Rating: seed}}
	}

	return e, nil
}

// SetLogger replaces the engine logger
func (e *Engine) SetLogger(logger logrus.FieldLogger) {
	if logger != nil {
		e.logger = logger
	}
}

// Config returns the engine constants
func (e *Engine) Config() Config {
	return e.cfg
}

// ExpectedScore is the logistic expected outcome for a side rated a against b
func ExpectedScore(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/400))
}

// MarginMultiplier scales an update by the log of the margin of victory
func MarginMultiplier(margin int) float64 {
	abs := math.Abs(float64(margin))
	return math.Log(math.Max(abs, 1)) + 1
}

// Outcome returns the home side's actual score: 1 win, 0 loss, 0.5 tie
func Outcome(homeScore, awayScore int) float64 {
	switch {
	case homeScore > awayScore:
		return 1
	case homeScore < awayScore:
		return 0
	default:
		return 0.5
	}
}

// ProcessGame applies a single completed game
func (e *Engine) ProcessGame(game models.Game) (GameUpdate, error) {
	if !game.Completed {
		return GameUpdate{}, fmt.Errorf("game %d: %w", game.ID, ErrNotCompleted)
	}
	if !e.lastProcessed.IsZero() && game.StartDate.Before(e.lastProcessed) {
		return GameUpdate{}, &OrderingError{
			GameID:        game.ID,
			StartDate:     game.StartDate,
			LastProcessed: e.lastProcessed,
		}
	}
	if _, seen := e.processed[game.ID]; seen {
		return GameUpdate{}, &SkipError{GameID: game.ID, Reason: ErrDuplicateGame}
	}

	homeRating, ok := e.ratings[game.HomeTeamID]
	if !ok {
		return GameUpdate{}, &SkipError{GameID: game.ID, Reason: ErrMissingTeam, Detail: fmt.Sprintf("home team %d", game.HomeTeamID)}
	}
	awayRating, ok := e.ratings[game.AwayTeamID]
	if !ok {
		return GameUpdate{}, &SkipError{GameID: game.ID, Reason: ErrMissingTeam, Detail: fmt.Sprintf("away team %d", game.AwayTeamID)}
	}
	if !game.HasFinalScore() {
		return GameUpdate{}, &SkipError{GameID: game.ID, Reason: ErrMalformedRecord}
	}

	homeScore, awayScore := *game.HomeScore, *game.AwayScore
	expectedHome := ExpectedScore(homeRating+e.cfg.HomeFieldBonus, awayRating)
	expectedAway := 1 - expectedHome
	actualHome := Outcome(homeScore, awayScore)
	actualAway := 1 - actualHome
	mov := MarginMultiplier(homeScore - awayScore)

	homeAfter := homeRating + e.cfg.KFactor*mov*(actualHome-expectedHome)
	awayAfter := awayRating + e.cfg.KFactor*mov*(actualAway-expectedAway)

	e.ratings[game.HomeTeamID] = homeAfter
	e.ratings[game.AwayTeamID] = awayAfter
	e.appendHistory(game.HomeTeamID, game, homeAfter, homeAfter-homeRating)
	e.appendHistory(game.AwayTeamID, game, awayAfter, awayAfter-awayRating)
	e.processed[game.ID] = struct{}{}
	if game.StartDate.After(e.lastProcessed) {
		e.lastProcessed = game.StartDate
	}

	return GameUpdate{
		GameID:           game.ID,
		HomeTeamID:       game.HomeTeamID,
		AwayTeamID:       game.AwayTeamID,
		HomeBefore:       homeRating,
		AwayBefore:       awayRating,
		HomeAfter:        homeAfter,
		AwayAfter:        awayAfter,
		ExpectedHome:     expectedHome,
		ActualHome:       actualHome,
		MarginMultiplier: mov,
		PlayedAt:         game.StartDate,
	}, nil
}

func (e *Engine) appendHistory(teamID int64, game models.Game, rating, delta float64) {
	gameID := game.ID
	entries := e.history[teamID]
	e.history[teamID] = append(entries, models.RatingSnapshot{
		TeamID:   teamID,
		GameID:   &gameID,
		Rating:   rating,
		Delta:    delta,
		AsOf:     game.StartDate,
		Sequence: len(entries),
	})
}

// Replay sorts games by start date and folds them through ProcessGame.
// Incomplete games are ignored, skippable failures are recorded and the fold continues.
func (e *Engine) Replay(games []models.Game) (*ReplayReport, error) {
	start := time.Now()
	ordered := make([]models.Game, len(games))
	copy(ordered, games)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartDate.Before(ordered[j].StartDate)
	})

	report := &ReplayReport{}
	for _, game := range ordered {
		if !game.Completed {
			report.Ignored++
			continue
		}

		update, err := e.ProcessGame(game)
		if err != nil {
			if IsSkippable(err) {
				e.logger.WithFields(logrus.Fields{
					"game_id": game.ID,
					"reason":  ReasonLabel(err),
				}).Debug(err.Error())
				report.Skipped = append(report.Skipped, SkippedRecord{GameID: game.ID, Reason: err})
				continue
			}
			report.Duration = time.Since(start)
			return report, fmt.Errorf("replay aborted at game %d: %w", game.ID, err)
		}

		report.Processed++
		report.Updates = append(report.Updates, update)
	}

	report.Duration = time.Since(start)
	return report, nil
}

// Rating returns the current rating of a team
func (e *Engine) Rating(teamID int64) (float64, bool) {
	r, ok := e.ratings[teamID]
	return r, ok
}

// History returns a copy of the team's rating history, seed first
func (e *Engine) History(teamID int64) []models.RatingSnapshot {
	entries := e.history[teamID]
	out := make([]models.RatingSnapshot, len(entries))
	copy(out, entries)
	return out
}

// Ratings returns a read-only snapshot of all current ratings
func (e *Engine) Ratings() Snapshot {
	ratings := make(map[int64]float64, len(e.ratings))
	for id, r := range e.ratings {
		ratings[id] = r
	}
	names := make(map[string]int64, len(e.teams))
	for id, team := range e.teams {
		names[team.Name] = id
	}
	return Snapshot{ratings: ratings, names: names, asOf: e.lastProcessed}
}

// Standings returns every team sorted by rating, highest first
func (e *Engine) Standings() []TeamRating {
	out := make([]TeamRating, 0, len(e.teams))
	for id, team := range e.teams {
		out = append(out, TeamRating{
			TeamID:      id,
			Name:        team.Name,
			Conference:  team.Conference,
			Rating:      e.ratings[id],
			GamesPlayed: len(e.history[id]) - 1,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating == out[j].Rating {
			return out[i].Name < out[j].Name
		}
		return out[i].Rating > out[j].Rating
	})
	return out
}

// LastProcessed returns the start date of the latest applied game
func (e *Engine) LastProcessed() time.Time {
	return e.lastProcessed
}

// PointSpread converts a rating gap into points, home perspective
func (c Config) PointSpread(homeRating, awayRating float64) float64 {
	return (homeRating + c.HomeFieldBonus - awayRating) / c.PointsPerSpread
}
