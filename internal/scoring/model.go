package scoring

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/yourusername/ricks-picks/internal/models"
)

// Model scores upcoming games. It holds only read-only configuration and is safe for concurrent use.
type Model struct {
	cfg   Config
	power models.ConferenceSet
}

// NewModel validates the configuration and builds a model
func NewModel(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}
	return &Model{
		cfg:   cfg,
		power: models.NewConferenceSet(cfg.Conference.PowerConferences),
	}, nil
}

// Config returns the scoring constants
func (m *Model) Config() Config {
	return m.cfg
}

// ScoreGame maps a context to a prediction. ID and timestamp are left for the caller.
func (m *Model) ScoreGame(gc GameContext) models.Prediction {
	weather := weatherFactor(m.cfg.Weather, gc.Weather)
	conference := conferenceFactor(m.cfg.Conference, m.power, gc.HomeConference, gc.AwayConference)
	homeField := homeFieldFactor(m.cfg.HomeFieldAdvantage, gc.NeutralSite)

	base := weather.Value + conference.Value + homeField.Value

	market := models.FactorContribution{Label: models.FactorMarketValue}
	implied, hasLine := gc.ImpliedSpread()
	if hasLine {
		market = marketValueFactor(m.cfg.Market, base, implied)
	} else {
		market.Notes = []string{"No market line available"}
	}

	predicted := base + market.Value
	factors := []models.FactorContribution{weather, conference, homeField, market}

	p := models.Prediction{
		GameID:          gc.GameID,
		HomeTeam:        gc.HomeTeam,
		AwayTeam:        gc.AwayTeam,
		MarketSpread:    gc.MarketSpread,
		MarketTotal:     gc.MarketTotal,
		PredictedSpread: predicted,
		Confidence:      m.confidence(predicted, factors),
		Recommendation:  models.RecommendNoPlay,
	}

	if gc.HomeRating != nil && gc.AwayRating != nil {
		edge := ratingEdgeFactor(m.cfg.RatingEdge, *gc.HomeRating, *gc.AwayRating, gc.NeutralSite)
		p.RatingSpread = &edge.Value
		factors = append(factors, edge)
	}
	p.Factors = factors

	if hasLine {
		edge := predicted - implied
		p.Edge = &edge
		if math.Abs(edge) > m.cfg.Market.PlayThreshold {
			if edge > 0 {
				p.Recommendation = models.RecommendTakeHome
				p.RecommendedTeam = gc.HomeTeam
			} else {
				p.Recommendation = models.RecommendTakeAway
				p.RecommendedTeam = gc.AwayTeam
			}
		}
	}

	p.Rationale = m.rationale(gc, p)
	return p
}

func (m *Model) confidence(predicted float64, factors []models.FactorContribution) models.Confidence {
	active := 0
	for _, f := range factors {
		if !f.Informational && f.Value != 0 {
			active++
		}
	}
	spread := math.Abs(predicted)
	switch {
	case spread > m.cfg.Confidence.HighSpread && active >= m.cfg.Confidence.HighFactors:
		return models.ConfidenceHigh
	case spread > m.cfg.Confidence.MediumSpread && active >= m.cfg.Confidence.MediumFactors:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func (m *Model) rationale(gc GameContext, p models.Prediction) []string {
	var lines []string
	if p.PredictedSpread >= 0 {
		lines = append(lines, fmt.Sprintf("%s favored by %.1f", gc.HomeTeam, p.PredictedSpread))
	} else {
		lines = append(lines, fmt.Sprintf("%s favored by %.1f", gc.AwayTeam, -p.PredictedSpread))
	}

	for _, f := range p.Factors {
		lines = append(lines, f.Notes...)
	}

	switch {
	case gc.HomeRating == nil && gc.AwayRating == nil:
		lines = append(lines, "Neither team is rated yet")
	case gc.HomeRating == nil:
		lines = append(lines, fmt.Sprintf("%s is unrated", gc.HomeTeam))
	case gc.AwayRating == nil:
		lines = append(lines, fmt.Sprintf("%s is unrated", gc.AwayTeam))
	}

	homeRanked := gc.HomeRanked != nil && *gc.HomeRanked
	awayRanked := gc.AwayRanked != nil && *gc.AwayRanked
	switch {
	case homeRanked && !awayRanked:
		lines = append(lines, fmt.Sprintf("Ranked %s hosts unranked %s", gc.HomeTeam, gc.AwayTeam))
	case awayRanked && !homeRanked:
		lines = append(lines, fmt.Sprintf("Ranked %s visits unranked %s", gc.AwayTeam, gc.HomeTeam))
	}

	if p.Edge != nil {
		lines = append(lines, fmt.Sprintf("Edge vs market %+.1f", *p.Edge))
	}
	return lines
}

// ScoreAll scores contexts on a bounded pool of workers, keeping input order
func (m *Model) ScoreAll(ctx context.Context, contexts []GameContext, workers int) ([]models.Prediction, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(contexts) {
		workers = len(contexts)
	}

	results := make([]models.Prediction, len(contexts))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = m.ScoreGame(contexts[i])
			}
		}()
	}

	var err error
dispatch:
	for i := range contexts {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, fmt.Errorf("scoring cancelled: %w", err)
	}
	return results, nil
}
