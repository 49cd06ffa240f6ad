package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestGameMargin(t *testing.T) {
	g := &Game{Completed: true, HomeScore: intPtr(30), AwayScore: intPtr(10)}
	margin, ok := g.Margin()
	assert.True(t, ok)
	assert.Equal(t, 20, margin)
	assert.True(t, g.IsRateable())

	g.AwayScore = nil
	_, ok = g.Margin()
	assert.False(t, ok)
	assert.False(t, g.IsRateable())
}

func TestGameIsUpcoming(t *testing.T) {
	now := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	g := &Game{StartDate: now.Add(time.Hour)}
	assert.True(t, g.IsUpcoming(now))
	g.Completed = true
	assert.False(t, g.IsUpcoming(now))
}

func TestParseConference(t *testing.T) {
	assert.Equal(t, ConferenceBigTen, ParseConference(" big ten "))
	assert.Equal(t, Conference("Ivy"), ParseConference("Ivy"))
	assert.False(t, Conference("Ivy").IsKnown())
	assert.Equal(t, "Unaffiliated", ConferenceNone.String())
}

func TestPredictionSummary(t *testing.T) {
	spread := -3.5
	p := &Prediction{
		HomeTeam:        "Georgia",
		AwayTeam:        "Auburn",
		PredictedSpread: 7.2,
		MarketSpread:    &spread,
		Confidence:      ConfidenceHigh,
		Recommendation:  RecommendTakeHome,
		RecommendedTeam: "Georgia",
	}
	assert.Equal(t, "Auburn @ Georgia: model +7.2, market -3.5 [High] -> Georgia", p.Summary())

	p.Recommendation = RecommendNoPlay
	assert.Contains(t, p.Summary(), "no play")
}
