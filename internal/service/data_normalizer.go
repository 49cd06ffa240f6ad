package service

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/ricks-picks/internal/datasource"
	"github.com/yourusername/ricks-picks/internal/models"
)

// DataNormalizer converts provider records to internal models
type DataNormalizer struct {
	conferenceAliases map[string]models.Conference
	preferredProvider string
	logger            logrus.FieldLogger
}

// NewDataNormalizer creates a new data normalizer. preferredProvider names the sportsbook whose line is used first.
func NewDataNormalizer(preferredProvider string, logger logrus.FieldLogger) *DataNormalizer {
	if preferredProvider == "" {
		preferredProvider = "consensus"
	}
	return &DataNormalizer{
		conferenceAliases: buildConferenceAliases(),
		preferredProvider: preferredProvider,
		logger:            logger,
	}
}

// WeekExtras holds the per-week side data joined onto games
type WeekExtras struct {
	Lines   map[int64]datasource.GameLines
	Weather map[int64]datasource.WeatherData
	Ranked  map[string]bool
}

// NewWeekExtras indexes lines, weather and rankings for joining.
// Only the AP poll marks a team as ranked, falling back to the first poll listed.
// Ranked stays nil when no poll was published, leaving ranking status unknown.
func NewWeekExtras(lines []datasource.GameLines, weather []datasource.WeatherData, rankings []datasource.Ranking) WeekExtras {
	extras := WeekExtras{
		Lines:   make(map[int64]datasource.GameLines, len(lines)),
		Weather: make(map[int64]datasource.WeatherData, len(weather)),
	}
	for _, l := range lines {
		extras.Lines[l.ID] = l
	}
	for _, w := range weather {
		extras.Weather[w.ID] = w
	}
	for _, r := range rankings {
		poll, ok := pickPoll(r.Polls)
		if !ok {
			continue
		}
		if extras.Ranked == nil {
			extras.Ranked = make(map[string]bool, len(poll.Ranks))
		}
		for _, rt := range poll.Ranks {
			extras.Ranked[rt.School] = true
		}
	}
	return extras
}

func pickPoll(polls []datasource.Poll) (datasource.Poll, bool) {
	for _, p := range polls {
		if p.Poll == "AP Top 25" {
			return p, true
		}
	}
	if len(polls) > 0 {
		return polls[0], true
	}
	return datasource.Poll{}, false
}

// NormalizeGame converts a provider game and its joined extras into a Game
func (n *DataNormalizer) NormalizeGame(src datasource.GameData, extras WeekExtras) (*models.Game, error) {
	if src.ID == 0 {
		return nil, fmt.Errorf("source game has no id")
	}

	game := &models.Game{
		ID:             src.ID,
		Season:         src.Season,
		Week:           src.Week,
		SeasonType:     n.NormalizeSeasonType(src.SeasonType),
		StartDate:      src.StartDate.UTC(),
		Completed:      src.Completed,
		HomeTeamID:     src.HomeID,
		AwayTeamID:     src.AwayID,
		HomeTeam:       strings.TrimSpace(src.HomeTeam),
		AwayTeam:       strings.TrimSpace(src.AwayTeam),
		HomeConference: n.NormalizeConference(src.HomeConference),
		AwayConference: n.NormalizeConference(src.AwayConference),
		HomeScore:      src.HomePoints,
		AwayScore:      src.AwayPoints,
		NeutralSite:    src.NeutralSite,
		ConferenceGame: src.ConferenceGame,
		Venue:          strings.TrimSpace(src.Venue),
	}

	if lines, ok := extras.Lines[src.ID]; ok {
		if line, ok := lines.PickLine(n.preferredProvider); ok {
			spread := line.Spread.Decimal.InexactFloat64()
			game.Spread = &spread
			if line.OverUnder.Valid {
				total := line.OverUnder.Decimal.InexactFloat64()
				game.OverUnder = &total
			}
		}
	}

	if w, ok := extras.Weather[src.ID]; ok {
		game.Weather = models.Weather{
			TemperatureF:    w.Temperature,
			WindSpeedMPH:    w.WindSpeed,
			PrecipitationIn: w.Precipitation,
			Condition:       w.WeatherCondition,
			IsDome:          w.GameIndoors,
		}
	}

	if extras.Ranked != nil {
		home := extras.Ranked[game.HomeTeam]
		away := extras.Ranked[game.AwayTeam]
		game.HomeRanked = &home
		game.AwayRanked = &away
	}

	return game, nil
}

// NormalizeTeam converts a provider team into a Team
func (n *DataNormalizer) NormalizeTeam(src datasource.TeamData) *models.Team {
	conf := src.Conference
	return &models.Team{
		ID:         src.ID,
		Name:       strings.TrimSpace(src.School),
		Conference: n.NormalizeConference(&conf),
	}
}

// NormalizeConference maps provider spellings onto known conferences. Unknown names pass through trimmed.
func (n *DataNormalizer) NormalizeConference(name *string) models.Conference {
	if name == nil {
		return models.ConferenceNone
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return models.ConferenceNone
	}
	if conf, ok := n.conferenceAliases[strings.ToLower(trimmed)]; ok {
		return conf
	}
	conf := models.ParseConference(trimmed)
	if !conf.IsKnown() && n.logger != nil {
		n.logger.WithField("conference", trimmed).Debug("Unrecognized conference")
	}
	return conf
}

// NormalizeSeasonType maps provider season types, defaulting to regular
func (n *DataNormalizer) NormalizeSeasonType(seasonType string) models.SeasonType {
	if strings.EqualFold(strings.TrimSpace(seasonType), string(models.SeasonTypePostseason)) {
		return models.SeasonTypePostseason
	}
	return models.SeasonTypeRegular
}

func buildConferenceAliases() map[string]models.Conference {
	return map[string]models.Conference{
		"pac 12":                       models.ConferencePac12,
		"pac12":                        models.ConferencePac12,
		"pac-10":                       models.ConferencePac12,
		"big 10":                       models.ConferenceBigTen,
		"b1g":                          models.ConferenceBigTen,
		"big xii":                      models.ConferenceBig12,
		"southeastern":                 models.ConferenceSEC,
		"atlantic coast":               models.ConferenceACC,
		"american athletic conference": models.ConferenceAmerican,
		"aac":                          models.ConferenceAmerican,
		"mac":                          models.ConferenceMAC,
		"mid american":                 models.ConferenceMAC,
		"c-usa":                        models.ConferenceUSA,
		"cusa":                         models.ConferenceUSA,
		"mwc":                          models.ConferenceMountainWest,
		"independent":                  models.ConferenceIndependents,
		"fbs independent":              models.ConferenceIndependents,
	}
}
