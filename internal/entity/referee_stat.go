package entity

// RefereeStat is the betting history of games worked by the officials assigned to a game.
type RefereeStat struct {
	RefereeName string        `json:"referee_name"`
	Spread      RefereeMarket `json:"spread"`
	Moneyline   RefereeMarket `json:"moneyline"`
	Total       RefereeMarket `json:"total"`
}

// RefereeMarket holds the records for one bet type. ROI is expressed from the
// home side for spread and moneyline, and from the over for totals.
type RefereeMarket struct {
	Overall      RefereeRecord  `json:"overall"`
	Conference   RefereeRecord  `json:"conference"`
	HomeFavorite RefereeRecord  `json:"home_favorite"`
	HomeUnderdog RefereeRecord  `json:"home_underdog"`
	Ranges       []RefereeRange `json:"ranges"`
}

type RefereeRecord struct {
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	ROI    float64 `json:"roi"`
}

// Sample returns wins + losses.
func (r RefereeRecord) Sample() int {
	return r.Wins + r.Losses
}

// RefereeRange is a record restricted to games whose line fell within [Min, Max].
type RefereeRange struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	RefereeRecord
}

// Contains reports whether line falls within the bucket.
func (r RefereeRange) Contains(line float64) bool {
	return line >= r.Min && line <= r.Max
}
