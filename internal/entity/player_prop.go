package entity

// PropCategory groups the players offered for one prop market in a game.
type PropCategory struct {
	PropKey string       `json:"prop_key"`
	Title   string       `json:"title"`
	Players []PlayerProp `json:"players"`

	// Malformed counts player entries that could not be decoded and were dropped.
	Malformed int `json:"-"`
}

type PlayerProp struct {
	PlayerName  string     `json:"player_name"`
	PropType    string     `json:"prop_type"`
	OpeningLine float64    `json:"opening_line"`
	Record      PropRecord `json:"record"`
	BestPrice   int        `json:"best_price"`
	Sportsbook  string     `json:"sportsbook"`
}

// PropRecord is the player's historical result against this prop direction.
type PropRecord struct {
	Hit   int `json:"hit"`
	Miss  int `json:"miss"`
	Total int `json:"total"`
}
