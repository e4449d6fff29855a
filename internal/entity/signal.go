package entity

// Category identifies the kind of signal.
type Category string

const (
	CategoryBigBettor   Category = "big_bettor"
	CategoryPropHitRate Category = "prop_hit_rate"
	CategoryRefereeEdge Category = "referee_edge"
)

// Signal is a market that cleared its category threshold. Signals are never
// mutated after creation.
type Signal struct {
	Category    Category `json:"category"`
	Sport       string   `json:"sport"`
	Description string   `json:"description"`
	Metric      string   `json:"metric"`
	Detail      string   `json:"detail,omitempty"`
	Score       float64  `json:"score"`
	Record      string   `json:"record"`
}

// Block is one rendered unit of publication: a single post, or one section of the email.
type Block struct {
	Category Category `json:"category"`
	Source   string   `json:"source"`
	Sport    string   `json:"sport"`
	Title    string   `json:"title"`
	Text     string   `json:"text"`
}
