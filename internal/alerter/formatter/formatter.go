package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"edge-signal-bot/internal/alerter/config"
	"edge-signal-bot/internal/entity"
)

const defaultEmoji = "🎯"

var sportEmoji = map[string]string{
	"mlb":    "⚾",
	"nba":    "🏀",
	"wnba":   "🏀",
	"ncaab":  "🏀",
	"nfl":    "🏈",
	"ncaaf":  "🏈",
	"nhl":    "🏒",
	"soccer": "⚽",
}

// SportEmoji returns the emoji for a sport code, or a default for unknown sports.
func SportEmoji(sport string) string {
	if e, ok := sportEmoji[strings.ToLower(sport)]; ok {
		return e
	}
	return defaultEmoji
}

// Rank sorts signals by score, highest first, keeping input order on ties, and
// keeps at most topN of them. topN <= 0 keeps everything. The input is not modified.
func Rank(signals []entity.Signal, topN int) []entity.Signal {
	ranked := make([]entity.Signal, len(signals))
	copy(ranked, signals)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// Formatter turns ranked signals into publishable blocks.
type Formatter struct {
	cfg   *config.Config
	limit int
}

func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{cfg: cfg, limit: cfg.MessageLimit()}
}

// Block ranks signals and renders them. source is the strategy that produced the
// signals. It returns nil when there is nothing to publish. When blocks are posted
// one by one the text is shortened to the post limit with Fit.
func (f *Formatter) Block(source string, category entity.Category, sport config.Sport, signals []entity.Signal) *entity.Block {
	ranked := Rank(signals, f.topN(category))
	if len(ranked) == 0 {
		return nil
	}

	title, cta := f.copyFor(source, category, sport)
	return &entity.Block{
		Category: category,
		Source:   source,
		Sport:    sport.Code,
		Title:    title,
		Text:     Fit(SportEmoji(sport.Code)+" "+title, ranked, cta, f.limit),
	}
}

// Fit renders signals within limit runes. Detail lines are dropped first, then
// the lowest-ranked signals. A single signal that still does not fit is kept.
// limit <= 0 renders everything.
func Fit(header string, ranked []entity.Signal, cta string, limit int) string {
	text := Render(header, ranked, cta)
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}

	compact := make([]entity.Signal, len(ranked))
	for i, s := range ranked {
		s.Detail = ""
		compact[i] = s
	}
	for n := len(compact); n > 0; n-- {
		text = Render(header, compact[:n], cta)
		if utf8.RuneCountInString(text) <= limit {
			return text
		}
	}
	return text
}

// Render produces the line-oriented text of a block.
func Render(header string, signals []entity.Signal, cta string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	for i, s := range signals {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, s.Description))
		if s.Metric != "" {
			b.WriteString(fmt.Sprintf("   %s\n", s.Metric))
		}
		if s.Detail != "" {
			b.WriteString(fmt.Sprintf("   %s\n", s.Detail))
		}
		b.WriteString("\n")
	}
	b.WriteString(cta)
	return strings.TrimRight(b.String(), "\n")
}

func (f *Formatter) topN(category entity.Category) int {
	switch category {
	case entity.CategoryBigBettor:
		return f.cfg.TopN.BigBettor
	case entity.CategoryPropHitRate:
		return f.cfg.TopN.PropHitRate
	case entity.CategoryRefereeEdge:
		return f.cfg.TopN.RefereeEdge
	}
	return 0
}

func (f *Formatter) copyFor(source string, category entity.Category, sport config.Sport) (string, string) {
	var (
		override  config.CategoryCopy
		title     string
		cta       string
		threshold float64
	)
	switch category {
	case entity.CategoryBigBettor:
		override = f.cfg.Copy.BigBettor
		title, cta = "{sport} Big Bettor Alerts", "Follow the money."
		if source == config.StrategySplitsBigBettor {
			override = f.cfg.Copy.SplitsBigBettor
			title = "{sport} DraftKings Big Bettor Alerts"
		}
		threshold = f.cfg.Thresholds.BigBettor
	case entity.CategoryPropHitRate:
		override = f.cfg.Copy.PropHitRate
		title, cta = "These {sport} picks have {threshold}%+ hit rates", "Use these for your lays."
		threshold = sport.HitRateThreshold(f.cfg.Thresholds.PropHitRate)
	case entity.CategoryRefereeEdge:
		override = f.cfg.Copy.RefereeEdge
		title, cta = "{sport} Referee Edges", "Officials matter."
		threshold = f.cfg.Thresholds.RefereeMinROI
	}
	if override.Title != "" {
		title = override.Title
	}
	if override.CTA != "" {
		cta = override.CTA
	}

	name := sport.Name
	if name == "" {
		name = strings.ToUpper(sport.Code)
	}
	title = strings.NewReplacer(
		"{sport}", name,
		"{threshold}", strconv.FormatFloat(threshold, 'f', -1, 64),
	).Replace(title)
	return title, cta
}

// SectionName is the email section heading for a block.
func SectionName(block entity.Block) string {
	var name string
	switch block.Category {
	case entity.CategoryBigBettor:
		name = "Big Bettor Alerts"
		if block.Source == config.StrategySplitsBigBettor {
			name = "DraftKings Big Bettor Alerts"
		}
	case entity.CategoryPropHitRate:
		name = "Prop Hit Rates"
	case entity.CategoryRefereeEdge:
		name = "Referee Edges"
	default:
		name = string(block.Category)
	}
	return strings.ToUpper(block.Sport) + " " + name
}

// RenderEmail concatenates every block into one plain-text body with section headers.
func RenderEmail(blocks []entity.Block, date time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Betting signals for %s\n", date.Format("Monday, January 2, 2006")))
	for _, block := range blocks {
		b.WriteString(fmt.Sprintf("\n=== %s ===\n\n", SectionName(block)))
		b.WriteString(block.Text)
		b.WriteString("\n")
	}
	return b.String()
}
