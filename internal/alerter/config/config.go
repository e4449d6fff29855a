package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"edge-signal-bot/pkg/config"
	"edge-signal-bot/pkg/telegram"
	"edge-signal-bot/pkg/twitter"
)

const (
	StrategyBigBettor       = "big_bettor"
	StrategySplitsBigBettor = "splits_big_bettor"
	StrategyPropHitRate     = "prop_hit_rate"
	StrategyRefereeEdge     = "referee_edge"

	ModeSocial = "social"
	ModeEmail  = "email"
	ModeDryRun = "dry-run"

	ProviderTwitter  = "twitter"
	ProviderTelegram = "telegram"
)

// InsideEdge holds the configuration for the InsideRedge data API.
type InsideEdge struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Splits holds the configuration for the DraftKings splits aggregator.
type Splits struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// HTTP holds outbound HTTP client settings.
type HTTP struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Sport describes one league the pipeline scans and which strategies run for it.
type Sport struct {
	Code       string   `mapstructure:"code"`
	Name       string   `mapstructure:"name"`
	DaysAhead  int      `mapstructure:"days_ahead"`
	Strategies []string `mapstructure:"strategies"`

	// Zero means Thresholds.PropHitRate.
	PropHitRateThreshold float64  `mapstructure:"prop_hit_rate_threshold"`
	UnderExceptions      []string `mapstructure:"under_exceptions"`

	SplitsEndpoint string `mapstructure:"splits_endpoint"`
	SplitsKey      string `mapstructure:"splits_key"`
}

// HitRateThreshold returns the sport's prop threshold, falling back to the global one.
func (s Sport) HitRateThreshold(fallback float64) float64 {
	if s.PropHitRateThreshold > 0 {
		return s.PropHitRateThreshold
	}
	return fallback
}

// Thresholds holds the signal qualification thresholds.
type Thresholds struct {
	BigBettor             float64 `mapstructure:"big_bettor"`
	PropHitRate           float64 `mapstructure:"prop_hit_rate"`
	PropMinSample         int     `mapstructure:"prop_min_sample"`
	RefereeMinROI         float64 `mapstructure:"referee_min_roi"`
	RefereeMinRangeSample int     `mapstructure:"referee_min_range_sample"`
	RefereeMinCriteria    int     `mapstructure:"referee_min_criteria"`
	RefereeRetained       int     `mapstructure:"referee_retained"`
}

// TopN holds the number of signals rendered per block.
type TopN struct {
	BigBettor   int `mapstructure:"big_bettor"`
	PropHitRate int `mapstructure:"prop_hit_rate"`
	RefereeEdge int `mapstructure:"referee_edge"`
}

// CategoryCopy overrides the header title and closing line of a block. In Title,
// "{sport}" is replaced with the sport name and "{threshold}" with the category threshold.
type CategoryCopy struct {
	Title string `mapstructure:"title"`
	CTA   string `mapstructure:"cta"`
}

type Copy struct {
	BigBettor       CategoryCopy `mapstructure:"big_bettor"`
	SplitsBigBettor CategoryCopy `mapstructure:"splits_big_bettor"`
	PropHitRate     CategoryCopy `mapstructure:"prop_hit_rate"`
	RefereeEdge     CategoryCopy `mapstructure:"referee_edge"`
}

// Publisher holds delivery settings.
type Publisher struct {
	Mode           string        `mapstructure:"mode"`
	SocialProvider string        `mapstructure:"social_provider"`
	InterPostDelay time.Duration `mapstructure:"inter_post_delay"`
	DedupeTTL      time.Duration `mapstructure:"dedupe_ttl"`
}

// Twitter holds the OAuth1 user-context credentials for the posting API.
type Twitter struct {
	BaseURL        string `mapstructure:"base_url"`
	ConsumerKey    string `mapstructure:"consumer_key"`
	ConsumerSecret string `mapstructure:"consumer_secret"`
	AccessToken    string `mapstructure:"access_token"`
	AccessSecret   string `mapstructure:"access_secret"`
	MaxLength      int    `mapstructure:"max_length"`
}

// Telegram holds configuration for the Telegram poster.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// SMTP holds the relay credentials.
type SMTP struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type Email struct {
	From       string   `mapstructure:"from"`
	Recipients []string `mapstructure:"recipients"`
	Subject    string   `mapstructure:"subject"`
}

// Scheduler holds the serve-mode schedule.
type Scheduler struct {
	Cron       string        `mapstructure:"cron"`
	RunTimeout time.Duration `mapstructure:"run_timeout"`
}

// Config holds the full configuration for the alert service.
type Config struct {
	App        config.App    `mapstructure:"app"`
	Logger     config.Logger `mapstructure:"logger"`
	API        config.API    `mapstructure:"api"`
	InsideEdge InsideEdge    `mapstructure:"insider_edge"`
	Splits     Splits        `mapstructure:"splits"`
	HTTP       HTTP          `mapstructure:"http"`
	Sports     []Sport       `mapstructure:"sports"`
	Thresholds Thresholds    `mapstructure:"thresholds"`
	TopN       TopN          `mapstructure:"top_n"`
	Copy       Copy          `mapstructure:"copy"`
	Publisher  Publisher     `mapstructure:"publisher"`
	Twitter    Twitter       `mapstructure:"twitter"`
	Telegram   Telegram      `mapstructure:"telegram"`
	SMTP       SMTP          `mapstructure:"smtp"`
	Email      Email         `mapstructure:"email"`
	Scheduler  Scheduler     `mapstructure:"scheduler"`
}

// Defaults returns the default value of every recognized key. Registering each key
// lets environment variables override values that are absent from the YAML file.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"app.name":     "edge-signal-bot",
		"app.env":      "production",
		"app.version":  "dev",
		"app.timezone": "America/New_York",

		"logger.level":    "info",
		"logger.encoding": "json",

		"api.host": "0.0.0.0",
		"api.port": 8080,

		"insider_edge.api_key":                "",
		"insider_edge.base_url":               "https://commercial.insideredgeanalytics.com/api",
		"insider_edge.max_request_per_minute": 120,

		"splits.base_url":               "",
		"splits.max_request_per_minute": 30,

		"http.request_timeout": "30s",

		"sports": []map[string]interface{}{
			{
				"code":                    "mlb",
				"name":                    "MLB",
				"strategies":              []string{StrategyBigBettor, StrategySplitsBigBettor, StrategyPropHitRate},
				"prop_hit_rate_threshold": 70,
				"under_exceptions":        []string{"pitcher_strikeouts", "pitcher_outs"},
				"splits_endpoint":         "big-bettor-alerts-mlb",
				"splits_key":              "big_bettor_alerts",
			},
			{
				"code":            "nba",
				"name":            "NBA",
				"strategies":      []string{StrategyBigBettor, StrategySplitsBigBettor, StrategyPropHitRate, StrategyRefereeEdge},
				"splits_endpoint": "big-bettor-alerts-nba",
				"splits_key":      "big_bettor_alerts",
			},
			{
				"code":            "nfl",
				"name":            "NFL",
				"days_ahead":      6,
				"strategies":      []string{StrategyBigBettor, StrategySplitsBigBettor, StrategyRefereeEdge},
				"splits_endpoint": "big-bettor-alerts-nfl",
				"splits_key":      "big_bettor_alerts",
			},
			{
				"code":            "nhl",
				"name":            "NHL",
				"strategies":      []string{StrategyBigBettor, StrategySplitsBigBettor},
				"splits_endpoint": "big-bettor-alerts-nhl",
				"splits_key":      "big_bettor_alerts",
			},
		},

		"thresholds.big_bettor":               25,
		"thresholds.prop_hit_rate":            65,
		"thresholds.prop_min_sample":          20,
		"thresholds.referee_min_roi":          5,
		"thresholds.referee_min_range_sample": 5,
		"thresholds.referee_min_criteria":     3,
		"thresholds.referee_retained":         3,

		"top_n.big_bettor":    4,
		"top_n.prop_hit_rate": 5,
		"top_n.referee_edge":  3,

		"copy.big_bettor.title":        "",
		"copy.big_bettor.cta":          "",
		"copy.splits_big_bettor.title": "",
		"copy.splits_big_bettor.cta":   "",
		"copy.prop_hit_rate.title":     "",
		"copy.prop_hit_rate.cta":       "",
		"copy.referee_edge.title":      "",
		"copy.referee_edge.cta":        "",

		"publisher.mode":             ModeSocial,
		"publisher.social_provider":  ProviderTwitter,
		"publisher.inter_post_delay": "60s",
		"publisher.dedupe_ttl":       "24h",

		"twitter.base_url":        "https://api.twitter.com",
		"twitter.consumer_key":    "",
		"twitter.consumer_secret": "",
		"twitter.access_token":    "",
		"twitter.access_secret":   "",
		"twitter.max_length":      280,

		"telegram.bot_token": "",
		"telegram.chat_id":   0,

		"smtp.host":     "smtp.gmail.com",
		"smtp.port":     587,
		"smtp.username": "",
		"smtp.password": "",

		"email.from":       "",
		"email.recipients": []string{},
		"email.subject":    "Daily Betting Signals",

		"scheduler.cron":        "0 11 * * *",
		"scheduler.run_timeout": "30m",
	}
}

// MessageLimit is the longest text one social post may carry, or zero when
// blocks are not posted one by one.
func (c *Config) MessageLimit() int {
	if c.Publisher.Mode != ModeSocial {
		return 0
	}
	switch c.Publisher.SocialProvider {
	case ProviderTwitter:
		if c.Twitter.MaxLength > 0 {
			return c.Twitter.MaxLength
		}
		return twitter.DefaultMaxLength
	case ProviderTelegram:
		return telegram.MaxMessageLength
	}
	return 0
}

// Validate checks the settings the pipeline cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.InsideEdge.BaseURL == "" {
		errs = append(errs, errors.New("insider_edge.base_url is required"))
	}
	if len(c.Sports) == 0 {
		errs = append(errs, errors.New("at least one sport must be configured"))
	}
	for _, sport := range c.Sports {
		if sport.Code == "" {
			errs = append(errs, errors.New("sport code is required"))
		}
		for _, name := range sport.Strategies {
			switch name {
			case StrategyBigBettor, StrategyPropHitRate, StrategyRefereeEdge:
			case StrategySplitsBigBettor:
				if c.Splits.BaseURL == "" {
					errs = append(errs, fmt.Errorf("sport %s: splits.base_url is required for %s", sport.Code, name))
				}
			default:
				errs = append(errs, fmt.Errorf("sport %s: unknown strategy %q", sport.Code, name))
			}
		}
	}

	switch c.Publisher.Mode {
	case ModeSocial:
		switch c.Publisher.SocialProvider {
		case ProviderTwitter, ProviderTelegram:
		default:
			errs = append(errs, fmt.Errorf("unknown social provider %q", c.Publisher.SocialProvider))
		}
	case ModeEmail:
		if c.Email.From == "" || len(c.Email.Recipients) == 0 {
			errs = append(errs, errors.New("email.from and email.recipients are required in email mode"))
		}
	case ModeDryRun:
	default:
		errs = append(errs, fmt.Errorf("unknown publisher mode %q (want %s)", c.Publisher.Mode, strings.Join([]string{ModeSocial, ModeEmail, ModeDryRun}, ", ")))
	}
	return errors.Join(errs...)
}

// Load loads the alert service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, Defaults()); err != nil {
		return nil, err
	}
	return &cfg, nil
}
