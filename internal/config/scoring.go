package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ScoringBand maps an upper bound (exclusive) on a feature value to the
// points it contributes. A nil Below marks the catch-all band.
type ScoringBand struct {
	Below  *float64 `mapstructure:"below"`
	Points int      `mapstructure:"points"`
}

// ScoringConfig holds the rule-based scorer's bands and tier thresholds.
type ScoringConfig struct {
	GPABands        []ScoringBand `mapstructure:"gpaBands"`
	AttendanceBands []ScoringBand `mapstructure:"attendanceBands"`
	EngagementBands []ScoringBand `mapstructure:"engagementBands"`
	NoAidPoints     int           `mapstructure:"noAidPoints"`
	HighThreshold   int           `mapstructure:"highThreshold"`
	MediumThreshold int           `mapstructure:"mediumThreshold"`
	Interventions   []string      `mapstructure:"interventions"`
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		GPABands: []ScoringBand{
			{Below: floatPtr(2.0), Points: 40},
			{Below: floatPtr(2.5), Points: 30},
			{Below: floatPtr(3.0), Points: 15},
			{Below: nil, Points: 5},
		},
		AttendanceBands: []ScoringBand{
			{Below: floatPtr(70), Points: 30},
			{Below: floatPtr(80), Points: 20},
			{Below: floatPtr(90), Points: 10},
			{Below: nil, Points: 5},
		},
		EngagementBands: []ScoringBand{
			{Below: floatPtr(2), Points: 20},
			{Below: floatPtr(5), Points: 10},
			{Below: nil, Points: 5},
		},
		NoAidPoints:     10,
		HighThreshold:   60,
		MediumThreshold: 35,
		Interventions: []string{
			"Schedule regular check-ins with academic advisor",
			"Utilize campus tutoring and support services",
			"Join study groups and peer mentoring programs",
		},
	}
}

func floatPtr(v float64) *float64 { return &v }

// ScoringConfigHolder serves the current scoring config and hot-reloads it
// when the backing file changes.
type ScoringConfigHolder struct {
	current atomic.Value // holds ScoringConfig
}

func NewScoringConfigHolder() (*ScoringConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("scoring")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/beacon")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BEACON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := DefaultScoringConfig()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	} else {
		if err := v.UnmarshalKey("scoring", &cfg); err != nil {
			return nil, err
		}
	}
	if err := validateScoringConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ScoringConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated := DefaultScoringConfig()
		if err := v.UnmarshalKey("scoring", &updated); err != nil {
			log.Printf("[scoring-config] reload failed: %v", err)
			return
		}
		if err := validateScoringConfig(updated); err != nil {
			log.Printf("[scoring-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[scoring-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticScoringConfigHolder wraps a fixed config, bypassing file loading.
func NewStaticScoringConfigHolder(cfg ScoringConfig) *ScoringConfigHolder {
	holder := &ScoringConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *ScoringConfigHolder) Get() ScoringConfig {
	return h.current.Load().(ScoringConfig)
}

func validateScoringConfig(cfg ScoringConfig) error {
	for _, bands := range [][]ScoringBand{cfg.GPABands, cfg.AttendanceBands, cfg.EngagementBands} {
		if len(bands) == 0 {
			return errors.New("scoring bands cannot be empty")
		}
		if bands[len(bands)-1].Below != nil {
			return errors.New("last scoring band must be the catch-all")
		}
	}
	if cfg.MediumThreshold <= 0 || cfg.HighThreshold <= cfg.MediumThreshold {
		return errors.New("tier thresholds must satisfy 0 < medium < high")
	}
	if len(cfg.Interventions) == 0 || len(cfg.Interventions) > 3 {
		return errors.New("scoring.interventions must contain 1 to 3 entries")
	}
	return nil
}
