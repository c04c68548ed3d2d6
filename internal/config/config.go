// Package config loads pipeline configuration from a YAML file, environment
// variables, and defaults, and sets up the global logger.
package config

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/sunlight-cohort/internal/dateutil"
)

// Config holds the full application configuration.
type Config struct {
	Paths  PathsConfig  `yaml:"paths" mapstructure:"paths"`
	Window WindowConfig `yaml:"window" mapstructure:"window"`
	Cohort CohortConfig `yaml:"cohort" mapstructure:"cohort"`
	Match  MatchConfig  `yaml:"match" mapstructure:"match"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// PathsConfig names the source and output locations of every stage.
type PathsConfig struct {
	Boundary    string `yaml:"boundary" mapstructure:"boundary"`
	StationMeta string `yaml:"station_meta" mapstructure:"station_meta"`
	Sunlight    string `yaml:"sunlight" mapstructure:"sunlight"`
	Panel       string `yaml:"panel" mapstructure:"panel"`
	Cutoffs     string `yaml:"cutoffs" mapstructure:"cutoffs"`
	OutDir      string `yaml:"out_dir" mapstructure:"out_dir"`
}

// WindowConfig bounds the study period. Dates are YYYY-MM-DD; End is the last
// covered day, inclusive, as the data collaborators specify it.
type WindowConfig struct {
	Start string `yaml:"start" mapstructure:"start"`
	End   string `yaml:"end" mapstructure:"end"`
}

// Range converts the configured inclusive bounds to the half-open study range.
func (w WindowConfig) Range() (dateutil.Range, error) {
	start, err := dateutil.ParseDate(w.Start)
	if err != nil {
		return dateutil.Range{}, eris.Wrap(err, "config: window start")
	}
	end, err := dateutil.ParseDate(w.End)
	if err != nil {
		return dateutil.Range{}, eris.Wrap(err, "config: window end")
	}
	r := dateutil.Range{Start: start, End: dateutil.NextDay(end)}
	if r.Empty() {
		return dateutil.Range{}, eris.Errorf("config: window %s..%s is empty", w.Start, w.End)
	}
	return r, nil
}

// CohortConfig holds survey-panel modeling knobs.
type CohortConfig struct {
	BirthDayAnchor int     `yaml:"birth_day_anchor" mapstructure:"birth_day_anchor"`
	Sentinel       float64 `yaml:"sentinel" mapstructure:"sentinel"`
}

// MatchConfig tunes the station matcher.
type MatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// LogConfig configures the global zap logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads config.yaml (optional), SUNCOHORT_* environment variables, and
// defaults, in that precedence order.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SUNCOHORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("window.start", "2007-06-01")
	v.SetDefault("window.end", "2011-08-31")
	v.SetDefault("cohort.birth_day_anchor", 15)
	v.SetDefault("cohort.sentinel", 999)
	v.SetDefault("match.concurrency", 8)
	v.SetDefault("paths.out_dir", "out")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		dateToStringHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// dateToStringHook renders unquoted YAML dates back to their string form.
// The YAML decoder turns a bare 2008-01-01 into a time.Time, which would
// otherwise fail to land in the string-typed window fields.
func dateToStringHook() mapstructure.DecodeHookFunc {
	return func(from, to reflect.Type, data interface{}) (interface{}, error) {
		if from == reflect.TypeOf(time.Time{}) && to.Kind() == reflect.String {
			return data.(time.Time).Format(dateutil.Layout), nil
		}
		return data, nil
	}
}

// InitLogger builds the global zap logger from config.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
