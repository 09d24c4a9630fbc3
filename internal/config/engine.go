package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// TaxBracket mirrors one legally recognized rate with its snapping window.
type TaxBracket struct {
	Rate   float64 `mapstructure:"rate"`
	Window float64 `mapstructure:"window"`
}

// EngineConfig holds the tunable constants of the transformation engine.
// The defaults reproduce the authority's published brackets and the
// tolerances the gateway enforces; deployments override them via engine.yml.
type EngineConfig struct {
	// LineTaxTolerance is the precision-correction threshold: a line's raw
	// tax amount is replaced by the recomputed one only when they differ by
	// less than this many currency units. Candidate for tightening once real
	// tolerance requirements are known.
	LineTaxTolerance float64 `mapstructure:"lineTaxTolerance"`

	// ReconcileTolerance is the maximum difference allowed between line sums
	// and header totals after reconciliation.
	ReconcileTolerance float64 `mapstructure:"reconcileTolerance"`

	TaxBrackets []TaxBracket `mapstructure:"taxBrackets"`
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		LineTaxTolerance:   1.0,
		ReconcileTolerance: 0.001,
		TaxBrackets: []TaxBracket{
			{Rate: 19, Window: 0.5},
			{Rate: 8, Window: 0.5},
			{Rate: 5, Window: 0.5},
			{Rate: 0, Window: 0.5},
		},
	}
}

// EngineConfigHolder serves the current engine config and hot-reloads it when
// the backing file changes.
type EngineConfigHolder struct {
	current atomic.Value // holds EngineConfig
}

func NewEngineConfigHolder() (*EngineConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("engine")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/facturel")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FACTUREL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultEngineConfig()
	v.SetDefault("engine.lineTaxTolerance", defaults.LineTaxTolerance)
	v.SetDefault("engine.reconcileTolerance", defaults.ReconcileTolerance)
	v.SetDefault("engine.taxBrackets", defaults.TaxBrackets)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg EngineConfig
	if err := v.UnmarshalKey("engine", &cfg); err != nil {
		return nil, err
	}
	if err := validateEngineConfig(cfg); err != nil {
		return nil, err
	}

	holder := &EngineConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated EngineConfig
		if err := v.UnmarshalKey("engine", &updated); err != nil {
			log.Printf("[engine-config] reload failed: %v", err)
			return
		}
		if err := validateEngineConfig(updated); err != nil {
			log.Printf("[engine-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[engine-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticEngineConfigHolder wraps a fixed config, with no file watching.
func NewStaticEngineConfigHolder(cfg EngineConfig) *EngineConfigHolder {
	holder := &EngineConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *EngineConfigHolder) Get() EngineConfig {
	return h.current.Load().(EngineConfig)
}

func validateEngineConfig(cfg EngineConfig) error {
	if cfg.LineTaxTolerance <= 0 {
		return errors.New("engine.lineTaxTolerance must be positive")
	}
	if cfg.ReconcileTolerance <= 0 {
		return errors.New("engine.reconcileTolerance must be positive")
	}
	if len(cfg.TaxBrackets) == 0 {
		return errors.New("engine.taxBrackets cannot be empty")
	}
	return nil
}
