// Package ops loads the static engine configuration: per-product position
// limits and fair value strategy selection, resolved once at startup.
package ops

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"marketmaker/internal/engine"
	"marketmaker/internal/fair"
	"marketmaker/internal/schema"
)

// FileConfig mirrors the YAML config layout.
type FileConfig struct {
	Products []ProductConfig `yaml:"products"`
}

// ProductConfig describes one tradable product.
type ProductConfig struct {
	Name          string         `yaml:"name"`
	Limit         int64          `yaml:"limit"`
	PriceScale    int32          `yaml:"price_scale"`
	QuantityScale int32          `yaml:"quantity_scale"`
	Strategy      StrategyConfig `yaml:"strategy"`
}

// StrategyConfig selects the fair value strategy for a product.
type StrategyConfig struct {
	Kind   string `yaml:"kind"`
	Price  int64  `yaml:"price"`
	Window int    `yaml:"window"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Registry *schema.Registry
	Specs    map[schema.SymbolID]engine.Spec
}

// Load reads a YAML config file and resolves it against a fresh registry.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, err
	}
	return Parse(data)
}

// Parse resolves raw YAML config bytes.
func Parse(data []byte) (Loaded, error) {
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, fmt.Errorf("decode config: %w", err)
	}
	if len(cfg.Products) == 0 {
		return Loaded{}, fmt.Errorf("config has no products")
	}

	registry := schema.NewRegistry()
	specs := make(map[schema.SymbolID]engine.Spec, len(cfg.Products))
	for _, p := range cfg.Products {
		if p.Limit < 0 {
			return Loaded{}, fmt.Errorf("%s: limit must be >= 0", p.Name)
		}
		scale := schema.ScaleSpec{
			PriceScale:    schema.Scale(p.PriceScale),
			QuantityScale: schema.Scale(p.QuantityScale),
		}
		if err := validateScale(scale); err != nil {
			return Loaded{}, fmt.Errorf("invalid scale for %s: %w", p.Name, err)
		}
		descriptor, err := resolveStrategy(p.Strategy)
		if err != nil {
			return Loaded{}, fmt.Errorf("%s: %w", p.Name, err)
		}
		id, err := registry.AddSymbol(p.Name, scale)
		if err != nil {
			return Loaded{}, err
		}
		specs[id] = engine.Spec{
			Limit: schema.Quantity(p.Limit),
			Fair:  descriptor,
		}
	}
	return Loaded{Registry: registry, Specs: specs}, nil
}

func validateScale(scale schema.ScaleSpec) error {
	if scale.PriceScale < 0 || scale.QuantityScale < 0 {
		return fmt.Errorf("scale must be >= 0")
	}
	return nil
}

func resolveStrategy(cfg StrategyConfig) (fair.Descriptor, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "fixed":
		if cfg.Price <= 0 {
			return fair.Descriptor{}, fmt.Errorf("fixed strategy needs a positive price")
		}
		return fair.Descriptor{Kind: fair.KindFixed, Price: schema.Price(cfg.Price)}, nil
	case "mid", "mid_price", "midprice":
		return fair.Descriptor{Kind: fair.KindMidPrice}, nil
	case "rolling", "rolling_average", "rolling_avg":
		if cfg.Window <= 0 {
			return fair.Descriptor{}, fmt.Errorf("rolling strategy needs a positive window")
		}
		return fair.Descriptor{Kind: fair.KindRollingAverage, Window: cfg.Window}, nil
	default:
		return fair.Descriptor{}, fmt.Errorf("unknown strategy kind: %q", cfg.Kind)
	}
}
