package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketmaker/internal/fair"
	"marketmaker/internal/schema"
)

const sampleConfig = `
products:
  - name: PEARLS
    limit: 20
    price_scale: 0
    quantity_scale: 0
    strategy:
      kind: fixed
      price: 10000
  - name: BANANAS
    limit: 20
    strategy:
      kind: mid
  - name: COCONUTS
    limit: 50
    price_scale: 2
    strategy:
      kind: rolling
      window: 8
`

func TestParseResolvesProducts(t *testing.T) {
	loaded, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)
	require.Equal(t, 3, loaded.Registry.SymbolCount())
	require.Len(t, loaded.Specs, 3)

	pearlsID, ok := loaded.Registry.SymbolByName("PEARLS")
	require.True(t, ok)
	spec := loaded.Specs[pearlsID]
	assert.Equal(t, schema.Quantity(20), spec.Limit)
	assert.Equal(t, fair.Descriptor{Kind: fair.KindFixed, Price: 10000}, spec.Fair)

	coconutsID, ok := loaded.Registry.SymbolByName("COCONUTS")
	require.True(t, ok)
	coconuts, ok := loaded.Registry.Symbol(coconutsID)
	require.True(t, ok)
	assert.Equal(t, schema.Scale(2), coconuts.Scale.PriceScale)
	assert.Equal(t, fair.Descriptor{Kind: fair.KindRollingAverage, Window: 8}, loaded.Specs[coconutsID].Fair)
}

func TestParseStrategyKindAliases(t *testing.T) {
	tests := []struct {
		cfg  StrategyConfig
		want fair.Kind
	}{
		{StrategyConfig{Kind: "Mid_Price"}, fair.KindMidPrice},
		{StrategyConfig{Kind: " midprice "}, fair.KindMidPrice},
		{StrategyConfig{Kind: "rolling_avg", Window: 4}, fair.KindRollingAverage},
		{StrategyConfig{Kind: "FIXED", Price: 1}, fair.KindFixed},
	}
	for _, tt := range tests {
		d, err := resolveStrategy(tt.cfg)
		require.NoError(t, err, tt.cfg.Kind)
		assert.Equal(t, tt.want, d.Kind, tt.cfg.Kind)
	}
}

func TestParseRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", `products: []`},
		{"negative limit", "products:\n  - name: X\n    limit: -1\n    strategy: {kind: mid}"},
		{"unknown kind", "products:\n  - name: X\n    limit: 1\n    strategy: {kind: vwap}"},
		{"fixed without price", "products:\n  - name: X\n    limit: 1\n    strategy: {kind: fixed}"},
		{"rolling without window", "products:\n  - name: X\n    limit: 1\n    strategy: {kind: rolling}"},
		{"negative scale", "products:\n  - name: X\n    limit: 1\n    price_scale: -1\n    strategy: {kind: mid}"},
		{"duplicate name", "products:\n  - name: X\n    limit: 1\n    strategy: {kind: mid}\n  - name: X\n    limit: 1\n    strategy: {kind: mid}"},
		{"not yaml", `{{{{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
