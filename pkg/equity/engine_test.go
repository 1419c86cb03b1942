package equity

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestEngine_Run(t *testing.T) {
	tests := []struct {
		name    string
		series  Series
		options []Option
		want    []float64
	}{
		{
			name: "short flip after flat start",
			series: Series{
				Position:    []float64{1, 1, -1},
				OpeningCost: []float64{100, 101, 99},
				ClosingCost: []float64{100, 102, 98},
			},
			options: []Option{WithCommission(CommissionPercent, 0)},
			want:    []float64{1_000_000, 1_000_000, 1_010_101},
		},
		{
			name: "first step never trades",
			series: Series{
				Position:    []float64{5, 5, 5},
				OpeningCost: []float64{100, 50, 200},
				ClosingCost: []float64{10, 300, 1},
			},
			options: []Option{WithCommission(CommissionPercent, 0.5)},
			want:    []float64{1_000_000, 1_000_000, 1_000_000},
		},
		{
			name: "percent commission on open and close",
			series: Series{
				Position:    []float64{0, 1, 0},
				OpeningCost: flat(3, 16),
				ClosingCost: flat(3, 16),
			},
			options: []Option{WithInitialCash(1000), WithCommission(CommissionPercent, 0.0625)},
			want:    []float64{1000, 938, 876},
		},
		{
			name: "absolute commission with slippage",
			series: Series{
				Position:    []float64{0, 1},
				OpeningCost: flat(2, 16),
				ClosingCost: flat(2, 16),
			},
			options: []Option{
				WithInitialCash(1000),
				WithContractMultiplier(10),
				WithCommission(CommissionAbsolute, 2),
				WithSlippage(0.5, 1),
			},
			// 6 lots * (2 + 10 * 0.5 * 1)
			want: []float64{1000, 958},
		},
		{
			name: "percent commission with slippage",
			series: Series{
				Position:    []float64{0, 1},
				OpeningCost: flat(2, 16),
				ClosingCost: flat(2, 16),
			},
			options: []Option{
				WithInitialCash(1000),
				WithContractMultiplier(10),
				WithCommission(CommissionPercent, 0.0625),
				WithSlippage(0.5, 1),
			},
			// 6 lots * 10 * (16 * 0.0625 + 0.5 * 1)
			want: []float64{1000, 910},
		},
		{
			name: "gap and mark-to-market on held lots",
			series: Series{
				Position:    []float64{0, 1, 1, 1},
				OpeningCost: []float64{100, 100, 110, 120},
				ClosingCost: []float64{100, 105, 115, 125},
			},
			options: []Option{WithInitialCash(10_000), WithCommission(CommissionPercent, 0)},
			want:    []float64{10_000, 10_500, 11_500, 12_500},
		},
		{
			name: "leverage and multiplier size lots",
			series: Series{
				Position:    []float64{0, 0.5, 0.5},
				OpeningCost: []float64{100, 100, 101},
				ClosingCost: []float64{100, 102, 100},
			},
			options: []Option{
				WithInitialCash(100_000),
				WithContractMultiplier(10),
				WithLeverage(4),
				WithCommission(CommissionPercent, 0),
			},
			// floor(100000 * 4 * 0.5 / (10 * 100)) = 200 lots
			want: []float64{100_000, 104_000, 102_000},
		},
		{
			name: "rolling into a smaller position nets the lot delta",
			series: Series{
				Position:    []float64{0, 1, 0.5},
				OpeningCost: flat(3, 16),
				ClosingCost: flat(3, 16),
			},
			options: []Option{WithInitialCash(1000), WithCommission(CommissionPercent, 0.0625)},
			// 62 lots, then |29 - 62|
			want: []float64{1000, 938, 905},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Simulate(tt.series, tt.options...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_RunEmpty(t *testing.T) {
	got, err := Simulate(Series{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = Simulate(Series{Rollover: []bool{}})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEngine_Blowup(t *testing.T) {
	series := Series{
		Position:    []float64{0, 1, 1, 1},
		OpeningCost: []float64{100, 100, 50, 40},
		ClosingCost: []float64{100, 45, 40, 60},
	}
	base := []Option{WithInitialCash(10_000), WithLeverage(2), WithCommission(CommissionPercent, 0)}

	withBlowup, err := Simulate(series, append(base, WithBlowup(true))...)
	require.NoError(t, err)
	assert.Equal(t, []float64{10_000, -1_000, 0, 0}, withBlowup)

	withoutBlowup, err := Simulate(series, base...)
	require.NoError(t, err)
	assert.Equal(t, []float64{10_000, -1_000, -2_000, 2_000}, withoutBlowup)
}

func TestEngine_BlowupFreezesState(t *testing.T) {
	e, err := NewEngine(WithInitialCash(0), WithBlowup(true))
	require.NoError(t, err)

	s := e.NewState(Bar{Position: 0, ClosingCost: 10})
	for _, bar := range []Bar{
		{Position: 0, OpeningCost: 10, ClosingCost: 10},
		{Position: 1, OpeningCost: 10, ClosingCost: 20},
		{Position: -1, OpeningCost: 0, ClosingCost: 5},
	} {
		cash, err := e.Step(s, bar)
		require.NoError(t, err)
		assert.Zero(t, cash)
	}
	assert.Zero(t, s.LastLotCount)
	assert.Zero(t, s.LastPosition)
	assert.Equal(t, 10.0, s.LastClose)
	assert.Equal(t, 3, s.Index)
}

func TestEngine_ConstantPositionNeverTrades(t *testing.T) {
	e, err := NewEngine(WithCommission(CommissionAbsolute, 1000), WithSlippage(5, 1))
	require.NoError(t, err)

	series := Series{
		Position:    flat(50, 0.8),
		OpeningCost: flat(50, 100),
		ClosingCost: flat(50, 120),
	}
	got, err := e.Run(context.Background(), series)
	require.NoError(t, err)
	assert.Equal(t, flat(50, float64(DefaultInitialCash)), got)
}

func TestEngine_Rollover(t *testing.T) {
	series := Series{
		Position:    []float64{0, 1, 1, 1},
		OpeningCost: []float64{100, 100, 110, 120},
		ClosingCost: []float64{100, 105, 115, 125},
		Rollover:    []bool{false, false, true, false},
	}
	options := []Option{WithInitialCash(10_000), WithCommission(CommissionPercent, 0)}

	suppressed, err := Simulate(series, options...)
	require.NoError(t, err)
	assert.Equal(t, []float64{10_000, 10_500, 11_000, 12_000}, suppressed)

	series.Rollover = nil
	plain, err := Simulate(series, options...)
	require.NoError(t, err)

	// 100 lots * (110 - 105)
	gap := 500.0
	for idx := 2; idx < len(plain); idx++ {
		assert.Equal(t, gap, plain[idx]-suppressed[idx])
	}
}

func TestEngine_RolloverCommission(t *testing.T) {
	tests := []struct {
		name     string
		position []float64
		want     []float64
	}{
		{
			name:     "position change charges close and reopen",
			position: []float64{0, 1, 0.5},
			// 62 lots opened, then 2 * 62 lots traded
			want: []float64{1000, 938, 814},
		},
		{
			name:     "unchanged position charges nothing",
			position: []float64{0, 1, 1},
			want:     []float64{1000, 938, 938},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Simulate(Series{
				Position:    tt.position,
				OpeningCost: flat(3, 16),
				ClosingCost: flat(3, 16),
				Rollover:    []bool{false, false, true},
			}, WithInitialCash(1000), WithCommission(CommissionPercent, 0.0625))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_CommissionModesAgreeAtUnitPrice(t *testing.T) {
	series := Series{
		Position:    []float64{0, 0.5, -1, 0, 1},
		OpeningCost: flat(5, 1),
		ClosingCost: flat(5, 1),
	}
	common := []Option{WithInitialCash(1000), WithContractMultiplier(1), WithSlippage(0.5, 0.25)}

	percent, err := Simulate(series, append(common, WithCommission(CommissionPercent, 0.25))...)
	require.NoError(t, err)
	absolute, err := Simulate(series, append(common, WithCommission(CommissionAbsolute, 0.25))...)
	require.NoError(t, err)

	assert.Equal(t, percent, absolute)
	assert.Less(t, percent[len(percent)-1], 1000.0)
}

func TestEngine_Settlement(t *testing.T) {
	series := Series{
		Position:    []float64{1, 1, -1},
		OpeningCost: []float64{100, 101, 99},
		ClosingCost: []float64{100, 102, 98},
	}

	var calls int
	none := func(lots, direction, openingCost, closingCost float64, p Parameters) float64 {
		calls++
		assert.Equal(t, 10101.0, lots)
		assert.Equal(t, -1.0, direction)
		return 0
	}

	got, err := Simulate(series, WithCommission(CommissionPercent, 0), WithSettlement(none))
	require.NoError(t, err)
	assert.Equal(t, []float64{1_000_000, 1_000_000, 1_000_000}, got)
	assert.Equal(t, 1, calls)

	// nil falls back to mark-to-market
	got, err = Simulate(series, WithCommission(CommissionPercent, 0), WithSettlement(nil))
	require.NoError(t, err)
	assert.Equal(t, 1_010_101.0, got[2])
}

func TestEngine_StepMatchesRun(t *testing.T) {
	series := Series{
		Position:    []float64{0, 0.3, 0.3, -0.7, -0.7, 0.1, 0},
		OpeningCost: []float64{3010.2, 3011.4, 3020.8, 2998.6, 2975, 2990.4, 3001.2},
		ClosingCost: []float64{3012, 3018.6, 3001.2, 2980, 2991.8, 2999, 3003},
		Rollover:    []bool{false, false, false, true, false, false, false},
	}
	e, err := NewEngine(
		WithContractMultiplier(300),
		WithLeverage(3),
		WithSlippage(1, 0.2),
		WithCommission(CommissionPercent, 2.3e-5),
	)
	require.NoError(t, err)

	want, err := e.Run(context.Background(), series)
	require.NoError(t, err)

	s := e.NewState(series.Bar(0))
	for idx := 0; idx < series.Len(); idx++ {
		cash, err := e.Step(s, series.Bar(idx))
		require.NoError(t, err)
		assert.Equal(t, want[idx], cash)
		assert.GreaterOrEqual(t, s.LastLotCount, 0.0)
	}
	assert.Len(t, want, series.Len())
}

func TestEngine_ConfigurationErrors(t *testing.T) {
	valid := Series{
		Position:    []float64{0, 1},
		OpeningCost: []float64{1, 1},
		ClosingCost: []float64{1, 1},
	}

	tests := []struct {
		name    string
		series  Series
		options []Option
		field   string
	}{
		{"opening length", Series{Position: []float64{1, 2}, OpeningCost: []float64{1}, ClosingCost: []float64{1, 2}}, nil, "opening_cost"},
		{"closing length", Series{Position: []float64{1}, OpeningCost: []float64{1}}, nil, "closing_cost"},
		{"rollover length", Series{Position: []float64{1}, OpeningCost: []float64{1}, ClosingCost: []float64{1}, Rollover: []bool{true, false}}, nil, "rollover"},
		{"zero multiplier", valid, []Option{WithContractMultiplier(0)}, "contract_multiplier"},
		{"negative multiplier", valid, []Option{WithContractMultiplier(-3)}, "contract_multiplier"},
		{"zero leverage", valid, []Option{WithLeverage(0)}, "leverage"},
		{"nan leverage", valid, []Option{WithLeverage(math.NaN())}, "leverage"},
		{"unknown commission type", valid, []Option{WithCommission(CommissionType(7), 0)}, "commission_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Simulate(tt.series, tt.options...)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, ErrConfiguration)

			var configErr *ConfigError
			require.True(t, errors.As(err, &configErr))
			assert.Equal(t, tt.field, configErr.Field)
		})
	}
}

func TestEngine_NumericDomainErrors(t *testing.T) {
	tests := []struct {
		name  string
		open  []float64
		index int
	}{
		{"zero opening price", []float64{1, 1, 0}, 2},
		{"negative opening price", []float64{1, -5, 1}, 1},
		{"nan opening price", []float64{1, math.NaN(), 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Simulate(Series{
				Position:    []float64{0, 1, -1},
				OpeningCost: tt.open,
				ClosingCost: []float64{1, 1, 1},
			})
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, ErrNumericDomain)

			var domainErr *DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, tt.index, domainErr.Index)
		})
	}
}

func TestEngine_ZeroOpeningPriceWithoutTrade(t *testing.T) {
	got, err := Simulate(Series{
		Position:    []float64{1, 1},
		OpeningCost: []float64{0, 0},
		ClosingCost: []float64{1, 1},
	})
	require.NoError(t, err)
	assert.Equal(t, flat(2, float64(DefaultInitialCash)), got)
}

func TestEngine_RunCancelled(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := e.Run(ctx, Series{
		Position:    []float64{0, 1},
		OpeningCost: []float64{1, 1},
		ClosingCost: []float64{1, 1},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
}

func BenchmarkEngine_Run(b *testing.B) {
	const n = 100_000
	series := Series{
		Position:    make([]float64, n),
		OpeningCost: make([]float64, n),
		ClosingCost: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		series.Position[i] = float64(i/10%3 - 1)
		series.OpeningCost[i] = 100 + float64(i%7)
		series.ClosingCost[i] = 100 + float64(i%5)
	}
	e, err := NewEngine(WithCommission(CommissionPercent, 3e-4))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Run(context.Background(), series); err != nil {
			b.Fatal(err)
		}
	}
}
