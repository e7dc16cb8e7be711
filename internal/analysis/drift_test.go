package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/zsiec/vq/internal/errors"
)

func randomSamples(r *rand.Rand, n, min, max int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = min + r.Intn(max-min+1)
	}
	return out
}

func TestDeviations(t *testing.T) {
	dev, err := Deviations([]int{20, 50, 100}, 20)
	require.NoError(t, err)

	assert.InDelta(t, 30.0, dev[0], 1e-9)
	assert.InDelta(t, 0.0, dev[1], 1e-9)
	assert.InDelta(t, -50.0, dev[2], 1e-9)
}

func TestComputeDebt_ClampedIntegrator(t *testing.T) {
	// At 20 fps the ideal period is 50 ms.
	samples := []int{80, 70, 40, 10, 60, 50, 100}

	debt, err := ComputeDebt(samples, 20)
	require.NoError(t, err)

	want := []float64{30, 50, 40, 0, 10, 10, 60}
	require.Len(t, debt, len(want))
	for i := range want {
		assert.InDelta(t, want[i], debt[i], 1e-9, "frame %d", i)
	}
}

func TestComputeDebt_AheadOfScheduleIsZero(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	samples := randomSamples(r, 500, 1, 33)

	debt, err := ComputeDebt(samples, 30)
	require.NoError(t, err)
	for i, d := range debt {
		assert.Zero(t, d, "frame %d", i)
	}
}

func TestComputeDebt_NonNegativeAndLength(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		samples := randomSamples(r, 1+r.Intn(400), 1, 120)
		fps := float64(2 + r.Intn(60))

		debt, err := ComputeDebt(samples, fps)
		require.NoError(t, err)
		require.Len(t, debt, len(samples))
		for _, d := range debt {
			assert.GreaterOrEqual(t, d, 0.0)
			assert.False(t, math.IsNaN(d))
		}
	}
}

func TestComputeDebt_LowerRateNeverAddsDebt(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	samples := randomSamples(r, 600, 10, 90)

	prev, err := ComputeDebt(samples, 50)
	require.NoError(t, err)
	for fps := 49; fps >= 2; fps-- {
		debt, err := ComputeDebt(samples, float64(fps))
		require.NoError(t, err)
		for i := range debt {
			require.LessOrEqual(t, debt[i], prev[i], "fps %d frame %d", fps, i)
		}
		prev = debt
	}
}

func TestComputeDebt_InvalidFPS(t *testing.T) {
	for _, fps := range []float64{0, -30, math.NaN(), math.Inf(1)} {
		debt, err := ComputeDebt([]int{33}, fps)
		assert.Nil(t, debt)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidParameter), "fps %v", fps)
	}
}

func TestComputeDebt_Empty(t *testing.T) {
	debt, err := ComputeDebt(nil, 30)
	require.NoError(t, err)
	assert.Empty(t, debt)
}
