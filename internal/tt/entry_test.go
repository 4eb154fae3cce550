package tt_test

import (
	"testing"

	"github.com/nicozeitz/patchwork/internal/tt"
	"github.com/stretchr/testify/assert"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	cases := []struct {
		depth    uint8
		eval     int32
		evalType tt.EvaluationType
		actionID uint32
	}{
		{255, 1000, tt.Exact, 13},
		{3, -999, tt.UpperBound, 34},
		{0, 0, tt.LowerBound, 17},
		{10, tt.PositiveInfinity, tt.Exact, 0},
		{10, tt.NegativeInfinity, tt.LowerBound, 1},
	}
	for _, c := range cases {
		data := tt.PackData(c.depth, c.eval, c.evalType, c.actionID)
		depth, eval, evalType, actionID := data.Unpack()
		assert.Equal(t, c.depth, depth)
		assert.Equal(t, c.eval, eval)
		assert.Equal(t, c.evalType, evalType)
		assert.Equal(t, c.actionID, actionID)
	}
}

func TestEvaluationTypeString(t *testing.T) {
	assert.Equal(t, "Exact", tt.Exact.String())
	assert.Equal(t, "UpperBound", tt.UpperBound.String())
	assert.Equal(t, "LowerBound", tt.LowerBound.String())
}
