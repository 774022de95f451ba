package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/menta2k/lookfinder/pkg/types"
)

func TestIoU(t *testing.T) {
	a := types.Box(0, 0, 10, 10)

	assert.InDelta(t, 1.0, IoU(a, a), 1e-9)
	assert.Equal(t, 0.0, IoU(a, types.Box(20, 20, 30, 30)))
	// touching edges do not intersect
	assert.Equal(t, 0.0, IoU(a, types.Box(10, 0, 20, 10)))

	b := types.Box(5, 0, 15, 10)
	assert.InDelta(t, 50.0/150.0, IoU(a, b), 1e-9)
	assert.Equal(t, IoU(a, b), IoU(b, a))
}

func TestIoUDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, IoU(types.Box(5, 5, 5, 5), types.Box(0, 0, 10, 10)))
	assert.Equal(t, 0.0, IoU(types.Box(0, 0, 0, 10), types.Box(0, 0, 0, 10)))
}

func TestOverlapRatio(t *testing.T) {
	inner := types.Box(2, 2, 4, 4)
	outer := types.Box(0, 0, 10, 10)

	assert.Equal(t, 1.0, OverlapRatio(inner, outer))
	assert.InDelta(t, 0.04, OverlapRatio(outer, inner), 1e-9)
	assert.Equal(t, 0.0, OverlapRatio(inner, types.Box(50, 50, 60, 60)))
	assert.Equal(t, 0.0, OverlapRatio(types.Box(3, 3, 3, 3), outer))
}

func TestCenterDistance(t *testing.T) {
	d := CenterDistance(types.Box(0, 0, 10, 10), types.Box(30, 40, 40, 50))
	assert.InDelta(t, 50.0, d, 1e-9)
}

func TestExpandClampsAndTruncates(t *testing.T) {
	got := Expand(types.Box(10.5, 10, 110.5, 60), 115, 200, 0.1)

	// grows by 10 horizontally and 5 vertically, then clamps x2 to 115
	assert.Equal(t, types.Box(0, 5, 115, 65), got)
	for _, v := range []float64{got.X1, got.Y1, got.X2, got.Y2} {
		assert.Equal(t, math.Trunc(v), v)
	}
}

func TestExpandZeroRatioKeepsBox(t *testing.T) {
	assert.Equal(t, types.Box(10, 20, 30, 40), Expand(types.Box(10, 20, 30, 40), 100, 100, 0))
}

func TestContainsTolerant(t *testing.T) {
	outer := types.Box(10, 10, 100, 100)

	assert.True(t, Contains(types.Box(6, 6, 104, 104), outer, 5))
	assert.False(t, Contains(types.Box(4, 10, 50, 50), outer, 5))
}

func TestUnionAndClamp(t *testing.T) {
	assert.Equal(t, types.Box(0, 5, 30, 40), Union(types.Box(0, 10, 20, 40), types.Box(10, 5, 30, 20)))
	assert.Equal(t, types.Box(0, 0, 50, 60), Clamp(types.Box(-5, -1, 80, 90), 50, 60))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(types.Box(0, 0, 1, 1)))

	err := Validate(types.Box(5, 0, 5, 10))
	assert.True(t, errors.Is(err, types.ErrInvalidBox))

	var ve *types.ValidationError
	assert.True(t, errors.As(Validate(types.Box(0, 0, math.NaN(), 1)), &ve))
}
