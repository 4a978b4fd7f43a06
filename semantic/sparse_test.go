package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSparseVector_UnigramsAndBigrams(t *testing.T) {
	v := BuildSparseVector("pump seal pump")
	require.NotNil(t, v)

	assert.Equal(t, 2.0, v.Weights["pump"])
	assert.Equal(t, 1.0, v.Weights["seal"])
	assert.Equal(t, 0.5, v.Weights["pump__seal"])
	assert.Equal(t, 0.5, v.Weights["seal__pump"])
	assert.Greater(t, v.Norm, 1.0)
}

func TestBuildSparseVector_DegenerateInputHasUnitNormFloor(t *testing.T) {
	v := BuildSparseVector("the a an")
	assert.Empty(t, v.Weights)
	assert.Equal(t, 1.0, v.Norm, "norm is floored so cosine never divides by zero")
}

func TestCosine_IdenticalTexts(t *testing.T) {
	a := BuildSparseVector("replace the coolant filter")
	b := BuildSparseVector("replace the coolant filter")
	assert.InDelta(t, 1.0, Cosine(a, b), 1e-9)
}

func TestCosine_DisjointTexts(t *testing.T) {
	a := BuildSparseVector("hydraulic pump")
	b := BuildSparseVector("electrical wiring")
	assert.Zero(t, Cosine(a, b))
}

func TestCosine_Nil(t *testing.T) {
	assert.Zero(t, Cosine(nil, BuildSparseVector("x1 y1")))
	assert.Zero(t, Cosine(BuildSparseVector("x1 y1"), nil))
}

func TestCosineDense(t *testing.T) {
	assert.InDelta(t, 1.0, CosineDense([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineDense([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Zero(t, CosineDense([]float32{1, 0}, []float32{1, 0, 0}), "length mismatch yields 0")
	assert.Zero(t, CosineDense([]float32{0, 0}, []float32{1, 0}), "zero norm yields 0")
	assert.Zero(t, CosineDense(nil, nil))
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, float64(v[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(v[1]), 1e-6)

	zero := Normalize([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
	assert.Empty(t, Normalize(nil))
}
