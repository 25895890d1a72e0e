package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMat4MulIdentity(t *testing.T) {
	m := NewMat4Translation(NewVec3(1, 2, 3))
	assert.True(t, m.Mul(NewMat4Identity()).Compare(m, 0))
	assert.True(t, NewMat4Identity().Mul(m).Compare(m, 0))
}

func TestMat4TransposedIsInvolution(t *testing.T) {
	m := NewMat4Perspective(0.25*Pi, 16.0/9.0, 1, 1000)
	assert.True(t, m.Transposed().Transposed().Compare(m, 0))

	translated := NewMat4Translation(NewVec3(4, 5, 6)).Transposed()
	assert.Equal(t, float32(4), translated.Data[3])
	assert.Equal(t, float32(5), translated.Data[7])
	assert.Equal(t, float32(6), translated.Data[11])
}

func TestMat4InverseRoundTrip(t *testing.T) {
	m := NewMat4Translation(NewVec3(2, -3, 7)).Mul(NewMat4Scale(NewVec3(2, 4, 0.5)))
	assert.True(t, m.Mul(m.Inverse()).Compare(NewMat4Identity(), 1e-5))

	view := NewMat4LookAt(NewVec3(10, 5, 10), NewVec3Zero(), NewVec3Up())
	assert.True(t, view.Mul(view.Inverse()).Compare(NewMat4Identity(), 1e-5))
}

func TestVec3Operations(t *testing.T) {
	a := NewVec3(1, 0, 0)
	b := NewVec3(0, 1, 0)

	assert.True(t, a.Cross(b).Compare(NewVec3(0, 0, 1), 0))
	assert.Zero(t, a.Dot(b))
	assert.InDelta(t, 5.0, NewVec3(3, 4, 0).Length(), 1e-6)
	assert.True(t, NewVec3(0, 0, 9).Normalized().Compare(NewVec3(0, 0, 1), 1e-6))
	// A zero vector normalizes to itself rather than NaN.
	assert.True(t, NewVec3Zero().Normalized().Compare(NewVec3Zero(), 0))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(3, 5, 10))
	assert.Equal(t, 10, Clamp(12, 5, 10))
	assert.Equal(t, 7, Clamp(7, 5, 10))
	assert.InDelta(t, 0.1, Clamp(float32(-2), 0.1, 3.0), 1e-6)
}

func TestAngleConversions(t *testing.T) {
	assert.InDelta(t, Pi, DegToRad(180), 1e-6)
	assert.InDelta(t, 90.0, RadToDeg(Pi/2), 1e-4)
}
