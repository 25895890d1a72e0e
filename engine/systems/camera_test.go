package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citadelgfx/citadel/engine/math"
)

func newTestCamera(t *testing.T) *CameraSystem {
	t.Helper()
	cs, err := NewCameraSystem(&CameraSystemConfig{AspectRatio: 16.0 / 9.0})
	require.NoError(t, err)
	return cs
}

func TestCameraDefaults(t *testing.T) {
	cs := newTestCamera(t)
	assert.InDelta(t, 1.5*math.Pi, cs.theta, 1e-6)
	assert.InDelta(t, 0.2*math.Pi, cs.phi, 1e-6)
	assert.InDelta(t, 15.0, cs.radius, 1e-6)
	assert.InDelta(t, 1.0, cs.NearZ(), 1e-6)
	assert.InDelta(t, 1000.0, cs.FarZ(), 1e-6)
}

func TestCameraPositionFromSphericalCoordinates(t *testing.T) {
	cs := newTestCamera(t)
	want := math.NewVec3(
		cs.radius*math.Sin(cs.phi)*math.Cos(cs.theta),
		cs.radius*math.Cos(cs.phi),
		cs.radius*math.Sin(cs.phi)*math.Sin(cs.theta),
	)
	assert.True(t, cs.Position().Compare(want, 1e-6))
}

func TestCameraRotateClampsPhiOffThePoles(t *testing.T) {
	cs := newTestCamera(t)

	// Drag far enough up to push phi past the pole.
	cs.Rotate(0, -100000)
	assert.InDelta(t, cameraPhiMin, cs.phi, 1e-6)

	cs.Rotate(0, 100000)
	assert.InDelta(t, cameraPhiMax, cs.phi, 1e-6)
}

func TestCameraZoomClampsRadius(t *testing.T) {
	cs := newTestCamera(t)

	cs.Zoom(-100000, 0)
	assert.InDelta(t, cameraRadiusMin, cs.radius, 1e-6)

	cs.Zoom(100000, 0)
	assert.InDelta(t, cameraRadiusMax, cs.radius, 1e-6)
}

func TestCameraRotateScalesWithDragDistance(t *testing.T) {
	cs := newTestCamera(t)
	before := cs.theta
	cs.Rotate(4, 0)
	assert.InDelta(t, before+math.DegToRad(4*cameraRotateSpeed), cs.theta, 1e-6)
}

func TestCameraResizeOnlyTouchesProjection(t *testing.T) {
	cs := newTestCamera(t)
	view := cs.View()
	proj := cs.Projection()

	cs.Resize(1.0)
	assert.True(t, cs.View().Compare(view, 0), "resize must not move the camera")
	assert.False(t, cs.Projection().Compare(proj, 0))
}
