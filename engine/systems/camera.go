package systems

import (
	"github.com/citadelgfx/citadel/engine/math"
)

// Orbit camera bounds. Phi stays off the poles so the view basis never
// degenerates; radius stays inside the scene's useful range.
const (
	cameraPhiMin    = 0.1
	cameraPhiMax    = math.Pi - 0.1
	cameraRadiusMin = 5.0
	cameraRadiusMax = 150.0

	// Degrees of orbit per pixel of mouse drag.
	cameraRotateSpeed = 0.25
	// World units of dolly per pixel of mouse drag.
	cameraZoomSpeed = 0.05
)

// CameraSystem is a spherical-coordinate orbit camera around a fixed
// target at the origin.
type CameraSystem struct {
	theta  float32
	phi    float32
	radius float32

	position math.Vec3
	view     math.Mat4
	proj     math.Mat4

	aspect float32
	nearZ  float32
	farZ   float32
}

type CameraSystemConfig struct {
	AspectRatio float32
	NearZ       float32
	FarZ        float32
}

func NewCameraSystem(config *CameraSystemConfig) (*CameraSystem, error) {
	cs := &CameraSystem{
		theta:  1.5 * math.Pi,
		phi:    0.2 * math.Pi,
		radius: 15.0,
		aspect: config.AspectRatio,
		nearZ:  config.NearZ,
		farZ:   config.FarZ,
	}
	if cs.nearZ == 0 {
		cs.nearZ = 1.0
	}
	if cs.farZ == 0 {
		cs.farZ = 1000.0
	}
	if cs.aspect == 0 {
		cs.aspect = 4.0 / 3.0
	}
	cs.updateProjection()
	cs.updateView()
	return cs, nil
}

// Rotate orbits the camera by a mouse drag of (dx, dy) pixels.
func (cs *CameraSystem) Rotate(dx, dy int32) {
	cs.theta += math.DegToRad(cameraRotateSpeed * float32(dx))
	cs.phi += math.DegToRad(cameraRotateSpeed * float32(dy))
	cs.phi = math.Clamp(cs.phi, float32(cameraPhiMin), float32(cameraPhiMax))
	cs.updateView()
}

// Zoom dollies along the view vector by a mouse drag of (dx, dy)
// pixels.
func (cs *CameraSystem) Zoom(dx, dy int32) {
	cs.radius += cameraZoomSpeed*float32(dx) - cameraZoomSpeed*float32(dy)
	cs.radius = math.Clamp(cs.radius, float32(cameraRadiusMin), float32(cameraRadiusMax))
	cs.updateView()
}

func (cs *CameraSystem) Resize(aspect float32) {
	cs.aspect = aspect
	cs.updateProjection()
}

func (cs *CameraSystem) Position() math.Vec3 { return cs.position }
func (cs *CameraSystem) View() math.Mat4     { return cs.view }
func (cs *CameraSystem) Projection() math.Mat4 {
	return cs.proj
}
func (cs *CameraSystem) NearZ() float32 { return cs.nearZ }
func (cs *CameraSystem) FarZ() float32  { return cs.farZ }

func (cs *CameraSystem) updateView() {
	// Spherical to cartesian.
	cs.position = math.NewVec3(
		cs.radius*math.Sin(cs.phi)*math.Cos(cs.theta),
		cs.radius*math.Cos(cs.phi),
		cs.radius*math.Sin(cs.phi)*math.Sin(cs.theta),
	)
	cs.view = math.NewMat4LookAt(cs.position, math.NewVec3(0, 0, 0), math.NewVec3(0, 1, 0))
}

func (cs *CameraSystem) updateProjection() {
	cs.proj = math.NewMat4Perspective(0.25*math.Pi, cs.aspect, cs.nearZ, cs.farZ)
}
