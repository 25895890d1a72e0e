package metadata

import (
	"encoding/binary"
	gomath "math"

	"github.com/citadelgfx/citadel/engine/math"
)

// Constant records are copied byte-for-byte into GPU-visible upload
// memory, so their encoded layout must match what the shaders expect:
// little-endian float32, HLSL cbuffer packing, matrices pre-transposed
// by the update pass.

const MaxLights = 16

// Sizes of the encoded records, before constant-buffer alignment.
const (
	ObjectConstantsSize   = 2 * 64
	MaterialConstantsSize = 4*4 + 3*4 + 4
	PassConstantsSize     = 6*64 + 3*4 + 4 + 2*4 + 2*4 + 4*4 + 4*4 + MaxLights*LightSize
	LightSize             = 3*4 + 4 + 3*4 + 4 + 3*4 + 4
)

// ObjectConstants is the per-object record: world transform plus the
// texture-coordinate transform (identity in the colored-shape scene).
type ObjectConstants struct {
	World        math.Mat4
	TexTransform math.Mat4
}

// MaterialConstants is the per-material record.
type MaterialConstants struct {
	DiffuseAlbedo math.Vec4
	FresnelR0     math.Vec3
	Roughness     float32
}

// Light matches the HLSL light layout: the falloff/spot scalars pad the
// three vectors to 16-byte boundaries.
type Light struct {
	Strength     math.Vec3
	FalloffStart float32
	Direction    math.Vec3
	FalloffEnd   float32
	Position     math.Vec3
	SpotPower    float32
}

// PassConstants is the once-per-frame record: camera matrices and their
// inverses, viewport and timing data, and the light list. Rebuilt in
// full every frame.
type PassConstants struct {
	View                math.Mat4
	InvView             math.Mat4
	Proj                math.Mat4
	InvProj             math.Mat4
	ViewProj            math.Mat4
	InvViewProj         math.Mat4
	EyePosW             math.Vec3
	RenderTargetSize    math.Vec2
	InvRenderTargetSize math.Vec2
	NearZ               float32
	FarZ                float32
	TotalTime           float32
	DeltaTime           float32
	AmbientLight        math.Vec4
	Lights              [MaxLights]Light
}

func putFloat32(dst []byte, v float32) {
	binary.LittleEndian.PutUint32(dst, gomath.Float32bits(v))
}

func putVec2(dst []byte, v math.Vec2) {
	putFloat32(dst[0:], v.X)
	putFloat32(dst[4:], v.Y)
}

func putVec3(dst []byte, v math.Vec3) {
	putFloat32(dst[0:], v.X)
	putFloat32(dst[4:], v.Y)
	putFloat32(dst[8:], v.Z)
}

func putVec4(dst []byte, v math.Vec4) {
	putFloat32(dst[0:], v.X)
	putFloat32(dst[4:], v.Y)
	putFloat32(dst[8:], v.Z)
	putFloat32(dst[12:], v.W)
}

// PutMat4 encodes the 16 matrix elements in storage order.
func PutMat4(dst []byte, m math.Mat4) {
	for i, f := range m.Data {
		putFloat32(dst[i*4:], f)
	}
}

// DecodeMat4 is the inverse of PutMat4.
func DecodeMat4(src []byte) math.Mat4 {
	out := math.Mat4{}
	for i := range out.Data {
		out.Data[i] = gomath.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
	return out
}

// Encode serializes the record into dst, which must hold at least
// ObjectConstantsSize bytes.
func (oc *ObjectConstants) Encode(dst []byte) {
	PutMat4(dst[0:], oc.World)
	PutMat4(dst[64:], oc.TexTransform)
}

// Encode serializes the record into dst, which must hold at least
// MaterialConstantsSize bytes.
func (mc *MaterialConstants) Encode(dst []byte) {
	putVec4(dst[0:], mc.DiffuseAlbedo)
	putVec3(dst[16:], mc.FresnelR0)
	putFloat32(dst[28:], mc.Roughness)
}

func (l *Light) encode(dst []byte) {
	putVec3(dst[0:], l.Strength)
	putFloat32(dst[12:], l.FalloffStart)
	putVec3(dst[16:], l.Direction)
	putFloat32(dst[28:], l.FalloffEnd)
	putVec3(dst[32:], l.Position)
	putFloat32(dst[44:], l.SpotPower)
}

// Encode serializes the record into dst, which must hold at least
// PassConstantsSize bytes.
func (pc *PassConstants) Encode(dst []byte) {
	PutMat4(dst[0:], pc.View)
	PutMat4(dst[64:], pc.InvView)
	PutMat4(dst[128:], pc.Proj)
	PutMat4(dst[192:], pc.InvProj)
	PutMat4(dst[256:], pc.ViewProj)
	PutMat4(dst[320:], pc.InvViewProj)
	putVec3(dst[384:], pc.EyePosW)
	// 4 bytes of cbuffer padding after the float3.
	putVec2(dst[400:], pc.RenderTargetSize)
	putVec2(dst[408:], pc.InvRenderTargetSize)
	putFloat32(dst[416:], pc.NearZ)
	putFloat32(dst[420:], pc.FarZ)
	putFloat32(dst[424:], pc.TotalTime)
	putFloat32(dst[428:], pc.DeltaTime)
	putVec4(dst[432:], pc.AmbientLight)
	for i := range pc.Lights {
		pc.Lights[i].encode(dst[448+i*LightSize:])
	}
}
