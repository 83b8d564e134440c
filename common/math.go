package common

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// ClipRemap converts OpenGL-style clip space (z in [-w, w]) to WebGPU clip space (z in [0, w]).
// Column-major: z' = 0.5*z + 0.5*w.
var ClipRemap = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
// The returned slice has length equal to the struct's size in memory.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}

// ToGPUClip applies ClipRemap to a combined OpenGL-convention matrix so it can be uploaded
// to a WebGPU pipeline unchanged.
//
// Parameters:
//   - m: world (or model) to OpenGL clip space matrix
//
// Returns:
//   - mgl32.Mat4: the same transform targeting WebGPU clip space
func ToGPUClip(m mgl32.Mat4) mgl32.Mat4 {
	return ClipRemap.Mul4(m)
}

// TransformPoint transforms a point (w = 1) by m without a perspective divide.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// RotationOnly strips the translation from a rigid transform, keeping the upper 3x3 block.
//
// Parameters:
//   - m: a rigid (rotation + translation) transform
//
// Returns:
//   - mgl32.Mat4: the rotation part of m as a 4x4 matrix
func RotationOnly(m mgl32.Mat4) mgl32.Mat4 {
	return m.Mat3().Mat4()
}

// Translation returns the translation column of a transform.
func Translation(m mgl32.Mat4) mgl32.Vec3 {
	return mgl32.Vec3{m[12], m[13], m[14]}
}

// PoseMatrix builds a rigid transform from a position and an orientation.
//
// Parameters:
//   - position: translation in world space
//   - orientation: rotation quaternion (normalized)
//
// Returns:
//   - mgl32.Mat4: translate(position) * rotate(orientation)
func PoseMatrix(position mgl32.Vec3, orientation mgl32.Quat) mgl32.Mat4 {
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).Mul4(orientation.Normalize().Mat4())
}
