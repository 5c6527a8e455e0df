package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// gimbalLimit is the |sin(pitch)| above which yaw is folded into roll.
const gimbalLimit = 0.99999

// EulerRotation builds the rotation matrix for Euler angles given in degrees.
// The X rotation is applied first, then Y, then Z (R = Rz * Ry * Rx).
func EulerRotation(degrees Vec3) mgl32.Mat4 {
	rx := mgl32.HomogRotate3DX(mgl32.DegToRad(degrees.X))
	ry := mgl32.HomogRotate3DY(mgl32.DegToRad(degrees.Y))
	rz := mgl32.HomogRotate3DZ(mgl32.DegToRad(degrees.Z))
	return rz.Mul4(ry).Mul4(rx)
}

// Transform builds the local transform T(translation) * R(rotation).
func Transform(translation, rotation Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(translation.X, translation.Y, translation.Z).Mul4(EulerRotation(rotation))
}

// EulerFromMatrix extracts Euler angles in degrees from the rotation part of m,
// using the same axis order as EulerRotation.
func EulerFromMatrix(m mgl32.Mat4) Vec3 {
	sy := -m.At(2, 0)
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}

	var x, y, z float32
	y = math32.Asin(sy)
	if math32.Abs(sy) < gimbalLimit {
		x = math32.Atan2(m.At(2, 1), m.At(2, 2))
		z = math32.Atan2(m.At(1, 0), m.At(0, 0))
	} else {
		x = math32.Atan2(-m.At(1, 2), m.At(1, 1))
		z = 0
	}

	return Vec3{mgl32.RadToDeg(x), mgl32.RadToDeg(y), mgl32.RadToDeg(z)}
}

// TranslationOf returns the translation column of m.
func TranslationOf(m mgl32.Mat4) Vec3 {
	return Vec3{m.At(0, 3), m.At(1, 3), m.At(2, 3)}
}

// EulerFromQuat converts a quaternion to Euler angles in degrees.
// A zero quaternion is treated as identity.
func EulerFromQuat(q mgl32.Quat) Vec3 {
	if q.W == 0 && q.V == (mgl32.Vec3{}) {
		return Vec3{}
	}
	return EulerFromMatrix(q.Normalize().Mat4())
}
