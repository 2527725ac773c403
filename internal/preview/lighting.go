package preview

import (
	"math"

	"tos-asset-extract/internal/mathutil"
)

// lightConfig holds precomputed lighting parameters.
type lightConfig struct {
	LightDir mathutil.Vec3
	RimDir   mathutil.Vec3
	ViewDir  mathutil.Vec3
	HalfMain mathutil.Vec3 // precomputed half-vector for Blinn-Phong
	Ambient  float64
	Hemi     float64
	Direct   float64
	Rim      float64
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	InvGamma float64
}

// defaultLightConfig returns a key light from the upper left, a cool
// rim from behind and a hemisphere fill, tuned for untextured stone
// and building geometry as much as for characters.
func defaultLightConfig() lightConfig {
	lightDir := mathutil.Vec3{200, 280, 160}.Normalize()
	rimDir := mathutil.Vec3{-150, 120, -230}.Normalize()
	viewDir := mathutil.Vec3{0, -100, -400}.Normalize()

	halfMain := lightDir.Sub(viewDir).Normalize()

	return lightConfig{
		LightDir: lightDir,
		RimDir:   rimDir,
		ViewDir:  viewDir,
		HalfMain: halfMain,
		Ambient:  0.55,
		Hemi:     0.50,
		Direct:   1.45,
		Rim:      0.55,
		SpecInt:  0.40,
		SpecPow:  12.0,
		Exposure: 1.05,
		InvGamma: 1.0 / 2.2,
	}
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// acesTonemap applies ACES Filmic tone mapping to a linear value.
func acesTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}
