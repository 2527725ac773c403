// Package preview renders decoded actor meshes to small orthographic
// preview images. The renderer is a software rasterizer: flat shading,
// a z-buffer and bilinear texture sampling, supersampled then scaled
// down for anti-aliasing.
package preview

import (
	"image"
	"math"

	"tos-asset-extract/internal/mathutil"
	"tos-asset-extract/internal/texture"
	"tos-asset-extract/internal/xac"
)

// viewRotation is the fixed three-quarter camera: pitch down 20°, yaw
// 30°.
var viewRotation = mathutil.Mat3Mul(
	mathutil.RotX(mathutil.Deg2Rad(-20)),
	mathutil.RotY(mathutil.Deg2Rad(30)),
)

// Render draws all submeshes of the given meshes into a size×size
// image. A nil resolver or an unresolvable texture falls back to a
// neutral per-submesh color, so untextured geometry still previews.
func Render(meshes []xac.Mesh, texResolver texture.Resolver, size, supersample int) *image.NRGBA {
	renderSize := size * supersample

	// Bounding box over all transformed vertices
	allMin := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	allMax := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	total := 0
	for _, m := range meshes {
		for _, sub := range m.Submeshes {
			total += len(sub.Positions)
			for _, p := range sub.Positions {
				tv := viewRotation.MulVec3(mathutil.Vec3{float64(p[0]), float64(p[1]), float64(p[2])})
				for k := 0; k < 3; k++ {
					if tv[k] < allMin[k] {
						allMin[k] = tv[k]
					}
					if tv[k] > allMax[k] {
						allMax[k] = tv[k]
					}
				}
			}
		}
	}
	if total == 0 {
		return image.NewNRGBA(image.Rect(0, 0, size, size))
	}

	center := allMin.Add(allMax).Scale(0.5)
	span := allMax[0] - allMin[0]
	if s := allMax[1] - allMin[1]; s > span {
		span = s
	}
	if span < 0.001 {
		span = 0.001
	}

	margin := 16 * supersample
	scale := float64(renderSize-2*margin) / span

	fb := newFrameBuffer(renderSize, renderSize)
	lc := defaultLightConfig()
	half := float64(renderSize) / 2

	for _, m := range meshes {
		for _, sub := range m.Submeshes {
			if len(sub.Positions) == 0 {
				continue
			}

			px := make([]float64, len(sub.Positions))
			py := make([]float64, len(sub.Positions))
			pz := make([]float64, len(sub.Positions))
			for i, p := range sub.Positions {
				tv := viewRotation.MulVec3(mathutil.Vec3{float64(p[0]), float64(p[1]), float64(p[2])})
				px[i] = half + (tv[0]-center[0])*scale
				// Screen Y grows downward
				py[i] = half - (tv[1]-center[1])*scale
				pz[i] = (tv[2] - center[2]) * scale
			}

			var tex *image.NRGBA
			if texResolver != nil && sub.TextureName != "" {
				tex = texResolver.Resolve(sub.TextureName)
			}

			var defR, defG, defB, defA uint8 = 160, 160, 170, 255
			if tex != nil {
				defR, defG, defB, defA = averageColor(tex)
			}

			for t := 0; t+2 < len(sub.Indices); t += 3 {
				vi := [3]int{int(sub.Indices[t]), int(sub.Indices[t+1]), int(sub.Indices[t+2])}
				rasterizeTriangle(fb, px, py, pz, sub.UVCoords, vi, tex, defR, defG, defB, defA, &lc)
			}
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	copy(img.Pix, fb.Color)
	if supersample > 1 {
		return Downsample(img, size)
	}
	return img
}

func averageColor(tex *image.NRGBA) (uint8, uint8, uint8, uint8) {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 160, 160, 170, 255
	}

	var sumR, sumG, sumB float64
	stride := tex.Stride
	for y := 0; y < h; y++ {
		off := y * stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sumR += float64(tex.Pix[i])
			sumG += float64(tex.Pix[i+1])
			sumB += float64(tex.Pix[i+2])
		}
	}
	n := float64(w * h)
	return uint8(sumR/n + 0.5), uint8(sumG/n + 0.5), uint8(sumB/n + 0.5), 255
}
