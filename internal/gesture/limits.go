package gesture

import "github.com/go-gl/mathgl/mgl64"

// Limits is an axis-aligned box.
type Limits struct {
	Min    mgl64.Vec3
	Max    mgl64.Vec3
	Center mgl64.Vec3
	Size   mgl64.Vec3
}

// NewLimitsMinMax builds the box spanning min..max.
func NewLimitsMinMax(min, max mgl64.Vec3) Limits {
	return Limits{
		Min:    min,
		Max:    max,
		Center: min.Add(max).Mul(0.5),
		Size:   max.Sub(min),
	}
}

// NewLimitsCenterRadius builds a cube centred on center with half-extent
// radius on every axis.
func NewLimitsCenterRadius(center mgl64.Vec3, radius float64) Limits {
	r := mgl64.Vec3{radius, radius, radius}
	return Limits{
		Min:    center.Sub(r),
		Max:    center.Add(r),
		Center: center,
		Size:   r.Mul(2),
	}
}

// Contains reports whether p lies inside the box, boundary included.
func (l Limits) Contains(p mgl64.Vec3) bool {
	return p[0] >= l.Min[0] && p[1] >= l.Min[1] && p[2] >= l.Min[2] &&
		p[0] <= l.Max[0] && p[1] <= l.Max[1] && p[2] <= l.Max[2]
}

// Normalized maps p into the unit cube spanned by the box. Points outside
// the box map outside [0,1]; callers clamp where that matters.
func (l Limits) Normalized(p mgl64.Vec3) mgl64.Vec3 {
	d := p.Sub(l.Min)
	return mgl64.Vec3{d[0] / l.Size[0], d[1] / l.Size[1], d[2] / l.Size[2]}
}
