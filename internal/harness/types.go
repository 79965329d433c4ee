package harness

import (
	"sort"

	"github.com/roach88/framevel/internal/coord"
	"github.com/roach88/framevel/internal/frame"
	"github.com/roach88/framevel/internal/units"
)

// Sample is a frame rendered for output: attributes as text, Cartesian
// components in km and km/s, spherical components in degrees, km, mas/yr and
// km/s.
type Sample struct {
	Frame    string            `json:"frame"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Position [][3]float64      `json:"position"`
	Velocity [][3]float64      `json:"velocity,omitempty"`

	Lon      []float64 `json:"lon"`
	Lat      []float64 `json:"lat"`
	Distance []float64 `json:"distance"`

	PMLonCosLat    []float64 `json:"pm_lon_coslat,omitempty"`
	PMLat          []float64 `json:"pm_lat,omitempty"`
	RadialVelocity []float64 `json:"radial_velocity,omitempty"`
}

// NewSample renders f. Frames without data yield only the frame name and
// attributes.
func NewSample(f frame.Frame) Sample {
	s := Sample{Frame: f.Name()}

	attrs := f.Attrs()
	if len(attrs) > 0 {
		s.Attrs = make(map[string]string, len(attrs))
		for k, v := range attrs {
			s.Attrs[k] = v.String()
		}
	}
	if !f.HasData() {
		return s
	}

	rep := f.Data()
	s.Position = vecs(rep.XYZ())

	sph := rep.Spherical()
	s.Lon = scale(sph.Lon, 1/units.Degree)
	s.Lat = scale(sph.Lat, 1/units.Degree)
	s.Distance = sph.Distance

	if sd, ok := rep.SphericalDifferential(); ok {
		// Velocities are broadcast to the batch length.
		dxyz := make([]coord.Vec3, rep.Len())
		for i := range dxyz {
			dxyz[i] = rep.Velocity(i)
		}
		s.Velocity = vecs(dxyz)
		s.PMLonCosLat = scale(sd.PMLonCosLat, 1/units.MasPerYear)
		s.PMLat = scale(sd.PMLat, 1/units.MasPerYear)
		s.RadialVelocity = sd.RadialVelocity
	}
	return s
}

// AttrNames returns the sample's attribute names in sorted order.
func (s Sample) AttrNames() []string {
	names := make([]string, 0, len(s.Attrs))
	for k := range s.Attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func vecs(vs []coord.Vec3) [][3]float64 {
	out := make([][3]float64, len(vs))
	for i, v := range vs {
		out[i] = [3]float64(v)
	}
	return out
}

func scale(xs []float64, f float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x * f
	}
	return out
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every assertion held.
	Pass bool `json:"pass"`

	// Path lists the edges taken, one entry per edge across all steps.
	Path []string `json:"path"`

	// Outputs holds the output of each step.
	Outputs []Sample `json:"outputs"`

	// Roundtrip is the final output transformed back into the input frame.
	// Nil unless an assertion needs it.
	Roundtrip *Sample `json:"roundtrip,omitempty"`

	// Errors contains assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Path:    []string{},
		Outputs: []Sample{},
		Errors:  []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
