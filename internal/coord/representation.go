package coord

import "math"

// DifferentialKey is the key of the first time derivative of a position.
const DifferentialKey = "s"

// Representation is an immutable batch of Cartesian positions (km) with an
// optional first-order differential (velocities, km/s).
//
// Positions and velocities broadcast against each other: either side may hold
// a single element that applies to every element of the other.
//
// INVARIANTS:
//   - len(xyz) >= 1
//   - dxyz is nil or broadcastable with xyz
//   - slices are never mutated after construction
type Representation struct {
	xyz  []Vec3
	dxyz []Vec3
}

// NewCartesian builds a position-only representation. The slice is copied.
// An empty slice yields the zero Representation, which has length zero.
func NewCartesian(xyz ...Vec3) Representation {
	return Representation{xyz: cloneVecs(xyz)}
}

// WithDifferential returns a copy of r carrying the given velocities.
func (r Representation) WithDifferential(dxyz ...Vec3) (Representation, error) {
	if _, err := Broadcast("position/velocity", len(r.xyz), len(dxyz)); err != nil {
		return Representation{}, err
	}
	return Representation{xyz: r.xyz, dxyz: cloneVecs(dxyz)}, nil
}

// WithoutDifferentials returns the position-only part of r.
func (r Representation) WithoutDifferentials() Representation {
	return Representation{xyz: r.xyz}
}

// HasDifferential reports whether r carries velocities.
func (r Representation) HasDifferential() bool {
	return r.dxyz != nil
}

// IsZero reports whether r holds no positions at all.
func (r Representation) IsZero() bool {
	return len(r.xyz) == 0
}

// Len returns the broadcast batch length.
func (r Representation) Len() int {
	if r.dxyz == nil || len(r.dxyz) <= len(r.xyz) {
		return len(r.xyz)
	}
	return len(r.dxyz)
}

// Position returns the i-th (broadcast) position.
func (r Representation) Position(i int) Vec3 {
	return at(r.xyz, i)
}

// Velocity returns the i-th (broadcast) velocity, or the zero vector when r
// has no differential.
func (r Representation) Velocity(i int) Vec3 {
	if r.dxyz == nil {
		return Vec3{}
	}
	return at(r.dxyz, i)
}

// XYZ returns a copy of the stored positions (not broadcast).
func (r Representation) XYZ() []Vec3 {
	return cloneVecs(r.xyz)
}

// DXYZ returns a copy of the stored velocities, or nil.
func (r Representation) DXYZ() []Vec3 {
	return cloneVecs(r.dxyz)
}

// Map applies f to every broadcast position and velocity, producing a new
// representation of length Len(). f receives the zero vector for the velocity
// when r has none, and the output keeps r's differential presence.
func (r Representation) Map(f func(pos, vel Vec3) (Vec3, Vec3)) Representation {
	n := r.Len()
	xyz := make([]Vec3, n)
	var dxyz []Vec3
	if r.dxyz != nil {
		dxyz = make([]Vec3, n)
	}
	for i := 0; i < n; i++ {
		p, v := f(r.Position(i), r.Velocity(i))
		xyz[i] = p
		if dxyz != nil {
			dxyz[i] = v
		}
	}
	return Representation{xyz: xyz, dxyz: dxyz}
}

// Spherical holds batched spherical coordinates: longitude and latitude in
// radians, distance in km.
type Spherical struct {
	Lon      []float64
	Lat      []float64
	Distance []float64
}

// SphericalDifferential holds batched spherical velocities: proper motions in
// rad/s (the longitude term already multiplied by cos(lat)) and radial
// velocity in km/s.
type SphericalDifferential struct {
	PMLonCosLat    []float64
	PMLat          []float64
	RadialVelocity []float64
}

// FromSpherical builds a position-only representation from spherical
// components, broadcasting the three slices together.
func FromSpherical(lon, lat, distance []float64) (Representation, error) {
	n, err := Broadcast("lon/lat/distance", len(lon), len(lat), len(distance))
	if err != nil {
		return Representation{}, err
	}
	xyz := make([]Vec3, n)
	for i := range xyz {
		xyz[i] = unitVector(atF(lon, i), atF(lat, i)).Scale(atF(distance, i))
	}
	return Representation{xyz: xyz}, nil
}

// WithSphericalVelocity attaches a differential given in spherical
// components. The resulting Cartesian velocity is
//
//	v = rv*r̂ + d*pmLonCosLat*ê + d*pmLat*n̂
//
// where ê and n̂ are the local east and north unit vectors.
func (r Representation) WithSphericalVelocity(pmLonCosLat, pmLat, rv []float64) (Representation, error) {
	n, err := Broadcast("position/spherical velocity", r.Len(), len(pmLonCosLat), len(pmLat), len(rv))
	if err != nil {
		return Representation{}, err
	}
	dxyz := make([]Vec3, n)
	for i := range dxyz {
		p := r.Position(i)
		d := p.Norm()
		lon, lat := lonLat(p)
		rhat, east, north := basis(lon, lat)
		dxyz[i] = rhat.Scale(atF(rv, i)).
			Add(east.Scale(d * atF(pmLonCosLat, i))).
			Add(north.Scale(d * atF(pmLat, i)))
	}
	xyz := r.xyz
	if len(xyz) != n {
		xyz = make([]Vec3, n)
		for i := range xyz {
			xyz[i] = r.Position(i)
		}
	}
	return Representation{xyz: xyz, dxyz: dxyz}, nil
}

// Spherical converts the positions of r to spherical components.
// Longitudes are wrapped into [0, 2π).
func (r Representation) Spherical() Spherical {
	n := r.Len()
	s := Spherical{
		Lon:      make([]float64, n),
		Lat:      make([]float64, n),
		Distance: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		p := r.Position(i)
		s.Lon[i], s.Lat[i] = lonLat(p)
		s.Distance[i] = p.Norm()
	}
	return s
}

// SphericalDifferential projects the velocities of r onto the local
// spherical basis. The second return value is false when r has no
// differential.
func (r Representation) SphericalDifferential() (SphericalDifferential, bool) {
	if r.dxyz == nil {
		return SphericalDifferential{}, false
	}
	n := r.Len()
	sd := SphericalDifferential{
		PMLonCosLat:    make([]float64, n),
		PMLat:          make([]float64, n),
		RadialVelocity: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		p, v := r.Position(i), r.Velocity(i)
		d := p.Norm()
		lon, lat := lonLat(p)
		rhat, east, north := basis(lon, lat)
		sd.RadialVelocity[i] = v.Dot(rhat)
		sd.PMLonCosLat[i] = v.Dot(east) / d
		sd.PMLat[i] = v.Dot(north) / d
	}
	return sd, true
}

func lonLat(p Vec3) (float64, float64) {
	lon := math.Atan2(p[1], p[0])
	if lon < 0 {
		lon += 2 * math.Pi
	}
	lat := math.Atan2(p[2], math.Hypot(p[0], p[1]))
	return lon, lat
}

func unitVector(lon, lat float64) Vec3 {
	sinLon, cosLon := math.Sincos(lon)
	sinLat, cosLat := math.Sincos(lat)
	return Vec3{cosLat * cosLon, cosLat * sinLon, sinLat}
}

// basis returns the radial, east and north unit vectors at (lon, lat).
func basis(lon, lat float64) (Vec3, Vec3, Vec3) {
	sinLon, cosLon := math.Sincos(lon)
	sinLat, cosLat := math.Sincos(lat)
	rhat := Vec3{cosLat * cosLon, cosLat * sinLon, sinLat}
	east := Vec3{-sinLon, cosLon, 0}
	north := Vec3{-sinLat * cosLon, -sinLat * sinLon, cosLat}
	return rhat, east, north
}

func at(vs []Vec3, i int) Vec3 {
	if len(vs) == 1 {
		return vs[0]
	}
	return vs[i]
}

func atF(fs []float64, i int) float64 {
	if len(fs) == 1 {
		return fs[0]
	}
	return fs[i]
}

func cloneVecs(vs []Vec3) []Vec3 {
	if vs == nil {
		return nil
	}
	out := make([]Vec3, len(vs))
	copy(out, vs)
	return out
}
