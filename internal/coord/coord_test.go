package coord

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcast(t *testing.T) {
	tests := []struct {
		name    string
		lengths []int
		want    int
		wantErr bool
	}{
		{name: "scalars", lengths: []int{1, 1}, want: 1},
		{name: "scalar and batch", lengths: []int{1, 5, 1}, want: 5},
		{name: "equal batches", lengths: []int{3, 3}, want: 3},
		{name: "mismatch", lengths: []int{2, 3}, wantErr: true},
		{name: "empty batch", lengths: []int{0, 1}, wantErr: true},
		{name: "nothing", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Broadcast("test", tt.lengths...)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsShapeError(err))
				assert.Contains(t, err.Error(), "test")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRotation(t *testing.T) {
	// Passive rotations: rotating the axes by +90° about z carries +x to -y.
	got := RotationZ(math.Pi / 2).Apply(Vec3{1, 0, 0})
	assert.InDelta(t, 0, got[0], 1e-15)
	assert.InDelta(t, -1, got[1], 1e-15)

	m := RotationX(0.3).Mul(RotationY(-1.2)).Mul(RotationZ(2.1))
	id := m.Mul(m.Transpose())
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, Identity()[i][j], id[i][j], 1e-15)
		}
	}
}

func TestRepresentation_WithDifferential(t *testing.T) {
	r := NewCartesian(Vec3{1, 0, 0}, Vec3{0, 1, 0})
	assert.False(t, r.HasDifferential())
	assert.Equal(t, Vec3{}, r.Velocity(1))

	withV, err := r.WithDifferential(Vec3{0, 0, 1})
	require.NoError(t, err)
	assert.True(t, withV.HasDifferential())
	assert.Equal(t, 2, withV.Len())
	assert.Equal(t, Vec3{0, 0, 1}, withV.Velocity(1))
	assert.False(t, withV.WithoutDifferentials().HasDifferential())

	_, err = r.WithDifferential(Vec3{}, Vec3{}, Vec3{})
	require.Error(t, err)
	assert.True(t, IsShapeError(err))
}

func TestRepresentation_Map(t *testing.T) {
	r, err := NewCartesian(Vec3{1, 2, 3}).WithDifferential(Vec3{1, 0, 0}, Vec3{0, 1, 0})
	require.NoError(t, err)

	out := r.Map(func(p, v Vec3) (Vec3, Vec3) { return p.Add(v), v.Scale(2) })

	assert.Equal(t, []Vec3{{2, 2, 3}, {1, 3, 3}}, out.XYZ())
	assert.Equal(t, []Vec3{{2, 0, 0}, {0, 2, 0}}, out.DXYZ())

	pos := NewCartesian(Vec3{1, 1, 1}).Map(func(p, v Vec3) (Vec3, Vec3) { return p, Vec3{9, 9, 9} })
	assert.False(t, pos.HasDifferential())
}

func TestSphericalRoundTrip(t *testing.T) {
	lon := []float64{0.1, 2.5, 5.9}
	lat := []float64{-1.2, 0, 0.7}
	r, err := FromSpherical(lon, lat, []float64{10})
	require.NoError(t, err)

	r, err = r.WithSphericalVelocity([]float64{1e-9}, []float64{-2e-9}, []float64{30})
	require.NoError(t, err)

	s := r.Spherical()
	sd, ok := r.SphericalDifferential()
	require.True(t, ok)

	for i := range lon {
		assert.InDelta(t, lon[i], s.Lon[i], 1e-12)
		assert.InDelta(t, lat[i], s.Lat[i], 1e-12)
		assert.InDelta(t, 10, s.Distance[i], 1e-12)
		assert.InDelta(t, 1e-9, sd.PMLonCosLat[i], 1e-14)
		assert.InDelta(t, -2e-9, sd.PMLat[i], 1e-14)
		assert.InDelta(t, 30, sd.RadialVelocity[i], 1e-12)
	}

	_, ok = NewCartesian(Vec3{1, 0, 0}).SphericalDifferential()
	assert.False(t, ok)
}

func TestSpherical_NegativeLongitudeWraps(t *testing.T) {
	s := NewCartesian(Vec3{0, -1, 0}).Spherical()
	assert.InDelta(t, 3*math.Pi/2, s.Lon[0], 1e-15)
}
