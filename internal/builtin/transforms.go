package builtin

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/framevel/internal/coord"
	"github.com/roach88/framevel/internal/ephem"
	"github.com/roach88/framevel/internal/findiff"
	"github.com/roach88/framevel/internal/frame"
	"github.com/roach88/framevel/internal/transform"
	"github.com/roach88/framevel/internal/units"
)

// EdgeKey names a directed edge, "FROM->TO", as used in configuration.
func EdgeKey(from, to *frame.Class) string {
	return from.Name() + "->" + to.Name()
}

// DefaultSpecs returns the finite-difference settings of the builtin
// finite-difference edges, keyed by EdgeKey.
func DefaultSpecs() map[string]findiff.Spec {
	return map[string]findiff.Spec{
		EdgeKey(ICRS, GCRS): findiff.DefaultSpec(),
		EdgeKey(GCRS, ICRS): findiff.DefaultSpec(),
		EdgeKey(ICRS, LSR):  findiff.DefaultSpec(),
		EdgeKey(LSR, ICRS):  findiff.DefaultSpec(),
	}
}

// Register adds the builtin edges to g without freezing it. overrides
// replaces the finite-difference settings of the named edges; a key that
// does not name a builtin finite-difference edge is an error.
func Register(g *transform.Graph, overrides map[string]findiff.Spec) error {
	specs := DefaultSpecs()
	for key, spec := range overrides {
		if _, ok := specs[key]; !ok {
			return fmt.Errorf("override %q: not a finite-difference edge (have %s)", key, strings.Join(sortedKeys(specs), ", "))
		}
		specs[key] = spec
	}

	matrices := []struct {
		from, to *frame.Class
		mf       transform.MatrixFunc
	}{
		{FK5, ICRS, fk5ToICRS},
		{ICRS, FK5, transform.Inverse(fk5ToICRS)},
		{FK5, Galactic, fk5ToGalactic},
		{Galactic, FK5, transform.Inverse(fk5ToGalactic)},
	}
	for _, m := range matrices {
		if err := g.RegisterMatrix(m.from, m.to, m.mf); err != nil {
			return err
		}
	}

	funcs := []struct {
		from, to *frame.Class
		fn       findiff.PositionFunc
	}{
		{ICRS, GCRS, icrsToGCRS},
		{GCRS, ICRS, gcrsToICRS},
		{ICRS, LSR, icrsToLSR},
		{LSR, ICRS, lsrToICRS},
	}
	for _, f := range funcs {
		spec := specs[EdgeKey(f.from, f.to)]
		if err := g.RegisterFiniteDifference(f.from, f.to, f.fn, spec); err != nil {
			return fmt.Errorf("register %s: %w", EdgeKey(f.from, f.to), err)
		}
	}
	return nil
}

// NewGraph returns a frozen graph holding the builtin edges.
func NewGraph(overrides map[string]findiff.Spec, opts ...transform.GraphOption) (*transform.Graph, error) {
	g := transform.NewGraph(opts...)
	if err := Register(g, overrides); err != nil {
		return nil, err
	}
	g.Freeze()
	return g, nil
}

// icrsToGCRS moves the origin to the geocenter at the GCRS obstime.
// Aberration and light deflection are not modelled.
func icrsToGCRS(from, to frame.Frame) (frame.Frame, error) {
	obstime, err := to.Epoch(AttrObstime)
	if err != nil {
		return frame.Frame{}, err
	}
	rep, err := offsetByEarth(from.Data(), obstime, -1)
	if err != nil {
		return frame.Frame{}, err
	}
	return to.Realize(rep), nil
}

func gcrsToICRS(from, to frame.Frame) (frame.Frame, error) {
	obstime, err := from.Epoch(AttrObstime)
	if err != nil {
		return frame.Frame{}, err
	}
	rep, err := offsetByEarth(from.Data(), obstime, +1)
	if err != nil {
		return frame.Frame{}, err
	}
	return to.Realize(rep), nil
}

// offsetByEarth returns p + sign*earth(obstime) for every broadcast element.
func offsetByEarth(rep coord.Representation, obstime frame.Epoch, sign float64) (coord.Representation, error) {
	n, err := coord.Broadcast("position/obstime", rep.Len(), obstime.Len())
	if err != nil {
		return coord.Representation{}, err
	}
	xyz := make([]coord.Vec3, n)
	for i := range xyz {
		earth := ephem.EarthBarycentric(obstime.At(i))
		xyz[i] = rep.Position(i).Add(earth.Scale(sign))
	}
	return coord.NewCartesian(xyz...), nil
}

// icrsToLSR shifts positions by v_bary·(obstime − J2000), so the LSR origin
// drifts at v_bary relative to the barycenter.
func icrsToLSR(from, to frame.Frame) (frame.Frame, error) {
	rep, err := lsrOffset(from.Data(), to, +1)
	if err != nil {
		return frame.Frame{}, err
	}
	return to.Realize(rep), nil
}

func lsrToICRS(from, to frame.Frame) (frame.Frame, error) {
	rep, err := lsrOffset(from.Data(), from, -1)
	if err != nil {
		return frame.Frame{}, err
	}
	return to.Realize(rep), nil
}

func lsrOffset(rep coord.Representation, lsr frame.Frame, sign float64) (coord.Representation, error) {
	obstime, err := lsr.Epoch(AttrObstime)
	if err != nil {
		return coord.Representation{}, err
	}
	vbary, err := lsr.Vector(AttrVBary)
	if err != nil {
		return coord.Representation{}, err
	}
	n, err := coord.Broadcast("position/obstime/v_bary", rep.Len(), obstime.Len(), vbary.Len())
	if err != nil {
		return coord.Representation{}, err
	}

	galToICRS := GalacticMatrix().Transpose()
	xyz := make([]coord.Vec3, n)
	for i := range xyz {
		v := galToICRS.Apply(vbary.At(i))
		dt := obstime.At(i) - units.J2000
		xyz[i] = rep.Position(i).Add(v.Scale(sign * dt))
	}
	return coord.NewCartesian(xyz...), nil
}

func sortedKeys(m map[string]findiff.Spec) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
