package transform

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/roach88/framevel/internal/findiff"
	"github.com/roach88/framevel/internal/frame"
)

type pair struct {
	from *frame.Class
	to   *frame.Class
}

// Graph is the registry of transform edges between frame classes.
//
// Lifecycle: edges are registered during setup, then Freeze marks the graph
// read-only. Lookups and transforms are safe from any goroutine; registration
// is not meant to interleave with them and fails once frozen.
//
// INVARIANTS:
//   - at most one edge per ordered (from, to) pair
//   - class names are unique across the graph
//   - registration order is preserved and drives deterministic routing
type Graph struct {
	mu      sync.RWMutex
	edges   map[pair]*Edge
	order   []*Edge
	classes map[string]*frame.Class
	frozen  bool
	logger  *slog.Logger

	diffOpts []findiff.Option
}

// GraphOption configures a Graph.
type GraphOption func(*Graph)

// WithGraphLogger sets the logger for the graph and for every
// finite-difference edge registered on it.
// Default: slog.Default().
func WithGraphLogger(l *slog.Logger) GraphOption {
	return func(g *Graph) {
		g.logger = l
		g.diffOpts = append(g.diffOpts, findiff.WithLogger(l))
	}
}

// WithDifferentiatorOptions applies opts to every finite-difference edge
// registered on the graph (for example findiff.WithSerial()).
func WithDifferentiatorOptions(opts ...findiff.Option) GraphOption {
	return func(g *Graph) {
		g.diffOpts = append(g.diffOpts, opts...)
	}
}

// NewGraph returns an empty, unfrozen graph.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		edges:   make(map[pair]*Edge),
		classes: make(map[string]*frame.Class),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RegisterFunction adds a plain function edge. The function is responsible
// for velocities itself.
func (g *Graph) RegisterFunction(from, to *frame.Class, fn findiff.PositionFunc) error {
	if fn == nil {
		return &GraphError{Code: ErrCodeInvalidEdge, Message: "function is nil", From: name(from), To: name(to)}
	}
	return g.add(&Edge{Kind: EdgeFunction, From: from, To: to, fn: fn})
}

// RegisterMatrix adds an exact rotation edge. Velocities are rotated with
// the same matrix.
func (g *Graph) RegisterMatrix(from, to *frame.Class, mf MatrixFunc) error {
	if mf == nil {
		return &GraphError{Code: ErrCodeInvalidEdge, Message: "matrix function is nil", From: name(from), To: name(to)}
	}
	return g.add(&Edge{Kind: EdgeMatrix, From: from, To: to, matrix: mf})
}

// RegisterFiniteDifference wraps a position-only function in a
// findiff.Differentiator and adds it as an edge. Configuration errors
// (zero step, unknown attribute) are returned here as *findiff.ConfigError.
func (g *Graph) RegisterFiniteDifference(from, to *frame.Class, fn findiff.PositionFunc, spec findiff.Spec, opts ...findiff.Option) error {
	if from == nil || to == nil {
		return &GraphError{Code: ErrCodeInvalidEdge, Message: "source and destination classes are required", From: name(from), To: name(to)}
	}
	all := append(append([]findiff.Option{}, g.diffOpts...), opts...)
	d, err := findiff.New(fn, spec, from, to, all...)
	if err != nil {
		return err
	}
	return g.add(&Edge{Kind: EdgeFiniteDifference, From: from, To: to, diff: d})
}

func (g *Graph) add(e *Edge) error {
	if e.From == nil || e.To == nil {
		return &GraphError{Code: ErrCodeInvalidEdge, Message: "source and destination classes are required", From: name(e.From), To: name(e.To)}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.frozen {
		return &GraphError{Code: ErrCodeFrozen, Message: "graph is frozen", From: e.From.Name(), To: e.To.Name()}
	}
	for _, c := range []*frame.Class{e.From, e.To} {
		if existing, ok := g.classes[c.Name()]; ok && existing != c {
			return &GraphError{Code: ErrCodeClassConflict, Message: fmt.Sprintf("another class named %q is already registered", c.Name()), From: e.From.Name(), To: e.To.Name()}
		}
	}
	key := pair{e.From, e.To}
	if _, ok := g.edges[key]; ok {
		return &GraphError{Code: ErrCodeDuplicateEdge, Message: "edge already registered", From: e.From.Name(), To: e.To.Name()}
	}

	g.classes[e.From.Name()] = e.From
	g.classes[e.To.Name()] = e.To
	g.edges[key] = e
	g.order = append(g.order, e)

	g.logger.Debug("registered transform", "from", e.From.Name(), "to", e.To.Name(), "kind", e.Kind.String())
	return nil
}

// Freeze ends the registration phase. It is idempotent.
func (g *Graph) Freeze() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.frozen = true
}

// Frozen reports whether Freeze has been called.
func (g *Graph) Frozen() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.frozen
}

// Edge returns the direct edge from -> to, if registered.
func (g *Graph) Edge(from, to *frame.Class) (*Edge, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.edges[pair{from, to}]
	return e, ok
}

// Class looks up a registered class by name.
func (g *Graph) Class(className string) (*frame.Class, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.classes[className]
	if !ok {
		return nil, &GraphError{Code: ErrCodeUnknownClass, Message: fmt.Sprintf("no frame class named %q", className)}
	}
	return c, nil
}

// Edges returns every edge in registration order.
func (g *Graph) Edges() []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Edge, len(g.order))
	copy(out, g.order)
	return out
}

// Path returns the shortest chain of edges (fewest hops) from one class to
// another. Ties are broken by registration order, so the result is
// deterministic. A class routes to itself with an empty path unless a
// self-edge is registered.
func (g *Graph) Path(from, to *frame.Class) ([]*Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if e, ok := g.edges[pair{from, to}]; ok {
		return []*Edge{e}, nil
	}
	if from == to {
		return nil, nil
	}

	prev := map[*frame.Class]*Edge{}
	visited := map[*frame.Class]bool{from: true}
	queue := []*frame.Class{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.order {
			if e.From != cur || visited[e.To] {
				continue
			}
			visited[e.To] = true
			prev[e.To] = e
			if e.To == to {
				return unwind(prev, from, to), nil
			}
			queue = append(queue, e.To)
		}
	}
	return nil, &GraphError{Code: ErrCodeNoPath, Message: "no transform path", From: name(from), To: name(to)}
}

func unwind(prev map[*frame.Class]*Edge, from, to *frame.Class) []*Edge {
	var path []*Edge
	for c := to; c != from; {
		e := prev[c]
		path = append([]*Edge{e}, path...)
		c = e.From
	}
	return path
}

// TransformTo converts c into the frame described by target (whose data is
// ignored), chaining edges along Path. Intermediate frames take the class
// defaults, overridden by same-named attributes of target and then of c.
func (g *Graph) TransformTo(c, target frame.Frame) (frame.Frame, error) {
	path, err := g.Path(c.Class(), target.Class())
	if err != nil {
		return frame.Frame{}, err
	}
	if len(path) == 0 {
		if !c.SameAttrs(target) {
			return frame.Frame{}, &GraphError{Code: ErrCodeNoPath, Message: "no self-transform for differing attributes", From: c.Name(), To: target.Name()}
		}
		return target.WithoutData().Realize(c.Data()), nil
	}

	cur := c
	for i, e := range path {
		dst := target.WithoutData()
		if i < len(path)-1 {
			if dst, err = intermediate(e.To, target, c); err != nil {
				return frame.Frame{}, &HopError{Hop: i, From: e.From.Name(), To: e.To.Name(), Err: err}
			}
		}
		next, err := e.Apply(cur, dst)
		if err != nil {
			return frame.Frame{}, &HopError{Hop: i, From: e.From.Name(), To: e.To.Name(), Err: err}
		}
		cur = next
	}

	g.logger.Debug("transformed coordinate",
		"from", c.Name(),
		"to", target.Name(),
		"hops", len(path),
		"batch", cur.Data().Len(),
		"velocity", cur.Data().HasDifferential(),
	)
	return cur, nil
}

func intermediate(class *frame.Class, target, source frame.Frame) (frame.Frame, error) {
	overrides := map[string]frame.Attribute{}
	for _, n := range class.AttrNames() {
		if a, ok := target.Attr(n); ok {
			overrides[n] = a
		} else if a, ok := source.Attr(n); ok {
			overrides[n] = a
		}
	}
	return class.New(overrides)
}

// Describe renders the edges one per line in registration order.
func (g *Graph) Describe() string {
	var b strings.Builder
	for _, e := range g.Edges() {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func name(c *frame.Class) string {
	if c == nil {
		return "<nil>"
	}
	return c.Name()
}
