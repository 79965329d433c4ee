package frame

import (
	"fmt"
	"strings"

	"github.com/roach88/framevel/internal/coord"
	"github.com/roach88/framevel/internal/units"
)

// Attribute is a named frame parameter value. Values are immutable and may be
// batched; Len reports the batch length (1 for scalars).
type Attribute interface {
	Len() int
	Equal(other Attribute) bool
	String() string
}

// Steppable is implemented by attributes that a finite-difference transform
// may perturb. Shift and Since are inverse operations: for any delta,
// a.Shift(delta).Since(a) returns delta in every element.
type Steppable interface {
	Attribute

	// Shift returns a copy of the attribute advanced by delta (seconds for
	// time-like attributes).
	Shift(delta float64) Attribute

	// Since returns the elementwise difference a - other in the same units
	// that Shift accepts. It fails when other has a different type or the
	// batch lengths do not broadcast.
	Since(other Attribute) ([]float64, error)
}

// Epoch is a (possibly batched) instant, stored as TT seconds since J2000.
type Epoch struct {
	seconds []float64
}

// NewEpoch returns an Epoch holding the given instants.
func NewEpoch(seconds ...float64) Epoch {
	s := make([]float64, len(seconds))
	copy(s, seconds)
	return Epoch{seconds: s}
}

// ParseEpoch parses one epoch string (see units.ParseEpoch).
func ParseEpoch(s string) (Epoch, error) {
	sec, err := units.ParseEpoch(s)
	if err != nil {
		return Epoch{}, err
	}
	return NewEpoch(sec), nil
}

// Len implements Attribute.
func (e Epoch) Len() int { return len(e.seconds) }

// At returns the i-th (broadcast) instant.
func (e Epoch) At(i int) float64 {
	if len(e.seconds) == 1 {
		return e.seconds[0]
	}
	return e.seconds[i]
}

// Seconds returns a copy of the stored instants.
func (e Epoch) Seconds() []float64 {
	out := make([]float64, len(e.seconds))
	copy(out, e.seconds)
	return out
}

// Equal implements Attribute.
func (e Epoch) Equal(other Attribute) bool {
	o, ok := other.(Epoch)
	if !ok || len(o.seconds) != len(e.seconds) {
		return false
	}
	for i := range e.seconds {
		if e.seconds[i] != o.seconds[i] {
			return false
		}
	}
	return true
}

// Shift implements Steppable.
func (e Epoch) Shift(delta float64) Attribute {
	out := make([]float64, len(e.seconds))
	for i, s := range e.seconds {
		out[i] = s + delta
	}
	return Epoch{seconds: out}
}

// Since implements Steppable.
func (e Epoch) Since(other Attribute) ([]float64, error) {
	o, ok := other.(Epoch)
	if !ok {
		return nil, fmt.Errorf("cannot subtract %T from Epoch", other)
	}
	n, err := coord.Broadcast("epoch difference", e.Len(), o.Len())
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = e.At(i) - o.At(i)
	}
	return out, nil
}

func (e Epoch) String() string {
	parts := make([]string, len(e.seconds))
	for i, s := range e.seconds {
		parts[i] = units.FormatEpoch(s)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// VectorAttr is a (possibly batched) Cartesian vector attribute, such as a
// barycentric velocity or an observer position.
type VectorAttr struct {
	v []coord.Vec3
}

// NewVectorAttr returns a VectorAttr holding the given vectors.
func NewVectorAttr(v ...coord.Vec3) VectorAttr {
	out := make([]coord.Vec3, len(v))
	copy(out, v)
	return VectorAttr{v: out}
}

// Len implements Attribute.
func (a VectorAttr) Len() int { return len(a.v) }

// At returns the i-th (broadcast) vector.
func (a VectorAttr) At(i int) coord.Vec3 {
	if len(a.v) == 1 {
		return a.v[0]
	}
	return a.v[i]
}

// Equal implements Attribute.
func (a VectorAttr) Equal(other Attribute) bool {
	o, ok := other.(VectorAttr)
	if !ok || len(o.v) != len(a.v) {
		return false
	}
	for i := range a.v {
		if a.v[i] != o.v[i] {
			return false
		}
	}
	return true
}

func (a VectorAttr) String() string {
	parts := make([]string, len(a.v))
	for i, v := range a.v {
		parts[i] = v.String()
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "[" + strings.Join(parts, " ") + "]"
}
