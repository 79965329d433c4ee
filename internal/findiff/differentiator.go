package findiff

import (
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/framevel/internal/coord"
	"github.com/roach88/framevel/internal/frame"
)

// PositionFunc is a position-only frame transform. It maps the data of from
// into the destination frame described by to (whose own data is ignored) and
// returns a realized frame. It must ignore input velocities and may return a
// frame without a differential.
type PositionFunc func(from, to frame.Frame) (frame.Frame, error)

// Option configures a Differentiator.
type Option func(*Differentiator)

// WithLogger sets the logger used for debug output.
// Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(d *Differentiator) {
		d.logger = l
	}
}

// WithSerial evaluates probes one after another instead of concurrently.
// Useful when the position function is not safe for concurrent use.
func WithSerial() Option {
	return func(d *Differentiator) {
		d.serial = true
	}
}

// Differentiator turns a position-only transform into a transform producing
// positions and velocities.
//
// The output velocity is the sum of two finite differences:
//
//	v_transport = (T(p + v·h/2, t) − T(p − v·h/2, t)) / h
//	v_rate      = (T(p, t + h/2) − T(p, t − h/2)) / h
//
// (forward mode: T(p + v·h, t) − T(p, t) and T(p, t + h) − T(p, t)), which is
// the chain rule d(out)/dt = ∂out/∂p · v + ∂out/∂t to first order. The output
// position is the nominal T(p, t), never a differenced value.
//
// Precision: the step is fixed. When |p| is many orders of magnitude larger
// than |v·h| the subtractions cancel catastrophically and the velocity
// degrades silently. With a 1 s step and positions in km this becomes visible
// beyond roughly a kiloparsec.
//
// A Differentiator is immutable after New and safe for concurrent use as long
// as its PositionFunc is.
type Differentiator struct {
	fn     PositionFunc
	spec   Spec
	from   *frame.Class
	to     *frame.Class
	serial bool
	logger *slog.Logger

	// Which side(s) carry spec.Attribute. Resolved once at registration.
	attrInFrom bool
	attrInTo   bool
}

// New validates the spec against the frame classes and returns a
// Differentiator. All configuration errors surface here, never at call time
// (with the exception of a StepFunc returning an unusable step).
//
// The perturbed attribute, when named, must be declared by the source or the
// destination class (or both; it is then shifted on both sides) and its
// default must implement frame.Steppable.
func New(fn PositionFunc, spec Spec, from, to *frame.Class, opts ...Option) (*Differentiator, error) {
	if fn == nil {
		return nil, &ConfigError{Code: ErrCodeMissingFunc, Message: "position function is nil", From: className(from), To: className(to)}
	}
	if from == nil || to == nil {
		return nil, &ConfigError{Code: ErrCodeInvalidSpec, Message: "source and destination classes are required"}
	}
	if err := spec.Validate(); err != nil {
		if ce, ok := err.(*ConfigError); ok {
			ce.From, ce.To = from.Name(), to.Name()
		}
		return nil, err
	}

	d := &Differentiator{
		fn:     fn,
		spec:   spec,
		from:   from,
		to:     to,
		logger: slog.Default(),
	}

	if spec.Attribute != "" {
		var err error
		if d.attrInFrom, err = steppableOn(from, spec.Attribute); err != nil {
			return nil, d.configErr(ErrCodeNotSteppable, err.Error())
		}
		if d.attrInTo, err = steppableOn(to, spec.Attribute); err != nil {
			return nil, d.configErr(ErrCodeNotSteppable, err.Error())
		}
		if !d.attrInFrom && !d.attrInTo {
			return nil, d.configErr(ErrCodeUnknownAttribute,
				fmt.Sprintf("attribute %q is not declared by %s or %s", spec.Attribute, from.Name(), to.Name()))
		}
	}

	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// steppableOn reports whether class declares name with a Steppable default.
func steppableOn(class *frame.Class, name string) (bool, error) {
	def, ok := class.Default(name)
	if !ok {
		return false, nil
	}
	if _, ok := def.(frame.Steppable); !ok {
		return false, fmt.Errorf("attribute %q of %s is %T, which cannot be stepped", name, class.Name(), def)
	}
	return true, nil
}

// Spec returns the configuration the differentiator was built with.
func (d *Differentiator) Spec() Spec { return d.spec }

// From returns the source frame class.
func (d *Differentiator) From() *frame.Class { return d.from }

// To returns the destination frame class.
func (d *Differentiator) To() *frame.Class { return d.to }

// Transform maps in into the destination frame to, computing the output
// velocity by finite differences.
//
// When in carries no differential the position function is called directly
// and its result returned unchanged. Any error from the position function
// fails the whole transform and is returned wrapped in a ProbeError.
func (d *Differentiator) Transform(in, to frame.Frame) (frame.Frame, error) {
	rep := in.Data()
	if !rep.HasDifferential() {
		out, err := d.fn(in, to)
		if err != nil {
			return frame.Frame{}, &ProbeError{Probe: ProbeNominal, From: d.from.Name(), To: d.to.Name(), Err: err}
		}
		return out, nil
	}

	step := d.spec.Step
	if d.spec.StepFunc != nil {
		step = d.spec.StepFunc(in, to)
		if !usableStep(step) {
			return frame.Frame{}, d.configErr(ErrCodeZeroStep, fmt.Sprintf("step function returned %v", step))
		}
	}

	rate := d.spec.Attribute != ""
	if rate {
		if err := d.checkBatch(in, to, rep); err != nil {
			return frame.Frame{}, err
		}
	}

	probes := Probes(rep, step, d.spec.Symmetric, rate)
	base := in.Realize(rep.WithoutDifferentials())
	target := to.WithoutData()

	// Slot 0 is the nominal evaluation; slots 1.. follow probes.
	results := make([]coord.Representation, len(probes)+1)
	var nominal frame.Frame

	eval := func(slot int) error {
		if slot == 0 {
			out, err := d.fn(base, target)
			if err != nil {
				return &ProbeError{Probe: ProbeNominal, From: d.from.Name(), To: d.to.Name(), Err: err}
			}
			nominal = out
			results[0] = out.Data()
			return nil
		}
		p := probes[slot-1]
		src, dst, err := d.probeFrames(base, target, p)
		if err != nil {
			return err
		}
		out, err := d.fn(src, dst)
		if err != nil {
			return &ProbeError{Probe: p.Kind, From: d.from.Name(), To: d.to.Name(), Err: err}
		}
		results[slot] = out.Data()
		return nil
	}

	if d.serial {
		for slot := range results {
			if err := eval(slot); err != nil {
				return frame.Frame{}, err
			}
		}
	} else {
		var g errgroup.Group
		for slot := range results {
			g.Go(func() error { return eval(slot) })
		}
		if err := g.Wait(); err != nil {
			return frame.Frame{}, err
		}
	}

	velocity, err := d.combine(probes, results, step)
	if err != nil {
		return frame.Frame{}, err
	}

	outRep, err := results[0].WithoutDifferentials().WithDifferential(velocity...)
	if err != nil {
		return frame.Frame{}, fmt.Errorf("%s->%s: %w", d.from.Name(), d.to.Name(), err)
	}

	d.logger.Debug("finite difference transform",
		"from", d.from.Name(),
		"to", d.to.Name(),
		"step", step,
		"symmetric", d.spec.Symmetric,
		"attribute", d.spec.Attribute,
		"probes", len(probes),
		"batch", outRep.Len(),
	)

	return nominal.Realize(outRep), nil
}

// probeFrames builds the source and destination frames for one probe.
// Transport probes replace the position; rate probes shift the perturbed
// attribute on every side that declares it.
func (d *Differentiator) probeFrames(base, target frame.Frame, p Probe) (frame.Frame, frame.Frame, error) {
	src := base.Realize(p.Rep)
	dst := target
	if p.Kind != ProbeRateForward && p.Kind != ProbeRateBack {
		return src, dst, nil
	}

	var err error
	if d.attrInFrom {
		if src, err = shiftAttr(src, d.spec.Attribute, p.Offset); err != nil {
			return frame.Frame{}, frame.Frame{}, d.configErr(ErrCodeNotSteppable, err.Error())
		}
	}
	if d.attrInTo {
		if dst, err = shiftAttr(dst, d.spec.Attribute, p.Offset); err != nil {
			return frame.Frame{}, frame.Frame{}, d.configErr(ErrCodeNotSteppable, err.Error())
		}
	}
	return src, dst, nil
}

func shiftAttr(f frame.Frame, name string, delta float64) (frame.Frame, error) {
	a, ok := f.Attr(name)
	if !ok {
		return frame.Frame{}, fmt.Errorf("frame %s has no attribute %q", f.Name(), name)
	}
	s, ok := a.(frame.Steppable)
	if !ok {
		return frame.Frame{}, fmt.Errorf("attribute %q of %s is %T, which cannot be stepped", name, f.Name(), a)
	}
	return f.Replicate(name, s.Shift(delta))
}

// checkBatch verifies that the input data and every perturbed attribute
// broadcast together before any probe runs.
func (d *Differentiator) checkBatch(in, to frame.Frame, rep coord.Representation) error {
	lengths := []int{rep.Len()}
	if a, ok := in.Attr(d.spec.Attribute); ok && d.attrInFrom {
		lengths = append(lengths, a.Len())
	}
	if a, ok := to.Attr(d.spec.Attribute); ok && d.attrInTo {
		lengths = append(lengths, a.Len())
	}
	if _, err := coord.Broadcast(d.from.Name()+"->"+d.to.Name(), lengths...); err != nil {
		return err
	}
	return nil
}

// combine turns probe outputs into the velocity v_transport + v_rate.
func (d *Differentiator) combine(probes []Probe, results []coord.Representation, step float64) ([]coord.Vec3, error) {
	byKind := make(map[ProbeKind]coord.Representation, len(probes))
	for i, p := range probes {
		byKind[p.Kind] = results[i+1]
	}
	nominal := results[0]

	back := func(kind ProbeKind) coord.Representation {
		if d.spec.Symmetric {
			return byKind[kind]
		}
		return nominal
	}

	velocity, err := difference(byKind[ProbeTransportForward], back(ProbeTransportBack), step)
	if err != nil {
		return nil, err
	}
	if d.spec.Attribute == "" {
		return velocity, nil
	}

	induced, err := difference(byKind[ProbeRateForward], back(ProbeRateBack), step)
	if err != nil {
		return nil, err
	}
	return sum(velocity, induced)
}

func (d *Differentiator) configErr(code ConfigErrorCode, msg string) *ConfigError {
	return &ConfigError{
		Code:      code,
		Message:   msg,
		From:      d.from.Name(),
		To:        d.to.Name(),
		Attribute: d.spec.Attribute,
	}
}

func className(c *frame.Class) string {
	if c == nil {
		return ""
	}
	return c.Name()
}
