package frame

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/framevel/internal/coord"
	"github.com/roach88/framevel/internal/units"
)

// ParseAttr parses the textual form of an attribute of c. The kind follows
// the class default: epochs take one or more comma-separated epoch strings,
// vectors take three comma-separated numbers.
func (c *Class) ParseAttr(name, s string) (Attribute, error) {
	def, ok := c.Default(name)
	if !ok {
		return nil, fmt.Errorf("frame %s has no attribute %q", c.name, name)
	}

	switch def.(type) {
	case Epoch:
		parts := strings.Split(s, ",")
		seconds := make([]float64, len(parts))
		for i, p := range parts {
			sec, err := units.ParseEpoch(p)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", c.name, name, err)
			}
			seconds[i] = sec
		}
		return NewEpoch(seconds...), nil
	case VectorAttr:
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("%s.%s: want x,y,z, got %q", c.name, name, s)
		}
		var v coord.Vec3
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", c.name, name, err)
			}
			v[i] = f
		}
		return NewVectorAttr(v), nil
	default:
		return nil, fmt.Errorf("%s.%s: cannot parse attributes of type %T", c.name, name, def)
	}
}

// ParseAttrs parses every entry of raw with ParseAttr.
func (c *Class) ParseAttrs(raw map[string]string) (map[string]Attribute, error) {
	out := make(map[string]Attribute, len(raw))
	for name, s := range raw {
		a, err := c.ParseAttr(name, s)
		if err != nil {
			return nil, err
		}
		out[name] = a
	}
	return out, nil
}
