package wakefield

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/delaossa/Wake-T/beam"
)

// Combined sums the forces and gradients of an ordered list of models.
// Its cache holds one child cache per submodel, in the same order.
type Combined struct {
	models []Model
}

func NewCombined(models ...Model) (*Combined, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("combined model with no submodels")
	}
	for i, m := range models {
		if m == nil {
			return nil, fmt.Errorf("combined model with nil submodel %d", i)
		}
	}
	return &Combined{models: models}, nil
}

func (m *Combined) Kind() Kind { return CombinedKind }

// children makes sure the cache carries one slot per submodel.
func (m *Combined) children(c *Cache) *Cache {
	c = ensure(c)
	if len(c.Children) != len(m.models) {
		c.Children = make([]*Cache, len(m.models))
	}
	return c
}

func (m *Combined) RadialForce(
	c *Cache, b *beam.Bunch, t float64, wx, wy []float64,
) (*Cache, error) {
	checkLen("radial force", len(wx), b.N())
	checkLen("radial force", len(wy), b.N())
	c = m.children(c)
	zero(wx)
	zero(wy)
	tx := make([]float64, b.N())
	ty := make([]float64, b.N())
	for i, sub := range m.models {
		cc, err := sub.RadialForce(c.Children[i], b, t, tx, ty)
		c.Children[i] = cc
		if err != nil {
			return c, err
		}
		floats.Add(wx, tx)
		floats.Add(wy, ty)
	}
	return c, nil
}

func (m *Combined) FocusingGradient(
	c *Cache, b *beam.Bunch, t float64, kx []float64,
) (*Cache, error) {
	checkLen("focusing gradient", len(kx), b.N())
	c = m.children(c)
	zero(kx)
	tk := make([]float64, b.N())
	for i, sub := range m.models {
		cc, err := sub.FocusingGradient(c.Children[i], b, t, tk)
		c.Children[i] = cc
		if err != nil {
			return c, err
		}
		floats.Add(kx, tk)
	}
	return c, nil
}

func (m *Combined) LongitudinalForce(
	c *Cache, b *beam.Bunch, t float64, ez []float64,
) (*Cache, error) {
	checkLen("longitudinal force", len(ez), b.N())
	c = m.children(c)
	zero(ez)
	te := make([]float64, b.N())
	for i, sub := range m.models {
		cc, err := sub.LongitudinalForce(c.Children[i], b, t, te)
		c.Children[i] = cc
		if err != nil {
			return c, err
		}
		floats.Add(ez, te)
	}
	return c, nil
}

func (m *Combined) LongitudinalGradient(
	c *Cache, b *beam.Bunch, t float64, dez []float64,
) (*Cache, error) {
	checkLen("longitudinal gradient", len(dez), b.N())
	c = m.children(c)
	zero(dez)
	td := make([]float64, b.N())
	for i, sub := range m.models {
		cc, err := sub.LongitudinalGradient(c.Children[i], b, t, td)
		c.Children[i] = cc
		if err != nil {
			return c, err
		}
		floats.Add(dez, td)
	}
	return c, nil
}
