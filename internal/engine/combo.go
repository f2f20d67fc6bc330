package engine

// Combo is the running count of passing judgements.
type Combo struct {
	Current uint32
	Max     uint32
}

func (c Combo) Apply(pass bool) Combo {
	if !pass {
		c.Current = 0
		return c
	}
	c.Current++
	if c.Current > c.Max {
		c.Max = c.Current
	}
	return c
}
