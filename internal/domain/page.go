package domain

const (
	MinPageLimit = 1
	MaxPageLimit = 200
)

type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps Limit to [MinPageLimit, MaxPageLimit] and Offset to >= 0.
func (p Page) Normalize() Page {
	if p.Limit < MinPageLimit {
		p.Limit = MinPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
