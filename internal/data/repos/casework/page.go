package casework

// Page is a 1-based offset page request.
type Page struct {
	Page    int
	PerPage int
}

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// Normalize clamps p into a usable request.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p Page) Offset() int { return (p.Page - 1) * p.PerPage }
