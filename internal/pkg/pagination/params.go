package pagination

// Params is the page request bound from the query string.
type Params struct {
	PageNumber int `form:"pageNumber"`
	PageSize   int `form:"pageSize"`
}

// Normalize applies defaults: page 1, size DefaultPageSize, capped at
// MaxPageSize.
func (p Params) Normalize() Params {
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	switch {
	case p.PageSize < 1:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}
