package router

import "go-gin-gorm-crm/internal/domain"

// pageQuery is the ?limit=&offset= pair shared by list endpoints.
type pageQuery struct {
	Limit  *int `form:"limit"`
	Offset int  `form:"offset"`
}

// page applies def when no limit was given; out of range values are clamped.
func (q pageQuery) page(def int) domain.Page {
	p := domain.Page{Limit: def, Offset: q.Offset}
	if q.Limit != nil {
		p.Limit = *q.Limit
	}
	return p.Normalize()
}

type idOut struct {
	ID int64 `json:"id"`
}
