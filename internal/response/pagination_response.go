package response

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
	HasMore    bool  `json:"has_more"`
	From       int   `json:"from"`
	To         int   `json:"to"`
}

// NewOffsetPagination builds the pagination block for a limit/offset query that returned count rows.
func NewOffsetPagination(limit, offset, count int, total int64) *Pagination {
	if limit <= 0 {
		limit = 1
	}
	p := &Pagination{
		Page:       offset/limit + 1,
		PageSize:   limit,
		TotalItems: total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
		HasMore:    int64(offset+count) < total,
	}
	if count > 0 {
		p.From = offset + 1
		p.To = offset + count
	}
	return p
}
