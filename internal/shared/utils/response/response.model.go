package response

// StandardApiResponse is the envelope every endpoint answers with
type StandardApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Errors  interface{} `json:"errors,omitempty"` // Validation or error details
}

// PaginatedData wraps list payloads
type PaginatedData struct {
	Items      interface{} `json:"items"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
}

// NewPaginatedData builds a PaginatedData computing the page count
func NewPaginatedData(items interface{}, page, limit int, total int64) PaginatedData {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PaginatedData{Items: items, Page: page, Limit: limit, Total: total, TotalPages: pages}
}
