package utils

// Pagination décrit la fenêtre courante dans une réponse paginée
type Pagination struct {
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	TotalPages  int  `json:"total_pages"`
	HasNextPage bool `json:"has_next_page"`
	HasPrevPage bool `json:"has_prev_page"`
	NextPage    *int `json:"next_page"`
	PrevPage    *int `json:"prev_page"`
}

// PaginatedResponse enveloppe une page de résultats
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// Paginate construit l'enveloppe de pagination standard
func Paginate(data interface{}, total, page, limit int) PaginatedResponse {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	p := Pagination{
		Total:       total,
		Page:        page,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
	if p.HasNextPage {
		next := page + 1
		p.NextPage = &next
	}
	if p.HasPrevPage {
		prev := page - 1
		p.PrevPage = &prev
	}

	return PaginatedResponse{Data: data, Pagination: p}
}
