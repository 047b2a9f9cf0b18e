package domain

// Page mirrors the backend's paginated response.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalPages    int `json:"totalPages"`
	TotalElements int `json:"totalElements"`
	Size          int `json:"size"`
	Number        int `json:"number"`
}

// DefaultPageSize is the fixed listing page size.
const DefaultPageSize = 50
