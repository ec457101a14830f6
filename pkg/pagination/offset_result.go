package pagination

// OffsetResult represents an offset-based paginated result.
// Generic type T allows reuse across different entity types.
type OffsetResult[T any] struct {
	Items   []T    `json:"items"`
	Total   uint64 `json:"total"`
	Page    int    `json:"page"`
	Size    int    `json:"size"`
	HasMore bool   `json:"has_more"`
}

// NewOffsetResult creates a new offset-based result
func NewOffsetResult[T any](items []T, total uint64, page int, size int) *OffsetResult[T] {
	offset := (page - 1) * size
	hasMore := uint64(offset+size) < total

	return &OffsetResult[T]{
		Items:   items,
		Total:   total,
		Page:    page,
		Size:    size,
		HasMore: hasMore,
	}
}
