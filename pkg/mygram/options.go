package mygram

type searchOptions struct {
	limit    int
	offset   int
	andTerms []string
	notTerms []string
	filters  []Filter
	sortBy   string
	sortDesc bool
}

// The server's default ordering is primary key descending; an explicit
// `SORT ASC` is only emitted when ascending order is requested without a
// sort column.
func newSearchOptions(opts []SearchOption) *searchOptions {
	o := &searchOptions{sortDesc: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SearchOption configures a Search or Count call. Sort and limit options are
// meaningless for COUNT and are ignored there.
type SearchOption func(*searchOptions)

// WithLimit caps the number of returned IDs. Zero or negative means no LIMIT
// clause.
func WithLimit(n int) SearchOption {
	return func(o *searchOptions) {
		o.limit = n
	}
}

// WithOffset skips the first n matches. Only effective together with
// WithLimit: the wire format is MySQL-style `LIMIT offset,count`.
func WithOffset(n int) SearchOption {
	return func(o *searchOptions) {
		o.offset = n
	}
}

// WithFilter appends a FILTER key = value clause. Repeatable; order is
// preserved.
func WithFilter(key, value string) SearchOption {
	return func(o *searchOptions) {
		o.filters = append(o.filters, Filter{Key: key, Value: value})
	}
}

// WithSort orders results by the given column.
func WithSort(column string, desc bool) SearchOption {
	return func(o *searchOptions) {
		o.sortBy = column
		o.sortDesc = desc
	}
}

// WithAscendingOrder requests primary-key ascending order.
func WithAscendingOrder() SearchOption {
	return func(o *searchOptions) {
		o.sortDesc = false
	}
}

// WithAndTerms appends pre-split required terms to the command, after any the
// expression compiler produced.
func WithAndTerms(terms ...string) SearchOption {
	return func(o *searchOptions) {
		o.andTerms = append(o.andTerms, terms...)
	}
}

// WithNotTerms appends pre-split excluded terms to the command.
func WithNotTerms(terms ...string) SearchOption {
	return func(o *searchOptions) {
		o.notTerms = append(o.notTerms, terms...)
	}
}
