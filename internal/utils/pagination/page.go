package pagination

// Page is a 1-based page of a fixed size.
type Page struct {
	Number  int
	PerPage int
}

// NewPage normalizes a requested page number. Anything below 1 becomes page 1.
func NewPage(number, perPage int) Page {
	if number < 1 {
		number = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	return Page{Number: number, PerPage: perPage}
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// TotalPages returns ceil(total / perPage). An empty result still has zero pages.
func (p Page) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
}
