package tabular

// Page describes one window over a filtered list. Pages are zero-based.
type Page struct {
	Start      int `json:"start"`
	End        int `json:"end"`
	TotalPages int `json:"total_pages"`
}

// Paginate computes the visible window for a zero-based page over total
// items. An out-of-range page yields an empty window (Start == End), not an
// error; callers that want the last non-empty page clamp first.
func Paginate(total int, page int, size int) Page {
	if size <= 0 || total < 0 || page < 0 {
		return Page{}
	}

	totalPages := (total + size - 1) / size

	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return Page{Start: start, End: end, TotalPages: totalPages}
}

// ClampPage restricts page into [0, TotalPages-1] for the given list size.
func ClampPage(page int, total int, size int) int {
	if page < 0 {
		return 0
	}
	if size <= 0 || total <= 0 {
		return 0
	}
	last := (total+size-1)/size - 1
	if page > last {
		return last
	}
	return page
}

// Slice returns the records visible on the given zero-based page.
func Slice[T any](records []T, page int, size int) []T {
	window := Paginate(len(records), page, size)
	return records[window.Start:window.End]
}
