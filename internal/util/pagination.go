package util

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Clamp normalizes page to >= 1 and size to [1, MaxPageSize], using
// DefaultPageSize for non-positive sizes.
func Clamp(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func Calculate(page, size int) (offset, limit int) {
	page, size = Clamp(page, size)
	offset = (page - 1) * size
	return offset, size
}

func TotalPages(total int64, size int) int64 {
	if size < 1 || total <= 0 {
		return 0
	}
	return (total + int64(size) - 1) / int64(size)
}

// Window returns the [offset, offset+limit) bounds of a slice of length n.
func Window(n, offset, limit int) (int, int) {
	if offset > n {
		offset = n
	}
	end := offset + limit
	if end > n {
		end = n
	}
	return offset, end
}
