package services

import "math"

const (
	DefaultPostPageSize         = 10
	DefaultCommentPageSize      = 20
	DefaultNotificationPageSize = 20
	DefaultUserPageSize         = 20
	MaxPageSize                 = 100

	// maxOffset bounds how far a page may reach so Offset never overflows.
	maxOffset = math.MaxInt32
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// NewPage normalizes a requested page: numbers below 1 become 1, sizes below 1
// become defaultSize, sizes above MaxPageSize are clamped and numbers whose
// offset would pass maxOffset are clamped to the last reachable page.
func NewPage(number, size, defaultSize int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = defaultSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if number-1 > maxOffset/size {
		number = maxOffset/size + 1
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// PageResult is one page of items and the total across all pages.
type PageResult[T any] struct {
	Items []T
	Total int64
	Page  Page
}

func (r PageResult[T]) TotalPages() int {
	if r.Page.Size <= 0 || r.Total == 0 {
		return 0
	}
	return int((r.Total + int64(r.Page.Size) - 1) / int64(r.Page.Size))
}

func (r PageResult[T]) HasNext() bool {
	return r.Page.Number < r.TotalPages()
}

func (r PageResult[T]) HasPrevious() bool {
	return r.Page.Number > 1
}
