package paging

// Fixed page sizes, chosen per resource category.
const (
	SizeSmall  = 5
	SizeMedium = 10
	SizeLarge  = 20

	MaxPage = 100000
	MaxSize = 100
)

// Sizes holds the default page size of each listing.
type Sizes struct {
	Notices  int `yaml:"notices"`
	Articles int `yaml:"articles"`
	Comments int `yaml:"comments"`
	Tags     int `yaml:"tags"`
}

func DefaultSizes() Sizes {
	return Sizes{Notices: SizeMedium, Articles: SizeMedium, Comments: SizeMedium, Tags: SizeLarge}
}

// WithDefaults fills unset sizes from DefaultSizes.
func (s Sizes) WithDefaults() Sizes {
	d := DefaultSizes()
	if s.Notices <= 0 {
		s.Notices = d.Notices
	}
	if s.Articles <= 0 {
		s.Articles = d.Articles
	}
	if s.Comments <= 0 {
		s.Comments = d.Comments
	}
	if s.Tags <= 0 {
		s.Tags = d.Tags
	}
	return s
}

// Request is a zero-indexed page request.
type Request struct {
	Page int
	Size int
}

func NewRequest(page, size int) Request {
	if page < 0 {
		page = 0
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size <= 0 {
		size = SizeMedium
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Request{Page: page, Size: size}
}

func (r Request) Offset() int { return r.Page * r.Size }

type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

func New[T any](content []T, req Request, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if req.Size > 0 && total > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}
