package models

import "time"

// SortDirection is 1 for ascending and -1 for descending.
type SortDirection int

const (
	SortAsc  SortDirection = 1
	SortDesc SortDirection = -1
)

// Window is an offset/limit page request.
type Window struct {
	Offset    int64
	Limit     int64
	SortField string
	SortDir   SortDirection
}

// OutfitQuery filters outfit listings. Empty fields do not filter.
type OutfitQuery struct {
	Window
	IncludeInactive bool
	IsActive        *bool
	UserID          UserRef
	Category        Category
	Section         Section
	Type            OutfitType
	Search          string
	From            *time.Time
	To              *time.Time
}

// OutfitPage is one page of outfits plus the counts shown beside it.
type OutfitPage struct {
	Items        []Outfit `json:"data"`
	TotalCount   int64    `json:"totalCount"`
	MatchedCount int64    `json:"matchedCount"`
	RecentCount  int64    `json:"recentCount"`
	Offset       int64    `json:"offset"`
	Limit        int64    `json:"limit"`
}

// TrendingOutfits is the trending listing.
type TrendingOutfits struct {
	Outfits     []OutfitSummary `json:"outfits"`
	ActiveCount int64           `json:"activeCount"`
	TotalClicks int64           `json:"totalClicks"`
}

// TestimonialQuery filters testimonial listings.
type TestimonialQuery struct {
	Window
	ApprovedOnly bool
	Featured     *bool
	Approved     *bool
	ActiveOnly   bool
}

type TestimonialPage struct {
	Items      []Testimonial `json:"data"`
	TotalCount int64         `json:"totalCount"`
	Offset     int64         `json:"offset"`
	Limit      int64         `json:"limit"`
}

// OrderUpdate assigns a display order to one testimonial.
type OrderUpdate struct {
	ID    string `json:"id" binding:"required"`
	Order int    `json:"order"`
}

type UserPage struct {
	Items      []User `json:"data"`
	TotalCount int64  `json:"totalCount"`
	Offset     int64  `json:"offset"`
	Limit      int64  `json:"limit"`
}
