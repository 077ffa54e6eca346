package models

// Category is a user-scoped shelf for grouping library items,
// e.g. "Reading", "Plan to Read".
type Category struct {
	ID     int64  `json:"id"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Order  int    `json:"order"` // display rank
}
