package models

// Page is one window of a paginated list together with the list total.
type Page[T any] struct {
	Rows     []T `json:"data"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}
