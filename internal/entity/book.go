package entity

// Field names shared by the book and comment collections.
const (
	FieldASIN     = "asin"
	FieldTitle    = "title"
	FieldCategory = "category"
	FieldImg      = "img"
	FieldPrice    = "price"

	FieldID   = "id"
	FieldDate = "date"
)
