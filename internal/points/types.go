package points

// Point represents a point of interest loaded from a CSV source
type Point struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Description *string `json:"description,omitempty"`
}

// Registry maps point ids to their point records. It is replaced wholesale
// on every reload; nothing mutates individual entries after loading.
type Registry map[string]Point
