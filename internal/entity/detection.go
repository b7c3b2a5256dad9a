package entity

// Detection is one object instance found in an image. Box coordinates are
// absolute source-image pixels in [xmin, ymin, xmax, ymax] order.
type Detection struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Box   []int   `json:"box"`
}
