package model

// Default values applied when a poster is created without explicit
// scale or font size.
const (
	PosterDefaultScale    = 1.0
	PosterDefaultFontSize = 14.0
)

// Poster is a text/image annotation anchored at a pitch/yaw angle inside
// a panoramic scene. SceneID is a soft reference to a POI's scene_id:
// posters survive POI reseeds and may dangle, in which case they simply
// render into an orphaned scene.
//
// Fields:
//  ID       – primary key identifier.
//  SceneID  – scene the poster belongs to.
//  Text     – poster body text (may be empty).
//  ImageURL – optional image to render (may be empty).
//  Color    – CSS color of the poster text (may be empty).
//  Pitch    – vertical placement angle in the panorama.
//  Yaw      – horizontal placement angle in the panorama.
//  Scale    – visual size multiplier, defaults to 1.0.
//  FontSize – text size, defaults to 14.0.
type Poster struct {
	ID       uint64  `json:"id"`
	SceneID  string  `json:"scene_id"`
	Text     string  `json:"text"`
	ImageURL string  `json:"image_url"`
	Color    string  `json:"color"`
	Pitch    float64 `json:"pitch"`
	Yaw      float64 `json:"yaw"`
	Scale    float64 `json:"scale"`
	FontSize float64 `json:"font_size"`
}
