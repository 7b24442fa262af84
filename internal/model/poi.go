package model

// POI type values stored in pois.type. A "360" POI is an entry point into
// a panoramic scene; a "building" POI is a plain map marker.
const (
	POIType360      = "360"
	POITypeBuilding = "building"
)

// POI is a point of interest shown on the 2D map. The whole table is
// wiped and re-seeded from a fixed fixture on every process start, so
// POIs are deliberately not durable across restarts.
//
// SceneID is set only for "360" POIs and addresses the panorama the
// marker opens. Posters and nav links reference it as a soft key — no
// foreign key is enforced.
type POI struct {
	ID      uint64  `json:"id"`       // pois.id
	Name    string  `json:"name"`     // pois.name
	Lat     float64 `json:"lat"`      // pois.lat
	Lng     float64 `json:"lng"`      // pois.lng
	Type    string  `json:"type"`     // pois.type ("360" | "building")
	SceneID string  `json:"scene_id"` // pois.scene_id (empty for buildings)
}
