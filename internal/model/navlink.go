package model

// NavLinkDefaultColor is applied when a nav link is created without an
// explicit marker color.
const NavLinkDefaultColor = "#ffc107"

// NavLink is a clickable marker inside a scene that navigates the viewer
// to another scene. Both SceneID (source) and TargetSceneID (destination)
// are soft references: a link to a nonexistent scene is allowed and simply
// won't resolve in the viewer.
type NavLink struct {
	ID            uint64  `json:"id"`
	SceneID       string  `json:"scene_id"`
	TargetSceneID string  `json:"target_scene_id"`
	Pitch         float64 `json:"pitch"`
	Yaw           float64 `json:"yaw"`
	Label         string  `json:"label"`
	Color         string  `json:"color"`
}
