package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/virtual-tour/internal/model"
)

// NavLinkRepo encapsulates all database queries related to nav links.
type NavLinkRepo struct {
	db *sql.DB
}

// NewNavLinkRepo constructs a NavLinkRepo with the provided DB handle.
func NewNavLinkRepo(db *sql.DB) *NavLinkRepo {
	return &NavLinkRepo{db: db}
}

// NavLinkPatch is an explicit partial update for a nav link, with the same
// presence semantics as PosterPatch: nil leaves the stored value unchanged.
type NavLinkPatch struct {
	SceneID       *string
	TargetSceneID *string
	Pitch         *float64
	Yaw           *float64
	Label         *string
	Color         *string
}

// Create inserts a new nav link. On success the ID field is populated.
// TargetSceneID is not validated against the POI list.
func (r *NavLinkRepo) Create(ctx context.Context, n *model.NavLink) error {
	const q = `INSERT INTO nav_links (scene_id, target_scene_id, pitch, yaw, label, color)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, n.SceneID, n.TargetSceneID, n.Pitch, n.Yaw, n.Label, n.Color)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

// GetByID fetches a nav link by primary key. It returns ErrNavLinkNotFound
// when no row exists.
func (r *NavLinkRepo) GetByID(ctx context.Context, id uint64) (*model.NavLink, error) {
	const q = `SELECT id, scene_id, target_scene_id, pitch, yaw, label, color
	           FROM nav_links WHERE id = ?`
	var n model.NavLink
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&n.ID, &n.SceneID, &n.TargetSceneID, &n.Pitch, &n.Yaw, &n.Label, &n.Color,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNavLinkNotFound
		}
		return nil, err
	}
	return &n, nil
}

// ListByScene returns all nav links originating in the given scene, in
// insertion order. An unknown scene yields an empty list.
func (r *NavLinkRepo) ListByScene(ctx context.Context, sceneID string) ([]*model.NavLink, error) {
	const q = `SELECT id, scene_id, target_scene_id, pitch, yaw, label, color
	           FROM nav_links WHERE scene_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, sceneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.NavLink
	for rows.Next() {
		n := new(model.NavLink)
		if err := rows.Scan(&n.ID, &n.SceneID, &n.TargetSceneID, &n.Pitch, &n.Yaw, &n.Label, &n.Color); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies a partial update and returns the resulting row, with the
// same contract as PosterRepo.Update.
func (r *NavLinkRepo) Update(ctx context.Context, id uint64, patch NavLinkPatch) (*model.NavLink, error) {
	set := make([]string, 0, 6)
	args := make([]any, 0, 7)
	add := func(col string, v any) {
		set = append(set, col+" = ?")
		args = append(args, v)
	}
	if patch.SceneID != nil {
		add("scene_id", *patch.SceneID)
	}
	if patch.TargetSceneID != nil {
		add("target_scene_id", *patch.TargetSceneID)
	}
	if patch.Pitch != nil {
		add("pitch", *patch.Pitch)
	}
	if patch.Yaw != nil {
		add("yaw", *patch.Yaw)
	}
	if patch.Label != nil {
		add("label", *patch.Label)
	}
	if patch.Color != nil {
		add("color", *patch.Color)
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	q := "UPDATE nav_links SET " + strings.Join(set, ", ") + " WHERE id = ?"
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a nav link by id. ErrNavLinkNotFound is returned when the
// id does not exist.
func (r *NavLinkRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM nav_links WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNavLinkNotFound
	}
	return nil
}
