package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/virtual-tour/internal/model"
)

// PosterRepo encapsulates all database queries related to posters.
type PosterRepo struct {
	db *sql.DB
}

// NewPosterRepo constructs a PosterRepo with the provided DB handle.
func NewPosterRepo(db *sql.DB) *PosterRepo {
	return &PosterRepo{db: db}
}

// PosterPatch is an explicit partial update for a poster. A nil field was
// absent from the request and leaves the stored value unchanged; a non-nil
// field overwrites it, including overwriting text/image_url/color with the
// empty string.
type PosterPatch struct {
	SceneID  *string
	Text     *string
	ImageURL *string
	Color    *string
	Pitch    *float64
	Yaw      *float64
	Scale    *float64
	FontSize *float64
}

// Create inserts a new poster. On success the poster's ID field is
// populated with the auto-generated value.
func (r *PosterRepo) Create(ctx context.Context, p *model.Poster) error {
	const q = `INSERT INTO posters (scene_id, text, image_url, color, pitch, yaw, scale, font_size)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.SceneID, p.Text, p.ImageURL, p.Color, p.Pitch, p.Yaw, p.Scale, p.FontSize)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID fetches a poster by primary key. It returns ErrPosterNotFound
// when no row exists.
func (r *PosterRepo) GetByID(ctx context.Context, id uint64) (*model.Poster, error) {
	const q = `SELECT id, scene_id, text, image_url, color, pitch, yaw, scale, font_size
	           FROM posters WHERE id = ?`
	var p model.Poster
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.SceneID, &p.Text, &p.ImageURL, &p.Color, &p.Pitch, &p.Yaw, &p.Scale, &p.FontSize,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPosterNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByScene returns all posters whose scene_id equals the given id, in
// insertion order. An unknown scene yields an empty list, not an error.
func (r *PosterRepo) ListByScene(ctx context.Context, sceneID string) ([]*model.Poster, error) {
	const q = `SELECT id, scene_id, text, image_url, color, pitch, yaw, scale, font_size
	           FROM posters WHERE scene_id = ? ORDER BY id`
	return r.list(ctx, q, sceneID)
}

// ListAll returns every poster, in insertion order. Used by the admin view.
func (r *PosterRepo) ListAll(ctx context.Context) ([]*model.Poster, error) {
	const q = `SELECT id, scene_id, text, image_url, color, pitch, yaw, scale, font_size
	           FROM posters ORDER BY id`
	return r.list(ctx, q)
}

func (r *PosterRepo) list(ctx context.Context, q string, args ...any) ([]*model.Poster, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Poster
	for rows.Next() {
		p := new(model.Poster)
		if err := rows.Scan(&p.ID, &p.SceneID, &p.Text, &p.ImageURL, &p.Color, &p.Pitch, &p.Yaw, &p.Scale, &p.FontSize); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies a partial update and returns the resulting row. Only the
// non-nil patch fields appear in the SET clause. Concurrent updates race
// via last-write-wins; there is no row versioning. ErrPosterNotFound is
// returned when the id does not exist.
func (r *PosterRepo) Update(ctx context.Context, id uint64, patch PosterPatch) (*model.Poster, error) {
	set := make([]string, 0, 8)
	args := make([]any, 0, 9)
	add := func(col string, v any) {
		set = append(set, col+" = ?")
		args = append(args, v)
	}
	if patch.SceneID != nil {
		add("scene_id", *patch.SceneID)
	}
	if patch.Text != nil {
		add("text", *patch.Text)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if patch.Color != nil {
		add("color", *patch.Color)
	}
	if patch.Pitch != nil {
		add("pitch", *patch.Pitch)
	}
	if patch.Yaw != nil {
		add("yaw", *patch.Yaw)
	}
	if patch.Scale != nil {
		add("scale", *patch.Scale)
	}
	if patch.FontSize != nil {
		add("font_size", *patch.FontSize)
	}
	if len(set) == 0 {
		// Nothing to change; still report NotFound for a missing id.
		return r.GetByID(ctx, id)
	}

	// Existence is checked up front because RowsAffected reports zero both
	// for a missing row and for an update that leaves values identical.
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	q := "UPDATE posters SET " + strings.Join(set, ", ") + " WHERE id = ?"
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a poster by id. ErrPosterNotFound is returned when the id
// does not exist, so a second delete of the same id fails.
func (r *PosterRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posters WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPosterNotFound
	}
	return nil
}
