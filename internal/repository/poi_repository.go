package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/virtual-tour/internal/model"
)

// POIRepo encapsulates all database queries related to points of interest.
type POIRepo struct {
	db *sql.DB
}

// NewPOIRepo constructs a POIRepo with the provided DB handle.
func NewPOIRepo(db *sql.DB) *POIRepo {
	return &POIRepo{db: db}
}

// DefaultFixture returns the fixed POI set the map boots with: five
// panoramic scenes and two plain buildings. The table is rebuilt from this
// list on every process start.
func DefaultFixture() []model.POI {
	return []model.POI{
		{Name: "Main Entrance", Lat: 41.00824, Lng: 28.97836, Type: model.POIType360, SceneID: "scene1"},
		{Name: "Central Courtyard", Lat: 41.00871, Lng: 28.97912, Type: model.POIType360, SceneID: "scene2"},
		{Name: "Library Hall", Lat: 41.00913, Lng: 28.97855, Type: model.POIType360, SceneID: "scene3"},
		{Name: "Auditorium", Lat: 41.00796, Lng: 28.97941, Type: model.POIType360, SceneID: "scene4"},
		{Name: "Rooftop Terrace", Lat: 41.00858, Lng: 28.98004, Type: model.POIType360, SceneID: "scene5"},
		{Name: "Administration Building", Lat: 41.00765, Lng: 28.97788, Type: model.POITypeBuilding},
		{Name: "Science Building", Lat: 41.00942, Lng: 28.97990, Type: model.POITypeBuilding},
	}
}

// ResetToFixture wipes the pois table and inserts the given fixture inside
// a single transaction, so map readers never observe a half-seeded table.
func (r *POIRepo) ResetToFixture(ctx context.Context, fixture []model.POI) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM pois`); err != nil {
		return err
	}
	const q = `INSERT INTO pois (name, lat, lng, type, scene_id) VALUES (?, ?, ?, ?, ?)`
	for _, p := range fixture {
		if _, err = tx.ExecContext(ctx, q, p.Name, p.Lat, p.Lng, p.Type, p.SceneID); err != nil {
			return err
		}
	}
	return nil
}

// ListAll returns every POI in insertion order. Used to render map markers.
func (r *POIRepo) ListAll(ctx context.Context) ([]*model.POI, error) {
	const q = `SELECT id, name, lat, lng, type, scene_id FROM pois ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.POI
	for rows.Next() {
		p := new(model.POI)
		if err := rows.Scan(&p.ID, &p.Name, &p.Lat, &p.Lng, &p.Type, &p.SceneID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SceneChoices returns the sorted distinct scene ids among "360" POIs with
// a non-empty scene_id. It hits the database on every call — the POI set
// can change, so the choices are never cached.
func (r *POIRepo) SceneChoices(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT scene_id FROM pois
	           WHERE type = ? AND scene_id <> '' ORDER BY scene_id`
	rows, err := r.db.QueryContext(ctx, q, model.POIType360)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
