package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/virtual-tour/internal/model"
	"github.com/iliyamo/virtual-tour/internal/queue"
	"github.com/iliyamo/virtual-tour/internal/repository"
	queue_publisher "github.com/iliyamo/virtual-tour/internal/service"
)

// AdminHandler bundles repositories for the admin-only tour content
// mutations. All routes behind it are gated by the admin middleware; the
// handlers themselves only deal with parsing, persistence and the
// post-mutation redirect back to the affected scene.
type AdminHandler struct {
	POIRepo    *repository.POIRepo
	PosterRepo *repository.PosterRepo
	NavRepo    *repository.NavLinkRepo
}

func NewAdminHandler(pois *repository.POIRepo, posters *repository.PosterRepo, navs *repository.NavLinkRepo) *AdminHandler {
	if pois == nil || posters == nil || navs == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{POIRepo: pois, PosterRepo: posters, NavRepo: navs}
}

// notify publishes a content-changed event best-effort. Publishing happens
// off the request path and failures never affect the mutation result.
func (h *AdminHandler) notify(c echo.Context, entity, action string, id uint64, sceneID string) {
	actor, _ := getUserID(c)
	ev := queue.ContentChangedEvent{
		Entity:     entity,
		Action:     action,
		ID:         id,
		SceneID:    sceneID,
		ActorID:    actor,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishContentChanged(ctx, ev)
	}()
}

// toScene redirects the client back to the scene it was editing.
func toScene(c echo.Context, sceneID string) error {
	return c.Redirect(http.StatusSeeOther, "/tour/"+sceneID)
}

// AddPoster handles POST /add_poster. pitch and yaw are required floats;
// text, image_url and color default to empty, scale to 1.0 and font_size
// to 14.0. The scene id is never checked against the POI list.
func (h *AdminHandler) AddPoster(c echo.Context) error {
	vals := formValues(c)
	sceneID := vals.Get("scene_id")
	pitch, err := requiredFloat(vals, "pitch")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pitch must be a number"})
	}
	yaw, err := requiredFloat(vals, "yaw")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "yaw must be a number"})
	}
	scale, err := floatOr(vals, "scale", model.PosterDefaultScale)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "scale must be a number"})
	}
	fontSize, err := floatOr(vals, "font_size", model.PosterDefaultFontSize)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "font_size must be a number"})
	}

	p := &model.Poster{
		SceneID:  sceneID,
		Text:     vals.Get("text"),
		ImageURL: vals.Get("image_url"),
		Color:    vals.Get("color"),
		Pitch:    pitch,
		Yaw:      yaw,
		Scale:    scale,
		FontSize: fontSize,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.PosterRepo.Create(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create poster"})
	}
	h.notify(c, "poster", "created", p.ID, p.SceneID)
	return toScene(c, p.SceneID)
}

// UpdatePoster handles POST /update_poster. Only fields present in the
// form are touched; each numeric field must parse when present. A missing
// id yields 404.
func (h *AdminHandler) UpdatePoster(c echo.Context) error {
	vals := formValues(c)
	id, err := requiredID(vals)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	patch := repository.PosterPatch{
		SceneID:  optionalString(vals, "scene_id"),
		Text:     optionalString(vals, "text"),
		ImageURL: optionalString(vals, "image_url"),
		Color:    optionalString(vals, "color"),
	}
	for key, dst := range map[string]**float64{
		"pitch":     &patch.Pitch,
		"yaw":       &patch.Yaw,
		"scale":     &patch.Scale,
		"font_size": &patch.FontSize,
	} {
		f, err := optionalFloat(vals, key)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": key + " must be a number"})
		}
		*dst = f
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	p, err := h.PosterRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrPosterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "poster not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update poster"})
	}
	h.notify(c, "poster", "updated", p.ID, p.SceneID)
	return toScene(c, p.SceneID)
}

// DeletePoster handles POST /delete_poster. Deleting the same id twice
// fails with 404 the second time.
func (h *AdminHandler) DeletePoster(c echo.Context) error {
	vals := formValues(c)
	id, err := requiredID(vals)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	p, err := h.PosterRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPosterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "poster not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.PosterRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPosterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "poster not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete poster"})
	}
	h.notify(c, "poster", "deleted", id, p.SceneID)
	return toScene(c, p.SceneID)
}

// AddNav handles POST /add_nav. Same float contract as AddPoster; the
// target scene id is not validated against the POI list — a link to a
// nonexistent scene simply won't resolve in the viewer.
func (h *AdminHandler) AddNav(c echo.Context) error {
	vals := formValues(c)
	pitch, err := requiredFloat(vals, "pitch")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pitch must be a number"})
	}
	yaw, err := requiredFloat(vals, "yaw")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "yaw must be a number"})
	}
	color := vals.Get("color")
	if !vals.Has("color") || color == "" {
		color = model.NavLinkDefaultColor
	}

	n := &model.NavLink{
		SceneID:       vals.Get("scene_id"),
		TargetSceneID: vals.Get("target_scene_id"),
		Pitch:         pitch,
		Yaw:           yaw,
		Label:         vals.Get("label"),
		Color:         color,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.NavRepo.Create(ctx, n); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create nav link"})
	}
	h.notify(c, "nav_link", "created", n.ID, n.SceneID)
	return toScene(c, n.SceneID)
}

// UpdateNav handles POST /update_nav with the same partial-update contract
// as UpdatePoster.
func (h *AdminHandler) UpdateNav(c echo.Context) error {
	vals := formValues(c)
	id, err := requiredID(vals)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	patch := repository.NavLinkPatch{
		SceneID:       optionalString(vals, "scene_id"),
		TargetSceneID: optionalString(vals, "target_scene_id"),
		Label:         optionalString(vals, "label"),
		Color:         optionalString(vals, "color"),
	}
	for key, dst := range map[string]**float64{
		"pitch": &patch.Pitch,
		"yaw":   &patch.Yaw,
	} {
		f, err := optionalFloat(vals, key)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": key + " must be a number"})
		}
		*dst = f
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	n, err := h.NavRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNavLinkNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "nav link not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update nav link"})
	}
	h.notify(c, "nav_link", "updated", n.ID, n.SceneID)
	return toScene(c, n.SceneID)
}

// DeleteNav handles POST /delete_nav.
func (h *AdminHandler) DeleteNav(c echo.Context) error {
	vals := formValues(c)
	id, err := requiredID(vals)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	n, err := h.NavRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNavLinkNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "nav link not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.NavRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNavLinkNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "nav link not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete nav link"})
	}
	h.notify(c, "nav_link", "deleted", id, n.SceneID)
	return toScene(c, n.SceneID)
}

// Posters handles GET /admin: every poster across all scenes plus the
// scene choices, backing the admin overview and creation form.
func (h *AdminHandler) Posters(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	posters, err := h.PosterRepo.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	choices, err := h.POIRepo.SceneChoices(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if posters == nil {
		posters = []*model.Poster{}
	}
	if choices == nil {
		choices = []string{}
	}
	return c.JSON(http.StatusOK, echo.Map{"posters": posters, "scene_choices": choices})
}
