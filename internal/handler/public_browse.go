package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/virtual-tour/internal/model"
	"github.com/iliyamo/virtual-tour/internal/repository"
)

// PublicHandler exposes the unauthenticated read endpoints: the map POI
// listing and the per-scene tour view. The tour view also reports whether
// the current session is an admin so the viewer can show editing controls,
// but reading never requires a session.
type PublicHandler struct {
	POIRepo    *repository.POIRepo
	PosterRepo *repository.PosterRepo
	NavRepo    *repository.NavLinkRepo
}

func NewPublicHandler(pois *repository.POIRepo, posters *repository.PosterRepo, navs *repository.NavLinkRepo) *PublicHandler {
	if pois == nil || posters == nil || navs == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{POIRepo: pois, PosterRepo: posters, NavRepo: navs}
}

// Index handles GET / by sending the client to the map view.
func (h *PublicHandler) Index(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/map")
}

// MapPOIs handles GET /map: all POIs in insertion order, for map markers.
func (h *PublicHandler) MapPOIs(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pois, err := h.POIRepo.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if pois == nil {
		pois = []*model.POI{}
	}
	return c.JSON(http.StatusOK, echo.Map{"pois": pois})
}

// sceneResp is the tour view payload: everything placed in one scene plus
// the link-target choices for the admin UI.
type sceneResp struct {
	SceneID      string           `json:"scene_id"`
	Posters      []*model.Poster  `json:"posters"`
	NavLinks     []*model.NavLink `json:"nav_links"`
	SceneChoices []string         `json:"scene_choices"`
	IsAdmin      bool             `json:"is_admin"`
}

// Scene handles GET /tour/:scene_id. An unknown scene id is not an error:
// it yields empty poster and nav link lists. Scene choices are recomputed
// from the POI table on every request since the POI set can change.
func (h *PublicHandler) Scene(c echo.Context) error {
	sceneID := c.Param("scene_id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	posters, err := h.PosterRepo.ListByScene(ctx, sceneID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	navs, err := h.NavRepo.ListByScene(ctx, sceneID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	choices, err := h.POIRepo.SceneChoices(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	resp := sceneResp{
		SceneID:      sceneID,
		Posters:      posters,
		NavLinks:     navs,
		SceneChoices: choices,
	}
	if resp.Posters == nil {
		resp.Posters = []*model.Poster{}
	}
	if resp.NavLinks == nil {
		resp.NavLinks = []*model.NavLink{}
	}
	if resp.SceneChoices == nil {
		resp.SceneChoices = []string{}
	}
	resp.IsAdmin, _ = c.Get("is_admin").(bool)
	return c.JSON(http.StatusOK, resp)
}
