package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// imageCacheSeconds is one year; the panorama images never change, so
// clients and intermediaries may cache them for the maximum useful time.
const imageCacheSeconds = 31536000

// StaticHandler serves the panorama images and the service worker from the
// configured static directory.
type StaticHandler struct {
	Dir string
}

func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{Dir: dir}
}

// Image handles GET /<n>.jpg for n in 1..5, with 1-year cache headers.
// Anything outside that range, or any other filename, is a 404 — the image
// set is fixed. The route is registered as a root-level catch-all segment,
// so the name is validated here.
func (h *StaticHandler) Image(c echo.Context) error {
	name := c.Param("file")
	n, err := strconv.Atoi(strings.TrimSuffix(name, ".jpg"))
	if !strings.HasSuffix(name, ".jpg") || err != nil || n < 1 || n > 5 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
	}
	c.Response().Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", imageCacheSeconds))
	c.Response().Header().Set("Expires", strconv.Itoa(imageCacheSeconds))
	return c.File(filepath.Join(h.Dir, fmt.Sprintf("%d.jpg", n)))
}

// ServiceWorker handles GET /sw.js. No long-lived caching: the worker
// script is how the front end updates itself.
func (h *StaticHandler) ServiceWorker(c echo.Context) error {
	return c.File(filepath.Join(h.Dir, "sw.js"))
}
