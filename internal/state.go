package internal

import (
	"github.com/deadsy/sdfx/sdf"
	"github.com/deadsy/sdfx/vec/v3"
)

// RendererState is the snapshot of everything a background rasterization needs, copied out of the renderer so that
// the frame loop never waits for it.
type RendererState struct {
	ResInv     int        // Number of screen pixels per rendered pixel (on each axis)
	DrawBounds bool       // Whether to draw the bounds of every body
	Bounds     []sdf.Box3 // Cached bounds (see CollectBounds)
	// Camera
	CamPos, CamTarget, CamUp v3.Vec
	// Screen size in pixels
	Width, Height int
}

// RenderSize returns the size of the rasterized image (the screen size divided by ResInv, at least 1x1).
func (s *RendererState) RenderSize() (int, int) {
	resInv := s.ResInv
	if resInv < 1 {
		resInv = 1
	}
	w, h := s.Width/resInv, s.Height/resInv
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
