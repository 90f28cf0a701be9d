package scene

import (
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/umbra/pkg/render"
)

// settleTime is how many spring time constants a turntable lasts; at 8 a
// critically damped spring is within a fraction of a percent of its target.
const settleTime = 8

// FrameFunc receives each rendered turntable frame.
type FrameFunc func(frame int, res *Result) error

// Turntable renders frames images with the camera orbiting the focus by
// one full turn. The orbit angle follows a critically damped spring, so
// the camera eases in and out. The light does not move, so the shadow map
// is rendered once and shared by every frame.
func (r *Renderer) Turntable(frames, fps int, fn FrameFunc) error {
	if frames <= 0 {
		return fmt.Errorf("%w: %d turntable frames", ErrInvalidConfig, frames)
	}
	if fps <= 0 {
		fps = 30
	}
	if err := r.prepare(); err != nil {
		return err
	}

	var (
		shadow      *render.ShadowMap
		shadowStats render.RasterStats
	)
	if r.shadowed() {
		var err error
		if shadow, shadowStats, err = r.ShadowPass(); err != nil {
			return err
		}
	}

	spring := newOrbitSpring(frames, fps)
	angle, velocity := 0.0, 0.0
	total := shadowStats

	cam := r.cfg.NewCamera()
	for i := range frames {
		final, stats, err := r.FinalPass(cam.Orbit(angle), shadow)
		if err != nil {
			return err
		}
		res := &Result{Final: final, ShadowStats: shadowStats, FinalStats: stats}
		if shadow != nil {
			res.ShadowMap = shadow.Target
			res.WorldToShadow = shadow.WorldToShadow
		}
		if err := fn(i, res); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		r.log.Debug("turntable frame", "frame", i, "angle", angle)
		total.Add(stats)

		angle, velocity = spring.Update(angle, velocity, 2*math.Pi)
	}
	r.log.Debug("turntable complete", "frames", frames, "stats", total)
	return nil
}

// newOrbitSpring returns a critically damped spring that settles over a
// sequence of frames played at fps.
func newOrbitSpring(frames, fps int) harmonica.Spring {
	duration := float64(frames) / float64(fps)
	return harmonica.NewSpring(harmonica.FPS(fps), settleTime/duration, 1.0)
}
