package renderer

import "time"

// FrameStats describes the last rendered frame.
type FrameStats struct {
	// Phase durations. Measured for reporting only.
	ClearTime time.Duration
	DrawTime  time.Duration
	SaveTime  time.Duration

	Shapes    int
	Triangles int
}

// RenderTime is the sum of all measured phases.
func (s FrameStats) RenderTime() time.Duration {
	return s.ClearTime + s.DrawTime + s.SaveTime
}
