// Package renderer drives one frame of software rasterization: it wires a
// camera, a model and a rasterizer together, draws every shape and writes the
// resulting image to disk.
package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"objraster/internal/camera"
	"objraster/internal/config"
	"objraster/internal/imagefile"
	"objraster/internal/model"
	"objraster/internal/raster"
)

// Renderer owns every per-frame resource. Init must succeed before Render.
type Renderer struct {
	settings config.Settings
	opts     options

	rasterizer   *raster.Rasterizer
	renderTarget *raster.RenderTarget
	depthBuffer  *raster.DepthBuffer
	model        *model.Model
	camera       *camera.Camera

	ready bool
	stats FrameStats
}

// New creates a renderer for settings. No resources are allocated until Init.
func New(settings config.Settings, opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Renderer{settings: settings, opts: o}
}

// Init validates the settings and allocates the rasterizer, buffers, model
// and camera. On failure the renderer holds no resources and stays not ready.
func (r *Renderer) Init() error {
	if r.ready {
		return ErrAlreadyInitialized
	}
	s := r.settings
	if err := s.Validate(); err != nil {
		return err
	}

	r.rasterizer = raster.New()
	r.rasterizer.SetViewport(s.Width, s.Height)

	r.renderTarget = raster.NewRenderTarget(s.Width, s.Height)
	r.rasterizer.SetRenderTarget(r.renderTarget, nil)

	r.model = model.New()
	if err := r.model.LoadOBJ(s.ModelPath); err != nil {
		r.release()
		return fmt.Errorf("%w: %w", ErrAssetLoad, err)
	}
	r.model.SetWorldMatrix(model.Transform(s.ModelTranslation, s.ModelRotation, s.ModelScale))
	for _, w := range r.model.Warnings {
		r.opts.logger.Warningf("%s: %s", s.ModelPath, w)
	}

	r.camera = camera.New()
	r.camera.SetHeight(float32(s.Height))
	r.camera.SetWidth(float32(s.Width))
	r.camera.SetPosition(mgl32.Vec3(s.CameraPosition))
	r.camera.SetTheta(s.CameraTheta)
	r.camera.SetPhi(s.CameraPhi)
	r.camera.SetAngleOfView(s.CameraAngleOfView)
	r.camera.SetZNear(s.CameraZNear)
	r.camera.SetZFar(s.CameraZFar)

	r.depthBuffer = raster.NewDepthBuffer(s.Width, s.Height)
	r.rasterizer.SetRenderTarget(r.renderTarget, r.depthBuffer)

	r.ready = true
	r.opts.logger.Infof("initialized %dx%d, %d shapes from %s", s.Width, s.Height, r.model.ShapeCount(), s.ModelPath)
	return nil
}

// Render draws one frame and saves it to the configured result path.
func (r *Renderer) Render() error {
	if !r.ready {
		return ErrNotInitialized
	}
	log := r.opts.logger
	now := r.opts.clock

	matrix := FrameTransform(
		r.camera.ProjectionMatrix(),
		r.camera.ViewMatrix(),
		r.model.WorldMatrix(),
	)
	r.rasterizer.VertexShader = TransformVertex(matrix)
	r.rasterizer.PixelShader = NormalColor

	var stats FrameStats

	start := now()
	bg := r.settings.Background()
	r.rasterizer.ClearRenderTarget(raster.UnsignedColor{R: bg[0], G: bg[1], B: bg[2]})
	stats.ClearTime = now().Sub(start)
	log.Noticef("clear took %s", stats.ClearTime)

	vbs, ibs := r.model.VertexBuffers(), r.model.IndexBuffers()
	if len(vbs) != len(ibs) {
		return fmt.Errorf("%w: %d vertex, %d index", ErrShapeMismatch, len(vbs), len(ibs))
	}

	start = now()
	for i, ib := range ibs {
		r.rasterizer.SetVertexBuffer(vbs[i])
		r.rasterizer.SetIndexBuffer(ib)
		if err := r.rasterizer.Draw(ib.Count(), 0); err != nil {
			return fmt.Errorf("renderer: draw shape %d: %w", i, err)
		}
		stats.Triangles += ib.Count() / 3
	}
	stats.Shapes = len(ibs)
	stats.DrawTime = now().Sub(start)
	log.Noticef("drawing %d shapes took %s", stats.Shapes, stats.DrawTime)

	start = now()
	if err := imagefile.Save(r.settings.ResultPath, raster.ToImage(r.renderTarget)); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	stats.SaveTime = now().Sub(start)
	log.Infof("wrote %s in %s", r.settings.ResultPath, stats.SaveTime)

	r.stats = stats
	return nil
}

// Update advances per-tick state. Nothing animates yet; hosts may call it
// before every Render.
func (r *Renderer) Update() {}

// Destroy releases all resources. Render fails with ErrNotInitialized afterwards.
func (r *Renderer) Destroy() {
	r.release()
}

func (r *Renderer) release() {
	r.rasterizer = nil
	r.renderTarget = nil
	r.depthBuffer = nil
	r.model = nil
	r.camera = nil
	r.ready = false
}

// Ready reports whether Init has completed and Destroy has not been called.
func (r *Renderer) Ready() bool { return r.ready }

// Stats returns timings and counts for the last successful frame.
func (r *Renderer) Stats() FrameStats { return r.stats }

func (r *Renderer) Settings() config.Settings { return r.settings }

func (r *Renderer) RenderTarget() *raster.RenderTarget { return r.renderTarget }
func (r *Renderer) DepthBuffer() *raster.DepthBuffer   { return r.depthBuffer }
func (r *Renderer) Model() *model.Model                { return r.model }
func (r *Renderer) Camera() *camera.Camera             { return r.camera }
