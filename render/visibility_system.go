package render

import (
	"errors"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/sightline/ecs"
	"go.uber.org/zap"
)

// CameraSource records which camera the last frame was computed for.
type CameraSource uint8

const (
	CameraNone CameraSource = iota
	// CameraActive is the entity named by the ActiveCamera singleton.
	CameraActive
	// CameraFirst is the lowest-id entity with a Camera and a GlobalTransform.
	CameraFirst
	// CameraDefault is StandardCamera2D at the origin.
	CameraDefault
)

func (c CameraSource) String() string {
	switch c {
	case CameraActive:
		return "active"
	case CameraFirst:
		return "first"
	case CameraDefault:
		return "default"
	default:
		return "none"
	}
}

// VisibilityStats describes the most recent frame plus running totals.
type VisibilityStats struct {
	Frames        uint64
	SkippedFrames uint64

	Candidates  int
	Culled      int
	Opaque      int
	Transparent int

	CameraSource CameraSource
	// Camera is zero when CameraSource is CameraDefault.
	Camera ecs.EntityId
}

type cameraView struct {
	ecs.EntityId
	*Camera
	*GlobalTransform
}

type candidateView struct {
	ecs.EntityId
	*GlobalTransform
	Sphere          *BoundingSphere  `ecs:"optional"`
	Transparent     *Transparent     `ecs:"optional"`
	Hidden          *Hidden          `ecs:"without"`
	HiddenPropagate *HiddenPropagate `ecs:"without"`
}

// internals is the per-entity scratch record of one frame.
type internals struct {
	entity      ecs.EntityId
	transparent bool
	centroid    mgl32.Vec3
	// squared distance to the camera
	cameraDistance float32
}

type selectedCamera struct {
	source    CameraSource
	entity    ecs.EntityId
	camera    Camera
	transform GlobalTransform
}

// VisibilitySortingSystem culls entities against the camera frustum and
// writes the Visibility singleton. Register it after every system that moves
// entities or cameras and before anything that draws.
type VisibilitySortingSystem struct {
	Cameras    ecs.Query[cameraView]
	Candidates ecs.Query[candidateView]

	ActiveCamera ecs.Singleton[ActiveCamera]
	Visibility   ecs.Singleton[Visibility]

	Logger *zap.Logger

	centroids   []internals
	transparent []internals

	stats   VisibilityStats
	lastErr error
}

// NewVisibilitySortingSystem creates the system. A nil logger discards diagnostics.
func NewVisibilitySortingSystem(logger *zap.Logger) *VisibilitySortingSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VisibilitySortingSystem{
		Logger:      logger,
		centroids:   make([]internals, 0, 256),
		transparent: make([]internals, 0, 64),
	}
}

// Stats returns a copy of the counters.
func (s *VisibilitySortingSystem) Stats() VisibilityStats {
	return s.stats
}

// LastError returns the error of the most recent frame, or nil if it succeeded.
func (s *VisibilitySortingSystem) LastError() error {
	return s.lastErr
}

func (s *VisibilitySortingSystem) Execute(frame *ecs.UpdateFrame) {
	s.stats.Frames++
	s.centroids = s.centroids[:0]
	s.transparent = s.transparent[:0]

	cam := s.selectCamera()
	s.stats.CameraSource = cam.source
	s.stats.Camera = cam.entity

	frustum, err := FrustumFromCamera(cam.camera.Projection, cam.transform.Matrix)
	if err != nil {
		s.skip(frame, cam, err)
		return
	}
	s.lastErr = nil

	origin := cam.transform.Position()

	s.stats.Candidates = 0
	s.stats.Culled = 0
	for _, c := range s.Candidates.Iter() {
		s.stats.Candidates++

		sphere := DefaultBoundingSphere()
		if c.Sphere != nil {
			sphere = *c.Sphere
		}

		centroid := c.GlobalTransform.TransformPoint(sphere.Center)
		radius := sphere.Radius * c.GlobalTransform.MaxScale()
		if !frustum.CheckSphere(centroid, radius) {
			s.stats.Culled++
			continue
		}

		s.centroids = append(s.centroids, internals{
			entity:         c.EntityId,
			transparent:    c.Transparent != nil,
			centroid:       centroid,
			cameraDistance: centroid.Sub(origin).LenSqr(),
		})
	}

	for _, item := range s.centroids {
		if item.transparent {
			s.transparent = append(s.transparent, item)
		}
	}
	slices.SortStableFunc(s.transparent, backToFront)

	vis := s.visibility(frame.Storage)
	vis.reset()
	for _, item := range s.centroids {
		if !item.transparent {
			vis.VisibleUnordered.Add(item.entity)
		}
	}
	for _, item := range s.transparent {
		vis.VisibleOrdered = append(vis.VisibleOrdered, item.entity)
	}

	s.stats.Transparent = len(s.transparent)
	s.stats.Opaque = len(s.centroids) - len(s.transparent)
}

// backToFront orders by descending distance. NaN compares equal to everything,
// so the stable sort keeps such entries in scan order.
func backToFront(a, b internals) int {
	switch {
	case a.cameraDistance > b.cameraDistance:
		return -1
	case a.cameraDistance < b.cameraDistance:
		return 1
	default:
		return 0
	}
}

func (s *VisibilitySortingSystem) skip(frame *ecs.UpdateFrame, cam selectedCamera, err error) {
	s.stats.SkippedFrames++
	s.lastErr = err

	fields := []zap.Field{
		zap.Uint64("frame", frame.Index),
		zap.Stringer("camera_source", cam.source),
		zap.Error(err),
	}
	if cam.entity != 0 {
		fields = append(fields, zap.Uint64("camera", uint64(cam.entity)))
	}
	if errors.Is(err, ErrSingularTransform) {
		s.Logger.Warn("visibility skipped: camera transform not invertible", fields...)
		return
	}
	s.Logger.Warn("visibility skipped", fields...)
}

func (s *VisibilitySortingSystem) visibility(storage *ecs.Storage) *Visibility {
	if vis := s.Visibility.Get(); vis != nil {
		return vis
	}
	return ecs.NewSingleton(storage, NewVisibility()).Get()
}

// selectCamera walks the fallback chain and returns the first camera found.
func (s *VisibilitySortingSystem) selectCamera() selectedCamera {
	chain := []func() (selectedCamera, bool){
		s.activeCamera,
		s.firstCamera,
	}
	for _, link := range chain {
		if cam, ok := link(); ok {
			return cam
		}
	}
	return selectedCamera{
		source:    CameraDefault,
		camera:    StandardCamera2D(),
		transform: IdentityTransform(),
	}
}

func (s *VisibilitySortingSystem) activeCamera() (selectedCamera, bool) {
	active := s.ActiveCamera.Get()
	if active == nil || active.Entity == nil {
		return selectedCamera{}, false
	}
	view := s.Cameras.GetRef(active.Entity)
	if view == nil {
		return selectedCamera{}, false
	}
	return selectedCamera{
		source:    CameraActive,
		entity:    view.EntityId,
		camera:    *view.Camera,
		transform: *view.GlobalTransform,
	}, true
}

func (s *VisibilitySortingSystem) firstCamera() (selectedCamera, bool) {
	for _, view := range s.Cameras.Iter() {
		return selectedCamera{
			source:    CameraFirst,
			entity:    view.EntityId,
			camera:    *view.Camera,
			transform: *view.GlobalTransform,
		}, true
	}
	return selectedCamera{}, false
}
