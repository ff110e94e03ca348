package entity

import (
	"fmt"

	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
)

const CameraPrefab = "camera.yaml"

func NewCamera(w *ecs.World, ctx *BuildContext) (ecs.Entity, error) {
	return BuildEntity(w, CameraPrefab, ctx)
}

func NewCameraAt(w *ecs.World, ctx *BuildContext, x, y float64) (ecs.Entity, error) {
	camera, err := NewCamera(w, ctx)
	if err != nil {
		return 0, err
	}
	transform, ok := ecs.Get(w, camera, component.TransformComponent.Kind())
	if !ok {
		transform = &component.Transform{ScaleX: 1, ScaleY: 1}
	}
	transform.X = x
	transform.Y = y
	if err := ecs.Add(w, camera, component.TransformComponent.Kind(), transform); err != nil {
		return 0, fmt.Errorf("camera: override transform: %w", err)
	}
	return camera, nil
}
