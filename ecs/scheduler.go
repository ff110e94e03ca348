package ecs

import "github.com/hajimehoshi/ebiten/v2"

// System updates a world each tick.
type System interface {
	Update(w *World)
}

// Drawer renders a world each frame.
type Drawer interface {
	Draw(w *World, screen *ebiten.Image)
}

// Scheduler runs systems and drawers in registration order.
type Scheduler struct {
	systems []System
	drawers []Drawer
}

// NewScheduler runs systems in the given order. Nil systems are skipped.
func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		if system != nil {
			s.systems = append(s.systems, system)
		}
	}
	return s
}

func (s *Scheduler) AddDrawer(drawer Drawer) {
	if drawer == nil {
		return
	}
	s.drawers = append(s.drawers, drawer)
}

func (s *Scheduler) Update(w *World) {
	for _, system := range s.systems {
		system.Update(w)
	}
}

func (s *Scheduler) Draw(w *World, screen *ebiten.Image) {
	if screen == nil {
		return
	}
	for _, drawer := range s.drawers {
		drawer.Draw(w, screen)
	}
}
