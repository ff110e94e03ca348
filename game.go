package main

import (
	"fmt"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/topdown/config"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/ecs/entity"
	"github.com/milk9111/topdown/ecs/render"
	"github.com/milk9111/topdown/ecs/system"
	"github.com/milk9111/topdown/levels"
	"github.com/milk9111/topdown/prefabs"
	"go.uber.org/zap"
)

type gamePhase int

const (
	phaseLoading gamePhase = iota
	phaseInitialized
	phaseRunning
)

func (p gamePhase) String() string {
	switch p {
	case phaseLoading:
		return "loading"
	case phaseInitialized:
		return "initialized"
	case phaseRunning:
		return "running"
	}
	return fmt.Sprintf("gamePhase(%d)", int(p))
}

// gameOptions swaps out the pieces that touch the real device.
type gameOptions struct {
	loader  render.Loader
	keys    system.KeyPoller
	gamepad system.GamepadPoller
}

type Game struct {
	cfg   *config.Config
	log   *zap.SugaredLogger
	opts  gameOptions
	phase gamePhase

	registry *render.Registry
	ctx      *entity.BuildContext
	level    *levels.Map

	world     *ecs.World
	scheduler *ecs.Scheduler
	camera    *system.CameraSystem
	physics   *system.PhysicsSystem
	player    ecs.Entity

	watcher *prefabs.Watcher
	help    *HelpUI

	screenW int
	screenH int
}

func NewGame(cfg *config.Config, log *zap.SugaredLogger) *Game {
	return newGame(cfg, log, gameOptions{})
}

func newGame(cfg *config.Config, log *zap.SugaredLogger, opts gameOptions) *Game {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Game{
		cfg:     cfg,
		log:     log,
		opts:    opts,
		phase:   phaseLoading,
		screenW: cfg.Window.Width,
		screenH: cfg.Window.Height,
	}
}

func (g *Game) Update() error {
	switch g.phase {
	case phaseLoading:
		if err := g.preload(); err != nil {
			return fmt.Errorf("preload: %w", err)
		}
		g.setPhase(phaseInitialized)
	case phaseInitialized:
		if err := g.create(); err != nil {
			return fmt.Errorf("create: %w", err)
		}
		g.setPhase(phaseRunning)
	case phaseRunning:
		g.reloadChangedPrefabs()
		g.scheduler.Update(g.world)
		g.help.Update()
	}
	return nil
}

func (g *Game) setPhase(p gamePhase) {
	g.log.Debugw("scene phase", "from", g.phase, "to", p)
	g.phase = p
}

// preload decodes the atlas, the tile map and its tileset images.
func (g *Game) preload() error {
	g.registry = render.NewRegistry(g.opts.loader)
	g.ctx = &entity.BuildContext{PrefabDir: g.cfg.Prefabs.Dir, Registry: g.registry}

	if _, err := g.registry.Atlas(g.cfg.Scene.Atlas); err != nil {
		return err
	}

	m, err := levels.Load(g.cfg.Scene.Map)
	if err != nil {
		return err
	}
	for _, ts := range m.Tilesets {
		if _, err := g.registry.Image(ts.Image); err != nil {
			return fmt.Errorf("tileset %q: %w", ts.Name, err)
		}
	}
	g.level = m
	g.log.Infow("level loaded",
		"map", g.cfg.Scene.Map,
		"width", m.WidthInPixels(),
		"height", m.HeightInPixels(),
		"layers", len(m.Layers),
	)
	return nil
}

// create builds the world: map tiles and colliders, the player at the spawn
// point, the camera and the debug overlay, then wires the systems.
func (g *Game) create() error {
	g.world = ecs.NewWorld()

	if err := entity.LoadMapToWorld(g.world, g.level, g.registry); err != nil {
		return err
	}

	spawnX, spawnY, err := entity.SpawnPoint(g.level)
	if err != nil {
		return err
	}
	g.player, err = entity.NewPlayerAt(g.world, g.ctx, spawnX, spawnY)
	if err != nil {
		return err
	}

	cameraEntity, err := entity.NewCamera(g.world, g.ctx)
	if err != nil {
		return err
	}
	if cam, ok := ecs.Get(g.world, cameraEntity, component.CameraComponent); ok && g.cfg.Scene.Zoom > 0 {
		cam.Zoom = g.cfg.Scene.Zoom
	}

	if _, err := entity.NewDebugOverlay(g.world, entity.DebugColors{
		CollidingTile: g.cfg.Debug.CollidingTileColor.NRGBA,
		Face:          g.cfg.Debug.FaceColor.NRGBA,
		Alpha:         g.cfg.Debug.Alpha,
	}, g.cfg.Scene.ShowDebug); err != nil {
		return err
	}

	input := system.NewInputSystem()
	if g.opts.keys != nil {
		input = system.NewInputSystemWith(g.opts.keys, g.opts.gamepad)
	}
	g.physics = system.NewPhysicsSystem()
	g.camera = system.NewCameraSystem(float64(g.screenW), float64(g.screenH))

	g.scheduler = ecs.NewScheduler(
		input,
		system.NewPlayerControllerSystem(),
		g.physics,
		system.NewAnimationSystem(),
		g.camera,
	)
	// Bodies exist before the first tick so the controller can drive them.
	g.physics.Sync(g.world)

	g.scheduler.AddDrawer(system.NewRenderSystem())
	g.scheduler.AddDrawer(system.NewCollisionDebugSystem(g.physics))

	if g.cfg.Scene.ShowHelp {
		g.help, err = NewHelpUI(helpText)
		if err != nil {
			return fmt.Errorf("help overlay: %w", err)
		}
	}

	if g.cfg.Prefabs.Watch {
		w, err := prefabs.NewWatcher(g.cfg.Prefabs.Dir)
		if err != nil {
			g.log.Warnw("prefab watcher disabled", "dir", g.cfg.Prefabs.Dir, "error", err)
		} else {
			g.watcher = w
			g.log.Infow("watching prefabs", "dir", g.cfg.Prefabs.Dir)
		}
	}

	g.log.Infow("scene created", "entities", len(g.world.Entities()), "spawn_x", spawnX, "spawn_y", spawnY)
	return nil
}

func (g *Game) reloadChangedPrefabs() {
	if g.watcher == nil {
		return
	}
	for _, path := range g.watcher.Drain() {
		g.reloadPrefab(path)
	}
	select {
	case err, ok := <-g.watcher.Errors:
		if ok && err != nil {
			g.log.Warnw("prefab watcher", "error", err)
		}
	default:
	}
}

// reloadPrefab applies a changed prefab file to the running scene. Only the
// player tuning is live; other prefabs take effect on the next start.
func (g *Game) reloadPrefab(path string) {
	name := filepath.Base(path)
	if name != entity.PlayerPrefab {
		g.log.Debugw("prefab changed, not live-reloadable", "file", name)
		return
	}
	spec, err := prefabs.LoadEntityBuildSpecFrom(g.cfg.Prefabs.Dir, name)
	if err != nil {
		g.log.Warnw("prefab reload failed", "file", name, "error", err)
		return
	}
	if err := entity.ReloadPlayerTuning(g.world, g.player, spec, g.ctx); err != nil {
		g.log.Warnw("prefab reload failed", "file", name, "error", err)
		return
	}
	g.log.Infow("player tuning reloaded", "file", name)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.Scene.Background.NRGBA)
	if g.phase != phaseRunning {
		return
	}
	g.scheduler.Draw(g.world, screen)
	g.help.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.cfg.Window.Width, g.cfg.Window.Height
	if g.cfg.Window.Resizable && outsideWidth > 0 && outsideHeight > 0 {
		w, h = outsideWidth, outsideHeight
	}
	if w != g.screenW || h != g.screenH {
		g.screenW, g.screenH = w, h
		if g.camera != nil {
			g.camera.SetViewport(float64(w), float64(h))
		}
	}
	return w, h
}

// Close stops the prefab watcher.
func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}
