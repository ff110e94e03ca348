package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/topdown/config"
	"github.com/milk9111/topdown/logging"
)

func main() {
	os.Exit(run(os.Args[1:], ebiten.RunGame))
}

// run starts the game and returns the process exit code. Cleanup is deferred
// here so it still happens when the game stops with an error.
func run(args []string, runGame func(ebiten.Game) error) int {
	fs := flag.NewFlagSet("topdown", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	mapName := fs.String("map", "", "map name in levels/ (basename, .json optional)")
	debug := fs.Bool("debug", false, "show collision debug overlay at start")
	watch := fs.Bool("watch", false, "hot reload prefabs from the prefab directory")
	baseMonitor := fs.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	logLevel := fs.String("log-level", "", "log level (debug, info, warn, error)")
	logFile := fs.String("log-file", "", "also write logs to this rotating file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	cfg.Apply(overridesFromFlags(set, *mapName, *debug, *watch, *logLevel, *logFile))
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log, closeLog, err := logging.New(cfg.Logging, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeLog()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)

	game := NewGame(cfg, log)
	defer game.Close()

	log.Infow("starting", "map", cfg.Scene.Map, "debug", cfg.Scene.ShowDebug, "watch", cfg.Prefabs.Watch)
	if err := runGame(game); err != nil {
		log.Errorw("game stopped", "error", err)
		return 1
	}
	return 0
}

// overridesFromFlags keeps only the flags given on the command line so they
// do not reset values from the config file.
func overridesFromFlags(set map[string]bool, mapName string, debug, watch bool, logLevel, logFile string) config.Overrides {
	var o config.Overrides
	if set["map"] {
		o.Map = &mapName
	}
	if set["debug"] {
		o.ShowDebug = &debug
	}
	if set["watch"] {
		o.Watch = &watch
	}
	if set["log-level"] {
		o.LogLevel = &logLevel
	}
	if set["log-file"] {
		o.LogFile = &logFile
	}
	return o
}
