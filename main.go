/*
Citadel is a frame-pipelining teaching demo: the CPU records frames
ahead of the GPU through a ring of frame resources, gated only by
fences. Two demo scenes exercise the two constant-binding strategies.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/citadelgfx/citadel/engine"
	"github.com/citadelgfx/citadel/testbed/crate"
	"github.com/citadelgfx/citadel/testbed/shapes"
)

func main() {
	demo := flag.String("demo", "shapes", "demo scene to run: shapes or crate")
	device := flag.String("device", "", "device backend: null or vulkan (overrides config)")
	configPath := flag.String("config", "", "path to an application config TOML")
	flag.Parse()

	config := &engine.ApplicationConfig{Name: "Citadel Testbed"}
	if *configPath != "" {
		loaded, err := engine.LoadApplicationConfig(*configPath)
		if err != nil {
			panic(err)
		}
		config = loaded
	}
	if *device != "" {
		config.Device = *device
	}

	var game *engine.Game
	switch *demo {
	case "crate":
		game = crate.NewGame(config)
	default:
		game = shapes.NewGame(config)
	}

	e, err := engine.New(game)
	if err != nil {
		panic(err)
	}

	if err := e.Initialize(); err != nil {
		panic(err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		<-sigCh
		e.Stop()
	}()

	// run engine
	if err := e.Run(); err != nil {
		panic(err)
	}

	if err := e.Shutdown(); err != nil {
		panic(err)
	}
}
