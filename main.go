package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/chazu/objview/pkg/export"
	"github.com/chazu/objview/pkg/kernel/sdfx"
	"github.com/chazu/objview/pkg/view"
)

func main() {
	scenePath := flag.String("scene", "", "scene script to evaluate")
	stlPath := flag.String("stl", "", "write the mesh as binary STL to this file")
	asJSON := flag.Bool("json", false, "print the mesh as JSON on stdout")
	cells := flag.Int("cells", sdfx.DefaultMeshCells, "marching cubes resolution for primitives")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: objview [flags] [model.obj]\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	app := NewApp(sdfx.New(sdfx.WithCells(*cells)))

	scene := view.DefaultScene()
	if *scenePath != "" {
		source, err := os.ReadFile(*scenePath)
		if err != nil {
			log.Fatalf("reading scene: %v", err)
		}
		s, errs := app.Scene(string(source))
		if len(errs) > 0 {
			for _, e := range errs {
				log.Printf("%s:%d:%d: %s", *scenePath, e.Line, e.Col, e.Message)
			}
			os.Exit(1)
		}
		scene = s
	}
	if flag.NArg() == 1 {
		scene.MeshPath = flag.Arg(0)
		scene.Primitive = nil
	}

	result := app.Show(scene)
	if len(result.Errors) > 0 {
		log.Fatalf("%s", result.Errors[0].Message)
	}

	cam := scene.Camera
	log.Printf("window %dx%d %q", scene.Window.Width, scene.Window.Height, scene.Window.Title)
	log.Printf("projection %v", cam.Projection(scene.Window.Aspect()))
	log.Printf("view %v", cam.View())
	clock := view.StartClock()
	log.Printf("clear color %v", clock.ClearColorAt(time.Now()))

	if *stlPath != "" {
		if err := export.STL(*stlPath, result.mesh); err != nil {
			log.Fatalf("writing %s: %v", *stlPath, err)
		}
		log.Printf("wrote %s", *stlPath)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatalf("encoding json: %v", err)
		}
	}
}
