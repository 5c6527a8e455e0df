// gnptool builds, inspects and serves gene pool archives.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/Faultbox/genepool/internal/config"
	"github.com/Faultbox/genepool/internal/inspect"
	"github.com/Faultbox/genepool/internal/logger"
	"github.com/Faultbox/genepool/pkg/genepool"
	"github.com/Faultbox/genepool/pkg/rig"
)

// rigLoaders maps rig file extensions to their loaders.
var rigLoaders = map[string]func(string) (*rig.Rig, error){
	".yaml": rig.LoadYAML,
	".yml":  rig.LoadYAML,
	".gltf": rig.OpenGLTF,
	".glb":  rig.OpenGLTF,
}

var spewConfig = &spew.ConfigState{
	Indent:                  "  ",
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	SortKeys:                true,
}

func main() {
	config.ParseFlags()
	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fail(err)
	}
	defer logger.Sync()

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "build":
		cmdBuild(cfg, args)
	case "info":
		cmdInfo(cfg, args)
	case "dump":
		cmdDump(cfg, args)
	case "serve":
		cmdServe(cfg, args)
	case "config":
		cmdConfig(cfg, args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	exts := maps.Keys(rigLoaders)
	slices.Sort(exts)
	fmt.Printf(`gnptool - gene pool archive utility

Usage:
  gnptool [global options] <command> [options]

Global options:
  -config <file>   Config file (.yaml or .toml)
  -mask <list>     Data categories, e.g. neutral_meshes,skin_weights (default all)
  -debug           Debug logging and archive trailer checks
  -log <file>      Log file
  -addr <addr>     Inspect server address

Commands:
  build -o <out.gnp> <archetype> <dna>...   Build a pool from rig files (%s)
  info <file.gnp>                           Show pool information
  dump [-dna N] [-mesh M] [-vertex V] [-joint J] <file.gnp>
                                            Print variant data
  serve <file.gnp>                          Serve the pool as JSON over HTTP
  config [-toml]                            Print the effective configuration

Examples:
  gnptool build -o heads.gnp base.yaml ada.yaml grace.glb
  gnptool -mask neutral_meshes info heads.gnp
  gnptool dump -dna 1 -vertex 42 heads.gnp
  gnptool -addr :8086 serve heads.gnp
`, strings.Join(exts, ", "))
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func loadRig(path string) (*rig.Rig, error) {
	load, ok := rigLoaders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%s: unsupported rig format", path)
	}
	return load(path)
}

func openPool(cfg *config.Config, path string) *genepool.GenePool {
	mask, err := cfg.Mask()
	if err != nil {
		fail(err)
	}
	opts := append(cfg.PoolOptions(), genepool.WithLogger(logger.Named("pool")))
	g, err := genepool.Open(path, mask, opts...)
	if err != nil {
		fail(fmt.Errorf("loading %s: %w", path, err))
	}
	return g
}

func cmdBuild(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	output := fs.String("o", "", "Output archive")
	fs.Parse(args)

	if *output == "" || fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: gnptool build -o <out.gnp> <archetype> <dna>...")
		os.Exit(1)
	}
	mask, err := cfg.Mask()
	if err != nil {
		fail(err)
	}

	archetype, err := loadRig(fs.Arg(0))
	if err != nil {
		fail(err)
	}
	var dnas []genepool.RigSource
	for _, path := range fs.Args()[1:] {
		r, err := loadRig(path)
		if err != nil {
			fail(err)
		}
		dnas = append(dnas, r)
	}

	log := logger.Named("pool")
	g, err := genepool.New(archetype, dnas, mask, genepool.WithLogger(log))
	if err != nil {
		fail(err)
	}
	if err := g.Save(*output, genepool.All, genepool.WithLogger(log)); err != nil {
		fail(fmt.Errorf("writing %s: %w", *output, err))
	}

	fmt.Printf("Wrote %s: %d DNAs, %d meshes, %d joints (%s)\n",
		*output, g.DNACount(), g.MeshCount(), g.JointCount(), g.Mask())
}

func cmdInfo(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gnptool info <file.gnp>")
		os.Exit(1)
	}

	g := openPool(cfg, args[0])
	md := g.MetaData()

	fmt.Printf("Archive:    %s\n", args[0])
	fmt.Printf("Database:   %s (complexity %s, max LOD %d)\n", md.DBName, md.DBComplexity, md.DBMaxLOD)
	fmt.Printf("Sections:   %s\n", g.Mask())
	fmt.Printf("Meshes:     %d\n", g.MeshCount())
	for m := 0; m < g.MeshCount(); m++ {
		fmt.Printf("  mesh %-3d %d vertices, %d blend shapes\n", m, g.VertexCount(m), g.BlendShapeTargetCount(m))
	}
	fmt.Printf("Joints:     %d\n", g.JointCount())
	fmt.Printf("Groups:     %d\n", g.JointGroupCount())
	fmt.Printf("DNAs:       %d\n", g.DNACount())
	for i, d := range md.DNAs {
		fmt.Printf("  %-3d %-20s gender %d, age %d\n", i, d.Name, d.Gender, d.Age)
	}
}

// vertexDump and jointDump are the values printed by the dump command.
type vertexDump struct {
	DNA      string
	Mesh     int
	Vertex   int
	Position [3]float32
	Joints   []uint16
	Weights  []float32
}

type jointDump struct {
	DNA         string
	Joint       string
	Translation [3]float32
	Rotation    [3]float32
}

func cmdDump(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	dna := fs.Int("dna", 0, "Variant index")
	mesh := fs.Int("mesh", 0, "Mesh index")
	vertex := fs.Int("vertex", -1, "Vertex index (-1 = none)")
	joint := fs.Int("joint", -1, "Joint index (-1 = none)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gnptool dump [-dna N] [-mesh M] [-vertex V] [-joint J] <file.gnp>")
		os.Exit(1)
	}

	g := openPool(cfg, fs.Arg(0))
	if *dna < 0 || *dna >= g.DNACount() {
		fail(fmt.Errorf("dna %d out of range (%d DNAs)", *dna, g.DNACount()))
	}
	name := g.DNA(*dna).Name

	if *vertex < 0 && *joint < 0 {
		spewConfig.Dump(g.DNA(*dna))
		return
	}
	if *vertex >= 0 {
		joints, weights := g.SkinWeights(*dna, *mesh, *vertex)
		spewConfig.Dump(vertexDump{
			DNA:      name,
			Mesh:     *mesh,
			Vertex:   *vertex,
			Position: g.VertexPosition(*dna, *mesh, *vertex).Array(),
			Joints:   joints,
			Weights:  weights,
		})
	}
	if *joint >= 0 {
		spewConfig.Dump(jointDump{
			DNA:         name,
			Joint:       g.JointName(*joint),
			Translation: g.JointTranslation(*dna, *joint).Array(),
			Rotation:    g.JointRotation(*dna, *joint).Array(),
		})
	}
}

func cmdServe(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gnptool serve <file.gnp>")
		os.Exit(1)
	}

	g := openPool(cfg, args[0])
	srv := inspect.New(g, logger.Named("inspect"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("Serving gene pool", zap.String("file", args[0]), zap.String("addr", cfg.Server.Addr))
	if err := srv.ListenAndServe(ctx, cfg.Server.Addr, time.Duration(cfg.Server.ReadTimeout)); err != nil {
		fail(err)
	}
}

func cmdConfig(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	asTOML := fs.Bool("toml", false, "Print TOML instead of YAML")
	fs.Parse(args)

	data, err := cfg.Encode(*asTOML)
	if err != nil {
		fail(err)
	}
	os.Stdout.Write(data)
}
