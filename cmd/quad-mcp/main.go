package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ironsheep/quad-finder-mcp/internal/config"
	"github.com/ironsheep/quad-finder-mcp/internal/imaging"
	"github.com/ironsheep/quad-finder-mcp/internal/logger"
	"github.com/ironsheep/quad-finder-mcp/internal/pipeline"
	"github.com/ironsheep/quad-finder-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("%s %s\n", server.Name, Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		}
	}

	// A missing .env is normal; the environment and defaults still apply.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Logging goes to stderr (stdout is for MCP protocol)
	log, closer, err := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	if len(os.Args) > 1 && os.Args[1] == "scan" {
		if err := runScan(cfg, log, os.Args[2:]); err != nil {
			log.Error().Err(err).Msg("scan failed")
			closer.Close()
			os.Exit(1)
		}
		return
	}

	log.Info().Str("version", Version).Str("commit", GitCommit).Msg("starting MCP server")

	srv := server.New(cfg, log)
	if err := srv.Run(); err != nil {
		log.Error().Err(err).Msg("server error")
		closer.Close()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("%s - MCP server for quadrilateral marker detection\n", server.Name)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  quad-mcp                         Serve MCP over stdin/stdout")
	fmt.Println("  quad-mcp scan [--out DIR] IMAGE...  Detect candidates and print JSON")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from .env):")
	fmt.Printf("  %-28s Sobel magnitude threshold (default %d)\n", config.EnvGradientThreshold, pipeline.DefaultGradientThreshold)
	fmt.Printf("  %-28s Minimum component pixels\n", config.EnvMinPixelCount)
	fmt.Printf("  %-28s Maximum bounding box share of frame\n", config.EnvMaxBoxAreaFraction)
	fmt.Printf("  %-28s Minimum fill ratio\n", config.EnvMinFillRatio)
	fmt.Printf("  %-28s Polygon tolerance as share of perimeter\n", config.EnvEpsilonFraction)
	fmt.Printf("  %-28s Gaussian pre-blur radius\n", config.EnvBlurRadius)
	fmt.Printf("  %-28s trace, debug, info, warn or error\n", config.EnvLogLevel)
	fmt.Printf("  %-28s Also log to this rotated file\n", config.EnvLogFile)
	fmt.Println()
	fmt.Println("Configure the server in your MCP client (e.g., Claude Desktop).")
}

type scanReport struct {
	Path       string               `json:"path"`
	Width      int                  `json:"width"`
	Height     int                  `json:"height"`
	Components int                  `json:"components"`
	Quads      int                  `json:"quads"`
	Candidates []pipeline.Candidate `json:"candidates"`
	Overlay    string               `json:"overlay,omitempty"`
}

// runScan processes each image once and prints one JSON report per line.
// Images of the same size share a pipeline.
func runScan(cfg *config.Config, log zerolog.Logger, args []string) error {
	fset := flag.NewFlagSet("scan", flag.ContinueOnError)
	outDir := fset.String("out", "", "directory for overlay PNGs")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if fset.NArg() == 0 {
		return fmt.Errorf("scan needs at least one image path")
	}

	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	cache := imaging.NewImageCache()
	pipelines := make(map[pipeline.Options]*pipeline.Pipeline)
	var stats pipeline.RunStats
	enc := json.NewEncoder(os.Stdout)

	for _, path := range fset.Args() {
		src, err := cache.Load(path)
		if err != nil {
			return err
		}
		gray, err := cache.LoadGray(path, cfg.BlurRadius)
		if err != nil {
			return err
		}

		opts := cfg.PipelineOptions(gray.Rect.Dx(), gray.Rect.Dy())
		p, ok := pipelines[opts]
		if !ok {
			if p, err = pipeline.New(opts, log); err != nil {
				return err
			}
			pipelines[opts] = p
		}

		result, err := p.Process(gray)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		stats.Observe(result)

		report := scanReport{
			Path:       path,
			Width:      result.Width,
			Height:     result.Height,
			Components: result.ComponentCount(),
			Quads:      result.QuadCount(),
			Candidates: result.Candidates,
		}

		if *outDir != "" {
			canvas, err := imaging.RenderOverlay(src, result, imaging.DefaultOverlayOptions())
			if err != nil {
				return err
			}
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + "-quads.png"
			report.Overlay = filepath.Join(*outDir, name)
			if err := imgio.Save(report.Overlay, canvas, imgio.PNGEncoder()); err != nil {
				return fmt.Errorf("failed to save overlay: %w", err)
			}
		}

		if err := enc.Encode(report); err != nil {
			return err
		}
		cache.Evict(path)
	}

	log.Info().
		Int("frames", stats.Frames).
		Int("candidates", stats.Candidates).
		Int("quads", stats.Quads).
		Msg("scan complete")
	return nil
}
