package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/boardkit/gridboard/internal/api"
	"github.com/boardkit/gridboard/pkg/board/view"
	"github.com/boardkit/gridboard/pkg/observability"
)

// serveConfig holds server settings sourced from the environment. Flags
// override any value set here; camera fields fall back to the view package
// defaults when unset.
type serveConfig struct {
	Addr             string  `env:"GRIDBOARD_ADDR" envDefault:":8080"`
	FOVDegrees       float64 `env:"GRIDBOARD_FOV_DEGREES"`
	CameraDistance   float64 `env:"GRIDBOARD_CAMERA_DISTANCE"`
	ViewportWidthPx  float64 `env:"GRIDBOARD_VIEWPORT_WIDTH" envDefault:"1280"`
	ViewportHeightPx float64 `env:"GRIDBOARD_VIEWPORT_HEIGHT" envDefault:"800"`
}

// serveCommand creates the serve command exposing a board over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var manifest, name, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a board over an HTTP JSON API",
		Long: `Serve exposes one board over HTTP: read it as JSON, add, restyle, move
and remove panels, and adjust the grid spacing. Pixel quantities in
requests are converted to world units with the configured camera.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServeConfig(addr)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), manifest, name, cfg)
		},
	}

	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", "manifest to preload the board from")
	cmd.Flags().StringVar(&name, "name", "", "override the board name from the manifest")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides GRIDBOARD_ADDR)")

	return cmd
}

// loadServeConfig parses the environment and applies flag overrides.
func loadServeConfig(addr string) (serveConfig, error) {
	var cfg serveConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.FOVDegrees == 0 {
		cfg.FOVDegrees = view.DefaultFOVDegrees
	}
	if cfg.CameraDistance == 0 {
		cfg.CameraDistance = view.DefaultDistance
	}
	if addr != "" {
		cfg.Addr = addr
	}
	return cfg, nil
}

// mapper builds the pixel-to-world projection for the configured camera.
func (cfg serveConfig) mapper() view.Mapper {
	camera := view.Camera{
		FOVDegrees:       cfg.FOVDegrees,
		ViewportHeightPx: cfg.ViewportHeightPx,
		Distance:         cfg.CameraDistance,
	}
	return view.NewMapper(camera, cfg.ViewportWidthPx)
}

func (c *CLI) runServe(ctx context.Context, manifest, name string, cfg serveConfig) error {
	mgr, err := newBoard(c.Logger, manifest, name)
	if err != nil {
		return err
	}

	// The server is the long-running host, so it owns the hook registry.
	observability.SetLayoutHooks(layoutLogHooks{logger: c.Logger})
	defer observability.Reset()

	srv := api.NewServer(mgr,
		api.WithAddr(cfg.Addr),
		api.WithLogger(c.Logger),
		api.WithMapper(cfg.mapper()),
	)

	printInfo("Serving board %q on %s", mgr.Name(), cfg.Addr)
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleLink.Render(serveURL(cfg.Addr)+"/api/board"))
	c.Logger.Info("starting server", "addr", cfg.Addr, "board", mgr.Name())

	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}
	printSuccess("Server stopped")
	return nil
}

// serveURL renders a browsable URL for the listen address, expanding a bare
// ":port" to localhost.
func serveURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// layoutLogHooks forwards layout pass events to the CLI logger at debug
// level, one line per completed pass plus one per conflict.
type layoutLogHooks struct {
	observability.NoopLayoutHooks
	logger *log.Logger
}

func (h layoutLogHooks) OnLayoutComplete(_ context.Context, panelCount, rows, conflicts int, duration time.Duration, err error) {
	if err != nil {
		h.logger.Error("layout pass failed", "panels", panelCount, "error", err)
		return
	}
	h.logger.Debug("layout pass", "panels", panelCount, "rows", rows, "conflicts", conflicts, "duration", duration)
}

func (h layoutLogHooks) OnConflict(_ context.Context, panelID, ownerID, gridX, gridY int) {
	h.logger.Debug("panel dropped", "panel", panelID, "owner", ownerID, "slot", fmt.Sprintf("(%d, %d)", gridX, gridY))
}
