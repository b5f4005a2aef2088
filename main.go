// Command mars-rovers drives a rover across a wrapping grid with obstacles.
//
// It supports these modes:
//  1. "run" – reads an instruction string (argument or prompt), prints the final
//     status and draws the rover's path to a PNG when the config asks for it
//  2. "serve" – runs the HTTP server exposing REST API, WebSocket, and an /mcp endpoint
//  3. "mcp" – runs an MCP stdio server backed by an in-process simulation service
//  4. "validate" – checks every configuration file in the config directory
//  5. "configs" – lists the available configurations
//
// Flags control host/port, config directory, debug logging and optional ngrok
// tunneling for external access during development.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/mars-rovers/api"
	"github.com/wricardo/mars-rovers/game/config"
	"github.com/wricardo/mars-rovers/game/rover"
	"github.com/wricardo/mars-rovers/game/service"
	"github.com/wricardo/mars-rovers/game/session"
	"github.com/wricardo/mars-rovers/game/simulation"
	"github.com/wricardo/mars-rovers/render"
	"github.com/wricardo/mars-rovers/transport/mcp"
	"github.com/wricardo/mars-rovers/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Mars Rovers"
)

const (
	instructionsPrompt = "Write the instructions for rovers e.g MMRMMLM:  "
	sessionRetention   = 24 * time.Hour
	cleanupInterval    = time.Hour
)

var errNoInstructions = errors.New("Error: You have to enter the instructions so Mars Rovers can move!")

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp builds the command tree
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "mars-rovers",
		Usage:   "simulate a rover on a wrapping grid with obstacles",
		Version: Version,

		// --obstacle takes "x,y" pairs
		DisableSliceFlagSeparator: true,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing grid configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
		},
		DefaultCommand: "run",
		Commands: []*cli.Command{
			runCommand(),
			serveCommand(),
			mcpCommand(),
			validateCommand(),
			configsCommand(),
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "execute an instruction string and print the final position",
		ArgsUsage: "[instructions]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "config name to load from the config directory (defaults to the built-in grid)",
			},
			&cli.StringFlag{
				Name:  "out",
				Value: "rovers_path.png",
				Usage: "where to write the path image when the config enables draw_path",
			},
			&cli.StringSliceFlag{
				Name:  "obstacle",
				Usage: "extra obstacle cell as x,y (repeatable)",
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "random seed for obstacle placement (0 picks one)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger, err := newLogger(cmd.Bool("debug"), zapcore.WarnLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := runConfig(cmd)
			if err != nil {
				return err
			}

			instructions := cmd.Args().First()
			if instructions == "" {
				instructions, err = promptInstructions(cmd.Root().Reader, cmd.Root().Writer)
				if err != nil {
					return err
				}
			}
			if instructions == "" {
				return errNoInstructions
			}

			return runSimulation(cmd.Root().Writer, cfg, instructions, cmd.String("out"), logger)
		},
	}
}

// runConfig resolves the simulation config for the run command
func runConfig(cmd *cli.Command) (*config.SimConfig, error) {
	cfg := config.Default()
	if name := cmd.String("config"); name != "" {
		manager, err := config.NewManager(cmd.String("config-dir"))
		if err != nil {
			return nil, err
		}
		loaded, err := manager.LoadConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = loaded.Clone()
	}

	for _, raw := range cmd.StringSlice("obstacle") {
		p, err := parsePosition(raw)
		if err != nil {
			return nil, err
		}
		cfg.CustomObstacles = append(cfg.CustomObstacles, p)
	}
	if seed := int64(cmd.Int("seed")); seed != 0 {
		cfg.Seed = seed
	}
	return cfg, nil
}

// promptInstructions asks for an instruction line on r
func promptInstructions(r io.Reader, w io.Writer) (string, error) {
	fmt.Fprint(w, instructionsPrompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.Wrap(err, "failed to read instructions")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// runSimulation executes instructions and reports the outcome on w
func runSimulation(w io.Writer, cfg *config.SimConfig, instructions, out string, logger *zap.SugaredLogger) error {
	sim, err := simulation.New(cfg, nil)
	if err != nil {
		return err
	}

	report, err := sim.Run(instructions)
	if err != nil {
		return err
	}
	logger.Debugw("run finished", "status", report.Status, "executed", report.Executed, "obstacles", len(report.Obstacles))

	if report.Halted && report.BlockedAt != nil {
		fmt.Fprintf(w, "Sorry captain, I have found an obstacle at position %s\n", report.BlockedAt)
	}
	fmt.Fprintf(w, "The final position is: %s\n", report.Status)

	if cfg.DrawPath && out != "" {
		if err := render.SavePNG(out, report, render.DefaultOptions()); err != nil {
			return err
		}
		fmt.Fprintf(w, "Path drawn to %s\n", out)
	}
	return nil
}

// parsePosition reads an "x,y" pair
func parsePosition(raw string) (rover.Position, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return rover.Position{}, errors.Errorf("invalid obstacle %q, expected x,y", raw)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return rover.Position{}, errors.Wrapf(err, "invalid obstacle %q", raw)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return rover.Position{}, errors.Wrapf(err, "invalid obstacle %q", raw)
	}
	return rover.Position{X: x, Y: y}, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP server with REST API, WebSocket, and MCP endpoint",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger, err := newLogger(cmd.Bool("debug"), zapcore.InfoLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			sessions, svc, err := initializeServices(cmd.String("config-dir"), logger)
			if err != nil {
				return errors.Wrap(err, "failed to initialize services")
			}

			opts := serveOptions{
				addr:        fmt.Sprintf("%s:%d", cmd.String("host"), int(cmd.Int("port"))),
				ngrok:       cmd.Bool("ngrok"),
				ngrokAuth:   cmd.String("ngrok-auth"),
				ngrokDomain: cmd.String("ngrok-domain"),
			}
			return runHTTPServer(ctx, svc, sessions, opts, logger)
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "run an MCP stdio server",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger, err := newLogger(cmd.Bool("debug"), zapcore.WarnLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			_, svc, err := initializeServices(cmd.String("config-dir"), logger)
			if err != nil {
				return errors.Wrap(err, "failed to initialize services")
			}

			logger.Info("MCP stdio server ready")
			return server.ServeStdio(mcp.NewServer(svc, nil, logger).MCPServer())
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "validate every configuration file in a directory",
		ArgsUsage: "[dir]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Args().First()
			if dir == "" {
				dir = cmd.String("config-dir")
			}
			return validateDir(cmd.Root().Writer, dir)
		},
	}
}

func configsCommand() *cli.Command {
	return &cli.Command{
		Name:  "configs",
		Usage: "list the configurations in the config directory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			manager, err := config.NewManager(cmd.String("config-dir"))
			if err != nil {
				return err
			}
			infos, err := manager.ListConfigs()
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			fmt.Fprintf(w, "Available Configurations (%d):\n", len(infos))
			for _, info := range infos {
				fmt.Fprintf(w, "  %-12s %dx%d, %d obstacles  %s\n",
					info.ConfigID, info.Width, info.Height, info.ObstacleCount, info.Description)
			}
			return nil
		},
	}
}

// newLogger builds a development logger with debug on, a production one otherwise
func newLogger(debug bool, level zapcore.Level) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build logger")
	}
	return logger.Sugar(), nil
}

// initializeServices wires session/config managers and the simulation service
func initializeServices(configDir string, logger *zap.SugaredLogger) (*session.Manager, service.SimulationService, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create config manager")
	}

	sessionManager := session.NewManager(logger)
	return sessionManager, service.NewSimulationService(sessionManager, configManager, logger), nil
}

type serveOptions struct {
	addr        string
	ngrok       bool
	ngrokAuth   string
	ngrokDomain string
}

// newRouter mounts the REST API, WebSocket, and /mcp endpoint
func newRouter(svc service.SimulationService, hub *websocket.Hub, logger *zap.SugaredLogger) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", api.NewServer(svc, hub, logger))
	mainRouter.HandleFunc("/mcp", mcp.NewServer(svc, hub, logger).Handle)
	return mainRouter
}

// runHTTPServer serves until ctx is cancelled, then shuts down gracefully
func runHTTPServer(ctx context.Context, svc service.SimulationService, sessions *session.Manager, opts serveOptions, logger *zap.SugaredLogger) error {
	hub := websocket.NewHub(logger)
	handler := newRouter(svc, hub, logger)

	httpServer := &http.Server{
		Addr:         opts.addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		logger.Infow("HTTP server listening", "addr", opts.addr,
			"api", fmt.Sprintf("http://%s/api", opts.addr),
			"websocket", fmt.Sprintf("ws://%s/ws?session=<session_id>", opts.addr),
			"mcp", fmt.Sprintf("http://%s/mcp", opts.addr))

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "HTTP server failed")
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		sessionCleanupRoutine(ctx, sessions, logger)
		return nil
	})

	if opts.ngrok {
		g.Go(func() error {
			return serveNgrok(ctx, handler, opts, logger)
		})
	}

	err := g.Wait()
	logger.Info("server stopped")
	return err
}

// serveNgrok exposes handler through an ngrok tunnel until ctx is done
func serveNgrok(ctx context.Context, handler http.Handler, opts serveOptions, logger *zap.SugaredLogger) error {
	if opts.ngrokAuth == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN)")
		return nil
	}

	var tunnel ngrokConfig.Tunnel
	if opts.ngrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.ngrokDomain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(opts.ngrokAuth))
	if err != nil {
		logger.Errorw("failed to start ngrok tunnel", "error", err)
		return nil
	}

	logger.Infow("ngrok tunnel established", "url", tun.URL())

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Warnw("failed to close ngrok tunnel", "error", err)
		}
	}()

	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		logger.Errorw("ngrok server error", "error", err)
	}
	return nil
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within the retention window
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, logger *zap.SugaredLogger) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(sessionRetention); removed > 0 {
				logger.Infow("cleaned up expired sessions", "removed", removed)
			}
		}
	}
}
