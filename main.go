package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nstehr/flotilla/agent"
	"github.com/nstehr/flotilla/config"
	"github.com/nstehr/flotilla/ipc"
	"github.com/nstehr/flotilla/rules"
)

const banner = `
  __ _       _   _ _ _
 / _| | ___ | |_(_) | | __ _
| |_| |/ _ \| __| | | |/ _` + "`" + ` |
|  _| | (_) | |_| | | | (_| |
|_| |_|\___/ \__|_|_|_|\__,_|

Slot-Allocated Fleet Command`

var (
	cfgFile  string
	socket   string
	name     string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:          "flotilla",
	Short:        "Flotilla plans every ship's move for a planet-conquest match.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		level, err := cfg.Level()
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

		fmt.Println(banner)
		slog.Info("starting flotilla", "name", name, "doctrine", cfg.Strategy.Name, "seed", cfg.Seed)

		engine, err := rules.NewEngine(cfg.Strategy, rules.CompileDoctrine(cfg.Strategy))
		if err != nil {
			return fmt.Errorf("build rules engine: %w", err)
		}
		var current atomic.Pointer[config.Config]
		current.Store(&cfg)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		go reloadOnHangup(ctx, cmd, engine, &current)
		return serve(ctx, &current, engine)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "YAML config file (defaults are used when empty)")
	rootCmd.Flags().StringVar(&socket, "socket", config.DefaultSocket, "unix socket the game bridge connects to")
	rootCmd.Flags().StringVar(&name, "name", "flotilla", "bot name reported in the hello reply")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
}

// loadConfig reads the config file, then lets explicitly set flags win.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}
	if cmd.Flags().Changed("socket") {
		cfg.Socket = socket
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	return cfg, cfg.Validate()
}

// reloadOnHangup re-reads the config on SIGHUP. The new doctrine's rules are
// swapped into the shared engine, and new connections get the new config.
func reloadOnHangup(ctx context.Context, cmd *cobra.Command, engine *rules.Engine, current *atomic.Pointer[config.Config]) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			cfg, err := loadConfig(cmd)
			if err != nil {
				slog.Error("config reload failed", "error", err)
				continue
			}
			if err := engine.Swap(cfg.Strategy, rules.CompileDoctrine(cfg.Strategy)); err != nil {
				slog.Error("rule swap failed", "error", err)
				continue
			}
			current.Store(&cfg)
			slog.Info("config reloaded", "doctrine", cfg.Strategy.Name)
		}
	}
}

func serve(ctx context.Context, current *atomic.Pointer[config.Config], engine *rules.Engine) error {
	cfg := current.Load()
	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(cfg.Socket); err != nil {
		return fmt.Errorf("clean up socket %s: %w", cfg.Socket, err)
	}

	listener, err := net.Listen("unix", cfg.Socket)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Socket, err)
	}
	defer os.Remove(cfg.Socket)

	slog.Info("listening on domain socket", "path", cfg.Socket)

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				slog.Info("shutting down")
				return nil
			default:
				slog.Error("failed to accept connection", "error", err)
				continue
			}
		}
		slog.Info("new connection accepted")
		go handleConn(conn, *current.Load(), engine)
	}
}

func handleConn(conn net.Conn, cfg config.Config, engine *rules.Engine) {
	c := ipc.NewConnection(conn, nil)
	agent.New(name, cfg, engine).Register(c)
	c.ReadLoop()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
