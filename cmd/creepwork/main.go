package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/urfave/cli.v1"

	"creepwork/db"
	"creepwork/internal/adapter/archive/zstdlog"
	httpadapter "creepwork/internal/adapter/http"
	gormrepo "creepwork/internal/adapter/repo/gorm"
	"creepwork/internal/config"
	"creepwork/internal/logging"
)

var (
	configFlag = cli.StringFlag{
		Name:   "config",
		Usage:  "YAML configuration file",
		EnvVar: "CREEPWORK_CONFIG",
	}
	ticksFlag = cli.IntFlag{
		Name:  "ticks",
		Usage: "number of ticks to run",
		Value: 100,
	}
	migrationsFlag = cli.StringFlag{
		Name:  "dir",
		Usage: "migrations directory (defaults to the embedded set)",
	}
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "creepwork"
	app.Usage = "per-tick colony engine over a simulated host"
	app.Flags = []cli.Flag{configFlag}
	app.Commands = []cli.Command{
		{
			Name:   "run",
			Usage:  "Run the engine on a ticker with the ops HTTP server",
			Action: runCommand,
		},
		{
			Name:   "step",
			Usage:  "Run a fixed number of ticks headless and print the last summary",
			Flags:  []cli.Flag{ticksFlag},
			Action: stepCommand,
		},
		{
			Name:   "migrate",
			Usage:  "Apply postgres migrations",
			Flags:  []cli.Flag{migrationsFlag},
			Action: migrateCommand,
		},
		{
			Name:      "dumpconfig",
			Usage:     "Show configuration values",
			ArgsUsage: "[file]",
			Action:    dumpConfigCommand,
		},
		{
			Name:      "ticks",
			Usage:     "Print archived tick summaries as JSON lines",
			ArgsUsage: "<archive dir>",
			Action:    ticksCommand,
		},
	}
	return app
}

func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg, err := config.Load(ctx.GlobalString(configFlag.Name))
	if err != nil {
		return cfg, err
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runCommand(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	app, err := build(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.HTTP.Addr == "" {
		slog.Info("creepwork running", "rooms", cfg.Sim.Rooms, "store", cfg.Store.Driver)
		return app.runner.Loop(sigCtx)
	}

	loopCtx, cancel := context.WithCancel(sigCtx)
	defer cancel()
	loopErr := make(chan error, 1)
	go func() { loopErr <- app.runner.Loop(loopCtx) }()

	s := httpadapter.NewServer(cfg.HTTP.Addr, app.handler())
	slog.Info("creepwork listening", "addr", cfg.HTTP.Addr, "rooms", cfg.Sim.Rooms, "store", cfg.Store.Driver)
	s.Spin()
	cancel()
	return <-loopErr
}

func stepCommand(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	app, err := build(cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return step(context.Background(), app, ctx.Int(ticksFlag.Name), os.Stdout)
}

func step(ctx context.Context, app *application, ticks int, out io.Writer) error {
	if ticks <= 0 {
		return fmt.Errorf("--ticks must be > 0")
	}
	for i := 0; i < ticks; i++ {
		summary, err := app.runner.Step(ctx)
		if err != nil {
			return fmt.Errorf("tick %d: %w", i, err)
		}
		if i == ticks-1 {
			enc := json.NewEncoder(out)
			if err := enc.Encode(summary); err != nil {
				return err
			}
			return enc.Encode(app.metrics.Snapshot())
		}
	}
	return nil
}

func migrateCommand(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.Store.Driver != config.DriverPostgres {
		return fmt.Errorf("migrate needs store.driver=%s, got %s", config.DriverPostgres, cfg.Store.Driver)
	}
	gdb, err := gormrepo.OpenPostgres(cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer gormrepo.Close(gdb)

	var fsys fs.FS = db.Migrations
	dir := "migrations"
	if d := ctx.String(migrationsFlag.Name); d != "" {
		fsys, dir = os.DirFS(d), "."
	}
	applied, err := gormrepo.ApplyMigrations(context.Background(), gdb, fsys, dir)
	if err != nil {
		return err
	}
	slog.Info("migrations applied", "count", len(applied), "versions", applied)
	return nil
}

func dumpConfigCommand(ctx *cli.Context) error {
	cfg, err := config.Load(ctx.GlobalString(configFlag.Name))
	if err != nil {
		return err
	}
	out, err := cfg.Marshal()
	if err != nil {
		return err
	}
	dump := os.Stdout
	if ctx.NArg() > 0 {
		dump, err = os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return err
		}
		defer dump.Close()
	}
	_, err = dump.Write(out)
	return err
}

func ticksCommand(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return fmt.Errorf("archive dir is required")
	}
	return printArchive(ctx.Args().Get(0), os.Stdout)
}

func printArchive(dir string, out io.Writer) error {
	files, err := zstdlog.Files(dir)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	for _, f := range files {
		summaries, err := zstdlog.ReadFile(f)
		if err != nil {
			return err
		}
		for _, s := range summaries {
			if err := enc.Encode(s); err != nil {
				return err
			}
		}
	}
	return nil
}
