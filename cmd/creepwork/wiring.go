package main

import (
	"errors"
	"fmt"

	"creepwork/internal/adapter/archive/zstdlog"
	httpadapter "creepwork/internal/adapter/http"
	metricsinmem "creepwork/internal/adapter/metrics/inmemory"
	gormrepo "creepwork/internal/adapter/repo/gorm"
	"creepwork/internal/adapter/repo/memory"
	sqliterepo "creepwork/internal/adapter/repo/sqlite"
	"creepwork/internal/adapter/world/sim"
	"creepwork/internal/app/memstate"
	"creepwork/internal/app/ports"
	"creepwork/internal/app/tick"
	"creepwork/internal/config"
)

type storage struct {
	tx      ports.TxManager
	memory  ports.MemoryStore
	history interface {
		ports.TickRecorder
		ports.TickHistory
	}
	close func() error
}

type application struct {
	cfg     config.Config
	store   storage
	codec   *memstate.Codec
	metrics *metricsinmem.Recorder
	archive *zstdlog.TickArchive
	runner  *tick.Runner
}

func openStorage(cfg config.StoreConfig) (storage, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		return storage{
			tx:      memory.NewTxManager(store),
			memory:  memory.NewMemoryRepo(store),
			history: memory.NewTickRepo(store, cfg.TickHistory),
			close:   func() error { return nil },
		}, nil
	case config.DriverSQLite:
		sdb, err := sqliterepo.Open(cfg.DSN)
		if err != nil {
			return storage{}, err
		}
		return storage{
			tx:      sqliterepo.NewTxManager(sdb),
			memory:  sqliterepo.NewMemoryRepo(sdb),
			history: sqliterepo.NewTickRepo(sdb),
			close:   sdb.Close,
		}, nil
	case config.DriverPostgres:
		gdb, err := gormrepo.OpenPostgres(cfg.DSN)
		if err != nil {
			return storage{}, err
		}
		return storage{
			tx:      gormrepo.NewTxManager(gdb),
			memory:  gormrepo.NewMemoryRepo(gdb),
			history: gormrepo.NewTickRepo(gdb),
			close:   func() error { return gormrepo.Close(gdb) },
		}, nil
	}
	return storage{}, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

func build(cfg config.Config) (*application, error) {
	body, err := cfg.Body()
	if err != nil {
		return nil, err
	}
	gen := sim.DefaultGenerateConfig()
	gen.Seed = cfg.Sim.Seed
	gen.Rooms = cfg.Sim.Rooms
	gen.StartEnergy = cfg.Sim.StartEnergy
	gen.WallThreshold = cfg.Sim.WallThreshold
	host, err := sim.Generate(sim.DefaultConfig(), gen)
	if err != nil {
		return nil, fmt.Errorf("generate world: %w", err)
	}
	codec, err := memstate.NewCodec()
	if err != nil {
		return nil, err
	}
	store, err := openStorage(cfg.Store)
	if err != nil {
		return nil, err
	}

	app := &application{
		cfg:     cfg,
		store:   store,
		codec:   codec,
		metrics: metricsinmem.NewRecorder(),
	}
	recorders := tick.Recorders{store.history}
	if cfg.Archive.Dir != "" {
		app.archive = zstdlog.NewTickArchive(cfg.Archive.Dir)
		recorders = append(recorders, app.archive)
	}
	engine := tick.UseCase{
		TxManager: store.tx,
		Memory:    store.memory,
		World:     host,
		Codec:     codec,
		Metrics:   app.metrics,
		Recorder:  recorders,
		Config: tick.Config{
			SpawnBody:           body,
			WallRepairThreshold: cfg.Engine.WallRepairThreshold,
			CeilingFactor:       cfg.Engine.CeilingFactor,
			EarlyUpgradeLevel:   cfg.Engine.EarlyUpgradeLevel,
			PathCacheSize:       cfg.Engine.PathCacheSize,
		},
	}
	app.runner = &tick.Runner{
		Engine:   engine,
		Host:     host,
		Interval: cfg.TickInterval(),
		MaxTicks: cfg.Sim.MaxTicks,
	}
	return app, nil
}

func (a *application) handler() httpadapter.Handler {
	return httpadapter.Handler{
		TxManager: a.store.tx,
		Memory:    a.store.memory,
		Codec:     a.codec,
		History:   a.store.history,
		Stepper:   a.runner,
		KPI:       a.metrics,
	}
}

func (a *application) Close() error {
	var errs []error
	if a.archive != nil {
		errs = append(errs, a.archive.Close())
	}
	errs = append(errs, a.store.close())
	return errors.Join(errs...)
}
