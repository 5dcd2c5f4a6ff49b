// Package app assembles the storage core: configuration, logging, state
// store, permission gate and the component graph behind the files provider.
package app

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/FileManager/core/internal/index"
	"github.com/GriffinCanCode/FileManager/core/internal/infrastructure/config"
	"github.com/GriffinCanCode/FileManager/core/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/FileManager/core/internal/kvstore"
	"github.com/GriffinCanCode/FileManager/core/internal/logging"
	"github.com/GriffinCanCode/FileManager/core/internal/mutate"
	"github.com/GriffinCanCode/FileManager/core/internal/permissions"
	"github.com/GriffinCanCode/FileManager/core/internal/providers/files"
	"github.com/GriffinCanCode/FileManager/core/internal/reader"
	"github.com/GriffinCanCode/FileManager/core/internal/recycle"
	"github.com/GriffinCanCode/FileManager/core/internal/search"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/errs"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/paths"
)

// Core wires the storage components for one process.
type Core struct {
	Config   *config.Config
	Log      *logging.Logger
	Store    *kvstore.Store
	Gate     *permissions.Gate
	Reader   *reader.Reader
	Index    *index.Index
	Engine   *search.Engine
	Bin      *recycle.Bin
	Ops      *mutate.Ops
	Provider *files.Provider
	Metrics  *monitoring.Metrics
}

// New assembles a core from cfg. oracle answers permission checks; pass a
// fully-granted static oracle for desktop use. The recycle bin is rooted at
// the first configured storage root.
func New(cfg *config.Config, oracle permissions.Oracle, log *logging.Logger) (*Core, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.NewNop()
	}
	if len(cfg.Storage.Roots) == 0 {
		return nil, fmt.Errorf("no storage roots configured: %w", errs.ErrNotFound)
	}

	store, err := kvstore.Open(paths.StateFile(cfg.Storage.StateDir), log)
	if err != nil {
		return nil, err
	}

	metrics := monitoring.NewMetrics()
	gate := permissions.NewGate(oracle, store, cfg.Storage.StateDir, log)
	rd := reader.New(gate, log)

	ix := index.New(gate, store, metrics, log, index.Options{
		MaxDepth: cfg.Index.MaxDepth,
		TTL:      cfg.Index.SnapshotTTL,
		Persist:  cfg.Index.Persist,
	})
	eng := search.New(ix, gate, store, metrics, log, search.Options{
		Limit:       cfg.Search.Limit,
		RecentLimit: cfg.Search.RecentLimit,
	})

	bin := recycle.New(cfg.Storage.Roots[0], cfg.Recycle.HoldingDirName, gate, store, metrics, log)
	ops := mutate.New(gate, bin, log)

	return &Core{
		Config:   cfg,
		Log:      log,
		Store:    store,
		Gate:     gate,
		Reader:   rd,
		Index:    ix,
		Engine:   eng,
		Bin:      bin,
		Ops:      ops,
		Provider: files.New(gate, rd, ix, eng, bin, ops, cfg.Storage.Roots, log),
		Metrics:  metrics,
	}, nil
}

// Init prepares persistent state: recycle holding area plus reconciliation,
// and reloading a persisted index snapshot when one exists.
func (c *Core) Init(ctx context.Context) ([]errs.ItemError, error) {
	repairs, err := c.Bin.Init(ctx)
	if err != nil {
		return repairs, err
	}

	if c.Config.Index.Persist {
		if _, err := c.Index.Load(); err != nil {
			c.Log.Warn("persisted index snapshot unreadable, will rebuild")
		}
	}
	return repairs, nil
}
