package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jask/easybook/internal/config"
	"github.com/jask/easybook/internal/ledger"
	"github.com/jask/easybook/internal/logging"
	"github.com/jask/easybook/internal/nav"
	"github.com/jask/easybook/internal/service"
	"github.com/jask/easybook/internal/store"
)

// app is everything a command needs, built once from config.
type app struct {
	cfg      config.Config
	logger   *log.Logger
	loc      *time.Location
	store    *store.Store
	importer *service.ImportService
	exporter *service.ExportService
	ctrl     *nav.Controller

	closers []func() error
}

func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	logger, logFile, err := logging.Open(cfg.Log)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, loc: loc, closers: []func() error{logFile.Close}}

	persist, cleanup, err := store.OpenBackend(ctx, cfg.Storage, logger)
	if err != nil {
		_ = a.close()
		return nil, err
	}
	a.closers = append([]func() error{cleanup}, a.closers...)

	a.store = store.New(persist, logger)
	a.store.Load(ctx)

	reg := ledger.DefaultRegistry()
	a.importer = &service.ImportService{
		Store:  a.store,
		Parser: service.Parser{Resolver: newResolver(cfg.Import, reg), Location: loc},
		Logger: logger,
	}
	a.exporter = &service.ExportService{
		Store:    a.store,
		Dir:      cfg.Export.Dir,
		Label:    cfg.Export.Label,
		Location: loc,
		Logger:   logger,
	}
	a.ctrl = nav.New(nav.Options{
		Store:     a.store,
		Registry:  reg,
		Location:  loc,
		LongPress: cfg.UI.LongPress,
		Importer:  a.importer,
		Exporter:  a.exporter,
		Logger:    logger,
	})
	logger.Info("easybook started", "backend", cfg.Storage.Backend, "transactions", a.store.Len())
	return a, nil
}

func newResolver(cfg config.ImportConfig, reg *ledger.Registry) service.CategoryResolver {
	if cfg.CategoryMatch == config.MatchFuzzy {
		return service.FuzzyResolver{Registry: reg, MaxDistance: cfg.MaxDistance}
	}
	return service.ExactResolver{Registry: reg}
}

func (a *app) close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// parseMonth reads YYYY-MM in loc; empty means the current month.
func parseMonth(s string, loc *time.Location, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc), nil
	}
	t, err := time.ParseInLocation("2006-01", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, want YYYY-MM", s)
	}
	return t, nil
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
