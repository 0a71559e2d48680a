package main

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/blob"
	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/logging"
	"github.com/jonathan/job-tracker/internal/observability"
	"github.com/jonathan/job-tracker/internal/store"
	"github.com/jonathan/job-tracker/internal/tracker"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/jonathan/job-tracker/internal/viewmodel"
)

// session is everything one command invocation needs: the effective config,
// a logger, the store and the coordinator driving it.
type session struct {
	cfg     *config.Config
	log     *logrus.Logger
	store   store.Store
	lister  store.Lister
	coord   *tracker.Coordinator
	printer *observability.Printer
	closer  io.Closer
}

// loadConfig reads the config file and environment, then applies any
// persistent flags that were set explicitly.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = o.backend
	}
	if flags.Changed("data-dir") {
		cfg.DataDir = o.dataDir
	}
	if flags.Changed("api-url") {
		cfg.APIBaseURL = o.apiURL
	}
	if flags.Changed("page-size") {
		cfg.PageSize = o.pageSize
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}

	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// openSession builds the logger, the store selected by the config and a
// coordinator over a view-model of the matching mode.
func (o *rootOptions) openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(o.errOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s := &session{cfg: cfg, log: log, printer: observability.NewPrinter(o.out)}
	var vm *viewmodel.ViewModel

	if cfg.Backend == config.BackendRemote {
		remote, err := store.NewRemoteStore(store.RemoteOptions{
			BaseURL:           cfg.APIBaseURL,
			ResourcePath:      cfg.ResourcePath,
			Timeout:           cfg.Timeout.Std(),
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
			Logger:            log,
		})
		if err != nil {
			return nil, err
		}
		s.store, s.lister = remote, remote
		vm = viewmodel.New(viewmodel.Remote, cfg.PageSize)
	} else {
		backend, err := blob.Open(ctx, *cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Backend, err)
		}
		local := store.NewLocalStore(backend, store.WithKey(cfg.StorageKey), store.WithLogger(log))
		s.store, s.lister, s.closer = local, local, local
		vm = viewmodel.New(viewmodel.Local, cfg.PageSize)
	}

	s.coord, err = tracker.New(s.store, vm, tracker.WithLogger(log))
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	logging.WithFields(log, map[string]interface{}{"backend": cfg.Backend, "mode": vm.Mode()}).Debug("session opened")
	return s, nil
}

// Close releases the storage backend.
func (s *session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// load fills the view-model and returns the load error, if any.
func (s *session) load(ctx context.Context) error {
	res := s.coord.Load(ctx)
	if !res.OK() {
		return fmt.Errorf("failed to load applications: %w", res.Err)
	}
	if res.Warning != nil {
		s.printer.PrintResult(res)
	}
	return nil
}

// locate makes the record with id visible to the coordinator. In remote mode
// the view-model only holds one page, so pages are walked until it is found.
func (s *session) locate(ctx context.Context, id types.ID) (types.Application, error) {
	if err := s.load(ctx); err != nil {
		return types.Application{}, err
	}
	vm := s.coord.View()
	if a, ok := vm.Find(id); ok {
		return a, nil
	}
	if vm.Mode() == viewmodel.Remote {
		for page := 2; page <= vm.Pagination().TotalPages; page++ {
			res := s.coord.GoToPage(ctx, page)
			if !res.OK() {
				return types.Application{}, fmt.Errorf("failed to load page %d: %w", page, res.Err)
			}
			if a, ok := vm.Find(id); ok {
				return a, nil
			}
		}
	}
	return types.Application{}, &store.ErrNotFound{ID: id}
}

// finish prints the result and turns a failed result into a command error so
// the process exits non-zero.
func (s *session) finish(res tracker.Result) error {
	s.printer.PrintResult(res)
	if !res.OK() {
		return fmt.Errorf("%s failed", res.Op)
	}
	return nil
}
