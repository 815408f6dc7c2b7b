// Package cli implements the portfolioctl subcommands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/config"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/logging"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/quote"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/repository"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/service"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/storage"
)

// Register adds every portfolioctl command to c.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&createCmd{}, "portfolios")
	c.Register(&addAssetCmd{}, "portfolios")
	c.Register(&saveCmd{}, "portfolios")
	c.Register(&listCmd{}, "portfolios")
	c.Register(&versionsCmd{}, "portfolios")
	c.Register(&showCmd{}, "portfolios")
	c.Register(&allocationCmd{}, "portfolios")

	c.Register(&exportCmd{}, "files")
	c.Register(&importCmd{}, "files")
	c.Register(&backupCmd{}, "files")

	c.Register(&balanceCmd{}, "tools")
}

// OpenFunc loads configuration and opens the configured storage backend.
type OpenFunc func() (*config.Config, storage.KeyValueStorage, error)

// Quoter looks up the latest price of a stock symbol.
type Quoter interface {
	Latest(ctx context.Context, symbol string) (quote.Quote, error)
}

// Env is passed to every command as its first execute argument.
// Storage is opened on first use so that commands which do not need it never touch it.
type Env struct {
	Out    io.Writer
	Err    io.Writer
	Open   OpenFunc
	Quotes Quoter

	cfg        *config.Config
	store      storage.KeyValueStorage
	repo       *repository.PortfolioRepository
	portfolios *service.PortfolioService
}

// NewEnv returns an Env that opens storage from the process configuration.
func NewEnv() *Env {
	return &Env{
		Out:    os.Stdout,
		Err:    os.Stderr,
		Open:   OpenFromConfig,
		Quotes: quote.NewClient(nil, ""),
	}
}

// OpenFromConfig loads the configuration the server uses and opens its storage backend.
func OpenFromConfig() (*config.Config, storage.KeyValueStorage, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logging.Setup(cfg.Logging)

	store, _, err := storage.New(cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}

func (e *Env) load() error {
	if e.portfolios != nil {
		return nil
	}
	if e.Open == nil {
		return errors.New("no storage configured")
	}

	cfg, store, err := e.Open()
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.store = store
	e.repo = repository.NewPortfolioRepository(store, cfg.Storage.Key)
	e.portfolios = service.NewPortfolioService(e.repo, cfg.Display.Currency, nil)
	return nil
}

// Portfolios returns the portfolio service, opening storage if needed.
func (e *Env) Portfolios() (*service.PortfolioService, error) {
	if err := e.load(); err != nil {
		return nil, err
	}
	return e.portfolios, nil
}

// Config returns the loaded configuration, opening storage if needed.
func (e *Env) Config() (*config.Config, error) {
	if err := e.load(); err != nil {
		return nil, err
	}
	return e.cfg, nil
}

// Close closes the storage backend if it was opened.
func (e *Env) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

func envFrom(args []interface{}) *Env {
	if len(args) > 0 {
		if env, ok := args[0].(*Env); ok {
			return env
		}
	}
	return NewEnv()
}

// fail prints err and returns ExitFailure.
func (e *Env) fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(e.Err, err)
	return subcommands.ExitFailure
}
