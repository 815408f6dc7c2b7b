package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/backup"
)

type exportCmd struct {
	id  string
	dir string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write a portfolio version to a JSON file" }
func (*exportCmd) Usage() string {
	return `portfolioctl export -id <id> [-dir <dir>]

  Writes {name}_v{version}.json into dir. The document carries no ID.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Portfolio ID.")
	f.StringVar(&c.dir, "dir", ".", "Output directory.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	env := envFrom(args)
	svc, err := env.Portfolios()
	if err != nil {
		return env.fail(err)
	}

	file, err := svc.ExportPortfolio(ctx, c.id)
	if err != nil {
		return env.fail(err)
	}

	path := filepath.Join(c.dir, filepath.Base(file.Filename))
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return env.fail(fmt.Errorf("failed to write export: %w", err))
	}

	fmt.Fprintln(env.Out, path)
	return subcommands.ExitSuccess
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "add a portfolio from an exported JSON file" }
func (*importCmd) Usage() string {
	return `portfolioctl import <file>

  Imports the document as a new record with a fresh ID. Name, version and
  assets are kept as they are in the file.
`
}

func (*importCmd) SetFlags(*flag.FlagSet) {}

func (*importCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	env := envFrom(args)
	if f.NArg() != 1 {
		fmt.Fprintln(env.Err, "import needs exactly one file")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(f.Arg(0))
	if err != nil {
		return env.fail(err)
	}

	svc, err := env.Portfolios()
	if err != nil {
		return env.fail(err)
	}

	p, err := svc.ImportPortfolio(ctx, data)
	if err != nil {
		return env.fail(err)
	}

	fmt.Fprintf(env.Out, "imported %s v%d (%s)\n", p.Name, p.Version, p.ID)
	return subcommands.ExitSuccess
}

type backupCmd struct {
	genKey  bool
	decrypt string
}

func (*backupCmd) Name() string     { return "backup" }
func (*backupCmd) Synopsis() string { return "write a snapshot of every portfolio" }
func (*backupCmd) Usage() string {
	return `portfolioctl backup [-genkey | -decrypt <file>]

  Without flags, writes a snapshot to the configured backup directory.
  -genkey prints a new encryption key. -decrypt prints the collection held in
  an encrypted snapshot using the configured key.
`
}

func (c *backupCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.genKey, "genkey", false, "Print a new backup encryption key.")
	f.StringVar(&c.decrypt, "decrypt", "", "Encrypted snapshot to decrypt.")
}

func (c *backupCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	env := envFrom(args)

	if c.genKey {
		key, err := backup.GenerateKey()
		if err != nil {
			return env.fail(err)
		}
		fmt.Fprintln(env.Out, key)
		return subcommands.ExitSuccess
	}

	cfg, err := env.Config()
	if err != nil {
		return env.fail(err)
	}

	if c.decrypt != "" {
		if cfg.Backup.EncryptionKey == "" {
			return env.fail(errors.New("no backup encryption key configured"))
		}
		token, err := os.ReadFile(c.decrypt)
		if err != nil {
			return env.fail(err)
		}
		data, err := backup.Decrypt(token, cfg.Backup.EncryptionKey)
		if err != nil {
			return env.fail(err)
		}
		fmt.Fprintln(env.Out, string(data))
		return subcommands.ExitSuccess
	}

	svc, err := backup.NewService(env.repo, cfg.Backup, nil)
	if err != nil {
		return env.fail(err)
	}
	path, err := svc.Run(ctx)
	if err != nil {
		return env.fail(err)
	}

	fmt.Fprintln(env.Out, path)
	return subcommands.ExitSuccess
}
