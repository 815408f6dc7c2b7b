package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/api/request"
)

type createCmd struct {
	name string
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "create a new portfolio version with no assets" }
func (*createCmd) Usage() string {
	return `portfolioctl create -name <name>

  Creates the next version of the named portfolio. The first portfolio with a
  name is version 1.
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Portfolio name.")
}

func (c *createCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	env := envFrom(args)
	svc, err := env.Portfolios()
	if err != nil {
		return env.fail(err)
	}

	p, err := svc.CreatePortfolio(ctx, request.CreatePortfolioRequest{Name: c.name})
	if err != nil {
		return env.fail(err)
	}

	fmt.Fprintf(env.Out, "created %s v%d (%s)\n", p.Name, p.Version, p.ID)
	return subcommands.ExitSuccess
}

type addAssetCmd struct {
	id        string
	assetType string
	name      string
	winRate   float64
	amount    float64
	quantity  float64
	price     float64
	quote     bool
	symbol    string
}

func (*addAssetCmd) Name() string     { return "add-asset" }
func (*addAssetCmd) Synopsis() string { return "append an asset to a portfolio version" }
func (*addAssetCmd) Usage() string {
	return `portfolioctl add-asset -id <id> -type stock|other -name <name> -win-rate <0-100> [-quantity <q> (-price <p> | -quote [-symbol <s>]) | -amount <a>]

  Appends an asset to the portfolio. Stock amounts are quantity times price.
  With -quote the price is the latest close of -symbol, or of the asset name.
  Frozen versions cannot be changed.
`
}

func (c *addAssetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Portfolio ID.")
	f.StringVar(&c.assetType, "type", "other", "Asset type (stock, other).")
	f.StringVar(&c.name, "name", "", "Asset name.")
	f.Float64Var(&c.winRate, "win-rate", 0, "Win rate in percent.")
	f.Float64Var(&c.amount, "amount", 0, "Amount for other assets.")
	f.Float64Var(&c.quantity, "quantity", 0, "Share count for stock assets.")
	f.Float64Var(&c.price, "price", 0, "Share price for stock assets.")
	f.BoolVar(&c.quote, "quote", false, "Use the latest closing price as share price.")
	f.StringVar(&c.symbol, "symbol", "", "Symbol to quote. Defaults to the asset name.")
}

func (c *addAssetCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	env := envFrom(args)
	svc, err := env.Portfolios()
	if err != nil {
		return env.fail(err)
	}

	req := request.AddAssetRequest{
		AssetType: c.assetType,
		AssetName: c.name,
		WinRate:   &c.winRate,
	}
	// Only flags given on the command line are sent, so missing values still fail validation.
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "amount":
			req.Amount = &c.amount
		case "quantity":
			req.StockQuantity = &c.quantity
		case "price":
			req.StockPrice = &c.price
		}
	})

	if c.quote && req.StockPrice == nil {
		price, err := c.lookupPrice(ctx, env)
		if err != nil {
			return env.fail(err)
		}
		req.StockPrice = &price
	}

	p, err := svc.AppendAsset(ctx, c.id, req)
	if err != nil {
		return env.fail(err)
	}

	added := p.Assets[len(p.Assets)-1]
	fmt.Fprintf(env.Out, "added %s (%s) to %s v%d\n", added.AssetName, svc.FormatAmount(added.Amount), p.Name, p.Version)
	return subcommands.ExitSuccess
}

func (c *addAssetCmd) lookupPrice(ctx context.Context, env *Env) (float64, error) {
	if env.Quotes == nil {
		return 0, errors.New("no quote source configured")
	}
	symbol := c.symbol
	if symbol == "" {
		symbol = c.name
	}
	q, err := env.Quotes.Latest(ctx, symbol)
	if err != nil {
		return 0, fmt.Errorf("failed to quote %s: %w", symbol, err)
	}
	fmt.Fprintf(env.Err, "%s closed at %g %s on %s\n", q.Symbol, q.Price, q.Currency, q.Date.Format("2006-01-02"))
	return q.Price, nil
}

type saveCmd struct {
	id        string
	unchanged bool
}

func (*saveCmd) Name() string     { return "save" }
func (*saveCmd) Synopsis() string { return "save a portfolio version as the next version" }
func (*saveCmd) Usage() string {
	return `portfolioctl save -id <id>

  Copies the assets of the latest version into a new version of the same name.
`
}

func (c *saveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Portfolio ID.")
	f.BoolVar(&c.unchanged, "unchanged", false, "Report that there are no pending changes.")
}

func (c *saveCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	env := envFrom(args)
	svc, err := env.Portfolios()
	if err != nil {
		return env.fail(err)
	}

	hasChanges := !c.unchanged
	p, err := svc.SaveNewVersion(ctx, c.id, request.SaveVersionRequest{HasChanges: &hasChanges})
	if err != nil {
		return env.fail(err)
	}

	fmt.Fprintf(env.Out, "saved %s v%d (%s)\n", p.Name, p.Version, p.ID)
	return subcommands.ExitSuccess
}

type listCmd struct {
	asJSON bool
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the latest version of every portfolio" }
func (*listCmd) Usage() string {
	return `portfolioctl list [-json]
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.asJSON, "json", false, "Print JSON instead of a table.")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	env := envFrom(args)
	svc, err := env.Portfolios()
	if err != nil {
		return env.fail(err)
	}

	items, err := svc.ListLatest(ctx)
	if err != nil {
		return env.fail(err)
	}

	if c.asJSON {
		enc := json.NewEncoder(env.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return env.fail(err)
		}
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVERSION\tASSETS\tTOTAL\tCREATED")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			item.ID, item.Name, item.Version, item.AssetCount, item.FormattedTotal, item.CreatedAt.Format("2006-01-02 15:04"))
	}
	if err := w.Flush(); err != nil {
		return env.fail(err)
	}
	return subcommands.ExitSuccess
}

type versionsCmd struct {
	name string
}

func (*versionsCmd) Name() string     { return "versions" }
func (*versionsCmd) Synopsis() string { return "list every version of a portfolio" }
func (*versionsCmd) Usage() string {
	return `portfolioctl versions -name <name>
`
}

func (c *versionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Portfolio name.")
}

func (c *versionsCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	env := envFrom(args)
	svc, err := env.Portfolios()
	if err != nil {
		return env.fail(err)
	}

	versions, err := svc.ListVersions(ctx, c.name)
	if err != nil {
		return env.fail(err)
	}

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVERSION\tASSETS\tCREATED")
	for _, p := range versions {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", p.ID, p.Version, len(p.Assets), p.CreatedAt.Format("2006-01-02 15:04"))
	}
	if err := w.Flush(); err != nil {
		return env.fail(err)
	}
	return subcommands.ExitSuccess
}

type showCmd struct {
	id string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display a portfolio version" }
func (*showCmd) Usage() string {
	return `portfolioctl show -id <id>
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Portfolio ID.")
}

func (c *showCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	env := envFrom(args)
	svc, err := env.Portfolios()
	if err != nil {
		return env.fail(err)
	}

	p, err := svc.GetPortfolio(ctx, c.id)
	if err != nil {
		return env.fail(err)
	}
	versions, err := svc.ListVersions(ctx, p.Name)
	if err != nil {
		return env.fail(err)
	}
	frozen := versions[len(versions)-1].Version > p.Version

	printMarkdown(env.Out, portfolioMarkdown(p, frozen, svc))
	return subcommands.ExitSuccess
}

type allocationCmd struct {
	id string
}

func (*allocationCmd) Name() string     { return "allocation" }
func (*allocationCmd) Synopsis() string { return "show asset weights next to a fixed-balance split" }
func (*allocationCmd) Usage() string {
	return `portfolioctl allocation -id <id>
`
}

func (c *allocationCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Portfolio ID.")
}

func (c *allocationCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	env := envFrom(args)
	svc, err := env.Portfolios()
	if err != nil {
		return env.fail(err)
	}

	alloc, err := svc.GetAllocation(ctx, c.id)
	if err != nil {
		return env.fail(err)
	}

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ASSET\tAMOUNT\tWEIGHT\tEQUAL WEIGHT")
	for _, a := range alloc.Assets {
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4f\n", a.AssetName, svc.FormatAmount(a.Amount), a.Weight, a.EqualWeight)
	}
	fmt.Fprintf(w, "TOTAL\t%s\t\t\n", svc.FormatAmount(alloc.TotalAmount))
	if err := w.Flush(); err != nil {
		return env.fail(err)
	}
	return subcommands.ExitSuccess
}
