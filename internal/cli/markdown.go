package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/service"
)

// printMarkdown renders md for a terminal and falls back to the raw text if rendering fails.
func printMarkdown(out io.Writer, md string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.NoTTYStyle),
		glamour.WithWordWrap(100),
	)
	if err == nil {
		if rendered, err := r.Render(md); err == nil {
			fmt.Fprint(out, rendered)
			return
		}
	}
	fmt.Fprint(out, md)
}

// portfolioMarkdown describes one portfolio version as a markdown document.
func portfolioMarkdown(p model.Portfolio, frozen bool, svc *service.PortfolioService) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s v%d\n\n", p.Name, p.Version)
	fmt.Fprintf(&b, "- ID: `%s`\n", p.ID)
	fmt.Fprintf(&b, "- Created: %s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
	if frozen {
		b.WriteString("- Status: frozen, a newer version exists\n")
	}
	b.WriteString("\n")

	if len(p.Assets) == 0 {
		b.WriteString("_No assets._\n")
		return b.String()
	}

	b.WriteString("| Asset | Type | Win rate | Quantity | Price | Amount |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|\n")

	total := decimal.Zero
	for _, a := range p.Assets {
		quantity, price := "", ""
		if a.StockQuantity != nil {
			quantity = fmt.Sprintf("%g", *a.StockQuantity)
		}
		if a.StockPrice != nil {
			price = svc.FormatAmount(*a.StockPrice)
		}
		fmt.Fprintf(&b, "| %s | %s | %g%% | %s | %s | %s |\n",
			escapeCell(a.AssetName), a.AssetType, a.WinRate, quantity, price, svc.FormatAmount(a.Amount))
		total = total.Add(decimal.NewFromFloat(a.Amount))
	}

	fmt.Fprintf(&b, "\n**Total:** %s\n", svc.FormatAmount(total.InexactFloat64()))
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
