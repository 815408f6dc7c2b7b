package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/subcommands"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/balance"
)

type balanceCmd struct{}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "print equal weights for a list of weights" }
func (*balanceCmd) Usage() string {
	return `portfolioctl balance <w1> <w2> ...

  Prints as many weights as given, each equal to their mean.
`
}

func (*balanceCmd) SetFlags(*flag.FlagSet) {}

func (*balanceCmd) Execute(_ context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	env := envFrom(args)

	weights := make([]float64, f.NArg())
	for i, arg := range f.Args() {
		w, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			fmt.Fprintf(env.Err, "invalid weight %q\n", arg)
			return subcommands.ExitUsageError
		}
		weights[i] = w
	}

	equal := balance.FixedBalance(weights)

	parts := make([]string, len(equal))
	for i, w := range equal {
		parts[i] = strconv.FormatFloat(w, 'g', -1, 64)
	}
	fmt.Fprintln(env.Out, strings.Join(parts, " "))
	return subcommands.ExitSuccess
}
