package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/alnah/go-toolbox/internal/hints"
	"github.com/alnah/go-toolbox/internal/rates"
)

// runRatesCmd handles:
//
//	rates --list
//	rates FROM               (rate table)
//	rates [AMOUNT] FROM TO   (conversion, amount defaults to 1)
func runRatesCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRatesFlags(args, env.Stdout)
	if err != nil {
		return err
	}

	if flags.list {
		return printCurrencies(env.Stdout, flags.json)
	}

	cfg, _, err := loadConfig(flags.common, env)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	svc := rates.NewService(newRatesClient(cfg), cfg.Rates.CacheTTL())

	switch len(positional) {
	case 1:
		err = printRateTable(ctx, env.Stdout, svc, positional[0], flags.json)
	case 2, 3:
		err = printConversion(ctx, env.Stdout, svc, positional, flags.json)
	default:
		return fmt.Errorf("%w: expected FROM, or [AMOUNT] FROM TO", ErrUsage)
	}
	return withUpstreamHint(err, envRatesURL)
}

// withUpstreamHint attaches the connectivity hint to fetch failures.
func withUpstreamHint(err error, envVar string) error {
	if isUpstream(err) {
		return withHint(err, hints.ForUpstream(envVar))
	}
	return err
}

func isUpstream(err error) bool {
	return err != nil && exitCodeFor(err) == ExitUpstream
}

func printCurrencies(w io.Writer, asJSON bool) error {
	if asJSON {
		return writeJSON(w, rates.Currencies)
	}
	for _, c := range rates.Currencies {
		fmt.Fprintf(w, "%s  %s\n", c.Code, c.Name)
	}
	return nil
}

func printRateTable(ctx context.Context, w io.Writer, svc *rates.Service, from string, asJSON bool) error {
	code, err := rates.NormalizeCode(from)
	if err != nil {
		return err
	}
	t, err := svc.Table(ctx, code)
	if err != nil {
		return err
	}
	if asJSON {
		_, err := fmt.Fprintf(w, "%s\n", t.Raw)
		return err
	}

	codes := make([]string, 0, len(t.Data.Rates))
	for c := range t.Data.Rates {
		codes = append(codes, c)
	}
	slices.Sort(codes)

	fmt.Fprintf(w, "1 %s =\n", code)
	for _, c := range codes {
		fmt.Fprintf(w, "  %s %s\n", c, strconv.FormatFloat(t.Data.Rates[c], 'f', -1, 64))
	}
	return nil
}

func printConversion(ctx context.Context, w io.Writer, svc *rates.Service, args []string, asJSON bool) error {
	amount := 1.0
	if len(args) == 3 {
		a, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("%w: amount %q is not a number", ErrUsage, args[0])
		}
		amount, args = a, args[1:]
	}

	conv, err := svc.Convert(ctx, amount, args[0], args[1])
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(w, conv)
	}
	fmt.Fprintf(w, "%s %s = %s %s\n",
		strconv.FormatFloat(conv.Amount, 'f', -1, 64), conv.From,
		strconv.FormatFloat(conv.Result, 'f', 2, 64), conv.To)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
