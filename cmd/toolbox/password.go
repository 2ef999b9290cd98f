package main

import (
	"fmt"

	"github.com/alnah/go-toolbox/internal/password"
)

// MaxPasswordCount bounds --count.
const MaxPasswordCount = 100

type passwordJSON struct {
	Password string            `json:"password"`
	Strength password.Strength `json:"strength"`
}

// runPasswordCmd prints --count passwords. Strength goes to stderr so that
// stdout stays pipeable.
func runPasswordCmd(args []string, env *Environment) error {
	flags, positional, err := parsePasswordFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: password takes no arguments, got %q", ErrUsage, positional[0])
	}
	if flags.count < 1 || flags.count > MaxPasswordCount {
		return fmt.Errorf("%w: --count must be 1-%d, got %d", ErrUsage, MaxPasswordCount, flags.count)
	}

	cfg, _, err := loadConfig(flags.common, env)
	if err != nil {
		return err
	}
	opts := mergePasswordFlags(flags, cfg.Password.Options())
	if err := opts.Validate(); err != nil {
		return err
	}
	if opts.Charset() == "" {
		return fmt.Errorf("%w: every character class is disabled", ErrUsage)
	}

	gen := password.NewGenerator(nil)
	out := make([]passwordJSON, 0, flags.count)
	for range flags.count {
		pw, err := gen.Generate(opts)
		if err != nil {
			return err
		}
		out = append(out, passwordJSON{Password: pw, Strength: password.Rate(pw, opts)})
	}

	if flags.json {
		if flags.count == 1 {
			return writeJSON(env.Stdout, out[0])
		}
		return writeJSON(env.Stdout, out)
	}

	p := newPainter(flags.common.noColor)
	for _, o := range out {
		fmt.Fprintln(env.Stdout, o.Password)
		if !flags.common.quiet {
			fmt.Fprintf(env.Stderr, "strength: %s\n", paintStrength(p, o.Strength))
		}
	}
	return nil
}

func mergePasswordFlags(flags *passwordFlags, opts password.Options) password.Options {
	if flags.length != 0 {
		opts.Length = flags.length
	}
	if flags.noUpper {
		opts.Upper = false
	}
	if flags.noLower {
		opts.Lower = false
	}
	if flags.noDigits {
		opts.Digits = false
	}
	if flags.noSymbols {
		opts.Symbols = false
	}
	return opts
}

func paintStrength(p painter, s password.Strength) string {
	switch s {
	case password.StrengthStrong, password.StrengthGood:
		return p.ok(s.String())
	case password.StrengthFair:
		return p.warn(s.String())
	default:
		return p.fail(s.String())
	}
}
