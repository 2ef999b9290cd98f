// Package password generates random passwords from selectable character
// classes and rates their strength.
package password

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
)

// Length bounds accepted by Generate.
const (
	MinLength     = 4
	MaxLength     = 128
	DefaultLength = 16
)

// Character classes.
const (
	Upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Lower   = "abcdefghijklmnopqrstuvwxyz"
	Digits  = "0123456789"
	Symbols = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// ErrInvalidLength is returned when Length is outside [MinLength, MaxLength].
var ErrInvalidLength = errors.New("invalid password length")

// Options selects the length and the character classes.
type Options struct {
	Length  int  `json:"length" yaml:"length"`
	Upper   bool `json:"upper" yaml:"upper"`
	Lower   bool `json:"lower" yaml:"lower"`
	Digits  bool `json:"digits" yaml:"digits"`
	Symbols bool `json:"symbols" yaml:"symbols"`
}

// DefaultOptions enables every class at DefaultLength.
func DefaultOptions() Options {
	return Options{Length: DefaultLength, Upper: true, Lower: true, Digits: true, Symbols: true}
}

// Validate checks the length bounds.
func (o Options) Validate() error {
	if o.Length < MinLength || o.Length > MaxLength {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidLength, o.Length, MinLength, MaxLength)
	}
	return nil
}

// Charset concatenates the enabled classes in a fixed order.
func (o Options) Charset() string {
	var b strings.Builder
	if o.Upper {
		b.WriteString(Upper)
	}
	if o.Lower {
		b.WriteString(Lower)
	}
	if o.Digits {
		b.WriteString(Digits)
	}
	if o.Symbols {
		b.WriteString(Symbols)
	}
	return b.String()
}

// Generator draws characters uniformly from the enabled classes.
type Generator struct {
	rand io.Reader
}

// NewGenerator returns a generator reading from r, or crypto/rand when nil.
func NewGenerator(r io.Reader) *Generator {
	if r == nil {
		r = rand.Reader
	}
	return &Generator{rand: r}
}

// Generate returns a password for opts. With no class enabled it returns "".
func (g *Generator) Generate(opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	charset := opts.Charset()
	if charset == "" {
		return "", nil
	}

	n := big.NewInt(int64(len(charset)))
	out := make([]byte, opts.Length)
	for i := range out {
		idx, err := rand.Int(g.rand, n)
		if err != nil {
			return "", fmt.Errorf("reading randomness: %w", err)
		}
		out[i] = charset[idx.Int64()]
	}
	return string(out), nil
}

// Strength is a coarse rating of a generated password.
type Strength int

const (
	StrengthNone Strength = iota
	StrengthWeak
	StrengthFair
	StrengthGood
	StrengthStrong
)

var strengthNames = [...]string{"", "weak", "fair", "good", "strong"}

func (s Strength) String() string {
	if s < 0 || int(s) >= len(strengthNames) {
		return fmt.Sprintf("Strength(%d)", int(s))
	}
	return strengthNames[s]
}

// MarshalText renders the lowercase name.
func (s Strength) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Rate scores pw: one point per enabled class actually present, minus one
// below 8 characters, plus one above 20. Score <= 1 is weak, 2 fair, 3 good,
// anything higher strong. An empty password has no rating.
func Rate(pw string, opts Options) Strength {
	if pw == "" {
		return StrengthNone
	}

	score := 0
	for _, c := range []struct {
		on  bool
		set string
	}{
		{opts.Upper, Upper},
		{opts.Lower, Lower},
		{opts.Digits, Digits},
		{opts.Symbols, Symbols},
	} {
		if c.on && strings.ContainsAny(pw, c.set) {
			score++
		}
	}

	switch n := len(pw); {
	case n < 8:
		score--
	case n > 20:
		score++
	}

	switch {
	case score <= 1:
		return StrengthWeak
	case score == 2:
		return StrengthFair
	case score == 3:
		return StrengthGood
	default:
		return StrengthStrong
	}
}
