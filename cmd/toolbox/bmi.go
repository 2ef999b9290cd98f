package main

import (
	"fmt"
	"strconv"

	"github.com/alnah/go-toolbox/internal/bmi"
)

type bmiJSON struct {
	BMI      float64 `json:"bmi"`
	Category string  `json:"category"`
	Message  string  `json:"message"`
}

// runBMICmd computes the index for WEIGHT HEIGHT.
func runBMICmd(args []string, env *Environment) error {
	flags, positional, err := parseBMIFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	if len(positional) != 2 {
		return fmt.Errorf("%w: expected WEIGHT HEIGHT", ErrUsage)
	}

	unit, err := bmi.ParseUnit(flags.unit)
	if err != nil {
		return err
	}
	weight, err := parseMeasurement("weight", positional[0])
	if err != nil {
		return err
	}
	height, err := parseMeasurement("height", positional[1])
	if err != nil {
		return err
	}

	r, err := bmi.Calculate(weight, height, unit)
	if err != nil {
		return err
	}

	if flags.json {
		return writeJSON(env.Stdout, bmiJSON{BMI: r.Rounded(), Category: r.Category, Message: r.Advice})
	}
	p := newPainter(flags.common.noColor)
	fmt.Fprintf(env.Stdout, "BMI %s  %s\n", strconv.FormatFloat(r.Rounded(), 'f', 1, 64), p.heading(r.Category))
	if !flags.common.quiet {
		fmt.Fprintln(env.Stdout, r.Advice)
	}
	return nil
}

func parseMeasurement(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", bmi.ErrInvalidMeasurement, name, s)
	}
	return v, nil
}
