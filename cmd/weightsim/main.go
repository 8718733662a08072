// weightsim replays session starts through the weight adjuster without a database
// and prints the limits after each one.
//
// Usage:
//
//	go run ./cmd/weightsim -adjuster data/weight_adjuster.yaml 1:0 5:2500 12:4000
//
// Each argument is playerLevel:strengthProgress.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/lawnchairsociety/staminaweight/internal/adjuster"
	"github.com/lawnchairsociety/staminaweight/internal/config"
	"github.com/lawnchairsociety/staminaweight/internal/host"
	"github.com/lawnchairsociety/staminaweight/internal/logger"
	"github.com/lawnchairsociety/staminaweight/internal/profile"
	"github.com/lawnchairsociety/staminaweight/internal/stamina"
)

type sessionInput struct {
	level            int
	strengthProgress float64
}

func main() {
	adjusterConfigFile := flag.String("adjuster", "data/weight_adjuster.yaml", "Path to weight adjuster config YAML file")
	globalsFile := flag.String("globals", "data/globals.yaml", "Path to host globals YAML file (stamina limits)")
	mode := flag.String("mode", "", "Override the configured mode (static_multiplier, custom_limits, strength_based, level_based)")
	verbose := flag.Bool("verbose", false, "Print the adjuster's trace output to stderr")
	flag.Parse()

	if *verbose {
		logger.SetOutput(os.Stderr, "INFO")
	}

	cfg, err := config.LoadAdjusterConfig(*adjusterConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	if *mode != "" {
		m, err := config.ParseMode(*mode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		cfg.SetMode(m)
	}
	if *verbose {
		cfg.Verbose = true
	}

	table, err := stamina.LoadTableFromYAML(*globalsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using stock limits)\n", err)
		table = stamina.NewThresholdTableFrom(stamina.DefaultLimits())
	}

	inputs, err := parseInputs(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if err := run(os.Stdout, cfg, table, inputs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseInputs converts level:strengthProgress arguments.
func parseInputs(args []string) ([]sessionInput, error) {
	inputs := make([]sessionInput, 0, len(args))
	for _, arg := range args {
		levelStr, progressStr, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("argument %q is not level:strengthProgress", arg)
		}
		level, err := strconv.Atoi(levelStr)
		if err != nil {
			return nil, fmt.Errorf("argument %q: bad level: %w", arg, err)
		}
		progress, err := strconv.ParseFloat(progressStr, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %q: bad strength progress: %w", arg, err)
		}
		inputs = append(inputs, sessionInput{level: level, strengthProgress: progress})
	}
	return inputs, nil
}

// run drives a host through load and one session per input and writes a table row
// after each step.
func run(w io.Writer, cfg config.AdjusterConfig, table *stamina.ThresholdTable, inputs []sessionInput) error {
	adj := adjuster.New(cfg, logger.ForModule(adjuster.ModuleName, cfg.Verbose))
	h := host.New(table)
	host.Register(h, adj)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := []string{"step", "level", "strength", "multiplier", "phase"}
	for _, c := range stamina.AllCategories() {
		header = append(header, string(c))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	writeRow := func(step string, level int, strength float64, limits map[stamina.Category]stamina.Limits) {
		row := []string{
			step,
			strconv.Itoa(level),
			strconv.FormatFloat(strength, 'f', -1, 64),
			strconv.FormatFloat(adj.LastMultiplier(), 'f', 4, 64),
			adj.Phase().String(),
		}
		for _, c := range stamina.AllCategories() {
			row = append(row, limits[c].String())
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	h.Load()
	writeRow("load", 0, 0, h.Limits())

	p := profile.New("sim")
	for i, in := range inputs {
		p.Level = in.level
		p.Skills = []profile.Skill{{ID: profile.SkillStrength, Progress: in.strengthProgress}}
		limits := h.StartSession(p)
		writeRow("session "+strconv.Itoa(i+1), in.level, in.strengthProgress, limits)
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "mode=%s state=%s\n", adj.Mode(), adj.State())
	return nil
}
