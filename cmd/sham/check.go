package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/danwilliams/sham/fixture"
	"github.com/danwilliams/sham/logging"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ErrInvalidFixtures is returned by check when any fixture fails to load.
var ErrInvalidFixtures = errors.New("invalid fixtures")

// report is the machine-readable result for one fixture file.
type report struct {
	Path      string           `json:"path" yaml:"path"`
	Valid     bool             `json:"valid" yaml:"valid"`
	Error     string           `json:"error,omitempty" yaml:"error,omitempty"`
	Exchanges []exchangeReport `json:"exchanges,omitempty" yaml:"exchanges,omitempty"`
	Commands  []commandReport  `json:"commands,omitempty" yaml:"commands,omitempty"`
}

type exchangeReport struct {
	Method  string `json:"method" yaml:"method"`
	URL     string `json:"url" yaml:"url"`
	Outcome string `json:"outcome" yaml:"outcome"`
}

type commandReport struct {
	Program string   `json:"program" yaml:"program"`
	Args    []string `json:"args" yaml:"args"`
}

func newCheckCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate fixture scripts and summarise what they expect",
		Long: `Check loads each fixture script, validates it, and prints the expected
exchanges and commands. Relative paths that do not exist are looked up in the
configured fixtures directory. Exits non-zero if any fixture is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports := make([]report, 0, len(args))
			invalid := 0
			for _, arg := range args {
				r := check(fixture.Resolve(opts.settings.FixturesDir, arg))
				if !r.Valid {
					invalid++
				}
				reports = append(reports, r)
			}

			if err := render(cmd.OutOrStdout(), output, reports); err != nil {
				return err
			}

			if invalid > 0 {
				return fmt.Errorf("%w: %d of %d", ErrInvalidFixtures, invalid, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format (table, json, yaml)")
	return cmd
}

func check(path string) report {
	r := report{Path: path}

	s, err := fixture.Load(path)
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("invalid fixture")
		r.Error = err.Error()
		return r
	}

	r.Valid = true
	for _, ex := range s.Exchanges {
		r.Exchanges = append(r.Exchanges, exchangeReport{
			Method:  ex.MethodOrDefault(),
			URL:     ex.URL,
			Outcome: ex.Outcome(),
		})
	}
	for _, c := range s.Commands {
		r.Commands = append(r.Commands, commandReport{Program: c.Program, Args: c.Args})
	}
	return r
}

func render(w io.Writer, output string, reports []report) error {
	switch output {
	case "json":
		b, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting as JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(reports)
		if err != nil {
			return fmt.Errorf("error formatting as YAML: %w", err)
		}
		_, err = w.Write(b)
		return err
	case "table":
		for _, r := range reports {
			if _, err := fmt.Fprintln(w, renderTable(r)); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}

func renderTable(r report) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(r.Path)

	if !r.Valid {
		t.AppendHeader(table.Row{"INVALID"})
		for _, line := range strings.Split(r.Error, "\n") {
			t.AppendRow(table.Row{line})
		}
		return t.Render()
	}

	t.AppendHeader(table.Row{"#", "METHOD", "URL", "OUTCOME"})
	for i, ex := range r.Exchanges {
		t.AppendRow(table.Row{i + 1, ex.Method, ex.URL, ex.Outcome})
	}
	for _, c := range r.Commands {
		t.AppendSeparator()
		t.AppendRow(table.Row{"exec", c.Program, strings.Join(c.Args, " "), ""})
	}
	if len(r.Exchanges) == 0 && len(r.Commands) == 0 {
		t.AppendRow(table.Row{"", "", "(empty)", ""})
	}
	return t.Render()
}
