package main

import (
	"fmt"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type VersionInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

func newVersionCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of sham",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{Version: version, Commit: commit, Date: date}
			out := cmd.OutOrStdout()

			switch output {
			case "json":
				b, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return fmt.Errorf("error formatting version to JSON: %w", err)
				}
				fmt.Fprintln(out, string(b))
			case "yaml":
				b, err := yaml.Marshal(info)
				if err != nil {
					return fmt.Errorf("error formatting version to YAML: %w", err)
				}
				fmt.Fprint(out, string(b))
			default:
				fmt.Fprintf(out, "%s (built: %s commit: %s)\n", info.Version, info.Date, info.Commit)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "plain", "output format (plain, json, yaml)")
	return cmd
}
