package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"modmail/internal/app"
	"modmail/internal/domain"
)

// recoverResult is what the recover command prints.
type recoverResult struct {
	Report   domain.RecoveryReport `json:"report" yaml:"report"`
	Sessions []domain.Session      `json:"sessions" yaml:"sessions"`
}

func newRecoverCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Scan the forum and print the sessions it would recover",
		Long: "Reads the active threads of the modmail forum over the REST API and prints\n" +
			"the correspondent of each one. Nothing is changed on Discord.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, token, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			bot, err := app.NewBot(cfg, token, logger)
			if err != nil {
				return err
			}
			sessions, report, err := bot.Recovery.Scan(cmd.Context())
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), output, recoverResult{Report: report, Sessions: sessions})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text|json|yaml.")
	return cmd
}

func writeResult(w io.Writer, format string, res recoverResult) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CORRESPONDENT\tTHREAD")
		for _, s := range res.Sessions {
			fmt.Fprintf(tw, "%s\t%s\n", s.Correspondent, s.Thread)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		r := res.Report
		_, err := fmt.Fprintf(w, "\nscanned %d, recovered %d, skipped %d, duplicates %d\n",
			r.Scanned, r.Recovered, r.Skipped, r.Duplicates)
		return err
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}
