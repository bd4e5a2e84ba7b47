package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"issuerpick/internal/domain"
	"issuerpick/internal/page"
	"issuerpick/internal/picker"
)

type listEntry struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Tags  []string `json:"tags,omitempty"`
}

func (a *app) listCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list [filter]",
		Short: "Print the issuers the login page shows for a search text",
		Long: `List prints the configured issuers in page order. With a filter it keeps
the issuers whose name or tags contain the filter, ignoring case, exactly as
typing into the page's search field would.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := a.loadConfig(nil)
			if err != nil {
				return err
			}
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}
			issuers := picker.FilterIssuers(page.SortIssuers(cfg.Issuers), filter)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), issuers)
			}
			return writeTable(cmd.OutOrStdout(), issuers)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func entries(issuers []domain.Issuer) []listEntry {
	out := make([]listEntry, 0, len(issuers))
	for _, iss := range issuers {
		out = append(out, listEntry{ID: iss.ID, Label: iss.Label(), Tags: iss.Tags})
	}
	return out
}

func writeJSON(w io.Writer, issuers []domain.Issuer) error {
	data, err := json.MarshalIndent(entries(issuers), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode issuers: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeTable(w io.Writer, issuers []domain.Issuer) error {
	rows := [][]string{{"NAME", "ID", "TAGS"}}
	for _, e := range entries(issuers) {
		rows = append(rows, []string{e.Label, e.ID, strings.Join(e.Tags, ",")})
	}

	widths := make([]int, 2)
	for _, row := range rows {
		for i := range widths {
			if n := runewidth.StringWidth(row[i]); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for _, row := range rows {
		line := runewidth.FillRight(row[0], widths[0]) + "  " +
			runewidth.FillRight(row[1], widths[1]) + "  " + row[2]
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}
