package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iota-uz/hradmin/pkg/spotlight"
)

func newFindCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy search across tribes, relations and employment statuses",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || strings.TrimSpace(strings.Join(args, " ")) == "" {
				return withCode(exitUsage, fmt.Errorf("find expects a query"))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return withCode(exitUsage, fmt.Errorf("--limit must be >= 0, got %d", limit))
			}
			m, err := opts.hrm()
			if err != nil {
				return err
			}
			if err := m.LoadAll(cmd.Context()); err != nil {
				return remoteError(err)
			}
			items := m.Find(strings.Join(args, " "), limit)
			if items == nil {
				items = []spotlight.Item{}
			}
			return render(opts.stdout, opts.output, items, func() table {
				t := table{header: []string{"KIND", "ID", "LABEL"}}
				for _, it := range items {
					t.rows = append(t.rows, []string{it.Kind, it.ID.String(), it.Label})
				}
				return t
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of results (0 = unlimited)")
	return cmd
}
