package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iota-uz/hradmin/modules/hrm"
	"github.com/iota-uz/hradmin/modules/hrm/domain/entities/employmentstatus"
	"github.com/iota-uz/hradmin/modules/hrm/domain/entities/relation"
	"github.com/iota-uz/hradmin/modules/hrm/domain/entities/tribe"
	"github.com/iota-uz/hradmin/modules/hrm/services"
	"github.com/iota-uz/hradmin/pkg/entity"
	"github.com/iota-uz/hradmin/pkg/listview"
	"github.com/iota-uz/hradmin/pkg/mutation"
)

// entityBinding binds one reference collection to the generic CRUD subcommands.
type entityBinding[T entity.Entity, D services.Draft[D]] struct {
	use     string
	aliases []string
	config  services.Config[T]
	service func(*hrm.Module) *services.ReferenceService[T, D]
	// fields are the draft keys settable from flags.
	fields []string
	build  func(values map[string]string) D
	values func(T) map[string]string
}

func newTribesCmd(opts *rootOptions) *cobra.Command {
	return newEntityCmd(opts, entityBinding[tribe.Tribe, tribe.Draft]{
		use:     "tribes",
		aliases: []string{"tribe"},
		config:  hrm.TribeConfig(),
		service: func(m *hrm.Module) *services.TribeService { return m.Tribes },
		fields:  []string{"short_code", "name"},
		build: func(v map[string]string) tribe.Draft {
			return tribe.Draft{ShortCode: v["short_code"], Name: v["name"]}
		},
		values: func(t tribe.Tribe) map[string]string {
			return map[string]string{"short_code": t.ShortCode, "name": t.Name}
		},
	})
}

func newRelationsCmd(opts *rootOptions) *cobra.Command {
	return newEntityCmd(opts, entityBinding[relation.Relation, relation.Draft]{
		use:     "relations",
		aliases: []string{"relation"},
		config:  hrm.RelationConfig(),
		service: func(m *hrm.Module) *services.RelationService { return m.Relations },
		fields:  []string{"short_code", "name"},
		build: func(v map[string]string) relation.Draft {
			return relation.Draft{ShortCode: v["short_code"], Name: v["name"]}
		},
		values: func(r relation.Relation) map[string]string {
			return map[string]string{"short_code": r.ShortCode, "name": r.Name}
		},
	})
}

func newEmploymentStatusesCmd(opts *rootOptions) *cobra.Command {
	return newEntityCmd(opts, entityBinding[employmentstatus.EmploymentStatus, employmentstatus.Draft]{
		use:     "employment-statuses",
		aliases: []string{"employment-status", "statuses"},
		config:  hrm.EmploymentStatusConfig(),
		service: func(m *hrm.Module) *services.EmploymentStatusService { return m.EmploymentStatuses },
		fields:  []string{"name"},
		build: func(v map[string]string) employmentstatus.Draft {
			return employmentstatus.Draft{Name: v["name"]}
		},
		values: func(s employmentstatus.EmploymentStatus) map[string]string {
			return map[string]string{"name": s.Name}
		},
	})
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func newEntityCmd[T entity.Entity, D services.Draft[D]](opts *rootOptions, b entityBinding[T, D]) *cobra.Command {
	cmd := &cobra.Command{
		Use:     b.use,
		Aliases: b.aliases,
		Short:   fmt.Sprintf("Manage %s", strings.ReplaceAll(b.use, "-", " ")),
	}
	cmd.AddCommand(newListCmd(opts, b))
	cmd.AddCommand(newGetCmd(opts, b))
	cmd.AddCommand(newCreateCmd(opts, b))
	cmd.AddCommand(newUpdateCmd(opts, b))
	cmd.AddCommand(newDeleteCmd(opts, b))
	cmd.AddCommand(newExportCmd(opts, b))
	return cmd
}

// filterFlags registers one string flag per filter key.
func filterFlags(cmd *cobra.Command, keys []string) map[string]*string {
	out := make(map[string]*string, len(keys))
	for _, key := range keys {
		out[key] = cmd.Flags().String(flagName(key), "", fmt.Sprintf("Case-insensitive substring filter on %s", key))
	}
	return out
}

func applyFilters[T entity.Entity, D services.Draft[D]](svc *services.ReferenceService[T, D], filters map[string]*string) {
	for key, value := range filters {
		svc.SetFilter(key, *value)
	}
}

func newListCmd[T entity.Entity, D services.Draft[D]](opts *rootOptions, b entityBinding[T, D]) *cobra.Command {
	var page, pageSize int
	var filters map[string]*string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of the filtered collection",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return withCode(exitUsage, fmt.Errorf("--page must be >= 1, got %d", page))
			}
			if pageSize == 0 {
				pageSize = opts.conf.List.PageSize
			}
			if pageSize < 1 || pageSize > opts.conf.List.MaxPageSize {
				return withCode(exitUsage, fmt.Errorf("--page-size must be between 1 and %d, got %d", opts.conf.List.MaxPageSize, pageSize))
			}
			m, err := opts.hrm()
			if err != nil {
				return err
			}
			svc := b.service(m)
			if err := svc.Load(cmd.Context(), nil); err != nil {
				return remoteError(err)
			}
			applyFilters(svc, filters)
			svc.ChangePageSize(pageSize)
			svc.ChangePage(page)

			w := svc.Window()
			return render(opts.stdout, opts.output, w, func() table {
				return windowTable(b.config.Columns, w)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Items per page (defaults to PAGE_SIZE)")
	filters = filterFlags(cmd, b.config.Filter.Keys())
	return cmd
}

func newGetCmd[T entity.Entity, D services.Draft[D]](opts *rootOptions, b entityBinding[T, D]) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch one item by id",
		Args:  exactArgs(1, "id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.hrm()
			if err != nil {
				return err
			}
			item, err := b.service(m).Get(cmd.Context(), entity.ID(args[0]))
			if err != nil {
				return remoteError(err)
			}
			return renderItem(opts, b.config.Columns, item)
		},
	}
}

func draftFlags(cmd *cobra.Command, fields []string) map[string]*string {
	out := make(map[string]*string, len(fields))
	for _, field := range fields {
		out[field] = cmd.Flags().String(flagName(field), "", field)
	}
	return out
}

func newCreateCmd[T entity.Entity, D services.Draft[D]](opts *rootOptions, b entityBinding[T, D]) *cobra.Command {
	var values map[string]*string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an item",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.hrm()
			if err != nil {
				return err
			}
			raw := make(map[string]string, len(values))
			for k, v := range values {
				raw[k] = *v
			}
			res := b.service(m).Create(cmd.Context(), b.build(raw))
			if err := resultError(res); err != nil {
				return err
			}
			return renderItem(opts, b.config.Columns, res.Entity)
		},
	}
	values = draftFlags(cmd, b.fields)
	return cmd
}

// newUpdateCmd sends the current server values overlaid with the flags that were set.
func newUpdateCmd[T entity.Entity, D services.Draft[D]](opts *rootOptions, b entityBinding[T, D]) *cobra.Command {
	var values map[string]*string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an item",
		Args:  exactArgs(1, "id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.hrm()
			if err != nil {
				return err
			}
			svc := b.service(m)
			id := entity.ID(args[0])
			current, err := svc.Get(cmd.Context(), id)
			if err != nil {
				return remoteError(err)
			}
			raw := b.values(current)
			for k, v := range values {
				if cmd.Flags().Changed(flagName(k)) {
					raw[k] = *v
				}
			}
			res := svc.Update(cmd.Context(), id, b.build(raw))
			if err := resultError(res); err != nil {
				return err
			}
			return renderItem(opts, b.config.Columns, res.Entity)
		},
	}
	values = draftFlags(cmd, b.fields)
	return cmd
}

func newDeleteCmd[T entity.Entity, D services.Draft[D]](opts *rootOptions, b entityBinding[T, D]) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item",
		Args:  exactArgs(1, "id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.hrm()
			if err != nil {
				return err
			}
			id := entity.ID(args[0])
			res := b.service(m).Delete(cmd.Context(), id)
			if err := resultError(res); err != nil {
				return err
			}
			type deleteSummary struct {
				Status string    `json:"status" yaml:"status"`
				ID     entity.ID `json:"id" yaml:"id"`
			}
			return render(opts.stdout, opts.output, deleteSummary{Status: "deleted", ID: id}, nil)
		},
	}
}

func newExportCmd[T entity.Entity, D services.Draft[D]](opts *rootOptions, b entityBinding[T, D]) *cobra.Command {
	var file string
	var filters map[string]*string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered collection to an .xlsx file",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(file) == "" {
				return withCode(exitUsage, fmt.Errorf("--file is required"))
			}
			m, err := opts.hrm()
			if err != nil {
				return err
			}
			svc := b.service(m)
			if err := svc.Load(cmd.Context(), nil); err != nil {
				return remoteError(err)
			}
			applyFilters(svc, filters)

			f, err := os.Create(file)
			if err != nil {
				return withCode(exitUsage, err)
			}
			if err := svc.Export(f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			type exportSummary struct {
				Status string `json:"status" yaml:"status"`
				File   string `json:"file" yaml:"file"`
				Rows   int    `json:"rows" yaml:"rows"`
			}
			return render(opts.stdout, opts.output, exportSummary{
				Status: "exported",
				File:   file,
				Rows:   len(svc.Filtered()),
			}, nil)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Destination .xlsx path (required)")
	filters = filterFlags(cmd, b.config.Filter.Keys())
	return cmd
}

// resultError turns a failed mutation into an exit code. The notification has already
// been printed.
func resultError[T entity.Entity](res mutation.Result[T]) error {
	if res.OK() {
		return nil
	}
	if len(res.FieldErrors) > 0 {
		return withCode(exitValidation, res.FieldErrors)
	}
	return remoteError(res.Err)
}

func renderItem[T entity.Entity](opts *rootOptions, columns []services.Column[T], item T) error {
	return render(opts.stdout, opts.output, item, func() table {
		return table{header: headers(columns), rows: [][]string{row(columns, item)}}
	})
}

func windowTable[T any](columns []services.Column[T], w listview.Window[T]) table {
	t := table{header: headers(columns)}
	for _, item := range w.Items {
		t.rows = append(t.rows, row(columns, item))
	}
	t.footer = "page " + strconv.Itoa(w.Page) + "/" + strconv.Itoa(w.PageCount) +
		" · " + strconv.Itoa(w.Filtered) + " of " + strconv.Itoa(w.Total)
	return t
}

func headers[T any](columns []services.Column[T]) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = strings.ToUpper(col.Header)
	}
	return out
}

func row[T any](columns []services.Column[T], item T) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = col.Value(item)
	}
	return out
}
