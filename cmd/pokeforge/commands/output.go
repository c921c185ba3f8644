package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sternrassler/pokeforge-client/pkg/pagination"
)

const yamlIndentSize = 2

// render writes v in the configured format. table fills a table for the
// table format.
func (a *App) render(v any, table func(t *tablewriter.Table)) error {
	switch a.settings.Output {
	case OutputFormatJSON:
		encoder := json.NewEncoder(a.out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil

	case OutputFormatYAML:
		generic, err := toGeneric(v)
		if err != nil {
			return err
		}
		encoder := yaml.NewEncoder(a.out)
		encoder.SetIndent(yamlIndentSize)
		if err := encoder.Encode(generic); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return encoder.Close()

	default:
		t := tablewriter.NewWriter(a.out)
		table(t)
		return t.Render()
	}
}

// toGeneric round-trips v through JSON so YAML output uses the API's
// camelCase field names.
func toGeneric(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return generic, nil
}

// renderFields prints a single record as a two-column table.
func (a *App) renderFields(v any, fields [][2]string) error {
	return a.render(v, func(t *tablewriter.Table) {
		t.Header("Field", "Value")
		for _, f := range fields {
			_ = t.Append(f[0], f[1])
		}
	})
}

// listFlags are the paging flags shared by every list command.
type listFlags struct {
	Page        int
	PageSize    int
	All         bool
	Concurrency int
}

func addListFlags(cmd *cobra.Command, lf *listFlags, sizeName string) {
	cmd.Flags().IntVar(&lf.Page, "page", 1, "page to fetch")
	cmd.Flags().IntVar(&lf.PageSize, sizeName, 20, "results per page")
	cmd.Flags().BoolVar(&lf.All, "all", false, "fetch every remaining page")
	cmd.Flags().IntVar(&lf.Concurrency, "concurrency", pagination.DefaultConfig().MaxConcurrency, "parallel page fetches with --all")
}

type pageOutput[T any] struct {
	Data       []T                 `json:"data"`
	Pagination pagination.PageInfo `json:"pagination"`
}

// renderPage prints a page, or the page and every page after it with --all.
func renderPage[T any](ctx context.Context, a *App, page *pagination.Page[T], lf listFlags, header []any, row func(T) []any) error {
	items := page.Data()
	info := page.Info()

	if lf.All {
		all, err := pagination.NewBatchFetcher[T](pagination.Config{MaxConcurrency: lf.Concurrency}).Collect(ctx, page)
		if err != nil {
			return err
		}
		items = all
	}

	err := a.render(pageOutput[T]{Data: items, Pagination: info}, func(t *tablewriter.Table) {
		t.Header(header...)
		for _, item := range items {
			_ = t.Append(row(item)...)
		}
	})
	if err != nil {
		return err
	}

	if a.settings.Output == OutputFormatTable && !lf.All && info.HasNext {
		_, _ = fmt.Fprintf(a.out, "\nShowing page %d of %d (%d total). Use --all to fetch all pages.\n",
			info.Page, info.TotalPages, info.TotalCount)
	}
	return nil
}

func join(values []string) string {
	return strings.Join(values, ", ")
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
