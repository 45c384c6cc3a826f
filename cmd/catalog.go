package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/exifreport/internal/exiftags"
	"github.com/lehigh-university-libraries/exifreport/internal/ui"
)

func newCatalogCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the EXIF fields each report category shows",
		Long: `Prints every category of the report with its fields and tag ids, in
report order. Output is a table on a terminal and tab separated otherwise.`,
		Example: `  exifreport catalog
  exifreport catalog --category "GPS Information"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories := exiftags.Default.Categories()
			if category != "" {
				if exiftags.Default.FieldsOf(category) == nil {
					return fmt.Errorf("unknown category %q", category)
				}
				categories = []string{category}
			}
			return printCatalog(cmd.OutOrStdout(), exiftags.Default, categories)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list this category")

	return cmd
}

func printCatalog(out io.Writer, catalog *exiftags.Catalog, categories []string) error {
	var rows [][]string
	for _, name := range categories {
		for _, f := range catalog.FieldsOf(name) {
			rows = append(rows, []string{name, f.Name, strconv.Itoa(int(f.Tag))})
		}
	}

	if !ui.IsTerminal(out) {
		for _, row := range rows {
			if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", row[0], row[1], row[2]); err != nil {
				return err
			}
		}
		return nil
	}

	r := lipgloss.NewRenderer(out)
	header := r.NewStyle().Foreground(ui.Accent).Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.NewStyle().Foreground(ui.Muted)).
		Headers("CATEGORY", "FIELD", "TAG").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	_, err := fmt.Fprintln(out, t.Render())
	return err
}
