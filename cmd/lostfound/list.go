package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/five82/lostfound/internal/app"
	"github.com/five82/lostfound/internal/filter"
	"github.com/five82/lostfound/internal/lostfound"
)

const tableCellMaxWidth = 40

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List reported items",
	Long: `List reported items.

--status narrows to lost, found or claimed. --query keeps items whose title or
location contains the text, ignoring case.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listStatus string
	listQuery  string
	listJSON   bool
)

func init() {
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "all", "Filter by status (all, lost, found, claimed)")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Filter by title or location")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	status, err := filter.ParseStatus(listStatus)
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	cfg, err := loadConsole()
	if err != nil {
		return err
	}
	client, err := app.NewClient(cfg)
	if err != nil {
		return err
	}

	items, err := client.ListItems(cmd.Context())
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}
	items = filter.Apply(items, status, listQuery)

	if listJSON {
		return writeItemsJSON(os.Stdout, items)
	}
	if len(items) == 0 {
		fmt.Println("No items found.")
		return nil
	}
	fmt.Print(formatItemTable(items))
	return nil
}

func writeItemsJSON(w io.Writer, items []lostfound.Item) error {
	if items == nil {
		items = []lostfound.Item{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// formatItemTable renders items as a borderless aligned table.
func formatItemTable(items []lostfound.Item) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			truncateCell(item.ID.String()),
			item.Status.Label(),
			truncateCell(item.Date),
			truncateCell(item.Title),
			truncateCell(item.Location),
		})
	}

	cell := lipgloss.NewStyle().PaddingRight(2)
	header := cell.Bold(true)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Headers("ID", "STATUS", "DATE", "TITLE", "LOCATION").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	return t.String() + "\n"
}

func truncateCell(s string) string {
	return runewidth.Truncate(s, tableCellMaxWidth, "…")
}
