package main

import (
	"fmt"
	"os"
	"time"

	"law_desk_app_go/db"
	"law_desk_app_go/services"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	exportOut    string
	exportFields []string
)

// exportCmd writes an entity to a spreadsheet file
var exportCmd = &cobra.Command{
	Use:       "export <entity>",
	Short:     "Export clients, cases, invoices, events or documents to Excel",
	Args:      cobra.ExactArgs(1),
	ValidArgs: services.ExportEntities,
	RunE:      runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	entity := args[0]
	table, err := services.LoadExportTable(cmd.Context(), db.DB, entity, exportFields, desk.Location)
	if err != nil {
		return err
	}
	buf, err := services.ExportXLSX(table)
	if err != nil {
		return err
	}

	path := exportOut
	if path == "" {
		path = services.ExportFilename(entity, time.Now().In(desk.Location), "xlsx")
	}
	size := buf.Len()
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows (%s) to %s\n", len(table.Rows), humanize.Bytes(uint64(size)), path)
	return nil
}
