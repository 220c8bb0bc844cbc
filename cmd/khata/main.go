/*Command line access to the local khata data store.*/
package main

import (
	"github.com/alecthomas/kong"
)

// cli commands / args available
var cli struct {
	Ctx cliContext `embed`

	Seed      seedCmd      `cmd help:"Create the default accounts and categories if no data exists."`
	Export    exportCmd    `cmd help:"Write a full JSON backup to a file or stdout."`
	Restore   restoreCmd   `cmd help:"Replace the stored data with a JSON backup file."`
	ExportCSV exportCSVCmd `cmd name:"export-csv" help:"Write the transaction ledger as CSV."`
	Stats     statsCmd     `cmd help:"Show collection counts and data size."`
	Reset     resetCmd     `cmd help:"Delete all stored data."`
}

func main() {
	ctx := kong.Parse(&cli)
	err := ctx.Run(&cli.Ctx)
	ctx.FatalIfErrorf(err)
}
