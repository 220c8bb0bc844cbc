package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/khatapp/khata/internal/core/services"
	"github.com/khatapp/khata/internal/store"
)

// cliContext holds global options shared by every command.
type cliContext struct {
	DataDir    string `default:"./data" help:"Directory for file-backed storage."`
	Backend    string `default:"file" enum:"file,sqlite" help:"Storage backend to use."`
	SQLitePath string `name:"sqlite-path" default:"./data/khata.db" help:"Database path for the sqlite backend."`
	Currency   string `default:"BDT" help:"Currency code used when seeding default accounts."`
	Verbose    bool   `help:"Log at debug level."`
}

func (c *cliContext) logger() *slog.Logger {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// open builds the storage stack the commands run against. The returned
// cleanup must be called before exit.
func (c *cliContext) open() (*store.RecordStore, func(), error) {
	var backend store.Store
	cleanup := func() {}
	switch c.Backend {
	case "sqlite":
		s, err := store.NewSQLiteStore(c.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		backend = s
		cleanup = func() { _ = s.Close() }
	default:
		s, err := store.NewFileStore(c.DataDir)
		if err != nil {
			return nil, nil, err
		}
		backend = s
	}
	return store.NewRecordStore(backend, c.logger()), cleanup, nil
}

type seedCmd struct{}

func (s *seedCmd) Run(c *cliContext) error {
	records, cleanup, err := c.open()
	if err != nil {
		return err
	}
	defer cleanup()

	seeder := services.NewSeedService(records, c.logger())
	doc, err := seeder.Initialize(context.Background(), c.Currency)
	if err != nil {
		return err
	}
	fmt.Printf("data ready: %d accounts, %d categories\n", len(doc.Accounts), len(doc.Categories))
	return nil
}

type exportCmd struct {
	Out string `default:"-" help:"Output file, or - for stdout."`
}

func (e *exportCmd) Run(c *cliContext) error {
	records, cleanup, err := c.open()
	if err != nil {
		return err
	}
	defer cleanup()

	backup := services.NewBackupService(records, c.logger())
	data, err := backup.Export(context.Background())
	if err != nil {
		return err
	}
	if e.Out == "-" {
		fmt.Println(data)
		return nil
	}
	return os.WriteFile(e.Out, []byte(data), 0o644)
}

type restoreCmd struct {
	File string `arg required help:"JSON backup file to restore from."`
}

func (r *restoreCmd) Run(c *cliContext) error {
	data, err := os.ReadFile(r.File)
	if err != nil {
		return err
	}

	records, cleanup, err := c.open()
	if err != nil {
		return err
	}
	defer cleanup()

	backup := services.NewBackupService(records, c.logger())
	if err := backup.Restore(context.Background(), string(data)); err != nil {
		return err
	}
	fmt.Println("restore complete")
	return nil
}

type exportCSVCmd struct {
	Out string `default:"-" help:"Output file, or - for stdout."`
}

func (e *exportCSVCmd) Run(c *cliContext) error {
	records, cleanup, err := c.open()
	if err != nil {
		return err
	}
	defer cleanup()

	w := os.Stdout
	if e.Out != "-" {
		f, err := os.Create(e.Out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	backup := services.NewBackupService(records, c.logger())
	return backup.ExportTransactionsCSV(context.Background(), w)
}

type statsCmd struct{}

func (s *statsCmd) Run(c *cliContext) error {
	records, cleanup, err := c.open()
	if err != nil {
		return err
	}
	defer cleanup()

	backup := services.NewBackupService(records, c.logger())
	stats, err := backup.Stats(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("accounts:     %d\n", stats.Accounts)
	fmt.Printf("categories:   %d\n", stats.Categories)
	fmt.Printf("transactions: %d\n", stats.Transactions)
	fmt.Printf("budgets:      %d\n", stats.Budgets)
	fmt.Printf("size:         %d bytes\n", stats.SizeBytes)
	fmt.Printf("version:      %s\n", stats.Version)
	return nil
}

type resetCmd struct {
	Yes bool `help:"Skip the confirmation prompt."`
}

func (r *resetCmd) Run(c *cliContext) error {
	if !r.Yes {
		fmt.Print("This deletes all stored data. Type 'yes' to continue: ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "yes" {
			fmt.Println("aborted")
			return nil
		}
	}

	records, cleanup, err := c.open()
	if err != nil {
		return err
	}
	defer cleanup()

	backup := services.NewBackupService(records, c.logger())
	if err := backup.Reset(context.Background()); err != nil {
		return err
	}
	fmt.Println("all data removed")
	return nil
}
