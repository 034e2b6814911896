package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/store"
)

// doctorCommand checks the data directory, the storage backend, and the
// health of the persisted blob.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskdeck doctor", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fmt.Println("taskdeck doctor")
	fmt.Println("===============")
	fmt.Println()

	allOK := true

	fmt.Printf("Data dir: %s\n", cfg.DataDir)
	if fi, err := os.Stat(cfg.DataDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("  - Not created yet (will be created on first write)")
		} else {
			fmt.Printf("  FAIL: %v\n", err)
			allOK = false
		}
	} else if !fi.IsDir() {
		fmt.Println("  FAIL: not a directory")
		allOK = false
	} else {
		fmt.Println("  OK")
	}
	fmt.Println()

	fmt.Printf("Backend: %s\n", cfg.Backend)
	backend, err := openBackend(cfg)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return fmt.Errorf("doctor found problems")
	}
	defer backend.Close()
	fmt.Println("  OK")
	fmt.Println()

	fmt.Printf("Stored data (key %s):\n", store.Key)
	report, err := store.New(backend).Inspect()
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		allOK = false
	} else if !report.KeyPresent {
		fmt.Println("  - No data yet (reads return an empty list)")
	} else {
		fmt.Printf("  %d bytes, %d tasks\n", report.Size, report.TaskCount)
		if report.OK() {
			fmt.Println("  OK: blob parses and matches the schema")
		} else {
			allOK = false
			for _, p := range report.Problems {
				fmt.Printf("  WARN: %s\n", p)
			}
		}
	}
	fmt.Println()

	if !allOK {
		fmt.Println("Problems found. Corrupted data is treated as an empty list;")
		fmt.Println("run `taskdeck clear -f` to discard it.")
		return fmt.Errorf("doctor found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}
