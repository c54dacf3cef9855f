package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-goap/action"
)

func catalog(args []string) error {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)
	category := fs.String("category", "", "only list one category")
	asJSON := fs.Bool("json", false, "dump full definitions as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: goap catalog [options]

List the static action catalog.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cat := action.NewCatalog()
	actions := cat.All()
	if *category != "" {
		actions = cat.ByCategory(*category)
		if len(actions) == 0 {
			return fmt.Errorf("no actions in category %q", *category)
		}
	}

	if *asJSON {
		out, err := json.MarshalIndent(actions, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for _, a := range actions {
		fmt.Printf("%-14s %-10s cost=%.1f\n", a.Name, a.Category, a.Cost)
	}
	fmt.Fprintf(os.Stderr, "%d actions\n", len(actions))

	return nil
}
