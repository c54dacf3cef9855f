package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pflow-xyz/go-goap/goal"
	"github.com/pflow-xyz/go-goap/world"
)

func goals(args []string) error {
	fs := flag.NewFlagSet("goals", flag.ExitOnError)
	agentFile := fs.String("agent", "", "JSON file with the agent state (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: goap goals --agent agent.json

Generate goals from an agent's needs and situation.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *agentFile == "" {
		fs.Usage()
		return fmt.Errorf("--agent required")
	}

	var agent world.AgentState
	if err := readJSON(*agentFile, &agent); err != nil {
		return fmt.Errorf("read agent: %w", err)
	}

	generated := goal.Generate(agent, time.Now())

	out, err := json.MarshalIndent(generated, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	fmt.Fprintf(os.Stderr, "%d goals for %s\n", len(generated), agent.ID)

	return nil
}
