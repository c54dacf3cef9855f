package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-goap/strategy"
	"github.com/pflow-xyz/go-goap/world"
)

func acquire(args []string) error {
	fs := flag.NewFlagSet("acquire", flag.ExitOnError)
	agentFile := fs.String("agent", "", "JSON file with the agent state (overrides --skill/--gold)")
	worldFile := fs.String("world", "", "JSON file with the world snapshot")
	skill := fs.Float64("skill", 0, "crafting skill when no agent file is given")
	gold := fs.Float64("gold", 0, "gold on hand when no agent file is given")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: goap acquire [options] <item>

Evaluate the craft and work-and-buy paths for an item and pick one.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Bare numbers, no files
  goap acquire --skill 85 --gold 100 sword

  # Full agent and market
  goap acquire --agent agent.json --world world.json bread
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("item required")
	}
	item := fs.Arg(0)

	var agent world.AgentState
	if *agentFile != "" {
		if err := readJSON(*agentFile, &agent); err != nil {
			return fmt.Errorf("read agent: %w", err)
		}
	} else {
		agent = world.AgentState{
			ID:     "cli",
			Gold:   *gold,
			Skills: map[string]float64{"crafting": *skill},
		}
	}

	var snap world.Snapshot
	if *worldFile != "" {
		if err := readJSON(*worldFile, &snap); err != nil {
			return fmt.Errorf("read world: %w", err)
		}
	}

	d := strategy.Decide(item, agent, snap)

	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	fmt.Fprintf(os.Stderr, "Choice: %s\n", d.Choice)
	fmt.Fprintf(os.Stderr, "  Reason: %s\n", d.Reason)

	return nil
}
