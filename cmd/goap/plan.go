package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pflow-xyz/go-goap/action"
	"github.com/pflow-xyz/go-goap/planner"
	"github.com/pflow-xyz/go-goap/state"
	"github.com/pflow-xyz/go-goap/strategy"
	"github.com/pflow-xyz/go-goap/world"
)

func plan(args []string) error {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	startFile := fs.String("start", "", "JSON file with the start facts (alternative to --agent)")
	agentFile := fs.String("agent", "", "JSON file with the agent state")
	worldFile := fs.String("world", "", "JSON file with the world snapshot")
	goalFile := fs.String("goal", "", "JSON file with the goal conditions")
	item := fs.String("item", "", "item acquisition goal (alternative to --goal)")
	quantity := fs.Int("quantity", 1, "item quantity for --item goals")
	depth := fs.Int("depth", planner.DefaultMaxDepth, "maximum plan length")
	nodes := fs.Int("nodes", planner.DefaultMaxNodes, "node budget, 0 for unbounded")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: goap plan [options]

Search for an action plan. The operator set is the static catalog,
plus the world expansion when an agent is given.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Explicit start facts and goal conditions
  goap plan --start start.json --goal goal.json

  # Item goal resolved through the strategist
  goap plan --agent agent.json --world world.json --item bread
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		start state.State
		agent *world.AgentState
		snap  world.Snapshot
	)

	if *agentFile != "" {
		var a world.AgentState
		if err := readJSON(*agentFile, &a); err != nil {
			return fmt.Errorf("read agent: %w", err)
		}
		agent = &a
	}
	if *worldFile != "" {
		if err := readJSON(*worldFile, &snap); err != nil {
			return fmt.Errorf("read world: %w", err)
		}
	}

	switch {
	case *startFile != "":
		var facts map[string]any
		if err := readJSON(*startFile, &facts); err != nil {
			return fmt.Errorf("read start: %w", err)
		}
		start = state.New(facts)
	case agent != nil:
		start = agent.PlanningState()
	default:
		fs.Usage()
		return fmt.Errorf("--start or --agent required")
	}

	ops := action.NewCatalog().All()
	if agent != nil {
		ops = append(ops, action.Expand(*agent, snap)...)
	}

	var target planner.Goal
	switch {
	case *goalFile != "":
		var conds map[string]any
		if err := readJSON(*goalFile, &conds); err != nil {
			return fmt.Errorf("read goal: %w", err)
		}
		target = planner.GoalFromMap(conds)
	case *item != "":
		if agent != nil {
			d := strategy.Decide(*item, *agent, snap)
			fmt.Fprintf(os.Stderr, "Strategy: %s (%s)\n", d.Choice, d.Reason)
		}
		target = planner.GoalFromMap(map[string]any{
			"has_" + *item: float64(*quantity),
		})
	default:
		fs.Usage()
		return fmt.Errorf("--goal or --item required")
	}

	pl := planner.New().WithMaxDepth(*depth).WithMaxNodes(*nodes)

	startedAt := time.Now()
	res := pl.Plan(start, target, ops)
	elapsed := time.Since(startedAt)

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	fmt.Fprintf(os.Stderr, "Outcome: %s\n", res.Outcome)
	fmt.Fprintf(os.Stderr, "  Steps: %d\n", len(res.Plan))
	fmt.Fprintf(os.Stderr, "  Cost: %.1f\n", res.Cost)
	fmt.Fprintf(os.Stderr, "  Explored: %d nodes in %s\n", res.Explored, elapsed.Round(time.Microsecond))

	return nil
}

// readJSON loads one JSON file into dst.
func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
