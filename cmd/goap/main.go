package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "plan":
		if err := plan(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "acquire":
		if err := acquire(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "catalog":
		if err := catalog(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "goals":
		if err := goals(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("goap version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`goap - goal-oriented action planning for game agents

Usage:
  goap <command> [options]

Commands:
  plan       Search for an action plan from a start state to a goal
  acquire    Pick craft vs. work-and-buy for an item
  catalog    List the static action catalog
  goals      Generate goals from an agent's needs
  help       Show this help message
  version    Show version information

Examples:
  # Plan against an explicit start state
  goap plan --start start.json --goal goal.json

  # Plan for an agent with world expansion
  goap plan --agent agent.json --world world.json --item bread

  # Acquisition strategy from bare numbers
  goap acquire --skill 85 --gold 100 sword

  # List gathering actions only
  goap catalog --category gathering

For command-specific help, run:
  goap <command> --help`)
}
