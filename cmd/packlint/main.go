package main

import (
	"fmt"
	"os"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "check":
		os.Exit(runCheck(args))
	case "watch":
		os.Exit(runWatch(args))
	case "serve":
		os.Exit(runServe(args))
	case "version":
		fmt.Printf("packlint %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Println("Usage: packlint <command> [flags] [paths]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  check      Classify a batch of JS/TS files and report violations")
	fmt.Println("  watch      Re-run the check whenever files change")
	fmt.Println("  serve      Start the MCP server on stdio")
	fmt.Println("  version    Print version")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("check flags:")
	fmt.Println("  --strict      Exit non-zero on any violation (fail-fast mode)")
	fmt.Println("  --no-check    Skip the type-check pass")
	fmt.Println("  --config      Path to config file (default .packlint.yaml)")
	fmt.Println("  --tsc         Type checker executable (default tsc)")
	fmt.Println("  --log-level   debug, info, warn or error")
}
