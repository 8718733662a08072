package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lawnchairsociety/staminaweight/test"
)

func main() {
	serverAddr := flag.String("addr", "localhost:4443", "weightd websocket address (host:port or ws:// URL)")
	verbose := flag.Bool("v", false, "Verbose output - show detailed actions for each test")
	flag.Parse()

	test.Verbose = *verbose

	fmt.Printf("Running integration tests against %s\n", *serverAddr)
	fmt.Println("Make sure weightd is running!")
	if *verbose {
		fmt.Println("Verbose mode enabled - showing detailed test actions")
	}
	fmt.Println()

	results := test.RunAllTests(*serverAddr)
	test.PrintResults(results)

	for _, result := range results {
		if !result.Passed {
			os.Exit(1)
		}
	}
}
