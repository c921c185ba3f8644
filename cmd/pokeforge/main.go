package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Sternrassler/pokeforge-client/cmd/pokeforge/commands"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	commands.Version = version + " (" + commit + ")"

	if err := commands.Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
