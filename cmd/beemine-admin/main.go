package main

import (
	"context"
	"fmt"
	"os"

	"beemine-admin/cmd"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := cmd.NewRootCmd(version, buildDate).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
