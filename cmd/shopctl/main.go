package main

import (
	"fmt"
	"os"

	"MiniShop/internal/shopctl"
)

func main() {
	if err := shopctl.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(shopctl.ExitCode(err))
	}
}
