package main

import (
	"context"
	"os"

	"github.com/kickit-app/kickit/cmd"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
