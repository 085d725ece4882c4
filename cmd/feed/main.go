package main

import (
	"context"
	"fmt"
	"os"

	"github.com/minifeed/feed-service/internal/cli"
)

// @title        minifeed API
// @version      1.0
// @description  JSON endpoints of the minifeed social feed. Pages are served as HTML and are not listed here.
// @BasePath     /
func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "feed: %v\n", err)
		os.Exit(1)
	}
}
