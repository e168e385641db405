package main

import (
	"context"
	"fmt"
	"os"

	"github.com/danielpatrickdp/clive/internal/cli"
)

func main() {
	app := cli.NewApp()
	defer app.Close()

	if err := cli.NewRootCmd(app).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		app.Close()
		os.Exit(1)
	}
}
