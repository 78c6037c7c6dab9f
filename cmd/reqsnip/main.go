// Command reqsnip emits Rust reqwest request fragments for every operation of
// an OpenAPI or Swagger document.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/reqsnip/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
