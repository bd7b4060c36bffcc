package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/dopatch/cmd/dopatch"
	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/ui/styles"
)

func main() {
	rootCmd := dopatch.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Print the error in red
		fmt.Fprintln(os.Stderr, styles.Default.Render("Error", fmt.Sprintf("Error: %v", err)))
		if errors.IsRetryable(err) {
			fmt.Fprintln(os.Stderr, styles.Default.Render("Muted", "The failure may be transient; retrying can succeed."))
		}
		os.Exit(1)
	}
}
