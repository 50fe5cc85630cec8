package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/sanket-telunagi/pyautos/internal/app"
	"github.com/sanket-telunagi/pyautos/internal/logging"
)

// main initializes the application runner and executes it with the
// command-line arguments. Step failures are reflected in the report, not in
// the exit code; only usage and fatal config problems exit non-zero.
func main() {
	runner := app.NewAppRunner()

	err := runner.Run(os.Args[1:])
	if err != nil {
		log.Printf("[ERROR] Application execution failed: %v", err)
		if errors.Is(err, app.ErrUsage) || errors.Is(err, app.ErrConfigNotFound) {
			fmt.Fprintln(os.Stderr, "")
			runner.Usage(os.Stderr)
		}
		if logging.GetLevel() < logging.Error {
			logging.SetLevel(logging.Error)
		}
		os.Exit(1)
	}

	logging.Logf(logging.Info, "Run completed.")
}
