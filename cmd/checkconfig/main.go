// Command checkconfig validates a spot configuration file and prints every
// violation found, one per line.
//
// Usage:
//
//	go run ./cmd/checkconfig -config config.yaml
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/levantkite/windforecast/internal/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to spot configuration file")
	flag.Parse()

	os.Exit(run(*configPath))
}

func run(path string) int {
	cfg, err := config.LoadSpotsFile(path)

	var verr *config.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintf(os.Stderr, "%s: %d violation(s)\n", path, len(verr.Violations))
		for _, v := range verr.Violations {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", v.Field, v.Message)
		}
		return 1
	case err != nil:
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		return 1
	}

	fmt.Printf("%s: ok (%d spots, %d bands)\n", path, len(cfg.Spots), len(cfg.Conditions.Bands))
	return 0
}
