// Command synthgen emits a deterministic synthetic input dataset as
// JSON, for load testing the engine and rehearsing backfills.
package main

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/okian/vantage/internal/synthetic"
)

func main() {
	cfg := synthetic.DefaultConfig()

	seed := flag.Int64("seed", cfg.Seed, "random seed; identical seeds reproduce identical datasets")
	users := flag.Int("users", cfg.Users, "number of users")
	universities := flag.Int("universities", cfg.Universities, "number of registry universities")
	competitions := flag.Int("competitions", cfg.Competitions, "number of offline competitions")
	baseDate := flag.String("base-date", cfg.BaseDate.Format("2006-01-02"), "first competition start date (YYYY-MM-DD)")
	out := flag.String("out", "", "output file; empty writes to stdout")
	pretty := flag.Bool("pretty", false, "indent the JSON output")
	flag.Parse()

	cfg.Seed = *seed
	cfg.Users = *users
	cfg.Universities = *universities
	cfg.Competitions = *competitions

	if parsed, err := time.Parse("2006-01-02", *baseDate); err == nil {
		cfg.BaseDate = parsed
	} else {
		os.Stderr.WriteString("invalid base-date: " + err.Error() + "\n")
		os.Exit(2)
	}

	data := synthetic.Generate(cfg)

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			os.Stderr.WriteString("create output: " + err.Error() + "\n")
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(data); err != nil {
		os.Stderr.WriteString("encode dataset: " + err.Error() + "\n")
		os.Exit(1)
	}
}
