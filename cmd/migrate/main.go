// migrate applies or rolls back the embedded schema migrations.
// The server runs pending migrations on startup; this command exists for
// operating on the database without starting the service.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/postline/postline/backend/go-services/internal/config"
	"github.com/postline/postline/backend/go-services/internal/database"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.Postgres.DSN == "" {
		fmt.Fprintln(os.Stderr, "POSTGRES_DSN is not set")
		os.Exit(1)
	}

	switch *direction {
	case "up":
		err = database.Migrate(cfg.Postgres.DSN)
	case "down":
		err = database.MigrateDown(cfg.Postgres.DSN)
	default:
		fmt.Fprintf(os.Stderr, "unknown direction %q\n", *direction)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
