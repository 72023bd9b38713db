// Command ingest-data downloads a CSV file and appends it, chunk by chunk, to
// a database table.
//
//	ingest-data --user root --password root --host localhost --port 5432 \
//	  --db ny_taxi --table_name yellow_taxi_data \
//	  --url https://example.org/yellow_tripdata_2021-01.csv
//
// Exit codes:
//
//	0  success
//	1  unexpected error
//	2  invalid flags or configuration
//	3  download failed or local file missing
//	4  CSV could not be parsed or converted
//	5  database rejected a write
//	6  database connection failed
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, defaultDeps())
	stop()
	os.Exit(code)
}
