package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Scheduled cleanup: the ledger's 7-day retention and the upset boards'
// 30-day retention are enforced here, not in the bot process.
func handler(ctx context.Context) (string, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return "no DATABASE_URL", nil
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Sprintf("parse: %v", err), nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Sprintf("pool: %v", err), nil
	}
	defer pool.Close()

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// set_messages rows go with their ledger row (ON DELETE CASCADE)
	_, _ = pool.Exec(cctx, `DELETE FROM processed_sets WHERE updated_at < now() - INTERVAL '7 days';`)
	_, _ = pool.Exec(cctx, `DELETE FROM upset_entries WHERE created_at < now() - INTERVAL '30 days';`)
	_, _ = pool.Exec(cctx, `DELETE FROM live_dashboards WHERE updated_at < now() - INTERVAL '7 days';`)

	return "ok", nil
}

func main() { lambda.Start(handler) }
