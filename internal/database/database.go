package database

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/eugenenazirov/contacts-cli/internal/config"
)

// ConnString builds a PostgreSQL connection URL from the database block.
// Credentials are escaped by net/url.
func ConnString(db config.Database) string {
	return connURL(db).String()
}

// RedactedConnString is ConnString with the password masked, for logs.
func RedactedConnString(db config.Database) string {
	return connURL(db).Redacted()
}

func connURL(db config.Database) *url.URL {
	sslMode := "disable"
	if db.SSL {
		sslMode = "require"
	}

	port := db.Port
	if port == 0 {
		port = config.DefaultDatabasePort
	}

	u := &url.URL{
		Scheme:   "postgres",
		Host:     db.Host + ":" + strconv.Itoa(port),
		Path:     "/" + db.Name,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	if db.Password != "" {
		u.User = url.UserPassword(db.Username, db.Password)
	} else {
		u.User = url.User(db.Username)
	}
	return u
}

// Ping opens a single connection, pings the server and closes it. Bound the
// call with ctx.
func Ping(ctx context.Context, db config.Database) error {
	connCfg, err := pgx.ParseConfig(ConnString(db))
	if err != nil {
		return fmt.Errorf("parse connection string: %w", err)
	}

	conn, err := pgx.ConnectConfig(ctx, connCfg)
	if err != nil {
		return fmt.Errorf("connect %s: %w", RedactedConnString(db), err)
	}
	defer func() {
		_ = conn.Close(context.WithoutCancel(ctx))
	}()

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", RedactedConnString(db), err)
	}
	return nil
}
