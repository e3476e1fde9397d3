package metrics

import (
	"database/sql"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// RegisterDBStats exports the sql.DBStats of db as go_sql_* metrics labelled
// with db_name. Registering the same name twice is not an error.
func RegisterDBStats(reg prometheus.Registerer, db *sql.DB, name string) error {
	err := reg.Register(collectors.NewDBStatsCollector(db, name))
	var dup prometheus.AlreadyRegisteredError
	if errors.As(err, &dup) {
		return nil
	}
	return err
}
