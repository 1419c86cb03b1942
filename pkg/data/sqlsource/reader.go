package sqlsource

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/peter-kozarec/equitycalc/pkg/equity"
)

const (
	DriverDuckDB     = "duckdb"
	DriverClickHouse = "clickhouse"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Reader loads series from a table with columns
// (symbol, ts, position, open, close[, rollover]).
type Reader struct {
	logger         *zap.Logger
	driverName     string
	dataSourceName string
	db             *sql.DB
}

func NewReader(logger *zap.Logger, driverName, dataSourceName string) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{
		logger:         logger,
		driverName:     driverName,
		dataSourceName: dataSourceName,
	}
}

func (r *Reader) Connect(ctx context.Context) error {
	switch r.driverName {
	case DriverDuckDB, DriverClickHouse:
	default:
		return fmt.Errorf("unsupported driver %q", r.driverName)
	}

	db, err := sql.Open(r.driverName, r.dataSourceName)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("unable to reach %s: %w", r.driverName, err)
	}

	r.db = db
	r.logger.Debug("series source connected", zap.String("driver", r.driverName))
	return nil
}

func (r *Reader) DB() *sql.DB { return r.db }

func (r *Reader) Close() {
	if r.db != nil {
		_ = r.db.Close()
	}
}

// Symbols lists the distinct symbols present in table.
func (r *Reader) Symbols(ctx context.Context, table string) ([]string, error) {
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT DISTINCT symbol FROM %s ORDER BY symbol`, table))
	if err != nil {
		return nil, fmt.Errorf("error querying symbols: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("error scanning symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error scanning rows: %w", err)
	}
	return symbols, nil
}

// LoadSeries reads the bars of symbol in time order.
func (r *Reader) LoadSeries(ctx context.Context, table, symbol string, withRollover bool) (equity.Series, error) {
	if !identifier.MatchString(table) {
		return equity.Series{}, fmt.Errorf("invalid table name %q", table)
	}

	columns := "position, open, close"
	if withRollover {
		columns += ", rollover"
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE symbol = ? ORDER BY ts`, columns, table)

	rows, err := r.db.QueryContext(ctx, query, symbol)
	if err != nil {
		return equity.Series{}, fmt.Errorf("error querying series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var series equity.Series
	if withRollover {
		series.Rollover = []bool{}
	}

	var bar equity.Bar
	for rows.Next() {
		bar = equity.Bar{}
		if withRollover {
			err = rows.Scan(&bar.Position, &bar.OpeningCost, &bar.ClosingCost, &bar.Rollover)
		} else {
			err = rows.Scan(&bar.Position, &bar.OpeningCost, &bar.ClosingCost)
		}
		if err != nil {
			return equity.Series{}, fmt.Errorf("error scanning row: %w", err)
		}
		series.Append(bar, withRollover)
	}
	if err := rows.Err(); err != nil {
		return equity.Series{}, fmt.Errorf("error scanning rows: %w", err)
	}

	r.logger.Debug("series loaded",
		zap.String("table", table),
		zap.String("symbol", symbol),
		zap.Int("steps", series.Len()))
	return series, nil
}
