package metrics

import (
	"database/sql"
	"time"
)

// CallMetric records one backend API call.
type CallMetric struct {
	Endpoint  string
	Status    int // 0 means the request never got a response
	LatencyMS int64
	Timestamp time.Time
}

// Store handles persistence of call metrics to SQLite. It implements the
// backend client's Recorder interface.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves one call sample to the database.
func (s *Store) Record(endpoint string, status int, latency time.Duration) error {
	_, err := s.db.Exec(
		`INSERT INTO call_metrics (endpoint, status, latency_ms, timestamp) VALUES (?, ?, ?, ?)`,
		endpoint, status, latency.Milliseconds(), time.Now().UTC(),
	)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EndpointUsage represents call totals for a single endpoint.
type EndpointUsage struct {
	Endpoint     string
	Calls        int
	Failures     int // non-2xx plus no-response samples
	AvgLatencyMS int64
}

// GetEndpointUsage retrieves per-endpoint totals for the last N days.
func (s *Store) GetEndpointUsage(days int) ([]EndpointUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.db.Query(
		`SELECT endpoint,
		        COUNT(*),
		        SUM(CASE WHEN status < 200 OR status > 299 THEN 1 ELSE 0 END),
		        CAST(AVG(latency_ms) AS INTEGER)
		 FROM call_metrics
		 WHERE timestamp >= ?
		 GROUP BY endpoint
		 ORDER BY COUNT(*) DESC`,
		since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []EndpointUsage
	for rows.Next() {
		var u EndpointUsage
		var failures, avg sql.NullInt64
		if err := rows.Scan(&u.Endpoint, &u.Calls, &failures, &avg); err != nil {
			return nil, err
		}
		u.Failures = int(failures.Int64)
		u.AvgLatencyMS = avg.Int64
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days and
// returns how many were deleted.
func (s *Store) Cleanup(olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	res, err := s.db.Exec(`DELETE FROM call_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
