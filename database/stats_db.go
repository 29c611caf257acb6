package database

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Stats holds site-wide aggregates shown on the admin panel.
type Stats struct {
	TotalPeople   int64   `json:"totalPeople"`
	TotalImages   int64   `json:"totalImages"`
	TotalRatings  int64   `json:"totalRatings"`
	OverallAvg    float64 `json:"overallAvg"`
	DistinctVoter int64   `json:"distinctVoters"`
}

func countRows(db *sql.DB, table string) (int64, error) {
	sqlStr, args, err := psql.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query for %s: %w", table, err)
	}
	var n int64
	if err := db.QueryRow(sqlStr, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// GetStats computes admin panel aggregates with one query per figure.
func GetStats(db *sql.DB) (Stats, error) {
	var stats Stats
	var err error

	if stats.TotalPeople, err = countRows(db, "people"); err != nil {
		return Stats{}, err
	}
	if stats.TotalImages, err = countRows(db, "images"); err != nil {
		return Stats{}, err
	}
	if stats.TotalRatings, err = countRows(db, "ratings"); err != nil {
		return Stats{}, err
	}

	sqlStr, args, err := psql.
		Select("COALESCE(AVG(rating), 0)", "COUNT(DISTINCT ip_address)").
		From("ratings").
		ToSql()
	if err != nil {
		return Stats{}, fmt.Errorf("failed to build ratings aggregate query: %w", err)
	}
	if err := db.QueryRow(sqlStr, args...).Scan(&stats.OverallAvg, &stats.DistinctVoter); err != nil {
		return Stats{}, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	return stats, nil
}
