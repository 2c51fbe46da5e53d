package geofence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"geo-attendance/internal/model"
)

// PostgresDirectory reads offices from an externally managed table:
//
//	offices(id serial, name text, lat double precision, lng double precision)
type PostgresDirectory struct {
	db *pgxpool.Pool
}

func NewPostgresDirectory(db *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

// ConnectPostgres opens and pings a pool for the office database.
func ConnectPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to office database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping office database: %w", err)
	}
	return pool, nil
}

func (d *PostgresDirectory) Offices(ctx context.Context) ([]model.Office, error) {
	rows, err := d.db.Query(ctx, "SELECT name, lat, lng FROM offices ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query offices: %w", err)
	}
	defer rows.Close()

	var offices []model.Office
	for rows.Next() {
		var o model.Office
		if err := rows.Scan(&o.Name, &o.Lat, &o.Lng); err != nil {
			return nil, fmt.Errorf("scan office: %w", err)
		}
		offices = append(offices, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offices: %w", err)
	}
	return offices, nil
}
