package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/RagdeMoises/mars-front-mayor-2025/internal/domain"
)

// Record is one submitted checkout kept in the local order log.
type Record struct {
	ID           string             `json:"id"`
	Channel      string             `json:"channel"`
	Email        string             `json:"email,omitempty"`
	ClientName   string             `json:"client_name,omitempty"`
	ClientPhone  string             `json:"client_phone,omitempty"`
	Observations string             `json:"observations,omitempty"`
	Total        float64            `json:"total"`
	Lines        []domain.OrderLine `json:"lines"`
	CreatedAt    time.Time          `json:"created_at"`
}

// Log is the order log as seen by consumers.
type Log interface {
	Record(ctx context.Context, rec Record) (string, error)
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// Record inserts one submitted order and returns its generated ID.
func (r *Repository) Record(ctx context.Context, rec Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	linesJSON, err := json.Marshal(rec.Lines)
	if err != nil {
		return "", fmt.Errorf("failed to marshal order lines: %w", err)
	}

	query := `INSERT INTO orders (id, channel, email, client_name, client_phone, observations, total, lines, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, query,
		rec.ID,
		rec.Channel,
		rec.Email,
		rec.ClientName,
		rec.ClientPhone,
		rec.Observations,
		rec.Total,
		linesJSON,
		rec.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert order: %w", err)
	}

	return rec.ID, nil
}

// ListRecent returns the newest orders first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, channel, email, client_name, client_phone, observations, total, lines, created_at
	          FROM orders
	          ORDER BY created_at DESC
	          LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var linesJSON []byte
		err := rows.Scan(
			&rec.ID,
			&rec.Channel,
			&rec.Email,
			&rec.ClientName,
			&rec.ClientPhone,
			&rec.Observations,
			&rec.Total,
			&linesJSON,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		if err := json.Unmarshal(linesJSON, &rec.Lines); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order lines: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
