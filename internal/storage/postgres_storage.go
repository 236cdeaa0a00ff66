package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/0yeonnnn0/kimitter-sub000/internal/core/ports"
)

// PostgresStorage keeps the bot activity log in Postgres. Used when
// DATABASE_URL is configured.
type PostgresStorage struct {
	Pool *pgxpool.Pool
}

func NewPostgresStorage(ctx context.Context, connStr string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	s := &PostgresStorage{Pool: pool}
	if err := s.initSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

var _ ports.Storage = (*PostgresStorage)(nil)

func (s *PostgresStorage) initSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS post_stats (bot TEXT PRIMARY KEY, count INT, last_date TEXT)`,
		`CREATE TABLE IF NOT EXISTS comment_stats (bot TEXT PRIMARY KEY, count INT, last_date TEXT)`,
	}
	for _, q := range queries {
		if _, err := s.Pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("failed to init schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStorage) GetPostStats(bot string) (int, string, error) {
	var count int
	var lastDate string
	err := s.Pool.QueryRow(context.Background(),
		"SELECT count, last_date FROM post_stats WHERE bot = $1", bot).Scan(&count, &lastDate)
	if err != nil {
		return 0, "", nil
	}
	return count, lastDate, nil
}

func (s *PostgresStorage) IncrementPostCount(bot string, date string) error {
	_, err := s.Pool.Exec(context.Background(),
		`INSERT INTO post_stats (bot, count, last_date) VALUES ($1, 1, $2)
		 ON CONFLICT (bot) DO UPDATE SET
		 count = CASE WHEN post_stats.last_date = $2 THEN post_stats.count + 1 ELSE 1 END,
		 last_date = $2`,
		bot, date)
	return err
}

func (s *PostgresStorage) GetCommentStats(bot string) (int, string, error) {
	var count int
	var lastDate string
	err := s.Pool.QueryRow(context.Background(),
		"SELECT count, last_date FROM comment_stats WHERE bot = $1", bot).Scan(&count, &lastDate)
	if err != nil {
		return 0, "", nil
	}
	return count, lastDate, nil
}

func (s *PostgresStorage) IncrementCommentCount(bot string, date string) error {
	_, err := s.Pool.Exec(context.Background(),
		`INSERT INTO comment_stats (bot, count, last_date) VALUES ($1, 1, $2)
		 ON CONFLICT (bot) DO UPDATE SET
		 count = CASE WHEN comment_stats.last_date = $2 THEN comment_stats.count + 1 ELSE 1 END,
		 last_date = $2`,
		bot, date)
	return err
}
