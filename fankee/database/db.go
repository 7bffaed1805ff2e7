package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"log/slog"

	"github.com/ellavondegurechaff/fankee/fankee/database/models"
	"github.com/uptrace/bun"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	defaultConnTimeout   = 5 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
)

type DBConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
}

type DB struct {
	pool  *pgxpool.Pool
	bunDB *bun.DB
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	// Fail fast with a clear error when the server is unreachable
	var conn net.Conn
	var err error
	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))

	for i := 0; i < defaultMaxRetries; i++ {
		conn, err = net.DialTimeout("tcp", addr, defaultConnTimeout)
		if err == nil {
			break
		}
		time.Sleep(defaultRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
	}
	defer conn.Close()

	poolConfig, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &DB{pool: pool, bunDB: newBunDB(pool)}, nil
}

func buildConnString(cfg DBConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?connect_timeout=5",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)
}

func newBunDB(pool *pgxpool.Pool) *bun.DB {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pool.Config().ConnConfig.User,
		pool.Config().ConnConfig.Password,
		pool.Config().ConnConfig.Host,
		pool.Config().ConnConfig.Port,
		pool.Config().ConnConfig.Database,
	)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func (db *DB) GetPool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func (db *DB) ExecWithLog(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	start := time.Now()
	result, err := db.pool.Exec(ctx, sql, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "exec"),
			slog.String("query", sql),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return result, err
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "exec"),
		slog.String("query", sql),
		slog.Duration("took", duration),
		slog.Int64("affected_rows", result.RowsAffected()),
	)
	return result, nil
}

func (db *DB) QueryWithLog(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	start := time.Now()
	rows, err := db.pool.Query(ctx, sql, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "query"),
			slog.String("query", sql),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return rows, err
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "query"),
		slog.String("query", sql),
		slog.Duration("took", duration),
	)
	return rows, nil
}

func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pgxpool ping failed: %w", err)
	}
	if err := db.bunDB.PingContext(ctx); err != nil {
		return fmt.Errorf("bun ping failed: %w", err)
	}
	return nil
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}

// schemaConstraints carries the integrity rules the domain depends on:
// one nickname per user, one completion per (user, mission) pair, no
// duplicate tracks or missions, and cascade deletes so removing a track or
// user takes its dependent missions and completions with it.
var schemaConstraints = []string{
	`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'uq_track_title_artist') THEN
			ALTER TABLE tracks ADD CONSTRAINT uq_track_title_artist UNIQUE (title, artist_name);
		END IF;
	END $$;`,
	`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'uq_mission_track_title') THEN
			ALTER TABLE missions ADD CONSTRAINT uq_mission_track_title UNIQUE (track_id, title);
		END IF;
	END $$;`,
	`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'uq_user_mission') THEN
			ALTER TABLE completed_missions ADD CONSTRAINT uq_user_mission UNIQUE (user_id, mission_id);
		END IF;
	END $$;`,
	`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_missions_track') THEN
			ALTER TABLE missions ADD CONSTRAINT fk_missions_track
				FOREIGN KEY (track_id) REFERENCES tracks(id) ON DELETE CASCADE;
		END IF;
	END $$;`,
	`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_completed_missions_user') THEN
			ALTER TABLE completed_missions ADD CONSTRAINT fk_completed_missions_user
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;
		END IF;
	END $$;`,
	`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_completed_missions_mission') THEN
			ALTER TABLE completed_missions ADD CONSTRAINT fk_completed_missions_mission
				FOREIGN KEY (mission_id) REFERENCES missions(id) ON DELETE CASCADE;
		END IF;
	END $$;`,
}

var schemaIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_users_nickname ON users(nickname);",
	"CREATE INDEX IF NOT EXISTS idx_missions_track_id ON missions(track_id);",
	"CREATE INDEX IF NOT EXISTS idx_completed_missions_user_id ON completed_missions(user_id);",
	"CREATE INDEX IF NOT EXISTS idx_completed_missions_mission_id ON completed_missions(mission_id);",
}

// InitializeSchema creates all required tables, constraints and indexes
func (db *DB) InitializeSchema(ctx context.Context) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Track)(nil),
		(*models.Mission)(nil),
		(*models.CompletedMission)(nil),
	}

	for _, model := range tables {
		_, err := db.bunDB.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	for _, stmt := range schemaConstraints {
		if _, err := db.ExecWithLog(ctx, stmt); err != nil {
			return fmt.Errorf("failed to add constraint: %w", err)
		}
	}

	for _, idx := range schemaIndexes {
		if _, err := db.ExecWithLog(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// SeedDemoData inserts the demo catalog (tracks with their missions) and a few
// starter users. Safe to run on every startup; existing rows are left alone.
func (db *DB) SeedDemoData(ctx context.Context) error {
	type missionSeed struct {
		Title  string
		Points int64
	}
	type trackSeed struct {
		Title      string
		ArtistName string
		Missions   []missionSeed
	}

	users := []string{"Alice", "Bob", "Charlie"}

	tracks := []trackSeed{
		{"Firestarter", "Rico Blaze", []missionSeed{
			{"Like the official cover", 5},
			{"Record a mini-video using the chorus", 25},
			{"Share the chorus tagging the artist", 20},
		}},
		{"Ocean Drive", "Nina Flow", []missionSeed{
			{"Share an ocean-vibe photo", 30},
			{"Answer the lyrics question", 15},
			{"Add Ocean Drive to your playlist", 10},
		}},
		{"Midnight Echoes", "Luna Waves", []missionSeed{
			{"Listen to Midnight Echoes", 10},
			{"Share the track cover on IG", 10},
			{"Comment on the chorus mood", 15},
		}},
	}

	for _, nickname := range users {
		stmt := `INSERT INTO users (nickname) VALUES ($1) ON CONFLICT (nickname) DO NOTHING;`
		if _, err := db.ExecWithLog(ctx, stmt, nickname); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", nickname, err)
		}
	}

	for _, t := range tracks {
		trackStmt := `INSERT INTO tracks (title, artist_name) VALUES ($1, $2)
			ON CONFLICT (title, artist_name) DO NOTHING;`
		if _, err := db.ExecWithLog(ctx, trackStmt, t.Title, t.ArtistName); err != nil {
			return fmt.Errorf("failed to seed track %s: %w", t.Title, err)
		}

		var trackID int64
		row := db.pool.QueryRow(ctx, `SELECT id FROM tracks WHERE title = $1 AND artist_name = $2`, t.Title, t.ArtistName)
		if err := row.Scan(&trackID); err != nil {
			return fmt.Errorf("failed to resolve seeded track %s: %w", t.Title, err)
		}

		for _, m := range t.Missions {
			missionStmt := `INSERT INTO missions (track_id, title, points) VALUES ($1, $2, $3)
				ON CONFLICT (track_id, title) DO NOTHING;`
			if _, err := db.ExecWithLog(ctx, missionStmt, trackID, m.Title, m.Points); err != nil {
				return fmt.Errorf("failed to seed mission %s: %w", m.Title, err)
			}
		}
	}

	slog.Info("Demo data seeded successfully",
		slog.Int("users", len(users)),
		slog.Int("tracks", len(tracks)))
	return nil
}
