package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/xaenox/thread-tracker/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresStorage struct {
	db *sql.DB
}

var _ Storage = (*PostgresStorage)(nil)

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db}

	// Initialize database schema
	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (s *PostgresStorage) AddThread(ctx context.Context, thread models.TrackedThread) (bool, error) {
	query := `
		INSERT INTO threads (channel_id, user_id, guild_id, category)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, guild_id, channel_id) DO NOTHING`

	result, err := s.db.ExecContext(ctx, query, thread.ChannelID, thread.UserID, thread.GuildID, thread.Category)
	if err != nil {
		return false, fmt.Errorf("error adding thread: %w", err)
	}

	return rowsAffected(result)
}

func (s *PostgresStorage) UpdateThreadCategory(ctx context.Context, guildID, userID, channelID, category string) (bool, error) {
	query := `
		UPDATE threads SET category = $1
		WHERE guild_id = $2 AND user_id = $3 AND channel_id = $4`

	result, err := s.db.ExecContext(ctx, query, category, guildID, userID, channelID)
	if err != nil {
		return false, fmt.Errorf("error updating thread category: %w", err)
	}

	return rowsAffected(result)
}

func (s *PostgresStorage) RemoveThread(ctx context.Context, guildID, userID, channelID string) (int64, error) {
	query := `DELETE FROM threads WHERE guild_id = $1 AND user_id = $2 AND channel_id = $3`

	result, err := s.db.ExecContext(ctx, query, guildID, userID, channelID)
	if err != nil {
		return 0, fmt.Errorf("error removing thread: %w", err)
	}

	return result.RowsAffected()
}

func (s *PostgresStorage) RemoveAllThreads(ctx context.Context, guildID, userID string, category *string) (int64, error) {
	var (
		result sql.Result
		err    error
	)

	if category != nil {
		query := `DELETE FROM threads WHERE guild_id = $1 AND user_id = $2 AND category = $3`
		result, err = s.db.ExecContext(ctx, query, guildID, userID, *category)
	} else {
		query := `DELETE FROM threads WHERE guild_id = $1 AND user_id = $2`
		result, err = s.db.ExecContext(ctx, query, guildID, userID)
	}

	if err != nil {
		return 0, fmt.Errorf("error removing threads: %w", err)
	}

	return result.RowsAffected()
}

func (s *PostgresStorage) ListThreads(ctx context.Context, guildID, userID string, category *string) ([]models.TrackedThread, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if category != nil {
		query := `
			SELECT id, channel_id, user_id, guild_id, category
			FROM threads
			WHERE guild_id = $1 AND user_id = $2 AND category = $3
			ORDER BY id`
		rows, err = s.db.QueryContext(ctx, query, guildID, userID, *category)
	} else {
		query := `
			SELECT id, channel_id, user_id, guild_id, category
			FROM threads
			WHERE guild_id = $1 AND user_id = $2
			ORDER BY id`
		rows, err = s.db.QueryContext(ctx, query, guildID, userID)
	}

	if err != nil {
		return nil, fmt.Errorf("error querying threads: %w", err)
	}
	defer rows.Close()

	var threads []models.TrackedThread
	for rows.Next() {
		var t models.TrackedThread
		if err := rows.Scan(&t.ID, &t.ChannelID, &t.UserID, &t.GuildID, &t.Category); err != nil {
			return nil, fmt.Errorf("error scanning thread: %w", err)
		}
		threads = append(threads, t)
	}

	return threads, rows.Err()
}

func (s *PostgresStorage) ListTrackedChannelIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT channel_id FROM threads`)
	if err != nil {
		return nil, fmt.Errorf("error querying tracked channel ids: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

func (s *PostgresStorage) ListThreadTrackers(ctx context.Context, guildID, channelID string) ([]string, error) {
	query := `SELECT user_id FROM threads WHERE guild_id = $1 AND channel_id = $2`

	rows, err := s.db.QueryContext(ctx, query, guildID, channelID)
	if err != nil {
		return nil, fmt.Errorf("error querying thread trackers: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

func (s *PostgresStorage) AddTodo(ctx context.Context, todo models.Todo) (bool, error) {
	// Re-adding an existing entry with a new category moves it; re-adding it
	// unchanged reports no effect.
	query := `
		INSERT INTO todos (user_id, guild_id, content, category)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, guild_id, content)
		DO UPDATE SET category = EXCLUDED.category
		WHERE todos.category IS DISTINCT FROM EXCLUDED.category`

	result, err := s.db.ExecContext(ctx, query, todo.UserID, todo.GuildID, todo.Content, todo.Category)
	if err != nil {
		return false, fmt.Errorf("error adding todo: %w", err)
	}

	return rowsAffected(result)
}

func (s *PostgresStorage) RemoveTodo(ctx context.Context, guildID, userID, content string) (int64, error) {
	query := `DELETE FROM todos WHERE guild_id = $1 AND user_id = $2 AND content = $3`

	result, err := s.db.ExecContext(ctx, query, guildID, userID, content)
	if err != nil {
		return 0, fmt.Errorf("error removing todo: %w", err)
	}

	return result.RowsAffected()
}

func (s *PostgresStorage) RemoveAllTodos(ctx context.Context, guildID, userID string, category *string) (int64, error) {
	var (
		result sql.Result
		err    error
	)

	if category != nil {
		query := `DELETE FROM todos WHERE guild_id = $1 AND user_id = $2 AND category = $3`
		result, err = s.db.ExecContext(ctx, query, guildID, userID, *category)
	} else {
		query := `DELETE FROM todos WHERE guild_id = $1 AND user_id = $2`
		result, err = s.db.ExecContext(ctx, query, guildID, userID)
	}

	if err != nil {
		return 0, fmt.Errorf("error removing todos: %w", err)
	}

	return result.RowsAffected()
}

func (s *PostgresStorage) ListTodos(ctx context.Context, guildID, userID string, category *string) ([]models.Todo, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if category != nil {
		query := `
			SELECT id, user_id, guild_id, content, category
			FROM todos
			WHERE guild_id = $1 AND user_id = $2 AND category = $3
			ORDER BY id`
		rows, err = s.db.QueryContext(ctx, query, guildID, userID, *category)
	} else {
		query := `
			SELECT id, user_id, guild_id, content, category
			FROM todos
			WHERE guild_id = $1 AND user_id = $2
			ORDER BY id`
		rows, err = s.db.QueryContext(ctx, query, guildID, userID)
	}

	if err != nil {
		return nil, fmt.Errorf("error querying todos: %w", err)
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.GuildID, &t.Content, &t.Category); err != nil {
			return nil, fmt.Errorf("error scanning todo: %w", err)
		}
		todos = append(todos, t)
	}

	return todos, rows.Err()
}

func (s *PostgresStorage) AddMuse(ctx context.Context, muse models.Muse) (bool, error) {
	query := `
		INSERT INTO muses (user_id, guild_id, muse_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, guild_id, muse_name) DO NOTHING`

	result, err := s.db.ExecContext(ctx, query, muse.UserID, muse.GuildID, muse.Name)
	if err != nil {
		return false, fmt.Errorf("error adding muse: %w", err)
	}

	return rowsAffected(result)
}

func (s *PostgresStorage) RemoveMuse(ctx context.Context, guildID, userID, name string) (int64, error) {
	query := `DELETE FROM muses WHERE guild_id = $1 AND user_id = $2 AND muse_name = $3`

	result, err := s.db.ExecContext(ctx, query, guildID, userID, name)
	if err != nil {
		return 0, fmt.Errorf("error removing muse: %w", err)
	}

	return result.RowsAffected()
}

func (s *PostgresStorage) ListMuses(ctx context.Context, guildID, userID string) ([]string, error) {
	query := `SELECT muse_name FROM muses WHERE guild_id = $1 AND user_id = $2 ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying muses: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

func (s *PostgresStorage) AddWatcher(ctx context.Context, watcher models.ThreadWatcher) (bool, error) {
	query := `
		INSERT INTO watchers (user_id, guild_id, channel_id, message_id, categories)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (channel_id, message_id) DO NOTHING`

	result, err := s.db.ExecContext(ctx, query,
		watcher.UserID, watcher.GuildID, watcher.ChannelID, watcher.MessageID, watcher.Categories)
	if err != nil {
		return false, fmt.Errorf("error adding watcher: %w", err)
	}

	return rowsAffected(result)
}

func (s *PostgresStorage) GetWatcher(ctx context.Context, channelID, messageID string) (*models.ThreadWatcher, error) {
	query := `
		SELECT id, user_id, guild_id, channel_id, message_id, categories
		FROM watchers
		WHERE channel_id = $1 AND message_id = $2`

	var w models.ThreadWatcher
	err := s.db.QueryRowContext(ctx, query, channelID, messageID).
		Scan(&w.ID, &w.UserID, &w.GuildID, &w.ChannelID, &w.MessageID, &w.Categories)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying watcher: %w", err)
	}

	return &w, nil
}

func (s *PostgresStorage) RemoveWatcher(ctx context.Context, watcherID int) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM watchers WHERE id = $1`, watcherID)
	if err != nil {
		return 0, fmt.Errorf("error removing watcher: %w", err)
	}

	return result.RowsAffected()
}

func (s *PostgresStorage) ListWatchers(ctx context.Context) ([]models.ThreadWatcher, error) {
	query := `SELECT id, user_id, guild_id, channel_id, message_id, categories FROM watchers ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying watchers: %w", err)
	}
	defer rows.Close()

	return scanWatchers(rows)
}

func (s *PostgresStorage) ListGuildWatchers(ctx context.Context, guildID, userID string) ([]models.ThreadWatcher, error) {
	query := `
		SELECT id, user_id, guild_id, channel_id, message_id, categories
		FROM watchers
		WHERE guild_id = $1 AND user_id = $2
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying watchers: %w", err)
	}
	defer rows.Close()

	return scanWatchers(rows)
}

func (s *PostgresStorage) GetUserSetting(ctx context.Context, userID, name string) (string, bool, error) {
	query := `SELECT value FROM user_settings WHERE user_id = $1 AND name = $2`

	var value string
	err := s.db.QueryRowContext(ctx, query, userID, name).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("error querying user setting: %w", err)
	}

	return value, true, nil
}

func (s *PostgresStorage) SetUserSetting(ctx context.Context, userID, name, value string) (bool, error) {
	query := `
		INSERT INTO user_settings (user_id, name, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, name)
		DO UPDATE SET value = EXCLUDED.value
		WHERE user_settings.value IS DISTINCT FROM EXCLUDED.value`

	result, err := s.db.ExecContext(ctx, query, userID, name, value)
	if err != nil {
		return false, fmt.Errorf("error setting user setting: %w", err)
	}

	return rowsAffected(result)
}

func (s *PostgresStorage) AddSubscriber(ctx context.Context, userID string) (bool, error) {
	query := `INSERT INTO subscribers (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`

	result, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		return false, fmt.Errorf("error adding subscriber: %w", err)
	}

	return rowsAffected(result)
}

func (s *PostgresStorage) RemoveSubscriber(ctx context.Context, userID string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM subscribers WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("error removing subscriber: %w", err)
	}

	return result.RowsAffected()
}

func (s *PostgresStorage) IsSubscriber(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM subscribers WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error querying subscriber: %w", err)
	}

	return exists, nil
}

func (s *PostgresStorage) AddScheduledMessage(ctx context.Context, message models.ScheduledMessage) (int, error) {
	query := `
		INSERT INTO scheduled_messages (user_id, channel_id, datetime, repeat, title, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id int
	err := s.db.QueryRowContext(ctx, query,
		message.UserID, message.ChannelID, message.Datetime, message.Repeat, message.Title, message.Message).
		Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error adding scheduled message: %w", err)
	}

	return id, nil
}

func (s *PostgresStorage) GetScheduledMessage(ctx context.Context, id int) (*models.ScheduledMessage, error) {
	query := `
		SELECT id, user_id, channel_id, datetime, repeat, title, message, archived
		FROM scheduled_messages
		WHERE id = $1`

	var m models.ScheduledMessage
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&m.ID, &m.UserID, &m.ChannelID, &m.Datetime, &m.Repeat, &m.Title, &m.Message, &m.Archived)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying scheduled message: %w", err)
	}

	return &m, nil
}

func (s *PostgresStorage) UpdateScheduledMessage(ctx context.Context, id int, datetime, repeat, title, message, channelID *string) (bool, error) {
	query := `
		UPDATE scheduled_messages SET
			datetime = COALESCE($2, datetime),
			repeat = COALESCE($3, repeat),
			title = COALESCE($4, title),
			message = COALESCE($5, message),
			channel_id = COALESCE($6, channel_id),
			archived = FALSE
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id, datetime, repeat, title, message, channelID)
	if err != nil {
		return false, fmt.Errorf("error updating scheduled message: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error getting rows affected: %w", err)
	}

	return affected > 0, nil
}

func (s *PostgresStorage) DeleteScheduledMessage(ctx context.Context, id int) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM scheduled_messages WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("error deleting scheduled message: %w", err)
	}

	return rowsAffected(result)
}

func (s *PostgresStorage) ListScheduledMessages(ctx context.Context, userID string) ([]models.ScheduledMessage, error) {
	query := `
		SELECT id, user_id, channel_id, datetime, repeat, title, message, archived
		FROM scheduled_messages
		WHERE user_id = $1 AND NOT archived
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying scheduled messages: %w", err)
	}
	defer rows.Close()

	return scanScheduledMessages(rows)
}

func (s *PostgresStorage) ListAllScheduledMessages(ctx context.Context) ([]models.ScheduledMessage, error) {
	query := `
		SELECT id, user_id, channel_id, datetime, repeat, title, message, archived
		FROM scheduled_messages
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying scheduled messages: %w", err)
	}
	defer rows.Close()

	return scanScheduledMessages(rows)
}

func (s *PostgresStorage) ArchiveScheduledMessage(ctx context.Context, id int) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE scheduled_messages SET archived = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error archiving scheduled message: %w", err)
	}

	return nil
}

func (s *PostgresStorage) Statistics(ctx context.Context) (models.Statistics, error) {
	query := `
		SELECT
			(SELECT COUNT(DISTINCT user_id) FROM threads),
			(SELECT COUNT(DISTINCT guild_id) FROM threads),
			(SELECT COUNT(DISTINCT channel_id) FROM threads),
			(SELECT COUNT(*) FROM threads),
			(SELECT COUNT(*) FROM muses),
			(SELECT COUNT(*) FROM todos),
			(SELECT COUNT(*) FROM watchers)`

	var stats models.Statistics
	err := s.db.QueryRowContext(ctx, query).Scan(
		&stats.Users,
		&stats.Servers,
		&stats.ThreadsDistinct,
		&stats.ThreadsTotal,
		&stats.Muses,
		&stats.Todos,
		&stats.Watchers,
	)
	if err != nil {
		return models.Statistics{}, fmt.Errorf("error querying statistics: %w", err)
	}

	return stats, nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

func rowsAffected(result sql.Result) (bool, error) {
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error getting rows affected: %w", err)
	}

	return affected > 0, nil
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		values = append(values, v)
	}

	return values, rows.Err()
}

func scanWatchers(rows *sql.Rows) ([]models.ThreadWatcher, error) {
	var watchers []models.ThreadWatcher
	for rows.Next() {
		var w models.ThreadWatcher
		if err := rows.Scan(&w.ID, &w.UserID, &w.GuildID, &w.ChannelID, &w.MessageID, &w.Categories); err != nil {
			return nil, fmt.Errorf("error scanning watcher: %w", err)
		}
		watchers = append(watchers, w)
	}

	return watchers, rows.Err()
}

func scanScheduledMessages(rows *sql.Rows) ([]models.ScheduledMessage, error) {
	var messages []models.ScheduledMessage
	for rows.Next() {
		var m models.ScheduledMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.ChannelID, &m.Datetime, &m.Repeat, &m.Title, &m.Message, &m.Archived); err != nil {
			return nil, fmt.Errorf("error scanning scheduled message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
