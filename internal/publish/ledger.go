package publish

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"shotexport/internal/services"
	"shotexport/internal/sqlitex"
)

//go:embed ledger_schema.sql
var ledgerSchemaSQL string

const ledgerSchemaVersion = 1

// LedgerSink is a Sink backed by a local SQLite ledger.
type LedgerSink struct {
	db  *sqlitex.DB
	now func() time.Time
}

// OpenLedger opens or creates the ledger database at path.
func OpenLedger(ctx context.Context, path string) (*LedgerSink, error) {
	db, err := sqlitex.Open(ctx, path, sqlitex.Schema{Name: "ledger", Version: ledgerSchemaVersion, SQL: ledgerSchemaSQL})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "publish", "open ledger", path, err)
	}
	return &LedgerSink{db: db, now: time.Now}, nil
}

// Close closes the ledger database.
func (l *LedgerSink) Close() error {
	if l == nil {
		return nil
	}
	return l.db.Close()
}

// EnsureShot implements Sink. Head and tail values are refreshed on every call.
func (l *LedgerSink) EnsureShot(ctx context.Context, shot ShotRef) (Entity, error) {
	var id string
	err := l.db.QueryRow(ctx, []any{&id},
		"SELECT id FROM shots WHERE project = ? AND sequence = ? AND name = ?",
		shot.Project, shot.Sequence, shot.Name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.NewString()
		if _, err := l.db.Exec(ctx,
			`INSERT INTO shots (id, project, sequence, name, head_in, tail_out, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, shot.Project, shot.Sequence, shot.Name, shot.HeadIn, shot.TailOut, l.now().UnixNano()); err != nil {
			return Entity{}, fmt.Errorf("insert shot %s: %w", shot.Name, err)
		}
	case err != nil:
		return Entity{}, fmt.Errorf("lookup shot %s: %w", shot.Name, err)
	default:
		if _, err := l.db.Exec(ctx,
			"UPDATE shots SET head_in = ?, tail_out = ?, updated_at = ? WHERE id = ?",
			shot.HeadIn, shot.TailOut, l.now().UnixNano(), id); err != nil {
			return Entity{}, fmt.Errorf("update shot %s: %w", shot.Name, err)
		}
	}
	return Entity{Type: "Shot", ID: id, Name: shot.Name}, nil
}

// AddTask creates a task on a shot, returning the existing task if one with
// the same name is present.
func (l *LedgerSink) AddTask(ctx context.Context, shot Entity, name string) (Entity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Entity{}, services.Wrap(services.ErrValidation, "publish", "add task", "task name is empty", nil)
	}
	id := uuid.NewString()
	if _, err := l.db.Exec(ctx,
		"INSERT INTO tasks (id, shot_id, name) VALUES (?, ?, ?) ON CONFLICT (shot_id, name) DO NOTHING",
		id, shot.ID, name); err != nil {
		return Entity{}, fmt.Errorf("insert task %s: %w", name, err)
	}
	if err := l.db.QueryRow(ctx, []any{&id},
		"SELECT id FROM tasks WHERE shot_id = ? AND name = ?", shot.ID, name); err != nil {
		return Entity{}, fmt.Errorf("lookup task %s: %w", name, err)
	}
	return Entity{Type: "Task", ID: id, Name: name}, nil
}

// FindTasks implements Sink. An empty filter matches every task of the shot;
// otherwise names are compared case-insensitively.
func (l *LedgerSink) FindTasks(ctx context.Context, shot Entity, filter string) ([]Entity, error) {
	query := "SELECT id, name FROM tasks WHERE shot_id = ?"
	args := []any{shot.ID}
	if filter = strings.TrimSpace(filter); filter != "" {
		query += " AND lower(name) = lower(?)"
		args = append(args, filter)
	}
	rows, err := l.db.Query(ctx, query+" ORDER BY name", args...)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer rows.Close()

	var out []Entity
	for rows.Next() {
		task := Entity{Type: "Task"}
		if err := rows.Scan(&task.ID, &task.Name); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

// RegisterPublish implements Sink.
func (l *LedgerSink) RegisterPublish(ctx context.Context, record PublishRecord) (Entity, error) {
	id := uuid.NewString()
	if _, err := l.db.Exec(ctx,
		`INSERT INTO published_files (id, run_id, shot_id, task_id, path, name, version_number, published_file_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, record.RunID, record.Entity.ID, taskID(record.Task), record.Path, record.Name,
		record.VersionNumber, record.PublishedFileType, l.now().UnixNano()); err != nil {
		return Entity{}, fmt.Errorf("insert published file %s: %w", record.Path, err)
	}
	return Entity{Type: "PublishedFile", ID: id, Name: record.Name}, nil
}

// CreateVersion implements Sink.
func (l *LedgerSink) CreateVersion(ctx context.Context, record VersionRecord) (Entity, error) {
	id := uuid.NewString()
	if _, err := l.db.Exec(ctx,
		`INSERT INTO versions (id, run_id, shot_id, task_id, code, project, path_to_frames, first_frame, last_frame, frame_range, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, record.RunID, record.Entity.ID, taskID(record.Task), record.Code, record.Project, record.PathToFrames,
		record.FirstFrame, record.LastFrame, record.FrameRange, l.now().UnixNano()); err != nil {
		return Entity{}, fmt.Errorf("insert version %s: %w", record.Code, err)
	}
	for _, file := range record.PublishedFiles {
		if _, err := l.db.Exec(ctx,
			"INSERT INTO version_published_files (version_id, published_file_id) VALUES (?, ?)",
			id, file.ID); err != nil {
			return Entity{}, fmt.Errorf("link version %s to %s: %w", record.Code, file.ID, err)
		}
	}
	return Entity{Type: "Version", ID: id, Name: record.Code}, nil
}

// List returns the most recent published files, newest first. A non-empty
// runID restricts the listing to that run.
func (l *LedgerSink) List(ctx context.Context, runID string, limit int) ([]LedgerRow, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT p.id, p.run_id, s.name, COALESCE(t.name, ''), p.path, p.version_number,
	                 p.published_file_type, COALESCE(v.code, ''), p.created_at
	          FROM published_files p
	          JOIN shots s ON s.id = p.shot_id
	          LEFT JOIN tasks t ON t.id = p.task_id
	          LEFT JOIN version_published_files vp ON vp.published_file_id = p.id
	          LEFT JOIN versions v ON v.id = vp.version_id`
	args := []any{}
	if runID != "" {
		query += " WHERE p.run_id = ?"
		args = append(args, runID)
	}
	query += " ORDER BY p.created_at DESC, p.path LIMIT ?"
	args = append(args, limit)

	rows, err := l.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list published files: %w", err)
	}
	defer rows.Close()

	var out []LedgerRow
	for rows.Next() {
		var (
			row     LedgerRow
			created int64
		)
		if err := rows.Scan(&row.ID, &row.RunID, &row.Shot, &row.Task, &row.Path, &row.VersionNumber,
			&row.PublishedFileType, &row.Version, &created); err != nil {
			return nil, fmt.Errorf("scan published file: %w", err)
		}
		row.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, row)
	}
	return out, rows.Err()
}

func taskID(task *Entity) any {
	if task == nil || task.ID == "" {
		return nil
	}
	return task.ID
}
