package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/usual2970/daywise/domain"
	"github.com/usual2970/daywise/domain/entity"
	"github.com/usual2970/daywise/domain/repository"
)

// Store implements repository.TaskStore against a MySQL schema. MySQL
// has no native array type, so tags, recurrence and curve are all stored
// as JSON columns; dependencies live in a join table.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps db as a repository.TaskStore.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

var _ repository.TaskStore = (*Store)(nil)

type taskRow struct {
	ID              int64          `db:"id"`
	Title           string         `db:"title"`
	Project         string         `db:"project"`
	BucketID        *int64         `db:"bucket_id"`
	Tags            sql.NullString `db:"tags"`
	Deadline        *time.Time     `db:"deadline"`
	EstimateMinutes *int           `db:"estimate_minutes"`
	WindowStart     string         `db:"window_start"`
	WindowEnd       string         `db:"window_end"`
	Recurrence      sql.NullString `db:"recurrence"`
	LastCompletedAt *time.Time     `db:"last_completed_at"`
	NextDueAt       *time.Time     `db:"next_due_at"`
	Curve           string         `db:"curve"`
	Status          string         `db:"status"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (r taskRow) toEntity() (*entity.Task, error) {
	t := &entity.Task{
		ID:              r.ID,
		Title:           r.Title,
		Project:         r.Project,
		Bucket:          r.BucketID,
		Deadline:        r.Deadline,
		EstimateMinutes: r.EstimateMinutes,
		WindowStart:     r.WindowStart,
		WindowEnd:       r.WindowEnd,
		LastCompletedAt: r.LastCompletedAt,
		NextDueAt:       r.NextDueAt,
		Status:          entity.TaskStatus(r.Status),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.Tags.Valid && r.Tags.String != "" {
		if err := json.Unmarshal([]byte(r.Tags.String), &t.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	if r.Recurrence.Valid && r.Recurrence.String != "" {
		var pattern entity.RecurrencePattern
		if err := json.Unmarshal([]byte(r.Recurrence.String), &pattern); err != nil {
			return nil, fmt.Errorf("unmarshal recurrence: %w", err)
		}
		t.Recurrence = &pattern
	}
	if r.Curve != "" {
		if err := json.Unmarshal([]byte(r.Curve), &t.Curve); err != nil {
			return nil, fmt.Errorf("unmarshal curve: %w", err)
		}
	}
	return t, nil
}

const taskColumns = `id, title, project, bucket_id, tags, deadline, estimate_minutes,
	window_start, window_end, recurrence, last_completed_at, next_due_at,
	curve, status, created_at, updated_at`

func (s *Store) Get(ctx context.Context, id int64) (*entity.Task, error) {
	var row taskRow
	err := s.db.GetContext(ctx, &row, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	t, err := row.toEntity()
	if err != nil {
		return nil, err
	}
	deps, err := s.depsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Dependencies = deps
	return t, nil
}

func (s *Store) depsFor(ctx context.Context, id int64) ([]int64, error) {
	var deps []int64
	err := s.db.SelectContext(ctx, &deps, `SELECT depends_on_id FROM task_dependencies WHERE task_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("load dependencies for task %d: %w", id, err)
	}
	return deps, nil
}

func (s *Store) List(ctx context.Context, filter repository.TaskFilter) ([]*entity.Task, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, st := range filter.Status {
			placeholders[i] = "?"
			args = append(args, string(st))
		}
		where = append(where, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Project != "" {
		where = append(where, "project = ?")
		args = append(args, filter.Project)
	}
	if filter.BucketID != nil {
		where = append(where, "bucket_id = ?")
		args = append(args, *filter.BucketID)
	}
	if filter.HasDeadline != nil {
		if *filter.HasDeadline {
			where = append(where, "deadline IS NOT NULL")
		} else {
			where = append(where, "deadline IS NULL")
		}
	}
	if filter.HasRecurrence != nil {
		if *filter.HasRecurrence {
			where = append(where, "recurrence IS NOT NULL")
		} else {
			where = append(where, "recurrence IS NULL")
		}
	}
	if filter.Overdue != nil && *filter.Overdue {
		where = append(where, "deadline IS NOT NULL AND deadline < UTC_TIMESTAMP()")
	}

	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE %s ORDER BY id DESC`, taskColumns, strings.Join(where, " AND "))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]*entity.Task, 0, len(rows))
	for _, row := range rows {
		t, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		deps, err := s.depsFor(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		t.Dependencies = deps
		tasks = append(tasks, t)
	}

	if len(filter.Tags) > 0 {
		tasks = filterByTags(tasks, filter.Tags)
	}
	return tasks, nil
}

func filterByTags(tasks []*entity.Task, want []string) []*entity.Task {
	var out []*entity.Task
	for _, t := range tasks {
		set := make(map[string]bool, len(t.Tags))
		for _, tag := range t.Tags {
			set[tag] = true
		}
		allPresent := true
		for _, w := range want {
			if !set[w] {
				allPresent = false
				break
			}
		}
		if allPresent {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) Insert(ctx context.Context, t *entity.Task) (int64, error) {
	tagsJSON, err := json.Marshal(t.Tags)
	if err != nil {
		return 0, fmt.Errorf("marshal tags: %w", err)
	}
	recurrenceJSON, err := marshalOpt(t.Recurrence)
	if err != nil {
		return 0, err
	}
	curveJSON, err := json.Marshal(t.Curve)
	if err != nil {
		return 0, fmt.Errorf("marshal curve: %w", err)
	}

	const query = `
		INSERT INTO tasks (
			title, project, bucket_id, tags, deadline, estimate_minutes,
			window_start, window_end, recurrence, last_completed_at, next_due_at,
			curve, status, created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`
	result, err := s.db.ExecContext(ctx, query,
		t.Title, t.Project, t.Bucket, string(tagsJSON), t.Deadline, t.EstimateMinutes,
		t.WindowStart, t.WindowEnd, recurrenceJSON, t.LastCompletedAt, t.NextDueAt,
		curveJSON, string(t.Status), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read last insert id: %w", err)
	}
	if err := s.replaceDeps(ctx, id, t.Dependencies); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) replaceDeps(ctx context.Context, id int64, deps []int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM task_dependencies WHERE task_id = ?`, id); err != nil {
		return fmt.Errorf("clear dependencies for task %d: %w", id, err)
	}
	for _, dep := range deps {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO task_dependencies (task_id, depends_on_id) VALUES (?, ?)`, id, dep,
		); err != nil {
			return fmt.Errorf("insert dependency %d for task %d: %w", dep, id, err)
		}
	}
	return nil
}

func (s *Store) Update(ctx context.Context, id int64, patch *entity.Task) error {
	tagsJSON, err := json.Marshal(patch.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	recurrenceJSON, err := marshalOpt(patch.Recurrence)
	if err != nil {
		return err
	}
	curveJSON, err := json.Marshal(patch.Curve)
	if err != nil {
		return fmt.Errorf("marshal curve: %w", err)
	}

	const query = `
		UPDATE tasks SET
			title=?, project=?, bucket_id=?, tags=?, deadline=?, estimate_minutes=?,
			window_start=?, window_end=?, recurrence=?, last_completed_at=?, next_due_at=?,
			curve=?, status=?, updated_at=?
		WHERE id=?
	`
	result, err := s.db.ExecContext(ctx, query,
		patch.Title, patch.Project, patch.Bucket, string(tagsJSON), patch.Deadline, patch.EstimateMinutes,
		patch.WindowStart, patch.WindowEnd, recurrenceJSON, patch.LastCompletedAt, patch.NextDueAt,
		curveJSON, string(patch.Status), patch.UpdatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("update task %d: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		if _, getErr := s.Get(ctx, id); errors.Is(getErr, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
	}
	return s.replaceDeps(ctx, id, patch.Dependencies)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) SetLastCompleted(ctx context.Context, id int64, ts time.Time) error {
	result, err := s.db.ExecContext(ctx, `UPDATE tasks SET last_completed_at = ? WHERE id = ?`, ts, id)
	if err != nil {
		return fmt.Errorf("set last_completed_at for task %d: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) SetNextDue(ctx context.Context, id int64, ts time.Time) error {
	result, err := s.db.ExecContext(ctx, `UPDATE tasks SET next_due_at = ? WHERE id = ?`, ts, id)
	if err != nil {
		return fmt.Errorf("set next_due_at for task %d: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) InsertCompletion(ctx context.Context, c *entity.Completion) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO completions (id, task_id, completed_at) VALUES (?, ?, ?)`,
		c.ID, c.TaskID, c.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert completion for task %d: %w", c.TaskID, err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, query string) ([]*entity.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks WHERE title LIKE ? OR project LIKE ? ORDER BY id DESC`
	like := "%" + query + "%"
	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, q, like, like); err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}
	tasks := make([]*entity.Task, 0, len(rows))
	for _, row := range rows {
		t, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func marshalOpt(pattern *entity.RecurrencePattern) ([]byte, error) {
	if pattern == nil {
		return nil, nil
	}
	b, err := json.Marshal(pattern)
	if err != nil {
		return nil, fmt.Errorf("marshal recurrence: %w", err)
	}
	return b, nil
}
