package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/usual2970/daywise/domain"
	"github.com/usual2970/daywise/domain/entity"
	"github.com/usual2970/daywise/domain/repository"
)

// Store implements repository.TaskStore against a Postgres schema: a
// tasks table, a task_dependencies join table, and a completions table.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps pool as a repository.TaskStore.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ repository.TaskStore = (*Store)(nil)

func (s *Store) Get(ctx context.Context, id int64) (*entity.Task, error) {
	const query = `
		SELECT id, title, project, bucket_id, tags, deadline, estimate_minutes,
		       window_start, window_end, recurrence, last_completed_at, next_due_at,
		       curve, status, created_at, updated_at
		FROM tasks WHERE id = $1
	`
	row := s.pool.QueryRow(ctx, query, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}

	deps, err := s.depsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Dependencies = deps
	return t, nil
}

func (s *Store) depsFor(ctx context.Context, id int64) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT depends_on_id FROM task_dependencies WHERE task_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("load dependencies for task %d: %w", id, err)
	}
	defer rows.Close()

	var deps []int64
	for rows.Next() {
		var dep int64
		if err := rows.Scan(&dep); err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	return deps, rows.Err()
}

func (s *Store) List(ctx context.Context, filter repository.TaskFilter) ([]*entity.Task, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	argNum := 1

	if len(filter.Status) > 0 {
		where = append(where, fmt.Sprintf("status = ANY($%d)", argNum))
		statuses := make([]string, len(filter.Status))
		for i, st := range filter.Status {
			statuses[i] = string(st)
		}
		args = append(args, statuses)
		argNum++
	}
	if filter.Project != "" {
		where = append(where, fmt.Sprintf("project = $%d", argNum))
		args = append(args, filter.Project)
		argNum++
	}
	if filter.BucketID != nil {
		where = append(where, fmt.Sprintf("bucket_id = $%d", argNum))
		args = append(args, *filter.BucketID)
		argNum++
	}
	if len(filter.Tags) > 0 {
		where = append(where, fmt.Sprintf("tags @> $%d", argNum))
		args = append(args, filter.Tags)
		argNum++
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
		where = append(where, "deadline IS NOT NULL AND deadline < now()")
	}

	query := fmt.Sprintf(`
		SELECT id, title, project, bucket_id, tags, deadline, estimate_minutes,
		       window_start, window_end, recurrence, last_completed_at, next_due_at,
		       curve, status, created_at, updated_at
		FROM tasks WHERE %s ORDER BY id DESC
	`, strings.Join(where, " AND "))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*entity.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, t := range tasks {
		deps, err := s.depsFor(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		t.Dependencies = deps
	}
	return tasks, nil
}

func (s *Store) Insert(ctx context.Context, t *entity.Task) (int64, error) {
	recurrence, err := marshalOpt(t.Recurrence)
	if err != nil {
		return 0, err
	}
	curve, err := json.Marshal(t.Curve)
	if err != nil {
		return 0, fmt.Errorf("marshal curve: %w", err)
	}

	const query = `
		INSERT INTO tasks (
			title, project, bucket_id, tags, deadline, estimate_minutes,
			window_start, window_end, recurrence, last_completed_at, next_due_at,
			curve, status, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id
	`
	var id int64
	err = s.pool.QueryRow(ctx, query,
		t.Title, t.Project, t.Bucket, t.Tags, t.Deadline, t.EstimateMinutes,
		t.WindowStart, t.WindowEnd, recurrence, t.LastCompletedAt, t.NextDueAt,
		curve, string(t.Status), t.CreatedAt, t.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}

	if err := s.replaceDeps(ctx, id, t.Dependencies); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) replaceDeps(ctx context.Context, id int64, deps []int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM task_dependencies WHERE task_id = $1`, id); err != nil {
		return fmt.Errorf("clear dependencies for task %d: %w", id, err)
	}
	for _, dep := range deps {
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO task_dependencies (task_id, depends_on_id) VALUES ($1, $2)`, id, dep,
		); err != nil {
			return fmt.Errorf("insert dependency %d for task %d: %w", dep, id, err)
		}
	}
	return nil
}

func (s *Store) Update(ctx context.Context, id int64, patch *entity.Task) error {
	recurrence, err := marshalOpt(patch.Recurrence)
	if err != nil {
		return err
	}
	curve, err := json.Marshal(patch.Curve)
	if err != nil {
		return fmt.Errorf("marshal curve: %w", err)
	}

	const query = `
		UPDATE tasks SET
			title=$2, project=$3, bucket_id=$4, tags=$5, deadline=$6, estimate_minutes=$7,
			window_start=$8, window_end=$9, recurrence=$10, last_completed_at=$11, next_due_at=$12,
			curve=$13, status=$14, updated_at=$15
		WHERE id=$1
	`
	tag, err := s.pool.Exec(ctx, query,
		id, patch.Title, patch.Project, patch.Bucket, patch.Tags, patch.Deadline, patch.EstimateMinutes,
		patch.WindowStart, patch.WindowEnd, recurrence, patch.LastCompletedAt, patch.NextDueAt,
		curve, string(patch.Status), patch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update task %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return s.replaceDeps(ctx, id, patch.Dependencies)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) SetLastCompleted(ctx context.Context, id int64, ts time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE tasks SET last_completed_at = $2 WHERE id = $1`, id, ts)
	if err != nil {
		return fmt.Errorf("set last_completed_at for task %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) SetNextDue(ctx context.Context, id int64, ts time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE tasks SET next_due_at = $2 WHERE id = $1`, id, ts)
	if err != nil {
		return fmt.Errorf("set next_due_at for task %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) InsertCompletion(ctx context.Context, c *entity.Completion) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO completions (id, task_id, completed_at) VALUES ($1, $2, $3)`,
		c.ID, c.TaskID, c.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert completion for task %d: %w", c.TaskID, err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, query string) ([]*entity.Task, error) {
	const q = `
		SELECT id, title, project, bucket_id, tags, deadline, estimate_minutes,
		       window_start, window_end, recurrence, last_completed_at, next_due_at,
		       curve, status, created_at, updated_at
		FROM tasks WHERE title ILIKE $1 OR project ILIKE $1
		ORDER BY id DESC
	`
	rows, err := s.pool.Query(ctx, q, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*entity.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// rowScanner abstracts over pgx.Row and pgx.Rows, which share Scan but
// not a common interface in pgx/v5.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*entity.Task, error) {
	var t entity.Task
	var recurrenceJSON, curveJSON []byte
	var status string

	err := row.Scan(
		&t.ID, &t.Title, &t.Project, &t.Bucket, &t.Tags, &t.Deadline, &t.EstimateMinutes,
		&t.WindowStart, &t.WindowEnd, &recurrenceJSON, &t.LastCompletedAt, &t.NextDueAt,
		&curveJSON, &status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Status = entity.TaskStatus(status)

	if len(recurrenceJSON) > 0 {
		var pattern entity.RecurrencePattern
		if err := json.Unmarshal(recurrenceJSON, &pattern); err != nil {
			return nil, fmt.Errorf("unmarshal recurrence: %w", err)
		}
		t.Recurrence = &pattern
	}
	if len(curveJSON) > 0 {
		if err := json.Unmarshal(curveJSON, &t.Curve); err != nil {
			return nil, fmt.Errorf("unmarshal curve: %w", err)
		}
	}
	return &t, nil
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
