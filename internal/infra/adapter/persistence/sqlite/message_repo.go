package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/repository"
)

// MessageRepo implements the MessageRepository interface using SQLite.
type MessageRepo struct{ db *sql.DB }

func NewMessageRepo(db *sql.DB) repository.MessageRepository {
	return &MessageRepo{db: db}
}

func (repo *MessageRepo) Create(ctx context.Context, msg *entity.DailyMessage) (int64, error) {
	const query = `
INSERT INTO daily_messages (title, content, category, priority, created_at)
VALUES (?, ?, ?, ?, ?)`
	res, err := repo.db.ExecContext(ctx, query,
		msg.Title, msg.Content, msg.Category, msg.Priority, msg.CreatedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("Create: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("Create: LastInsertId: %w", err)
	}
	msg.ID = id
	return id, nil
}

func (repo *MessageRepo) List(ctx context.Context, filter repository.MessageFilter) ([]*entity.DailyMessage, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Since != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, filter.Since.UTC())
	}

	var b strings.Builder
	b.WriteString(`
SELECT id, title, content, category, priority, created_at
FROM daily_messages`)
	if len(conds) > 0 {
		b.WriteString("\nWHERE " + strings.Join(conds, " AND "))
	}
	b.WriteString("\nORDER BY priority DESC, created_at DESC")
	if filter.Limit > 0 {
		b.WriteString("\nLIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := repo.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("List: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []*entity.DailyMessage
	for rows.Next() {
		var m entity.DailyMessage
		if err := rows.Scan(&m.ID, &m.Title, &m.Content, &m.Category, &m.Priority, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows.Err: %w", err)
	}
	return msgs, nil
}

func (repo *MessageRepo) Delete(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM daily_messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}
