package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/repository"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) repository.MessageRepository {
	return &MessageRepo{db: db}
}

func (repo *MessageRepo) Create(ctx context.Context, msg *entity.DailyMessage) (int64, error) {
	const query = `
INSERT INTO daily_messages
       (title, content, category, priority, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	var id int64
	err := repo.db.QueryRowContext(ctx, query,
		msg.Title, msg.Content, msg.Category, msg.Priority, msg.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("Create: %w", err)
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
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Since != nil {
		args = append(args, *filter.Since)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
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
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, "\nLIMIT $%d", len(args))
	}

	rows, err := repo.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	msgs := make([]*entity.DailyMessage, 0, 16)
	for rows.Next() {
		var m entity.DailyMessage
		if err := rows.Scan(&m.ID, &m.Title, &m.Content, &m.Category, &m.Priority, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return msgs, nil
}

func (repo *MessageRepo) Delete(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM daily_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}
