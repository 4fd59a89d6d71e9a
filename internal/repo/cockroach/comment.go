package cockroach

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"guestbook-backend/internal/entity"
	"guestbook-backend/internal/repo"
)

type Comment struct {
	db *sqlx.DB
}

func NewComment(db *sqlx.DB) repo.Comment {
	return &Comment{
		db: db,
	}
}

func (c *Comment) AddComment(ctx context.Context, comment *entity.Comment) (int, error) {
	var commentID int
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO comment (author, email, text, state, photo_filename, photo_optimized, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		comment.Author,
		comment.Email,
		comment.Text,
		comment.State,
		comment.PhotoFilename,
		comment.PhotoOptimized,
		comment.CreatedAt,
	).Scan(&commentID)
	if err != nil {
		return 0, err
	}
	comment.ID = commentID
	return commentID, nil
}

func (c *Comment) GetComment(ctx context.Context, id int) (*entity.Comment, error) {
	comment := &entity.Comment{}
	err := c.db.GetContext(ctx, comment, `
		SELECT id, author, email, text, state, photo_filename, photo_optimized, created_at
		FROM comment
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repo.ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (c *Comment) UpdateCommentState(ctx context.Context, comment *entity.Comment, prevState entity.CommentState) error {
	// compare-and-swap: из двух конкурентных обработчиков переход запишет только один,
	// второй получит конфликт и при повторной доставке перечитает актуальное состояние
	res, err := c.db.ExecContext(ctx, `
		UPDATE comment
		SET state = $1, photo_optimized = $2
		WHERE id = $3 AND state = $4
	`, comment.State, comment.PhotoOptimized, comment.ID, prevState)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: комментарий %d, ожидалось состояние %q", repo.ErrCommentStateConflict, comment.ID, prevState)
	}
	return nil
}

func (c *Comment) GetLastComments(ctx context.Context, limit int) ([]*entity.Comment, error) {
	query, args, err := sq.
		Select("id", "author", "email", "text", "state", "photo_filename", "photo_optimized", "created_at").
		From("comment").
		Where(sq.Eq{"state": []entity.CommentState{
			entity.CommentStatePublished,
			entity.CommentStatePublishedHam,
		}}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := c.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var comments []*entity.Comment
	for rows.Next() {
		var comment entity.Comment
		if err := rows.StructScan(&comment); err != nil {
			return nil, err
		}
		comments = append(comments, &comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
