package repository

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/db"
	"post-analysis-service/domain"
	"post-analysis-service/entity"
)

const uniqueViolationCode = "23505"

type Post struct {
	db db.DB
}

func NewPost(db db.DB) Post {
	return Post{
		db: db,
	}
}

// Insert persists an analysis result as a new row.
// A row is never overwritten, inserting an existing id returns ErrPostAlreadyExists.
func (r Post) Insert(ctx context.Context, post entity.Post) error {
	query := `
insert into posts (id, text, word_count, average_word_length)
values ($1, $2, $3, $4)`
	_, err := r.db.Exec(ctx, query, post.Id, post.Text, post.WordCount, post.AverageWordLength)

	pgErr := &pgconn.PgError{}
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return errors.WithMessagef(domain.ErrPostAlreadyExists, "id '%s'", post.Id)
	}
	if err != nil {
		return errors.WithMessage(err, "db exec")
	}

	return nil
}

func (r Post) GetById(ctx context.Context, id string) (*entity.Post, error) {
	query := `
select id, text, word_count, average_word_length
from posts
where id = $1`
	post := entity.Post{}
	err := r.db.SelectRow(ctx, &post, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, errors.WithMessage(err, "db select row")
	}

	return &post, nil
}
