package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/torii/internal/logger"
	"github.com/vytor/torii/internal/models"
	"github.com/vytor/torii/internal/repository"
)

type notebookRepository struct {
	db *sql.DB
}

// NewNotebookRepository creates a new NotebookRepository implementation
func NewNotebookRepository(db *sql.DB) repository.NotebookRepository {
	return &notebookRepository{db: db}
}

func (r *notebookRepository) Create(ctx context.Context, title string) (*models.Notebook, error) {
	log := logger.FromContext(ctx).WithPrefix("notebook_repo")
	log.Debug("creating notebook: title=%s", title)

	var n models.Notebook
	err := r.db.QueryRowContext(ctx, `
INSERT INTO notebooks (title)
VALUES (?)
RETURNING id, title, created_at
`, title).Scan(&n.ID, &n.Title, &n.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("notebook title already taken: %s", title)
			return nil, repository.ErrDuplicate
		}
		log.Error("failed to create notebook: %v", err)
		return nil, err
	}
	log.Debug("notebook created: id=%d", n.ID)
	return &n, nil
}

func (r *notebookRepository) Get(ctx context.Context, id int64) (*models.Notebook, error) {
	log := logger.FromContext(ctx).WithPrefix("notebook_repo")
	log.Debug("getting notebook: id=%d", id)

	var n models.Notebook
	err := r.db.QueryRowContext(ctx, `
SELECT n.id, n.title, n.created_at,
       (SELECT COUNT(*) FROM vocabulary_entries e WHERE e.notebook_id = n.id) AS entry_count
FROM notebooks n
WHERE n.id = ?
`, id).Scan(&n.ID, &n.Title, &n.CreatedAt, &n.EntryCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("notebook not found: id=%d", id)
		} else {
			log.Error("failed to get notebook: %v", err)
		}
		return nil, err
	}
	return &n, nil
}

func (r *notebookRepository) List(ctx context.Context) ([]models.Notebook, error) {
	log := logger.FromContext(ctx).WithPrefix("notebook_repo")
	log.Debug("listing notebooks")

	rows, err := r.db.QueryContext(ctx, `
SELECT n.id, n.title, n.created_at, COUNT(e.id) AS entry_count
FROM notebooks n
LEFT JOIN vocabulary_entries e ON e.notebook_id = n.id
GROUP BY n.id
ORDER BY n.created_at ASC, n.id ASC
`)
	if err != nil {
		log.Error("failed to list notebooks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var notebooks []models.Notebook
	for rows.Next() {
		var n models.Notebook
		if err := rows.Scan(&n.ID, &n.Title, &n.CreatedAt, &n.EntryCount); err != nil {
			log.Error("failed to scan notebook row: %v", err)
			return nil, err
		}
		notebooks = append(notebooks, n)
	}
	log.Debug("found %d notebooks", len(notebooks))
	return notebooks, rows.Err()
}

func (r *notebookRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("notebook_repo")
	log.Debug("deleting notebook: id=%d", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM notebooks WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete notebook: %v", err)
		return err
	}
	return expectAffected(res)
}
