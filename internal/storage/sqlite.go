package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/validate"
)

var (
	_ domain.IngredientCatalog = (*SQLiteStore)(nil)
	_ domain.RecipeStore       = (*SQLiteStore)(nil)
	_ domain.PlaybackFetcher   = (*SQLiteStore)(nil)
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const schema = `
CREATE TABLE IF NOT EXISTS ingredients (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	title    TEXT NOT NULL,
	unit     TEXT NOT NULL,
	category TEXT NOT NULL,
	owner    TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS recipes (
	id          TEXT PRIMARY KEY,
	owner       TEXT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	category    TEXT NOT NULL,
	visible     INTEGER NOT NULL,
	price       REAL,
	has_image   INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS steps (
	recipe_id     TEXT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
	position      INTEGER NOT NULL,
	id            TEXT NOT NULL,
	title         TEXT NOT NULL,
	kind          TEXT NOT NULL,
	payload       TEXT NOT NULL,
	ingredient_id INTEGER REFERENCES ingredients(id),
	PRIMARY KEY (recipe_id, position)
);
CREATE INDEX IF NOT EXISTS idx_steps_ingredient ON steps(ingredient_id);
`

// SQLiteStore persists ingredients and recipes in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	log  *logger.Logger
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string, log *logger.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &SQLiteStore{db: db, path: path, log: log}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug("opened sqlite store at %s", path)
	return store, nil
}

// OpenSQLiteInMemory opens a private in-memory database.
func OpenSQLiteInMemory(log *logger.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Every pooled connection would get its own empty database.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragma: %w", err)
	}

	store := &SQLiteStore{db: db, path: ":memory:", log: log}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	return s.retry(ctx, "init schema", func() error {
		_, err := s.db.ExecContext(ctx, schema)
		return err
	})
}

// SeedPublic adds owner-less ingredients unless some already exist.
func (s *SQLiteStore) SeedPublic(ctx context.Context, items []domain.NewIngredient) error {
	if err := validate.NewIngredients(items); err != nil {
		return err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ingredients WHERE owner = ''`).Scan(&count); err != nil {
		return fmt.Errorf("count public ingredients: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err := s.insertIngredients(ctx, "", items)
	if err != nil {
		return err
	}
	s.log.Debug("seeded %d public ingredients", len(items))
	return nil
}

// List returns the public catalog plus the caller's own ingredients.
func (s *SQLiteStore) List(ctx context.Context, ident domain.Identity) ([]domain.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.title, i.unit, i.category, i.owner,
		       NOT EXISTS (SELECT 1 FROM steps s WHERE s.ingredient_id = i.id)
		FROM ingredients i
		WHERE i.owner = '' OR (? <> '' AND i.owner = ?)
		ORDER BY i.id`, ident.UserID, ident.UserID)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	var out []domain.Ingredient
	for rows.Next() {
		var (
			ing          domain.Ingredient
			unreferenced bool
		)
		if err := rows.Scan(&ing.ID, &ing.Title, &ing.Unit, &ing.Category, &ing.Owner, &unreferenced); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		ing.Deletable = ing.Owner != "" && unreferenced
		out = append(out, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return out, nil
}

// Create persists user-owned ingredients.
func (s *SQLiteStore) Create(ctx context.Context, ident domain.Identity, items []domain.NewIngredient) ([]domain.Ingredient, error) {
	if !ident.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if err := validate.NewIngredients(items); err != nil {
		return nil, err
	}
	out, err := s.insertIngredients(ctx, ident.UserID, items)
	if err != nil {
		return nil, err
	}
	s.log.Info("created %d ingredients for %s", len(out), ident.UserID)
	return out, nil
}

func (s *SQLiteStore) insertIngredients(ctx context.Context, owner string, items []domain.NewIngredient) ([]domain.Ingredient, error) {
	var out []domain.Ingredient
	err := s.inTx(ctx, "insert ingredients", func(tx *sql.Tx) error {
		out = out[:0]
		for _, it := range items {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO ingredients (title, unit, category, owner) VALUES (?, ?, ?, ?)`,
				it.Title, it.Unit, it.Category, owner)
			if err != nil {
				return fmt.Errorf("insert ingredient %q: %w", it.Title, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("insert ingredient %q: %w", it.Title, err)
			}
			out = append(out, domain.Ingredient{
				ID:        int(id),
				Title:     it.Title,
				Unit:      it.Unit,
				Category:  it.Category,
				Owner:     owner,
				Deletable: owner != "",
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes one of the caller's ingredients if no stored step uses it.
func (s *SQLiteStore) Delete(ctx context.Context, ident domain.Identity, id int) error {
	if !ident.Authenticated() {
		return domain.ErrUnauthenticated
	}
	return s.inTx(ctx, "delete ingredient", func(tx *sql.Tx) error {
		var owner string
		err := tx.QueryRowContext(ctx, `SELECT owner FROM ingredients WHERE id = ?`, id).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != ident.UserID) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load ingredient %d: %w", id, err)
		}

		var refs int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM steps WHERE ingredient_id = ?`, id).Scan(&refs); err != nil {
			return fmt.Errorf("count references to %d: %w", id, err)
		}
		if refs > 0 {
			return domain.ErrNotDeletable
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM ingredients WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete ingredient %d: %w", id, err)
		}
		return nil
	})
}

// Submit stores a finalized recipe with store-owned step ids.
func (s *SQLiteStore) Submit(ctx context.Context, ident domain.Identity, sub domain.Submission) (*domain.Recipe, error) {
	sub.Info = normalizeInfo(sub.Info)
	visible, err := s.List(ctx, ident)
	if err != nil {
		return nil, err
	}
	if err := validate.Submission(sub, domain.NewCatalog(visible)); err != nil {
		return nil, err
	}

	r := &domain.Recipe{
		ID:        uuid.NewString(),
		Owner:     ident.UserID,
		Info:      sub.Info,
		HasImage:  len(sub.Image) > 0,
		CreatedAt: time.Now().UTC(),
	}
	r.Steps = storedSteps(r.ID, sub.Steps)

	err = s.inTx(ctx, "store recipe", func(tx *sql.Tx) error {
		var price sql.NullFloat64
		if r.Info.Price != nil {
			price = sql.NullFloat64{Float64: *r.Info.Price, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recipes (id, owner, title, description, category, visible, price, has_image, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Owner, r.Info.Title, r.Info.Description, r.Info.Category,
			r.Info.Visible, price, r.HasImage, r.CreatedAt.Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}

		for i, st := range r.Steps {
			kind, payload, err := encodeVariant(st.Variant)
			if err != nil {
				return err
			}
			var ingredientID sql.NullInt64
			if add, ok := st.Variant.(domain.AddIngredient); ok {
				ingredientID = sql.NullInt64{Int64: int64(add.IngredientID), Valid: true}
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO steps (recipe_id, position, id, title, kind, payload, ingredient_id)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				r.ID, i, st.ID, st.Title, kind, payload, ingredientID); err != nil {
				return fmt.Errorf("insert step %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("stored recipe %s %q (%d steps)", r.ID, r.Info.Title, len(r.Steps))
	return copyRecipe(r), nil
}

// ListRecipes returns public recipes plus the caller's own.
func (s *SQLiteStore) ListRecipes(ctx context.Context, ident domain.Identity) ([]domain.RecipeSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.title, r.category, r.visible, r.price, r.owner,
		       (SELECT COUNT(*) FROM steps s WHERE s.recipe_id = r.id)
		FROM recipes r
		WHERE r.visible = 1 OR (? <> '' AND r.owner = ?)
		ORDER BY r.title`, ident.UserID, ident.UserID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var out []domain.RecipeSummary
	for rows.Next() {
		var (
			sum   domain.RecipeSummary
			price sql.NullFloat64
		)
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Category, &sum.Visible, &price, &sum.Owner, &sum.StepCount); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		if price.Valid {
			p := price.Float64
			sum.Price = &p
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return out, nil
}

// FetchForPlayback loads a recipe with every ingredient step resolved.
func (s *SQLiteStore) FetchForPlayback(ctx context.Context, id string) (*domain.PlaybackRecipe, error) {
	var title string
	err := s.db.QueryRowContext(ctx, `SELECT title FROM recipes WHERE id = ?`, id).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load recipe %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.title, s.kind, s.payload, i.title, i.unit
		FROM steps s
		LEFT JOIN ingredients i ON i.id = s.ingredient_id
		WHERE s.recipe_id = ?
		ORDER BY s.position`, id)
	if err != nil {
		return nil, fmt.Errorf("load steps of %s: %w", id, err)
	}
	defer rows.Close()

	out := &domain.PlaybackRecipe{ID: id, Title: title}
	for rows.Next() {
		var (
			st                domain.Step
			kind, payload     string
			ingTitle, ingUnit sql.NullString
		)
		if err := rows.Scan(&st.ID, &st.Title, &kind, &payload, &ingTitle, &ingUnit); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		v, err := decodeVariant(kind, payload)
		if err != nil {
			return nil, err
		}
		if add, ok := v.(domain.AddIngredient); ok {
			if !ingTitle.Valid {
				return nil, fmt.Errorf("recipe %s step %d: ingredient %d: %w", id, len(out.Steps)+1, add.IngredientID, domain.ErrNotFound)
			}
			add.Resolved = &domain.IngredientRef{Title: ingTitle.String, Unit: ingUnit.String}
			v = add
		}
		st.Variant = v
		out.Steps = append(out.Steps, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load steps of %s: %w", id, err)
	}
	return out, nil
}

// inTx runs fn inside a transaction. A busy database rolls the whole
// transaction back and runs it again.
func (s *SQLiteStore) inTx(ctx context.Context, what string, fn func(tx *sql.Tx) error) error {
	return s.retry(ctx, what, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			return err
		}
		return tx.Commit()
	})
}

// retry runs op until it succeeds or fails with anything other than a busy
// database, backing off between attempts.
func (s *SQLiteStore) retry(ctx context.Context, what string, op func() error) error {
	wait := busyRetryInitialBackoff
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil || !databaseBusy(err) {
			return err
		}
		if attempt == busyRetryAttempts {
			return fmt.Errorf("%s: database still busy after %d attempts: %w", what, attempt, err)
		}
		s.log.Debug("%s: database busy (attempt %d/%d), retrying in %s", what, attempt, busyRetryAttempts, wait)

		t := time.NewTimer(wait)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("%s: %w", what, ctx.Err())
		}
		wait = min(2*wait, busyRetryMaxBackoff)
	}
}

// databaseBusy matches SQLITE_BUSY and its extended codes.
func databaseBusy(err error) bool {
	var coder interface{ Code() int }
	if errors.As(err, &coder) {
		return coder.Code()&0xff == sqliteBusyCode
	}
	return strings.Contains(err.Error(), "database is locked")
}
