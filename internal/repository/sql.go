package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"github.com/Lixing-Zhang/storefront-menu/internal/models"
)

var _ Store = (*SQLStore)(nil)

// dialect captures the few places SQLite and Postgres differ.
type dialect struct {
	name        string
	driver      string
	payloadType string
	lockClause  string
	numbered    bool
}

var (
	sqliteDialect = dialect{
		name:        "sqlite",
		driver:      "sqlite",
		payloadType: "BLOB",
	}
	postgresDialect = dialect{
		name:        "postgres",
		driver:      "pgx",
		payloadType: "JSONB",
		lockClause:  " FOR UPDATE",
		numbered:    true,
	}
)

// rebind rewrites ? placeholders into $n for dialects that need them.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQLStore persists menu records as JSON payloads in one table per record
// type, keyed by id with the parent id broken out for listing.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// NewSQLiteStore opens (creating if needed) a SQLite database at path.
// Writes are serialized through a single connection.
func NewSQLiteStore(ctx context.Context, path string) (*SQLStore, error) {
	if path == "" {
		path = "menu.db"
	}
	db, err := sql.Open(sqliteDialect.driver, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	return newSQLStore(ctx, db, sqliteDialect)
}

// NewPostgresStore opens a Postgres database through the pgx driver.
func NewPostgresStore(ctx context.Context, dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := sql.Open(postgresDialect.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return newSQLStore(ctx, db, postgresDialect)
}

func newSQLStore(ctx context.Context, db *sql.DB, d dialect) (*SQLStore, error) {
	s := &SQLStore{db: db, dialect: d}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *SQLStore) DB() *sql.DB { return s.db }

func (s *SQLStore) migrate(ctx context.Context) error {
	tables := []struct{ name, parent string }{
		{"restaurants", ""},
		{"categories", "restaurant_id"},
		{"templates", "category_id"},
		{"dishes", "category_id"},
	}
	for _, t := range tables {
		cols := "id TEXT PRIMARY KEY, payload " + s.dialect.payloadType + " NOT NULL"
		if t.parent != "" {
			cols = "id TEXT PRIMARY KEY, " + t.parent + " TEXT NOT NULL, payload " + s.dialect.payloadType + " NOT NULL"
		}
		ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.name, cols)
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create %s table: %w", t.name, err)
		}
		if t.parent == "" {
			continue
		}
		idx := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_%s_idx ON %s (%s)", t.name, t.parent, t.name, t.parent)
		if _, err := s.db.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("create %s index: %w", t.name, err)
		}
	}
	return nil
}

var singular = map[string]string{
	"restaurants": "restaurant",
	"categories":  "category",
	"templates":   "template",
	"dishes":      "dish",
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLStore) getPayload(ctx context.Context, q queryer, table, id, suffix string, notFound error, out any) error {
	query := s.dialect.rebind("SELECT payload FROM " + table + " WHERE id = ?" + suffix)
	var payload []byte
	if err := q.QueryRowContext(ctx, query, id).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s %s: %w", singular[table], id, notFound)
		}
		return fmt.Errorf("select %s %s: %w", table, id, err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", table, id, err)
	}
	return nil
}

func listPayloads[T any](ctx context.Context, s *SQLStore, q queryer, table, parentCol, parentID string) ([]T, error) {
	query := s.dialect.rebind("SELECT payload FROM " + table + " WHERE " + parentCol + " = ?")
	rows, err := q.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]T, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		var v T
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", table, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return out, nil
}

func (s *SQLStore) upsert(ctx context.Context, q queryer, table, parentCol, id, parentID string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", table, id, err)
	}
	var query string
	var args []any
	if parentCol == "" {
		query = "INSERT INTO " + table + " (id, payload) VALUES (?, ?) " +
			"ON CONFLICT (id) DO UPDATE SET payload = excluded.payload"
		args = []any{id, payload}
	} else {
		query = "INSERT INTO " + table + " (id, " + parentCol + ", payload) VALUES (?, ?, ?) " +
			"ON CONFLICT (id) DO UPDATE SET " + parentCol + " = excluded." + parentCol + ", payload = excluded.payload"
		args = []any{id, parentID, payload}
	}
	if _, err := q.ExecContext(ctx, s.dialect.rebind(query), args...); err != nil {
		return fmt.Errorf("upsert %s %s: %w", table, id, err)
	}
	return nil
}

func (s *SQLStore) exists(ctx context.Context, table, id string) (bool, error) {
	var n int
	query := s.dialect.rebind("SELECT COUNT(*) FROM " + table + " WHERE id = ?")
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&n); err != nil {
		return false, fmt.Errorf("check %s %s: %w", table, id, err)
	}
	return n > 0, nil
}

// GetRestaurant returns a restaurant by its ID
func (s *SQLStore) GetRestaurant(ctx context.Context, id string) (models.Restaurant, error) {
	var r models.Restaurant
	err := s.getPayload(ctx, s.db, "restaurants", id, "", models.ErrRestaurantNotFound, &r)
	return r, err
}

// ListCategories returns a restaurant's categories in display order
func (s *SQLStore) ListCategories(ctx context.Context, restaurantID string) ([]models.Category, error) {
	out, err := listPayloads[models.Category](ctx, s, s.db, "categories", "restaurant_id", restaurantID)
	if err != nil {
		return nil, err
	}
	sortCategories(out)
	return out, nil
}

// GetCategory returns a category by its ID
func (s *SQLStore) GetCategory(ctx context.Context, id string) (models.Category, error) {
	var c models.Category
	err := s.getPayload(ctx, s.db, "categories", id, "", models.ErrCategoryNotFound, &c)
	return c, err
}

// ListDishes returns the dishes of a category in display order
func (s *SQLStore) ListDishes(ctx context.Context, categoryID string) ([]models.Dish, error) {
	out, err := listPayloads[models.Dish](ctx, s, s.db, "dishes", "category_id", categoryID)
	if err != nil {
		return nil, err
	}
	sortDishes(out)
	return out, nil
}

// GetDish returns a dish by its ID
func (s *SQLStore) GetDish(ctx context.Context, id string) (models.Dish, error) {
	var d models.Dish
	err := s.getPayload(ctx, s.db, "dishes", id, "", models.ErrDishNotFound, &d)
	return d, err
}

// ListTemplates returns every template of a category, active or not
func (s *SQLStore) ListTemplates(ctx context.Context, categoryID string) ([]models.CategoryTemplate, error) {
	out, err := listPayloads[models.CategoryTemplate](ctx, s, s.db, "templates", "category_id", categoryID)
	if err != nil {
		return nil, err
	}
	sortTemplates(out)
	return out, nil
}

// GetTemplate returns a template by its ID
func (s *SQLStore) GetTemplate(ctx context.Context, id string) (models.CategoryTemplate, error) {
	var t models.CategoryTemplate
	err := s.getPayload(ctx, s.db, "templates", id, "", models.ErrTemplateNotFound, &t)
	return t, err
}

// SaveRestaurant creates or replaces a restaurant
func (s *SQLStore) SaveRestaurant(ctx context.Context, r models.Restaurant) error {
	if r.ID == "" {
		return fmt.Errorf("restaurant id is required")
	}
	return s.upsert(ctx, s.db, "restaurants", "", r.ID, "", r)
}

// SaveCategory creates or replaces a category
func (s *SQLStore) SaveCategory(ctx context.Context, c models.Category) error {
	if c.ID == "" {
		return fmt.Errorf("category id is required")
	}
	ok, err := s.exists(ctx, "restaurants", c.RestaurantID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("category %s: restaurant %s: %w", c.ID, c.RestaurantID, models.ErrRestaurantNotFound)
	}
	return s.upsert(ctx, s.db, "categories", "restaurant_id", c.ID, c.RestaurantID, c)
}

// SaveTemplate creates or edits a template in place
func (s *SQLStore) SaveTemplate(ctx context.Context, t models.CategoryTemplate) error {
	if err := t.Validate(); err != nil {
		return err
	}
	ok, err := s.exists(ctx, "categories", t.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("template %s: category %s: %w", t.ID, t.CategoryID, models.ErrCategoryNotFound)
	}
	dishes, err := s.ListDishes(ctx, t.CategoryID)
	if err != nil {
		return err
	}
	for _, d := range dishes {
		if err := models.CheckTemplateCollisions(d, []models.CategoryTemplate{t}); err != nil {
			return err
		}
	}
	return s.upsert(ctx, s.db, "templates", "category_id", t.ID, t.CategoryID, t)
}

// SaveDish creates or replaces a dish
func (s *SQLStore) SaveDish(ctx context.Context, d models.Dish) error {
	if err := d.Validate(); err != nil {
		return err
	}
	ok, err := s.exists(ctx, "categories", d.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("dish %s: category %s: %w", d.ID, d.CategoryID, models.ErrCategoryNotFound)
	}
	templates, err := s.ListTemplates(ctx, d.CategoryID)
	if err != nil {
		return err
	}
	if err := models.CheckTemplateCollisions(d, templates); err != nil {
		return err
	}
	return s.upsert(ctx, s.db, "dishes", "category_id", d.ID, d.CategoryID, d)
}

// DeleteTemplate removes a template. Dish-owned copies are unaffected.
func (s *SQLStore) DeleteTemplate(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.dialect.rebind("DELETE FROM templates WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("template %s: %w", id, models.ErrTemplateNotFound)
	}
	return nil
}

// UpdateDish reads the dish inside a transaction (row-locked on Postgres),
// applies fn, and writes it back before committing.
func (s *SQLStore) UpdateDish(ctx context.Context, id string, fn func(*models.Dish) error) (result models.Dish, retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Dish{}, fmt.Errorf("begin dish update: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	var dish models.Dish
	if err := s.getPayload(ctx, tx, "dishes", id, s.dialect.lockClause, models.ErrDishNotFound, &dish); err != nil {
		return models.Dish{}, err
	}
	if err := fn(&dish); err != nil {
		return models.Dish{}, err
	}
	if dish.ID != id {
		return models.Dish{}, fmt.Errorf("dish %s: id cannot change during update", id)
	}
	if err := dish.Validate(); err != nil {
		return models.Dish{}, err
	}
	templates, err := listPayloads[models.CategoryTemplate](ctx, s, tx, "templates", "category_id", dish.CategoryID)
	if err != nil {
		return models.Dish{}, err
	}
	if err := models.CheckTemplateCollisions(dish, templates); err != nil {
		return models.Dish{}, err
	}
	if err := s.upsert(ctx, tx, "dishes", "category_id", dish.ID, dish.CategoryID, dish); err != nil {
		return models.Dish{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Dish{}, fmt.Errorf("commit dish update: %w", err)
	}
	return dish, nil
}
