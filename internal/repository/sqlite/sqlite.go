package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"netsimbridge/internal/domain"
	"netsimbridge/internal/model"
	"netsimbridge/internal/repository"

	_ "modernc.org/sqlite"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := repo.seed(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL UNIQUE,
		parent TEXT,
		base TEXT,
		relid TEXT NOT NULL DEFAULT '',
		attributes JSON,
		pointers JSON,
		position_x REAL,
		position_y REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent);
	CREATE INDEX IF NOT EXISTS idx_nodes_base ON nodes(base);
	`

	_, err := r.db.Exec(schema)
	return err
}

type metaSeed struct {
	kind domain.Kind
	base string
}

// seed creates the root and the meta types when missing
func (r *Repository) seed() error {
	stmt := `INSERT OR IGNORE INTO nodes (path, parent, base, relid, attributes) VALUES (?, ?, ?, ?, ?)`

	rootAttrs, err := marshalToNull(map[string]any{model.AttrName: "ROOT"})
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(stmt, model.RootPath, sql.NullString{}, sql.NullString{}, "", rootAttrs); err != nil {
		return fmt.Errorf("failed to seed root: %w", err)
	}

	fco := model.MetaPath(domain.KindFCO)
	types := []metaSeed{{kind: domain.KindFCO}}
	for _, kind := range domain.Kinds {
		types = append(types, metaSeed{kind: kind, base: fco})
	}

	for _, t := range types {
		attrs, err := marshalToNull(map[string]any{model.AttrName: string(t.kind)})
		if err != nil {
			return err
		}
		path := model.MetaPath(t.kind)
		if _, err := r.db.Exec(stmt, path, parentToNull(model.RootPath), stringToNull(t.base), string(t.kind), attrs); err != nil {
			return fmt.Errorf("failed to seed %s: %w", path, err)
		}
	}
	return nil
}

// Root returns the model root
func (r *Repository) Root(ctx context.Context) (*model.Node, error) {
	root, err := r.Load(ctx, model.RootPath)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("root: %w", model.ErrNodeNotFound)
	}
	return root, nil
}

// Meta returns the seeded meta types
func (r *Repository) Meta(ctx context.Context) (*model.Meta, error) {
	load := func(kind domain.Kind) (*model.Node, error) {
		n, err := r.Load(ctx, model.MetaPath(kind))
		if err != nil {
			return nil, err
		}
		if n == nil {
			return nil, fmt.Errorf("meta type %s: %w", kind, model.ErrNodeNotFound)
		}
		return n, nil
	}

	meta := &model.Meta{}
	var err error
	if meta.FCO, err = load(domain.KindFCO); err != nil {
		return nil, err
	}
	if meta.Network, err = load(domain.KindNetwork); err != nil {
		return nil, err
	}
	if meta.Node, err = load(domain.KindNode); err != nil {
		return nil, err
	}
	if meta.Connection, err = load(domain.KindConnection); err != nil {
		return nil, err
	}
	return meta, nil
}

// Load retrieves a node by path, nil when absent
func (r *Repository) Load(ctx context.Context, path string) (*model.Node, error) {
	return loadNode(ctx, r.db, path)
}

func loadNode(ctx context.Context, q querier, path string) (*model.Node, error) {
	var row nodeRow
	err := q.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE path = ?`, path).
		Scan(row.scanArgs()...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query node %q: %w", path, err)
	}

	children, err := childPaths(ctx, q, path)
	if err != nil {
		return nil, err
	}
	return row.toModel(children)
}

// childPaths reads every row before returning so the single connection of
// an in-memory database is free for the next query
func childPaths(ctx context.Context, q querier, parent string) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT path FROM nodes WHERE parent = ? ORDER BY seq`, parent)
	if err != nil {
		return nil, fmt.Errorf("failed to query children of %q: %w", parent, err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func (r *Repository) loadAll(ctx context.Context, paths []string) ([]*model.Node, error) {
	nodes := make([]*model.Node, 0, len(paths))
	for _, p := range paths {
		n, err := r.Load(ctx, p)
		if err != nil {
			return nil, err
		}
		if n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

// LoadChildren returns the direct children of node in creation order
func (r *Repository) LoadChildren(ctx context.Context, node *model.Node) ([]*model.Node, error) {
	exists, err := r.exists(ctx, r.db, node.Path())
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("load children of %q: %w", node.Path(), model.ErrNodeNotFound)
	}

	paths, err := childPaths(ctx, r.db, node.Path())
	if err != nil {
		return nil, err
	}
	return r.loadAll(ctx, paths)
}

// FindByBase returns the nodes whose base is basePath in creation order
func (r *Repository) FindByBase(ctx context.Context, basePath string) ([]*model.Node, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT path FROM nodes WHERE base = ? ORDER BY seq`, basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes by base: %w", err)
	}
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		paths = append(paths, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.loadAll(ctx, paths)
}

func (r *Repository) exists(ctx context.Context, q querier, path string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM nodes WHERE path = ?`, path).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query node %q: %w", path, err)
	}
	return true, nil
}

// CreateNode creates a child of params.Parent derived from params.Base
func (r *Repository) CreateNode(ctx context.Context, params model.CreateParams) (*model.Node, error) {
	if params.Parent == nil {
		return nil, fmt.Errorf("create node: parent is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	parent := params.Parent.Path()
	ok, err := r.exists(ctx, tx, parent)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("create node under %q: %w", parent, model.ErrNodeNotFound)
	}

	var base string
	if params.Base != nil {
		base = params.Base.Path()
	}

	var relid, path string
	for {
		relid = model.NewRelID()
		path = model.ChildPath(parent, relid)
		taken, err := r.exists(ctx, tx, path)
		if err != nil {
			return nil, err
		}
		if !taken {
			break
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO nodes (path, parent, base, relid) VALUES (?, ?, ?, ?)
	`, path, parentToNull(parent), stringToNull(base), relid); err != nil {
		return nil, fmt.Errorf("failed to insert node: %w", err)
	}

	node, err := loadNode(ctx, tx, path)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	params.Parent.ApplyChild(path)
	return node, nil
}

// SetAttribute sets an attribute value. The value must be JSON encodable.
func (r *Repository) SetAttribute(ctx context.Context, node *model.Node, key string, value any) error {
	if err := r.updateJSONEntry(ctx, node.Path(), "attributes", key, value); err != nil {
		return fmt.Errorf("set attribute %q on %q: %w", key, node.Path(), err)
	}
	node.ApplyAttribute(key, value)
	return nil
}

// SetPointer points role of node at target
func (r *Repository) SetPointer(ctx context.Context, node *model.Node, role string, target *model.Node) error {
	if target == nil {
		return fmt.Errorf("set pointer %q on %q: target is required", role, node.Path())
	}
	ok, err := r.exists(ctx, r.db, target.Path())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("set pointer %q to %q: %w", role, target.Path(), model.ErrNodeNotFound)
	}

	if err := r.updateJSONEntry(ctx, node.Path(), "pointers", role, target.Path()); err != nil {
		return fmt.Errorf("set pointer %q on %q: %w", role, node.Path(), err)
	}
	node.ApplyPointer(role, target.Path())
	return nil
}

// SetPosition sets the position registry
func (r *Repository) SetPosition(ctx context.Context, node *model.Node, pos domain.Position) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE nodes SET position_x = ?, position_y = ?, updated_at = CURRENT_TIMESTAMP
		WHERE path = ?
	`, pos.X, pos.Y, node.Path())
	if err != nil {
		return fmt.Errorf("failed to update position for %q: %w", node.Path(), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("set position on %q: %w", node.Path(), model.ErrNodeNotFound)
	}
	node.ApplyPosition(pos)
	return nil
}

// updateJSONEntry sets one key of a JSON object column inside a transaction
func (r *Repository) updateJSONEntry(ctx context.Context, path, column, key string, value any) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current sql.NullString
	err = tx.QueryRowContext(ctx, `SELECT `+column+` FROM nodes WHERE path = ?`, path).Scan(&current)
	if err == sql.ErrNoRows {
		return model.ErrNodeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", column, err)
	}

	entries := map[string]any{}
	if err := unmarshalJSONField(current, &entries); err != nil {
		return fmt.Errorf("unmarshal %s: %w", column, err)
	}
	entries[key] = value

	encoded, err := marshalToNull(entries)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", column, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE nodes SET `+column+` = ?, updated_at = CURRENT_TIMESTAMP WHERE path = ?`,
		encoded, path); err != nil {
		return fmt.Errorf("failed to update %s: %w", column, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Count returns the number of stored nodes including root and meta types
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count nodes: %w", err)
	}
	return n, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

var _ repository.Repository = (*Repository)(nil)
