// Package presets 把命名的设置文档保存在 SQLite 中。
package presets

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/ByLCY/cylscale/settings"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

var (
	// ErrNotFound 表示预设不存在。
	ErrNotFound = errors.New("预设不存在")
	// ErrEmptyName 表示预设名称为空。
	ErrEmptyName = errors.New("预设名称不能为空")
)

// Preset 是一条命名的设置。
type Preset struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Settings  *settings.Document `json:"settings"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Store 是预设仓库。
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New 基于已打开的数据库创建仓库。
func New(db *sql.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Open 打开 path 处的 SQLite 数据库并执行迁移。
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	s := New(db)
	if err := s.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenSQLite 打开 sqlite 数据库，必要时创建目录。
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("创建数据库目录失败: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// Init 按文件名顺序执行内置迁移脚本。脚本均可重复执行。
func (s *Store) Init(ctx context.Context) error {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("读取迁移脚本失败: %w", err)
	}
	for _, e := range entries {
		data, err := migrationFS.ReadFile("migrations/" + e.Name())
		if err != nil {
			return fmt.Errorf("读取迁移脚本 %s 失败: %w", e.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("执行迁移 %s 失败: %w", e.Name(), err)
		}
	}
	return nil
}

// Close 关闭数据库。
func (s *Store) Close() error { return s.db.Close() }

// Create 保存一条新预设。
func (s *Store) Create(ctx context.Context, name string, doc *settings.Document) (*Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	body, err := settings.Encode(doc)
	if err != nil {
		return nil, err
	}
	now := s.now()
	p := &Preset{ID: uuid.NewString(), Name: name, Settings: doc, CreatedAt: now, UpdatedAt: now}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO presets (id, name, settings, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?)
    `, p.ID, p.Name, string(body), formatTime(now), formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("保存预设失败: %w", err)
	}
	return p, nil
}

// Get 按 id 读取预设，不存在时返回 ErrNotFound。
func (s *Store) Get(ctx context.Context, id string) (*Preset, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, name, settings, created_at, updated_at
        FROM presets
        WHERE id = ?
    `, id)
	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, err
}

// List 按名称列出全部预设。
func (s *Store) List(ctx context.Context) ([]Preset, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, settings, created_at, updated_at
        FROM presets
        ORDER BY name, created_at
    `)
	if err != nil {
		return nil, fmt.Errorf("查询预设失败: %w", err)
	}
	defer rows.Close()

	var out []Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Update 替换预设的名称与设置。
func (s *Store) Update(ctx context.Context, id, name string, doc *settings.Document) (*Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	body, err := settings.Encode(doc)
	if err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx, `
        UPDATE presets SET name = ?, settings = ?, updated_at = ?
        WHERE id = ?
    `, name, string(body), formatTime(s.now()), id)
	if err != nil {
		return nil, fmt.Errorf("更新预设失败: %w", err)
	}
	if err := expectOneRow(res, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete 删除预设，不存在时返回 ErrNotFound。
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("删除预设失败: %w", err)
	}
	return expectOneRow(res, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(row scanner) (*Preset, error) {
	var (
		p                  Preset
		body               string
		created, updated string
	)
	if err := row.Scan(&p.ID, &p.Name, &body, &created, &updated); err != nil {
		return nil, err
	}
	doc, err := settings.Decode([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("预设 %s 的设置已损坏: %w", p.ID, err)
	}
	p.Settings = doc
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("预设 %s 的时间戳无效: %w", p.ID, err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, fmt.Errorf("预设 %s 的时间戳无效: %w", p.ID, err)
	}
	return &p, nil
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func formatTime(t time.Time) string { return t.Format(time.RFC3339Nano) }
