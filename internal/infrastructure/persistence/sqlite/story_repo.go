// Package sqlite 提供基于嵌入式 SQLite 的故事仓储，无需外部数据库
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"ai-story-api/internal/domain/entity"
	"ai-story-api/internal/domain/repository"
	"ai-story-api/pkg/utils"
)

// 定长时间格式，保证字符串排序与时间排序一致
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const selectColumns = `SELECT id, title, prompt, story, created_at FROM stories`

// StoryRepository SQLite 故事仓储
type StoryRepository struct {
	db      *sql.DB
	ids     *utils.IDGenerator
	writeMu sync.Mutex
}

// Open 打开或创建 dbPath 处的数据库并执行迁移
func Open(dbPath string, busyTimeout time.Duration, ids *utils.IDGenerator) (*StoryRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(wal)&_pragma=busy_timeout(%d)", dbPath, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if ids == nil {
		ids = utils.NewIDGenerator()
	}
	r := &StoryRepository{db: db, ids: ids}
	if err := r.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *StoryRepository) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS stories (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		prompt     TEXT NOT NULL,
		story      TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_stories_created_id ON stories(created_at DESC, id DESC);
	`)
	return err
}

// Close 关闭数据库
func (r *StoryRepository) Close() error {
	return r.db.Close()
}

// Save 保存故事
func (r *StoryRepository) Save(ctx context.Context, prompt, title, story string) (*entity.Story, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	s := entity.NewStory(prompt, title, story)
	s.ID = r.ids.New()
	s.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO stories (id, title, prompt, story, created_at) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Title, s.Prompt, s.Story, s.CreatedAt.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("insert story: %w", err)
	}
	return s, nil
}

// List 分页列出故事
func (r *StoryRepository) List(ctx context.Context, page repository.Pagination) (*repository.PagedResult[*entity.Story], error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}
	if page.Beyond(total) {
		return repository.NewPagedResult[*entity.Story](nil, total, page), nil
	}

	stories, err := r.query(ctx, selectColumns+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	return repository.NewPagedResult(stories, total, page), nil
}

// GetAll 返回全部故事
func (r *StoryRepository) GetAll(ctx context.Context) ([]*entity.Story, error) {
	return r.query(ctx, selectColumns+` ORDER BY created_at DESC, id DESC`)
}

// Delete 删除故事
func (r *StoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	res, err := r.db.ExecContext(ctx, `DELETE FROM stories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete story: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete story: %w", err)
	}
	return n > 0, nil
}

// Count 返回故事总数
func (r *StoryRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stories`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count stories: %w", err)
	}
	return total, nil
}

// HealthCheck 检查数据库可用
func (r *StoryRepository) HealthCheck(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *StoryRepository) query(ctx context.Context, q string, args ...any) ([]*entity.Story, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query stories: %w", err)
	}
	defer rows.Close()

	stories := make([]*entity.Story, 0)
	for rows.Next() {
		var s entity.Story
		var createdAt string
		if err := rows.Scan(&s.ID, &s.Title, &s.Prompt, &s.Story, &createdAt); err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		s.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		stories = append(stories, &s)
	}
	return stories, rows.Err()
}
