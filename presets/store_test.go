package presets

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ByLCY/cylscale/settings"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "db", "presets.db"))
	if err != nil {
		t.Fatalf("打开数据库失败: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	doc := settings.New()
	doc.NumClicks = 48
	doc.PDFFilename = "m1a"
	created, err := s.Create(ctx, "  M1A scope ", doc)
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	if created.ID == "" || created.Name != "M1A scope" {
		t.Fatalf("预设字段错误: %+v", created)
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if *got.Settings != *doc {
		t.Fatalf("设置读回不一致:\n got=%+v\nwant=%+v", got.Settings, doc)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("创建时间不一致: %v vs %v", got.CreatedAt, created.CreatedAt)
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("期望 ErrNotFound，得到 %v", err)
	}
}

func TestCreateEmptyName(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Create(context.Background(), "   ", settings.New()); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("期望 ErrEmptyName，得到 %v", err)
	}
}

func TestListUpdateDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	s.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Second) }

	b, err := s.Create(ctx, "b", settings.New())
	if err != nil {
		t.Fatal(err)
	}
	a, err := s.Create(ctx, "a", settings.New())
	if err != nil {
		t.Fatal(err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Fatalf("列表应按名称排序: %+v", list)
	}

	doc := settings.New()
	doc.DarkMode = true
	updated, err := s.Update(ctx, b.ID, "b2", doc)
	if err != nil {
		t.Fatalf("Update 失败: %v", err)
	}
	if updated.Name != "b2" || !updated.Settings.DarkMode || !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatalf("更新结果错误: %+v", updated)
	}
	if _, err := s.Update(ctx, "missing", "x", doc); !errors.Is(err, ErrNotFound) {
		t.Fatalf("更新不存在的预设应返回 ErrNotFound，得到 %v", err)
	}

	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	if err := s.Delete(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("重复删除应返回 ErrNotFound，得到 %v", err)
	}
	list, err = s.List(ctx)
	if err != nil || len(list) != 1 || list[0].ID != b.ID {
		t.Fatalf("删除后列表错误: %+v %v", list, err)
	}
}

func TestInitIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("重复迁移失败: %v", err)
	}
}
