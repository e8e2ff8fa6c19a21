package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakhulsr/go-catalog-admin/app/utils/changelist"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/timing"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrInvalidCategory = errors.New("one or more categories do not exist")
	ErrInvalidProduct  = errors.New("product does not exist")
)

// listPage counts the scoped rows, then fetches the requested page of them.
func listPage[T any](ctx context.Context, db *gorm.DB, q changelist.Query, preloads ...string) ([]T, changelist.Paginator, error) {
	m := timing.Start(ctx, "db", "changelist")
	defer m.Stop()

	var total int64
	var model T
	base := db.WithContext(ctx).Model(&model)
	if q.Scope != nil {
		base = base.Scopes(q.Scope)
	}
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, changelist.Paginator{}, fmt.Errorf("failed to count rows: %w", err)
	}
	pg := q.Paginator(total)

	var rows []T
	find := base.Session(&gorm.Session{}).Order(q.Order).Offset(pg.Offset()).Limit(pg.Limit())
	for _, p := range preloads {
		find = find.Preload(p)
	}
	if err := find.Find(&rows).Error; err != nil {
		return nil, pg, fmt.Errorf("failed to list rows: %w", err)
	}
	return rows, pg, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
