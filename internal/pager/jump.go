package pager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
)

// JumpResult describes a completed jump
type JumpResult struct {
	ID          int64
	Position    domain.Position
	Page        *domain.Page
	Item        domain.Item // nil if neither the page nor the item lookup produced it
	GlobalIndex int
	FilterKey   string
}

// Record converts the result into a history entry
func (r *JumpResult) Record() domain.JumpRecord {
	rec := domain.JumpRecord{
		ID:          r.ID,
		FilterKey:   r.FilterKey,
		GlobalIndex: r.GlobalIndex,
	}
	if r.Item != nil {
		rec.FileName = r.Item.Common().FileName
		rec.Kind = r.Item.ItemKind()
	}
	return rec
}

// JumpResolver centres the window on an item identifier
type JumpResolver struct {
	provider domain.PageProvider
	coord    *Coordinator
	logger   *slog.Logger
}

// NewJumpResolver creates a resolver that fetches through coord
func NewJumpResolver(provider domain.PageProvider, coord *Coordinator, logger *slog.Logger) *JumpResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &JumpResolver{provider: provider, coord: coord, logger: logger}
}

// JumpTo resolves raw to a position under the live filter and replaces the
// cache with the page holding it. The cache is untouched on any failure.
func (j *JumpResolver) JumpTo(ctx context.Context, raw string) (*JumpResult, error) {
	id, err := domain.ParseIdentifier(raw)
	if err != nil {
		return nil, err
	}

	lease, err := j.coord.TryAcquire(FetchJump)
	if err != nil {
		return nil, err
	}
	defer lease.Release()

	pageSize := j.coord.cache.PageSize()
	pos, err := j.provider.LocateItem(ctx, id, pageSize, lease.Filter())
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			j.logger.Info("jump target not found", "id", id, "filter", lease.Filter().Key())
			return nil, fmt.Errorf("%w: %d", domain.ErrIdentifierNotFound, id)
		}
		return nil, fmt.Errorf("%w: locate %d: %w", domain.ErrFetchFailed, id, err)
	}

	page, err := lease.Fetch(ctx, pos.Page)
	if err != nil {
		return nil, err
	}

	result := &JumpResult{
		ID:          id,
		Position:    pos,
		Page:        page,
		GlobalIndex: pos.GlobalIndex(pageSize),
		FilterKey:   lease.Filter().Key(),
	}
	result.Item = j.resolveItem(ctx, id, pos, page)

	j.logger.Info("jumped",
		"id", id,
		"page", pos.Page,
		"offset", pos.Offset,
		"global_index", result.GlobalIndex)
	return result, nil
}

// resolveItem prefers the item at the resolved offset, then any match in the
// page, then the single-item endpoint
func (j *JumpResolver) resolveItem(ctx context.Context, id int64, pos domain.Position, page *domain.Page) domain.Item {
	if pos.Offset >= 0 && pos.Offset < len(page.Items) && page.Items[pos.Offset].ItemID() == id {
		return page.Items[pos.Offset]
	}
	for _, item := range page.Items {
		if item.ItemID() == id {
			return item
		}
	}

	item, err := j.provider.GetItem(ctx, id)
	if err != nil {
		j.logger.Warn("jump item fetch failed", "id", id, "error", err)
		return nil
	}
	return item
}
