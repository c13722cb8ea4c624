package gormrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"creepwork/internal/adapter/repo/gorm/model"
	"creepwork/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TickRepo struct {
	db *gorm.DB
}

func NewTickRepo(db *gorm.DB) TickRepo {
	return TickRepo{db: db}
}

func (r TickRepo) RecordTick(ctx context.Context, summary ports.TickSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode tick summary: %w", err)
	}
	row := model.TickRecord{
		Tick:       summary.Tick,
		Rooms:      int32(len(summary.Rooms)),
		Summary:    string(payload),
		RecordedAt: time.Now().UTC(),
	}
	for _, room := range summary.Rooms {
		row.Agents += int32(room.Agents)
		row.Errors += int32(room.Errors)
	}
	return getDBFromCtx(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tick"}},
			DoUpdates: clause.AssignmentColumns([]string{"rooms", "agents", "errors", "summary", "recorded_at"}),
		}).
		Create(&row).Error
}

// ListRecent returns up to limit summaries, newest first.
func (r TickRepo) ListRecent(ctx context.Context, limit int) ([]ports.TickSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []model.TickRecord
	if err := getDBFromCtx(ctx, r.db).Order("tick DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.TickSummary, 0, len(rows))
	for _, row := range rows {
		var s ports.TickSummary
		if err := json.Unmarshal([]byte(row.Summary), &s); err != nil {
			return nil, fmt.Errorf("decode tick %d: %w", row.Tick, err)
		}
		out = append(out, s)
	}
	return out, nil
}
