package gormrepo

import (
	"context"
	"errors"
	"time"

	"creepwork/internal/adapter/repo/gorm/model"
	"creepwork/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemoryRepo struct {
	db *gorm.DB
}

func NewMemoryRepo(db *gorm.DB) MemoryRepo {
	return MemoryRepo{db: db}
}

func (r MemoryRepo) LoadCreepMemory(ctx context.Context, name string) (string, error) {
	var row model.CreepMemory
	if err := getDBFromCtx(ctx, r.db).Where("name = ?", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ports.ErrNotFound
		}
		return "", err
	}
	return row.Payload, nil
}

func (r MemoryRepo) SaveCreepMemory(ctx context.Context, name, raw string) error {
	row := model.CreepMemory{Name: name, Payload: raw, UpdatedAt: time.Now().UTC()}
	return getDBFromCtx(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&row).Error
}

func (r MemoryRepo) DeleteCreepMemory(ctx context.Context, name string) error {
	return getDBFromCtx(ctx, r.db).Where("name = ?", name).Delete(&model.CreepMemory{}).Error
}

func (r MemoryRepo) LoadRoomMemory(ctx context.Context, roomID string) (string, error) {
	var row model.RoomMemory
	if err := getDBFromCtx(ctx, r.db).Where("room_id = ?", roomID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ports.ErrNotFound
		}
		return "", err
	}
	return row.Payload, nil
}

func (r MemoryRepo) SaveRoomMemory(ctx context.Context, roomID, raw string) error {
	row := model.RoomMemory{RoomID: roomID, Payload: raw, UpdatedAt: time.Now().UTC()}
	return getDBFromCtx(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&row).Error
}
