package model

import "time"

const TableNameTickRecord = "tick_records"

// TickRecord mapped from table <tick_records>
type TickRecord struct {
	Tick       int64     `gorm:"column:tick;primaryKey" json:"tick"`
	Rooms      int32     `gorm:"column:rooms;not null" json:"rooms"`
	Agents     int32     `gorm:"column:agents;not null" json:"agents"`
	Errors     int32     `gorm:"column:errors;not null" json:"errors"`
	Summary    string    `gorm:"column:summary;not null" json:"summary"`
	RecordedAt time.Time `gorm:"column:recorded_at;not null;default:now()" json:"recorded_at"`
}

// TableName TickRecord's table name
func (*TickRecord) TableName() string {
	return TableNameTickRecord
}
