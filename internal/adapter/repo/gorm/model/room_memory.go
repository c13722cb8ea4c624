package model

import "time"

const TableNameRoomMemory = "room_memories"

// RoomMemory mapped from table <room_memories>
type RoomMemory struct {
	RoomID    string    `gorm:"column:room_id;primaryKey" json:"room_id"`
	Payload   string    `gorm:"column:payload;not null" json:"payload"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()" json:"updated_at"`
}

// TableName RoomMemory's table name
func (*RoomMemory) TableName() string {
	return TableNameRoomMemory
}
