package model

import "time"

const TableNameCreepMemory = "creep_memories"

// CreepMemory mapped from table <creep_memories>
type CreepMemory struct {
	Name      string    `gorm:"column:name;primaryKey" json:"name"`
	Payload   string    `gorm:"column:payload;not null" json:"payload"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()" json:"updated_at"`
}

// TableName CreepMemory's table name
func (*CreepMemory) TableName() string {
	return TableNameCreepMemory
}
