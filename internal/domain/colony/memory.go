package colony

// RoomMemory is the per-room record persisted between ticks.
type RoomMemory struct {
	RoomID   string
	Census   RoomCensus
	Bindings *RoomBindings
}

func NewRoomMemory(roomID string) RoomMemory {
	return RoomMemory{
		RoomID:   roomID,
		Census:   NewRoomCensus(roomID),
		Bindings: NewRoomBindings(roomID),
	}
}
