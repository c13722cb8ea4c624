package ports

import "creepwork/internal/domain/colony"

type TickMetrics interface {
	RecordTick()
	RecordAgentRun(role colony.Role)
	RecordAction(action colony.ActionStatus)
	RecordIdle(role colony.Role)
	RecordAgentError()
	RecordSpawn(role colony.Role)
	RecordPersistFailure()
}
