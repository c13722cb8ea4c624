package colony

// AgentContext is the per-agent record persisted between ticks.
type AgentContext struct {
	Name   string
	Role   Role
	Status WorkStatus
	Action ActionStatus
	Cargo  CargoStatus
}

func NewAgentContext(name string, role Role, cargo CargoStatus) AgentContext {
	return AgentContext{
		Name:   name,
		Role:   role,
		Status: StatusUnset,
		Action: ActionNoWork,
		Cargo:  cargo,
	}
}

// DeriveStatus recomputes the coarse status from the observed cargo.
// An under-filled agent keeps whatever phase it was already in.
func (c *AgentContext) DeriveStatus(cargo CargoStatus) WorkStatus {
	c.Cargo = cargo
	c.Action = ActionNoWork
	switch cargo {
	case CargoEmpty:
		c.Status = StatusFindEnergy
	case CargoFull:
		c.Status = StatusUseEnergy
	default:
		if !c.Status.Known() {
			c.Status = StatusFindEnergy
		}
	}
	return c.Status
}

// Allows gates a primitive on the current sub-state.
func (c AgentContext) Allows(action ActionStatus) bool {
	switch {
	case action.Gathers():
		if c.Cargo == CargoFull {
			return false
		}
		return c.Status == StatusFindEnergy || c.Status == StatusSourceNotFound
	case action.Spends():
		if c.Cargo == CargoEmpty {
			return false
		}
		return c.Status == StatusUseEnergy || c.Status == StatusSourceNotFound
	default:
		return false
	}
}

func (c *AgentContext) ChangeAction(action ActionStatus) {
	c.Action = action
}

// MarkIdle is applied when no primitive took an action. A partially filled
// gatherer with nothing to gather switches to spending what it carries.
func (c *AgentContext) MarkIdle() {
	c.Action = ActionNoWork
	if c.Status == StatusFindEnergy && c.Cargo == CargoUnderFill {
		c.Status = StatusSourceNotFound
	}
}
