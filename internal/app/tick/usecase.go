package tick

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"creepwork/internal/app/binding"
	"creepwork/internal/app/creep"
	"creepwork/internal/app/memstate"
	"creepwork/internal/app/pathing"
	"creepwork/internal/app/population"
	"creepwork/internal/app/ports"
	"creepwork/internal/app/structure"
	"creepwork/internal/domain/colony"
	"creepwork/internal/domain/world"
)

var DefaultSpawnBody = []world.BodyPart{world.PartMove, world.PartMove, world.PartCarry, world.PartWork}

type Config struct {
	SpawnBody           []world.BodyPart
	WallRepairThreshold int
	CeilingFactor       int
	EarlyUpgradeLevel   int
	PathCacheSize       int
}

// UseCase runs one engine tick against the host.
type UseCase struct {
	TxManager ports.TxManager
	Memory    ports.MemoryStore
	World     ports.World
	Codec     *memstate.Codec
	Metrics   ports.TickMetrics
	Recorder  ports.TickRecorder
	Config    Config
}

// tickState is rebuilt from persisted memory at the start of every tick.
type tickState struct {
	tick    int64
	rooms   map[string]*colony.RoomMemory
	order   []string
	dropped map[string][]string
	agents  map[string]*colony.AgentContext
	// byRoom groups agent names by the room whose transaction persists them.
	byRoom   map[string][]string
	untagged []string
	summary  map[string]*ports.RoomTickSummary
}

func (u UseCase) Run(ctx context.Context) (ports.TickSummary, error) {
	if err := ctx.Err(); err != nil {
		return ports.TickSummary{}, err
	}
	ranker, err := pathing.NewRanker(u.World, u.Config.PathCacheSize)
	if err != nil {
		return ports.TickSummary{}, err
	}
	binder := binding.Manager{World: u.World, Ranker: ranker, WallRepairThreshold: u.Config.WallRepairThreshold}
	pop := population.Controller{World: u.World, CeilingFactor: u.Config.CeilingFactor}
	machine := creep.NewMachine(u.World, ranker, binder, u.Config.EarlyUpgradeLevel)

	st := &tickState{
		tick:    u.World.Time(),
		rooms:   map[string]*colony.RoomMemory{},
		dropped: map[string][]string{},
		agents:  map[string]*colony.AgentContext{},
		byRoom:  map[string][]string{},
		summary: map[string]*ports.RoomTickSummary{},
	}
	if err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		u.rehydrateRooms(txCtx, st, binder, pop)
		u.rehydrateAgents(txCtx, st, pop)
		return nil
	}); err != nil {
		return ports.TickSummary{}, fmt.Errorf("rehydrate: %w", err)
	}

	u.runAgents(st, machine)
	u.spawn(st, pop)
	u.runTowers(st)
	out := u.persist(ctx, st)

	if u.Metrics != nil {
		u.Metrics.RecordTick()
	}
	if u.Recorder != nil {
		if err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
			return u.Recorder.RecordTick(txCtx, out)
		}); err != nil {
			slog.Warn("record tick failed", "tick", st.tick, "err", err)
		}
	}
	return out, nil
}

func (u UseCase) rehydrateRooms(ctx context.Context, st *tickState, binder binding.Manager, pop population.Controller) {
	for _, room := range u.World.Rooms() {
		if room.Controller == nil || !room.Controller.My {
			continue
		}
		mem, fresh := u.loadRoom(ctx, room.Name)
		if fresh {
			mem.Bindings = binder.InitRoom(room.Name)
		} else {
			st.dropped[room.Name] = pop.Refresh(mem)
			binder.Refresh(mem.Bindings, pop.Alive)
		}
		st.rooms[room.Name] = mem
		st.order = append(st.order, room.Name)
		st.summary[room.Name] = &ports.RoomTickSummary{RoomID: room.Name}
	}
}

func (u UseCase) loadRoom(ctx context.Context, roomID string) (*colony.RoomMemory, bool) {
	raw, err := u.Memory.LoadRoomMemory(ctx, roomID)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			slog.Warn("load room memory failed", "room", roomID, "err", err)
		}
		mem := colony.NewRoomMemory(roomID)
		return &mem, true
	}
	mem, err := u.Codec.DecodeRoom(raw)
	if err != nil {
		slog.Warn("room memory malformed, rescanning", "room", roomID, "err", err)
		fresh := colony.NewRoomMemory(roomID)
		return &fresh, true
	}
	if mem.RoomID != roomID || mem.Bindings == nil {
		slog.Warn("room memory belongs to another room, rescanning", "room", roomID, "stored", mem.RoomID)
		fresh := colony.NewRoomMemory(roomID)
		return &fresh, true
	}
	return &mem, false
}

func (u UseCase) rehydrateAgents(ctx context.Context, st *tickState, pop population.Controller) {
	for _, c := range u.World.Creeps() {
		if !c.My {
			continue
		}
		room := st.rooms[c.Pos.Room]
		ac := u.loadAgent(ctx, c, room, pop)
		st.agents[c.Name] = ac
		if room != nil {
			st.byRoom[c.Pos.Room] = append(st.byRoom[c.Pos.Room], c.Name)
		} else {
			st.untagged = append(st.untagged, c.Name)
		}
	}
}

func (u UseCase) loadAgent(ctx context.Context, c world.Creep, room *colony.RoomMemory, pop population.Controller) *colony.AgentContext {
	raw, err := u.Memory.LoadCreepMemory(ctx, c.Name)
	if err == nil {
		ac, derr := u.Codec.DecodeCreep(raw)
		if derr == nil && ac.Name == c.Name {
			if room != nil {
				if role, ok := room.Census.CreepMap[c.Name]; !ok || role != ac.Role {
					room.Census.Add(c.Name, ac.Role)
				}
			}
			return &ac
		}
		slog.Warn("creep memory malformed, reassigning", "creep", c.Name, "err", derr)
	} else if !errors.Is(err, ports.ErrNotFound) {
		slog.Warn("load creep memory failed", "creep", c.Name, "err", err)
	}
	role := pop.AddAgent(room, c.Name)
	ac := colony.NewAgentContext(c.Name, role, colony.CargoStatusOf(c.Store.Used, c.Store.Free()))
	return &ac
}

func (u UseCase) runAgents(st *tickState, machine *creep.Machine) {
	for _, c := range u.World.Creeps() {
		ac, ok := st.agents[c.Name]
		if !ok {
			continue
		}
		room := st.rooms[c.Pos.Room]
		summary := st.summary[c.Pos.Room]
		out, err := machine.Run(&creep.AgentRun{Creep: c, Context: ac, Room: room})
		if out.Skipped {
			continue
		}
		if u.Metrics != nil {
			u.Metrics.RecordAgentRun(ac.Role)
		}
		if summary != nil {
			summary.Agents++
		}
		if err != nil {
			slog.Warn("agent run failed", "creep", c.Name, "role", ac.Role, "err", err)
			if u.Metrics != nil {
				u.Metrics.RecordAgentError()
			}
			if summary != nil {
				summary.Errors++
			}
			continue
		}
		if out.Idle {
			if u.Metrics != nil {
				u.Metrics.RecordIdle(ac.Role)
			}
			if summary != nil {
				summary.Idle++
			}
			continue
		}
		if u.Metrics != nil {
			u.Metrics.RecordAction(out.Action)
		}
	}
}

func (u UseCase) spawnBody() []world.BodyPart {
	if len(u.Config.SpawnBody) == 0 {
		return DefaultSpawnBody
	}
	return u.Config.SpawnBody
}

func (u UseCase) spawn(st *tickState, pop population.Controller) {
	body := u.spawnBody()
	cost := world.BodyCost(body)
	counter := 0
	for _, roomID := range st.order {
		mem := st.rooms[roomID]
		for _, s := range u.World.Structures(roomID) {
			if s.Type != world.StructureSpawn || !s.My {
				continue
			}
			ok, err := pop.CanSpawn(mem)
			if err != nil {
				slog.Warn("spawn gate failed", "room", roomID, "err", err)
				break
			}
			if !ok {
				break
			}
			room, err := u.World.Room(roomID)
			if err != nil || room.EnergyAvailable < cost {
				break
			}
			name := fmt.Sprintf("%d-%d", st.tick, counter)
			if err := u.World.SpawnCreep(s.ID, name, body); err != nil {
				slog.Warn("spawn failed", "room", roomID, "spawn", s.ID, "name", name, "err", err)
				continue
			}
			counter++
			role := pop.AddAgent(mem, name)
			ac := colony.NewAgentContext(name, role, colony.CargoEmpty)
			st.agents[name] = &ac
			st.byRoom[roomID] = append(st.byRoom[roomID], name)
			st.summary[roomID].Spawned = append(st.summary[roomID].Spawned, name)
			if u.Metrics != nil {
				u.Metrics.RecordSpawn(role)
			}
			slog.Info("spawned agent", "room", roomID, "name", name, "role", role)
		}
	}
}

func (u UseCase) runTowers(st *tickState) {
	towers := structure.Towers{World: u.World}
	for _, roomID := range st.order {
		for _, r := range towers.Run(roomID) {
			if r.Err != nil {
				slog.Warn("tower attack failed", "room", roomID, "tower", r.TowerID, "target", r.TargetID, "err", r.Err)
			}
		}
	}
}

// persist writes each room in its own transaction so one failing room does
// not block the others.
func (u UseCase) persist(ctx context.Context, st *tickState) ports.TickSummary {
	out := ports.TickSummary{Tick: st.tick, Rooms: make([]ports.RoomTickSummary, 0, len(st.order))}
	for _, roomID := range st.order {
		mem := st.rooms[roomID]
		summary := st.summary[roomID]
		summary.Census = population.Counts(mem.Census)
		summary.Bindings = binding.Summary(mem.Bindings)
		if err := u.persistRoom(ctx, st, mem); err != nil {
			slog.Error("persist room failed", "room", roomID, "tick", st.tick, "err", err)
			summary.PersistError = err.Error()
			if u.Metrics != nil {
				u.Metrics.RecordPersistFailure()
			}
		}
		out.Rooms = append(out.Rooms, *summary)
	}
	if len(st.untagged) > 0 {
		if err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
			return u.saveAgents(txCtx, st, st.untagged)
		}); err != nil {
			slog.Error("persist untracked agents failed", "tick", st.tick, "err", err)
			if u.Metrics != nil {
				u.Metrics.RecordPersistFailure()
			}
		}
	}
	return out
}

func (u UseCase) persistRoom(ctx context.Context, st *tickState, mem *colony.RoomMemory) error {
	raw, err := u.Codec.EncodeRoom(*mem)
	if err != nil {
		return fmt.Errorf("encode room: %w", err)
	}
	return u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := u.Memory.SaveRoomMemory(txCtx, mem.RoomID, raw); err != nil {
			return fmt.Errorf("save room: %w", err)
		}
		if err := u.saveAgents(txCtx, st, st.byRoom[mem.RoomID]); err != nil {
			return err
		}
		for _, name := range st.dropped[mem.RoomID] {
			if _, alive := st.agents[name]; alive {
				continue
			}
			if err := u.Memory.DeleteCreepMemory(txCtx, name); err != nil {
				return fmt.Errorf("delete creep %s: %w", name, err)
			}
		}
		return nil
	})
}

func (u UseCase) saveAgents(ctx context.Context, st *tickState, names []string) error {
	for _, name := range names {
		raw, err := u.Codec.EncodeCreep(*st.agents[name])
		if err != nil {
			return fmt.Errorf("encode creep %s: %w", name, err)
		}
		if err := u.Memory.SaveCreepMemory(ctx, name, raw); err != nil {
			return fmt.Errorf("save creep %s: %w", name, err)
		}
	}
	return nil
}
