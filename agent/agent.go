package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nstehr/flotilla/config"
	"github.com/nstehr/flotilla/fleet"
	"github.com/nstehr/flotilla/ipc"
	"github.com/nstehr/flotilla/model"
	"github.com/nstehr/flotilla/navigation"
	"github.com/nstehr/flotilla/rules"
	"github.com/nstehr/flotilla/strategy"
)

var errNoSession = errors.New("turn received before hello")

// Agent owns the decision-making for a single player session.
type Agent struct {
	Name     string
	PlayerID int

	conn   *ipc.Connection
	cfg    config.Config
	engine *rules.Engine
	alloc  *strategy.Allocator
	coord  *fleet.Coordinator
	last   *snapshot
}

// New builds an agent around a rules engine that may be shared with other
// sessions; a rule swap on it reaches every match at its next evaluation.
func New(name string, cfg config.Config, engine *rules.Engine) *Agent {
	return &Agent{Name: name, PlayerID: model.Unowned, cfg: cfg, engine: engine}
}

// Register wires the agent's handlers onto conn.
func (a *Agent) Register(conn *ipc.Connection) {
	a.conn = conn
	conn.RegisterHandler(ipc.TypeHello, a.HandleHello)
	conn.RegisterHandler(ipc.TypeTurn, a.HandleTurn)
	conn.RegisterHandler(ipc.TypeGameOver, a.HandleGameOver)
}

// HandleHello starts a fresh match: new allocator and coordinator for the
// announced player.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := json.Unmarshal(env.Data, &hello); err != nil {
		return nil, fmt.Errorf("unmarshal hello: %w", err)
	}

	seed := a.cfg.Seed
	if hello.Seed != 0 {
		seed = hello.Seed
	}
	if err := a.start(seed); err != nil {
		return nil, err
	}
	a.PlayerID = hello.PlayerID
	a.last = nil
	if a.conn != nil {
		a.conn.Player = fmt.Sprintf("%s#%d", a.Name, a.PlayerID)
	}
	slog.Info("player identified", "player", a.PlayerID, "name", a.Name, "map", fmt.Sprintf("%dx%d", hello.Width, hello.Height), "seed", seed)

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok", Name: a.Name})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

func (a *Agent) start(seed uint64) error {
	alloc, err := strategy.NewAllocator(a.engine, a.cfg.Cadence, seed)
	if err != nil {
		return err
	}
	coord, err := fleet.NewCoordinator(alloc, navigation.NewPlanner(), a.cfg.Fleet)
	if err != nil {
		return err
	}
	a.alloc, a.coord = alloc, coord
	return nil
}

// HandleTurn plans one turn and replies with the fleet's commands.
func (a *Agent) HandleTurn(env ipc.Envelope) (*ipc.Envelope, error) {
	if a.coord == nil {
		return nil, errNoSession
	}
	var msg ipc.TurnMessage
	if err := json.Unmarshal(env.Data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal turn: %w", err)
	}
	gs := &msg.State
	gs.MyPlayerID = a.PlayerID

	cur := takeSnapshot(gs, a.last)
	if events := detectEvents(gs, a.last, cur); len(events) > 0 {
		slog.Info("game events", "turn", gs.Turn, "events", formatEvents(events))
		if hasUrgent(events) {
			a.alloc.Reevaluate(gs, "urgent event")
		}
	}
	a.last = &cur

	actions := a.coord.Step(gs)
	reply := ipc.NewCommandsMessage(gs.Turn, actions)
	slog.Debug("commands", "turn", gs.Turn, "raw", fleet.Commands(actions))
	slog.Info("turn planned",
		"turn", gs.Turn,
		"ships", len(gs.MyShips()),
		"planets", gs.PlanetsOwnedBy(a.PlayerID),
		"commands", len(reply.Commands),
	)

	out, err := ipc.NewEnvelope(ipc.TypeCommands, reply)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// HandleGameOver logs the result; the bridge closes the connection after.
func (a *Agent) HandleGameOver(env ipc.Envelope) (*ipc.Envelope, error) {
	var over ipc.GameOverMessage
	if err := json.Unmarshal(env.Data, &over); err != nil {
		return nil, fmt.Errorf("unmarshal game over: %w", err)
	}
	slog.Info("game over", "turn", over.Turn, "winner", over.Winner, "won", over.Winner == a.PlayerID)
	return nil, nil
}
