package ipc

import "github.com/nstehr/flotilla/model"

// Command kinds understood by the bridge.
const (
	CommandThrust = "thrust"
	CommandDock   = "dock"
	CommandUndock = "undock"
)

// Command is the structured form of one ship order. Zero is a valid planet
// id and heading, so every field is always sent; Kind says which apply.
type Command struct {
	Kind     string `json:"kind"`
	ShipID   int    `json:"ship_id"`
	PlanetID int    `json:"planet_id"`
	Thrust   int    `json:"thrust"`
	Angle    int    `json:"angle"`
}

// NewCommandsMessage converts a turn's actions; noops are dropped.
func NewCommandsMessage(turn int, actions []model.Action) CommandsMessage {
	msg := CommandsMessage{Turn: turn, Commands: []Command{}, Raw: []string{}}
	for _, a := range actions {
		var cmd Command
		switch a.Kind {
		case model.Thrust:
			cmd = Command{Kind: CommandThrust, ShipID: a.ShipID, Thrust: a.Thrust, Angle: a.Angle}
		case model.Dock:
			cmd = Command{Kind: CommandDock, ShipID: a.ShipID, PlanetID: a.PlanetID}
		case model.Undock:
			cmd = Command{Kind: CommandUndock, ShipID: a.ShipID}
		default:
			continue
		}
		msg.Commands = append(msg.Commands, cmd)
		msg.Raw = append(msg.Raw, a.Encode())
	}
	return msg
}
