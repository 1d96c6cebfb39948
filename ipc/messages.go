package ipc

import "github.com/nstehr/flotilla/model"

// Message types; the bridge uses the same strings.
const (
	TypeHello    = "hello"
	TypeAck      = "ack"
	TypeTurn     = "turn"
	TypeCommands = "commands"
	TypeGameOver = "game_over"
)

// HelloMessage opens a session: who we play as and how big the map is.
type HelloMessage struct {
	PlayerID int    `json:"player_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Seed     uint64 `json:"seed,omitempty"`
}

type AckMessage struct {
	Status string `json:"status"`
	Name   string `json:"name,omitempty"`
}

// TurnMessage carries one full snapshot.
type TurnMessage struct {
	State model.GameState `json:"state"`
}

// CommandsMessage is the reply to a turn.
type CommandsMessage struct {
	Turn     int       `json:"turn"`
	Commands []Command `json:"commands"`
	Raw      []string  `json:"raw"`
}

type GameOverMessage struct {
	Turn   int `json:"turn"`
	Winner int `json:"winner"`
}
