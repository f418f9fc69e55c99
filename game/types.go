// game/types.go
package game

import "github.com/cardclash/gameserver/models"

// CreateRoomResult is the payload returned to the room creator.
type CreateRoomResult struct {
	Username string `json:"username"`
	RoomCode string `json:"roomCode"`
}

// JoinRoomResult is the payload returned to a joining player.
type JoinRoomResult struct {
	Username string `json:"username"`
	RoomCode string `json:"roomCode"`
}

// WaitingRoomInfo describes the lobby to one member.
type WaitingRoomInfo struct {
	IsRoomCreator bool             `json:"isRoomCreator"`
	Players       []PlayerUsername `json:"players"`
}

// PlayerUsername is a roster entry with the username only.
type PlayerUsername struct {
	Username string `json:"username"`
}

// PlayerPublic is a roster entry with the public score.
type PlayerPublic struct {
	Username     string `json:"username"`
	NumberOfWins int    `json:"numberOfWins"`
}

// JudgeInfo is the judge identity and prompt shown to the room.
type JudgeInfo struct {
	Username string             `json:"username"`
	Card     models.CardContent `json:"card"`
}

// RoomInfo describes the running game to one member. ReceivedCards is only
// populated when the caller is the judge.
type RoomInfo struct {
	Players         []PlayerPublic        `json:"players"`
	CardsToSelect   []models.CardContent  `json:"cardsToSelect"`
	Judge           JudgeInfo             `json:"judge"`
	ReceivedCards   []models.ReceivedCard `json:"playerCards"`
	WaitingForJudge bool                  `json:"waitingForJudge"`
	Round           int                   `json:"round"`
}

// ReconnectInfo is the minimal descriptor returned on reconnect. Room is
// nil when the room or the player no longer exists; the caller is expected
// to re-query room info afterwards.
type ReconnectInfo struct {
	Room *ReconnectRoom `json:"room"`
}

type ReconnectRoom struct {
	IsStarted bool `json:"isStarted"`
}
