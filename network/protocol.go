package network

// Inbound operation names.
const (
	EventHeartbeat          = "heartbeat"
	EventCreateRoom         = "create-room"
	EventJoinRoom           = "join-room"
	EventGetWaitingRoomInfo = "get-waiting-room-info"
	EventLeaveRoom          = "leave-room"
	EventStartGame          = "start-game"
	EventGetRoomInfo        = "get-room-info"
	EventSetCard            = "set-card"
	EventSetWinnerCard      = "set-winner-card"
	EventReconnect          = "reconnect"
)

// Outbound notifications fanned out to room members.
const (
	EventJoinPlayer      = "join-player"
	EventPlayerLeaves    = "player-leaves"
	EventMoveToGame      = "move-to-game"
	EventPlayerSetCard   = "player-set-card"
	EventAllPlayersReady = "all-players-ready"
	EventSelectJudgeCard = "select-judge-card"
	EventWinnerCard      = "winner-card"
	EventEndGame         = "end-game"
	EventNextRound       = "next-round"
	EventNewCard         = "new-card"
)
