// models/models.go
package models

// CardKind tags the payload carried by a CardContent.
type CardKind string

const (
	// KindPrompt is a judge prompt: media shown to the whole room.
	KindPrompt CardKind = "prompt"
	// KindPhrase is an answer card: a phrase held in a player's hand.
	KindPhrase CardKind = "phrase"
)

// CardContent is the single card payload type used for both judge prompts
// and answer phrases. Prompt cards carry URL and Orientation, phrase cards
// carry Phrase. Dealing and transport code stays agnostic to the shape.
type CardContent struct {
	Kind        CardKind `json:"kind"`
	URL         string   `json:"url,omitempty"`
	Orientation string   `json:"imageOrientation,omitempty"`
	Phrase      string   `json:"phrase,omitempty"`
}

// Prompt builds a judge prompt card.
func Prompt(url, orientation string) CardContent {
	return CardContent{Kind: KindPrompt, URL: url, Orientation: orientation}
}

// Phrase builds an answer card.
func Phrase(text string) CardContent {
	return CardContent{Kind: KindPhrase, Phrase: text}
}

// ReceivedCard is one submission handed to the judge this round.
type ReceivedCard struct {
	Username string      `json:"username"`
	Card     CardContent `json:"card"`
}

// Judge is replaced wholesale at the start of every round.
type Judge struct {
	Card          CardContent    `json:"card"`
	Username      string         `json:"username"`
	ReceivedCards []ReceivedCard `json:"receivedCards"`
}

// HasSubmissionFrom reports whether username already played this round.
func (j *Judge) HasSubmissionFrom(username string) bool {
	for _, rc := range j.ReceivedCards {
		if rc.Username == username {
			return true
		}
	}
	return false
}

// Player is one seat in a room. Username is the durable identity, unique
// within the room. SocketID is the volatile connection currently
// representing the player; it is refreshed on reconnect.
type Player struct {
	Username     string        `json:"username"`
	NumberOfWins int           `json:"numberOfWins"`
	Cards        []CardContent `json:"cards"`
	SocketID     string        `json:"socketId"`
}

// RoomConfig is the start-game configuration supplied by the room creator.
type RoomConfig struct {
	GameMode           string `json:"gameMode"`
	WinCondition       string `json:"winCondition"`
	WinConditionNumber int    `json:"winConditionNumber"`
	CardsPerPlayer     int    `json:"cardsPerPlayer"`
}

// Room is one game session, addressed by a short code. The player order is
// significant: it defines judge rotation and must never be re-sorted.
type Room struct {
	RoomCreator string        `json:"roomCreator"`
	Config      RoomConfig    `json:"config"`
	Round       int           `json:"round"`
	PlayerCards []CardContent `json:"playerCards"`
	JudgeCards  []CardContent `json:"judgeCards"`
	Judge       *Judge        `json:"judge"`
	Winner      string        `json:"winner"`
	Players     []Player      `json:"players"`
	IsStarted   bool          `json:"isStarted"`
}

// PlayerIndex returns the roster index of username, or -1.
func (r *Room) PlayerIndex(username string) int {
	for i := range r.Players {
		if r.Players[i].Username == username {
			return i
		}
	}
	return -1
}

// PlayerBySocket returns the roster index of the player currently bound to
// socketID, or -1.
func (r *Room) PlayerBySocket(socketID string) int {
	for i := range r.Players {
		if r.Players[i].SocketID == socketID {
			return i
		}
	}
	return -1
}

// Response is the ack envelope for every inbound operation. Error responses
// never include Data.
type Response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   bool        `json:"error,omitempty"`
}

// OK builds a success response.
func OK(data interface{}) Response {
	return Response{Message: "ok", Data: data}
}

// Fail builds an error response with a caller-safe message.
func Fail(message string) Response {
	return Response{Message: message, Error: true}
}
