// game/engine.go
package game

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/cardclash/gameserver/content"
	"github.com/cardclash/gameserver/dealer"
	"github.com/cardclash/gameserver/models"
	"github.com/cardclash/gameserver/network"
	"github.com/cardclash/gameserver/store"
)

// Game defaults, matching the classic party setup.
const (
	DefaultRounds         = 5
	DefaultCardsPerPlayer = 7
)

// Engine owns all room and round transitions. Every mutating operation is
// a read-validate-mutate-persist unit executed through the store's
// optimistic Update, so two concurrent handlers for the same room code
// cannot silently overwrite each other's writes. Outbound events are
// buffered during the mutation and fanned out only after the write lands.
type Engine struct {
	store   store.Store
	source  content.Source
	emitter Emitter

	// Fallbacks applied when a start-game request omits the values.
	defaultRounds         int
	defaultCardsPerPlayer int

	// onEmptyRoom is invoked when a leave drains the roster. The server
	// wires this to the idle-room reaper.
	onEmptyRoom func(roomCode string)
}

func NewEngine(st store.Store, src content.Source, emitter Emitter) *Engine {
	return &Engine{
		store:                 st,
		source:                src,
		emitter:               emitter,
		defaultRounds:         DefaultRounds,
		defaultCardsPerPlayer: DefaultCardsPerPlayer,
	}
}

// SetGameDefaults overrides the fallback round count and hand size used
// when a start-game request does not specify them. Non-positive values
// leave the current defaults in place.
func (e *Engine) SetGameDefaults(rounds, cardsPerPlayer int) {
	if rounds > 0 {
		e.defaultRounds = rounds
	}
	if cardsPerPlayer > 0 {
		e.defaultCardsPerPlayer = cardsPerPlayer
	}
}

// SetEmptyRoomHook registers the callback fired when a room's roster
// becomes empty.
func (e *Engine) SetEmptyRoomHook(fn func(roomCode string)) {
	e.onEmptyRoom = fn
}

// emission is one buffered outbound event.
type emission func()

func flush(emissions []emission) {
	for _, emit := range emissions {
		emit()
	}
}

// mapStoreErr converts a store miss into the domain error.
func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrRoomNotFound
	}
	return err
}

// CreateRoom generates a fresh room code and creates a lobby with the
// creator as its only player.
func (e *Engine) CreateRoom(ctx context.Context, username, socketID string) (*CreateRoomResult, error) {
	roomCode := NewRoomCode()

	room := &models.Room{
		RoomCreator: username,
		Players: []models.Player{{
			Username: username,
			Cards:    []models.CardContent{},
			SocketID: socketID,
		}},
	}

	if err := e.store.Set(ctx, roomCode, room); err != nil {
		return nil, err
	}
	return &CreateRoomResult{Username: username, RoomCode: roomCode}, nil
}

// JoinRoom appends a player to a lobby. Joining a started room is
// rejected, as is a username already present in the roster.
func (e *Engine) JoinRoom(ctx context.Context, username, roomCode, socketID string) (*JoinRoomResult, error) {
	_, err := e.store.Update(ctx, roomCode, func(room *models.Room) (bool, error) {
		if room.IsStarted {
			return false, ErrRoomAlreadyStarted
		}
		if room.PlayerIndex(username) != -1 {
			return false, ErrUsernameTaken
		}
		room.Players = append(room.Players, models.Player{
			Username: username,
			Cards:    []models.CardContent{},
			SocketID: socketID,
		})
		return true, nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}

	e.emitter.ToRoomExcept(roomCode, socketID, network.EventJoinPlayer, PlayerUsername{Username: username})

	return &JoinRoomResult{Username: username, RoomCode: roomCode}, nil
}

// GetWaitingRoomInfo describes the lobby to a member.
func (e *Engine) GetWaitingRoomInfo(ctx context.Context, username, roomCode string) (*WaitingRoomInfo, error) {
	room, err := e.store.Get(ctx, roomCode)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if room.PlayerIndex(username) == -1 {
		return nil, ErrInvalidRoom
	}

	players := make([]PlayerUsername, 0, len(room.Players))
	for _, p := range room.Players {
		players = append(players, PlayerUsername{Username: p.Username})
	}

	return &WaitingRoomInfo{
		IsRoomCreator: room.RoomCreator == username,
		Players:       players,
	}, nil
}

// LeaveRoom removes exactly one roster entry at the player's index. The
// room itself persists; an emptied room is handed to the reaper hook.
func (e *Engine) LeaveRoom(ctx context.Context, username, roomCode string) error {
	var empty bool

	_, err := e.store.Update(ctx, roomCode, func(room *models.Room) (bool, error) {
		i := room.PlayerIndex(username)
		if i == -1 {
			return false, ErrPlayerNotFound
		}
		room.Players = append(room.Players[:i], room.Players[i+1:]...)
		empty = len(room.Players) == 0
		return true, nil
	})
	if err != nil {
		return mapStoreErr(err)
	}

	e.emitter.ToRoom(roomCode, network.EventPlayerLeaves, PlayerUsername{Username: username})

	if empty && e.onEmptyRoom != nil {
		e.onEmptyRoom(roomCode)
	}
	return nil
}

// StartGame sizes and draws the decks, deals every player a full hand,
// picks the first judge at random and moves the room into its first round.
// Only the connection currently representing the room creator may start.
func (e *Engine) StartGame(ctx context.Context, roomCode, socketID string, cfg models.RoomConfig) error {
	rounds := cfg.WinConditionNumber
	if rounds <= 0 {
		rounds = e.defaultRounds
	}
	cardsPerPlayer := cfg.CardsPerPlayer
	if cardsPerPlayer <= 0 {
		cardsPerPlayer = e.defaultCardsPerPlayer
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	_, err := e.store.Update(ctx, roomCode, func(room *models.Room) (bool, error) {
		i := room.PlayerBySocket(socketID)
		if i == -1 || room.Players[i].Username != room.RoomCreator {
			return false, ErrForbidden
		}

		sizes := dealer.SizeDeck(rounds, len(room.Players), cardsPerPlayer)

		judgeCards, err := e.source.RandomJudgeCards(ctx, sizes.JudgeCards)
		if err != nil {
			return false, err
		}
		judgeDeck, _, err := dealer.EnsureDeckSize(judgeCards, sizes.JudgeCards)
		if err != nil {
			return false, err
		}

		answerCards, err := e.source.RandomAnswerCards(ctx, sizes.PlayerCards)
		if err != nil {
			return false, err
		}
		deck, wasPadded, err := dealer.EnsureDeckSize(answerCards, sizes.PlayerCards)
		if err != nil {
			return false, err
		}

		// A padded deck already repeats cards, so replenishment draws from
		// the full copy; an organic deck keeps only the undealt remainder.
		fullDeck := make([]models.CardContent, len(deck))
		copy(fullDeck, deck)

		remaining, err := dealer.DealInitialHands(rng, room.Players, deck, cardsPerPlayer)
		if err != nil {
			return false, err
		}
		if wasPadded {
			room.PlayerCards = fullDeck
		} else {
			room.PlayerCards = remaining
		}

		judgeIndex := rng.Intn(len(room.Players))
		room.Judge = &models.Judge{
			Card:          judgeDeck[0],
			Username:      room.Players[judgeIndex].Username,
			ReceivedCards: []models.ReceivedCard{},
		}
		room.JudgeCards = judgeDeck
		room.Config = models.RoomConfig{
			GameMode:           cfg.GameMode,
			WinCondition:       cfg.WinCondition,
			WinConditionNumber: rounds,
			CardsPerPlayer:     cardsPerPlayer,
		}
		room.IsStarted = true
		room.Round = 1
		return true, nil
	})
	if err != nil {
		return mapStoreErr(err)
	}

	e.emitter.ToRoom(roomCode, network.EventMoveToGame, nil)
	return nil
}

// GetRoomInfo describes the running game to one member. Submissions are
// only revealed to the judge.
func (e *Engine) GetRoomInfo(ctx context.Context, username, roomCode string) (*RoomInfo, error) {
	room, err := e.store.Get(ctx, roomCode)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	i := room.PlayerIndex(username)
	if i == -1 {
		return nil, ErrPlayerNotFound
	}

	players := make([]PlayerPublic, 0, len(room.Players))
	for _, p := range room.Players {
		players = append(players, PlayerPublic{Username: p.Username, NumberOfWins: p.NumberOfWins})
	}

	info := &RoomInfo{
		Players:       players,
		CardsToSelect: room.Players[i].Cards,
		ReceivedCards: []models.ReceivedCard{},
		Round:         room.Round,
	}

	if room.Judge != nil {
		info.Judge = JudgeInfo{Username: room.Judge.Username, Card: room.Judge.Card}
		info.WaitingForJudge = len(room.Judge.ReceivedCards) == len(room.Players)-1
		if room.Judge.Username == username {
			info.ReceivedCards = room.Judge.ReceivedCards
		}
	}
	return info, nil
}

// SubmitCard records one player's answer for the round. The judge cannot
// submit and nobody submits twice. Once every non-judge player has played,
// the room is told the round is ready and the full submission list goes to
// the judge's connection only.
func (e *Engine) SubmitCard(ctx context.Context, roomCode, username string, card models.CardContent, senderSocketID string) error {
	var emissions []emission

	_, err := e.store.Update(ctx, roomCode, func(room *models.Room) (bool, error) {
		emissions = emissions[:0]

		if room.Judge == nil {
			return false, ErrInvalidRoom
		}
		if room.Judge.Username == username {
			return false, ErrJudgeCannotSubmit
		}
		if room.Judge.HasSubmissionFrom(username) {
			return false, ErrAlreadySubmitted
		}

		room.Judge.ReceivedCards = append(room.Judge.ReceivedCards, models.ReceivedCard{
			Username: username,
			Card:     card,
		})

		emissions = append(emissions, func() {
			e.emitter.ToRoomExcept(roomCode, senderSocketID, network.EventPlayerSetCard, PlayerUsername{Username: username})
		})

		if len(room.Judge.ReceivedCards) == len(room.Players)-1 {
			received := room.Judge.ReceivedCards
			judgeIndex := room.PlayerIndex(room.Judge.Username)
			judgeSocket := ""
			if judgeIndex != -1 {
				judgeSocket = room.Players[judgeIndex].SocketID
			}
			emissions = append(emissions, func() {
				e.emitter.ToRoom(roomCode, network.EventAllPlayersReady, nil)
				if judgeSocket != "" {
					e.emitter.ToSession(judgeSocket, network.EventSelectJudgeCard, received)
				}
			})
		}
		return true, nil
	})
	if err != nil {
		return mapStoreErr(err)
	}

	flush(emissions)
	return nil
}

// SelectWinner is the judge's verdict: it atomically credits the win,
// advances the round and either ends the game or rotates the judge and
// replenishes hands for the next round.
func (e *Engine) SelectWinner(ctx context.Context, roomCode, username, winnerUsername string) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var emissions []emission

	_, err := e.store.Update(ctx, roomCode, func(room *models.Room) (bool, error) {
		emissions = emissions[:0]

		if room.Judge == nil || room.Judge.Username != username {
			return false, ErrNotJudge
		}

		winnerIndex := room.PlayerIndex(winnerUsername)
		if winnerIndex == -1 {
			return false, ErrPlayerNotFound
		}

		room.Players[winnerIndex].NumberOfWins++
		room.Round++

		emissions = append(emissions, func() {
			e.emitter.ToRoom(roomCode, network.EventWinnerCard, PlayerUsername{Username: winnerUsername})
		})

		if room.Round > room.Config.WinConditionNumber {
			// Game over: highest win count takes it, ties resolved to the
			// earliest roster seat.
			best := 0
			for i := range room.Players {
				if room.Players[i].NumberOfWins > room.Players[best].NumberOfWins {
					best = i
				}
			}
			room.Winner = room.Players[best].Username
			overall := room.Winner

			emissions = append(emissions, func() {
				e.emitter.ToRoom(roomCode, network.EventEndGame, PlayerUsername{Username: overall})
			})
			return false, nil
		}

		// Rotate the judge to the next roster seat and consume the next
		// judge prompt.
		judgeIndex := room.PlayerIndex(room.Judge.Username)
		nextJudgeIndex := (judgeIndex + 1) % len(room.Players)

		if len(room.JudgeCards) < 2 {
			return false, dealer.ErrDeckExhausted
		}
		room.JudgeCards = room.JudgeCards[1:]

		room.Judge = &models.Judge{
			Card:          room.JudgeCards[0],
			Username:      room.Players[nextJudgeIndex].Username,
			ReceivedCards: []models.ReceivedCard{},
		}

		// Every player who may submit next round draws one fresh card.
		for i := range room.Players {
			if i == nextJudgeIndex {
				continue
			}
			card, rest, err := dealer.ReplenishOne(rng, room.PlayerCards, &room.Players[i])
			if err != nil {
				return false, err
			}
			room.PlayerCards = rest

			socketID := room.Players[i].SocketID
			drawn := card
			emissions = append(emissions, func() {
				e.emitter.ToSession(socketID, network.EventNewCard, map[string]models.CardContent{"card": drawn})
			})
		}

		nextJudge := JudgeInfo{Username: room.Judge.Username, Card: room.Judge.Card}
		emissions = append(emissions, func() {
			e.emitter.ToRoom(roomCode, network.EventNextRound, map[string]JudgeInfo{"judge": nextJudge})
		})
		return true, nil
	})
	if err != nil {
		return mapStoreErr(err)
	}

	flush(emissions)
	return nil
}

// Reconnect rebinds a connection to its player and reports whether the
// game is running. It never fails with a domain error: a missing room or
// player yields a null room descriptor.
func (e *Engine) Reconnect(ctx context.Context, username, roomCode, socketID string) (*ReconnectInfo, error) {
	var isStarted bool

	_, err := e.store.Update(ctx, roomCode, func(room *models.Room) (bool, error) {
		i := room.PlayerIndex(username)
		if i == -1 {
			return false, ErrPlayerNotFound
		}
		room.Players[i].SocketID = socketID
		isStarted = room.IsStarted
		return true, nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, ErrPlayerNotFound) {
			return &ReconnectInfo{Room: nil}, nil
		}
		return nil, err
	}

	return &ReconnectInfo{Room: &ReconnectRoom{IsStarted: isStarted}}, nil
}
