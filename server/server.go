package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/cardclash/gameserver/broadcast"
	"github.com/cardclash/gameserver/config"
	"github.com/cardclash/gameserver/content"
	"github.com/cardclash/gameserver/game"
	"github.com/cardclash/gameserver/logger"
	"github.com/cardclash/gameserver/models"
	"github.com/cardclash/gameserver/monitor"
	"github.com/cardclash/gameserver/network"
	gameserver_rpc "github.com/cardclash/gameserver/rpc"
	"github.com/cardclash/gameserver/session"
	"github.com/cardclash/gameserver/store"
	"github.com/cardclash/gameserver/timer"
)

// Heartbeat policy: clients ping every heartbeatInterval; a session silent
// past sessionIdleTimeout is closed by the sweep.
const (
	heartbeatInterval  = 30 * time.Second
	sessionIdleTimeout = 2 * time.Minute
)

type GameServer struct {
	addr           string
	upgrader       websocket.Upgrader
	sessionManager *session.Manager
	engine         *game.Engine
	roomStore      store.Store
	monitor        *monitor.Monitor
	rpcServer      *gameserver_rpc.Server
	timers         *timer.Manager
	idleRoomTTL    time.Duration
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, roomStore store.Store, source content.Source) *GameServer {
	s := &GameServer{
		addr:           cfg.Server.HTTPAddress,
		sessionManager: session.NewManager(),
		roomStore:      roomStore,
		monitor:        monitor.NewMonitor("cardclash"),
		timers:         timer.NewManager(),
		idleRoomTTL:    time.Duration(cfg.Game.RoomIdleTTLSeconds) * time.Second,
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	broadcaster := broadcast.NewRoomBroadcaster(s.sessionManager)
	s.engine = game.NewEngine(roomStore, source, broadcaster)
	s.engine.SetGameDefaults(cfg.Game.Rounds, cfg.Game.CardsPerPlayer)
	s.engine.SetEmptyRoomHook(s.scheduleRoomExpiry)

	// 初始化RPC服务器
	rpcServer, err := gameserver_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer
	rpc.Register(gameserver_rpc.NewAdminService(roomStore, s.sessionManager))

	s.monitor.StartServer(cfg.Server.MetricsAddress)

	// 定时清理不活跃的会话
	s.timers.AddTimer(heartbeatInterval, heartbeatInterval, s.sweepIdleSessions)

	return s
}

// sweepIdleSessions closes every connection that missed its heartbeat
// budget; the read loop then removes the session.
func (s *GameServer) sweepIdleSessions() {
	for _, sess := range s.sessionManager.Expired(sessionIdleTimeout) {
		logger.Log.Infof("Closing idle session %s", sess.GetID())
		sess.Close()
	}
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
	s.timers.Stop()
}

// scheduleRoomExpiry deletes an emptied room after the idle TTL, unless a
// player joined again in the meantime.
func (s *GameServer) scheduleRoomExpiry(roomCode string) {
	s.timers.AddTimer(s.idleRoomTTL, 0, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		room, err := s.roomStore.Get(ctx, roomCode)
		if err != nil {
			return
		}
		if len(room.Players) > 0 {
			return
		}
		if err := s.roomStore.Delete(ctx, roomCode); err != nil {
			logger.Log.Errorf("Failed to expire empty room %s: %v", roomCode, err)
			return
		}
		s.monitor.DecActiveRooms()
		logger.Log.Infof("Expired empty room %s", roomCode)
	})
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	wsConn.SetHeartbeat(heartbeatInterval)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		s.monitor.DecOnlinePlayers()
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			envelope, err := wsConn.ReadEnvelope()
			if err != nil {
				return
			}
			s.handleEnvelope(sess, envelope)
		}
	}
}

func (s *GameServer) handleEnvelope(sess *session.Session, envelope *network.Envelope) {
	start := time.Now()
	s.monitor.IncEventsReceived()
	defer func() {
		s.monitor.ObserveOpLatency(time.Since(start))
	}()

	switch envelope.Event {
	case network.EventHeartbeat:
		sess.Touch()
	case network.EventCreateRoom:
		s.handleCreateRoom(sess, envelope)
	case network.EventJoinRoom:
		s.handleJoinRoom(sess, envelope)
	case network.EventGetWaitingRoomInfo:
		s.handleGetWaitingRoomInfo(sess, envelope)
	case network.EventLeaveRoom:
		s.handleLeaveRoom(sess, envelope)
	case network.EventStartGame:
		s.handleStartGame(sess, envelope)
	case network.EventGetRoomInfo:
		s.handleGetRoomInfo(sess, envelope)
	case network.EventSetCard:
		s.handleSetCard(sess, envelope)
	case network.EventSetWinnerCard:
		s.handleSetWinnerCard(sess, envelope)
	case network.EventReconnect:
		s.handleReconnect(sess, envelope)
	default:
		logger.Log.Infof("Unknown event: %s", envelope.Event)
	}
}

// respond writes the ack envelope for an operation. Domain errors surface
// with their own message; anything else is logged in full and reported
// generically.
func (s *GameServer) respond(sess *session.Session, event string, data interface{}, err error) {
	var resp models.Response
	switch {
	case err == nil:
		resp = models.OK(data)
	case game.IsDomainError(err):
		resp = models.Fail(err.Error())
	default:
		logger.Log.Errorf("Event %s failed for session %s: %v", event, sess.GetID(), err)
		resp = models.Fail("server error")
	}
	sess.Send(event, resp)
}

func (s *GameServer) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

type createRoomPayload struct {
	Username string `json:"username"`
}

func (s *GameServer) handleCreateRoom(sess *session.Session, envelope *network.Envelope) {
	var payload createRoomPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		s.respond(sess, envelope.Event, nil, err)
		return
	}

	ctx, cancel := s.opContext()
	defer cancel()

	result, err := s.engine.CreateRoom(ctx, payload.Username, sess.GetID())
	if err == nil {
		sess.Bind(payload.Username, result.RoomCode)
		s.monitor.IncActiveRooms()
		logger.Log.Infof("Session %s created room %s", sess.GetID(), result.RoomCode)
	}
	s.respond(sess, envelope.Event, result, err)
}

type joinRoomPayload struct {
	Username string `json:"username"`
	RoomCode string `json:"roomCode"`
}

func (s *GameServer) handleJoinRoom(sess *session.Session, envelope *network.Envelope) {
	var payload joinRoomPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		s.respond(sess, envelope.Event, nil, err)
		return
	}

	ctx, cancel := s.opContext()
	defer cancel()

	result, err := s.engine.JoinRoom(ctx, payload.Username, payload.RoomCode, sess.GetID())
	if err == nil {
		sess.Bind(payload.Username, payload.RoomCode)
		logger.Log.Infof("Session %s joined room %s", sess.GetID(), payload.RoomCode)
	}
	s.respond(sess, envelope.Event, result, err)
}

func (s *GameServer) handleGetWaitingRoomInfo(sess *session.Session, envelope *network.Envelope) {
	var payload joinRoomPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		s.respond(sess, envelope.Event, nil, err)
		return
	}

	ctx, cancel := s.opContext()
	defer cancel()

	info, err := s.engine.GetWaitingRoomInfo(ctx, payload.Username, payload.RoomCode)
	s.respond(sess, envelope.Event, info, err)
}

func (s *GameServer) handleLeaveRoom(sess *session.Session, envelope *network.Envelope) {
	var payload joinRoomPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		s.respond(sess, envelope.Event, nil, err)
		return
	}

	ctx, cancel := s.opContext()
	defer cancel()

	err := s.engine.LeaveRoom(ctx, payload.Username, payload.RoomCode)
	if err == nil {
		sess.Bind("", "")
	}
	s.respond(sess, envelope.Event, nil, err)
}

type startGamePayload struct {
	RoomCode   string            `json:"roomCode"`
	RoomConfig models.RoomConfig `json:"roomConfig"`
}

func (s *GameServer) handleStartGame(sess *session.Session, envelope *network.Envelope) {
	var payload startGamePayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		s.respond(sess, envelope.Event, nil, err)
		return
	}

	ctx, cancel := s.opContext()
	defer cancel()

	err := s.engine.StartGame(ctx, payload.RoomCode, sess.GetID(), payload.RoomConfig)
	s.respond(sess, envelope.Event, nil, err)
}

func (s *GameServer) handleGetRoomInfo(sess *session.Session, envelope *network.Envelope) {
	var payload joinRoomPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		s.respond(sess, envelope.Event, nil, err)
		return
	}

	ctx, cancel := s.opContext()
	defer cancel()

	info, err := s.engine.GetRoomInfo(ctx, payload.Username, payload.RoomCode)
	s.respond(sess, envelope.Event, info, err)
}

type setCardPayload struct {
	RoomCode string             `json:"roomCode"`
	Username string             `json:"username"`
	Card     models.CardContent `json:"card"`
}

func (s *GameServer) handleSetCard(sess *session.Session, envelope *network.Envelope) {
	var payload setCardPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		s.respond(sess, envelope.Event, nil, err)
		return
	}

	ctx, cancel := s.opContext()
	defer cancel()

	err := s.engine.SubmitCard(ctx, payload.RoomCode, payload.Username, payload.Card, sess.GetID())
	s.respond(sess, envelope.Event, nil, err)
}

type setWinnerCardPayload struct {
	RoomCode string `json:"roomCode"`
	Username string `json:"username"`
	Card     struct {
		Username string `json:"username"`
	} `json:"card"`
}

func (s *GameServer) handleSetWinnerCard(sess *session.Session, envelope *network.Envelope) {
	var payload setWinnerCardPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		s.respond(sess, envelope.Event, nil, err)
		return
	}

	ctx, cancel := s.opContext()
	defer cancel()

	err := s.engine.SelectWinner(ctx, payload.RoomCode, payload.Username, payload.Card.Username)
	if err == nil {
		// A finished game deletes its room; reflect that in the gauge.
		if _, getErr := s.roomStore.Get(ctx, payload.RoomCode); errors.Is(getErr, store.ErrNotFound) {
			s.monitor.DecActiveRooms()
		}
	}
	s.respond(sess, envelope.Event, nil, err)
}

func (s *GameServer) handleReconnect(sess *session.Session, envelope *network.Envelope) {
	var payload joinRoomPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		s.respond(sess, envelope.Event, nil, err)
		return
	}

	ctx, cancel := s.opContext()
	defer cancel()

	info, err := s.engine.Reconnect(ctx, payload.Username, payload.RoomCode, sess.GetID())
	if err == nil && info.Room != nil {
		sess.Bind(payload.Username, payload.RoomCode)
	}
	s.respond(sess, envelope.Event, info, err)
}
