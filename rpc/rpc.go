package rpc

import (
	"context"
	"net"
	"net/rpc"
	"time"

	"github.com/cardclash/gameserver/logger"
	"github.com/cardclash/gameserver/models"
	"github.com/cardclash/gameserver/session"
	"github.com/cardclash/gameserver/store"
)

// Server manages the RPC listener for the admin surface.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// AdminService exposes operational lookups over net/rpc: a raw room
// snapshot by code, and live connection counts.
type AdminService struct {
	roomStore      store.Store
	sessionManager *session.Manager
}

func NewAdminService(roomStore store.Store, sessionManager *session.Manager) *AdminService {
	return &AdminService{roomStore: roomStore, sessionManager: sessionManager}
}

type RoomSnapshotArgs struct {
	RoomCode string
}

type RoomSnapshotReply struct {
	Room *models.Room
}

// RoomSnapshot returns the stored room record as-is, including hands and
// decks. Operator tooling only; never exposed to players.
func (a *AdminService) RoomSnapshot(args *RoomSnapshotArgs, reply *RoomSnapshotReply) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	room, err := a.roomStore.Get(ctx, args.RoomCode)
	if err != nil {
		return err
	}
	reply.Room = room
	return nil
}

type StatsArgs struct{}

type StatsReply struct {
	Sessions int
}

// Stats reports live connection counts.
func (a *AdminService) Stats(args *StatsArgs, reply *StatsReply) error {
	reply.Sessions = a.sessionManager.Count()
	return nil
}
