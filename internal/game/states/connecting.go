package states

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/tileclient/internal/network/packets"
)

// ConnectingStateConfig contains configuration for the connecting state.
type ConnectingStateConfig struct {
	Server  string        // Websocket URL
	Timeout time.Duration // Dial timeout
}

// ConnectingState dials the server and hands over to the next state. A
// failed dial is not fatal: the client keeps going with messages dropped.
type ConnectingState struct {
	config  ConnectingStateConfig
	session *Session
	manager *Manager
	next    State

	ctx    context.Context
	cancel context.CancelFunc
	done   chan error

	ErrorMsg  string
	StatusMsg string
}

// NewConnectingState creates a new connecting state.
func NewConnectingState(cfg ConnectingStateConfig, session *Session, manager *Manager, next State) *ConnectingState {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &ConnectingState{
		config:    cfg,
		session:   session,
		manager:   manager,
		next:      next,
		StatusMsg: "Connecting...",
	}
}

// Enter starts dialing in the background.
func (s *ConnectingState) Enter() error {
	if s.session.Client == nil {
		return fmt.Errorf("connecting state needs a network client")
	}
	s.ErrorMsg = ""
	s.StatusMsg = fmt.Sprintf("Connecting to %s...", s.config.Server)
	s.done = make(chan error, 1)
	s.ctx, s.cancel = context.WithTimeout(context.Background(), s.config.Timeout)

	go func(ctx context.Context) {
		s.done <- s.session.Client.Connect(ctx, s.config.Server)
	}(s.ctx)
	return nil
}

// Exit cancels a pending dial.
func (s *ConnectingState) Exit() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// Update waits for the dial to finish.
func (s *ConnectingState) Update(dt float64) error {
	select {
	case err := <-s.done:
		if err != nil {
			s.ErrorMsg = fmt.Sprintf("Connection failed: %v", err)
			s.session.Log.Warn("connection failed, continuing without server",
				zap.String("server", s.config.Server), zap.Error(err))
			s.session.Gate.SetOffline(true)
			s.session.Notify("Could not reach %s, playing offline", s.config.Server)
		} else {
			s.StatusMsg = "Connected!"
			s.session.Notify("Connected to %s", s.config.Server)
			s.session.Client.SendData(packets.KindHello,
				s.session.Client.Session().String(), s.session.Config.Network.PlayerName)
		}
		s.manager.Change(s.next)
	default:
	}
	return nil
}

// GetStatusMessage returns the current status message.
func (s *ConnectingState) GetStatusMessage() string {
	return s.StatusMsg
}

// GetErrorMessage returns the current error message.
func (s *ConnectingState) GetErrorMessage() string {
	return s.ErrorMsg
}
