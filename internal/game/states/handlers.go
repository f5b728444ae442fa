package states

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/tileclient/internal/game/entity"
	"github.com/Faultbox/tileclient/internal/network/packets"
)

func (s *InGameState) registerPacketHandlers() {
	c := s.session.Client
	c.RegisterHandler(packets.KindWelcome, s.handleWelcome)
	c.RegisterHandler(packets.KindSpawn, s.handleSpawn)
	c.RegisterHandler(packets.KindDespawn, s.handleDespawn)
	c.RegisterHandler(packets.KindVelocity, s.handleVelocity)
	c.RegisterHandler(packets.KindFacing, s.handleFacing)
	c.RegisterHandler(packets.KindMove, s.handleMove)
	c.RegisterHandler(packets.KindJump, s.handleJump)
}

// handleWelcome spawns the local player with the id the server assigned.
func (s *InGameState) handleWelcome(env packets.Envelope) error {
	if err := env.Require(4); err != nil {
		return err
	}
	id, err := env.Uint32(0)
	if err != nil {
		return err
	}
	mapID, err := env.String(1)
	if err != nil {
		return err
	}
	x, err := env.Float64(2)
	if err != nil {
		return err
	}
	y, err := env.Float64(3)
	if err != nil {
		return err
	}

	if cur := s.session.Maps.Current(); cur == nil || cur.ID != mapID {
		if _, err := s.enterMap(mapID); err != nil {
			return fmt.Errorf("welcome map: %w", err)
		}
	}
	s.spawnLocal(id, mapID, x, y)
	return nil
}

// handleSpawn adds or repositions a remote player.
func (s *InGameState) handleSpawn(env packets.Envelope) error {
	if err := env.Require(6); err != nil {
		return err
	}
	id, err := env.Uint32(0)
	if err != nil {
		return err
	}
	name, err := env.String(1)
	if err != nil {
		return err
	}
	mapID, err := env.String(2)
	if err != nil {
		return err
	}
	x, err := env.Float64(3)
	if err != nil {
		return err
	}
	y, err := env.Float64(4)
	if err != nil {
		return err
	}
	f, err := env.Int(5)
	if err != nil {
		return err
	}

	if local := s.Local(); local != nil && local.ID == id {
		return nil
	}
	if p := s.session.Entities.Get(id); p != nil {
		p.Cancel()
		p.SetMap(mapID)
		p.SetPosition(x, y, 0)
		p.ChangeFacing(entity.Facing(f))
		return nil
	}

	p := s.session.NewPlayer(id, entity.Descriptor{
		Name:            name,
		IsNetworkPlayer: true,
		Map:             mapID,
		X:               &x,
		Y:               &y,
		Facing:          entity.Facing(f),
	})
	s.session.Entities.Add(p)
	s.session.Log.Debug("remote player spawned", zap.Uint32("id", id), zap.String("name", name))
	return nil
}

func (s *InGameState) handleDespawn(env packets.Envelope) error {
	id, err := env.Uint32(0)
	if err != nil {
		return err
	}
	if local := s.Local(); local != nil && local.ID == id {
		return nil
	}
	s.session.Entities.Remove(id)
	return nil
}

func (s *InGameState) handleVelocity(env packets.Envelope) error {
	p, err := s.remote(env, 2)
	if p == nil {
		return err
	}
	v, err := env.Float64(1)
	if err != nil {
		return err
	}
	p.SetVelocity(v)
	return nil
}

func (s *InGameState) handleFacing(env packets.Envelope) error {
	p, err := s.remote(env, 2)
	if p == nil {
		return err
	}
	f, err := env.Int(1)
	if err != nil {
		return err
	}
	p.ChangeFacing(entity.Facing(f))
	return nil
}

func (s *InGameState) handleMove(env packets.Envelope) error {
	p, err := s.remote(env, 2)
	if p == nil {
		return err
	}
	f, err := env.Int(1)
	if err != nil {
		return err
	}
	p.Step(entity.Facing(f))
	return nil
}

func (s *InGameState) handleJump(env packets.Envelope) error {
	p, err := s.remote(env, 1)
	if p == nil {
		return err
	}
	p.Jump()
	return nil
}

// remote resolves the player a state message is about. Echoes of the local
// player's own changes resolve to nil without error.
func (s *InGameState) remote(env packets.Envelope, fields int) (*entity.Player, error) {
	if err := env.Require(fields); err != nil {
		return nil, err
	}
	id, err := env.Uint32(0)
	if err != nil {
		return nil, err
	}
	p := s.session.Entities.Get(id)
	if p == nil {
		return nil, fmt.Errorf("%s: %w: %d", env.Kind, ErrUnknownEntity, id)
	}
	if p.IsLocalPlayer() {
		return nil, nil
	}
	return p, nil
}
