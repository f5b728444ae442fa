// Package packets defines the messages exchanged with the game server and
// their msgpack encoding.
package packets

import (
	"errors"
	"fmt"
	"math"

	"github.com/hashicorp/go-msgpack/v2/codec"
)

// Message kinds. The payload layout is listed next to each kind.
const (
	KindHello    = "Hello"    // [sessionID, playerName]
	KindWelcome  = "Welcome"  // [entityID, mapID, x, y]
	KindSpawn    = "Spawn"    // [entityID, name, mapID, x, y, facing]
	KindDespawn  = "Despawn"  // [entityID]
	KindVelocity = "Velocity" // [entityID, velocity]
	KindFacing   = "Facing"   // [entityID, facing]
	KindMove     = "Move"     // [entityID, facing]
	KindJump     = "Jump"     // [entityID]
)

// ErrShortPayload is returned when a payload has fewer fields than its kind
// requires.
var ErrShortPayload = errors.New("payload too short")

// ErrOutOfRange is returned when a numeric field does not fit its type.
var ErrOutOfRange = errors.New("value out of range")

// Envelope is the unit sent over the wire.
type Envelope struct {
	Kind    string `codec:"k"`
	Payload []any  `codec:"p"`
}

var handle = &codec.MsgpackHandle{}

// Encode encodes a message to msgpack bytes.
func Encode(kind string, payload ...any) ([]byte, error) {
	var buf []byte
	enc := codec.NewEncoderBytes(&buf, handle)
	if err := enc.Encode(Envelope{Kind: kind, Payload: payload}); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", kind, err)
	}
	return buf, nil
}

// Decode decodes msgpack bytes into an envelope.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	dec := codec.NewDecoderBytes(data, handle)
	if err := dec.Decode(&env); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}
	if env.Kind == "" {
		return Envelope{}, errors.New("decoding envelope: missing kind")
	}
	return env, nil
}

// Require checks that the payload carries at least n fields.
func (e Envelope) Require(n int) error {
	if len(e.Payload) < n {
		return fmt.Errorf("%s: %w: want %d fields, got %d", e.Kind, ErrShortPayload, n, len(e.Payload))
	}
	return nil
}

// Float64 returns payload field i as a float64. Numbers decode as signed,
// unsigned or float depending on their wire form; all are accepted.
func (e Envelope) Float64(i int) (float64, error) {
	if i >= len(e.Payload) {
		return 0, fmt.Errorf("%s field %d: %w", e.Kind, i, ErrShortPayload)
	}
	switch v := e.Payload[i].(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	}
	return 0, fmt.Errorf("%s field %d: not a number (%T)", e.Kind, i, e.Payload[i])
}

// Int returns payload field i as an int. Fractions are truncated; values
// outside the int32 range are rejected.
func (e Envelope) Int(i int) (int, error) {
	f, err := e.Float64(i)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%s field %d: %w: %v", e.Kind, i, ErrOutOfRange, f)
	}
	return int(f), nil
}

// Uint32 returns payload field i as an entity id.
func (e Envelope) Uint32(i int) (uint32, error) {
	f, err := e.Float64(i)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f < 0 || f > math.MaxUint32 || f != math.Trunc(f) {
		return 0, fmt.Errorf("%s field %d: %w: id %v", e.Kind, i, ErrOutOfRange, f)
	}
	return uint32(f), nil
}

// String returns payload field i as a string.
func (e Envelope) String(i int) (string, error) {
	if i >= len(e.Payload) {
		return "", fmt.Errorf("%s field %d: %w", e.Kind, i, ErrShortPayload)
	}
	switch v := e.Payload[i].(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return "", fmt.Errorf("%s field %d: not a string (%T)", e.Kind, i, e.Payload[i])
}
