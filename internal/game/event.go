package game

import (
	"encoding/json"
	"time"
)

// EventType classifies entries in the debug event log.
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick
	EventTypeRoundStart
	EventTypeRoundEnd
	EventTypeMatchEnd
	EventTypeCasualty
	EventTypeDroneDeploy
	EventTypeShot
)

// EventVersion for backwards compatibility in replay tooling.
const EventVersion uint8 = 1

// Event is one record in the append-only event log.
type Event struct {
	Version   uint8     `json:"version"`
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"` // Unix nano
	Sequence  uint64    `json:"sequence"`
	TickNum   uint64    `json:"tickNum"`
	SourceID  string    `json:"sourceId"` // fighter id, empty for match-level events
	Payload   []byte    `json:"payload"`  // JSON-encoded payload
}

func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypeRoundStart:
		return "round_start"
	case EventTypeRoundEnd:
		return "round_end"
	case EventTypeMatchEnd:
		return "match_end"
	case EventTypeCasualty:
		return "casualty"
	case EventTypeDroneDeploy:
		return "drone_deploy"
	case EventTypeShot:
		return "shot"
	default:
		return "unknown"
	}
}

// TickPayload marks a step boundary with the RNG seed for replay.
type TickPayload struct {
	RNGSeed     int64 `json:"rngSeed"`
	Fighters    int   `json:"fighters"`
	DeltaTimeNs int64 `json:"deltaTimeNs"`
}

// RoundPayload describes a round transition.
type RoundPayload struct {
	Round  int    `json:"round"`
	Winner string `json:"winner,omitempty"`
	WinsA  int    `json:"winsA"`
	WinsB  int    `json:"winsB"`
}

// CasualtyPayload records one elimination.
type CasualtyPayload struct {
	FighterID string `json:"fighterId"`
	Team      string `json:"team"`
	KillerID  string `json:"killerId"`
	Round     int    `json:"round"`
}

// DroneDeployPayload records a drone entering the arena.
type DroneDeployPayload struct {
	DroneID  string `json:"droneId"`
	Team     string `json:"team"`
	Round    int    `json:"round"`
	Deployed int    `json:"deployed"`
}

// EncodePayload marshals a payload to JSON bytes.
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates an event stamped with the current time.
func NewEvent(eventType EventType, tickNum uint64, sourceID string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		SourceID:  sourceID,
		Payload:   EncodePayload(payload),
	}
}
