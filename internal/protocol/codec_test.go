package protocol

import (
	"testing"

	"acorn-arena/internal/game"
)

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		name string
		want Encoding
	}{
		{"msgpack", EncodingMsgpack},
		{"json", EncodingJSON},
		{"", EncodingJSON},
		{"protobuf", EncodingJSON},
	}
	for _, tt := range tests {
		if got := ParseEncoding(tt.name); got != tt.want {
			t.Errorf("ParseEncoding(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
	if !EncodingMsgpack.Binary() || EncodingJSON.Binary() {
		t.Error("Binary() wrong for one of the encodings")
	}
}

func TestInboundRoundTrip(t *testing.T) {
	for _, enc := range []Encoding{EncodingJSON, EncodingMsgpack} {
		t.Run(enc.String(), func(t *testing.T) {
			data, err := enc.Marshal(Envelope{T: TypeInput, D: InputMsg{Key: "fire", Pressed: true}})
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}

			in, err := enc.DecodeInbound(data)
			if err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if in.T != TypeInput {
				t.Fatalf("type = %q, want %q", in.T, TypeInput)
			}

			var msg InputMsg
			if err := in.Decode(&msg); err != nil {
				t.Fatalf("decode payload: %v", err)
			}
			if msg.Key != "fire" || !msg.Pressed {
				t.Errorf("payload = %+v", msg)
			}
		})
	}
}

func TestInboundNoPayload(t *testing.T) {
	data, err := EncodingJSON.Marshal(Envelope{T: TypeReset})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	in, err := EncodingJSON.DecodeInbound(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.T != TypeReset {
		t.Errorf("type = %q", in.T)
	}
	var msg ControlMsg
	if err := in.Decode(&msg); err != nil {
		t.Errorf("empty payload decode errored: %v", err)
	}
}

func TestDecodeInboundRejectsGarbage(t *testing.T) {
	if _, err := EncodingJSON.DecodeInbound([]byte("not json")); err == nil {
		t.Error("garbage JSON accepted")
	}
	if _, err := EncodingMsgpack.DecodeInbound([]byte{0xc1}); err == nil {
		t.Error("garbage msgpack accepted")
	}
}

func TestSnapshotFrom(t *testing.T) {
	src := &game.ArenaSnapshot{
		Sequence:       9,
		Tick:           120,
		Phase:          "running",
		Round:          2,
		MaxRounds:      5,
		WinsToClaim:    3,
		DroneRemaining: -1,
		Fighters: []game.FighterSnapshot{
			{ID: "commander-A-1", Team: "A", Role: "commander", HP: 75, MaxHP: 100, Alive: true},
		},
		Projectiles: []game.ProjectileSnapshot{{ID: "shot-4", Team: "B", VX: -500}},
	}
	src.TeamA.AliveCount = 3

	snap := SnapshotFrom(src)
	if snap.Seq != 9 || snap.Tick != 120 || snap.Round != 2 {
		t.Errorf("header = %+v", snap)
	}
	if snap.DroneRemaining != -1 {
		t.Errorf("droneRemaining = %d, want -1", snap.DroneRemaining)
	}
	if len(snap.Fighters) != 1 || snap.Fighters[0].HP != 75 {
		t.Errorf("fighters = %+v", snap.Fighters)
	}
	if len(snap.Projectiles) != 1 || snap.Projectiles[0].VX != -500 {
		t.Errorf("projectiles = %+v", snap.Projectiles)
	}
	if snap.TeamA.AliveCount != 3 {
		t.Errorf("teamA = %+v", snap.TeamA)
	}
}

func TestMatchEventFrom(t *testing.T) {
	ev := MatchEventFrom(game.MatchEvent{
		Round:       3,
		WinnerLabel: "A",
		Reason:      game.ReasonElimination,
		WinsA:       2,
		MatchOver:   false,
		RoundLost:   game.CasualtyTally{TeamA: 1, TeamB: 4},
	})
	if ev.Winner != "A" || ev.Reason != "elimination" || ev.WinsA != 2 {
		t.Errorf("event = %+v", ev)
	}
	if ev.RoundLost.B != 4 {
		t.Errorf("roundLost = %+v", ev.RoundLost)
	}
}
