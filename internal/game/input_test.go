package game

import (
	"math"
	"testing"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		name   string
		want   Key
		wantOK bool
	}{
		{"up", KeyUp, true},
		{"down", KeyDown, true},
		{"left", KeyLeft, true},
		{"right", KeyRight, true},
		{"fire", KeyFire, true},
		{"deploy", KeyDeploy, true},
		{"jump", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseKey(tt.name)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("ParseKey(%q) = %v, %v", tt.name, got, ok)
			}
		})
	}
}

func TestParseControlMode(t *testing.T) {
	if ParseControlMode("player") != ControlPlayer {
		t.Error("player did not parse")
	}
	if ParseControlMode("auto") != ControlAuto {
		t.Error("auto did not parse")
	}
	if ParseControlMode("nonsense") != ControlAuto {
		t.Error("unknown mode should fall back to auto")
	}
}

func TestDirectionNormalized(t *testing.T) {
	tests := []struct {
		name   string
		in     InputState
		dx, dy float64
	}{
		{"idle", InputState{}, 0, 0},
		{"up", InputState{Up: true}, 0, -1},
		{"right", InputState{Right: true}, 1, 0},
		{"diagonal", InputState{Up: true, Right: true}, math.Sqrt2 / 2, -math.Sqrt2 / 2},
		{"opposed cancels", InputState{Left: true, Right: true}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx, dy := tt.in.Direction()
			if math.Abs(dx-tt.dx) > 1e-9 || math.Abs(dy-tt.dy) > 1e-9 {
				t.Errorf("Direction() = (%f, %f), want (%f, %f)", dx, dy, tt.dx, tt.dy)
			}
		})
	}
}

func TestKeyStateSnapshot(t *testing.T) {
	var k keyState
	k[KeyUp] = true
	k[KeyFire] = true

	in := k.snapshot()
	if !in.Up || !in.Fire || in.Down || in.Deploy {
		t.Errorf("snapshot = %+v", in)
	}

	// Mutating the live state after the copy must not affect the snapshot.
	k[KeyUp] = false
	if !in.Up {
		t.Error("snapshot changed after live mutation")
	}
}
