package game

// Key identifies a player input.
type Key uint8

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyFire
	KeyDeploy
	keyCount
)

// ParseKey maps the wire name of a key to its Key value. ok is false for
// unknown names.
func ParseKey(name string) (Key, bool) {
	switch name {
	case "up":
		return KeyUp, true
	case "down":
		return KeyDown, true
	case "left":
		return KeyLeft, true
	case "right":
		return KeyRight, true
	case "fire":
		return KeyFire, true
	case "deploy":
		return KeyDeploy, true
	default:
		return 0, false
	}
}

// ControlMode selects who drives the local commander.
type ControlMode uint8

const (
	ControlAuto   ControlMode = iota // bot strategy
	ControlPlayer                    // direct input
)

// ParseControlMode maps a wire mode name; unknown names fall back to auto.
func ParseControlMode(name string) ControlMode {
	if name == "player" {
		return ControlPlayer
	}
	return ControlAuto
}

func (m ControlMode) String() string {
	if m == ControlPlayer {
		return "player"
	}
	return "auto"
}

// InputState is the immutable per-frame view of the held keys. The engine
// copies the live key state into one of these at the top of every Step, so
// the simulation never observes a key change mid-frame.
type InputState struct {
	Up, Down, Left, Right bool
	Fire                  bool
	Deploy                bool
}

// Direction returns the unit-normalized movement vector for the held keys.
func (in InputState) Direction() (dx, dy float64) {
	if in.Up {
		dy--
	}
	if in.Down {
		dy++
	}
	if in.Left {
		dx--
	}
	if in.Right {
		dx++
	}
	if dx != 0 && dy != 0 {
		const inv = 0.7071067811865476 // 1/sqrt(2)
		dx *= inv
		dy *= inv
	}
	return dx, dy
}

// keyState is the live, mutable key bitmap written by Press/Release. It is
// only ever read under the engine lock.
type keyState [keyCount]bool

func (k *keyState) snapshot() InputState {
	return InputState{
		Up:     k[KeyUp],
		Down:   k[KeyDown],
		Left:   k[KeyLeft],
		Right:  k[KeyRight],
		Fire:   k[KeyFire],
		Deploy: k[KeyDeploy],
	}
}
