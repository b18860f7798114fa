package game

import "testing"

func TestSnapshotPoolPublish(t *testing.T) {
	pool := NewSnapshotPool(DefaultLimits)

	w := pool.AcquireWrite()
	w.Round = 7
	w.Fighters = append(w.Fighters, FighterSnapshot{ID: "bot-A-1"})
	pool.PublishWrite()

	r := pool.AcquireRead()
	if r.Round != 7 || len(r.Fighters) != 1 {
		t.Errorf("read snapshot round=%d fighters=%d, want 7/1", r.Round, len(r.Fighters))
	}
}

func TestSnapshotPoolSequenceMonotonic(t *testing.T) {
	pool := NewSnapshotPool(DefaultLimits)

	var last uint64
	for i := 0; i < 10; i++ {
		w := pool.AcquireWrite()
		if w.Sequence <= last {
			t.Fatalf("sequence %d not greater than %d", w.Sequence, last)
		}
		last = w.Sequence
		pool.PublishWrite()
	}
}

func TestSnapshotPoolResetsSlices(t *testing.T) {
	pool := NewSnapshotPool(DefaultLimits)

	w := pool.AcquireWrite()
	w.Fighters = append(w.Fighters, FighterSnapshot{ID: "bot-A-1"})
	w.Projectiles = append(w.Projectiles, ProjectileSnapshot{ID: "shot-1"})
	pool.PublishWrite()

	// Cycle back around to the same buffer.
	for i := 0; i < 3; i++ {
		w = pool.AcquireWrite()
		if len(w.Fighters) != 0 || len(w.Projectiles) != 0 || len(w.Effects) != 0 {
			t.Fatalf("write slot %d not reset: %d fighters", i, len(w.Fighters))
		}
		pool.PublishWrite()
	}
}

func TestSnapshotReadIsolation(t *testing.T) {
	// The published frame a reader holds must not be the one being written.
	pool := NewSnapshotPool(DefaultLimits)

	w := pool.AcquireWrite()
	w.Tick = 1
	pool.PublishWrite()

	r := pool.AcquireRead()
	w2 := pool.AcquireWrite()
	if r == w2 {
		t.Error("reader and writer share a buffer")
	}
}
