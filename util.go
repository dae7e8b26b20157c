package main

import (
	"crypto/rand"
	"encoding/hex"
	"math"
	mrand "math/rand/v2"
)

// spawnMargin keeps spawned entities away from the arena edges
const spawnMargin = 100.0

// GenerateID returns a random hex string of the given byte length
func GenerateID(byteLen int) string {
	b := make([]byte, byteLen)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// isFinite reports whether v is a usable coordinate
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// randomArenaPos returns a uniform position inset by spawnMargin from every edge
func randomArenaPos(rng *mrand.Rand, arenaSize float64) (float64, float64) {
	span := arenaSize - 2*spawnMargin
	if span < 0 {
		span = 0
	}
	return spawnMargin + rng.Float64()*span, spawnMargin + rng.Float64()*span
}

// newRand seeds a PCG source from crypto/rand
func newRand() *mrand.Rand {
	var seed [16]byte
	rand.Read(seed[:])
	var s1, s2 uint64
	for i := 0; i < 8; i++ {
		s1 |= uint64(seed[i]) << (uint(i) * 8)
		s2 |= uint64(seed[8+i]) << (uint(i) * 8)
	}
	return mrand.New(mrand.NewPCG(s1, s2))
}
