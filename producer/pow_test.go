package producer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/btursunbayev/blocksim/common/types"
	"github.com/btursunbayev/blocksim/sim"
)

func TestMinerSolveTimeMean(t *testing.T) {
	// Exponential solve times with rate hashrate/difficulty have mean
	// difficulty/hashrate. 600 here, within 10% over 20000 samples.
	const (
		hashrate   = 1e6
		difficulty = 6e8
		samples    = 20000
	)
	rng := rand.New(rand.NewSource(42))
	m := NewMiner(0, hashrate)

	sum := 0.0
	for i := 0; i < samples; i++ {
		race := sim.NewRace()
		m.Attempt(Round{Difficulty: difficulty, Race: race, RNG: rng})
		clock := sim.NewClock()
		_, elapsed, err := race.Resolve(clock)
		require.NoError(t, err)
		sum += elapsed
	}
	mean := sum / samples
	require.InEpsilon(t, difficulty/hashrate, mean, 0.1)
}

func TestMinerHigherHashrateWinsMoreRaces(t *testing.T) {
	fast := NewMiner(0, 9e6)
	slow := NewMiner(1, 1e6)
	rng := rand.New(rand.NewSource(7))

	fastWins := 0
	const rounds = 2000
	for i := 0; i < rounds; i++ {
		race := sim.NewRace()
		round := Round{Difficulty: 6e8, Race: race, RNG: rng}
		fast.Attempt(round)
		slow.Attempt(round)
		winner, _, err := race.Resolve(sim.NewClock())
		require.NoError(t, err)
		if winner == fast.ID() {
			fastWins++
		}
	}
	// 90% expected share for the 9x hashrate miner.
	require.Greater(t, fastWins, rounds*8/10)
}

func TestMinerAccessors(t *testing.T) {
	m := NewMiner(5, 2e6)
	require.Equal(t, types.ProducerID(5), m.ID())
	require.Equal(t, 2e6, m.Weight())
	require.Equal(t, KindPoW, m.Kind())
}

func TestValidatorSignalsRace(t *testing.T) {
	v := NewValidator(2, 1000)
	race := sim.NewRace()
	v.Attempt(Round{Difficulty: 1, Race: race, RNG: rand.New(rand.NewSource(1))})
	clock := sim.NewClockAt(10)
	winner, elapsed, err := race.Resolve(clock)
	require.NoError(t, err)
	require.Equal(t, v.ID(), winner)
	require.Zero(t, elapsed)
	require.Equal(t, 10.0, clock.Now())
}

func TestFarmerSignalsRace(t *testing.T) {
	f := NewFarmer(4, 1<<40)
	race := sim.NewRace()
	f.Attempt(Round{Difficulty: 1, Race: race, RNG: rand.New(rand.NewSource(1))})
	winner, elapsed, err := race.Resolve(sim.NewClock())
	require.NoError(t, err)
	require.Equal(t, f.ID(), winner)
	require.Zero(t, elapsed)
	require.Equal(t, KindPoSpace, f.Kind())
}

func TestKindString(t *testing.T) {
	require.Equal(t, "pow", KindPoW.String())
	require.Equal(t, "pos", KindPoS.String())
	require.Equal(t, "pospace", KindPoSpace.String())
}
