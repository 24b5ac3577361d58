package attack

import "go.uber.org/zap/zapcore"

// SelfishMining withholds attacker blocks to build a private lead over
// the public chain and publishes on honest finds:
//
//	lead 0: honest block is adopted, honest reward granted.
//	lead 1: publish the single private block to contest, assume the
//	        race is won, orphan the honest block.
//	lead 2: publish both private blocks, overriding the honest block.
//	lead>2: publish exactly one block to keep the advantage.
//
// An attacker block is never published immediately, it only extends the
// private chain.
type SelfishMining struct {
	lead       int
	privateLen int
	publicLen  int

	attackerBlocks int
	honestBlocks   int
	wastedHonest   int

	attackerRewards float64
	honestRewards   float64
}

func NewSelfishMining() *SelfishMining {
	return &SelfishMining{}
}

func (s *SelfishMining) Kind() Kind {
	return KindSelfish
}

func (s *SelfishMining) OnBlock(attackerWon bool, reward float64) {
	if attackerWon {
		s.privateLen++
		s.lead++
		return
	}
	s.publicLen++
	switch {
	case s.lead == 0:
		s.honestBlocks++
		s.honestRewards += reward
	case s.lead == 1:
		s.attackerBlocks++
		s.attackerRewards += reward
		s.wastedHonest++
		s.privateLen = 0
		s.lead = 0
	case s.lead == 2:
		s.attackerBlocks += 2
		s.attackerRewards += reward * 2
		s.wastedHonest++
		s.privateLen = 0
		s.lead = 0
	default:
		s.attackerBlocks++
		s.attackerRewards += reward
		s.wastedHonest++
		s.privateLen--
		s.lead--
	}
}

// Lead returns the attacker's current unpublished advantage.
func (s *SelfishMining) Lead() int {
	return s.lead
}

func (s *SelfishMining) Metrics() Metrics {
	total := s.attackerBlocks + s.honestBlocks
	share := 0.0
	if total > 0 {
		share = float64(s.attackerBlocks) / float64(total)
	}
	return SelfishMetrics{
		AttackerBlocks:  s.attackerBlocks,
		HonestBlocks:    s.honestBlocks,
		WastedHonest:    s.wastedHonest,
		AttackerShare:   share,
		AttackerRewards: s.attackerRewards,
		HonestRewards:   s.honestRewards,
		PrivateChainLen: s.privateLen,
	}
}

// SelfishMetrics is the final export of a selfish mining run. The share
// is the attacker's fraction of main-chain blocks; above the attacker's
// weight fraction means the attack paid off.
type SelfishMetrics struct {
	AttackerBlocks  int     `json:"attacker_blocks"`
	HonestBlocks    int     `json:"honest_blocks"`
	WastedHonest    int     `json:"wasted_blocks"`
	AttackerShare   float64 `json:"attacker_share"`
	AttackerRewards float64 `json:"attacker_rewards"`
	HonestRewards   float64 `json:"honest_rewards"`
	PrivateChainLen int     `json:"private_chain_length"`
}

func (SelfishMetrics) Kind() Kind {
	return KindSelfish
}

func (m SelfishMetrics) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddInt("attacker_blocks", m.AttackerBlocks)
	encoder.AddInt("honest_blocks", m.HonestBlocks)
	encoder.AddInt("wasted_blocks", m.WastedHonest)
	encoder.AddFloat64("attacker_share", m.AttackerShare)
	encoder.AddFloat64("attacker_rewards", m.AttackerRewards)
	encoder.AddFloat64("honest_rewards", m.HonestRewards)
	encoder.AddInt("private_chain_length", m.PrivateChainLen)
	return nil
}
