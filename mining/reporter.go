package mining

//go:generate mockgen -package=mining -self_package=github.com/btursunbayev/blocksim/mining -destination=./mocks.go -source=./reporter.go

// Progress is the periodic report emitted every ReportEvery blocks.
// Rates cover the window since the previous report; totals are
// cumulative. Percent and ETA are zero when no block limit is set.
type Progress struct {
	Time       float64
	Blocks     int
	BlockLimit int
	Percent    float64

	AvgBlockTime float64
	TPS          float64
	Inflation    float64
	ETA          float64

	Difficulty  float64
	TotalWeight float64

	TotalTx    int
	TotalCoins float64
	PoolLen    int

	NetworkBytes int64
	IORequests   int64
}

// Summary is the single final report of a run. Rates cover the whole
// run.
type Summary struct {
	Time       float64
	Blocks     int
	BlockLimit int

	AvgBlockTime float64
	TPS          float64
	Inflation    float64

	Difficulty  float64
	TotalWeight float64

	TotalTx    int
	TotalCoins float64
	PoolLen    int

	NetworkBytes int64
	IORequests   int64
}

// Reporter receives progress callbacks from the coordinator. Reporters
// observe, they never mutate simulation state.
type Reporter interface {
	Progress(Progress)
	Summary(Summary)
}
