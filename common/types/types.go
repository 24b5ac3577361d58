package types

// BlockID identifies a block. IDs are dense and strictly increasing,
// starting from 1 for the first block of a run.
type BlockID int

// NodeID identifies a node in the network topology.
type NodeID int

// ProducerID identifies a block producer.
type ProducerID int

// WalletID identifies a transaction-generating wallet.
type WalletID int

const (
	// HeaderSize is the fixed serialized size of a block header in bytes.
	HeaderSize = 1024
	// TxUnitSize is the serialized size of a single transaction in bytes.
	TxUnitSize = 256
	// YearSeconds is the number of simulated seconds in a year.
	YearSeconds = 365 * 24 * 3600
)

// Block is a produced block. SizeBytes is a pure function of TxCount.
type Block struct {
	ID             BlockID
	TxCount        int
	SizeBytes      int
	InterBlockTime float64
	CreatedAt      float64
}

// NewBlock assembles a block with the derived serialized size.
func NewBlock(id BlockID, txCount int, interBlockTime, createdAt float64) Block {
	return Block{
		ID:             id,
		TxCount:        txCount,
		SizeBytes:      BlockSize(txCount),
		InterBlockTime: interBlockTime,
		CreatedAt:      createdAt,
	}
}

// BlockSize returns the serialized size in bytes of a block holding txCount transactions.
func BlockSize(txCount int) int {
	return HeaderSize + txCount*TxUnitSize
}
