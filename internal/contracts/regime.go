package contracts

// Regime is the coarse market trend label derived from a benchmark index
type Regime string

const (
	RegimeBull    Regime = "BULL"
	RegimeBear    Regime = "BEAR"
	RegimeNeutral Regime = "NEUTRAL"
)
