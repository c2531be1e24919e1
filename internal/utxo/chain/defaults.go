package chain

const (
	defaultMaxReorgDepth = 100
	defaultMaxBranch     = 1024
	defaultPlanAttempts  = 3
)
