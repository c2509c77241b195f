package shards

import (
	"fmt"
)

// Strategy selects how expanded shard paths are distributed across ranks.
type Strategy string

const (
	// StrategyScatter assigns each rank a disjoint contiguous slice of the
	// shard list. When the count is not divisible by the world size the
	// remainder shards are dropped.
	StrategyScatter Strategy = "scatter"
	// StrategyReplicate hands every rank the complete shard list.
	StrategyReplicate Strategy = "replicate"
)

// ParseStrategy validates a strategy name from configuration.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case StrategyScatter, StrategyReplicate:
		return Strategy(name), nil
	case "":
		return StrategyScatter, nil
	default:
		return "", fmt.Errorf("shards: unknown strategy %q", name)
	}
}

// Partition returns the shard paths assigned to rank under the strategy.
// worldSize values below 2 return the full list. The returned dropped count
// is the number of trailing shards no rank receives under scatter.
func Partition(paths []string, strategy Strategy, rank, worldSize int) (assigned []string, dropped int, err error) {
	switch strategy {
	case StrategyReplicate:
		return paths, 0, nil
	case StrategyScatter:
	default:
		return nil, 0, fmt.Errorf("shards: unknown strategy %q", strategy)
	}

	if worldSize <= 1 {
		return paths, 0, nil
	}
	if rank < 0 || rank >= worldSize {
		return nil, 0, fmt.Errorf("shards: rank %d out of range for world size %d", rank, worldSize)
	}
	if len(paths) < worldSize {
		return nil, 0, fmt.Errorf("shards: %d shards cannot be scattered across %d ranks", len(paths), worldSize)
	}

	perRank := len(paths) / worldSize
	dropped = len(paths) - perRank*worldSize
	begin := rank * perRank
	return paths[begin : begin+perRank], dropped, nil
}
