// Package region implements the partition abstract machine the isolation
// analysis runs on: elements (tracked values), regions (must-alias groups
// treated as one unit for transfer purposes), the tagged operation log
// produced by translating IR blocks, the evaluator that replays a log
// against a partition, and the fixed-point solver that converges entry
// partitions per block.
package region
