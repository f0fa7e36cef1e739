// Package recovery implements index-bypass reconstruction of a .6cy
// archive: a forward scan of block headers that does not depend on (and
// tolerates the absence of) the INDEX block.
//
// Two entry points mirror the specification's two recovery modes.
// ScanBlocks performs index reconstruction: headers only, grouped and
// sorted into synthesized file records. ExtractRecoverable performs full
// recovery: every scanned block is also decoded, classified by health, and
// healthy DATA blocks are re-emitted into a fresh output archive alongside
// a RecoveryReport summarizing the scan.
package recovery
