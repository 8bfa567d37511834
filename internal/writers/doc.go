// Package writers turns clustering results into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (Newick lines, report rows, TSV, JSON/JSONL).
//   - core stays domain-only; pipeline stays orchestration-only.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers
