// Package harness renders evaluated scope trees into deterministic text
// snapshots and compares them against golden files. Loader and engine
// behavior is pinned end to end: a fixture directory is parsed, composed,
// evaluated, and the rendered result must be byte-stable.
package harness
