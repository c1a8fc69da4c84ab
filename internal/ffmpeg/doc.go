// Package ffmpeg compiles a planner.Chain into a single ffmpeg invocation
// and runs it.
//
// Types:
//   - Command: executable path plus argument list; String renders a
//     shell-quoted line for dry runs.
//   - Executor: runs a Command, captures stdout/stderr, queries the
//     engine's filter list and version.
//   - EngineError: nonzero engine exit with the stderr tail.
//   - Progress: parses "-progress pipe:1" key/value output into a bar.
//
// Functions:
//   - Compile(Options, Chain) → Command
//   - Graph(Chain) → filter_complex string
//   - EscapeValue / EscapeGraph: two-level filtergraph escaping
//   - ParseFilters(stdout) → filter set
//
// Stderr classification (errors.go) maps filter rejections to
// FilterBuildError; every other failure is an ExecutionError.
package ffmpeg
