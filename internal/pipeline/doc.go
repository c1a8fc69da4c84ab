// Package pipeline drives one conversion end to end.
//
// Types:
//   - Runner (logger, prober, engine, stdout) and the Prober/Engine
//     interfaces it depends on.
//   - Result (outcome, command, chain, output size, elapsed time).
//
// Flow of Runner.Run:
//
//	inspect input → probe → build chain → compile →
//	dry run (print, stop) | overwrite skip (stop) | preflight → execute → report
//
// Every failure is returned as a classified apperr error; the caller owns
// logging it and the exit code.
package pipeline
