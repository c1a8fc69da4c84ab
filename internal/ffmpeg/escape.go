package ffmpeg

import "strings"

// Filtergraph escaping has two levels. A value inside a filter's option
// list is escaped first (EscapeValue), then the whole filter description is
// escaped for the graph (EscapeGraph).

var (
	valueEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`)
	graphEscaper = strings.NewReplacer(
		`\`, `\\`, `'`, `\'`,
		`[`, `\[`, `]`, `\]`,
		`,`, `\,`, `;`, `\;`,
	)
)

// EscapeValue escapes a filter option value: \ ' and :.
func EscapeValue(s string) string { return valueEscaper.Replace(s) }

// EscapeGraph escapes a filter description for a filtergraph: \ ' [ ] , and ;.
func EscapeGraph(s string) string { return graphEscaper.Replace(s) }

// shellQuote returns s quoted for a POSIX shell when it contains anything
// outside a conservative safe set.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsFunc(s, unsafeShellRune) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func unsafeShellRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_./:=@%+,", r)
}
