// Package diag defines the diagnostic model shared by every stage.
//
// A Diagnostic carries a Code, a Severity, a message, a primary source.Span,
// optional notes and optional Fix records. Codes are grouped by range:
//
//   - 1001..1006: rules on the union declaration itself (UL1xxx)
//   - 2001..2005: rules on nested variant declarations (UL2xxx)
//   - 5000..5099: lexer problems (LEXxxxx)
//   - 5100..5199: parser problems (SYNxxxx)
//   - 6000..6999: file system and output problems (IOxxxx)
//
// Every code has a fixed Descriptor (title, message template, category,
// default severity, fixability). Stages produce diagnostics either directly
// with New or through a Reporter; rendering lives in internal/diagfmt and fix
// application in internal/fix.
package diag
