// Package ui provides semantic text formatting for CLI output.
//
// Formatters colorize when the terminal allows it. When NO_COLOR is set or
// the terminal has no color support they fall back to text decorations:
//
//	ui.Code.Sprint("keysmith secrets generate")  // `keysmith secrets generate`
//	ui.Highlight.Sprint("deploy")                // 'deploy'
//	ui.Muted.Sprint("optional")                  // (optional)
//	ui.Version.Sprint(3)                         // v3
//
// MnemonicBlock lays out recovery phrases as numbered words for display.
package ui
