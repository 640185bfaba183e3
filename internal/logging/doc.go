// Package logger provides leveled output for keysmith commands.
//
// Output is prefixed and colored with fatih/color. Colors are dropped
// when stdout is not a terminal or NO_COLOR is set.
//
// # Verbosity Levels
//
//   - --verbose: info and warning messages
//   - --debug: everything, including debug details and logged errors
//
// Without flags only WarnfAlways output is shown; errors reach the user
// through the command's return value instead.
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Encrypting %d files", count)
//	return log.ErrorfAndReturn("loading index: %w", err)
package logger
