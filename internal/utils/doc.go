// Package utils provides small helpers shared by the commands.
//
//   - ParseFileName: normalizes a user-supplied name into a file stem
//   - ParseAbspath: resolves a path against a root directory
//   - FormatPaths: renders a list of paths for CLI output
//   - ReadPassphrase, ReadPassphraseConfirm: hidden terminal input
//   - ReadStdin: reads piped input such as a mnemonic
package utils
