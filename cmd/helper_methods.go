package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
	"github.com/PolarWolf314/keysmith/internal/mnemonic"
	"github.com/PolarWolf314/keysmith/internal/ui"
	"github.com/PolarWolf314/keysmith/internal/utils"

	"github.com/briandowns/spinner"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// formatError turns a workflow error into the final message shown to the user.
func formatError(action string, err error) string {
	msg := ui.Error.Sprint("✗") + " Failed to " + action + ": " + err.Error()
	switch {
	case errors.Is(err, kerrors.ErrAuthentication):
		return msg + "\n" + ui.Info.Sprint("→") + " The secret, key files or AAD differ from encryption, or the file was modified"
	case errors.Is(err, kerrors.ErrFormat):
		return msg + "\n" + ui.Info.Sprint("→") + " The file is truncated or not a keysmith envelope"
	case errors.Is(err, kerrors.ErrAlreadyExists):
		return msg + "\n" + ui.Info.Sprint("→") + " Pick another " + ui.Flag.Sprint("--version") + " or use " + ui.Code.Sprint("recover") + " to rewrite it"
	case errors.Is(err, kerrors.ErrEmptyIndex), errors.Is(err, kerrors.ErrNotFound):
		return msg + "\n" + ui.Info.Sprint("→") + " Check the name, " + ui.Flag.Sprint("--index") + " and " + ui.Flag.Sprint("--version")
	case errors.Is(err, kerrors.ErrNoFilesFound):
		return ui.Error.Sprint("✗") + " No files matched the given patterns"
	case errors.Is(err, kerrors.ErrUnsupportedLanguage):
		return msg + "\n" + ui.Info.Sprint("→") + " Supported languages: " + strings.Join(supportedLanguages(), ", ")
	case errors.Is(err, utils.ErrPassphraseMismatch):
		return ui.Error.Sprint("✗") + " Passwords do not match"
	}
	return msg
}

// isUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isUnexpectedError(err error) bool {
	for _, known := range []error{
		kerrors.ErrValidation,
		kerrors.ErrAuthentication,
		kerrors.ErrFormat,
		kerrors.ErrAlreadyExists,
		kerrors.ErrNotFound,
		kerrors.ErrEmptyIndex,
		kerrors.ErrNoFilesFound,
		utils.ErrPassphraseMismatch,
	} {
		if errors.Is(err, known) {
			return false
		}
	}
	return true
}

// finishWithError sets the spinner's final message for err and returns err
// only when it is unexpected.
func finishWithError(s *spinner.Spinner, action string, err error) error {
	Logger.Errorf("Failed to %s: %v", action, err)
	s.FinalMSG = formatError(action, err)
	if isUnexpectedError(err) {
		return err
	}
	return nil
}

func supportedLanguages() []string {
	var out []string
	for _, l := range mnemonic.Languages() {
		if mnemonic.SupportedLanguage(l) {
			out = append(out, l)
		}
	}
	return out
}

// mnemonicWarning is shown under every freshly generated mnemonic.
func mnemonicWarning() string {
	return ui.Warning.Sprint("⚠") + " Write these words down. They are the only way to recover this material and are not stored."
}
