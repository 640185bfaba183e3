package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/keysmith/internal/ui"
	"github.com/PolarWolf314/keysmith/internal/utils"
	"github.com/PolarWolf314/keysmith/internal/workflows"

	"github.com/spf13/cobra"
)

func newListCmd(kind string) *cobra.Command {
	var (
		index      string
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "list <name>",
		Short: fmt.Sprintf("List the indexed versions of a %s", kindNoun(kind)),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			Logger.Infof("Starting list command for %s", args[0])
			idx := indexFor(cmd, index)

			versions, err := workflows.ListVersions(context.Background(), env, kind, args[0], idx)
			if err != nil {
				fmt.Println(formatError("list versions", err))
				if isUnexpectedError(err) {
					return err
				}
				return nil
			}
			Logger.Debugf("Found %d versions", len(versions))

			if jsonOutput {
				data, err := json.MarshalIndent(versions, "", "  ")
				if err != nil {
					return Logger.ErrorfAndReturn("Failed to marshal versions to JSON: %v", err)
				}
				fmt.Println(string(data))
				return nil
			}

			if len(versions) == 0 {
				fmt.Println(ui.Info.Sprint("ℹ") + " No versions of " + ui.Highlight.Sprint(args[0]) + " in index " + ui.Highlight.Sprint(idx))
				return nil
			}
			for _, v := range versions {
				names := make([]string, len(v.Files))
				for i, f := range v.Files {
					names[i] = filepath.Base(f)
				}
				line := fmt.Sprintf("%-6s %s", ui.VersionLabel(v.Version), strings.Join(names, ", "))
				if v.Current {
					line += " " + ui.Success.Sprint("(current)")
				}
				if len(v.Missing) > 0 {
					line += " " + ui.Error.Sprint(fmt.Sprintf("missing %d file(s)", len(v.Missing)))
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&index, "index", "", "index to read (default: [store] index)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	return cmd
}

func newRemoveCmd(kind string) *cobra.Command {
	var (
		index       string
		version     int
		deleteFiles bool
	)
	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: fmt.Sprintf("Remove a %s version from an index", kindNoun(kind)),
		Long: fmt.Sprintf(`Drops one version of a %s from an index. Its files stay on disk unless
--delete-files is given, so the version can be re-indexed by recover.`, kindNoun(kind)),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			Logger.Infof("Starting remove command for %s version %d", args[0], version)
			spinner, cleanup := startSpinner("Removing version...")
			defer cleanup()

			result, err := workflows.RemoveVersion(context.Background(), env, workflows.RemoveOptions{
				Kind:        kind,
				Name:        args[0],
				Index:       indexFor(cmd, index),
				Version:     version,
				DeleteFiles: deleteFiles,
			})
			if err != nil {
				return finishWithError(spinner, "remove version", err)
			}

			msg := ui.Success.Sprint("✓") + " Removed " + ui.Highlight.Sprint(result.Name) + " " +
				ui.VersionLabel(result.Version) + " from index " + ui.Highlight.Sprint(result.Index)
			if result.DeletedFiles {
				msg += "\nDeleted:" + utils.FormatPaths(result.Files)
			} else {
				msg += "\n" + ui.Info.Sprint("→") + " Files kept on disk:" + utils.FormatPaths(result.Files)
			}
			spinner.FinalMSG = msg
			return nil
		},
	}
	cmd.Flags().StringVar(&index, "index", "", "index to edit (default: [store] index)")
	cmd.Flags().IntVar(&version, "version", 0, "version to remove")
	cmd.Flags().BoolVar(&deleteFiles, "delete-files", false, "also delete the version's files")
	_ = cmd.MarkFlagRequired("version")
	return cmd
}
