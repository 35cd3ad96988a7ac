package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/remsync/internal/adapters/driven/config/tomlprofile"
	"github.com/custodia-labs/remsync/internal/core/domain"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles [root]",
	Short: "List the connection profiles for a workspace",
	Long: `Parses every .remsync.toml under the workspace root (default: the
current directory) and prints the declared connection profiles.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	files, err := findProfileFiles(abs)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		cmd.Printf("No %s found under %s\n", domain.ProfileFileName, abs)
		return nil
	}

	parser := tomlprofile.NewParser()
	ctx := context.Background()

	for _, file := range files {
		profiles, err := parser.Parse(ctx, file)
		if err != nil {
			return fmt.Errorf("parse %s: %w", file, err)
		}
		cmd.Printf("%s:\n", file)
		for _, p := range profiles {
			cmd.Printf("  %-20s %s → %s [%s]", p.Name, contextOrDot(p.Context), p.Remote, p.Backend)
			if p.UploadOnSave {
				cmd.Print("  upload-on-save")
			}
			if p.DownloadOnOpen.Enabled() {
				cmd.Printf("  download-on-open=%s", p.DownloadOnOpen)
			}
			cmd.Println()
		}
	}
	return nil
}

// findProfileFiles returns every profile file under root, in walk order.
func findProfileFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() && domain.IsProfilePath(p) {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

func contextOrDot(context string) string {
	if context == "" {
		return "."
	}
	return context
}
