package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/remsync/internal/adapters/driven/config/tomlprofile"
	"github.com/custodia-labs/remsync/internal/core/domain"
	"github.com/custodia-labs/remsync/internal/core/services"
)

var flagSyncRoot string

var syncCmd = &cobra.Command{
	Use:   "sync <file>",
	Short: "Upload a single file through its governing profile",
	Long: `Resolves the connection profile governing the file and uploads it,
using the same lookup the save handler performs while watching.`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&flagSyncRoot, "root", ".", "workspace root containing the file")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	file, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	root, err := filepath.Abs(flagSyncRoot)
	if err != nil {
		return err
	}
	if !domain.IsValidFile(file) {
		return fmt.Errorf("%s is not a syncable file", file)
	}

	workspaces, err := domain.NewWorkspaceSet(root)
	if err != nil {
		return err
	}
	if !workspaces.Contains(file) {
		return fmt.Errorf("%w: %s is not under %s", domain.ErrOutOfWorkspace, file, root)
	}

	ctx := context.Background()

	cache, err := buildCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	profileFiles, err := findProfileFiles(root)
	if err != nil {
		return err
	}
	if len(profileFiles) == 0 {
		return fmt.Errorf("no %s found under %s", domain.ProfileFileName, root)
	}

	parser := tomlprofile.NewParser()
	registry := services.NewServiceRegistry()
	for _, pf := range profileFiles {
		profiles, err := parser.Parse(ctx, pf)
		if err != nil {
			return fmt.Errorf("parse %s: %w", pf, err)
		}
		for _, profile := range profiles {
			if _, err := registry.Create(ctx, profile, root); err != nil {
				return err
			}
		}
	}

	svc, err := registry.GetByPath(ctx, file)
	if err != nil {
		return fmt.Errorf("no profile governs %s", file)
	}

	canonical, err := filepath.EvalSymlinks(file)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", file, err)
	}

	if err := buildTransfer(ctx, cache).Upload(ctx, svc, canonical); err != nil {
		return err
	}
	cmd.Printf("Uploaded %s via %s\n", canonical, svc.Profile.Name)
	return nil
}
