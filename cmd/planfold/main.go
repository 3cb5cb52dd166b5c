// Planfold: Project-Management MCP Server
//
// Planfold manages Markdown project workspaces and migrates them from the
// legacy v0.8.0 folder layout to the v1.0.0 component structure. It runs
// as an MCP server over stdio for AI coding tools, and the same pipeline
// is available directly from the command line.
//
// Usage:
//
//	planfold serve               # Start MCP server (stdio transport)
//	planfold migrate [path]      # Run the migration pipeline
//	planfold rollback [path]     # Restore the pre-migration tree
//	planfold version             # Print version
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"planfold/internal/cluster"
	"planfold/internal/config"
	"planfold/internal/fsio"
	"planfold/internal/goals"
	"planfold/internal/history"
	"planfold/internal/migrate"
	"planfold/internal/project"
	"planfold/internal/server"
	"planfold/internal/templates"
	"planfold/internal/updater"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
)

func main() {
	root := &cobra.Command{
		Use:   "planfold",
		Short: "Project-management MCP server with v0.8.0 → v1.0.0 structure migration",
		Long: `Planfold manages Markdown project workspaces. It detects the legacy
v0.8.0 layout (brainstorming/future-goals/...), groups goals into topic
components, and migrates projects to the v1.0.0 component structure —
with backups, dry runs, validation, and rollback.`,
	}

	root.AddCommand(serveCmd(), migrateCmd(), rollbackCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := server.New(config.Load())
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}

			// Version notice goes to stderr so it can't interfere with
			// MCP's stdio transport on stdout.
			go func() {
				if notice := updater.Notice(updater.CheckVersion(server.Version)); notice != "" {
					fmt.Fprintf(os.Stderr, "\n  %s\n\n", notice)
				}
			}()

			return mcpserver.ServeStdio(s)
		},
	}
}

func migrateCmd() *cobra.Command {
	var (
		dryRun     bool
		noBackup   bool
		components int
	)

	cmd := &cobra.Command{
		Use:   "migrate [path]",
		Short: "Migrate a project to the v1.0.0 component structure",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := argOrCwd(args)
			if err != nil {
				return err
			}
			opts := config.Load()

			fsys := fsio.NewOS()
			extractor := goals.NewExtractor(fsys, opts.CacheSize)

			snapshot := project.Detect(fsys, root)
			if !snapshot.IsLegacy() {
				warnColor.Println("No legacy v0.8.0 markers found — nothing to migrate.")
				return nil
			}

			legacy, err := extractor.FromProject(root)
			if err != nil {
				return err
			}
			if len(legacy) == 0 {
				warnColor.Println("No legacy goals found — nothing to migrate.")
				return nil
			}
			infoColor.Printf("Found %d legacy goals\n", len(legacy))

			renderer, err := templates.NewRenderer()
			if err != nil {
				return err
			}

			plan := migrate.PlanFromComponents(cluster.Assign(legacy, components))
			result := migrate.NewExecutor(fsys, renderer).Execute(root, plan, legacy, migrate.Options{
				CreateBackup: !noBackup,
				DryRun:       dryRun,
			})

			printMigrationResult(result, dryRun)

			if !dryRun && !opts.HistoryDisabled {
				recordRun(root, result, dryRun)
			}

			if !result.Succeeded() {
				return fmt.Errorf("migration aborted with %d error(s)", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Report intended changes without writing anything")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Skip the pre-migration backup snapshot")
	cmd.Flags().IntVarP(&components, "components", "n", 5, "Target component count, clamped into [3,7]")
	return cmd
}

func rollbackCmd() *cobra.Command {
	var (
		confirm    bool
		backupPath string
	)

	cmd := &cobra.Command{
		Use:   "rollback [path]",
		Short: "Restore the pre-migration tree from a backup snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := argOrCwd(args)
			if err != nil {
				return err
			}

			fsys := fsio.NewOS()
			var locator migrate.BackupLocator
			if store, err := history.OpenForProject(root); err == nil {
				defer store.Close()
				locator = store
			}

			result, err := migrate.Rollback(fsys, root, locator, migrate.RollbackOptions{
				Confirm:    confirm,
				BackupPath: backupPath,
			})
			if err != nil {
				return err
			}

			infoColor.Printf("Restored from %s\n", result.BackupUsed)
			for _, fr := range result.Folders {
				switch {
				case fr.Err != "":
					errorColor.Printf("  %s/ FAILED: %s\n", fr.Folder, fr.Err)
				case fr.Skipped:
					warnColor.Printf("  %s/ skipped (not in backup)\n", fr.Folder)
				default:
					successColor.Printf("  %s/ restored\n", fr.Folder)
				}
			}
			if !result.Succeeded() {
				return fmt.Errorf("rollback finished with failures")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Required. Rollback deletes the new structure and overwrites the tracked folders")
	cmd.Flags().StringVar(&backupPath, "backup", "", "Backup directory to restore from (defaults to the most recent)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the planfold version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("planfold v%s\n", server.Version)
		},
	}
}

func argOrCwd(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return dir, nil
}

func printMigrationResult(result *migrate.MigrationResult, dryRun bool) {
	if dryRun {
		infoColor.Println("Dry run — nothing was written:")
	}
	fmt.Printf("  folders created: %d\n  files created:   %d\n  goals placed:    %d\n",
		len(result.FoldersCreated), len(result.FilesCreated), len(result.FilesMoved))
	if result.BackupPath != "" {
		infoColor.Printf("  backup: %s\n", result.BackupPath)
	}
	for _, w := range result.Warnings {
		warnColor.Printf("  warning: %s\n", w)
	}
	for _, e := range result.Errors {
		errorColor.Printf("  error: %s\n", e)
	}
	if result.Succeeded() && !dryRun {
		successColor.Println("Migration complete.")
	}
}

// recordRun appends the run to the project's migration history. Best-effort:
// a history failure is reported but never fails a completed migration.
func recordRun(root string, result *migrate.MigrationResult, dryRun bool) {
	store, err := history.OpenForProject(root)
	if err != nil {
		warnColor.Printf("  warning: migration history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	if _, err := store.RecordRun(history.Run{
		ProjectRoot:    root,
		BackupPath:     result.BackupPath,
		DryRun:         dryRun,
		FoldersCreated: len(result.FoldersCreated),
		FilesCreated:   len(result.FilesCreated),
		FilesMoved:     len(result.FilesMoved),
		Warnings:       result.Warnings,
		Errors:         result.Errors,
	}); err != nil {
		warnColor.Printf("  warning: recording migration history: %v\n", err)
	}
}
