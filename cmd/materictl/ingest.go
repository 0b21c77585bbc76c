package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"materihub/internal/config"
	models "materihub/internal/domain/models/drivetree"
	"materihub/internal/service/drivetree"
	"materihub/internal/service/drivetree/gdrive"
)

func newIngestCmd(verbose *bool) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "ingest <folder-url-or-id>",
		Short: "Ingest a Google Drive folder and print the result",
		Long: `Walk a Google Drive folder with the configured service account and print
the root, flat list, tree and PDF list as JSON. A summary goes to stderr.

Examples:
  materictl ingest https://drive.google.com/drive/folders/1AbC_d-9
  materictl ingest 1AbC_d-9 --pretty`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folderID, err := resolveFolderID(args[0])
			if err != nil {
				return err
			}

			cfg := config.Load()
			if err := cfg.Drive.Validate(); err != nil {
				return fmt.Errorf("drive configuration: %w", err)
			}
			logger := cliLogger(cmd.ErrOrStderr(), *verbose)

			kinds, err := drivetree.NewKindRegistry()
			if err != nil {
				return err
			}
			client, err := gdrive.NewClient(cmd.Context(), cfg.Drive, kinds, logger)
			if err != nil {
				return err
			}
			ingestor := drivetree.NewIngestor(client, drivetree.Options{
				MaxDepth:    cfg.Drive.MaxDepth,
				Concurrency: cfg.Drive.Concurrency,
			}, logger)

			result, err := ingestor.IngestFolder(cmd.Context(), folderID)
			if err != nil {
				return err
			}

			if err := writeJSON(cmd, result, pretty); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), summarize(result))
			return nil
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")
	return cmd
}

// resolveFolderID accepts a folder URL or a bare folder ID
func resolveFolderID(ref string) (string, error) {
	if id, ok := drivetree.ExtractFolderID(ref); ok {
		return id, nil
	}
	if drivetree.IsValidFolderID(ref) {
		return ref, nil
	}
	return "", fmt.Errorf("not a Google Drive folder URL or ID: %q", ref)
}

// summarize reports counts and the total size of leaf files
func summarize(result *models.IngestResult) string {
	var folders, files int
	var total int64
	for _, item := range result.FlatList {
		if item.IsFolder() {
			folders++
			continue
		}
		files++
		if item.SizeBytes != nil {
			total += *item.SizeBytes
		}
	}
	return fmt.Sprintf("%s: %d folders, %d files (%d PDF), %s",
		result.Root.Name, folders, files, len(result.PDFFiles), drivetree.FormatFileSize(&total))
}

func writeJSON(cmd *cobra.Command, v any, pretty bool) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
