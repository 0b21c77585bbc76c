package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"materihub/internal/service/drivetree"
)

func newDecodeCmd(verbose *bool) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "decode [file|-]",
		Short: "Normalize a stored metadata blob",
		Long: `Read a metadata blob as stored on a folder materi, report which stored
shape it was in and print the normalized {"folderTree": [...]} form.
Reads stdin when no file (or "-") is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 0 || args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read metadata: %w", err)
			}

			kinds, err := drivetree.NewKindRegistry()
			if err != nil {
				return err
			}
			codec := drivetree.NewCodec(kinds, cliLogger(cmd.ErrOrStderr(), *verbose))

			meta, shape := codec.DecodeWithShape(string(data))
			fmt.Fprintf(cmd.ErrOrStderr(), "shape: %s, %d top-level items, %d total\n",
				shape, len(meta.FolderTree), drivetree.CountItems(meta.FolderTree))
			return writeJSON(cmd, meta, pretty)
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")
	return cmd
}
