package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/tap-bingads/internal/catalog"
)

var streamsCatalogPath string

var streamsCmd = &cobra.Command{
	Use:   "streams",
	Short: "List the streams defined in a catalog file",
	Long: `Streams displays every stream in a discovery catalog along with its
key properties, replication method, and selection state.

Example:
  tap-bingads streams --catalog catalog.json`,
	RunE: runStreams,
}

func init() {
	streamsCmd.Flags().StringVar(&streamsCatalogPath, "catalog", "",
		"Path to a catalog file (required)")
	streamsCmd.MarkFlagRequired("catalog") //nolint:errcheck

	rootCmd.AddCommand(streamsCmd)
}

func runStreams(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(streamsCatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if len(cat.Streams) == 0 {
		cmd.Printf("No streams defined in %s\n", streamsCatalogPath)
		return nil
	}

	cmd.Printf("Streams defined in %s:\n\n", streamsCatalogPath)

	for i, stream := range cat.Streams {
		selected := "yes"
		if !stream.IsSelected() {
			selected = "no"
		}
		cmd.Printf("%d. %s\n", i+1, stream.TapStreamID)
		cmd.Printf("   Key Properties: %v\n", stream.KeyProperties)
		cmd.Printf("   Replication:    %s\n", stream.ReplicationMethod)
		if stream.ReplicationKey != "" {
			cmd.Printf("   Replication Key: %s\n", stream.ReplicationKey)
		}
		cmd.Printf("   Selected:       %s\n", selected)
		cmd.Println()
	}

	return nil
}
