package cmd

import (
	"encoding/json"
	"os"

	"github.com/micplay/micplay/server"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

// schemaCmd prints the input schema advertised for the playback tool.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the audio_playback tool arguments",
	Run: func(cmd *cobra.Command, args []string) {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(server.Schema()))
	},
}
