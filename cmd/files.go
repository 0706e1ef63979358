package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/micplay/micplay/color"
	"github.com/micplay/micplay/config"
	"github.com/micplay/micplay/icon"
	"github.com/micplay/micplay/library"
	"github.com/micplay/micplay/style"
	"github.com/micplay/micplay/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(filesCmd)
	filesCmd.Flags().IntP("limit", "n", 0, "Maximum number of files to list")
	filesCmd.Flags().StringP("query", "q", "", "Fuzzy filter applied to the paths")
	filesCmd.Flags().StringSliceP("ext", "e", []string{}, "Only list these extensions")
	filesCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
}

// filesCmd lists the files playable under the audio root.
var filesCmd = &cobra.Command{
	Use:     "files",
	Short:   "List the audio files available under the audio root",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := config.Load()
		handleErr(err)

		limit := lo.Must(cmd.Flags().GetInt("limit"))
		if limit <= 0 {
			limit = settings.ListLimit
		}

		listing, err := library.List(settings.RootDir, library.Options{
			Limit:      limit,
			Query:      lo.Must(cmd.Flags().GetString("query")),
			Extensions: lo.Must(cmd.Flags().GetStringSlice("ext")),
		})
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(listing))
			return
		}

		for _, f := range listing.Files {
			cmd.Printf("%s %s %s\n", style.Fg(color.Purple)(icon.Get(icon.Audio)), f.Path, style.Faint(f.Size))
		}

		summary := util.Quantify(listing.Total, "file", "files")
		if listing.Truncated {
			summary = fmt.Sprintf("%d of %s", len(listing.Files), summary)
		}
		cmd.Println(style.Faint(summary))
	},
}
