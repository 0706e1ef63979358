package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/micplay/micplay/color"
	"github.com/micplay/micplay/config"
	"github.com/micplay/micplay/icon"
	"github.com/micplay/micplay/library"
	"github.com/micplay/micplay/player"
	"github.com/micplay/micplay/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const playPollInterval = 200 * time.Millisecond

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().BoolP("loop", "l", false, "Loop the file until interrupted")
	playCmd.Flags().Int64P("offset", "o", 0, "Start offset in milliseconds")
}

// playCmd plays a single file in the foreground, the way the server would.
var playCmd = &cobra.Command{
	Use:   "play [file]",
	Short: "Play a file from the audio root in the foreground",
	Long: `Play a file from the audio root through the configured output device and wait until it ends.
Without an argument, pick the file interactively. Interrupt to stop playback.`,
	Args:    cobra.MaximumNArgs(1),
	Example: "  micplay play greeting\n  micplay play voices/hello.mp3 --offset 1500 --loop",
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := config.Load()
		handleErr(err)

		manager, err := newManager(settings)
		handleErr(err)
		defer func() {
			_ = manager.Close()
		}()

		var filename string
		if len(args) == 1 {
			filename = args[0]
		} else {
			filename, err = pickFile(manager.Root())
			handleErr(err)
		}

		res, err := manager.Play(player.PlayRequest{
			Filename:    filename,
			Loop:        lo.Must(cmd.Flags().GetBool("loop")),
			StartOffset: time.Duration(lo.Must(cmd.Flags().GetInt64("offset"))) * time.Millisecond,
		})
		if err != nil {
			handleErr(errors.New(res.Message))
		}
		fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Play)), res.Message)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		ticker := time.NewTicker(playPollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-sigChan:
				res, _ := manager.Stop()
				fmt.Printf("\n%s %s\n", style.Fg(color.Yellow)(icon.Get(icon.Stop)), res.Message)
				return
			case <-ticker.C:
				if manager.Snapshot().Status != player.StatusPlaying {
					fmt.Printf("%s Playback finished.\n", style.Fg(color.Green)(icon.Get(icon.Success)))
					return
				}
			}
		}
	},
}

func pickFile(root string) (string, error) {
	listing, err := library.List(root, library.Options{})
	if err != nil {
		return "", err
	}
	if len(listing.Files) == 0 {
		return "", fmt.Errorf("no files under %s", root)
	}

	var choice string
	err = survey.AskOne(&survey.Select{
		Message: "Choose a file to play",
		Options: lo.Map(listing.Files, func(f *library.File, _ int) string { return f.Path }),
	}, &choice)
	return choice, err
}
