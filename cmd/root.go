// Package cmd implements the command-line interface for micplay.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/micplay/micplay/color"
	"github.com/micplay/micplay/constant"
	"github.com/micplay/micplay/icon"
	"github.com/micplay/micplay/key"
	"github.com/micplay/micplay/log"
	"github.com/micplay/micplay/style"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (emoji, plain)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("root", "r", "", "Audio root directory (overrides AUDIO_ROOT_DIR)")
	lo.Must0(viper.BindPFlag(key.AudioRootDir, rootCmd.PersistentFlags().Lookup("root")))

	rootCmd.PersistentFlags().StringP("device", "d", "", "Output device (overrides AUDIO_OUTPUT_DEVICE)")
	lo.Must0(viper.BindPFlag(key.AudioOutputDevice, rootCmd.PersistentFlags().Lookup("device")))
}

// rootCmd defines the entry point for the micplay application.
var rootCmd = &cobra.Command{
	Use:   constant.Micplay,
	Short: "Remote-controlled audio playback into a virtual microphone",
	Long: style.New().Bold(true).Foreground(color.HiPurple).Render(constant.Micplay) + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Play prerecorded audio into a virtual microphone for automated tests"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		_ = cmd.Help()
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
