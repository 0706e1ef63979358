package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/micplay/micplay/color"
	"github.com/micplay/micplay/icon"
	"github.com/micplay/micplay/key"
	"github.com/micplay/micplay/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkCmd verifies that the configured player can be found.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the ffplay binary is available",
	Run: func(cmd *cobra.Command, args []string) {
		binary := viper.GetString(key.AudioFfplayPath)
		path, err := exec.LookPath(binary)
		if err != nil {
			printMissingDependencyError(binary)
			os.Exit(1)
		}

		fmt.Printf("%s found %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), path)
	},
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case "darwin":
		installCmd = "brew install ffmpeg"
	case "linux":
		installCmd = "sudo apt install ffmpeg"
	case "windows":
		installCmd = "scoop install ffmpeg"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The player '%s' was not found. Set FFPLAY_PATH or add it to your PATH.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
