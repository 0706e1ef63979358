package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/micplay/micplay/config"
	"github.com/micplay/micplay/key"
	"github.com/micplay/micplay/log"
	"github.com/micplay/micplay/player"
	"github.com/micplay/micplay/server"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("transport", "t", "", "Protocol transport: stdio or http")
	lo.Must0(serveCmd.RegisterFlagCompletionFunc("transport", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{config.TransportStdio, config.TransportHTTP}, cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.ServerTransport, serveCmd.Flags().Lookup("transport")))

	serveCmd.Flags().String("host", "", "Address the http transport listens on")
	lo.Must0(viper.BindPFlag(key.ServerHost, serveCmd.Flags().Lookup("host")))

	serveCmd.Flags().IntP("port", "p", 0, "Port the http transport listens on")
	lo.Must0(viper.BindPFlag(key.ServerPort, serveCmd.Flags().Lookup("port")))

	serveCmd.Flags().String("path", "", "Endpoint path of the http transport")
	lo.Must0(viper.BindPFlag(key.ServerPath, serveCmd.Flags().Lookup("path")))
}

// serveCmd runs the remote-control server until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the audio_playback tool to remote clients",
	Long: `Start the remote-control server. Clients call the audio_playback tool to play,
stop, query, or list audio files under the configured root directory.`,
	Example: "  micplay serve\n  micplay serve --transport http --port 8765",
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := config.Load()
		handleErr(err)

		manager, err := newManager(settings)
		handleErr(err)
		defer func() {
			_ = manager.Close()
		}()

		srv, err := server.New(settings, server.NewDispatcher(manager, settings.ListLimit))
		handleErr(err)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Infof("serving %s (device %s, transport %s)", manager.Root(), settings.OutputDevice, settings.Transport)
		if err := srv.Run(ctx); err != nil {
			log.Error(err)
			_ = manager.Close()
			handleErr(err)
		}
	},
}

func newManager(settings *config.Settings) (*player.Manager, error) {
	return player.NewManager(player.Options{
		RootDir:       settings.RootDir,
		OutputDevice:  settings.OutputDevice,
		DefaultFormat: settings.DefaultFormat,
		Binary:        settings.FfplayPath,
	})
}
