package main

import (
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Hangmatt/ConnectBlue/internal/bluez"
	"github.com/Hangmatt/ConnectBlue/internal/config"
	"github.com/Hangmatt/ConnectBlue/internal/pulse"
	"github.com/Hangmatt/ConnectBlue/internal/route"
)

// Exit codes. 0 also covers "already connected and routed".
const (
	exitOK           = 0
	exitNotFound     = 1
	exitNotConnected = 2
	exitSwitchFailed = 3
)

var (
	flagAddress string
	flagName    string
	flagTimeout time.Duration
	flagPoll    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "connectblue [address] [name]",
	Short: "Connect a Bluetooth audio device and make it the default output",
	Long: `connectblue connects to a Bluetooth audio device by MAC address, waits for
the connection to come up, then switches the system default audio output to
it. It exists because a reconnected headset doesn't always get the audio
routed back to it.`,
	Example: `  connectblue AA:BB:CC:DD:EE:FF "Foo Headphones"
  connectblue --address AA:BB:CC:DD:EE:FF --name "Foo Headphones"`,
	Args:               cobra.ArbitraryArgs,
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE:               run,
}

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()

	rootCmd.Flags().StringVarP(&flagAddress, "address", "a", "", "MAC address of the Bluetooth device")
	rootCmd.Flags().StringVarP(&flagName, "name", "n", "", "display name of the audio output to switch to")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "how long to wait for the connection (default 20s)")
	rootCmd.Flags().DurationVar(&flagPoll, "poll-interval", 0, "delay between connection checks (default 500ms)")
}

func run(cmd *cobra.Command, args []string) error {
	address, name := flagAddress, flagName
	if address == "" && len(args) > 0 {
		address = args[0]
	}
	if name == "" && len(args) > 1 {
		name = args[1]
	}

	target, err := config.Load(address, name, flagTimeout, flagPoll)
	if err != nil {
		return err
	}

	bt, err := bluez.New()
	if err != nil {
		return err
	}
	defer bt.Close()

	audio, err := pulse.New()
	if err != nil {
		return err
	}
	defer audio.Close()

	wf := route.New(route.Config{
		Address:        target.Address,
		Name:           target.Name,
		ConnectTimeout: target.ConnectTimeout,
		PollInterval:   target.PollInterval,
		Transport:      target.Transport,
	}, bt, audio, log.Logger)

	res, err := wf.Run()
	if err != nil {
		return err
	}
	if res.AlreadySatisfied {
		log.Info().Msg("nothing to do")
	}
	return nil
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, route.ErrDeviceNotFound):
		return exitNotFound
	case errors.Is(err, route.ErrConnectionOpenFailed), errors.Is(err, route.ErrConnectionTimeout):
		return exitNotConnected
	case errors.Is(err, route.ErrAudioSwitchFailed):
		return exitSwitchFailed
	}
	return exitNotFound
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("connectblue failed")
		os.Exit(exitCode(err))
	}
	os.Exit(exitOK)
}
