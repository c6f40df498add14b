package cmd

import (
	"fmt"
	"os"

	"github.com/dh1tw/opusffi/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "opusffi",
	Short: "Exercise the opusffi codec layer from the command line",
	Long: `opusffi wraps the Opus audio codec behind a C compatible interface
(build ./capi with -buildmode=c-shared). This tool drives the very same
layer from the command line: encode PCM into Opus packets, decode them
again or run a complete roundtrip.

Settings can be provided through a config file ($HOME/.opusffi.yaml),
OPUSFFI_* environment variables or flags.
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.opusffi.yaml)")
	RootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error); empty disables logging")
	RootCmd.PersistentFlags().String("log-format", "console", "log format (console or json)")
	RootCmd.PersistentFlags().Int("bitrate", 0, "opus bitrate in bit/s (0 = libopus default)")
	RootCmd.PersistentFlags().Int("complexity", -1, "opus complexity [0...10] (-1 = libopus default)")
	RootCmd.PersistentFlags().String("max-bandwidth", "", "opus max bandwidth (NARROWBAND ... FULLBAND)")
	RootCmd.PersistentFlags().Bool("inband-fec", false, "enable opus in-band forward error correction")
	RootCmd.PersistentFlags().Int("packet-loss-perc", 0, "expected packet loss in percent")

	viper.BindPFlag("log.level", RootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", RootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("opus.bitrate", RootCmd.PersistentFlags().Lookup("bitrate"))
	viper.BindPFlag("opus.complexity", RootCmd.PersistentFlags().Lookup("complexity"))
	viper.BindPFlag("opus.max-bandwidth", RootCmd.PersistentFlags().Lookup("max-bandwidth"))
	viper.BindPFlag("opus.inband-fec", RootCmd.PersistentFlags().Lookup("inband-fec"))
	viper.BindPFlag("opus.packet-loss-perc", RootCmd.PersistentFlags().Lookup("packet-loss-perc"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" { // enable ability to specify config file via flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".opusffi") // name of config file (without extension)
	}

	config.BindEnv(viper.GetViper())
}

// readConfig tries to read the config file and returns the validated
// settings. Running without a config file is fine unless one was set
// with --config.
func readConfig() (config.Settings, error) {

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return config.Settings{}, errors.Wrapf(err, "config file %v", viper.ConfigFileUsed())
		}
	}

	return config.Load(viper.GetViper())
}
