package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd is the base command run when breakthrough is invoked with no
// subcommand.
var rootCmd = &cobra.Command{
	Use:   "breakthrough",
	Short: "Fixed-bed adsorption breakthrough simulator",
	Long: `breakthrough marches a coupled LDF/IAST fixed-bed adsorption model
forward in time from a plaintext column description, emitting a column
trace and one breakthrough curve per component.`,
}

// Execute adds all child commands to the root command and runs it. Called
// once from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.breakthrough.yaml)")
	rootCmd.PersistentFlags().Int("workers", 0, "worker goroutines for per-node oracle evaluation (0 = GOMAXPROCS)")
	viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
}

// initConfig reads in the CLI's own settings file (the workers setting) if
// present. It has no bearing on the plaintext simulation input
// file, which internal/config parses on its own fixed wire format.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".breakthrough")
	}

	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	}
}
