// Command jsonstream-demo is a small harness for exercising the decoder
// against real input: pipe a JSON document into `stream` to watch each
// published snapshot go by, or into `watch` for a live-redrawing view.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Put JSONSTREAM_* settings in .env and this will load them.
	godotenv.Overload()
}

var (
	cfgFile  string
	format   string
	maxDepth int
	chunk    int
)

var rootCmd = &cobra.Command{
	Use:   "jsonstream-demo",
	Short: "Exercise the jsonstream decoder against a JSON document",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.jsonstream-demo.yaml)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "json", "snapshot render format: json or yaml")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", 10000, "maximum container nesting depth")
	rootCmd.PersistentFlags().IntVar(&chunk, "chunk-size", 32, "bytes read from stdin per simulated network chunk")

	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("max_depth", rootCmd.PersistentFlags().Lookup("max-depth"))
	viper.BindPFlag("chunk_size", rootCmd.PersistentFlags().Lookup("chunk-size"))

	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(watchCmd)
}

func initConfig() {
	viper.SetEnvPrefix("JSONSTREAM")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".jsonstream-demo")
	}
	viper.ReadInConfig()

	format = viper.GetString("format")
	maxDepth = viper.GetInt("max_depth")
	chunk = viper.GetInt("chunk_size")
}

func main() {
	Execute()
}
