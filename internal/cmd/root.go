package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/seopilot/seopilot/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "seopilot",
	Short: "SEO task classification and prioritized execution",
	Long: `seopilot turns search-ranking measurements into a prioritized, bounded
set of website-improvement tasks and executes them with the site's
page-editing scripts.

The observe phase checks keyword rankings and writes the rank report and
the enriched task list. The implement phase loads scored tasks, selects
the highest-priority ones and dispatches each to its handler.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/seopilot/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-dir", "", "directory for seopilot.log (default: stderr)")
	bindGlobalFlags()
}

func bindGlobalFlags() {
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.dir", rootCmd.PersistentFlags().Lookup("log-dir"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/seopilot")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SEOPILOT")
	// e.g., SEOPILOT_TASKS_MAX_PER_RUN for tasks.max_per_run
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.BindLegacyEnv()

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
