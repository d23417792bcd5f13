package internal

import (
	"context"
	"os"
	"os/signal"

	"github.com/goplus/spkg/internal/config"
	"github.com/goplus/spkg/internal/spkg"
	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "spkg",
	Short: "spkg installs Autotools packages into a distribution prefix",
	Long: `spkg configures, builds and installs Autotools packages into the prefix named by
SAGE_LOCAL, and generates the environment file that later build steps source.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetOutputLevel(log.Ldebug)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.FileName, "Settings file (optional)")
}

// Execute runs the command line and returns the process exit status.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		spkg.Diagnose(rootCmd.ErrOrStderr(), err)
	}
	return spkg.ExitCode(err)
}
