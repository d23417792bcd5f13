package internal

import (
	"github.com/goplus/spkg/internal/envconfig"
	"github.com/spf13/cobra"
)

var envFormat string

var envCmd = &cobra.Command{
	Use:   "env FILE",
	Short: "Print what sourcing a generated environment file does",
	Long: `Env reads an environment file written by "spkg config" and prints the matching
export and unset statements, so that

	eval "$(spkg env $SAGE_LOCAL/bin/sage-env-config)"

has the same effect as sourcing the file. --format takes a Go template (with sprig
functions and shquote) executed over the list of {Key, Value, Unset} effects.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnv,
}

func init() {
	envCmd.Flags().StringVarP(&envFormat, "format", "f", "", "Go template for the output")
	rootCmd.AddCommand(envCmd)
}

func runEnv(cmd *cobra.Command, args []string) error {
	cfg, err := loadEnvFile(args[0])
	if err != nil {
		return err
	}
	return envconfig.Render(cmd.OutOrStdout(), envconfig.Effects(cfg), envFormat)
}
