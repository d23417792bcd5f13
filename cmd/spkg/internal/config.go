package internal

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goplus/spkg/internal/config"
	"github.com/goplus/spkg/internal/env"
	"github.com/goplus/spkg/internal/envconfig"
	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
)

var (
	configOutput string
	configValues envconfig.Config
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate the environment file from its template",
	Long: `Config substitutes the @NAME@ placeholders of sage-env-config.in and writes the
result to stdout or to the file given with -o. Values come from flags, then from
the settings file, then from the environment.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	flags := configCmd.Flags()
	flags.StringVarP(&configOutput, "output", "o", "", "Output file (default stdout)")
	flags.StringVar(&configValues.Prefix, "prefix", "", "Installation prefix")
	flags.StringVar(&configValues.CC, "cc", "", "C compiler")
	flags.StringVar(&configValues.CXX, "cxx", "", "C++ compiler")
	flags.StringVar(&configValues.FC, "fc", "", "Fortran compiler")
	flags.StringVar(&configValues.OBJC, "objc", "", "Objective-C compiler")
	flags.StringVar(&configValues.OBJCXX, "objcxx", "", "Objective-C++ compiler")
	flags.StringVar(&configValues.PythonVersion, "python-version", "", "Python major version tag")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadOptional(configFile)
	if err != nil {
		return err
	}
	overlay(&settings.Toolchain, configValues)
	settings.FillFromEnv(env.Environ())

	var buf bytes.Buffer
	if err := envconfig.Generate(&buf, settings.Toolchain); err != nil {
		return err
	}
	if configOutput == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(configOutput, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", configOutput, err)
	}
	log.Infof("spkg: wrote %s", configOutput)
	return nil
}

// overlay copies the non-empty fields of src over dst.
func overlay(dst *envconfig.Config, src envconfig.Config) {
	set := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	set(&dst.Prefix, src.Prefix)
	set(&dst.CC, src.CC)
	set(&dst.CXX, src.CXX)
	set(&dst.FC, src.FC)
	set(&dst.OBJC, src.OBJC)
	set(&dst.OBJCXX, src.OBJCXX)
	set(&dst.PythonVersion, src.PythonVersion)
}
