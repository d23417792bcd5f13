package internal

import (
	"fmt"
	"os"

	"github.com/goplus/spkg/internal/config"
	"github.com/goplus/spkg/internal/env"
	"github.com/goplus/spkg/internal/envconfig"
	"github.com/goplus/spkg/internal/spkg"
	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
)

var installEnvConfig string

var installCmd = &cobra.Command{
	Use:   "install [pkgdir]",
	Short: "Configure, build and install a package into SAGE_LOCAL",
	Long: `Install runs configure, make and make install for the package in pkgdir
(default "."). The source is expected in pkgdir/src unless the package
descriptor pkgdir/spkg.toml says otherwise. Build settings such as [build] jobs
come from --config (default spkg-settings.toml in the working directory).
SAGE_LOCAL must be set, either in the environment or through the file given
with --env-config.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVarP(&installEnvConfig, "env-config", "e", "", "Generated environment file to load before building")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	pkg, err := spkg.LoadPackage(dir)
	if err != nil {
		return err
	}
	settings, err := config.LoadOptional(configFile)
	if err != nil {
		return err
	}

	environ := env.Environ()
	if installEnvConfig != "" {
		cfg, err := loadEnvFile(installEnvConfig)
		if err != nil {
			return err
		}
		log.Debugf("spkg: loaded %s (prefix %s)", installEnvConfig, cfg.Prefix)
		environ = envconfig.Exports(environ, cfg)
	}

	i := &spkg.Installer{
		Package: pkg,
		Dir:     dir,
		Env:     environ,
		Jobs:    settings.Build.Jobs,
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
	}
	return i.Run(cmd.Context())
}

func loadEnvFile(path string) (envconfig.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return envconfig.Config{}, err
	}
	defer f.Close()

	cfg, err := envconfig.Load(f)
	if err != nil {
		return envconfig.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
