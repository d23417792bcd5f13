package envconfig

import "os"

type processEnv struct{}

func (processEnv) Setenv(key, value string) error { return os.Setenv(key, value) }
func (processEnv) Unsetenv(key string) error      { return os.Unsetenv(key) }

// Process is the environment of the running process.
var Process Setter = processEnv{}
