package env

import (
	"os"

	"github.com/spf13/viper"
)

// PodName example: k8ssta-marketplace-api-6868d88fbd-bz8zv
func PodName() string {
	return os.Getenv("PODNAME")
}

// EnvName prefers ENV_NAME and falls back to the `env_name` config key
func EnvName() string {
	return lookup("ENV_NAME", "env_name")
}

// AppName prefers APP_NAME and falls back to the `app_name` config key
func AppName() string {
	return lookup("APP_NAME", "app_name")
}

func lookup(envKey, configKey string) string {
	if v, ok := os.LookupEnv(envKey); ok && v != "" {
		return v
	}
	return viper.GetString(configKey)
}
