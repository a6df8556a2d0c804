// Package config handles application configuration for the boxlet bridge.
//
// Configuration is resolved with viper from a config.yaml file and BOXLET_*
// environment variables, with environment values overriding the file and
// built-in defaults applying last. The SDK packages themselves take explicit
// options; this package exists for the bridge binary, which needs a single
// validated view of server connection, transport, and logging settings.
package config
