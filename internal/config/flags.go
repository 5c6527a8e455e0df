package config

import (
	"flag"
	"strings"
)

var (
	flagConfig = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging and trailer checks")
	flagLog    = flag.String("log", "", "Log file path")
	flagAddr   = flag.String("addr", "", "Inspect server listen address")
	flagMask   = flag.String("mask", "", "Comma separated data categories, e.g. neutral_meshes,skin_weights")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Pool.VerifyTrailer = true
	}
	if *flagLog != "" {
		cfg.Logging.LogFile = *flagLog
	}
	if *flagAddr != "" {
		cfg.Server.Addr = *flagAddr
	}
	if *flagMask != "" {
		cfg.Pool.Mask = strings.Split(*flagMask, ",")
	}
}
