package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging and the debug overlay")
	flagServer   = flag.String("server", "", "Game server websocket URL")
	flagOffline  = flag.Bool("offline", false, "Run without a server")
	flagName     = flag.String("name", "", "Player name sent to the server")
	flagMap      = flag.String("map", "", "Start map id")
	flagNPCs     = flag.String("npcs", "", "YAML file with extra NPCs")
	flagMute     = flag.Bool("mute", false, "Disable audio")
	flagTickRate = flag.Int("tick-rate", 0, "Simulation ticks per second")
	flagLogFile  = flag.String("log-file", "", "Write logs to this file as well")
	flagWidth    = flag.Int("width", 0, "Viewport width")
	flagHeight   = flag.Int("height", 0, "Viewport height")
	flagWrite    = flag.Bool("write-config", false, "Save the effective config to the user config dir and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteRequested reports whether -write-config was given.
func WriteRequested() bool {
	return *flagWrite
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Game.ShowDebug = true
	}
	if *flagServer != "" {
		cfg.Network.Server = *flagServer
	}
	if *flagOffline {
		cfg.Game.OfflineMode = true
	}
	if *flagName != "" {
		cfg.Network.PlayerName = *flagName
	}
	if *flagMap != "" {
		cfg.Data.StartMap = *flagMap
	}
	if *flagNPCs != "" {
		cfg.Data.NPCFile = *flagNPCs
	}
	if *flagMute {
		cfg.Audio.Muted = true
	}
	if *flagTickRate > 0 {
		cfg.Game.TickRate = *flagTickRate
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
}
