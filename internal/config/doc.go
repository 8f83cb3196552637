// Package config manages the neckscan configuration file.
//
// The file is YAML, stored in the platform configuration directory:
//   - Linux: $XDG_CONFIG_HOME/neckscan/config.yaml or $HOME/.config/neckscan/config.yaml
//   - macOS: $HOME/.config/neckscan/config.yaml
//   - Windows: %LOCALAPPDATA%\neckscan\config.yaml
//
// A missing file, or a missing field, means the default value. Example:
//
//	version: 1
//	gemini:
//	    model: gemini-3-flash-preview
//	    request_timeout: 1m0s
//	loading:
//	    interval: 1.5s
//	links:
//	    product_url: https://www.wadiz.kr/web/wcomingsoon/rwd/362833
//	    share_url: https://www.wadiz.kr/web/wcomingsoon/rwd/362833
//	server:
//	    host: 0.0.0.0
//	    port: 8080
//	    advertise: false
//
// # Security
//
// The Gemini API key is NEVER written to this file. GeminiConfig.APIKey reads
// it from the environment, which LoadEnv can populate from a .env file.
//
// # Thread Safety
//
// Load caches the parsed file with sync.Once. Writes go through a mutex and a
// temp-file rename so a crash never leaves a truncated file.
package config
