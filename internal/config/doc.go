// Package config loads lostfound client settings.
//
// Settings live in a TOML file, by default ~/.config/lostfound/config.toml:
//
//	api_url         = "https://lostfound.example.com"
//	token_file      = "~/.config/lostfound/token"
//	request_timeout = "30s"
//	store           = "file"   # or "sqlite"
//	store_path      = "~/.local/state/lostfound/store.toml"
//	log_file        = "~/.local/state/lostfound/lostfound.log"
//	log_level       = "info"
//	mock_token      = "dev-token"
//
// A missing file or a blank value falls back to the default. Paths accept a
// leading ~. After the file, LOSTFOUND_API_URL and LOSTFOUND_TOKEN from the
// environment (or a .env file in the working directory) take precedence.
// Command-line flags are applied by the caller on top of the result.
package config
