package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/nameit",
		Store:         StoreSQLite,
	}
}

func GenerateSystemConfigTemplate() string {
	return `# nameit System Configuration
# Location: ~/.config/nameit/settings.toml
# This file uses TOML format: https://toml.io

# Directory where the provider configuration and debug log are stored
data_directory = "~/.local/share/nameit"

# Where the provider configuration is persisted: "sqlite" or "toml"
store = "sqlite"
`
}
