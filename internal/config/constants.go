package config

const (
	// EnvConfigPath names the variable holding an explicit config file path
	EnvConfigPath = "WATSON_CONFIG"

	// EnvPrefix is stripped from override variables, e.g. WATSON_DISCORD__TOKEN
	EnvPrefix = "WATSON_"

	// EnvKeySeparator maps to the koanf key delimiter in override variables
	EnvKeySeparator = "__"

	// ConfigFileName is looked up next to the binary and in the working directory
	ConfigFileName = "config.json"

	// SchemaName identifies the embedded config schema in the validator
	SchemaName = "watson.config.schema.json"
)

// Sherlock invocation defaults
const (
	DefaultSherlockCommand = "python3"
	DefaultSherlockModule  = "sherlock_project"
	DefaultSherlockDir     = "."
)

// Example values shipped in config.example.json
const (
	ExamplePassword = "change_this_password"
	ExampleToken    = "your_discord_bot_token"
)
