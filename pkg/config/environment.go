package config

// Environment variables selecting the active profile. NODE_ENV is the
// legacy name and only consulted when MONITOR_ENV is unset.
const (
	EnvVarName       = "MONITOR_ENV"
	LegacyEnvVarName = "NODE_ENV"
)

// Selection is the environment name read at startup and the profile it resolved to
type Selection struct {
	Name    string
	Profile EnvironmentProfile
	Known   bool
}

// EnvironmentName reads the environment name using getenv.
// An unset variable yields the production name.
func EnvironmentName(getenv func(string) string) string {
	if value := getenv(EnvVarName); value != "" {
		return value
	}
	if value := getenv(LegacyEnvVarName); value != "" {
		return value
	}
	return EnvironmentProduction
}

// Select reads the environment name once and resolves it against table.
// An unknown name keeps its name but carries the default profile.
func Select(table *ProfileTable, getenv func(string) string) Selection {
	name := EnvironmentName(getenv)
	_, known := table.Lookup(name)
	return Selection{
		Name:    name,
		Profile: table.Resolve(name),
		Known:   known,
	}
}
