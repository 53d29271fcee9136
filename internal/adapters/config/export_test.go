package config

// SetLookupEnv replaces the environment lookup used for ${VAR} expansion.
func (l *Loader) SetLookupEnv(lookupEnv func(string) (string, bool)) {
	l.lookupEnv = lookupEnv
}
