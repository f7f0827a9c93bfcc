package discovery

var global = NewManifest()

// Register adds a loader to the process-wide manifest.
func Register(name string, loader Loader) error {
	return global.Register(name, loader)
}

func MustRegister(name string, loader Loader) {
	global.MustRegister(name, loader)
}

// Global returns the process-wide manifest.
func Global() *Manifest {
	return global
}
