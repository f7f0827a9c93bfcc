package databinding

import (
	"github.com/goliatone/go-databinding/binding"
	"github.com/goliatone/go-databinding/discovery"
	"github.com/goliatone/go-databinding/providers/jsonbind"
	"github.com/goliatone/go-databinding/providers/msgpackbind"
	"github.com/goliatone/go-databinding/providers/xmlbind"
	"github.com/goliatone/go-databinding/providers/yamlbind"
)

func XMLProvider() binding.Provider {
	return xmlbind.New()
}

func JSONProvider() binding.Provider {
	return jsonbind.New()
}

func YAMLProvider() binding.Provider {
	return yamlbind.New()
}

func MsgpackProvider() binding.Provider {
	return msgpackbind.New()
}

// BuiltinManifest returns a fresh manifest holding the bundled backends in
// their discovery order. Names match the provider names so services files
// and persisted manifests can refer to them.
func BuiltinManifest() *discovery.Manifest {
	manifest := discovery.NewManifest()
	manifest.MustRegister(xmlbind.Name, xmlbind.Loader)
	manifest.MustRegister(jsonbind.Name, jsonbind.Loader)
	manifest.MustRegister(yamlbind.Name, yamlbind.Loader)
	manifest.MustRegister(msgpackbind.Name, msgpackbind.Loader)
	return manifest
}
