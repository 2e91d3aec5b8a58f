package backend

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal marshalled object.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
//
// All types named `pkg/configs/backend.XxxMarshall` are `Marshalled[*Xxx]` .
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

type BackendConfigMarshall struct {
	Port   int32                 `yaml:"port"`
	Edubba *EdubbaConfigMarshall `yaml:"edubba"`
}

var _ Marshalled[*BackendConfig] = &BackendConfigMarshall{}

func (b *BackendConfigMarshall) trySeal(path string) *BackendConfig {
	return &BackendConfig{
		port:   b.Port,
		edubba: nonnil(b.Edubba, path+".edubba").trySeal(path + ".edubba"),
	}
}

// Configuration of the Edubba annotation registry.
//
// This type is marshalling value and mutable.
// Consider to use immutable version, `EdubbaConfig`.
// You can get `EdubbaConfig` instance with `EdubbaConfigMarshall.TrySeal()`
type EdubbaConfigMarshall struct {
	Database  string                   `yaml:"database"`
	Keychains *KeychainsConfigMarshall `yaml:"keychains"`
}

// verify configuration value and create "readonly" version of this.
//
// IT WILL PANIC if any misconfiguration is found.
func (em *EdubbaConfigMarshall) TrySeal() *EdubbaConfig {
	return em.trySeal("(root)")
}

func (em *EdubbaConfigMarshall) trySeal(path string) *EdubbaConfig {
	return &EdubbaConfig{
		database:  required(em.Database, path+".database"),
		keychains: nonnil(em.Keychains, path+".keychains").trySeal(path + ".keychains"),
	}
}

type KeychainsConfigMarshall struct {
	SignKeyForRunToken *HS256KeyChainMarshall `yaml:"signKeyForRunToken"`
}

func (kc *KeychainsConfigMarshall) trySeal(path string) *KeychainsConfig {
	return &KeychainsConfig{
		signKeyForRunToken: nonnil(kc.SignKeyForRunToken, path+".signKeyForRunToken").trySeal(path + ".signKeyForRunToken"),
	}
}

type HS256KeyChainMarshall struct {
	Name string `yaml:"name"`
}

func (kn *HS256KeyChainMarshall) trySeal(path string) *HS256KeychainsConfig {
	return &HS256KeychainsConfig{
		name: required(kn.Name, path+".name"),
	}
}

func nonnil[T any](v *T, path string) *T {
	if v == nil {
		panic(path + " is required")
	}
	return v
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}
