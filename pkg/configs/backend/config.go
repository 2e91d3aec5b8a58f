package backend

type BackendConfig struct {
	port   int32
	edubba *EdubbaConfig
}

func (c *BackendConfig) Port() int32 {
	return c.port
}

func (c *BackendConfig) Edubba() *EdubbaConfig {
	return c.edubba
}

// Configuration for the Edubba annotation registry.
//
// to get `EdubbaConfig` instance, use `EdubbaConfigMarshall.TrySeal()` .
type EdubbaConfig struct {
	database  string
	keychains *KeychainsConfig
}

// Connection string for database.
func (e *EdubbaConfig) Database() string {
	return e.database
}

func (e *EdubbaConfig) Keychains() *KeychainsConfig {
	return e.keychains
}

type KeychainsConfig struct {
	signKeyForRunToken *HS256KeychainsConfig
}

// Keychain which holds signing keys for annotation run tokens.
func (k *KeychainsConfig) SignKeyForRunToken() *HS256KeychainsConfig {
	return k.signKeyForRunToken
}

type HS256KeychainsConfig struct {
	name string
}

func (h *HS256KeychainsConfig) Name() string {
	return h.name
}
