package feature

// Key is the typed identity under which an installed feature's config is
// stored in the pipeline. The type parameter pins the config type; the
// type-erased map behind it is only ever accessed through ConfigFor, which
// checks the cast against the key.
type Key[C any] struct {
	name string
}

// NewKey creates a typed feature key. Names must be unique across features
// installed into the same pipeline.
func NewKey[C any](name string) Key[C] {
	return Key[C]{name: name}
}

// Name returns the key's identity string.
func (k Key[C]) Name() string { return k.name }

// Feature is the capability contract a pluggable component implements to be
// installable into a pipeline: a config factory plus an install routine that
// registers its handlers.
type Feature[C any] interface {
	// Key returns the typed identity of this feature.
	Key() Key[C]

	// NewConfig creates the feature's default configuration.
	NewConfig() *C

	// Install registers the feature's handlers on the pipeline using the
	// finalized configuration.
	Install(cfg *C, p *Pipeline)
}

// Install creates the feature's config, applies the configure blocks, runs
// the feature's install routine and stores the config under the feature's
// key. It returns the finalized config.
func Install[C any](p *Pipeline, f Feature[C], configure ...func(*C)) *C {
	cfg := f.NewConfig()
	for _, fn := range configure {
		fn(cfg)
	}
	f.Install(cfg, p)
	p.storeConfig(f.Key().name, cfg)
	return cfg
}

// ConfigFor returns the installed config stored under the typed key. The
// boolean reports whether a config of the key's type was installed. This is
// the only accessor to the erased config map; the cast never leaks to
// feature authors.
func ConfigFor[C any](p *Pipeline, key Key[C]) (*C, bool) {
	v, ok := p.loadConfig(key.name)
	if !ok {
		return nil, false
	}
	cfg, ok := v.(*C)
	return cfg, ok
}
