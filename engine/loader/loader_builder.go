package loader

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithAsset is an option builder that pre-populates the asset cache.
//
// Parameters:
//   - key: the cache key for the asset
//   - asset: the asset to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the asset option to a loader
func WithAsset(key string, asset *Asset) LoaderBuilderOption {
	return func(l *loader) {
		l.assetCache[key] = asset
	}
}

// WithDebug enables a log line per imported asset.
func WithDebug(debug bool) LoaderBuilderOption {
	return func(l *loader) {
		l.debug = debug
	}
}
