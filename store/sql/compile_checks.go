package sqlstore

var (
	_ ManifestReader = (*ManifestStore)(nil)
	_ ManifestWriter = (*ManifestStore)(nil)
	_ ManifestReader = (*CachedManifestStore)(nil)
	_ ManifestWriter = (*CachedManifestStore)(nil)
)
