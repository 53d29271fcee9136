package domain

import "path/filepath"

const (
	// CacheDirName is the name of the working directory holding local state.
	CacheDirName = ".xlcache"

	// StoreDirName is the name of the file store directory.
	StoreDirName = "store"

	// ConfigFileName is the name of the optional configuration file.
	ConfigFileName = "xlcache.yaml"

	// NamespaceFileName names the file recording the namespace of a store directory.
	NamespaceFileName = "NAMESPACE"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultStorePath returns the default root of the file store.
// It joins .xlcache and store.
func DefaultStorePath() string {
	return filepath.Join(CacheDirName, StoreDirName)
}
