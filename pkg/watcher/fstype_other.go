//go:build !linux

package watcher

// Filesystem detection is only implemented on Linux; elsewhere fsnotify is
// tried first and polling remains the fallback.
func detectFilesystemType(string) FilesystemType {
	return FSTypeUnknown
}
