//go:build !windows

package fs

// ShouldSkipDuringScan is a no-op on non-Windows platforms.
func ShouldSkipDuringScan(_, _ string) bool {
	return false
}
