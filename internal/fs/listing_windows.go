//go:build windows

package fs

// ShouldSkipDuringScan reports whether an entry must never be indexed, even when
// hidden files are included. Compatibility junctions such as "Application Data"
// carry both the system and reparse-point attributes and loop back into the profile.
func ShouldSkipDuringScan(fullPath, name string) bool {
	if fullPath == "" && name == "" {
		return false
	}

	attrs, err := getFileAttributes(fullPath, name)
	if err != nil {
		return false
	}

	const protectedMask = fileAttributeSystem | fileAttributeReparsePoint
	return attrs&protectedMask == protectedMask
}
