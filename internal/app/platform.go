package app

import (
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

type lookPathFunc func(string) (string, error)

func detectClipboard() ([]string, bool) {
	return detectClipboardInternal(runtime.GOOS, exec.LookPath)
}

func detectClipboardInternal(goos string, lookPath lookPathFunc) ([]string, bool) {
	if strings.EqualFold(goos, "windows") {
		if cmd, ok := firstFound(lookPath, "clip.exe", "clip"); ok {
			return cmd, true
		}
		for _, ps := range []string{"powershell", "powershell.exe", "pwsh"} {
			if resolved, err := lookPath(ps); err == nil && resolved != "" {
				return []string{resolved, "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"}, true
			}
		}
	}
	return firstFound(lookPath, "pbcopy", "wl-copy", "xclip", "xsel")
}

// detectOpener finds the command that hands a path to the desktop's default
// application.
func detectOpener() ([]string, bool) {
	return detectOpenerInternal(runtime.GOOS, exec.LookPath)
}

func detectOpenerInternal(goos string, lookPath lookPathFunc) ([]string, bool) {
	switch strings.ToLower(goos) {
	case "windows":
		if resolved, err := lookPath("explorer.exe"); err == nil && resolved != "" {
			return []string{resolved}, true
		}
		return nil, false
	case "darwin":
		return firstFound(lookPath, "open")
	default:
		if cmd, ok := firstFound(lookPath, "xdg-open", "gio"); ok {
			if strings.HasSuffix(filepath.Base(cmd[0]), "gio") {
				cmd = append(cmd, "open")
			}
			return cmd, true
		}
		return nil, false
	}
}

func firstFound(lookPath lookPathFunc, candidates ...string) ([]string, bool) {
	for _, candidate := range candidates {
		if resolved, err := lookPath(candidate); err == nil && resolved != "" {
			return []string{resolved}, true
		}
	}
	return nil, false
}

func normalizeClipboardPath(inputPath string, goos string) string {
	if strings.EqualFold(goos, "windows") {
		return strings.ReplaceAll(filepath.Clean(inputPath), "/", `\`)
	}
	return path.Clean(filepath.ToSlash(inputPath))
}
