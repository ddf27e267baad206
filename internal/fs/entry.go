package fs

import (
	"os"
	"time"
)

// Entry is one filesystem object recorded by a scan. Only the name and path are
// kept; kind, size and modification time are looked up when a query needs them.
type Entry struct {
	Name string
	Path string
}

// Stat describes the live state of an entry's path.
type Stat struct {
	Exists    bool
	IsDir     bool
	IsRegular bool
	Size      int64
	Modified  time.Time
}

// StatPath follows symlinks the way a kind check on the path would.
// A missing or unreadable path reports Exists=false.
func StatPath(path string) Stat {
	info, err := os.Stat(path)
	if err != nil {
		return Stat{}
	}
	return Stat{
		Exists:    true,
		IsDir:     info.IsDir(),
		IsRegular: info.Mode().IsRegular(),
		Size:      info.Size(),
		Modified:  info.ModTime(),
	}
}
