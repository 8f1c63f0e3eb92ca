package subtitles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FindSidecar returns the subtitle file sitting next to videoPath, trying
// <name>.srt and then <name>.<language>.srt. An empty string means no
// sidecar exists, which is not an error: the item simply has no mute zones.
func FindSidecar(videoPath, language string) string {
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	candidates := []string{base + ".srt"}
	if language != "" {
		candidates = append(candidates, fmt.Sprintf("%s.%s.srt", base, language))
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
