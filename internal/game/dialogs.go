package game

import (
	"path/filepath"

	"github.com/ncruces/zenity"

	"github.com/iburimskiy/particle-editor/internal/audio"
)

// Dialogs are the native file pickers. Both block until the user answers
// and return zenity.ErrCanceled when they back out.
type Dialogs interface {
	Open(title, dir string, filter zenity.FileFilter) (string, error)
	Save(title, dir string, filter zenity.FileFilter) (string, error)
}

var (
	presetFilter  = zenity.FileFilter{Name: "Particle preset", Patterns: []string{"*.json"}}
	textureFilter = zenity.FileFilter{Name: "Image", Patterns: []string{"*.png", "*.jpg", "*.jpeg"}}
	soundFilter   = zenity.FileFilter{Name: "Audio", Patterns: audio.Extensions}
)

type zenityDialogs struct{}

// NativeDialogs returns the zenity-backed pickers.
func NativeDialogs() Dialogs { return zenityDialogs{} }

func (zenityDialogs) Open(title, dir string, filter zenity.FileFilter) (string, error) {
	return zenity.SelectFile(
		zenity.Title(title),
		zenity.Filename(startPath(dir)),
		zenity.FileFilters{filter},
	)
}

func (zenityDialogs) Save(title, dir string, filter zenity.FileFilter) (string, error) {
	return zenity.SelectFileSave(
		zenity.Title(title),
		zenity.Filename(startPath(dir)),
		zenity.ConfirmOverwrite(),
		zenity.FileFilters{filter},
	)
}

// startPath makes zenity open inside dir rather than preselect it.
func startPath(dir string) string {
	if dir == "" {
		return ""
	}
	return filepath.Clean(dir) + string(filepath.Separator)
}
