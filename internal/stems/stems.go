// Package stems locates the audio files a separation run produced and
// removes partial output after a failed run.
//
// Output layout is dictated by the tools, not by stemsplit: Spleeter writes
// flat files into the output directory while Demucs nests them under
// <model>/<track>/. The collector walks the whole run directory so both
// layouts resolve to the same stem-name-to-path map.
package stems

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FilePaths maps a stem name (file base without extension) to the absolute
// path of the produced audio file.
type FilePaths map[string]string

var audioExtensions = map[string]struct{}{
	".wav":  {},
	".mp3":  {},
	".flac": {},
	".ogg":  {},
	".m4a":  {},
}

// IsAudioFile reports whether the file name carries a known audio extension.
func IsAudioFile(name string) bool {
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Collect walks root and returns the audio files found. It fails when the
// run directory holds no audio at all, which means the tool exited zero
// without producing stems.
func Collect(root string) (FilePaths, error) {
	found := FilePaths{}

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !IsAudioFile(entry.Name()) {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		name := base
		if _, taken := found[name]; taken {
			// Same stem name in two nested directories; qualify with the parent.
			name = filepath.Base(filepath.Dir(path)) + "/" + base
		}
		// Repeating parent directory names can collide too; number the rest.
		for qualified, n := name, 2; ; n++ {
			if _, taken := found[name]; !taken {
				break
			}
			name = fmt.Sprintf("%s#%d", qualified, n)
		}
		found[name] = abs
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, errors.New("no stem files found in " + root)
	}
	return found, nil
}

// Names returns the stem names in stable order.
func (f FilePaths) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Cleanup removes a failed run's output directory. It only acts when this
// invocation created the directory; a pre-existing user directory is never
// deleted. keep suppresses removal for debugging.
func Cleanup(dir string, createdByRun, keep bool) error {
	if !createdByRun || keep {
		return nil
	}
	return os.RemoveAll(dir)
}
