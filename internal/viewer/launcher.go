package viewer

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
)

var (
	// ErrNoCorpusRoot means viewer.corpus_root is not configured
	ErrNoCorpusRoot = errors.New("corpus root not configured")

	// ErrFileMissing means the item's file is not under the corpus root
	ErrFileMissing = errors.New("file not found under corpus root")
)

// Launcher opens item files from a locally mounted copy of the corpus in an
// external viewer
type Launcher struct {
	command string   // configured viewer command, empty to auto-detect
	args    []string // additional arguments for the viewer
	root    string   // local directory the corpus file paths are relative to
	logger  *slog.Logger

	// Swapped in tests
	lookPath func(string) (string, error)
	start    func(name string, args ...string) error
	goos     string
}

// launchPath defines a single way to launch a viewer
type launchPath struct {
	path      string   // Command path: "feh", "mpv", or "open-a:AppName"
	openFlags []string // For "open-a:" paths only - flags for macOS open command
}

// viewers registry - launch paths per viewer and platform
var viewers = map[string]map[string][]launchPath{
	"imv":     {"linux": {{path: "imv"}}},
	"feh":     {"linux": {{path: "feh"}}},
	"eog":     {"linux": {{path: "eog"}}},
	"mpv":     {"darwin": {{path: "mpv"}}, "linux": {{path: "mpv"}}, "windows": {{path: "mpv"}}},
	"vlc":     {"darwin": {{path: "vlc"}, {path: "open-a:VLC"}}, "linux": {{path: "vlc"}}, "windows": {{path: "vlc"}}},
	"iina":    {"darwin": {{path: "open-a:IINA", openFlags: []string{"-n"}}}},
	"preview": {"darwin": {{path: "open-a:Preview"}}},
	"zathura": {"linux": {{path: "zathura"}}},
	"evince":  {"linux": {{path: "evince"}}},
}

// candidateViewers defines the preferred viewer order per kind and platform
var candidateViewers = map[domain.Kind]map[string][]string{
	domain.KindImage: {
		"darwin": {"preview"},
		"linux":  {"imv", "feh", "eog"},
	},
	domain.KindVideo: {
		"darwin":  {"iina", "vlc", "mpv"},
		"linux":   {"mpv", "vlc"},
		"windows": {"vlc", "mpv"},
	},
	domain.KindAudio: {
		"darwin":  {"iina", "vlc", "mpv"},
		"linux":   {"mpv", "vlc"},
		"windows": {"vlc", "mpv"},
	},
	domain.KindDocument: {
		"darwin": {"preview"},
		"linux":  {"zathura", "evince"},
	},
}

// NewLauncher creates a launcher over the corpus mounted at root
func NewLauncher(command string, args []string, root string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  command,
		args:     args,
		root:     root,
		logger:   logger,
		lookPath: exec.LookPath,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
		goos: runtime.GOOS,
	}
}

// Resolve returns the local path of item's file
func (l *Launcher) Resolve(item domain.Item) (string, error) {
	if l.root == "" {
		return "", ErrNoCorpusRoot
	}
	rel := strings.TrimLeft(filepath.FromSlash(item.Common().FilePath), `/\`)
	if rel == "" {
		return "", fmt.Errorf("%w: item %d has no file path", ErrFileMissing, item.ItemID())
	}

	path := filepath.Join(l.root, rel)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrFileMissing, path)
	}
	return path, nil
}

// Open launches item's file in the configured viewer, a detected viewer for
// its kind, or the system default
func (l *Launcher) Open(item domain.Item) error {
	path, err := l.Resolve(item)
	if err != nil {
		return err
	}

	// Tier 1: User configured a specific viewer
	if l.command != "" {
		args := append(append([]string{}, l.args...), path)
		l.logger.Info("launching viewer", "command", l.command, "args", args)
		return l.start(l.command, args...)
	}

	// Tier 2: Try the candidate chain for the item's kind
	if name, err := l.detectAndLaunch(item.ItemKind(), path); err == nil {
		l.logger.Info("launched with detected viewer", "viewer", name, "id", item.ItemID())
		return nil
	}

	// Tier 3: Fall back to system default (open/xdg-open/start)
	l.logger.Info("no candidate viewers found, using system default", "os", l.goos)
	return l.launchDefault(path)
}

func (l *Launcher) detectAndLaunch(kind domain.Kind, path string) (string, error) {
	for _, name := range candidateViewers[kind][l.goos] {
		for _, lp := range viewers[name][l.goos] {
			var err error
			if app, ok := strings.CutPrefix(lp.path, "open-a:"); ok {
				args := append(append([]string{}, lp.openFlags...), "-a", app, path)
				err = l.start("open", args...)
			} else if _, err = l.lookPath(lp.path); err == nil {
				err = l.start(lp.path, path)
			}

			if err == nil {
				return name, nil
			}
			l.logger.Debug("launch path not available", "viewer", name, "path", lp.path, "error", err)
		}
	}
	return "", fmt.Errorf("no candidate viewers for %s", kind)
}

func (l *Launcher) launchDefault(path string) error {
	switch l.goos {
	case "darwin":
		return l.start("open", path)
	case "windows":
		return l.start("cmd", "/c", "start", "", path)
	default:
		return l.start("xdg-open", path)
	}
}
