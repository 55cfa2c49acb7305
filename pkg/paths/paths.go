// Package paths provides centralized path handling for shellstrap.
// It implements XDG Base Directory compliance for shellstrap's own files
// and resolves the well-known per-user locations of the shells and
// companion applications it manages.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/shellstrap/pkg/errors"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for shellstrap
	EnvDataDir = "SHELLSTRAP_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for shellstrap
	EnvConfigDir = "SHELLSTRAP_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for shellstrap
	EnvStateDir = "SHELLSTRAP_STATE_DIR"

	// EnvCacheDir overrides the XDG cache directory for shellstrap
	EnvCacheDir = "SHELLSTRAP_CACHE_DIR"

	// EnvProfileDir overrides the documents directory holding shell
	// profiles (the Windows "Documents" folder in a stock setup)
	EnvProfileDir = "SHELLSTRAP_PROFILE_DIR"
)

// Default directories and files
// IMPORTANT: These constants define shellstrap's internal layout and are
// NOT user-configurable. Shell and companion-app locations are fixed by
// the applications themselves.
const (
	// AppDirName is the directory name for shellstrap-specific files
	AppDirName = "shellstrap"

	// SentinelDirName is the subdirectory for one-time-migration sentinels
	SentinelDirName = "sentinels"

	// ThemesDirName is the subdirectory for downloaded prompt themes
	ThemesDirName = "themes"

	// BootstrapDirName is the subdirectory for downloaded installers
	BootstrapDirName = "bootstrap"

	// LogFileName is the name of the log file
	LogFileName = "shellstrap.log"

	// ConfigFileName is the base name of the user override config
	ConfigFileName = "shellstrap"

	// ProfileFileName is the canonical profile script name shared by all
	// PowerShell hosts
	ProfileFileName = "Microsoft.PowerShell_profile.ps1"
)

// Paths provides centralized path management for shellstrap
type Paths interface {
	HomeDir() string
	DataDir() string
	ConfigDir() string
	StateDir() string
	CacheDir() string

	LogFilePath() string
	SentinelDir() string
	SentinelPath(name string) string
	ThemesDir() string
	BootstrapDir() string

	ProfilePath() string
	SiblingProfilePaths() []string
	TerminalSettingsPath() string
	EditorSettingsPath() string
	ModuleDirs() []string
	BinDirs() []string
}

type paths struct {
	home      string
	xdgData   string
	xdgConfig string
	xdgState  string
	xdgCache  string

	// documents is the folder holding the per-host profile directories
	documents string

	localAppData string
	roamingData  string
}

// New creates a new Paths instance rooted at the current user's home.
func New() (Paths, error) {
	home, err := homeDirectory()
	if err != nil {
		return nil, err
	}

	p := &paths{home: home}
	p.setupXDGDirs()
	p.setupWellKnownDirs()
	return p, nil
}

// homeDirectory returns the user's home directory, trying os.UserHomeDir
// first and falling back to HOME.
func homeDirectory() (string, error) {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return home, nil
	}
	if home := os.Getenv("HOME"); home != "" {
		return home, nil
	}
	return "", errors.New(errors.ErrFileAccess,
		"unable to determine home directory: neither os.UserHomeDir() nor HOME are available")
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *paths) setupXDGDirs() {
	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		p.xdgData = p.expandHome(dataDir)
	} else {
		p.xdgData = filepath.Join(xdg.DataHome, AppDirName)
	}

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = p.expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if stateDir := os.Getenv(EnvStateDir); stateDir != "" {
		p.xdgState = p.expandHome(stateDir)
	} else {
		p.xdgState = filepath.Join(xdg.StateHome, AppDirName)
	}

	if cacheDir := os.Getenv(EnvCacheDir); cacheDir != "" {
		p.xdgCache = p.expandHome(cacheDir)
	} else {
		p.xdgCache = filepath.Join(xdg.CacheHome, AppDirName)
	}
}

// setupWellKnownDirs resolves the per-user application data roots. On a
// stock Windows install these come from LOCALAPPDATA/APPDATA; elsewhere
// (and in tests) they fall back to conventional locations under home.
func (p *paths) setupWellKnownDirs() {
	if docs := os.Getenv(EnvProfileDir); docs != "" {
		p.documents = p.expandHome(docs)
	} else {
		p.documents = filepath.Join(p.home, "Documents")
	}

	if local := os.Getenv("LOCALAPPDATA"); local != "" {
		p.localAppData = local
	} else {
		p.localAppData = filepath.Join(p.home, "AppData", "Local")
	}

	if roaming := os.Getenv("APPDATA"); roaming != "" {
		p.roamingData = roaming
	} else {
		p.roamingData = filepath.Join(p.home, "AppData", "Roaming")
	}
}

// expandHome expands a leading ~ to the user's home directory
func (p *paths) expandHome(path string) string {
	if path == "~" {
		return p.home
	}
	if strings.HasPrefix(path, "~"+string(os.PathSeparator)) || strings.HasPrefix(path, "~/") {
		return filepath.Join(p.home, path[2:])
	}
	return path
}

func (p *paths) HomeDir() string   { return p.home }
func (p *paths) DataDir() string   { return p.xdgData }
func (p *paths) ConfigDir() string { return p.xdgConfig }
func (p *paths) StateDir() string  { return p.xdgState }
func (p *paths) CacheDir() string  { return p.xdgCache }

func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

func (p *paths) SentinelDir() string {
	return filepath.Join(p.xdgState, SentinelDirName)
}

func (p *paths) SentinelPath(name string) string {
	return filepath.Join(p.SentinelDir(), name+".sentinel")
}

func (p *paths) ThemesDir() string {
	return filepath.Join(p.xdgData, ThemesDirName)
}

func (p *paths) BootstrapDir() string {
	return filepath.Join(p.xdgCache, BootstrapDirName)
}

// ProfilePath returns the active profile script, the PowerShell 7 one.
// This is the source of truth the synchronizer copies from.
func (p *paths) ProfilePath() string {
	return filepath.Join(p.documents, "PowerShell", ProfileFileName)
}

// SiblingProfilePaths returns the profile locations of the sibling shell
// hosts, in sync order.
func (p *paths) SiblingProfilePaths() []string {
	return []string{
		filepath.Join(p.documents, "WindowsPowerShell", ProfileFileName),
		filepath.Join(p.documents, "PowerShell", "Microsoft.VSCode_profile.ps1"),
	}
}

// TerminalSettingsPath returns the Windows Terminal settings document.
func (p *paths) TerminalSettingsPath() string {
	return filepath.Join(p.localAppData, "Packages",
		"Microsoft.WindowsTerminal_8wekyb3d8bbwe", "LocalState", "settings.json")
}

// EditorSettingsPath returns the VS Code user settings document.
func (p *paths) EditorSettingsPath() string {
	return filepath.Join(p.roamingData, "Code", "User", "settings.json")
}

// ModuleDirs returns the directories scanned for installed shell modules.
func (p *paths) ModuleDirs() []string {
	return []string{
		filepath.Join(p.documents, "PowerShell", "Modules"),
		filepath.Join(p.documents, "WindowsPowerShell", "Modules"),
	}
}

// BinDirs returns well-known per-user binary locations appended to the
// in-process search path after installs, so newly installed tools resolve
// without a shell restart.
func (p *paths) BinDirs() []string {
	return []string{
		filepath.Join(p.localAppData, "Microsoft", "WindowsApps"),
		filepath.Join(p.localAppData, "Programs", "oh-my-posh", "bin"),
		filepath.Join(p.roamingData, "npm"),
		filepath.Join(p.home, "scoop", "shims"),
		filepath.Join(p.home, ".fnm"),
	}
}
