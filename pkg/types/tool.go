package types

// ProbeKind selects how a tool's presence is determined.
type ProbeKind string

const (
	// ProbeCommand resolves the tool on the execution search path.
	ProbeCommand ProbeKind = "command"

	// ProbePaths checks a list of well-known installation locations.
	ProbePaths ProbeKind = "paths"

	// ProbeModule scans shell module directories for a named module.
	ProbeModule ProbeKind = "module"
)

// Tool describes one provisioning target: how to detect it, how to install
// it, and how to confirm the install took. Descriptors are immutable and
// consumed by the orchestrator in a fixed sequence.
type Tool struct {
	// Name is the step identifier (stable, lowercase).
	Name string `koanf:"name"`

	// DisplayName is the human-facing name used in reports.
	DisplayName string `koanf:"display_name"`

	// Executable is the binary resolved on the search path. Empty for
	// tools that are not commands (fonts, shell modules).
	Executable string `koanf:"executable"`

	// ProbePaths lists well-known install locations checked when the
	// search path lookup fails. Entries may contain ${ENV} references.
	ProbePaths []string `koanf:"probe_paths"`

	// ModuleName names a shell module to scan for instead of a binary.
	ModuleName string `koanf:"module_name"`

	// Installer is the executable that performs the install. Empty means
	// the system package manager.
	Installer string `koanf:"installer"`

	// InstallArgs are passed to the installer verbatim.
	InstallArgs []string `koanf:"install_args"`

	// VerifyExecutable overrides Executable for the post-install probe.
	// Used when the installed command differs from the install target
	// (e.g. a runtime installed through a version manager).
	VerifyExecutable string `koanf:"verify_executable"`

	// Optional tools are reported but their absence never counts as a
	// failed run.
	Optional bool `koanf:"optional"`
}

// ProbeKindFor returns the probe strategy implied by the descriptor.
func (t Tool) ProbeKindFor() ProbeKind {
	switch {
	case t.ModuleName != "":
		return ProbeModule
	case t.Executable != "":
		return ProbeCommand
	default:
		return ProbePaths
	}
}

// VerifyTarget returns the executable name used for post-install
// verification.
func (t Tool) VerifyTarget() string {
	if t.VerifyExecutable != "" {
		return t.VerifyExecutable
	}
	return t.Executable
}

// Manager describes the system package manager and how to bootstrap it
// when it is missing.
type Manager struct {
	Name       string   `koanf:"name"`
	Executable string   `koanf:"executable"`
	ProbePaths []string `koanf:"probe_paths"`

	// BootstrapURLs are tried in order; the first successful download is
	// saved and executed to install the manager itself.
	BootstrapURLs []string `koanf:"bootstrap_urls"`

	// BootstrapArgs are passed to the downloaded installer.
	BootstrapArgs []string `koanf:"bootstrap_args"`

	// ShellUpgradeArgs are passed to the manager for the one-time shell
	// runtime migration. Empty disables the migration step.
	ShellUpgradeArgs []string `koanf:"shell_upgrade_args"`
}
