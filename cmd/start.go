package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/skipper-desktop/skipctl/internal/config"
	"github.com/skipper-desktop/skipctl/internal/logging"
	"github.com/skipper-desktop/skipctl/internal/settings"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start [--path <executable>] [--dashed-path[=value] ...]",
	Short: "Start Skipper Desktop, or update its settings",
	Long: `Start Skipper Desktop with the given settings. If it's already
running, behaves the same as 'skipctl set ...'.`,
	// --path is the only launcher option; everything else is a settings
	// argument, so parsing stays manual.
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if wantsHelp(args) {
			return cmd.Help()
		}
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		initializeCommandLogging(cmd.ErrOrStderr(), cfg.Logging, logging.RoleCLI)
		return doStartOrSetCommand(cmd, cfg, args)
	},
}

// There's an unavoidable race here: Skipper Desktop can stop between the
// probe that finds it running and the settings upload. The set path reports
// the resulting connection error; rerunning start launches the app.
func doStartOrSetCommand(cmd *cobra.Command, cfg config.Config, args []string) error {
	applicationPath, settingsArgs, err := extractPathOption(args)
	if err != nil {
		return err
	}

	if serverIsRunning() {
		if applicationPath != "" {
			// `--path | -p` is not a valid option for `skipctl set ...`
			return fmt.Errorf("--path %s specified but Skipper Desktop is already running", applicationPath)
		}
		return doSetCommand(cmd, settingsArgs)
	}
	return doStartCommand(cmd, cfg, applicationPath, settingsArgs)
}

var serverIsRunning = func() bool {
	c, err := newSettingsClient()
	if err != nil {
		return false
	}
	_, err = c.GetSettings()
	return err == nil
}

func doStartCommand(cmd *cobra.Command, cfg config.Config, applicationPath string, settingsArgs []string) error {
	// Catch bad paths and unparseable values before launching anything; the
	// launched application applies the arguments to its own settings.
	baseline, err := settings.DefaultSettings().ToMap()
	if err != nil {
		return err
	}
	if _, err := settings.UpdateFromCommandLine(baseline, settingsArgs); err != nil {
		return err
	}

	if applicationPath == "" {
		applicationPath = cfg.Application.Path
	}
	if applicationPath == "" {
		pathLookupFuncs := map[string]func() string{
			"windows": getWindowsApplicationPath,
			"linux":   getLinuxApplicationPath,
			"darwin":  getMacOSApplicationPath,
		}
		getPathFunc, ok := pathLookupFuncs[runtime.GOOS]
		if !ok {
			return fmt.Errorf("don't know how to find the path to Skipper Desktop on OS %s", runtime.GOOS)
		}
		applicationPath = getPathFunc()
		if applicationPath == "" {
			return fmt.Errorf("no executable found in the default location; please retry with the --path|-p option")
		}
	}
	return launchApp(cmd, applicationPath, settingsArgs)
}

// extractPathOption pulls the launcher-only --path/-p option out of the raw
// argument list, leaving the settings arguments for the patch engine.
func extractPathOption(args []string) (string, []string, error) {
	var path string
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--path" || arg == "-p":
			if i == len(args)-1 {
				return "", nil, fmt.Errorf("no value provided for option %s", arg)
			}
			i++
			path = args[i]
		case strings.HasPrefix(arg, "--path="):
			path = strings.TrimPrefix(arg, "--path=")
		default:
			rest = append(rest, arg)
		}
	}
	return path, rest, nil
}

func launchApp(cmd *cobra.Command, applicationPath string, commandLineArgs []string) error {
	var commandName string
	var args []string

	if runtime.GOOS == "darwin" {
		commandName = "open"
		args = append(args, "-a", applicationPath)
		if len(commandLineArgs) > 0 {
			args = append(args, "--args")
			args = append(args, commandLineArgs...)
		}
	} else {
		commandName = applicationPath
		args = commandLineArgs
	}
	// Include this output because there's a delay before the UI comes up.
	// Without it, it might look like the command doesn't work.
	fmt.Fprintf(cmd.ErrOrStderr(), "About to launch %s %s ...\n", commandName, strings.Join(args, " "))
	launch := exec.Command(commandName, args...)
	launch.Stdout = cmd.OutOrStdout()
	launch.Stderr = cmd.ErrOrStderr()
	return launch.Run()
}

func getWindowsApplicationPath() string {
	localAppDataDir := os.Getenv("LOCALAPPDATA")
	if localAppDataDir == "" {
		var homeDir string
		homeDrive := os.Getenv("HOMEDRIVE")
		homePath := os.Getenv("HOMEPATH")
		if homeDrive != "" && homePath != "" {
			homeDir = homeDrive + homePath
		} else {
			homeDir = os.Getenv("HOME")
		}
		if homeDir == "" {
			return ""
		}
		localAppDataDir = filepath.Join(homeDir, "AppData", "Local")
	}
	return checkExistence(filepath.Join(localAppDataDir, "Programs", "Skipper Desktop", "Skipper Desktop.exe"), 0)
}

func getMacOSApplicationPath() string {
	return checkExistence(filepath.Join("/Applications", "Skipper Desktop.app"), 0)
}

func getLinuxApplicationPath() string {
	candidatePath := checkExistence("/opt/skipper-desktop/skipper-desktop", 0o111)
	if candidatePath != "" {
		return candidatePath
	}
	candidatePath, err := exec.LookPath("skipper-desktop")
	if err != nil {
		return ""
	}
	// exec.LookPath already checked existence and mode bits.
	return candidatePath
}

// checkExistence verifies the path exists. On Linux pass mode bits to
// require the file be executable for at least one category of user; on macOS
// the candidate is a directory, so never pass mode bits.
func checkExistence(candidatePath string, modeBits uint32) string {
	stat, err := os.Stat(candidatePath)
	if err != nil {
		return ""
	}
	if modeBits != 0 && (!stat.Mode().IsRegular() || (uint32(stat.Mode().Perm())&modeBits == 0)) {
		return ""
	}
	return candidatePath
}

func init() {
	rootCmd.AddCommand(startCmd)
}
