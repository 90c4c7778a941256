package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/skipper-desktop/skipctl/internal/config"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell [command...]",
	Short: "Run an interactive shell or a command in the Skipper Desktop VM",
	Long: `Run an interactive shell or a command in the Skipper Desktop-managed VM. For example:

> skipctl shell
-- Runs an interactive shell
> skipctl shell echo "An embedded ; ls thing"
-- Echoes back "An embedded ; ls thing".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doShellCommand(cmd, args)
	},
}

var initialWindowsShellDirectory string

func doShellCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var commandName string
	if runtime.GOOS == "windows" {
		commandName = "wsl"
		if initialWindowsShellDirectory != "" {
			args = append([]string{"--cd", initialWindowsShellDirectory}, args...)
		}
	} else {
		if err := addVMBinToPath(); err != nil {
			return err
		}
		if err := setupVMHome(); err != nil {
			return err
		}
		commandName = "limactl"
		args = append([]string{"shell", cfg.VirtualMachine.Name}, args...)
	}

	shellCommand := exec.Command(commandName, args...)
	shellCommand.Stdin = os.Stdin
	shellCommand.Stdout = os.Stdout
	shellCommand.Stderr = os.Stderr
	return shellCommand.Run()
}

// addVMBinToPath makes the limactl bundled with Skipper Desktop reachable
// when it isn't already on PATH.
func addVMBinToPath() error {
	if _, err := exec.LookPath("limactl"); err == nil {
		return nil
	}
	execPath, err := os.Executable()
	if err != nil {
		return err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return err
	}
	candidatePath := filepath.Join(filepath.Dir(filepath.Dir(execPath)), "lima", "bin")
	notFoundError := fmt.Errorf("no executable limactl file found in %s; try rerunning with the directory containing `limactl` added to PATH", candidatePath)
	stat, err := os.Stat(filepath.Join(candidatePath, "limactl"))
	if err != nil {
		return notFoundError
	}
	if uint32(stat.Mode().Perm())&0o111 == 0 {
		return notFoundError
	}
	return os.Setenv("PATH", fmt.Sprintf("%s%c%s", candidatePath, os.PathListSeparator, os.Getenv("PATH")))
}

func setupVMHome() error {
	if os.Getenv("LIMA_HOME") != "" {
		// It's already in the environment
		return nil
	}
	var candidatePath string
	if runtime.GOOS == "linux" {
		candidatePath = filepath.Join(os.Getenv("HOME"), ".local", "share", "skipper-desktop", "lima")
	} else {
		candidatePath = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "skipper-desktop", "lima")
	}
	const suggestionMessage = "try rerunning with the environment variable LIMA_HOME set to such a directory"
	stat, err := os.Stat(candidatePath)
	if err != nil {
		return fmt.Errorf("can't find the VM home directory in the expected spot; %s", suggestionMessage)
	}
	if !stat.Mode().IsDir() {
		return fmt.Errorf("path %s exists but isn't a directory; %s", candidatePath, suggestionMessage)
	}
	return os.Setenv("LIMA_HOME", candidatePath)
}

func init() {
	rootCmd.AddCommand(shellCmd)
	if runtime.GOOS == "windows" {
		shellCmd.Flags().StringVar(&initialWindowsShellDirectory, "cd", "", "Directory to run the command in.")
	}
}
