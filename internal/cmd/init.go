package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/renpy/pxdgen/internal/config"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write .pxdgen/config.yaml with the default tables",
	Long: `Create the .pxdgen directory in the current directory and write
config.yaml with the built-in defaults: the SDL2 name tables, the omit set,
the array bound constants and the preamble.

Edit the file to wrap a different library.

Examples:
  pxdgen init          # Initialize in current directory
  pxdgen init --force  # Overwrite an existing config file`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	configDir := filepath.Join(cwd, config.ConfigDirName)
	configFile := filepath.Join(configDir, config.ConfigFileName)
	relPath, _ := filepath.Rel(cwd, configFile)

	_, err = os.Stat(configFile)
	if err == nil {
		if !initForce {
			fmt.Fprintf(cmd.OutOrStdout(), "Already initialized at %s\n", relPath)
			return nil
		}
		if err := os.Remove(configFile); err != nil {
			return fmt.Errorf("removing existing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking config path: %w", err)
	}

	if _, err := config.SaveDefault(cwd); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized pxdgen config at %s\n", relPath)
	return nil
}
