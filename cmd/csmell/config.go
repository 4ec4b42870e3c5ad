package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage csmell configuration",
	Long:  `View, validate and initialize csmell configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with the current settings",
	Long: `Writes the effective configuration to a YAML file.

The default path is .csmell/config.yaml in the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	result := cfg.Validate()
	if result.HasErrors() {
		fmt.Print(result.Error())
		return &exitError{code: 1}
	}
	for _, w := range result.Warnings {
		fmt.Printf("⚠️  %s\n", w)
	}
	fmt.Println("✅ Configuration is valid")
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := filepath.Join(".csmell", "config.yaml")
	if len(args) == 1 {
		path = args[0]
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Printf("✅ Wrote %s\n", path)
	return nil
}
