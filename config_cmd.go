package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
)

const defaultConfig = `# locale of the transcriptions, such as en_US or de
locale: "en-US"
# allophone inventory file (.xml or .yaml); empty uses the built-in one for the locale
inventory: ""
# output format: xml, json, yaml or msgpack
format: "xml"

# phone durations in milliseconds, stress factors in percent of the vowel
duration:
  consonant: 70
  vowel: 100
  primary: 150
  secondary: 120

# boundary closing every phrase
boundary:
  tone: 4
  duration: 400

# rendered document cache
cache:
  enabled: false
  # dir: "~/.cache/simplephon"
  memory_size: "16MiB"
  disk_size: "256MiB"
  # zstd level, 0 disables compression
  compression_level: 3
  ttl: "720h"
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the simplephon config file",
	Long:    paragraph(fmt.Sprintf("\n%s the simplephon config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("simplephon config\nsimplephon config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		file := configPath()
		if err := ensureConfigFile(file); err != nil {
			return err
		}

		c, err := editor.Cmd("simplephon", file)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", file)
		return nil
	},
}

// configPath returns --config when given, and the discovered or default
// location otherwise.
func configPath() string {
	if configFile != "" {
		return configFile
	}
	return defaultConfigPath
}

func ensureConfigFile(file string) error {
	if file == "" {
		return errors.New("no configuration directory found")
	}

	if ext := path.Ext(file); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(file), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(file)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
