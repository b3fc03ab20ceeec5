package config

import (
	"path"

	"github.com/mitchellh/go-homedir"
)

const (
	DefaultHomePath = "~/.shelf"
	ConfigFilename  = "shelf.toml"
	DBPath          = "db"
	// CodeTablesFilename is picked up from the home directory when the
	// config names no code tables file.
	CodeTablesFilename = "codetables.xml"
)

func ExpandHomePath(path string) string {
	res, err := homedir.Expand(path)
	if err != nil {
		panic(err)
	}
	return res
}

func ExpandDBPath(homePath string) string {
	return path.Join(homePath, DBPath)
}

func ExpandConfigPath(homePath string) string {
	return path.Join(homePath, ConfigFilename)
}

func ExpandCodeTablesPath(homePath string) string {
	return path.Join(homePath, CodeTablesFilename)
}
