package config

import (
	"bytes"
	"io"
	"os"
	"text/template"

	"github.com/pkg/errors"
	"shelf/log"
)

var DefaultConfig = Config{
	LogLevel:  log.LevelInfo.String(),
	LogFormat: string(log.FormatText),
	Decode: DecodeConfig{
		ExternalEncoding: "",
		InternalEncoding: "",
		Validate:         false,
		Invalid:          "raise",
		Replacement:      "�",
		Forgiving:        false,
		ControlTags:      []string{},
		Normalization:    "NFC",
		ExpandNCR:        true,
		CodeTables:       "",
	},
	Encode: EncodeConfig{
		AllowOversized: true,
	},
	Import: ImportConfig{
		Workers:   4,
		QueueSize: 256,
	},
}

const defaultConfigTemplateText = `# shelf Config File

# Sets the log level. Can be one of the following values:
# - error
# - warn
# - info
# - debug
# - trace
log_level = "{{.LogLevel}}"

# Sets the log format, either "text" or "json".
log_format = "{{.LogFormat}}"

# Configures how binary records are decoded.
[decode]
  # Tags other than 000-009 that hold control fields, e.g. ["FMT"].
  control_tags = []
  # Path to a Library of Congress codetables.xml file. Its mappings are
  # added to the bundled MARC-8 tables, which lack the EACC ideographs.
  # When empty, codetables.xml in the home directory is used if present.
  code_tables = "{{.Decode.CodeTables}}"
  # Expands &#xHHHH; references in MARC-8 text.
  expand_ncr = {{.Decode.ExpandNCR}}
  # Sets the encoding of the record bytes. Leave empty to pass bytes
  # through untouched; records flagged as Unicode in leader position 9
  # are then treated as UTF-8. Use "MARC-8" for legacy records.
  external_encoding = "{{.Decode.ExternalEncoding}}"
  # Ignores directory offsets and splits fields on the field terminator.
  # Required to read records written with zero-filled oversized slots.
  forgiving = {{.Decode.Forgiving}}
  # Sets the target encoding. Only "UTF-8" is supported.
  internal_encoding = "{{.Decode.InternalEncoding}}"
  # Sets what happens to invalid bytes, either "raise" or "replace".
  invalid = "{{.Decode.Invalid}}"
  # Unicode normalization applied to MARC-8 text: NFC, NFD, NFKC, NFKD
  # or none.
  normalization = "{{.Decode.Normalization}}"
  # Text substituted for invalid bytes when invalid = "replace".
  replacement = "{{.Decode.Replacement}}"
  # Checks field text against the external encoding even when no
  # internal encoding is set.
  validate = {{.Decode.Validate}}

# Configures how records are encoded.
[encode]
  # Zero-fills length and offset slots that overflow instead of failing.
  # Such records can only be read back in forgiving mode.
  allow_oversized = {{.Encode.AllowOversized}}

# Configures shelf import.
[import]
  # Sets how many records are held between the decoders and the store.
  queue_size = {{.Import.QueueSize}}
  # Sets how many records are decoded concurrently.
  workers = {{.Import.Workers}}
`

var defaultConfigTemplate *template.Template

func GenerateDefaultConfigFile() []byte {
	buf := new(bytes.Buffer)
	if err := defaultConfigTemplate.Execute(buf, DefaultConfig); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func ReadConfigFile(homeDir string) (*Config, error) {
	f, err := os.OpenFile(ExpandConfigPath(homeDir), os.O_RDONLY, 0755)
	if err != nil {
		return nil, errors.Wrap(err, "error opening config file for reading")
	}
	defer f.Close()
	cfg, err := ReadConfig(f)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}
	if cfg.Decode.CodeTables == "" {
		p := ExpandCodeTablesPath(homeDir)
		if _, err := os.Stat(p); err == nil {
			cfg.Decode.CodeTables = p
		}
	}
	return cfg, nil
}

func WriteDefaultConfigFile(homeDir string) error {
	f, err := os.OpenFile(ExpandConfigPath(homeDir), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrap(err, "error opening config file for writing")
	}
	defer f.Close()
	rd := bytes.NewReader(GenerateDefaultConfigFile())
	if _, err := io.Copy(f, rd); err != nil {
		return errors.Wrap(err, "error writing config file")
	}
	return nil
}

func init() {
	tmpl := template.New("defaultConfig")
	t, err := tmpl.Parse(defaultConfigTemplateText)
	if err != nil {
		panic(err)
	}
	defaultConfigTemplate = t
}
