package config

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"reflect"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"shelf/charset"
	"shelf/iso2709"
	"shelf/marc"
	"shelf/marc8"
)

type Config struct {
	LogLevel  string       `mapstructure:"log_level"`
	LogFormat string       `mapstructure:"log_format"`
	Decode    DecodeConfig `mapstructure:"decode"`
	Encode    EncodeConfig `mapstructure:"encode"`
	Import    ImportConfig `mapstructure:"import"`
}

type DecodeConfig struct {
	ExternalEncoding string   `mapstructure:"external_encoding"`
	InternalEncoding string   `mapstructure:"internal_encoding"`
	Validate         bool     `mapstructure:"validate"`
	Invalid          string   `mapstructure:"invalid"`
	Replacement      string   `mapstructure:"replacement"`
	Forgiving        bool     `mapstructure:"forgiving"`
	ControlTags      []string `mapstructure:"control_tags"`
	Normalization    string   `mapstructure:"normalization"`
	ExpandNCR        bool     `mapstructure:"expand_ncr"`
	CodeTables       string   `mapstructure:"code_tables"`
}

type EncodeConfig struct {
	AllowOversized bool `mapstructure:"allow_oversized"`
}

type ImportConfig struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queue_size"`
}

// ReadConfig decodes a TOML config. Keys missing from the file keep their
// DefaultConfig values.
func ReadConfig(r io.Reader) (*Config, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding config file")
	}
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.SetTagName("mapstructure")
	config := &Config{}
	if err := decoder.Decode(config); err != nil {
		return nil, errors.Wrap(err, "error decoding config file")
	}
	fillDefaults(tree, "", reflect.ValueOf(config).Elem(), reflect.ValueOf(DefaultConfig))
	return config, nil
}

// fillDefaults copies def into every leaf of dst whose key is absent from
// tree. Sections recurse using their dotted key.
func fillDefaults(tree *toml.Tree, prefix string, dst, def reflect.Value) {
	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("mapstructure")
		if prefix != "" {
			key = prefix + "." + key
		}
		field := dst.Field(i)
		if field.Kind() == reflect.Struct {
			fillDefaults(tree, key, field, def.Field(i))
			continue
		}
		if tree.Has(key) {
			continue
		}
		val := def.Field(i)
		if val.Kind() == reflect.Slice && !val.IsNil() {
			val = reflect.AppendSlice(reflect.MakeSlice(val.Type(), 0, val.Len()), val)
		}
		field.Set(val)
	}
}

// DecodeOptions converts the [decode] section. A configured code tables
// file is loaded and merged over the bundled MARC-8 tables.
func (c DecodeConfig) DecodeOptions() (iso2709.DecodeOptions, error) {
	var opts iso2709.DecodeOptions

	invalid, err := charset.ParseInvalidPolicy(c.Invalid)
	if err != nil {
		return opts, err
	}
	form, err := marc8.ParseForm(c.Normalization)
	if err != nil {
		return opts, err
	}

	m8 := marc8.Options{
		KeepNCR: !c.ExpandNCR,
		Form:    form,
	}
	if c.CodeTables != "" {
		table, err := readCodeTables(ExpandHomePath(c.CodeTables))
		if err != nil {
			return opts, err
		}
		m8.Table = table
	}

	opts.Charset = charset.Options{
		External:    c.ExternalEncoding,
		Internal:    c.InternalEncoding,
		Validate:    c.Validate,
		Invalid:     invalid,
		Replacement: c.Replacement,
		MARC8:       m8,
	}
	opts.Forgiving = c.Forgiving
	opts.ControlTags = marc.NewControlTags(c.ControlTags...)
	return opts, nil
}

func (c EncodeConfig) EncodeOptions() iso2709.EncodeOptions {
	return iso2709.EncodeOptions{
		DisallowOversized: !c.AllowOversized,
	}
}

func readCodeTables(path string) (*marc8.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening code tables")
	}
	defer f.Close()
	loaded, err := marc8.LoadCodeTables(f)
	if err != nil {
		return nil, err
	}
	table := marc8.DefaultTable().Clone()
	table.Merge(loaded)
	return table, nil
}
