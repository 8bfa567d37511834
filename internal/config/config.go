// Package config reads run settings from a TOML file. Keys are the long
// flag names; a flag given on the command line wins over the file.
package config

import (
	"bytes"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// File mirrors the persistent and per-command flags. Unset keys stay nil.
type File struct {
	OligoLength    *int    `toml:"oligo-length" comment:"Sampling"`
	FragmentLength *int    `toml:"fragment-length"`
	Seed           *int64  `toml:"seed" comment:"0 draws a seed from the clock"`
	Threads        *int    `toml:"threads" comment:"0 uses every CPU"`
	Clusters       *int    `toml:"clusters" comment:"k-means"`
	MaxIterations  *int    `toml:"max-iterations"`
	Output         *string `toml:"output" comment:"Output: text, json or jsonl"`
	IndexCache     *string `toml:"index-cache"`
	Quiet          *bool   `toml:"quiet" comment:"Logging"`
	Debug          *bool   `toml:"debug"`
	Progress       *bool   `toml:"progress"`
}

// Load decodes path strictly: unknown keys are an error.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	var f File
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, errors.Errorf("%s:%d:%d: %v", path, row, col, derr)
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return nil, errors.Errorf("%s: unknown key\n%s", path, serr.String())
		}
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return &f, nil
}

// Values returns the set keys as flag name → string value, ready for
// pflag's Set.
func (f *File) Values() map[string]string {
	m := map[string]string{}
	putInt := func(k string, v *int) {
		if v != nil {
			m[k] = strconv.Itoa(*v)
		}
	}
	putBool := func(k string, v *bool) {
		if v != nil {
			m[k] = strconv.FormatBool(*v)
		}
	}
	putInt("oligo-length", f.OligoLength)
	putInt("fragment-length", f.FragmentLength)
	if f.Seed != nil {
		m["seed"] = strconv.FormatInt(*f.Seed, 10)
	}
	putInt("threads", f.Threads)
	putInt("clusters", f.Clusters)
	putInt("max-iterations", f.MaxIterations)
	if f.Output != nil {
		m["output"] = *f.Output
	}
	if f.IndexCache != nil {
		m["index-cache"] = *f.IndexCache
	}
	putBool("quiet", f.Quiet)
	putBool("debug", f.Debug)
	putBool("progress", f.Progress)
	return m
}

// Marshal renders f as a commented TOML document.
func Marshal(f *File) ([]byte, error) {
	return toml.Marshal(f)
}
