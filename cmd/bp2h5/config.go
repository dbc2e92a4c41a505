package main

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/pflag"

	"github.com/mammefen/bp2h5"
)

// fileConfig is the HCL form of bp2h5.Config. Empty values keep the
// defaults.
type fileConfig struct {
	ArrayLayout        string `hcl:"array_layout,optional"`
	DatasetAttrStrings string `hcl:"dataset_attr_strings,optional"`
	GroupAttrStrings   string `hcl:"group_attr_strings,optional"`
	Scalars            string `hcl:"scalars,optional"`
	ReadBufferSize     int    `hcl:"read_buffer_size,optional"`
	Verbosity          string `hcl:"verbosity,optional"`
	StepPolicy         string `hcl:"step_policy,optional"`
}

// convertFlags holds the convert command line.
type convertFlags struct {
	configPath     string
	layout         string
	datasetStrings string
	groupStrings   string
	scalars        string
	steps          string
	bufferSize     int
	gzip           int
	shuffle        bool
	verbose        bool
}

func (f *convertFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.configPath, "config", "c", "", "HCL configuration file")
	fs.StringVar(&f.layout, "layout", "row", "array layout of the source: row or column")
	fs.StringVar(&f.datasetStrings, "dataset-attr-strings", "c", "string convention of dataset attributes: c or fortran")
	fs.StringVar(&f.groupStrings, "group-attr-strings", "c", "string convention of group attributes: c or fortran")
	fs.StringVar(&f.scalars, "scalars", "scalar", "scalar representation: scalar or array")
	fs.StringVar(&f.steps, "steps", "pad", "appended steps with differing extents: pad or reject")
	fs.IntVar(&f.bufferSize, "buffer-size", bp2h5.DefaultReadBufferSize, "source read buffer size in bytes")
	fs.IntVar(&f.gzip, "gzip", 0, "gzip level 0-9 for datasets (0 disables)")
	fs.BoolVar(&f.shuffle, "shuffle", false, "apply the shuffle filter to datasets")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log every record")
}

// loadConfigFile decodes an HCL configuration file on top of cfg.
func loadConfigFile(path string, cfg *bp2h5.Config) error {
	var fc fileConfig
	if err := hclsimple.DecodeFile(path, nil, &fc); err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	var err error
	if fc.ArrayLayout != "" {
		if cfg.ArrayLayout, err = bp2h5.ParseArrayLayout(fc.ArrayLayout); err != nil {
			return fmt.Errorf("%s: array_layout: %w", path, err)
		}
	}
	if fc.DatasetAttrStrings != "" {
		if cfg.DatasetAttrStrings, err = bp2h5.ParseAttrConvention(fc.DatasetAttrStrings); err != nil {
			return fmt.Errorf("%s: dataset_attr_strings: %w", path, err)
		}
	}
	if fc.GroupAttrStrings != "" {
		if cfg.GroupAttrStrings, err = bp2h5.ParseAttrConvention(fc.GroupAttrStrings); err != nil {
			return fmt.Errorf("%s: group_attr_strings: %w", path, err)
		}
	}
	if fc.Scalars != "" {
		if cfg.Scalars, err = bp2h5.ParseScalarRepresentation(fc.Scalars); err != nil {
			return fmt.Errorf("%s: scalars: %w", path, err)
		}
	}
	if fc.Verbosity != "" {
		if cfg.Verbosity, err = bp2h5.ParseVerbosity(fc.Verbosity); err != nil {
			return fmt.Errorf("%s: verbosity: %w", path, err)
		}
	}
	if fc.StepPolicy != "" {
		if cfg.StepPolicy, err = bp2h5.ParseStepPolicy(fc.StepPolicy); err != nil {
			return fmt.Errorf("%s: step_policy: %w", path, err)
		}
	}
	if fc.ReadBufferSize != 0 {
		cfg.ReadBufferSize = fc.ReadBufferSize
	}
	return nil
}

// buildConfig starts from the defaults, applies the config file if any,
// then every flag set explicitly on the command line.
func buildConfig(fs *pflag.FlagSet, f *convertFlags) (bp2h5.Config, error) {
	cfg := bp2h5.DefaultConfig()
	if f.configPath != "" {
		if err := loadConfigFile(f.configPath, &cfg); err != nil {
			return cfg, err
		}
	}

	var err error
	if fs.Changed("layout") {
		if cfg.ArrayLayout, err = bp2h5.ParseArrayLayout(f.layout); err != nil {
			return cfg, fmt.Errorf("--layout: %w", err)
		}
	}
	if fs.Changed("dataset-attr-strings") {
		if cfg.DatasetAttrStrings, err = bp2h5.ParseAttrConvention(f.datasetStrings); err != nil {
			return cfg, fmt.Errorf("--dataset-attr-strings: %w", err)
		}
	}
	if fs.Changed("group-attr-strings") {
		if cfg.GroupAttrStrings, err = bp2h5.ParseAttrConvention(f.groupStrings); err != nil {
			return cfg, fmt.Errorf("--group-attr-strings: %w", err)
		}
	}
	if fs.Changed("scalars") {
		if cfg.Scalars, err = bp2h5.ParseScalarRepresentation(f.scalars); err != nil {
			return cfg, fmt.Errorf("--scalars: %w", err)
		}
	}
	if fs.Changed("steps") {
		if cfg.StepPolicy, err = bp2h5.ParseStepPolicy(f.steps); err != nil {
			return cfg, fmt.Errorf("--steps: %w", err)
		}
	}
	if fs.Changed("buffer-size") {
		cfg.ReadBufferSize = f.bufferSize
	}
	if fs.Changed("verbose") {
		cfg.Verbosity = bp2h5.Quiet
		if f.verbose {
			cfg.Verbosity = bp2h5.Debug
		}
	}
	return cfg, nil
}
