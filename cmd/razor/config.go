// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bytes"
	"io"
	"strings"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/bufbuild/razor/taghelper"
)

const defaultConfigPath = "razor.yaml"

// config is the contents of a razor.yaml file.
type config struct {
	DesignTime bool              `yaml:"design_time"`
	TagHelpers []tagHelperConfig `yaml:"tag_helpers"`
}

// tagHelperConfig is one entry of the tag helper catalog.
type tagHelperConfig struct {
	TagName            string            `yaml:"tag_name"`
	TypeName           string            `yaml:"type_name"`
	AssemblyName       string            `yaml:"assembly_name"`
	RequiredAttributes []string          `yaml:"required_attributes"`
	AllowedChildren    []string          `yaml:"allowed_children"`
	RequiredParent     string            `yaml:"required_parent"`
	TagStructure       string            `yaml:"tag_structure"`
	Attributes         []attributeConfig `yaml:"attributes"`
}

type attributeConfig struct {
	Name         string `yaml:"name"`
	TypeName     string `yaml:"type_name"`
	PropertyName string `yaml:"property_name"`
}

// loadConfig reads the configuration at path. If path is empty, razor.yaml
// is read if it exists, and an empty configuration is returned otherwise.
func loadConfig(fs afero.Fs, path string) (*config, error) {
	if path == "" {
		ok, err := afero.Exists(fs, defaultConfigPath)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if !ok {
			return &config{}, nil
		}
		path = defaultConfigPath
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("could not read config: %w", err)
	}
	cfg := new(config)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("invalid config %q: %w", path, err)
	}
	if _, err := cfg.descriptors(); err != nil {
		return nil, errors.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

// descriptors converts the tag helper catalog. Every invalid entry is
// reported.
func (c *config) descriptors() ([]taghelper.Descriptor, error) {
	var (
		out  []taghelper.Descriptor
		errs error
	)
	for i, th := range c.TagHelpers {
		d, err := th.descriptor()
		if err != nil {
			errs = multierr.Append(errs, errors.Errorf("tag_helpers[%d]: %w", i, err))
			continue
		}
		out = append(out, d)
	}
	return out, errs
}

func (c tagHelperConfig) descriptor() (taghelper.Descriptor, error) {
	var errs error
	if c.TagName == "" {
		errs = multierr.Append(errs, errors.New("missing tag_name"))
	}
	if c.TypeName == "" {
		errs = multierr.Append(errs, errors.New("missing type_name"))
	}
	if c.AssemblyName == "" {
		errs = multierr.Append(errs, errors.New("missing assembly_name"))
	}

	var structure taghelper.TagStructure
	switch c.TagStructure {
	case "":
		structure = taghelper.Unspecified
	case "normal_or_self_closing":
		structure = taghelper.NormalOrSelfClosing
	case "without_end_tag":
		structure = taghelper.WithoutEndTag
	default:
		errs = multierr.Append(errs, errors.Errorf("unknown tag_structure %q", c.TagStructure))
	}
	if errs != nil {
		return taghelper.Descriptor{}, errs
	}

	d := taghelper.Descriptor{
		TagName:            c.TagName,
		TypeName:           c.TypeName,
		AssemblyName:       c.AssemblyName,
		RequiredAttributes: c.RequiredAttributes,
		AllowedChildren:    c.AllowedChildren,
		RequiredParent:     c.RequiredParent,
		TagStructure:       structure,
	}
	for _, attr := range c.Attributes {
		d.Attributes = append(d.Attributes, taghelper.Attribute{
			Name:             attr.Name,
			PropertyName:     attr.PropertyName,
			TypeName:         attr.TypeName,
			IsStringProperty: isStringType(attr.TypeName),
		})
	}
	return d, nil
}

func isStringType(name string) bool {
	return name == "" || name == "string" || strings.EqualFold(name, "System.String")
}
