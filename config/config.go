// Copyright (c) 2016-2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads YAML configuration files, supporting layered
// "extends" chaining and struct tag validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/validator.v2"
	yaml "gopkg.in/yaml.v2"
)

// ErrCycleRef is returned when an extends chain refers back to itself.
var ErrCycleRef = errors.New("cyclic reference in configuration extends detected")

// ValidationError wraps a validator.v2 field-level error map.
type ValidationError struct {
	errs validator.ErrorMap
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid config: %v", map[string]validator.ErrorArray(e.errs))
}

// ErrForField returns the validation errors for the named struct field.
func (e ValidationError) ErrForField(name string) validator.ErrorArray {
	return e.errs[name]
}

// Load reads fname and any files it extends into cfg, then validates cfg.
func Load(fname string, cfg interface{}) error {
	filenames, err := resolveExtends(fname, readExtends)
	if err != nil {
		return err
	}
	return loadFiles(cfg, filenames)
}

// loadFiles merges filenames into cfg in order, from base to most specific,
// and validates once after the full merge.
func loadFiles(cfg interface{}, filenames []string) error {
	for _, fn := range filenames {
		b, err := os.ReadFile(fn)
		if err != nil {
			return fmt.Errorf("read config %s: %s", fn, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("parse config %s: %s", fn, err)
		}
	}
	if err := validator.Validate(cfg); err != nil {
		if errs, ok := err.(validator.ErrorMap); ok {
			return ValidationError{errs}
		}
		return err
	}
	return nil
}

type extendsDoc struct {
	Extends string `yaml:"extends"`
}

func readExtends(fname string) (string, error) {
	b, err := os.ReadFile(fname)
	if err != nil {
		return "", fmt.Errorf("read config %s: %s", fname, err)
	}
	var doc extendsDoc
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return "", fmt.Errorf("parse config %s: %s", fname, err)
	}
	return doc.Extends, nil
}

// resolveExtends walks the extends chain starting at fpath, returning the
// files to load in order from least to most specific. readExtendsFn returns
// the raw "extends" value of a file, or "" if it has none.
func resolveExtends(fpath string, readExtendsFn func(string) (string, error)) ([]string, error) {
	visited := map[string]bool{fpath: true}
	chain := []string{fpath}

	cur := fpath
	for {
		target, err := readExtendsFn(cur)
		if err != nil {
			return nil, err
		}
		if target == "" {
			break
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(cur), target)
		}
		if visited[target] {
			return nil, ErrCycleRef
		}
		visited[target] = true
		chain = append([]string{target}, chain...)
		cur = target
	}
	return chain, nil
}
