// Package vmt builds and writes Valve material (KeyValues) descriptors.
package vmt

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMaterial indicates a material that cannot be rendered as KeyValues.
var ErrInvalidMaterial = errors.New("invalid material")

// Param is a single quoted key/value pair.
type Param struct {
	Key   string
	Value string
}

// Block is a named nested section such as a proxy definition.
type Block struct {
	Name   string
	Params []Param
	Blocks []Block
}

// Material is a shader with ordered parameters and optional proxies.
type Material struct {
	Comments []string // written as // lines before the shader
	Shader   string
	Params   []Param
	Proxies  []Block
}

// Validate checks that every name and value can be written quoted.
func (m *Material) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil material", ErrInvalidMaterial)
	}
	if m.Shader == "" {
		return fmt.Errorf("%w: empty shader", ErrInvalidMaterial)
	}
	if err := validateParams(m.Params); err != nil {
		return err
	}
	for _, c := range m.Comments {
		if strings.ContainsAny(c, "\r\n") {
			return fmt.Errorf("%w: multi-line comment", ErrInvalidMaterial)
		}
	}
	return validateBlocks(m.Proxies)
}

func validateParams(params []Param) error {
	for _, p := range params {
		if p.Key == "" {
			return fmt.Errorf("%w: empty key", ErrInvalidMaterial)
		}
		if strings.ContainsAny(p.Key, "\"\r\n") || strings.ContainsAny(p.Value, "\"\r\n") {
			return fmt.Errorf("%w: %q contains a quote or newline", ErrInvalidMaterial, p.Key)
		}
	}
	return nil
}

func validateBlocks(blocks []Block) error {
	for _, b := range blocks {
		if b.Name == "" || strings.ContainsAny(b.Name, "\"\r\n") {
			return fmt.Errorf("%w: bad block name %q", ErrInvalidMaterial, b.Name)
		}
		if err := validateParams(b.Params); err != nil {
			return err
		}
		if err := validateBlocks(b.Blocks); err != nil {
			return err
		}
	}
	return nil
}
