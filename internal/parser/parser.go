package parser

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"apivet/internal/curl"
	"apivet/internal/ir"
	"apivet/internal/rules"
)

var ErrValidation = errors.New("validation error")

type Parser struct{}

func New() *Parser { return &Parser{} }

// ParseBytes parses a YAML (or JSON) check file and validates it. The curl
// command of every check must parse and every rule must be well-formed;
// those are hard failures here so a run never starts on broken input.
func (p *Parser) ParseBytes(b []byte) (*ir.CheckFile, error) {
	var file ir.CheckFile

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true) // fail on unknown fields

	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := validateFile(&file); err != nil {
		return nil, err
	}
	return &file, nil
}

// --- validation helpers ---

func validateFile(f *ir.CheckFile) error {
	if f.Name == "" {
		return wrapValidation("file.name must not be empty")
	}
	if len(f.Checks) == 0 {
		return wrapValidation("file.checks must not be empty")
	}
	for i := range f.Checks {
		if err := validateCheck(&f.Checks[i], i); err != nil {
			return err
		}
	}
	return nil
}

func validateCheck(c *ir.Check, idx int) error {
	if c.Name == "" {
		return wrapValidation(fmt.Sprintf("check[%d].name must not be empty", idx))
	}
	if c.Curl == "" {
		return wrapValidation(fmt.Sprintf("check[%d].curl must not be empty", idx))
	}
	if _, err := curl.Parse(c.Curl); err != nil {
		return fmt.Errorf("%w: check[%d].curl: %v", ErrValidation, idx, err)
	}
	for j, r := range c.Rules {
		if err := rules.ValidateRule(r); err != nil {
			return fmt.Errorf("%w: check[%d].rules[%d]: %v", ErrValidation, idx, j, err)
		}
	}
	return nil
}

func wrapValidation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
