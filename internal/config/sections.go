package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Section names in the secrets file.
const (
	SectionGoogleOAuth    = "google_json"
	SectionServiceAccount = "gcp_service_account"
	SectionReservations   = "reservation_sheets"
	SectionAccessControl  = "access_control_sheets"
	SectionMembership     = "membership_sheets"
	SectionLogging        = "logging_sheets"
)

// Sections is a two-level key/value tree loaded from the secrets file.
// Lookups are overridden by environment variables named SECTION__KEY.
type Sections struct {
	values map[string]map[string]any
	getenv func(string) string
}

// SheetLocation names one worksheet inside a spreadsheet.
type SheetLocation struct {
	SpreadsheetID string
	Worksheet     string
}

// LoadSections reads a YAML secrets file. A missing file yields empty sections
// so that everything can come from the environment.
func LoadSections(path string) (*Sections, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewSections(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read secrets file: %w", err)
	}
	return ParseSections(data)
}

// ParseSections decodes YAML section data.
func ParseSections(data []byte) (*Sections, error) {
	values := map[string]map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse secrets file: %w", err)
	}
	return NewSections(values), nil
}

// NewSections wraps an in-memory tree.
func NewSections(values map[string]map[string]any) *Sections {
	if values == nil {
		values = map[string]map[string]any{}
	}
	return &Sections{values: values, getenv: os.Getenv}
}

// Get returns section.key, or def when it is unset.
func (s *Sections) Get(section, key, def string) string {
	if v := s.getenv(envName(section, key)); v != "" {
		return v
	}
	if v, ok := s.values[section][key]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return def
}

// Require returns section.key or ErrMissingSetting.
func (s *Sections) Require(section, key string) (string, error) {
	v := s.Get(section, key, "")
	if v == "" {
		return "", missing(section, key)
	}
	return v, nil
}

// Sheet resolves the spreadsheet and worksheet named by two keys of a section,
// e.g. Sheet("reservation_sheets", "RESERVATION_SHEET", "RESERVATION_WORKSHEET").
func (s *Sections) Sheet(section, sheetKey, worksheetKey string) (SheetLocation, error) {
	id, err := s.Require(section, sheetKey)
	if err != nil {
		return SheetLocation{}, err
	}
	ws, err := s.Require(section, worksheetKey)
	if err != nil {
		return SheetLocation{}, err
	}
	return SheetLocation{SpreadsheetID: id, Worksheet: ws}, nil
}

// SectionJSON renders a whole section as a JSON object, as expected by
// credential loaders. Environment overrides apply to keys present in the file.
func (s *Sections) SectionJSON(section string) ([]byte, error) {
	src, ok := s.values[section]
	if !ok || len(src) == 0 {
		return nil, missing(section, "*")
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		if env := s.getenv(envName(section, k)); env != "" {
			out[k] = env
			continue
		}
		out[k] = v
	}
	return json.Marshal(out)
}

func envName(section, key string) string {
	return strings.ToUpper(section + "__" + key)
}
