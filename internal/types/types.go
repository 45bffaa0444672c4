package types

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Severity is the reporting level attached to an issue.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	case SeverityOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

func (s Severity) MarshalYAML() (interface{}, error) {
	switch s {
	case SeverityError:
		return "error", nil
	case SeverityWarning:
		return "warning", nil
	case SeverityInfo:
		return "info", nil
	case SeverityOff:
		return "off", nil
	}
	return nil, fmt.Errorf("unknown severity: %d", s)
}

func (s Severity) MarshalJSON() ([]byte, error) {
	v, err := s.MarshalYAML()
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	switch value.Value {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	case "off":
		*s = SeverityOff
	default:
		return fmt.Errorf("unknown severity: %q", value.Value)
	}
	return nil
}

// ConfigRule is the per-rule entry of the yaml configuration file.
type ConfigRule struct {
	Severity  Severity `yaml:"severity"`
	Threshold int      `yaml:"threshold,omitempty"`
}

// Position is a line/column location in a source file. Both are 1-based.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Issue represents a lint issue found in the code base.
type Issue struct {
	Rule     string `json:"rule"`
	Category string `json:"category"`
	Filename string `json:"filename"`
	// Class and Method identify the contract owner for substitutability
	// issues. Empty for issues that are not tied to a method.
	Class      string   `json:"class,omitempty"`
	Method     string   `json:"method,omitempty"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	Note       string   `json:"note,omitempty"`
	Severity   Severity `json:"severity"`
	Start      Position `json:"start"`
	End        Position `json:"end"`
}
