package format_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.followtheprocess.codes/lox/internal/format"
	"go.followtheprocess.codes/lox/internal/syntax"
	"go.followtheprocess.codes/test"
	"go.yaml.in/yaml/v4"
)

// report returns a small reference report used by all the exporter tests.
func report() format.Report {
	return format.Report{
		Name: "test.lox",
		Diagnostics: []syntax.Diagnostic{
			{
				Msg:      "expected ';' after value",
				Severity: syntax.SeverityError,
				Position: syntax.Position{
					Name:     "test.lox",
					Offset:   7,
					Line:     1,
					StartCol: 8,
					EndCol:   8,
				},
			},
			{
				Msg:      "unused variable 'a'",
				Severity: syntax.SeverityWarning,
				Position: syntax.Position{
					Name:     "test.lox",
					Offset:   12,
					Line:     2,
					StartCol: 5,
					EndCol:   6,
				},
			},
		},
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"text", "json", "yaml"} {
		exporter, err := format.New(name)
		test.Ok(t, err)
		test.True(t, exporter != nil)
	}

	_, err := format.New("csv")
	test.Err(t, err)
}

func TestText(t *testing.T) {
	buf := &bytes.Buffer{}

	err := format.TextExporter{}.Export(buf, report())
	test.Ok(t, err)

	want := "Error: expected ';' after value on line 1, character 8.\n" +
		"Warning: unused variable 'a' on line 2, character 5.\n"

	test.Equal(t, buf.String(), want)
}

func TestJSON(t *testing.T) {
	buf := &bytes.Buffer{}

	err := format.JSONExporter{}.Export(buf, report())
	test.Ok(t, err)

	// Round-trips back into an equivalent structure
	var decoded map[string]any

	err = json.Unmarshal(buf.Bytes(), &decoded)
	test.Ok(t, err)
	test.Equal(t, decoded["name"].(string), "test.lox")

	diagnostics := decoded["diagnostics"].([]any)
	test.Equal(t, len(diagnostics), 2)

	first := diagnostics[0].(map[string]any)
	test.Equal(t, first["severity"].(string), "Error")
	test.Equal(t, first["msg"].(string), "expected ';' after value")
}

func TestYAML(t *testing.T) {
	buf := &bytes.Buffer{}

	err := format.YAMLExporter{}.Export(buf, report())
	test.Ok(t, err)

	var decoded map[string]any

	err = yaml.Unmarshal(buf.Bytes(), &decoded)
	test.Ok(t, err)
	test.Equal(t, decoded["name"].(string), "test.lox")

	if !strings.Contains(buf.String(), "unused variable 'a'") {
		t.Fatalf("yaml %q missing diagnostic", buf.String())
	}
}

func TestValid(t *testing.T) {
	test.False(t, report().Valid())

	clean := format.Report{Name: "clean.lox"}
	test.True(t, clean.Valid())

	warningsOnly := format.Report{
		Name: "warn.lox",
		Diagnostics: []syntax.Diagnostic{
			{Msg: "unused variable 'a'", Severity: syntax.SeverityWarning},
		},
	}
	test.True(t, warningsOnly.Valid())
}
