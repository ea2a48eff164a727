package main

import (
	"bytes"
	"testing"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/golden"
)

var formatFixture = ExportMap{
	"foo":         {IsDefault: true, IsNamed: true},
	AnonymousName: {IsDefault: true},
	"bar":         {IsNamed: true},
}

func TestFormatExportsJSON(t *testing.T) {
	var out bytes.Buffer
	assert.NilError(t, FormatExports(&out, formatFixture, OutputJSON))
	golden.Assert(t, out.String(), "exports.json.golden")
}

func TestFormatExportsText(t *testing.T) {
	var out bytes.Buffer
	assert.NilError(t, FormatExports(&out, formatFixture, OutputText))

	expected := "Name      Default  Named\n" +
		"----      -------  -----\n" +
		"_default  yes      no\n" +
		"bar       no       yes\n" +
		"foo       yes      yes\n" +
		"\n" +
		"Total: 3\n"
	assert.Equal(t, out.String(), expected)
}

func TestFormatExportsYAML(t *testing.T) {
	var out bytes.Buffer
	assert.NilError(t, FormatExports(&out, formatFixture, OutputYAML))

	expected := "_default:\n" +
		"  default: true\n" +
		"bar:\n" +
		"  named: true\n" +
		"foo:\n" +
		"  default: true\n" +
		"  named: true\n"
	assert.Equal(t, out.String(), expected)
}

func TestFormatEmptyExports(t *testing.T) {
	cases := map[OutputFormat]string{
		OutputText: "No exports found\n",
		OutputJSON: "{}\n",
		OutputYAML: "{}\n",
	}

	for format, expected := range cases {
		t.Run(string(format), func(t *testing.T) {
			var out bytes.Buffer
			assert.NilError(t, FormatExports(&out, ExportMap{}, format))
			assert.Equal(t, out.String(), expected)
		})
	}
}

func TestFormatExportsUnknownFormat(t *testing.T) {
	var out bytes.Buffer
	err := FormatExports(&out, formatFixture, OutputFormat("xml"))
	assert.ErrorContains(t, err, "unsupported output format 'xml'")
}
