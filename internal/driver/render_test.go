package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/modcheck/internal/config"
	"github.com/orizon-lang/modcheck/internal/testutil"
)

func renderBatch(t *testing.T) *Summary {
	t.Helper()
	fixtures := []Fixture{
		{ID: "a", Source: "mod math {\n    pub fn sin() {}\n}\n\nfn main() {\n    math::sin();\n}\n"},
		{ID: "b", Source: "mod math {\n    fn cos() {}\n}\n\nfn main() {\n    math::cos();\n}\n"},
		{ID: "c", Source: "fn f() {}\nfn f() {}\n"},
		{ID: "d", Source: "fn main() {}\n", Expect: &Expectation{Status: StatusFail}},
	}
	return newDriver(t).Check(context.Background(), fixtures)
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, renderBatch(t), RenderOptions{Format: config.FormatText, NoColor: true}))
	testutil.Golden(t, "report.txt", buf.String())
}

func TestRenderJSON(t *testing.T) {
	s := renderBatch(t)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s, RenderOptions{Format: config.FormatJSON}))

	var decoded struct {
		RunID   string `json:"run_id"`
		Reports []struct {
			Fixture string `json:"fixture"`
			Status  string `json:"status"`
			Stage   string `json:"stage"`
			Errors  []struct {
				Kind string `json:"kind"`
				Code string `json:"code"`
			} `json:"errors"`
		} `json:"reports"`
		Failed int `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, s.RunID, decoded.RunID)
	require.Len(t, decoded.Reports, 4)
	assert.Equal(t, "pass", decoded.Reports[0].Status)
	assert.Empty(t, decoded.Reports[0].Stage)
	assert.Equal(t, "resolve", decoded.Reports[1].Stage)
	assert.Equal(t, "UnresolvedPath", decoded.Reports[1].Errors[0].Kind)
	assert.Equal(t, "E2002", decoded.Reports[1].Errors[0].Code)
	assert.Equal(t, 3, decoded.Failed)
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, renderBatch(t), RenderOptions{Format: config.FormatYAML}))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "strict", decoded["policy"])
	assert.Contains(t, buf.String(), "stage: build")
	assert.Contains(t, buf.String(), "mismatch: expected fail, got pass")
}

func TestRenderUnknownFormat(t *testing.T) {
	err := Render(&strings.Builder{}, &Summary{}, RenderOptions{Format: "xml"})
	assert.EqualError(t, err, `unknown format "xml"`)
}
