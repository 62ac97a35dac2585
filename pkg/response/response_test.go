// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package response

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prototipo-projetos/docbrief/pkg/prompt"
)

func wrap(html, dashboard string) string {
	return fmt.Sprintf("Aqui está:\n%s\n%s\n%s\n\n%s\n%s\n%s\nFim.",
		prompt.HTMLOpen, html, prompt.HTMLClose,
		prompt.JSONOpen, dashboard, prompt.JSONClose)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		html      string
		dashboard string
		valid     bool
	}{
		{
			name:      "both blocks",
			raw:       wrap("<p>ok</p>", `[{"tipo_visualizacao_sugerida":"kpi"}]`),
			html:      "<p>ok</p>",
			dashboard: `[{"tipo_visualizacao_sugerida":"kpi"}]`,
			valid:     true,
		},
		{
			name:      "invalid json falls back",
			raw:       wrap("<p>x</p>", "{not json"),
			html:      "<p>x</p>",
			dashboard: "[]",
			valid:     false,
		},
		{
			name:      "no markers at all",
			raw:       "sorry, I cannot help",
			html:      "",
			dashboard: "[]",
			valid:     true,
		},
		{
			name:      "fenced json is unwrapped",
			raw:       wrap("<p>f</p>", "```json\n[1, 2]\n```"),
			html:      "<p>f</p>",
			dashboard: "[1, 2]",
			valid:     true,
		},
		{
			name:      "empty json block",
			raw:       wrap("", ""),
			html:      "",
			dashboard: "[]",
			valid:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.raw)
			assert.Equal(t, tt.html, res.HTML)
			assert.Equal(t, tt.dashboard, res.Dashboard)
			assert.Equal(t, tt.valid, res.DashboardValid)
		})
	}
}

func TestParse_OnlyHTMLBlock(t *testing.T) {
	raw := prompt.HTMLOpen + "\n<h2>T</h2>\n" + prompt.HTMLClose
	res := Parse(raw)
	assert.True(t, res.HTMLFound)
	assert.False(t, res.DashboardFound)
	assert.Equal(t, "<h2>T</h2>", res.HTML)
	assert.Equal(t, EmptyDashboard, res.Dashboard)
}

func TestParse_GreedyAcrossRepeatedMarkers(t *testing.T) {
	raw := prompt.HTMLOpen + "a" + prompt.HTMLClose + "b" + prompt.HTMLClose
	assert.Equal(t, "a"+prompt.HTMLClose+"b", Parse(raw).HTML)
}

func TestParse_RoundTrip(t *testing.T) {
	html := "<div class=\"comunicado\">\n<h2>Projeto X</h2>\n</div>"
	dashboard := `[{"tipo_visualizacao_sugerida":"kpi","titulo":"Orçamento","valor":"75%"}]`

	res := Parse(wrap(html, dashboard))
	assert.Equal(t, html, res.HTML)
	assert.Equal(t, dashboard, res.Dashboard)
	assert.Equal(t, 1, DashboardItems(res.Dashboard))
}

func TestDashboardItems(t *testing.T) {
	assert.Equal(t, 0, DashboardItems("[]"))
	assert.Equal(t, 2, DashboardItems(`[{}, {}]`))
	assert.Equal(t, 0, DashboardItems(`{"a":1}`))
}

func TestSanitize(t *testing.T) {
	in := `<div class="comunicado" onclick="evil()"><h2>Título</h2><script>alert(1)</script><table><tr><td>1</td></tr></table></div>`
	out := Sanitize(in)

	assert.Contains(t, out, `class="comunicado"`)
	assert.Contains(t, out, "<h2>Título</h2>")
	assert.Contains(t, out, "<td>1</td>")
	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "onclick")
}

func TestVisibleText(t *testing.T) {
	in := "<div><h2>Resumo</h2>\n  <p>Tudo   em dia.</p><style>p{}</style><script>x()</script></div>"
	assert.Equal(t, "Resumo Tudo em dia.", VisibleText(in))
	assert.Equal(t, "", VisibleText(""))
}

func TestCheckDashboard(t *testing.T) {
	valid := `[
		{"tipo_visualizacao_sugerida":"grafico_barras","titulo":"Progresso","dados":{"labels":["Dev"],"valores":[80]}},
		{"tipo_visualizacao_sugerida":"tabela","titulo":"Entregas","dados":{"colunas":["ID"],"linhas":[["PROJ-001"]]}},
		{"tipo_visualizacao_sugerida":"kpi","titulo":"Orçamento","valor":"75%","descricao":"de R$ 50.000"}
	]`
	require.NoError(t, CheckDashboard(valid))
	require.NoError(t, CheckDashboard(EmptyDashboard))

	tests := map[string]string{
		"not an array":       `{"titulo":"x"}`,
		"missing title":      `[{"tipo_visualizacao_sugerida":"kpi","valor":"1"}]`,
		"kpi without value":  `[{"tipo_visualizacao_sugerida":"kpi","titulo":"t"}]`,
		"unknown chart type": `[{"tipo_visualizacao_sugerida":"radar","titulo":"t"}]`,
		"bar without labels": `[{"tipo_visualizacao_sugerida":"grafico_barras","titulo":"t","dados":{"valores":[1]}}]`,
		"not json":           `nope`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, CheckDashboard(in))
		})
	}
}

func TestLoadSchema(t *testing.T) {
	schema, err := LoadSchema("custom.json", []byte(`{"type":"array","maxItems":1}`))
	require.NoError(t, err)

	assert.NoError(t, CheckDashboardWith(schema, `[1]`))
	assert.Error(t, CheckDashboardWith(schema, `[1,2]`))

	_, err = LoadSchema("broken.json", []byte(`{`))
	assert.Error(t, err)
}
