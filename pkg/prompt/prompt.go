// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

// Package prompt assembles the instruction text sent to the generation
// service. Output is a pure function of its inputs.
package prompt

import (
	"fmt"
	"strings"
	"time"
)

// Block markers the model must wrap its two answers in.
const (
	HTMLOpen  = "### BLOC-HTML ###"
	HTMLClose = "### FIM-BLOCO-HTML ###"
	JSONOpen  = "### BLOC-DASHBOARD-JSON ###"
	JSONClose = "### FIM-BLOCO-DASHBOARD-JSON ###"
)

// MissingInfo is the phrase the model must use for fields the documents do
// not cover.
const MissingInfo = "Informação não encontrada nos documentos."

// Source is one extracted document in a multi-document prompt.
type Source struct {
	Name string
	Text string
}

var months = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// FormatDate renders t as "19 de outubro de 2026".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%02d de %s de %d", t.Day(), months[t.Month()-1], t.Year())
}

// FocusSentence returns the instruction sentence for the optional focus.
func FocusSentence(focus string) string {
	focus = strings.TrimSpace(focus)
	if focus == "" {
		return "Não foi indicado um foco específico: faça uma análise geral e equilibrada do conteúdo."
	}
	return fmt.Sprintf("O utilizador pediu que a análise dê especial atenção ao seguinte foco: %q.", focus)
}

// Single builds the prompt for one report.
func Single(text, focus string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Você é um avançado assistente de análise de dados e comunicação para a empresa MC Sonae. A data de hoje é %s.\n", FormatDate(now))
	b.WriteString("Sua tarefa é analisar o texto de um relatório de projeto e gerar dois blocos de informação distintos: um comunicado em HTML e os dados estruturados para um dashboard em formato JSON.\n")
	b.WriteString(FocusSentence(focus))
	b.WriteString("\n\nO texto bruto do relatório é:\n---\n")
	b.WriteString(text)
	b.WriteString("\n---\n\n")
	writeContract(&b)
	return b.String()
}

// Multi builds the prompt for several documents analysed together. Each
// source is fenced by start and end lines carrying its name.
func Multi(sources []Source, focus string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Você é um avançado assistente de análise de dados e comunicação para a empresa MC Sonae. A data de hoje é %s.\n", FormatDate(now))
	fmt.Fprintf(&b, "Sua tarefa é analisar em conjunto os %d documentos de projeto abaixo e gerar dois blocos de informação distintos: um comunicado consolidado em HTML e os dados estruturados para um dashboard em formato JSON.\n", len(sources))
	b.WriteString(FocusSentence(focus))
	b.WriteString("\n\nRegras obrigatórias:\n")
	b.WriteString("- Use APENAS a informação contida nos documentos fornecidos. Não invente dados nem recorra a conhecimento externo.\n")
	fmt.Fprintf(&b, "- Quando um campo exigido não puder ser preenchido a partir dos documentos, escreva exatamente: %q\n", MissingInfo)
	b.WriteString("- Sempre que relevante, indique de que documento provém cada informação.\n\n")
	b.WriteString("Os documentos são:\n\n")
	for _, s := range sources {
		fmt.Fprintf(&b, "=== INÍCIO DO DOCUMENTO: %s ===\n", s.Name)
		b.WriteString(s.Text)
		fmt.Fprintf(&b, "\n=== FIM DO DOCUMENTO: %s ===\n\n", s.Name)
	}
	writeContract(&b)
	return b.String()
}

func writeContract(b *strings.Builder) {
	b.WriteString("Por favor, estruture sua resposta EXATAMENTE da seguinte forma, usando os delimitadores ### para separar os blocos, sem adicionar textos ou explicações fora deles.\n\n")
	b.WriteString(HTMLOpen)
	b.WriteString("\n")
	b.WriteString(htmlSkeleton)
	b.WriteString(HTMLClose)
	b.WriteString("\n\n")
	b.WriteString(JSONOpen)
	b.WriteString("\n")
	b.WriteString(jsonSkeleton)
	b.WriteString(JSONClose)
	b.WriteString("\n")
}

const htmlSkeleton = `<div class="comunicado">
    <h2>[Aqui vai o Título do Projeto ou Relatório]</h2>
    <p><strong>Resumo Executivo:</strong> [Aqui vai um parágrafo curto com os pontos mais importantes e o status atual do projeto].</p>
    <h3>Marcos Atingidos</h3>
    <ul>
        <li>[Descreva o Marco 1 que foi atingido]</li>
        <li>[Descreva o Marco 2 que foi atingido]</li>
    </ul>
    <h3>Tabela de Dados Relevantes</h3>
    [Se dados tabulares importantes forem encontrados, crie uma tabela HTML simples (<table><tr><th>...</th></tr><tr><td>...</td></tr></table>) aqui. Se não, escreva "<p>Não foram encontrados dados tabulares para exibição.</p>"]
    <h3>Próximos Passos</h3>
    <ul>
        <li>[Descreva o próximo passo 1]</li>
        <li>[Descreva o próximo passo 2]</li>
    </ul>
</div>
`

const jsonSkeleton = `[
  {
    "tipo_visualizacao_sugerida": "grafico_barras",
    "titulo": "[Título descritivo para o gráfico, ex: 'Progresso das Tarefas por Área']",
    "dados": {
      "labels": ["[Categoria 1, ex: 'Desenvolvimento']", "[Categoria 2, ex: 'Testes']"],
      "valores": ["[Valor 1, ex: 80]", "[Valor 2, ex: 60]"]
    }
  },
  {
    "tipo_visualizacao_sugerida": "tabela",
    "titulo": "[Título descritivo para a tabela, ex: 'Status Detalhado das Entregas']",
    "dados": {
      "colunas": ["ID da Tarefa", "Status", "Responsável"],
      "linhas": [
        ["PROJ-001", "Concluído", "Ana"],
        ["PROJ-002", "Em Andamento", "Bruno"]
      ]
    }
  },
  {
    "tipo_visualizacao_sugerida": "kpi",
    "titulo": "[Título para o KPI, ex: 'Orçamento Executado']",
    "valor": "[Valor principal, ex: '75%']",
    "descricao": "[Breve descrição de contexto, ex: 'de um total de R$ 50.000']"
  }
]
`
