// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package vertexai

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text("### BLOC-HTML ###"),
				genai.Blob{MIMEType: "image/png"},
				genai.Text("<p>x</p>"),
			}},
		}},
	}
	assert.Equal(t, "### BLOC-HTML ###<p>x</p>", responseText(resp))
	assert.Equal(t, "", responseText(nil))
	assert.Equal(t, "", responseText(&genai.GenerateContentResponse{}))
}

func TestNew_RequiresProjectAndRegion(t *testing.T) {
	_, err := New(context.Background(), "", "us-central1", "gemini-2.5-flash")
	assert.Error(t, err)
}

func TestGenerate_Live(t *testing.T) {
	project := os.Getenv("VERTEXAI_TEST_PROJECT")
	if project == "" {
		t.Skip("VERTEXAI_TEST_PROJECT not set")
	}

	ctx := context.Background()
	c, err := New(ctx, project, "us-central1", "gemini-2.5-flash")
	require.NoError(t, err)
	defer c.Close()

	out, err := c.Generate(ctx, "Responda apenas com a palavra: ok")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
