// Copyright Docbrief Authors
// SPDX-License-Identifier: Apache-2.0

package response

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// The communiqué skeleton relies on class="comunicado", so class survives
// on top of the UGC policy.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	return p
}()

// Sanitize strips scripts, event handlers and other active content from a
// generated HTML fragment.
func Sanitize(fragment string) string {
	return policy.Sanitize(fragment)
}

// VisibleText returns the text a reader would see in fragment, with runs of
// whitespace collapsed. Script and style content is skipped.
func VisibleText(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}

	var sb strings.Builder
	for _, n := range nodes {
		collectText(n, &sb)
	}
	return sb.String()
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript":
			return
		}
	}

	if n.Type == html.TextNode {
		for _, word := range strings.Fields(n.Data) {
			if sb.Len() > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(word)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
