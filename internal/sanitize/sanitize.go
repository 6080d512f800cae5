// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package sanitize

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// StripScripts removes every script element from markup, at any depth, and
// returns the remaining markup. Markup that cannot be parsed yields "".
func StripScripts(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}

	body := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return ""
	}

	var sb strings.Builder
	for _, n := range nodes {
		if isScript(n) {
			continue
		}
		removeScripts(n)
		if err := html.Render(&sb, n); err != nil {
			return ""
		}
	}
	return sb.String()
}

func removeScripts(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if isScript(c) {
			n.RemoveChild(c)
		} else {
			removeScripts(c)
		}
		c = next
	}
}

func isScript(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Script
}
