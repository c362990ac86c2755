package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// readHTMLTables parses every top-level <table> of an HTML export. Each table
// is returned as rows of cell text; a cell spanning several columns is
// repeated in each of them.
func readHTMLTables(path string) ([][][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML export %s: %w", filepath.Base(path), err)
	}

	var tables [][][]string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			tables = append(tables, parseTable(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(tables) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoTable)
	}
	return tables, nil
}

func parseTable(tableNode *html.Node) [][]string {
	var rows [][]string
	for c := tableNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "thead", "tbody", "tfoot":
			for tr := c.FirstChild; tr != nil; tr = tr.NextSibling {
				if tr.Type == html.ElementNode && tr.Data == "tr" {
					rows = append(rows, parseRow(tr))
				}
			}
		case "tr":
			rows = append(rows, parseRow(c))
		}
	}
	return rows
}

func parseRow(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		text := cellText(c)
		span := 1
		for _, attr := range c.Attr {
			if attr.Key == "colspan" {
				if n, err := strconv.Atoi(strings.TrimSpace(attr.Val)); err == nil && n > 1 {
					span = n
				}
			}
		}
		for i := 0; i < span; i++ {
			cells = append(cells, text)
		}
	}
	return cells
}

func cellText(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.TrimSpace(sb.String())
}
