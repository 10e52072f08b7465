// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"html"
	"strconv"
	"strings"
)

// openList is one level of the list nesting stack.
type openList struct {
	tag      string // "ul" or "ol"
	itemOpen bool
}

// converter writes HTML for a sequence of body-level elements.
type converter struct {
	out   strings.Builder
	links map[string]string
	lists map[listKey]bool
	open  []openList
}

func (c *converter) blocks(nodes []node) {
	for i := range nodes {
		n := &nodes[i]
		switch n.XMLName.Local {
		case "p":
			c.paragraph(n)
		case "tbl":
			c.closeLists(0)
			c.table(n)
		case "sdt":
			if content := n.child("sdtContent"); content != nil {
				c.blocks(content.Nodes)
			}
		case "customXml":
			c.blocks(n.Nodes)
		}
	}
}

func (c *converter) paragraph(p *node) {
	content := c.inline(p.Nodes)
	if strings.TrimSpace(strings.ReplaceAll(content, "<br />", "")) == "" {
		return
	}

	props := p.child("pPr")
	if num := props.child("numPr"); num != nil {
		numID := attrOf(num.child("numId"), "val")
		if numID != "" && numID != "0" {
			level, _ := strconv.Atoi(attrOf(num.child("ilvl"), "val"))
			c.listItem(numID, level, content)
			return
		}
	}

	c.closeLists(0)
	tag := headingTag(attrOf(props.child("pStyle"), "val"))
	c.out.WriteString("<" + tag + ">" + content + "</" + tag + ">")
}

// headingTag maps a paragraph style ID to an HTML block tag.
func headingTag(style string) string {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if s == "title" {
		return "h1"
	}
	if len(s) == len("heading1") && strings.HasPrefix(s, "heading") {
		if d := s[len(s)-1]; d >= '1' && d <= '6' {
			return "h" + string(d)
		}
	}
	return "p"
}

func (c *converter) listItem(numID string, level int, content string) {
	if level < 0 {
		level = 0
	}
	c.closeLists(level + 1)
	for len(c.open) < level+1 {
		if n := len(c.open); n > 0 && !c.open[n-1].itemOpen {
			c.out.WriteString("<li>")
			c.open[n-1].itemOpen = true
		}
		tag := "ul"
		if c.lists[listKey{numID: numID, level: len(c.open)}] {
			tag = "ol"
		}
		c.out.WriteString("<" + tag + ">")
		c.open = append(c.open, openList{tag: tag})
	}

	top := &c.open[level]
	if top.itemOpen {
		c.out.WriteString("</li>")
	}
	c.out.WriteString("<li>" + content)
	top.itemOpen = true
}

// closeLists closes open lists until at most depth remain.
func (c *converter) closeLists(depth int) {
	for len(c.open) > depth {
		top := c.open[len(c.open)-1]
		c.open = c.open[:len(c.open)-1]
		if top.itemOpen {
			c.out.WriteString("</li>")
		}
		c.out.WriteString("</" + top.tag + ">")
	}
}

func (c *converter) table(tbl *node) {
	c.out.WriteString("<table>")
	for i := range tbl.Nodes {
		tr := &tbl.Nodes[i]
		if tr.XMLName.Local != "tr" {
			continue
		}
		cellTag := "td"
		if toggleOn(tr.child("trPr").child("tblHeader")) {
			cellTag = "th"
		}
		c.out.WriteString("<tr>")
		for j := range tr.Nodes {
			tc := &tr.Nodes[j]
			if tc.XMLName.Local != "tc" {
				continue
			}
			open := "<" + cellTag
			if span, _ := strconv.Atoi(attrOf(tc.child("tcPr").child("gridSpan"), "val")); span > 1 {
				open += ` colspan="` + strconv.Itoa(span) + `"`
			}
			cell := &converter{links: c.links, lists: c.lists}
			cell.blocks(tc.Nodes)
			cell.closeLists(0)
			c.out.WriteString(open + ">" + cell.out.String() + "</" + cellTag + ">")
		}
		c.out.WriteString("</tr>")
	}
	c.out.WriteString("</table>")
}

// inline renders paragraph-level content: runs, hyperlinks and wrappers.
func (c *converter) inline(nodes []node) string {
	var b strings.Builder
	for i := range nodes {
		n := &nodes[i]
		switch n.XMLName.Local {
		case "r":
			b.WriteString(run(n))
		case "hyperlink":
			inner := c.inline(n.Nodes)
			href := ""
			if id, ok := n.attr("id"); ok {
				href = c.links[id]
			} else if anchor, ok := n.attr("anchor"); ok {
				href = "#" + anchor
			}
			if href == "" || inner == "" {
				b.WriteString(inner)
				continue
			}
			b.WriteString(`<a href="` + html.EscapeString(href) + `">` + inner + "</a>")
		case "sdt":
			if content := n.child("sdtContent"); content != nil {
				b.WriteString(c.inline(content.Nodes))
			}
		case "ins", "smartTag", "fldSimple", "customXml":
			b.WriteString(c.inline(n.Nodes))
		}
	}
	return b.String()
}

// run renders a single text run with bold and italic preserved.
func run(r *node) string {
	var b strings.Builder
	for i := range r.Nodes {
		n := &r.Nodes[i]
		switch n.XMLName.Local {
		case "t":
			b.WriteString(html.EscapeString(n.Text))
		case "tab":
			b.WriteString("\t")
		case "br", "cr":
			b.WriteString("<br />")
		case "noBreakHyphen":
			b.WriteString("-")
		}
	}
	text := b.String()
	if text == "" {
		return ""
	}

	props := r.child("rPr")
	if toggleOn(props.child("i")) {
		text = "<em>" + text + "</em>"
	}
	if toggleOn(props.child("b")) {
		text = "<strong>" + text + "</strong>"
	}
	return text
}
