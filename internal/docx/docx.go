// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docx extracts the body of a WordprocessingML document as an HTML
// fragment. Structure (paragraphs, headings, lists, tables, links, bold and
// italic runs) is preserved; source styling is discarded.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	partDocument  = "word/document.xml"
	partNumbering = "word/numbering.xml"
	partRels      = "word/_rels/document.xml.rels"

	relTypeHyperlink = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
)

// ErrNoDocumentBody is returned when the archive has no word/document.xml.
var ErrNoDocumentBody = errors.New("docx: archive has no word/document.xml")

// node is a generic, order-preserving view of an XML element.
type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
	Nodes   []node     `xml:",any"`
}

// attr returns the value of the attribute with the given local name.
func (n *node) attr(local string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// child returns the first direct child with the given local name.
func (n *node) child(local string) *node {
	if n == nil {
		return nil
	}
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == local {
			return &n.Nodes[i]
		}
	}
	return nil
}

// Extract reads the DOCX at path and returns its body as an HTML fragment.
func Extract(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("opening document %s: %w", path, err)
	}
	defer zr.Close()

	return extract(&zr.Reader)
}

// ExtractReader is Extract for an in-memory archive.
func ExtractReader(r io.ReaderAt, size int64) (string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("reading document archive: %w", err)
	}
	return extract(zr)
}

func extract(zr *zip.Reader) (string, error) {
	var doc node
	found, err := readPart(zr, partDocument, &doc)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrNoDocumentBody
	}
	body := doc.child("body")
	if body == nil {
		return "", ErrNoDocumentBody
	}

	links, err := readHyperlinks(zr)
	if err != nil {
		return "", err
	}
	formats, err := readListFormats(zr)
	if err != nil {
		return "", err
	}

	c := &converter{links: links, lists: formats}
	c.blocks(body.Nodes)
	c.closeLists(0)
	return c.out.String(), nil
}

// readPart unmarshals the named part into v. It reports false when the part
// is absent.
func readPart(zr *zip.Reader, name string, v any) (bool, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return true, fmt.Errorf("opening %s: %w", name, err)
		}
		defer rc.Close()
		if err := xml.NewDecoder(rc).Decode(v); err != nil {
			return true, fmt.Errorf("parsing %s: %w", name, err)
		}
		return true, nil
	}
	return false, nil
}

type relationships struct {
	Items []struct {
		ID         string `xml:"Id,attr"`
		Type       string `xml:"Type,attr"`
		Target     string `xml:"Target,attr"`
		TargetMode string `xml:"TargetMode,attr"`
	} `xml:"Relationship"`
}

// readHyperlinks maps relationship IDs to external hyperlink targets.
func readHyperlinks(zr *zip.Reader) (map[string]string, error) {
	var rels relationships
	if _, err := readPart(zr, partRels, &rels); err != nil {
		return nil, err
	}
	links := make(map[string]string)
	for _, r := range rels.Items {
		if r.Type == relTypeHyperlink {
			links[r.ID] = r.Target
		}
	}
	return links, nil
}

// listKey identifies one level of one numbering definition.
type listKey struct {
	numID string
	level int
}

// readListFormats resolves numbering instances to ordered or bullet lists.
// A level is ordered unless its number format is "bullet" or "none".
func readListFormats(zr *zip.Reader) (map[listKey]bool, error) {
	var numbering node
	found, err := readPart(zr, partNumbering, &numbering)
	if err != nil || !found {
		return map[listKey]bool{}, err
	}

	abstract := make(map[string]map[int]bool)
	for i := range numbering.Nodes {
		n := &numbering.Nodes[i]
		if n.XMLName.Local != "abstractNum" {
			continue
		}
		id, _ := n.attr("abstractNumId")
		levels := make(map[int]bool)
		for j := range n.Nodes {
			lvl := &n.Nodes[j]
			if lvl.XMLName.Local != "lvl" {
				continue
			}
			ilvl, _ := strconv.Atoi(attrOf(lvl, "ilvl"))
			format := ""
			if f := lvl.child("numFmt"); f != nil {
				format, _ = f.attr("val")
			}
			levels[ilvl] = format != "bullet" && format != "none"
		}
		abstract[id] = levels
	}

	formats := make(map[listKey]bool)
	for i := range numbering.Nodes {
		n := &numbering.Nodes[i]
		if n.XMLName.Local != "num" {
			continue
		}
		numID, _ := n.attr("numId")
		ref := n.child("abstractNumId")
		if ref == nil {
			continue
		}
		absID, _ := ref.attr("val")
		for lvl, ordered := range abstract[absID] {
			formats[listKey{numID: numID, level: lvl}] = ordered
		}
	}
	return formats, nil
}

func attrOf(n *node, local string) string {
	v, _ := n.attr(local)
	return v
}

// toggleOn reports whether a toggle property such as w:b is set. A toggle
// element without w:val is on.
func toggleOn(n *node) bool {
	if n == nil {
		return false
	}
	v, ok := n.attr("val")
	if !ok {
		return true
	}
	switch strings.ToLower(v) {
	case "0", "false", "off", "none":
		return false
	}
	return true
}
