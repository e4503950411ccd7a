package facturae

import (
	"strings"

	"github.com/beevik/etree"
)

// The three schema variants nest some blocks at different depths, so every
// lookup here is by local tag name over descendants, never by a fixed
// parent/child path. Namespace prefixes are ignored: etree keeps the local
// name in Tag.

// findFirst returns the first descendant of el with the given local name,
// in document order, or nil.
func findFirst(el *etree.Element, tag string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return child
		}
		if found := findFirst(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// findFirstAny returns the first descendant matching any of the given local
// names, in document order.
func findFirstAny(el *etree.Element, tags ...string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, child := range el.ChildElements() {
		for _, tag := range tags {
			if child.Tag == tag {
				return child
			}
		}
		if found := findFirstAny(child, tags...); found != nil {
			return found
		}
	}
	return nil
}

// findAll collects every descendant of el with the given local name, in
// document order.
func findAll(el *etree.Element, tag string) []*etree.Element {
	if el == nil {
		return nil
	}
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			out = append(out, child)
		}
		out = append(out, findAll(child, tag)...)
	}
	return out
}

// directChild returns the first direct child with the given local name.
// Used for the invoice-level TaxesOutputs scope, which must not be confused
// with the TaxesOutputs blocks nested inside individual lines.
func directChild(el *etree.Element, tag string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}

// text returns the trimmed text of the first descendant with the given
// local name, or "" when absent.
func text(el *etree.Element, tag string) string {
	found := findFirst(el, tag)
	if found == nil {
		return ""
	}
	return strings.TrimSpace(found.Text())
}

// textPtr is like text but keeps absent distinguishable from empty
func textPtr(el *etree.Element, tag string) *string {
	found := findFirst(el, tag)
	if found == nil {
		return nil
	}
	s := strings.TrimSpace(found.Text())
	return &s
}
