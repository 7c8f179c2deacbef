// Package firstrade reads tagged financial-transaction documents: a
// hierarchy of <TAG>value leaves and <TAG>...</TAG> record groups, preceded
// by a plain-text header block.
//
// Record extraction is strict: every modeled record must consume all of the
// fields the document declares for it, and an unconsumed (unknown) field
// fails the parse. Format drift is caught early rather than silently
// ignored.
package firstrade

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/brokerage"
)

// node is one element of the document tree: either a leaf carrying a value,
// or a record group carrying children.
type node struct {
	name     string
	value    string
	children []*node
}

func (n *node) isLeaf() bool { return len(n.children) == 0 && n.value != "" }

// parseDocument reads the whole document into its tree. The plain-text
// header block before the first tag is skipped.
func parseDocument(r io.Reader) (*node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if at := bytes.IndexByte(data, '<'); at >= 0 {
		data = data[at:]
	} else {
		return nil, fmt.Errorf("the document contains no tags")
	}

	root := &node{}
	stack := []*node{root}

	i := 0
	for i < len(data) {
		if data[i] != '<' {
			// Stray text between records.
			if strings.TrimSpace(string(data[i:i+1])) != "" {
				return nil, fmt.Errorf("unexpected text outside of a tag at offset %d", i)
			}
			i++
			continue
		}

		end := bytes.IndexByte(data[i:], '>')
		if end < 0 {
			return nil, fmt.Errorf("unterminated tag at offset %d", i)
		}
		tag := string(data[i+1 : i+end])
		i += end + 1

		if name, closing := strings.CutPrefix(tag, "/"); closing {
			top := stack[len(stack)-1]
			if top.name != name {
				// A leaf may carry an explicit closing tag: tolerate it when
				// it names the last parsed leaf.
				if last := lastChild(top); last != nil && last.isLeaf() && last.name == name {
					continue
				}
				return nil, fmt.Errorf("unexpected closing tag </%s> in <%s>", name, top.name)
			}
			stack = stack[:len(stack)-1]
			continue
		}

		// Text up to the next tag decides between a leaf and a group.
		next := bytes.IndexByte(data[i:], '<')
		if next < 0 {
			next = len(data) - i
		}
		value := strings.TrimSpace(string(data[i : i+next]))
		i += next

		top := stack[len(stack)-1]
		child := &node{name: tag, value: value}
		top.children = append(top.children, child)
		if value == "" {
			stack = append(stack, child)
		}
	}

	if len(stack) != 1 {
		return nil, fmt.Errorf("unclosed tag <%s>", stack[len(stack)-1].name)
	}
	if len(root.children) != 1 {
		return nil, fmt.Errorf("want exactly one top-level record, got %d", len(root.children))
	}
	return root.children[0], nil
}

func lastChild(n *node) *node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// rec extracts typed fields from one record group. Every accessor consumes
// the fields it reads; Err reports the first extraction failure, or any
// field the record declared that the caller did not consume.
//
// Errors latch: after the first failure the accessors return zero values,
// and only Err needs checking.
type rec struct {
	n     *node
	taken []bool
	err   error
}

func newRec(n *node) *rec {
	return &rec{n: n, taken: make([]bool, len(n.children))}
}

func (r *rec) fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("<%s>: %w", r.n.name, fmt.Errorf(format, args...))
	}
}

// take consumes and returns the first unconsumed child with this name, or
// nil if there is none.
func (r *rec) take(name string) *node {
	for i, child := range r.n.children {
		if !r.taken[i] && child.name == name {
			r.taken[i] = true
			return child
		}
	}
	return nil
}

// String returns the mandatory leaf value of the named field.
func (r *rec) String(name string) string {
	if r.err != nil {
		return ""
	}
	child := r.take(name)
	if child == nil {
		r.fail("missing required field <%s>", name)
		return ""
	}
	if !child.isLeaf() {
		r.fail("field <%s> is not a value", name)
		return ""
	}
	return child.value
}

// Date parses the mandatory leaf value as a compact numeric date.
func (r *rec) Date(name string) brokerage.Date {
	value := r.String(name)
	if r.err != nil {
		return brokerage.Date{}
	}
	date, err := brokerage.ParseCompact(value)
	if err != nil {
		r.fail("field <%s>: %v", name, err)
		return brokerage.Date{}
	}
	return date
}

// Amount parses the mandatory leaf value as a plain-text decimal amount.
func (r *rec) Amount(name, currency string) brokerage.Money {
	value := r.String(name)
	if r.err != nil {
		return brokerage.Money{}
	}
	amount, err := brokerage.ParseMoney(value, currency)
	if err != nil {
		r.fail("field <%s>: %v", name, err)
		return brokerage.Money{}
	}
	return amount
}

// Quantity parses the mandatory leaf value as a share count.
func (r *rec) Quantity(name string) brokerage.Quantity {
	value := r.String(name)
	if r.err != nil {
		return brokerage.Quantity{}
	}
	quantity, err := brokerage.ParseQuantity(value)
	if err != nil {
		r.fail("field <%s>: %v", name, err)
		return brokerage.Quantity{}
	}
	return quantity
}

// Group returns the mandatory named sub-record.
func (r *rec) Group(name string) *node {
	if r.err != nil {
		return &node{name: name}
	}
	child := r.take(name)
	if child == nil {
		r.fail("missing required record <%s>", name)
		return &node{name: name}
	}
	return child
}

// Each consumes and returns all records with this name, in document order.
func (r *rec) Each(name string) []*node {
	var nodes []*node
	for {
		child := r.take(name)
		if child == nil {
			return nodes
		}
		nodes = append(nodes, child)
	}
}

// Skip consumes an optional field without using it.
func (r *rec) Skip(name string) {
	for r.take(name) != nil {
	}
}

// Err reports the first extraction failure, or rejects the record when it
// declares fields this parser does not know about.
func (r *rec) Err() error {
	if r.err != nil {
		return r.err
	}
	var unknown []string
	for i, child := range r.n.children {
		if !r.taken[i] {
			unknown = append(unknown, child.name)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("<%s>: unknown fields: %s", r.n.name, strings.Join(unknown, ", "))
	}
	return nil
}
