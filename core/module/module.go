package module

import (
	"fmt"
	"strconv"

	. "github.com/jolisper/ulisp/core"
	lex "github.com/jolisper/ulisp/core/module/lexkind"
)

// Node is a single expression of the source tree.
//
//	LIST      -> Leaves holds the elements
//	SYMBOL    -> Text is the name
//	INT_LIT   -> Value holds the literal, Text the spelling
//	FLOAT_LIT -> Text only
//	BOOL_LIT  -> Text only
type Node struct {
	Text   string
	Lex    lex.LexKind
	Leaves []*Node

	Value int32 // for int literals

	Range *Range
}

func (n *Node) String() string {
	return ast(n, 0)
}

func (this *Node) AddLeaf(other *Node) {
	if this.Leaves == nil {
		this.Leaves = []*Node{other}
	} else {
		this.Leaves = append(this.Leaves, other)
	}
}

func (this *Node) SetLeaves(leaves []*Node) {
	this.Leaves = leaves
}

// Head returns the operator name of a list whose first element is a
// symbol, ok is false otherwise.
func (this *Node) Head() (name string, ok bool) {
	if this.Lex != lex.LIST || len(this.Leaves) == 0 {
		return "", false
	}
	first := this.Leaves[0]
	if first.Lex != lex.SYMBOL {
		return "", false
	}
	return first.Text, true
}

// Args returns the elements after the operator.
func (this *Node) Args() []*Node {
	if len(this.Leaves) == 0 {
		return nil
	}
	return this.Leaves[1:]
}

func ast(n *Node, i int) string {
	rng := "nil"
	if n.Range != nil {
		rng = n.Range.String()
	}
	text := n.Text
	if n.Lex == lex.INT_LIT {
		text = strconv.FormatInt(int64(n.Value), 10)
	}
	output := fmt.Sprintf("{%s, '%s', %s}",
		lex.FmtLexKind(n.Lex),
		text,
		rng,
	)
	for _, kid := range n.Leaves {
		if kid == nil {
			output += indent(i) + "nil"
			continue
		}
		output += indent(i) + ast(kid, i+1)
	}
	return output
}

func indent(n int) string {
	output := "\n"
	for i := -1; i < n-1; i++ {
		output += "    "
	}
	output += "└─>"
	return output
}

// constructors used by the reader and by tests

func List(leaves ...*Node) *Node {
	return &Node{Lex: lex.LIST, Leaves: leaves}
}

func Symbol(name string) *Node {
	return &Node{Lex: lex.SYMBOL, Text: name}
}

func Integer(value int32) *Node {
	return &Node{
		Lex:   lex.INT_LIT,
		Text:  strconv.FormatInt(int64(value), 10),
		Value: value,
	}
}

func Float(text string) *Node {
	return &Node{Lex: lex.FLOAT_LIT, Text: text}
}

func Boolean(value bool) *Node {
	return &Node{Lex: lex.BOOL_LIT, Text: strconv.FormatBool(value)}
}
