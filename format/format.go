// generates formatted code from AST
package format

import (
	mod "github.com/jolisper/ulisp/core/module"
	T "github.com/jolisper/ulisp/core/module/lexkind"
)

// MaxColumns is the width a list may take before it is broken over
// several lines.
const MaxColumns = 75

// Format prints n back as source. Comments are not part of the tree,
// so they are lost.
func Format(n *mod.Node) string {
	ctx := _context()
	_expr(ctx, n)
	ctx.Place([]byte("\n"))
	return ctx.String()
}

func _context() *context {
	return &context{
		depth:   0,
		columns: 0,
		head:    nil,
		curr:    nil,
	}
}

type llist struct {
	s    []byte
	next *llist
}

type context struct {
	depth   int // counts list depth
	columns int // chars in the current line

	head *llist
	curr *llist
}

func (this *context) indent() {
	d := this.depth
	for d > 0 {
		this.Place([]byte("  "))
		d--
	}
}

func (this *context) Newline() {
	this.Place([]byte("\n"))
	this.columns = 0
	this.indent()
}

func (this *context) Place(s []byte) {
	new := &llist{
		s:    s,
		next: nil,
	}
	this.columns += len(s)
	if this.curr != nil {
		this.curr.next = new
	}
	this.curr = new
	if this.head == nil {
		this.head = new
	}
}

func (this *context) String() string {
	size := this.getSize()
	buff := make([]byte, size)
	index := 0
	curr := this.head
	for curr != nil {
		copy(buff[index:], curr.s)
		index += len(curr.s)
		curr = curr.next
	}
	return string(buff)
}

func (this *context) getSize() int {
	output := 0
	curr := this.head
	for curr != nil {
		output += len(curr.s)
		curr = curr.next
	}
	return output
}

func _expr(ctx *context, n *mod.Node) {
	if n.Lex != T.LIST {
		ctx.Place([]byte(n.Text))
		return
	}
	if ctx.columns+width(n) <= MaxColumns {
		_flat(ctx, n)
		return
	}
	_broken(ctx, n)
}

func _flat(ctx *context, n *mod.Node) {
	if n.Lex != T.LIST {
		ctx.Place([]byte(n.Text))
		return
	}
	ctx.Place([]byte("("))
	for i, leaf := range n.Leaves {
		if i > 0 {
			ctx.Place([]byte(" "))
		}
		_flat(ctx, leaf)
	}
	ctx.Place([]byte(")"))
}

// _broken keeps the operator and the leading atoms, and for def also
// the parameter list, on the first line. Everything else goes on its
// own line one level deeper.
func _broken(ctx *context, n *mod.Node) {
	ctx.Place([]byte("("))
	ctx.depth++
	inline := headSize(n)
	for i, leaf := range n.Leaves {
		if i < inline {
			if i > 0 {
				ctx.Place([]byte(" "))
			}
			_flat(ctx, leaf)
			continue
		}
		ctx.Newline()
		_expr(ctx, leaf)
	}
	ctx.depth--
	ctx.Place([]byte(")"))
}

func headSize(n *mod.Node) int {
	op, ok := n.Head()
	if !ok {
		return 0
	}
	if op == "def" {
		return min(3, len(n.Leaves))
	}
	size := 1
	for size < len(n.Leaves) && n.Leaves[size].Lex != T.LIST {
		size++
	}
	return size
}

// width is the size of n printed on a single line.
func width(n *mod.Node) int {
	if n.Lex != T.LIST {
		return len(n.Text)
	}
	w := 2
	for i, leaf := range n.Leaves {
		if i > 0 {
			w++
		}
		w += width(leaf)
	}
	return w
}
