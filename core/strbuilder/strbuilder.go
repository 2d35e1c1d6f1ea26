package strbuilder

// Builder is an append-only text buffer. Pieces are kept in a linked
// list and only copied once, when String is called.
type Builder struct {
	head *llist
	curr *llist
	size int
}

type llist struct {
	s    []byte
	next *llist
}

func (this *Builder) Place(s string) {
	new := &llist{
		s:    []byte(s),
		next: nil,
	}
	if this.curr != nil {
		this.curr.next = new
	}
	this.curr = new
	if this.head == nil {
		this.head = new
	}
	this.size += len(s)
}

// Emit places a single line indented by depth tabs.
func (this *Builder) Emit(depth int, code string) {
	for i := 0; i < depth; i++ {
		this.Place("\t")
	}
	this.Place(code)
	this.Place("\n")
}

func (this *Builder) Len() int {
	return this.size
}

func (this *Builder) String() string {
	buff := make([]byte, this.size)
	index := 0
	curr := this.head
	for curr != nil {
		copy(buff[index:], curr.s)
		index += len(curr.s)
		curr = curr.next
	}
	return string(buff)
}
