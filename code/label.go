package code

import "fmt"

// Label is an opaque handle identifying a future instruction address within
// one code object. Labels are minted by a Builder's label allocator and are
// valid only within the Builder (and resulting Linked code) that minted
// them; passing a Label from one Builder's instruction stream into another
// is a programming error the linker does not attempt to detect.
type Label struct {
	id      int
	comment string
}

// String renders the label's allocator-assigned name, `L<id>` or
// `L<id>_<comment>` when a comment was supplied to NewLabel.
func (l *Label) String() string {
	if l.comment == "" {
		return fmt.Sprintf("L%d", l.id)
	}
	return fmt.Sprintf("L%d_%s", l.id, l.comment)
}
