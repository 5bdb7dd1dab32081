package ir

import "fmt"

// Verify checks the structural invariant every lowered program must
// hold: no IR block without a terminator. Every if arm, for body, and
// straight-line block ends in either a branch or a ret. A lowering bug
// that leaves a block open is an internal error, caught here before the
// module is ever printed or linked.
func Verify(m *Module) error {
	for _, fn := range m.Functions {
		if len(fn.Blocks) == 0 {
			return fmt.Errorf("function %q has no blocks", fn.Name)
		}
		for _, b := range fn.Blocks {
			if !b.Terminated() {
				return fmt.Errorf("function %q: block %q has no terminator", fn.Name, b.Label)
			}
		}
	}
	return nil
}
