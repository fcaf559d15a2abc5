package molsys

import (
	"fmt"

	"github.com/andrew-torda/molsys/pdb/cmmn"
	"github.com/andrew-torda/molsys/pdb/record"
)

// Builder gets lines with a target from the reader and puts atoms into
// systems. All systems are made at the start, since the selector says
// how many there can be. Their addresses never change.
type Builder struct {
	systems  []*System
	curModel int
}

// NewBuilder makes maxSystems empty systems, numbered from 1.
func NewBuilder(maxSystems int) *Builder {
	b := &Builder{systems: make([]*System, maxSystems), curModel: 1}
	for i := range b.systems {
		b.systems[i] = NewSystem(i + 1)
	}
	return b
}

// CurrentModel is the number from the last MODEL line, or 1.
func (b *Builder) CurrentModel() int { return b.curModel }

// InterpretLine handles a line the selector kept. A remark only
// matters if it is a MODEL line. Anything else goes to system target.
func (b *Builder) InterpretLine(l *record.Line, target int) error {
	if target == cmmn.Remark {
		if l.Kind == record.Model {
			n, err := l.ModelNumber()
			if err != nil {
				return err
			}
			b.curModel = n
		}
		return nil
	}
	if target < 1 || target > len(b.systems) {
		return fmt.Errorf("%w: %d, only %d systems", ErrSystemIndex, target, len(b.systems))
	}
	return b.systems[target-1].InterpretLine(l, b.curModel)
}

// CreateSystems stamps the alternate location on every system.
func (b *Builder) CreateSystems(altLoc byte) {
	for _, s := range b.systems {
		s.SetAltLoc(altLoc)
	}
}

// Systems returns all systems, including empty ones.
func (b *Builder) Systems() []*System { return b.systems }

// NonEmpty drops systems which never got an atom.
func (b *Builder) NonEmpty() []*System {
	var ret []*System
	for _, s := range b.systems {
		if !s.HasNoModel() {
			ret = append(ret, s)
		}
	}
	return ret
}
