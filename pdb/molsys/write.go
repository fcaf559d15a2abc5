package molsys

import (
	"bufio"
	"fmt"
	"io"

	"github.com/andrew-torda/molsys/pdb/record"
)

// WritePDB writes a system back out. MODEL and ENDMDL are only written
// if there is more than one model. Each chain ends with TER.
func WritePDB(w io.Writer, s *System) error {
	bw := bufio.NewWriter(w)
	multi := s.NModels() > 1
	for m := range s.Models() {
		if multi {
			fmt.Fprintf(bw, "MODEL     %4d\n", m.Number())
		}
		for c := range m.Chains() {
			var last *Atom
			for a := range c.Atoms() {
				bw.WriteString(record.Format(a))
				bw.WriteByte('\n')
				last = a
			}
			if last != nil {
				fmt.Fprintf(bw, "TER   %5d      %3s %c%4d%c\n", last.Serial()+1,
					last.ResidueName(), last.ChainID(), last.ResSeq(), last.InsCode())
			}
		}
		if multi {
			bw.WriteString("ENDMDL\n")
		}
	}
	bw.WriteString("END\n")
	return bw.Flush()
}
