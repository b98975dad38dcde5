package recorder

import "templog/internal/application/port"

// Publishers fans a broadcast out to several live channels.
type Publishers []port.Publisher

func (ps Publishers) Broadcast(text string) {
	for _, p := range ps {
		if p != nil {
			p.Broadcast(text)
		}
	}
}

var _ port.Publisher = (Publishers)(nil)
