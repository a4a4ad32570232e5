package types

import (
	"strings"
)

// ArchAny is the wildcard architecture.  A job with this arch can
// run on any builder; a capability with this arch aggregates every
// concrete architecture sharing its virtualization flag.
const ArchAny = ""

// A Capability is the class a job and a builder are matched on: a
// processor architecture and whether the build runs virtualized.
type Capability struct {
	Arch        string
	Virtualized bool
}

// NewCapability returns a capability and encapsulates the formatting
// logic reversed by CapabilityFromString.
func NewCapability(arch string, virt bool) Capability {
	return Capability{Arch: arch, Virtualized: virt}
}

// Concrete computes whether this capability names a real
// architecture or the any-arch aggregate.
func (c Capability) Concrete() bool {
	return c.Arch != ArchAny
}

// Aggregate returns the any-arch class that this capability rolls up
// into.
func (c Capability) Aggregate() Capability {
	return Capability{Arch: ArchAny, Virtualized: c.Virtualized}
}

// Matches reports whether a builder of capability b can run work of
// capability c.  Virtualization must agree exactly; the arch must
// agree unless c is the wildcard.
func (c Capability) Matches(b Capability) bool {
	if c.Virtualized != b.Virtualized {
		return false
	}
	return c.Arch == ArchAny || c.Arch == b.Arch
}

func (c Capability) String() string {
	arch := c.Arch
	if arch == ArchAny {
		arch = "any"
	}
	if c.Virtualized {
		return arch + ":virt"
	}
	return arch + ":metal"
}

// CapabilityFromString returns a capability from its string
// representation.
func CapabilityFromString(s string) Capability {
	p := strings.SplitN(s, ":", 2)
	c := Capability{Arch: p[0]}
	if c.Arch == "any" {
		c.Arch = ArchAny
	}
	if len(p) == 2 {
		c.Virtualized = p[1] == "virt"
	}
	return c
}
