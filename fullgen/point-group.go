package fullgen

import (
	"strings"

	"github.com/pkg/errors"
)

// PointGroup is one of the 28 point groups a fullerene can have.
type PointGroup int8

const (
	GroupUnknown PointGroup = iota
	C1
	C2
	Ci
	Cs
	C3
	D2
	S4
	C2v
	C2h
	D3
	S6
	C3v
	C3h
	D2h
	D2d
	D5
	D6
	D3h
	D3d
	T
	D5h
	D5d
	D6h
	D6d
	Td
	Th
	I
	Ih

	NumPointGroups = int(Ih)
)

var groupLabels = [...]string{
	"?",
	"C1", "C2", "Ci", "Cs", "C3", "D2", "S4", "C2v", "C2h", "D3", "S6", "C3v", "C3h", "D2h",
	"D2d", "D5", "D6", "D3h", "D3d", "T", "D5h", "D5d", "D6h", "D6d", "Td", "Th", "I", "Ih",
}

// groupOrders holds the order of each point group, indexed by PointGroup.
var groupOrders = [...]int{
	0,
	1, 2, 2, 2, 3, 4, 4, 4, 4, 6, 6, 6, 6, 8,
	8, 10, 12, 12, 12, 12, 20, 20, 24, 24, 24, 24, 60, 120,
}

func (g PointGroup) String() string {
	if g < 0 || int(g) >= len(groupLabels) {
		return "?"
	}
	return groupLabels[g]
}

// Order returns the number of elements in the group (0 if unknown).
func (g PointGroup) Order() int {
	if g < 0 || int(g) >= len(groupOrders) {
		return 0
	}
	return groupOrders[g]
}

// IsChiral returns true if the group has only proper rotations.
func (g PointGroup) IsChiral() bool {
	switch g {
	case C1, C2, C3, D2, D3, D5, D6, T, I:
		return true
	}
	return false
}

// ParseLabel converts a label such as "D5h" to its PointGroup.
//
// Matching is exact first, then case-insensitive.
func ParseLabel(label string) (PointGroup, error) {
	label = strings.TrimSpace(label)
	for i := 1; i < len(groupLabels); i++ {
		if groupLabels[i] == label {
			return PointGroup(i), nil
		}
	}
	for i := 1; i < len(groupLabels); i++ {
		if strings.EqualFold(groupLabels[i], label) {
			return PointGroup(i), nil
		}
	}
	return GroupUnknown, errors.Wrapf(ErrUnknownSymmetry, "%q", label)
}

// AllPointGroups lists every known group in label order.
func AllPointGroups() []PointGroup {
	all := make([]PointGroup, 0, NumPointGroups)
	for i := 1; i <= NumPointGroups; i++ {
		all = append(all, PointGroup(i))
	}
	return all
}
