//go:build !fullgen_debug

package symmetry

const assertions = false
