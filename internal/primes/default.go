package primes

import (
	_ "embed"
	"strings"
	"sync"
)

// DefaultLimit is the dataset limit used when none is configured. The
// embedded table holds twice as many primes.
const DefaultLimit = 25000

//go:embed data/primes.txt
var defaultDataset string

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the embedded table of the first 50000 primes. It is parsed
// once and shared.
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Load(strings.NewReader(defaultDataset))
	})
	return defaultTable, defaultErr
}
