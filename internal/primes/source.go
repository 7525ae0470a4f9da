// Package primes supplies primes by position from an ordered, pre-generated
// prime table.
package primes

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

var (
	// ErrPrimeNotFound is returned when an index is outside the table or the
	// backing dataset cannot be read.
	ErrPrimeNotFound = errors.New("prime not found")

	// ErrMalformedDataset is returned when the dataset holds a token that is
	// not an unsigned integer. It is always reported together with
	// ErrPrimeNotFound.
	ErrMalformedDataset = errors.New("malformed prime dataset")
)

// Source returns the prime at a zero-based position of an ordered list.
type Source interface {
	PrimeAt(index int) (uint64, error)
}

// FileSource reads primes from a whitespace-separated file, scanning it from
// the start on every lookup.
type FileSource struct {
	Path string
}

// NewFileSource returns a Source backed by the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) PrimeAt(index int) (uint64, error) {
	if index < 0 {
		return 0, errors.Wrapf(ErrPrimeNotFound, "negative index %d", index)
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return 0, errors.Wrapf(ErrPrimeNotFound, "open %s: %v", f.Path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Split(bufio.ScanWords)

	i := 0
	for scanner.Scan() {
		if i == index {
			return parsePrime(scanner.Text(), i)
		}
		i++
	}
	if err := scanner.Err(); err != nil {
		return 0, errors.Wrapf(ErrPrimeNotFound, "read %s: %v", f.Path, err)
	}

	return 0, errors.Wrapf(ErrPrimeNotFound, "index %d beyond %d entries in %s", index, i, f.Path)
}

// Table is an ordered in-memory prime list. It is safe for concurrent use
// once loaded.
type Table struct {
	primes []uint64
}

// NewTable returns a Table over an existing ordered list.
func NewTable(primes []uint64) *Table {
	return &Table{primes: primes}
}

// Load reads every whitespace-separated prime from r into a Table.
func Load(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	var primes []uint64
	for scanner.Scan() {
		p, err := parsePrime(scanner.Text(), len(primes))
		if err != nil {
			return nil, err
		}
		primes = append(primes, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(ErrPrimeNotFound, "read dataset: %v", err)
	}

	return &Table{primes: primes}, nil
}

// LoadFile loads a Table from the file at path.
func LoadFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrPrimeNotFound, "open %s: %v", path, err)
	}
	defer file.Close()

	table, err := Load(file)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return table, nil
}

func (t *Table) PrimeAt(index int) (uint64, error) {
	if index < 0 || index >= len(t.primes) {
		return 0, errors.Wrapf(ErrPrimeNotFound, "index %d outside table of %d primes", index, len(t.primes))
	}
	return t.primes[index], nil
}

// Len returns the number of primes in the table.
func (t *Table) Len() int {
	return len(t.primes)
}

// CheckCapacity verifies that src can serve every index a generator with the
// given dataset limit may draw, i.e. positions up to 2*limit-1.
func CheckCapacity(src Source, limit int) error {
	if limit < 1 {
		return errors.Errorf("dataset limit must be positive, got %d", limit)
	}
	if t, ok := src.(*Table); ok {
		if t.Len() < 2*limit {
			return errors.Wrapf(ErrPrimeNotFound, "table holds %d primes, limit %d needs %d", t.Len(), limit, 2*limit)
		}
		return nil
	}

	_, err := src.PrimeAt(2*limit - 1)
	return err
}

type malformedError struct {
	token string
	index int
}

func (e *malformedError) Error() string {
	return "token " + strconv.Quote(e.token) + " at position " + strconv.Itoa(e.index) + ": " + ErrMalformedDataset.Error()
}

func (e *malformedError) Is(target error) bool {
	return target == ErrMalformedDataset || target == ErrPrimeNotFound
}

func parsePrime(token string, index int) (uint64, error) {
	p, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		return 0, &malformedError{token: token, index: index}
	}
	return p, nil
}
