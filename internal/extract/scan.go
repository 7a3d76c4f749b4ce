package extract

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dutchcoders/go-clamd"
)

var ErrInfected = errors.New("malicious file detected")

// Scanner checks uploads with a clamd daemon. A zero Scanner accepts everything.
type Scanner struct {
	addr string
}

// NewScanner returns a scanner for the clamd daemon at addr, for example
// "tcp://clamav:3310". An empty addr disables scanning.
func NewScanner(addr string) *Scanner {
	return &Scanner{addr: addr}
}

func (s *Scanner) Enabled() bool { return s != nil && s.addr != "" }

// Scan streams data to clamd and fails with ErrInfected on any non-clean verdict.
func (s *Scanner) Scan(data []byte) error {
	if !s.Enabled() {
		return nil
	}
	abort := make(chan bool)
	defer close(abort)

	results, err := clamd.NewClamd(s.addr).ScanStream(bytes.NewReader(data), abort)
	if err != nil {
		return fmt.Errorf("scan upload: %w", err)
	}
	for result := range results {
		if result.Status != clamd.RES_OK {
			return fmt.Errorf("%w: %s", ErrInfected, result.Description)
		}
	}
	return nil
}
