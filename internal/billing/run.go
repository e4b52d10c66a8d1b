package billing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultTaxPercent applies when no tax rate is given explicitly.
const DefaultTaxPercent = 13.0

// Run carries the state shared by every invoice produced in one generation
// run: the issuer, the terms and conditions, and the numbering sequence.
// Passing a Run explicitly, instead of keeping this state in package-level
// globals, keeps independent runs (and tests) isolated from each other.
type Run struct {
	issuer *Issuer
	terms  string
	seq    *Sequence
}

// NewRun creates an empty run context with a fresh numbering sequence.
func NewRun() *Run {
	return &Run{seq: NewSequence()}
}

// SetIssuer binds the issuer used by every invoice in this run.
func (r *Run) SetIssuer(is *Issuer) {
	r.issuer = is
}

// Issuer returns the bound issuer, or nil if none has been set.
func (r *Run) Issuer() *Issuer {
	return r.issuer
}

// SetTerms binds the terms-and-conditions text used by every invoice in this
// run.
func (r *Run) SetTerms(text string) {
	r.terms = text
}

// Terms returns the bound terms text.
func (r *Run) Terms() string {
	return r.terms
}

// Sequence returns the run's invoice numbering sequence.
func (r *Run) Sequence() *Sequence {
	return r.seq
}

// SetTermsFromFile loads the terms text from a plain-text file. Anything
// without a recognized text extension is rejected before reading.
func (r *Run) SetTermsFromFile(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", ".md":
	default:
		return fmt.Errorf("%w: terms file %s is not plain text", ErrFileFormat, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read terms file: %w", err)
	}
	r.terms = strings.TrimSpace(string(data))
	return nil
}

// RequireConfigured reports whether the run can produce invoices yet. Both
// the issuer and the terms must be bound first.
func (r *Run) RequireConfigured() error {
	if r.issuer == nil {
		return ErrIssuerNotSet
	}
	if r.terms == "" {
		return ErrTermsNotSet
	}
	return nil
}
