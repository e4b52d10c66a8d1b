// Package interactive builds a single invoice from console input.
package interactive

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jkeller/invoicegen/internal/billing"
	"github.com/jkeller/invoicegen/pkg/utils"
	"go.uber.org/zap"
)

// Session reads invoice fields from a console, reprompting on validation
// failures.
type Session struct {
	in     *bufio.Reader
	out    io.Writer
	logger *zap.Logger
}

// NewSession creates a session on the given streams.
func NewSession(in io.Reader, out io.Writer, logger *zap.Logger) *Session {
	return &Session{
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger,
	}
}

// BuildInvoice walks the user through one invoice: issuer and terms (unless
// the run already has them), the client, the items, the due date and the tax
// rate. The run's sequence assigns the number. Input ending mid-dialog aborts
// with the read error rather than reprompting.
func (s *Session) BuildInvoice(run *billing.Run) (*billing.Invoice, error) {
	if run.Issuer() == nil {
		issuer, err := s.promptIssuer()
		if err != nil {
			return nil, err
		}
		run.SetIssuer(issuer)
	}
	if run.Terms() == "" {
		terms, err := s.promptLine("Terms and conditions: ")
		if err != nil {
			return nil, err
		}
		run.SetTerms(terms)
	}

	name, err := s.promptLine("Client name: ")
	if err != nil {
		return nil, err
	}
	address, err := s.promptLine("Client address: ")
	if err != nil {
		return nil, err
	}
	location, err := s.promptLine("Client location: ")
	if err != nil {
		return nil, err
	}
	client := billing.NewClient(name, address, location)

	lines, err := s.promptLines()
	if err != nil {
		return nil, err
	}

	due, err := s.promptDate("Due date (yyyy-mm-dd): ")
	if err != nil {
		return nil, err
	}
	tax, err := s.promptFloat("Tax percentage: ", billing.DefaultTaxPercent)
	if err != nil {
		return nil, err
	}

	return billing.NewInvoice(run, client, lines, due, tax, 0)
}

func (s *Session) promptIssuer() (*billing.Issuer, error) {
	for {
		name, err := s.promptLine("Issuer name: ")
		if err != nil {
			return nil, err
		}
		account, err := s.promptLine("Account name: ")
		if err != nil {
			return nil, err
		}
		bank, err := s.promptLine("Bank: ")
		if err != nil {
			return nil, err
		}
		email, err := s.promptLine("Email: ")
		if err != nil {
			return nil, err
		}
		phoneText, err := s.promptLine("Phone (10 digits): ")
		if err != nil {
			return nil, err
		}
		phone, err := strconv.ParseInt(phoneText, 10, 64)
		if err != nil {
			fmt.Fprintln(s.out, "Phone must be numeric, try again.")
			continue
		}

		issuer, err := billing.NewIssuer(name, account, bank, email, phone)
		if err != nil {
			fmt.Fprintf(s.out, "%v, try again.\n", err)
			continue
		}
		return issuer, nil
	}
}

// promptLines collects items until an empty name is entered.
func (s *Session) promptLines() ([]billing.LineItem, error) {
	var lines []billing.LineItem
	for {
		name, err := s.promptLine("Item name (blank to finish): ")
		if err != nil {
			return nil, err
		}
		if name == "" {
			if len(lines) == 0 {
				fmt.Fprintln(s.out, "An invoice needs at least one item.")
				continue
			}
			return lines, nil
		}
		description, err := s.promptLine("Item description: ")
		if err != nil {
			return nil, err
		}

		priceText, err := s.promptLine("Unit price: ")
		if err != nil {
			return nil, err
		}
		price, err := decimal.NewFromString(priceText)
		if err != nil || price.IsNegative() {
			fmt.Fprintln(s.out, "Price must be a non-negative number, try again.")
			continue
		}
		qtyText, err := s.promptLine("Quantity: ")
		if err != nil {
			return nil, err
		}
		qty, err := strconv.Atoi(qtyText)
		if err != nil || qty < 0 {
			fmt.Fprintln(s.out, "Quantity must be a non-negative integer, try again.")
			continue
		}

		item, err := billing.NewItem(name, description, price, 0)
		if err != nil {
			fmt.Fprintf(s.out, "%v, try again.\n", err)
			continue
		}
		line, err := billing.NewLineItem(item, qty)
		if err != nil {
			fmt.Fprintf(s.out, "%v, try again.\n", err)
			continue
		}
		lines = append(lines, line)
	}
}

func (s *Session) promptDate(prompt string) (time.Time, error) {
	for {
		text, err := s.promptLine(prompt)
		if err != nil {
			return time.Time{}, err
		}
		due, err := billing.ParseDate(text)
		if err != nil {
			fmt.Fprintf(s.out, "%v, try again.\n", err)
			continue
		}
		return due, nil
	}
}

func (s *Session) promptFloat(prompt string, fallback float64) (float64, error) {
	text, err := s.promptLine(prompt)
	if err != nil {
		return 0, err
	}
	if text == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		fmt.Fprintf(s.out, "Not a number, using %.1f.\n", fallback)
		return fallback, nil
	}
	return f, nil
}

// promptLine reads one answer. A final line without a trailing newline still
// counts; an exhausted input stream is an error so callers never reprompt
// against a closed console.
func (s *Session) promptLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		s.logger.Debug("Console input ended", zap.Error(err))
		return "", fmt.Errorf("console input ended: %w", err)
	}
	return utils.SanitizeString(strings.TrimSpace(line)), nil
}
