// Package session drives an account through the interactive ATM text protocol.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/congo-pay/atm/internal/account"
	"github.com/congo-pay/atm/internal/attempts"
	"github.com/congo-pay/atm/internal/ledger"
	"github.com/congo-pay/atm/internal/logging"
	"github.com/congo-pay/atm/internal/money"
	"github.com/congo-pay/atm/internal/notification"
)

var (
	// ErrAccessDenied ends a session whose PIN did not match.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidSelection is reported for a menu choice outside 1-6.
	ErrInvalidSelection = errors.New("invalid menu selection")
)

// Option is a menu entry number.
type Option int

const (
	OptionCheckBalance Option = iota + 1
	OptionDeposit
	OptionWithdraw
	OptionChangePIN
	OptionHistory
	OptionExit
)

func (o Option) String() string {
	switch o {
	case OptionCheckBalance:
		return "check_balance"
	case OptionDeposit:
		return "deposit"
	case OptionWithdraw:
		return "withdraw"
	case OptionChangePIN:
		return "change_pin"
	case OptionHistory:
		return "history"
	case OptionExit:
		return "exit"
	default:
		return "invalid"
	}
}

// Options wires the driver's collaborators. In and Out are required; the rest
// fall back to quiet defaults.
type Options struct {
	In         io.Reader
	Out        io.Writer
	Logger     *slog.Logger
	Notifier   notification.Notifier
	Limiter    attempts.Limiter
	TerminalID string
}

// Session owns the account for the lifetime of one interactive run.
type Session struct {
	id         string
	acct       *account.Account
	in         *bufio.Scanner
	out        io.Writer
	logger     *slog.Logger
	notifier   notification.Notifier
	limiter    attempts.Limiter
	terminalID string
}

// New builds a session over acct.
func New(acct *account.Account, opts Options) (*Session, error) {
	if acct == nil {
		return nil, fmt.Errorf("account is required")
	}
	if opts.In == nil || opts.Out == nil {
		return nil, fmt.Errorf("input and output are required")
	}
	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = attempts.Noop{}
	}
	return &Session{
		id:         id,
		acct:       acct,
		in:         bufio.NewScanner(opts.In),
		out:        opts.Out,
		logger:     logger.With(slog.String("session_id", id), slog.String("terminal_id", opts.TerminalID)),
		notifier:   opts.Notifier,
		limiter:    limiter,
		terminalID: opts.TerminalID,
	}, nil
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// Run authenticates once and then serves menu commands until Exit, end of
// input, or ctx is cancelled. A wrong PIN ends the session with
// ErrAccessDenied; there is no retry.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("session started")
	err := s.run(ctx)
	switch {
	case err == nil:
		s.logger.Info("session ended")
	case errors.Is(err, ErrAccessDenied), errors.Is(err, attempts.ErrLocked):
		s.logger.Warn("session refused", slog.Any("error", err))
	default:
		s.logger.Error("session aborted", slog.Any("error", err))
	}
	return err
}

func (s *Session) run(ctx context.Context) error {
	if err := s.authenticate(ctx); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.println(menu)
		line, ok := s.prompt(promptOption)
		if !ok {
			return s.in.Err()
		}
		opt := parseOption(line)
		if opt == OptionExit {
			s.println(msgGoodbye)
			s.logger.Info("command", slog.String("option", opt.String()))
			return nil
		}
		if done, err := s.dispatch(ctx, opt); done || err != nil {
			return err
		}
	}
}

func (s *Session) authenticate(ctx context.Context) error {
	allowed, err := s.limiter.Allowed(ctx, s.terminalID)
	if err != nil {
		return fmt.Errorf("check attempts: %w", err)
	}
	if !allowed {
		s.println(msgLocked)
		return attempts.ErrLocked
	}

	pin, ok := s.prompt(promptPIN)
	if !ok {
		if err := s.in.Err(); err != nil {
			return err
		}
		s.println("")
		s.println(msgAccessDenied)
		return ErrAccessDenied
	}
	if !s.acct.Authenticate(pin) {
		if err := s.limiter.Fail(ctx, s.terminalID); err != nil {
			s.logger.Warn("record failed attempt", slog.Any("error", err))
		}
		s.println(msgAccessDenied)
		return ErrAccessDenied
	}
	if err := s.limiter.Reset(ctx, s.terminalID); err != nil {
		s.logger.Warn("reset attempts", slog.Any("error", err))
	}
	s.logger.Info("authenticated")
	s.println(msgAuthenticated)
	return nil
}

// dispatch runs a single menu command. done is true when input ran out
// mid-command.
func (s *Session) dispatch(ctx context.Context, opt Option) (done bool, err error) {
	start := time.Now()
	var cmdErr error
	defer func() {
		attrs := []any{
			slog.String("option", opt.String()),
			slog.Duration("duration", time.Since(start)),
		}
		if cmdErr != nil {
			attrs = append(attrs, slog.Any("error", cmdErr))
		}
		s.logger.Info("command", attrs...)
	}()

	switch opt {
	case OptionCheckBalance:
		s.printf(msgBalance, s.acct.Balance())
	case OptionDeposit:
		amount, ok, perr := s.readAmount(promptDeposit)
		if !ok {
			return true, s.in.Err()
		}
		if perr != nil {
			cmdErr = perr
			s.println(msgMalformedAmount)
			return false, nil
		}
		cmdErr = s.deposit(ctx, amount)
	case OptionWithdraw:
		amount, ok, perr := s.readAmount(promptWithdrawal)
		if !ok {
			return true, s.in.Err()
		}
		if perr != nil {
			cmdErr = perr
			s.println(msgMalformedAmount)
			return false, nil
		}
		cmdErr = s.withdraw(ctx, amount)
	case OptionChangePIN:
		pin, ok := s.prompt(promptNewPIN)
		if !ok {
			return true, s.in.Err()
		}
		cmdErr = s.changePIN(ctx, pin)
	case OptionHistory:
		s.printHistory()
	default:
		cmdErr = ErrInvalidSelection
		s.println(msgInvalidSelection)
	}
	return false, nil
}

func (s *Session) deposit(ctx context.Context, amount money.Amount) error {
	balance, err := s.acct.Deposit(amount)
	switch {
	case errors.Is(err, account.ErrBalanceLimit):
		s.println(msgBalanceLimit)
		return err
	case err != nil:
		s.println(msgDepositInvalid)
		return err
	}
	body := fmt.Sprintf(msgDeposited, amount, balance)
	s.println(body)
	s.notify(ctx, notification.KindDeposit, s.lastReference(), body)
	return nil
}

func (s *Session) withdraw(ctx context.Context, amount money.Amount) error {
	balance, err := s.acct.Withdraw(amount)
	switch {
	case errors.Is(err, account.ErrInvalidAmount):
		s.println(msgWithdrawalInvalid)
		return err
	case errors.Is(err, account.ErrInsufficientFunds):
		s.println(msgInsufficientFunds)
		return err
	case err != nil:
		return err
	}
	body := fmt.Sprintf(msgWithdrew, amount, balance)
	s.println(body)
	s.notify(ctx, notification.KindWithdrawal, s.lastReference(), body)
	return nil
}

func (s *Session) changePIN(ctx context.Context, pin string) error {
	if err := s.acct.ChangePIN(pin); err != nil {
		s.println(msgPINChangeFailed)
		return err
	}
	s.println(msgPINChanged)
	s.notify(ctx, notification.KindPINChange, "", msgPINChanged)
	return nil
}

func (s *Session) printHistory() {
	s.println(msgHistoryHeader)
	if s.acct.HistoryLen() == 0 {
		s.println(msgNoTransactions)
		return
	}
	for rec := range s.acct.History() {
		switch rec.Kind {
		case ledger.KindDeposit:
			s.printf(msgHistoryDeposit, rec.Amount)
		case ledger.KindWithdrawal:
			s.printf(msgHistoryWithdrawal, rec.Amount)
		}
	}
}

// lastReference returns the ID of the record the preceding command appended.
func (s *Session) lastReference() string {
	rec, ok := s.acct.LastRecord()
	if !ok {
		return ""
	}
	return rec.ID
}

func (s *Session) notify(ctx context.Context, kind, reference, body string) {
	if s.notifier == nil {
		return
	}
	msg := notification.Message{Kind: kind, Destination: s.terminalID, Reference: reference, Body: body}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Warn("send receipt", slog.String("kind", kind), slog.Any("error", err))
	}
}

// readAmount prompts for and parses an amount. ok is false at end of input.
func (s *Session) readAmount(prompt string) (money.Amount, bool, error) {
	line, ok := s.prompt(prompt)
	if !ok {
		return 0, false, nil
	}
	amount, err := money.Parse(line)
	return amount, true, err
}

// prompt writes p and reads one line. ok is false at end of input or on a
// read error, which the caller picks up from s.in.Err().
func (s *Session) prompt(p string) (string, bool) {
	fmt.Fprint(s.out, p)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimRight(s.in.Text(), "\r"), true
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

// parseOption maps non-numeric input to the zero Option, which dispatch
// reports as an invalid selection.
func parseOption(line string) Option {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0
	}
	return Option(n)
}
