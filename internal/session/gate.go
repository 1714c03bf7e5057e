// Package session authenticates clients against the roster and keeps the
// logged-in account in a per-session slot.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"clientportal/internal/model"
	"clientportal/pkg/logger"
	"clientportal/pkg/metrics"
	"clientportal/pkg/util"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash is compared when no username matches so a miss costs the same
// as a wrong password.
const dummyHash = "$2b$10$LLAnQuuvcvh3WwejYDLyxO2fUA4RnSaPm0B4EqkE7QSpi2nMiMxrC"

// Gate checks credentials against a fixed roster.
type Gate struct {
	roster []model.ClientAccount
	logger *zap.Logger
}

func NewGate(roster []model.ClientAccount, logger *zap.Logger) *Gate {
	accounts := make([]model.ClientAccount, len(roster))
	copy(accounts, roster)
	return &Gate{roster: accounts, logger: logger}
}

// Accounts returns a copy of the roster.
func (g *Gate) Accounts() []model.ClientAccount {
	out := make([]model.ClientAccount, len(g.roster))
	copy(out, g.roster)
	return out
}

// Lookup finds an account by client id.
func (g *Gate) Lookup(clientID string) (*model.ClientAccount, bool) {
	for i := range g.roster {
		if g.roster[i].ID == clientID {
			a := g.roster[i]
			return &a, true
		}
	}
	return nil, false
}

// Verify returns the account whose username and password both match.
func (g *Gate) Verify(username, password string) (*model.ClientAccount, bool) {
	var found *model.ClientAccount
	compared := false
	for i := range g.roster {
		if g.roster[i].Username != username {
			continue
		}
		compared = true
		if util.CheckPassword(password, g.roster[i].PasswordHash) && found == nil {
			a := g.roster[i]
			found = &a
		}
	}
	if !compared {
		util.CheckPassword(password, dummyHash)
	}
	return found, found != nil
}

// Bind returns the session view of slot.
func (g *Gate) Bind(slot Slot) *Session {
	return &Session{gate: g, slot: slot}
}

// Session is the gate bound to one slot.
type Session struct {
	gate *Gate
	slot Slot
}

// Authenticate stores the matching account in the slot. A failed attempt
// leaves the slot untouched.
func (s *Session) Authenticate(ctx context.Context, username, password string) (*model.ClientAccount, error) {
	log := logger.WithTrace(ctx, s.gate.logger)

	account, ok := s.gate.Verify(username, password)
	if !ok {
		metrics.IncrementLoginAttempt("failure")
		log.Info("Login rejected", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	raw, err := json.Marshal(account)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.slot.Set(ctx, raw); err != nil {
		metrics.IncrementLoginAttempt("error")
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	metrics.IncrementLoginAttempt("success")
	log.Info("Login succeeded", zap.String("client_id", account.ID))
	return account, nil
}

// CurrentAccount returns the account in the slot. An empty, unreadable, or
// malformed slot reads as logged out.
func (s *Session) CurrentAccount(ctx context.Context) (*model.ClientAccount, bool) {
	log := logger.WithTrace(ctx, s.gate.logger)

	raw, err := s.slot.Get(ctx)
	if err != nil {
		log.Warn("Failed to read session slot", zap.Error(err))
		return nil, false
	}
	if len(raw) == 0 {
		return nil, false
	}

	var account model.ClientAccount
	if err := json.Unmarshal(raw, &account); err != nil || account.ID == "" {
		log.Warn("Malformed session", zap.Error(err))
		return nil, false
	}
	return &account, true
}

// EndSession clears the slot. Clearing an empty slot is not an error.
func (s *Session) EndSession(ctx context.Context) error {
	if err := s.slot.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *Session) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.CurrentAccount(ctx)
	return ok
}
