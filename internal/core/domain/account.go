package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UserID identifies a family member.
type UserID string

// AccountKind tells the shared account apart from a member's personal account.
type AccountKind string

const (
	CasaAccount     AccountKind = "casa"
	PersonalAccount AccountKind = "personal"
)

// AccountRef is either the single shared Casa account or Personal(UserID).
// The zero value is invalid; build refs with Casa() or Personal().
// It encodes as text ("casa" or "personal:<id>") in JSON bodies and store values.
type AccountRef struct {
	Kind   AccountKind
	UserID UserID
}

// Casa returns the reference to the shared account.
func Casa() AccountRef { return AccountRef{Kind: CasaAccount} }

// Personal returns the reference to a member's personal account.
func Personal(userID UserID) AccountRef {
	return AccountRef{Kind: PersonalAccount, UserID: userID}
}

func (r AccountRef) IsCasa() bool { return r.Kind == CasaAccount }

// Validate reports whether the ref names a well-formed account.
func (r AccountRef) Validate() error {
	switch r.Kind {
	case CasaAccount:
		if r.UserID != "" {
			return fmt.Errorf("casa account cannot carry a user id")
		}
		return nil
	case PersonalAccount:
		if strings.TrimSpace(string(r.UserID)) == "" {
			return fmt.Errorf("personal account requires a user id")
		}
		if strings.Contains(string(r.UserID), "/") {
			return fmt.Errorf("user id %q contains a path separator", r.UserID)
		}
		return nil
	default:
		return fmt.Errorf("unknown account kind %q", r.Kind)
	}
}

// Path is the store location of the account node.
func (r AccountRef) Path() string {
	switch r.Kind {
	case CasaAccount:
		return "accounts/casa"
	default:
		return "accounts/personal/" + string(r.UserID)
	}
}

// String renders "casa" or "personal:<id>", the inverse of ParseAccountRef.
func (r AccountRef) String() string {
	if r.Kind == CasaAccount {
		return "casa"
	}
	return "personal:" + string(r.UserID)
}

// ParseAccountRef parses "casa" or "personal:<userID>".
func ParseAccountRef(s string) (AccountRef, error) {
	if s == "casa" {
		return Casa(), nil
	}
	if id, ok := strings.CutPrefix(s, "personal:"); ok {
		ref := Personal(UserID(id))
		return ref, ref.Validate()
	}
	return AccountRef{}, fmt.Errorf("invalid account reference %q", s)
}

func (r AccountRef) MarshalText() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return []byte(r.String()), nil
}

func (r *AccountRef) UnmarshalText(text []byte) error {
	ref, err := ParseAccountRef(string(text))
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

// PersonalAccountsPrefix is the store prefix under which personal accounts live.
const PersonalAccountsPrefix = "accounts/personal"

// Account is a balance holder. Accounts are mutated only by the ledger mutators and never deleted.
type Account struct {
	Ref         AccountRef      `json:"ref"`
	Balance     decimal.Decimal `json:"balance"`
	LastUpdated time.Time       `json:"lastUpdated"`
}
