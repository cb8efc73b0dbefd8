package handlers

import (
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"ega-bank-client/internal/dto"
	"ega-bank-client/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

var (
	ErrUsernameTaken           = errors.New("Username already exists")
	ErrClientNotFound          = errors.New("Client not found")
	ErrAccountNotFound         = errors.New("Account not found")
	ErrSourceNotFound          = errors.New("Source account not found")
	ErrDestinationNotFound     = errors.New("Destination account not found")
	ErrSameAccount             = errors.New("Source and destination must differ")
	ErrInsufficientFunds       = errors.New("Insufficient funds")
	ErrInsufficientForTransfer = errors.New("Insufficient funds for transfer")
	ErrNonPositiveAmount       = errors.New("amount must be greater than 0")
)

// accountNumberPattern is FR, two check digits and a 23 digit BBAN
const accountNumberPattern = "FR#########################"

const maxAccountNumberAttempts = 20

type stubUser struct {
	username     string
	passwordHash string
	roles        []string
}

type clientRecord struct {
	id      int64
	profile dto.CreateClientRequest
}

type accountRecord struct {
	id            int64
	accountNumber string
	accountType   models.AccountType
	balance       decimal.Decimal
	clientID      int64
	createdAt     time.Time
}

// LedgerEntry is one recorded movement of money
type LedgerEntry struct {
	ID          int64
	Type        models.TransactionType
	Amount      decimal.Decimal
	Timestamp   time.Time
	Source      string
	Destination string
	Description string
}

func (e LedgerEntry) touches(accountNumber string) bool {
	return e.Source == accountNumber || e.Destination == accountNumber
}

// Ledger is the stub backend's in-memory store of users, clients, accounts and
// transactions. All methods are safe for concurrent use.
type Ledger struct {
	mu       sync.Mutex
	users    map[string]*stubUser
	clients  []*clientRecord
	accounts []*accountRecord
	entries  []LedgerEntry
	nextID   int64
	faker    *gofakeit.Faker
	now      func() time.Time
}

func NewLedger() *Ledger {
	return &Ledger{
		users: make(map[string]*stubUser),
		faker: gofakeit.New(0),
		now:   time.Now,
	}
}

func (l *Ledger) id() int64 {
	l.nextID++
	return l.nextID
}

// AddUser stores a user under a bcrypt hash. Usernames are unique.
func (l *Ledger) AddUser(username, passwordHash string, roles []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.users[username]; exists {
		return ErrUsernameTaken
	}
	l.users[username] = &stubUser{username: username, passwordHash: passwordHash, roles: roles}
	return nil
}

// User returns the stored hash and roles of username
func (l *Ledger) User(username string) (string, []string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.users[username]
	if !ok {
		return "", nil, false
	}
	return u.passwordHash, append([]string(nil), u.roles...), true
}

func (l *Ledger) CreateClient(req dto.CreateClientRequest) ClientView {
	l.mu.Lock()
	defer l.mu.Unlock()

	c := &clientRecord{id: l.id(), profile: req}
	l.clients = append(l.clients, c)
	return l.clientView(c)
}

// Clients lists clients in creation order, each with its accounts in creation order
func (l *Ledger) Clients() []ClientView {
	l.mu.Lock()
	defer l.mu.Unlock()

	views := make([]ClientView, 0, len(l.clients))
	for _, c := range l.clients {
		views = append(views, l.clientView(c))
	}
	return views
}

func (l *Ledger) CreateAccount(clientID int64, accountType models.AccountType) (AccountView, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	client := l.findClient(clientID)
	if client == nil {
		return AccountView{}, ErrClientNotFound
	}

	a := &accountRecord{
		id:            l.id(),
		accountNumber: l.newAccountNumber(),
		accountType:   accountType,
		balance:       decimal.Zero,
		clientID:      clientID,
		createdAt:     l.now(),
	}
	l.accounts = append(l.accounts, a)

	view := accountViewOf(a)
	owner := ownerViewOf(client)
	view.Owner = &owner
	return view, nil
}

// Account returns an account with its owner
func (l *Ledger) Account(accountNumber string) (AccountView, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a := l.findAccount(accountNumber)
	if a == nil {
		return AccountView{}, false
	}
	view := accountViewOf(a)
	if c := l.findClient(a.clientID); c != nil {
		owner := ownerViewOf(c)
		view.Owner = &owner
	}
	return view, true
}

func (l *Ledger) Deposit(accountNumber string, amount decimal.Decimal) (LedgerEntry, error) {
	if !amount.IsPositive() {
		return LedgerEntry{}, ErrNonPositiveAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	a := l.findAccount(accountNumber)
	if a == nil {
		return LedgerEntry{}, ErrAccountNotFound
	}
	a.balance = a.balance.Add(amount)

	return l.record(models.TransactionTypeDeposit, amount, "", a.accountNumber), nil
}

func (l *Ledger) Withdraw(accountNumber string, amount decimal.Decimal) (LedgerEntry, error) {
	if !amount.IsPositive() {
		return LedgerEntry{}, ErrNonPositiveAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	a := l.findAccount(accountNumber)
	if a == nil {
		return LedgerEntry{}, ErrAccountNotFound
	}
	if a.balance.LessThan(amount) {
		return LedgerEntry{}, ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(amount)

	return l.record(models.TransactionTypeWithdrawal, amount, a.accountNumber, ""), nil
}

func (l *Ledger) Transfer(from, to string, amount decimal.Decimal) (LedgerEntry, error) {
	if from == to {
		return LedgerEntry{}, ErrSameAccount
	}
	if !amount.IsPositive() {
		return LedgerEntry{}, ErrNonPositiveAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	src := l.findAccount(from)
	if src == nil {
		return LedgerEntry{}, ErrSourceNotFound
	}
	dst := l.findAccount(to)
	if dst == nil {
		return LedgerEntry{}, ErrDestinationNotFound
	}
	if src.balance.LessThan(amount) {
		return LedgerEntry{}, ErrInsufficientForTransfer
	}

	src.balance = src.balance.Sub(amount)
	dst.balance = dst.balance.Add(amount)

	return l.record(models.TransactionTypeTransfer, amount, src.accountNumber, dst.accountNumber), nil
}

// Backfill posts historical entries on one account in timestamp order, keeping
// their timestamps and descriptions. Withdrawals the balance cannot cover are
// skipped. It returns how many entries were posted.
func (l *Ledger) Backfill(accountNumber string, history []models.HistoricalEntry) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a := l.findAccount(accountNumber)
	if a == nil {
		return 0, ErrAccountNotFound
	}

	sorted := slices.Clone(history)
	slices.SortStableFunc(sorted, func(x, y models.HistoricalEntry) int {
		return x.Timestamp.Compare(y.Timestamp)
	})

	posted := 0
	for _, h := range sorted {
		if !h.Amount.IsPositive() {
			continue
		}

		e := LedgerEntry{
			ID:          l.id(),
			Type:        h.Type,
			Amount:      h.Amount,
			Timestamp:   h.Timestamp.UTC(),
			Description: h.Description,
		}
		switch h.Type {
		case models.TransactionTypeDeposit:
			a.balance = a.balance.Add(h.Amount)
			e.Destination = a.accountNumber
		case models.TransactionTypeWithdrawal:
			if a.balance.LessThan(h.Amount) {
				continue
			}
			a.balance = a.balance.Sub(h.Amount)
			e.Source = a.accountNumber
		default:
			continue
		}

		l.entries = append(l.entries, e)
		posted++
	}
	return posted, nil
}

// Transactions returns the entries touching accountNumber with a timestamp in
// [start, end], oldest first
func (l *Ledger) Transactions(accountNumber string, start, end time.Time) ([]LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.findAccount(accountNumber) == nil {
		return nil, ErrAccountNotFound
	}

	entries := make([]LedgerEntry, 0)
	for _, e := range l.entries {
		if !e.touches(accountNumber) {
			continue
		}
		if e.Timestamp.Before(start) || e.Timestamp.After(end) {
			continue
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

// Stats returns the number of users, clients, accounts and entries
func (l *Ledger) Stats() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return map[string]int{
		"users":        len(l.users),
		"clients":      len(l.clients),
		"accounts":     len(l.accounts),
		"transactions": len(l.entries),
	}
}

func (l *Ledger) record(txType models.TransactionType, amount decimal.Decimal, source, destination string) LedgerEntry {
	e := LedgerEntry{
		ID:          l.id(),
		Type:        txType,
		Amount:      amount,
		Timestamp:   l.now().UTC(),
		Source:      source,
		Destination: destination,
	}
	l.entries = append(l.entries, e)
	return e
}

func (l *Ledger) newAccountNumber() string {
	var candidate string
	for attempt := 0; attempt < maxAccountNumberAttempts; attempt++ {
		candidate = l.faker.Numerify(accountNumberPattern)
		if l.findAccount(candidate) == nil {
			break
		}
	}
	return candidate
}

func (l *Ledger) findClient(id int64) *clientRecord {
	for _, c := range l.clients {
		if c.id == id {
			return c
		}
	}
	return nil
}

func (l *Ledger) findAccount(accountNumber string) *accountRecord {
	for _, a := range l.accounts {
		if a.accountNumber == accountNumber {
			return a
		}
	}
	return nil
}

func (l *Ledger) clientView(c *clientRecord) ClientView {
	view := ClientView{
		ID:                  c.id,
		CreateClientRequest: c.profile,
		Accounts:            make([]AccountView, 0),
	}
	for _, a := range l.accounts {
		if a.clientID == c.id {
			view.Accounts = append(view.Accounts, accountViewOf(a))
		}
	}
	return view
}
