// Package store persists accounts and transactions as versioned JSON buckets
// in a data directory. The engine packages never touch it: callers read the
// current sets here, run a derivation, and write the results back.
package store

import (
	"sort"
	"sync"

	sErrors "github.com/mfcoelho/bolso/errors"
	"github.com/mfcoelho/bolso/model"
	"github.com/mfcoelho/bolso/pipe"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Store owns the account and transaction buckets. All multi-row writes are
// staged in memory and flushed with an atomic file swap, so a failure mid
// update never leaves a series half replaced.
type Store struct {
	mu     sync.RWMutex
	logger *zap.Logger

	accounts     *bucket[model.Account]
	transactions *bucket[model.Transaction]
}

// Open loads (or creates) the buckets under dataDir
func Open(dataDir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{logger: logger}
	return s, pipe.OpFuncs{
		func() error {
			var err error
			s.accounts, err = openBucket[model.Account](dataDir, "accounts")
			return err
		},
		func() error {
			var err error
			s.transactions, err = openBucket[model.Transaction](dataDir, "transactions")
			return err
		},
	}.Do()
}

// Accounts returns every stored account, including soft-deleted ones, sorted
// by name
func (s *Store) Accounts() []model.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := s.accounts.values()
	sort.Slice(accounts, func(a, b int) bool {
		return accounts[a].Name < accounts[b].Name
	})
	return accounts
}

// Transactions returns every stored transaction, including soft-deleted
// ones, sorted by date then ID for a stable view
func (s *Store) Transactions() []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txns := s.transactions.values()
	sort.Slice(txns, func(a, b int) bool {
		if !txns[a].Date.Equal(txns[b].Date) {
			return txns[a].Date.Before(txns[b].Date)
		}
		return txns[a].ID < txns[b].ID
	})
	return txns
}

// AddAccount validates and stores a new account
func (s *Store) AddAccount(account model.Account) error {
	if err := model.ValidateAccount(account); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts.data[account.ID]; exists {
		return errors.Errorf("Duplicate account ID: %q", account.ID)
	}
	return s.accounts.update(func(data map[string]model.Account) {
		data[account.ID] = account
	})
}

// AddTransactions validates every row, then stores all of them in one write.
// Nothing is persisted if any row is invalid, and the error reports every
// failing row, not just the first.
func (s *Store) AddTransactions(txns ...model.Transaction) error {
	if err := validateAll(txns); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, txn := range txns {
		if _, exists := s.transactions.data[txn.ID]; exists {
			return errors.Errorf("Duplicate transaction ID: %q", txn.ID)
		}
	}
	return s.transactions.update(func(data map[string]model.Transaction) {
		for _, txn := range txns {
			data[txn.ID] = txn
		}
	})
}

// UpdateTransactions validates and overwrites existing rows in one write
func (s *Store) UpdateTransactions(txns ...model.Transaction) error {
	if err := validateAll(txns); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, txn := range txns {
		if _, exists := s.transactions.data[txn.ID]; !exists {
			return errors.Errorf("Unknown transaction ID: %q", txn.ID)
		}
	}
	return s.transactions.update(func(data map[string]model.Transaction) {
		for _, txn := range txns {
			data[txn.ID] = txn
		}
	})
}

// SoftDeleteTransaction marks one row deleted. Rows are never physically
// removed, audit history stays intact.
func (s *Store) SoftDeleteTransaction(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, exists := s.transactions.data[id]
	if !exists {
		return errors.Errorf("Unknown transaction ID: %q", id)
	}
	txn.Deleted = true
	return s.transactions.update(func(data map[string]model.Transaction) {
		data[id] = txn
	})
}

// SoftDeleteSeries marks every row of an installment series deleted as one
// atomic unit
func (s *Store) SoftDeleteSeries(seriesID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.seriesIDs(seriesID)
	if len(ids) == 0 {
		return errors.Errorf("Unknown installment series: %q", seriesID)
	}
	return s.transactions.update(func(data map[string]model.Transaction) {
		for _, id := range ids {
			txn := data[id]
			txn.Deleted = true
			data[id] = txn
		}
	})
}

// ReplaceSeries swaps an installment series for its resized replacement: the
// removed rows are soft-deleted and the added rows inserted in a single
// staged write. A partial replacement is never observable, on any failure the
// previous state stays in place.
func (s *Store) ReplaceSeries(removed, added []model.Transaction) error {
	if err := validateAll(added); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, txn := range removed {
		if _, exists := s.transactions.data[txn.ID]; !exists {
			return errors.Errorf("Unknown transaction ID in series replacement: %q", txn.ID)
		}
	}
	err := s.transactions.update(func(data map[string]model.Transaction) {
		for _, txn := range removed {
			old := data[txn.ID]
			old.Deleted = true
			data[txn.ID] = old
		}
		for _, txn := range added {
			data[txn.ID] = txn
		}
	})
	if err == nil {
		s.logger.Info("Replaced installment series",
			zap.Int("removed", len(removed)),
			zap.Int("added", len(added)),
		)
	}
	return err
}

// validateAll collects the validation failure of every bad row into one error
func validateAll(txns []model.Transaction) error {
	var errs sErrors.Errors
	for _, txn := range txns {
		errs.AddErr(errors.Wrapf(model.ValidateTransaction(txn), "Invalid transaction %q", txn.Description))
	}
	return errs.ErrOrNil()
}

// Series returns the non-deleted rows of an installment series
func (s *Store) Series(seriesID string) []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var txns []model.Transaction
	for _, txn := range s.transactions.data {
		if !txn.Deleted && txn.Installment != nil && txn.Installment.SeriesID == seriesID {
			txns = append(txns, txn)
		}
	}
	sort.Slice(txns, func(a, b int) bool {
		return txns[a].Installment.Current < txns[b].Installment.Current
	})
	return txns
}

func (s *Store) seriesIDs(seriesID string) []string {
	var ids []string
	for id, txn := range s.transactions.data {
		if txn.Installment != nil && txn.Installment.SeriesID == seriesID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
