package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/amirasaad/txnimport/pkg/domain"
	"github.com/amirasaad/txnimport/pkg/domain/account"
	"github.com/amirasaad/txnimport/pkg/domain/category"
	"github.com/amirasaad/txnimport/pkg/domain/transaction"
	"github.com/amirasaad/txnimport/pkg/domain/user"
	"github.com/amirasaad/txnimport/pkg/repository"
)

// Request is one import run.
type Request struct {
	User *user.User
	File io.Reader
	// IBAN selects the destination account. When empty the user's main account is used.
	IBAN string
}

// Result reports what an import did. Categories is the catalog of the format that ran.
type Result struct {
	Format     string           `json:"format"`
	Categories category.Catalog `json:"categories"`
	Imported   int              `json:"imported"`
	Created    int              `json:"created"`
	Skipped    int              `json:"skipped"`
}

// Importer runs the shared pipeline for one strategy.
type Importer struct {
	strategy   Strategy
	uow        repository.UnitOfWork
	classifier *Classifier
	transfers  *TransferResolver
	logger     *slog.Logger
}

func NewImporter(
	strategy Strategy,
	uow repository.UnitOfWork,
	classifier *Classifier,
	transfers *TransferResolver,
	logger *slog.Logger,
) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		strategy:   strategy,
		uow:        uow,
		classifier: classifier,
		transfers:  transfers,
		logger:     logger,
	}
}

// run holds the state of a single Run call.
type run struct {
	*Importer
	req        Request
	accounts   repository.AccountRepository
	categories repository.CategoryRepository
	txns       repository.TransactionRepository
	seeded     map[string]*category.Category
	target     *account.BankAccount
}

// Run seeds the catalog, reads the statement and persists every row it can parse.
// Rows are independent: a failing row is skipped and never rolls back earlier rows.
func (im *Importer) Run(ctx context.Context, req Request) (*Result, error) {
	if req.User == nil {
		return nil, fmt.Errorf("%w: user is required", domain.ErrValidation)
	}
	logger := im.logger.With("format", im.strategy.Format(), "user", req.User.ID)
	logger.Info("Import started")

	r := &run{Importer: im, req: req}
	if err := r.bindRepositories(); err != nil {
		return nil, err
	}
	if err := r.seedCategories(ctx); err != nil {
		logger.Error("Import failed: seeding categories", "error", err)
		return nil, err
	}

	rows, err := readStatement(req.File)
	if err != nil {
		logger.Error("Import failed: reading statement", "error", err)
		return nil, err
	}

	result := &Result{Format: im.strategy.Format(), Categories: im.strategy.Catalog()}
	for i, row := range rows {
		line := i + 2
		created, err := r.importRow(ctx, row, line)
		if err != nil {
			if errors.Is(err, domain.ErrNoBankAccount) {
				return nil, err
			}
			logger.Debug("Skipping row", "row", line, "error", err)
			result.Skipped++
			continue
		}
		result.Imported++
		if created {
			result.Created++
		}
	}

	logger.Info("Import completed",
		"rows", len(rows), "imported", result.Imported, "created", result.Created, "skipped", result.Skipped)
	return result, nil
}

func (r *run) bindRepositories() (err error) {
	if r.accounts, err = r.uow.AccountRepository(); err != nil {
		return err
	}
	if r.categories, err = r.uow.CategoryRepository(); err != nil {
		return err
	}
	r.txns, err = r.uow.TransactionRepository()
	return err
}

// seedCategories finds or creates every catalog entry for the user and format.
func (r *run) seedCategories(ctx context.Context) error {
	r.seeded = make(map[string]*category.Category, len(r.strategy.Catalog()))
	for _, d := range r.strategy.Catalog() {
		if _, err := r.category(ctx, d); err != nil {
			return fmt.Errorf("seeding category %q: %w", d.Name, err)
		}
	}
	return nil
}

func (r *run) category(ctx context.Context, d category.Definition) (*category.Category, error) {
	if c, ok := r.seeded[d.Name]; ok {
		return c, nil
	}
	c, err := r.categories.FirstOrCreate(ctx, &category.Category{
		Name:      d.Name,
		Icon:      d.Icon,
		Direction: d.Direction(),
		Importer:  r.strategy.Format(),
		CreatedBy: r.req.User.ID,
	})
	if err != nil {
		return nil, err
	}
	r.seeded[d.Name] = c
	return c, nil
}

func (r *run) importRow(ctx context.Context, row Row, line int) (bool, error) {
	f, err := r.strategy.ParseRow(row)
	if err != nil {
		return false, err
	}
	f.Line = line

	direction := r.strategy.Direction(f)

	target, err := r.targetAccount(ctx)
	if err != nil {
		return false, err
	}

	cat, err := r.category(ctx, r.classifier.Classify(ctx, r.strategy, f))
	if err != nil {
		return false, fmt.Errorf("resolving category: %w", err)
	}

	var transferID *uint
	if cp, ok := r.strategy.Counterparty(f); ok {
		counterpart, err := r.transfers.Resolve(ctx, r.accounts, r.req.User, r.strategy.Format(), cp)
		if err != nil {
			return false, fmt.Errorf("resolving transfer account: %w", err)
		}
		if counterpart != nil {
			transferID = &counterpart.ID
		}
	}

	tx := transaction.New(target.ID, transferID, &cat.ID, f.Date, f.Amount, direction, f.Description)
	return r.txns.FirstOrCreate(ctx, tx)
}

// targetAccount resolves the destination account once per run. An unknown IBAN creates an
// account named after the bank.
func (r *run) targetAccount(ctx context.Context) (*account.BankAccount, error) {
	if r.target != nil {
		return r.target, nil
	}
	owner := r.req.User

	if r.req.IBAN == "" {
		list, err := r.accounts.ListByUser(ctx, owner.ID)
		if err != nil {
			return nil, err
		}
		for _, a := range list {
			if a.Main {
				r.target = a
				return a, nil
			}
		}
		return nil, fmt.Errorf("%w: no IBAN given and no main account set", domain.ErrNoBankAccount)
	}

	a, err := r.accounts.GetByIBAN(ctx, owner.ID, r.req.IBAN)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		a = account.New(owner.ID, r.strategy.BankName(), r.req.IBAN, r.strategy.Format())
		if err := r.accounts.Create(ctx, a); err != nil {
			return nil, fmt.Errorf("%w: creating account: %w", domain.ErrNoBankAccount, err)
		}
		r.logger.Info("Created import account", "user", owner.ID, "account_id", a.ID, "bank", a.Name)
	default:
		return nil, err
	}
	r.target = a
	return a, nil
}
