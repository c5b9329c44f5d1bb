package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/zkybank/zkybank/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository inside a transaction.
// Entries are append-only; there is no update or delete path.
type LedgerRepository struct {
	tx pgx.Tx
}

// Save appends a ledger entry.
func (r *LedgerRepository) Save(ctx context.Context, entry *domain.LedgerEntry) error {
	_, err := r.tx.Exec(ctx,
		`INSERT INTO ledger_entries
		 (id, account_id, entry_type, amount_cents, currency, correlation_id, counterparty_account_number, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID,
		entry.AccountID,
		string(entry.Type),
		entry.Amount.Cents(),
		entry.Amount.Currency(),
		textOrNull(entry.CorrelationID),
		textOrNull(entry.Counterparty.String()),
		timeToPgTimestamptz(entry.OccurredAt),
	)
	if err != nil {
		return translateError(err)
	}

	return nil
}

// ListByAccount returns the entries for an account, most recent first.
func (r *LedgerRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.LedgerEntry, error) {
	rows, err := r.tx.Query(ctx,
		`SELECT id, account_id, entry_type, amount_cents, currency, correlation_id, counterparty_account_number, occurred_at
		 FROM ledger_entries
		 WHERE account_id = $1
		 ORDER BY occurred_at DESC, id DESC`,
		accountID,
	)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}

	return entries, nil
}

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var (
		id            string
		accountID     string
		entryType     string
		amountCents   int64
		currency      string
		correlationID pgtype.Text
		counterparty  pgtype.Text
		occurredAt    pgtype.Timestamptz
	)

	err := row.Scan(&id, &accountID, &entryType, &amountCents, &currency, &correlationID, &counterparty, &occurredAt)
	if err != nil {
		return nil, translateError(err)
	}

	amount, err := domain.NewMoneyFromCents(amountCents, currency)
	if err != nil {
		return nil, fmt.Errorf("ledger entry %s: invalid stored amount: %w", id, err)
	}

	return &domain.LedgerEntry{
		ID:            id,
		AccountID:     accountID,
		Type:          domain.EntryType(entryType),
		Amount:        amount,
		CorrelationID: correlationID.String,
		Counterparty:  domain.AccountNumber(counterparty.String),
		OccurredAt:    occurredAt.Time,
	}, nil
}

func textOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
