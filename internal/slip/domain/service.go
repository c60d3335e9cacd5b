package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Service generates and manages slip batches.
type Service interface {
	GetConfig(ctx context.Context, vendor string) (*SlipConfig, error)
	PutConfig(ctx context.Context, cfg *SlipConfig) error

	// Generate runs one batch. Structural errors abort the run; a
	// missing exchange rate degrades per the resolver policy instead.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateSummary, error)

	List(ctx context.Context, filter Filter) ([]SlipRecord, error)
	ListBatches(ctx context.Context, vendor, billingCycle string) ([]BatchSummary, error)

	// UpdateRecord patches an unconfirmed row. Partner edits re-derive
	// partner_name and partner_ref from the partner master.
	UpdateRecord(ctx context.Context, id snowflake.ID, patch RecordUpdate) (*SlipRecord, error)

	// Confirm marks every row of the batch immutable. Rejected while
	// any row lacks a partner code.
	Confirm(ctx context.Context, batchID string) (int, error)

	// DeleteBatch removes an unconfirmed batch and reverses its
	// deposit usages.
	DeleteBatch(ctx context.Context, batchID string) (int, error)

	// ExportCSV renders a confirmed batch in the ledger-import layout
	// with a UTF-8 BOM and marks its rows exported. Unconfirmed
	// batches are rejected.
	ExportCSV(ctx context.Context, batchID string) ([]byte, error)
}
