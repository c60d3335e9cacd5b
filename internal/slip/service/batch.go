package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strconv"

	"github.com/bwmarrin/snowflake"
	partnerdomain "github.com/smallbiznis/cloudslip/internal/partner/domain"
	domain "github.com/smallbiznis/cloudslip/internal/slip/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (s *service) List(ctx context.Context, filter domain.Filter) ([]domain.SlipRecord, error) {
	stmt := s.db.WithContext(ctx).Model(&domain.SlipRecord{})
	if filter.Vendor != "" {
		stmt = stmt.Where("vendor = ?", filter.Vendor)
	}
	if filter.BillingCycle != "" {
		stmt = stmt.Where("billing_cycle = ?", filter.BillingCycle)
	}
	if filter.BatchID != "" {
		stmt = stmt.Where("batch_id = ?", filter.BatchID)
	}
	if filter.SlipType != "" {
		stmt = stmt.Where("slip_type = ?", filter.SlipType)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 200
	}

	var rows []domain.SlipRecord
	err := stmt.Order("batch_id ASC, seqno ASC").Limit(limit).Offset(filter.Offset).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *service) ListBatches(ctx context.Context, vendor, billingCycle string) ([]domain.BatchSummary, error) {
	stmt := s.db.WithContext(ctx).Model(&domain.SlipRecord{})
	if vendor != "" {
		stmt = stmt.Where("vendor = ?", vendor)
	}
	if billingCycle != "" {
		stmt = stmt.Where("billing_cycle = ?", billingCycle)
	}

	var rows []domain.SlipRecord
	if err := stmt.Order("batch_id ASC, seqno ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	byBatch := map[string]*domain.BatchSummary{}
	order := []string{}
	for _, row := range rows {
		sum, ok := byBatch[row.BatchID]
		if !ok {
			sum = &domain.BatchSummary{
				BatchID:      row.BatchID,
				SlipType:     row.SlipType,
				Vendor:       row.Vendor,
				BillingCycle: row.BillingCycle,
				Confirmed:    true,
				CreatedAt:    row.CreatedAt,
			}
			byBatch[row.BatchID] = sum
			order = append(order, row.BatchID)
		}
		sum.Records++
		sum.TotalAmount = sum.TotalAmount.Add(row.Amount)
		if !row.IsConfirmed {
			sum.Confirmed = false
		}
	}

	out := make([]domain.BatchSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *byBatch[id])
	}
	return out, nil
}

func (s *service) UpdateRecord(ctx context.Context, id snowflake.ID, patch domain.RecordUpdate) (*domain.SlipRecord, error) {
	var row domain.SlipRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRecordNotFound
			}
			return err
		}
		if row.IsConfirmed {
			return domain.ErrConfirmedImmutable
		}

		if patch.PartnerCode != nil {
			row.PartnerCode = *patch.PartnerCode
			row.PartnerRef = *patch.PartnerCode
			row.PartnerName = ""
			if *patch.PartnerCode != "" {
				found, err := s.partner.FindByCode(ctx, *patch.PartnerCode)
				if err != nil && !errors.Is(err, partnerdomain.ErrPartnerNotFound) {
					return err
				}
				if found != nil {
					row.PartnerName = found.Name
				}
			}
		}
		if patch.Description != nil {
			row.Description = *patch.Description
		}
		if patch.ARAccount != nil {
			row.ARAccount = *patch.ARAccount
		}
		if patch.RevenueAccount != nil {
			row.RevenueAccount = *patch.RevenueAccount
		}
		if patch.TaxCode != nil {
			row.TaxCode = *patch.TaxCode
		}
		if patch.SalesContractCode != nil {
			row.SalesContractCode = *patch.SalesContractCode
			row.PurchaseContractCode = *patch.SalesContractCode
		}
		if patch.InvoiceNo != nil {
			row.InvoiceNo = *patch.InvoiceNo
		}
		row.UpdatedAt = s.clock.Now()
		return tx.Save(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *service) Confirm(ctx context.Context, batchID string) (int, error) {
	confirmed := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total, missing int64
		if err := tx.Model(&domain.SlipRecord{}).Where("batch_id = ?", batchID).Count(&total).Error; err != nil {
			return err
		}
		if total == 0 {
			return domain.ErrBatchNotFound
		}
		err := tx.Model(&domain.SlipRecord{}).
			Where("batch_id = ? AND partner_code = ?", batchID, "").
			Count(&missing).Error
		if err != nil {
			return err
		}
		if missing > 0 {
			return domain.ErrPartnerMissing
		}

		res := tx.Model(&domain.SlipRecord{}).
			Where("batch_id = ?", batchID).
			Updates(map[string]any{"is_confirmed": true, "updated_at": s.clock.Now()})
		if res.Error != nil {
			return res.Error
		}
		confirmed = int(res.RowsAffected)
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("slip batch confirmed", zap.String("batch_id", batchID), zap.Int("records", confirmed))
	return confirmed, nil
}

func (s *service) DeleteBatch(ctx context.Context, batchID string) (int, error) {
	deleted := 0
	reversed := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total, confirmed int64
		if err := tx.Model(&domain.SlipRecord{}).Where("batch_id = ?", batchID).Count(&total).Error; err != nil {
			return err
		}
		if total == 0 {
			return domain.ErrBatchNotFound
		}
		err := tx.Model(&domain.SlipRecord{}).
			Where("batch_id = ? AND is_confirmed = ?", batchID, true).
			Count(&confirmed).Error
		if err != nil {
			return err
		}
		if confirmed > 0 {
			return domain.ErrConfirmedImmutable
		}

		res := tx.Where("batch_id = ?", batchID).Delete(&domain.SlipRecord{})
		if res.Error != nil {
			return res.Error
		}
		deleted = int(res.RowsAffected)

		// Reversal joins the delete transaction so rows and deposit
		// usages disappear together.
		n, err := s.deposits.WithTx(tx).Reverse(ctx, batchID)
		if err != nil {
			return err
		}
		reversed = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("slip batch deleted",
		zap.String("batch_id", batchID),
		zap.Int("records", deleted),
		zap.Int("deposit_usages_reversed", reversed),
	)
	return deleted, nil
}

var exportHeader = []string{
	"seqno", "company_code", "document_date", "posting_date", "slip_type",
	"partner_code", "partner_name", "ar_account", "revenue_account",
	"tax_code", "currency", "amount", "amount_usd", "applied_rate",
	"profit_center", "description", "reference_code", "sales_contract_code",
	"sales_person", "invoice_no", "deposit_group_no",
}

func (s *service) ExportCSV(ctx context.Context, batchID string) ([]byte, error) {
	var rows []domain.SlipRecord
	err := s.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("seqno ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrBatchNotFound
	}
	for _, row := range rows {
		if !row.IsConfirmed {
			return nil, domain.ErrBatchUnconfirmed
		}
	}

	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Seqno),
			row.CompanyCode,
			row.DocumentDate.Format("2006-01-02"),
			row.PostingDate.Format("2006-01-02"),
			string(row.SlipType),
			row.PartnerCode,
			row.PartnerName,
			row.ARAccount,
			row.RevenueAccount,
			row.TaxCode,
			row.Currency,
			row.Amount.String(),
			row.AmountUSD.String(),
			row.AppliedRate.String(),
			row.ProfitCenter,
			row.Description,
			row.ReferenceCode,
			row.SalesContractCode,
			row.SalesPerson,
			row.InvoiceNo,
			row.DepositGroupNo,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&domain.SlipRecord{}).
		Where("batch_id = ?", batchID).
		Update("is_exported", true).Error
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
