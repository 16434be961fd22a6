package handler

import (
	"fmt"
	"strconv"
	"time"

	"cbdc-settlement/internal/adapter/http/dto"
	"cbdc-settlement/internal/core/domain"
	"cbdc-settlement/pkg/apperror"
	"cbdc-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const timeLayout = time.RFC3339

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// uuidParam parses a path parameter, writing a validation error on failure.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, apperror.Validation(fmt.Sprintf("%s must be a UUID", name)))
		return uuid.Nil, false
	}
	return id, true
}

// pageParams reads page and page_size, clamping them to sane bounds.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return page, pageSize
}

// unixQuery parses an optional unix-seconds query parameter.
func unixQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("%s must be a unix timestamp", name))
	}
	t := time.Unix(v, 0).UTC()
	return &t, nil
}

func optionalUUID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func optionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timeLayout)
	return &s
}

func toAccountResponse(a *domain.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:                     a.ID.String(),
		FIID:                   a.FIID,
		Kind:                   string(a.Kind),
		OwnerAccountID:         optionalUUID(a.OwnerAccountID),
		Name:                   a.Name,
		DeviceType:             a.DeviceType,
		DeviceName:             a.DeviceName,
		Balance:                a.Balance,
		ReservedOfflineBalance: a.ReservedOfflineBalance,
		ReservedOfflineCount:   a.ReservedOfflineCount,
		SpendingLimit:          a.SpendingLimit,
		Status:                 string(a.Status),
		IsOfflineMode:          a.IsOfflineMode,
		PublicKey:              a.PublicKey,
		CreatedAt:              a.CreatedAt.Format(timeLayout),
		UpdatedAt:              a.UpdatedAt.Format(timeLayout),
	}
}

func toAccountList(accounts []domain.Account) []dto.AccountResponse {
	items := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, toAccountResponse(&accounts[i]))
	}
	return items
}

func toTransactionResponse(tx *domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:            tx.ID.String(),
		Kind:          string(tx.Kind),
		FromAccountID: optionalUUID(tx.FromAccountID),
		ToAccountID:   tx.ToAccountID.String(),
		Amount:        tx.Amount,
		SourceFI:      tx.SourceFI,
		TargetFI:      tx.TargetFI,
		IsOffline:     tx.PendingID != nil,
		Settled:       tx.Settled,
		SyncedToFI:    tx.SyncedToFI,
		SyncedToCB:    tx.SyncedToCB,
		Rejected:      tx.Rejected,
		RejectReason:  tx.RejectReason,
		PendingID:     optionalUUID(tx.PendingID),
		Nullifier:     tx.Nullifier,
		Timestamp:     tx.Timestamp.Format(timeLayout),
	}
}

func toTransactionList(txns []domain.Transaction) []dto.TransactionResponse {
	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResponse(&txns[i]))
	}
	return items
}

func toPendingResponse(p *domain.PendingOfflineTransaction) dto.PendingResponse {
	return dto.PendingResponse{
		ID:            p.ID.String(),
		FromAccountID: p.FromAccountID.String(),
		ToAccountID:   p.ToAccountID.String(),
		TargetFI:      p.TargetFI,
		Amount:        p.Amount,
		Nullifier:     p.Nullifier,
		Counter:       p.MonotonicCounterAtCreation,
		Status:        string(p.Status),
		RejectReason:  p.RejectReason,
		CommittedTxID: optionalUUID(p.CommittedTxID),
		CreatedAt:     p.CreatedAt.Format(timeLayout),
		ResolvedAt:    optionalTime(p.ResolvedAt),
	}
}

func toFIResponse(fi *domain.FIRecord) dto.FIResponse {
	return dto.FIResponse{
		ID:               fi.ID,
		Name:             fi.Name,
		Endpoint:         fi.Endpoint,
		PublicKey:        fi.PublicKey,
		AllocatedFunds:   fi.AllocatedFunds,
		AvailableBalance: fi.AvailableBalance,
		Status:           string(fi.Status),
		CreatedAt:        fi.CreatedAt.Format(timeLayout),
	}
}
