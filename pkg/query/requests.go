package query

import (
	"errors"
	"strconv"
	"time"
)

// Request fields hold parameters exactly as received. Empty means omitted.

type TransactionRequest struct {
	TxID          string `param:"tx_id" validate:"required,txid"`
	IncludeEvents string `param:"include_events" validate:"omitempty,boolean"`
}

type PageRequest struct {
	Limit  string `param:"limit" validate:"omitempty,number"`
	Offset string `param:"offset" validate:"omitempty,number"`
}

type ListRequest struct {
	PageRequest
	Address     string `param:"address" validate:"omitempty,address"`
	Status      string `param:"status" validate:"omitempty,ident"`
	TxType      string `param:"tx_type" validate:"omitempty,ident"`
	BlockHeight string `param:"block_height" validate:"omitempty,number"`
	MinHeight   string `param:"min_height" validate:"omitempty,number"`
	MaxHeight   string `param:"max_height" validate:"omitempty,number"`
	// FromTime and ToTime accept RFC 3339 or unix seconds.
	FromTime string `param:"from_time"`
	ToTime   string `param:"to_time"`
}

type BlockRequest struct {
	BlockHeight string `param:"block_height" validate:"required,number"`
}

type AddressRequest struct {
	PageRequest
	Address string `param:"address" validate:"required,address"`
}

type TokenRequest struct {
	ContractPrincipal string `param:"contract_principal" validate:"required,address"`
}

// DateRange bounds swaps by calendar day, both ends inclusive, in UTC.
type DateRange struct {
	StartDate string `param:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `param:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

type SwapsRequest struct {
	PageRequest
	DateRange
}

type SwapsByContractRequest struct {
	PageRequest
	DateRange
	ContractPrincipal string `param:"contract_principal" validate:"required,address"`
	UserAddress       string `param:"user_address" validate:"omitempty,address"`
}

type SwapsByUserRequest struct {
	PageRequest
	DateRange
	UserAddress string `param:"user_address" validate:"required,address"`
}

type SwapStatsRequest struct {
	DateRange
	Period string `param:"period" validate:"omitempty,oneof=day week month"`
	Token  string `param:"token" validate:"omitempty,address"`
}

type PriceHistoryRequest struct {
	PageRequest
	ContractPrincipal string `param:"contract_principal" validate:"required,address"`
}

func parseUint(name, raw string) (uint64, *Error) {
	n, err := strconv.ParseUint(raw, 10, 63)
	if err != nil {
		return 0, invalidArg("%s must be a non-negative integer", name)
	}
	return n, nil
}

// parseLimit clamps any positive limit to max, including ones too large to
// represent.
func parseLimit(raw string, max int) (int, *Error) {
	n, err := strconv.ParseUint(raw, 10, 63)
	switch {
	case errors.Is(err, strconv.ErrRange):
		return max, nil
	case err != nil:
		return 0, invalidArg("limit must be a non-negative integer")
	case n == 0:
		return 0, invalidArg("limit must be at least 1")
	}
	return int(min(n, uint64(max))), nil
}

func parseOptionalUint(name, raw string) (*uint64, *Error) {
	if raw == "" {
		return nil, nil
	}
	n, qerr := parseUint(name, raw)
	if qerr != nil {
		return nil, qerr
	}
	return &n, nil
}

func parseTime(name, raw string) (*time.Time, *Error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil && secs >= 0 {
		t := time.Unix(secs, 0).UTC()
		return &t, nil
	}
	return nil, invalidArg("%s must be an RFC 3339 timestamp or unix seconds", name)
}

const dateLayout = "2006-01-02"

// parseDateRange converts a day range to inclusive unix seconds. The end day
// is covered up to its last second.
func parseDateRange(r DateRange) (from, to *int64, qerr *Error) {
	if r.StartDate != "" {
		d, err := time.Parse(dateLayout, r.StartDate)
		if err != nil {
			return nil, nil, invalidArg("start_date must be a date in YYYY-MM-DD form")
		}
		secs := d.Unix()
		from = &secs
	}
	if r.EndDate != "" {
		d, err := time.Parse(dateLayout, r.EndDate)
		if err != nil {
			return nil, nil, invalidArg("end_date must be a date in YYYY-MM-DD form")
		}
		secs := d.AddDate(0, 0, 1).Unix() - 1
		to = &secs
	}
	if from != nil && to != nil && *from > *to {
		return nil, nil, invalidArg("start_date must not be after end_date")
	}
	return from, to, nil
}
