package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sicea/console/internal/models"
)

// MonthYear is one bound of an inclusive billing-period range.
type MonthYear struct {
	Month int
	Year  int
}

func (m MonthYear) IsZero() bool { return m.Month == 0 && m.Year == 0 }

func (m MonthYear) Period() int { return m.Year*12 + m.Month }

func (m MonthYear) String() string { return fmt.Sprintf("%04d-%02d", m.Year, m.Month) }

// BillFilter narrows the bills listing. ClientNumber is resolved by the view
// from the selected meter id; the backend filters by client number, not id.
type BillFilter struct {
	MeterType    string
	ClientNumber string
	Start        MonthYear
	End          MonthYear
}

// ErrRangeInverted is rendered verbatim when the start bound is after the end.
var ErrRangeInverted = &Error{Message: "La fecha inicial debe ser menor o igual a la fecha final."}

// Normalize validates the period range before any request is made. An empty
// end bound defaults to the current month, so "everything since X" works
// without filling both fields.
func (f *BillFilter) Normalize(now time.Time) error {
	if !f.Start.IsZero() && f.End.IsZero() {
		f.End = MonthYear{Month: int(now.Month()), Year: now.Year()}
	}
	if !f.Start.IsZero() && !f.End.IsZero() && f.Start.Period() > f.End.Period() {
		return ErrRangeInverted
	}
	return nil
}

func (f *BillFilter) query() url.Values {
	params := url.Values{}
	if f.MeterType != "" {
		params.Set("meter_type", f.MeterType)
	}
	if f.ClientNumber != "" {
		params.Set("client_number", f.ClientNumber)
	}
	if !f.Start.IsZero() && !f.End.IsZero() {
		params.Set("start_date", f.Start.String())
		params.Set("end_date", f.End.String())
	}
	return params
}

// BillList is the listing envelope. Older backend deployments returned a bare
// array; both shapes decode.
type BillList struct {
	Results []models.Bill `json:"results"`
	Count   int           `json:"count"`
}

func (l *BillList) UnmarshalJSON(data []byte) error {
	var bare []models.Bill
	if err := json.Unmarshal(data, &bare); err == nil {
		l.Results = bare
		l.Count = len(bare)
		return nil
	}
	type envelope BillList
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	l.Results = env.Results
	l.Count = env.Count
	if l.Count == 0 {
		l.Count = len(l.Results)
	}
	return nil
}

// ListBills fetches bills matching an already-normalized filter.
func (c *Client) ListBills(ctx context.Context, token string, filter BillFilter) (*BillList, error) {
	var out BillList
	if err := c.getJSON(ctx, token, "/reader/bills/", filter.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BillUpdate is the writable subset of a bill.
type BillUpdate struct {
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	TotalToPay string `json:"total_to_pay"`
}

func (c *Client) UpdateBill(ctx context.Context, token string, id int, in BillUpdate) (*models.Bill, error) {
	var out models.Bill
	if err := c.sendJSON(ctx, http.MethodPut, token, fmt.Sprintf("/reader/bills/%d/", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBill(ctx context.Context, token string, id int) error {
	return c.sendJSON(ctx, http.MethodDelete, token, fmt.Sprintf("/reader/bills/%d/", id), nil, nil)
}

// BillCharges fetches a bill's line items, loaded lazily when a row expands.
func (c *Client) BillCharges(ctx context.Context, token string, id int) ([]models.Charge, error) {
	var out []models.Charge
	if err := c.getJSON(ctx, token, fmt.Sprintf("/reader/bills/%d/charges/", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCharges fetches the flat charge listing backing the charges page.
func (c *Client) ListCharges(ctx context.Context, token string) ([]models.Charge, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, token, "/reader/charges/", nil, &raw); err != nil {
		return nil, err
	}
	var out []models.Charge
	if err := json.Unmarshal(raw, &out); err == nil {
		return out, nil
	}
	var env struct {
		Results []models.Charge `json:"results"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &Error{Message: "Respuesta inesperada del servidor"}
	}
	return env.Results, nil
}

// DownloadBill streams the bill's stored PDF. The caller must close the
// reader; the suggested attachment name is factura_<id>.pdf.
func (c *Client) DownloadBill(ctx context.Context, token string, id int) (io.ReadCloser, string, error) {
	body, err := c.getBinary(ctx, token, fmt.Sprintf("/reader/bills/%d/download/", id), nil)
	if err != nil {
		return nil, "", err
	}
	return body, fmt.Sprintf("factura_%d.pdf", id), nil
}
