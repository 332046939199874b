package invoice

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/narensv/vyapari/internal/invoice"
	"github.com/narensv/vyapari/internal/render"
	"github.com/narensv/vyapari/internal/words"
)

type Handler struct {
	seller   render.Seller
	validate *validator.Validate
}

func NewHandler(seller render.Seller) *Handler {
	return &Handler{
		seller:   seller,
		validate: validator.New(),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/check", h.check)
	r.Post("/words", h.words)
	r.Post("/render", h.render)
}

type lineItemRequest struct {
	Description string  `json:"description" validate:"required"`
	HSNCode     string  `json:"hsn_code"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	Rate        float64 `json:"rate" validate:"gte=0"`
}

type draftRequest struct {
	CustomerName  string            `json:"customer_name" validate:"required"`
	CustomerGSTIN string            `json:"customer_gstin"`
	Items         []lineItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes         string            `json:"notes"`
}

func (h *Handler) decodeDraft(w http.ResponseWriter, r *http.Request) (*invoice.Draft, bool) {
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	if err := h.validate.Struct(req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	draft := invoice.NewDraft()
	draft.CustomerName = req.CustomerName
	draft.CustomerGSTIN = req.CustomerGSTIN
	draft.Notes = req.Notes

	for _, item := range req.Items {
		draft.AddItem(invoice.LineItem{
			Description: item.Description,
			HSNCode:     item.HSNCode,
			Unit:        item.Unit,
			Quantity:    decimal.NewFromFloat(item.Quantity),
			UnitRate:    decimal.NewFromFloat(item.Rate),
		})
	}

	return draft, true
}

type checkResponse struct {
	Valid         bool   `json:"valid"`
	GSTINRequired bool   `json:"gstin_required"`
	TotalQuantity string `json:"total_quantity"`
	Subtotal      string `json:"subtotal"`
	TotalGST      string `json:"total_gst"`
	Total         string `json:"total"`
	Detail        string `json:"detail,omitempty"`
}

// check is the pre-submission compliance decision the browser shell calls
// on every draft edit.
func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}

	totals := draft.Totals()

	resp := checkResponse{
		Valid:         true,
		GSTINRequired: draft.GSTINRequired(),
		TotalQuantity: draft.TotalQuantity().String(),
		Subtotal:      totals.Subtotal.StringFixed(2),
		TotalGST:      totals.TotalGST.StringFixed(2),
		Total:         totals.Total.StringFixed(2),
	}

	status := http.StatusOK

	if err := draft.Validate(); err != nil {
		resp.Valid = false
		resp.Detail = err.Error()

		// The shell must treat this as a blocking failure and skip
		// the persistence call.
		if errors.Is(err, invoice.ErrGSTINRequired) {
			status = http.StatusUnprocessableEntity
		} else {
			status = http.StatusBadRequest
		}
	}

	writeJSON(w, status, resp)
}

type wordsRequest struct {
	Amount float64 `json:"amount"`
}

type wordsResponse struct {
	Amount string `json:"amount"`
	Words  string `json:"words"`
}

func (h *Handler) words(w http.ResponseWriter, r *http.Request) {
	var req wordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	// Two decimal places carry the paise; anything finer is a caller bug.
	amount := decimal.NewFromFloat(req.Amount).Round(2)

	inWords, err := words.Rupees(amount)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, wordsResponse{
		Amount: amount.StringFixed(2),
		Words:  inWords,
	})
}

type renderRequest struct {
	draftRequest

	InvoiceNumber string `json:"invoice_number" validate:"required"`
	InvoiceDate   string `json:"invoice_date"`
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	draft := invoice.NewDraft()
	draft.CustomerName = req.CustomerName
	draft.CustomerGSTIN = req.CustomerGSTIN
	draft.Notes = req.Notes

	for _, item := range req.Items {
		draft.AddItem(invoice.LineItem{
			Description: item.Description,
			HSNCode:     item.HSNCode,
			Unit:        item.Unit,
			Quantity:    decimal.NewFromFloat(item.Quantity),
			UnitRate:    decimal.NewFromFloat(item.Rate),
		})
	}

	if err := draft.Validate(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	date := req.InvoiceDate
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", req.InvoiceNumber+".pdf"))

	err := render.PDF(w, render.Document{
		Number: req.InvoiceNumber,
		Date:   date,
		Seller: h.seller,
		Draft:  *draft,
	})
	if err != nil {
		slog.Error("failed to render invoice pdf", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
