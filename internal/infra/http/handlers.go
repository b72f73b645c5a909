package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Spok95/garage-crm/internal/domain/orders"
	"github.com/Spok95/garage-crm/internal/domain/parts"
	"github.com/Spok95/garage-crm/internal/domain/payments"
	"github.com/Spok95/garage-crm/internal/domain/report"
	"github.com/Spok95/garage-crm/internal/domain/stock"
	"github.com/Spok95/garage-crm/internal/domain/vehicles"
	"github.com/Spok95/garage-crm/internal/infra/notify"
	"github.com/shopspring/decimal"
)

type Handler struct {
	log      *slog.Logger
	reports  *report.Service
	parts    *parts.Repo
	stock    *stock.Repo
	vehicles *vehicles.Repo
	orders   *orders.Repo
	payments *payments.Repo
	notifier *notify.Notifier
}

func NewHandler(log *slog.Logger, reports *report.Service,
	partsRepo *parts.Repo, stockRepo *stock.Repo, vehiclesRepo *vehicles.Repo,
	ordersRepo *orders.Repo, paymentsRepo *payments.Repo, notifier *notify.Notifier) *Handler {

	return &Handler{
		log: log, reports: reports,
		parts: partsRepo, stock: stockRepo, vehicles: vehiclesRepo,
		orders: ordersRepo, payments: paymentsRepo, notifier: notifier,
	}
}

func (h *Handler) register(mux *http.ServeMux) {
	// отчёты
	mux.HandleFunc("GET /reports/stock", h.stockReport)
	mux.HandleFunc("GET /reports/stock/export", h.stockReportExport)
	mux.HandleFunc("GET /reports/debt", h.debtReport)
	mux.HandleFunc("GET /reports/debt/export", h.debtReportExport)
	mux.HandleFunc("GET /reports/period", h.periodReport)
	mux.HandleFunc("GET /vehicles/{id}/debt", h.vehicleDebt)

	// картотека
	mux.HandleFunc("POST /parts", h.createPart)
	mux.HandleFunc("GET /parts", h.listParts)
	mux.HandleFunc("POST /parts/{id}/receive", h.receiveStock)
	mux.HandleFunc("POST /parts/{id}/consume", h.consumeStock)
	mux.HandleFunc("POST /parts/{id}/active", h.setPartActive)
	mux.HandleFunc("POST /vehicles", h.createVehicle)
	mux.HandleFunc("GET /vehicles", h.listVehicles)
	mux.HandleFunc("POST /vehicles/{id}/orders", h.createOrder)
	mux.HandleFunc("POST /vehicles/{id}/payments", h.createPayment)
	mux.HandleFunc("POST /orders/{id}/status", h.setOrderStatus)
}

/* ---------- отчёты ---------- */

type stockReportResponse struct {
	Period  report.Period              `json:"period"`
	Results []report.StockPeriodResult `json:"results"`
	Errors  map[string]string          `json:"errors,omitempty"`
}

func (h *Handler) buildStockReport(r *http.Request) (*report.StockPeriodReport, error) {
	p, err := parsePeriod(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		return nil, err
	}

	idsParam := r.URL.Query().Get("parts")
	if idsParam == "" {
		return h.reports.ReconcileAllStock(r.Context(), p)
	}
	ids, err := parseIDs(idsParam)
	if err != nil {
		return nil, err
	}
	return h.reports.ReconcileStockForPeriod(r.Context(), ids, p)
}

func (h *Handler) stockReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.buildStockReport(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	// оповещение о низких остатках — в фоне, ответ не ждёт
	go h.notifier.LowStock(rep.Results)

	writeJSON(w, http.StatusOK, stockReportResponse{
		Period:  rep.Period,
		Results: rep.Results,
		Errors:  errStrings(rep.Errors),
	})
}

func (h *Handler) stockReportExport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.buildStockReport(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	fileName := fmt.Sprintf("stocks_%s_%s.xlsx",
		rep.Period.From.Format("20060102"), rep.Period.To.Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	if err := report.WriteStockXLSX(w, rep); err != nil {
		h.log.Error("stock report export failed", "err", err)
	}
}

type debtReportResponse struct {
	Debts  []report.VehicleDebt `json:"debts"`
	Errors map[string]string    `json:"errors,omitempty"`
}

func (h *Handler) buildDebtReport(r *http.Request) (*report.DebtReport, error) {
	idsParam := r.URL.Query().Get("vehicles")
	var ids []int64
	if idsParam == "" {
		vs, err := h.vehicles.List(r.Context())
		if err != nil {
			return nil, &report.DataSourceError{Op: "list vehicles", Err: err}
		}
		for _, v := range vs {
			ids = append(ids, v.ID)
		}
	} else {
		var err error
		ids, err = parseIDs(idsParam)
		if err != nil {
			return nil, err
		}
	}
	return h.reports.DebtForVehicles(r.Context(), ids)
}

func (h *Handler) debtReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.buildDebtReport(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, debtReportResponse{
		Debts:  rep.Debts,
		Errors: errStrings(rep.Errors),
	})
}

func (h *Handler) debtReportExport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.buildDebtReport(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	fileName := fmt.Sprintf("debts_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	if err := report.WriteDebtXLSX(w, rep); err != nil {
		h.log.Error("debt report export failed", "err", err)
	}
}

func (h *Handler) periodReport(w http.ResponseWriter, r *http.Request) {
	p, err := parsePeriod(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	rep, err := h.reports.BuildPeriodReport(r.Context(), p)
	if err != nil {
		h.writeError(w, err)
		return
	}
	go h.notifier.LowStock(rep.Stock.Results)
	writeJSON(w, http.StatusOK, struct {
		Stock stockReportResponse `json:"stock"`
		Debts debtReportResponse  `json:"debts"`
	}{
		Stock: stockReportResponse{
			Period:  rep.Stock.Period,
			Results: rep.Stock.Results,
			Errors:  errStrings(rep.Stock.Errors),
		},
		Debts: debtReportResponse{
			Debts:  rep.Debts.Debts,
			Errors: errStrings(rep.Debts.Errors),
		},
	})
}

func (h *Handler) vehicleDebt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	d, err := h.reports.VehicleDebt(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

/* ---------- картотека ---------- */

func (h *Handler) createPart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		SKU      string `json:"sku"`
		Unit     string `json:"unit"`
		MinStock int64  `json:"min_stock"`
	}
	if err := readJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Name == "" {
		h.writeError(w, badRequest("name is required"))
		return
	}
	if req.Unit == "" {
		req.Unit = string(parts.UnitPcs)
	}
	p, err := h.parts.Create(r.Context(), req.Name, req.SKU, parts.Unit(req.Unit), req.MinStock)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) listParts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	var (
		list []parts.Part
		err  error
	)
	if q != "" {
		list, err = h.parts.SearchByName(r.Context(), q, true)
	} else {
		list, err = h.parts.List(r.Context(), true)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type movementRequest struct {
	Qty     int64      `json:"qty"`
	OrderID *int64     `json:"order_id,omitempty"`
	Note    string     `json:"note"`
	At      *time.Time `json:"at,omitempty"` // по умолчанию — сейчас
}

func (h *Handler) receiveStock(w http.ResponseWriter, r *http.Request) {
	h.applyMovement(w, r, false)
}

func (h *Handler) consumeStock(w http.ResponseWriter, r *http.Request) {
	h.applyMovement(w, r, true)
}

func (h *Handler) applyMovement(w http.ResponseWriter, r *http.Request, consume bool) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req movementRequest
	if err := readJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Qty <= 0 {
		h.writeError(w, badRequest("qty must be > 0"))
		return
	}

	p, err := h.parts.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if p == nil {
		h.writeError(w, &report.NotFoundError{Kind: "part", ID: id})
		return
	}

	at := time.Now()
	if req.At != nil {
		at = *req.At
	}

	if consume {
		err = h.stock.Consume(r.Context(), id, req.Qty, req.OrderID, req.Note, at)
	} else {
		err = h.stock.Receive(r.Context(), id, req.Qty, req.Note, at)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// setPartActive снимает деталь с учёта (active=false) или возвращает её;
// история движений при этом не трогается.
func (h *Handler) setPartActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req struct {
		Active bool `json:"active"`
	}
	if err := readJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	p, err := h.parts.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if p == nil {
		h.writeError(w, &report.NotFoundError{Kind: "part", ID: id})
		return
	}

	if err := h.parts.SetActive(r.Context(), id, req.Active); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createVehicle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Plate     string `json:"plate"`
		Make      string `json:"make"`
		Model     string `json:"model"`
		Year      int    `json:"year"`
		OwnerName string `json:"owner_name"`
		Phone     string `json:"phone"`
	}
	if err := readJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Plate == "" {
		h.writeError(w, badRequest("plate is required"))
		return
	}
	v, err := h.vehicles.Create(r.Context(), req.Plate, req.Make, req.Model, req.Year, req.OwnerName, req.Phone)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) listVehicles(w http.ResponseWriter, r *http.Request) {
	list, err := h.vehicles.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req struct {
		Description string          `json:"description"`
		Total       decimal.Decimal `json:"total"`
		ReceivedAt  *time.Time      `json:"received_at,omitempty"`
	}
	if err := readJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	v, err := h.vehicles.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if v == nil {
		h.writeError(w, &report.NotFoundError{Kind: "vehicle", ID: id})
		return
	}

	receivedAt := time.Now()
	if req.ReceivedAt != nil {
		receivedAt = *req.ReceivedAt
	}
	o, err := h.orders.Create(r.Context(), id, req.Description, req.Total, receivedAt)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req struct {
		OrderID *int64          `json:"order_id,omitempty"`
		Amount  decimal.Decimal `json:"amount"`
		Method  string          `json:"method"`
		PaidAt  *time.Time      `json:"paid_at,omitempty"`
	}
	if err := readJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	v, err := h.vehicles.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if v == nil {
		h.writeError(w, &report.NotFoundError{Kind: "vehicle", ID: id})
		return
	}

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}
	method := payments.Method(req.Method)
	if method == "" {
		method = payments.MethodCash
	}
	p, err := h.payments.Create(r.Context(), id, req.OrderID, req.Amount, method, paidAt)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) setOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := readJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	o, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if o == nil {
		h.writeError(w, badRequest(fmt.Sprintf("order %d not found", id)))
		return
	}

	if err := h.orders.SetStatus(r.Context(), id, orders.Status(req.Status)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/* ---------- helpers ---------- */

type httpError struct {
	code int
	msg  string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(msg string) error { return &httpError{code: http.StatusBadRequest, msg: msg} }

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var (
		he *httpError
		nf *report.NotFoundError
		ds *report.DataSourceError
	)
	switch {
	case errors.Is(err, report.ErrInvalidRange):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &he):
		writeJSON(w, he.code, map[string]string{"error": he.msg})
	case errors.As(err, &nf):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": nf.Error()})
	case errors.As(err, &ds):
		h.log.Error("data source failure", "op", ds.Op, "err", ds.Err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "storage unavailable, retry later"})
	default:
		h.log.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid JSON body: " + err.Error())
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid id in path")
	}
	return id, nil
}

func parseIDs(s string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, badRequest("invalid id list: " + s)
		}
		out = append(out, id)
	}
	return out, nil
}

// parsePeriod принимает даты RFC3339 или YYYY-MM-DD; для даты без
// времени конец периода растягивается до конца дня (to включительно).
func parsePeriod(fromStr, toStr string) (report.Period, error) {
	from, _, err := parseTime(fromStr)
	if err != nil {
		return report.Period{}, err
	}
	to, dateOnly, err := parseTime(toStr)
	if err != nil {
		return report.Period{}, err
	}
	if dateOnly {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	return report.NewPeriod(from, to)
}

func parseTime(s string) (t time.Time, dateOnly bool, err error) {
	if s == "" {
		return time.Time{}, false, report.ErrInvalidRange
	}
	if t, err = time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	if t, err = time.Parse("2006-01-02", s); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, badRequest("invalid date: " + s)
}

func errStrings(errs map[int64]error) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	out := make(map[string]string, len(errs))
	for id, err := range errs {
		out[strconv.FormatInt(id, 10)] = err.Error()
	}
	return out
}
