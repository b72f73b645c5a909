package report

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Service — фасад отчётности: сверка остатков по набору деталей и
// сводка задолженности по набору машин. Чистое чтение, повторный вызов
// с неизменным журналом даёт тот же результат.
type Service struct {
	log      *slog.Logger
	parts    PartSource
	stock    StockSource
	vehicles VehicleSource
	orders   OrderSource
	payments PaymentSource
	fanOut   int
}

func NewService(log *slog.Logger, partsSrc PartSource, stockSrc StockSource,
	vehiclesSrc VehicleSource, ordersSrc OrderSource, paymentsSrc PaymentSource,
	fanOut int) *Service {

	if fanOut <= 0 {
		fanOut = 8
	}
	return &Service{
		log: log, parts: partsSrc, stock: stockSrc,
		vehicles: vehiclesSrc, orders: ordersSrc, payments: paymentsSrc,
		fanOut: fanOut,
	}
}

// StockPeriodReport — батч-результат сверки. Одна сбойная деталь не
// валит отчёт целиком: успешные строки в Results (в порядке запроса),
// сбойные — в Errors по part_id.
type StockPeriodReport struct {
	Period  Period              `json:"period"`
	Results []StockPeriodResult `json:"results"`
	Errors  map[int64]error     `json:"-"`
}

// ReconcileStockForPeriod сверяет остатки перечисленных деталей за период.
// Период проверяется до любого обращения к хранилищу. Окна выборки
// (внутри периода и после него) общие на весь набор — по одному запросу.
func (s *Service) ReconcileStockForPeriod(ctx context.Context, partIDs []int64, p Period) (*StockPeriodReport, error) {
	if !p.valid() {
		return nil, ErrInvalidRange
	}

	rep := &StockPeriodReport{Period: p, Errors: map[int64]error{}}
	if len(partIDs) == 0 {
		return rep, nil
	}

	known, err := s.parts.ListByIDs(ctx, partIDs)
	if err != nil {
		return nil, &DataSourceError{Op: "list parts", Err: err}
	}

	// Отсутствующие детали — поштучные ошибки, остальные считаем дальше.
	existing := make([]int64, 0, len(partIDs))
	for _, id := range partIDs {
		if _, ok := known[id]; ok {
			existing = append(existing, id)
		} else {
			rep.Errors[id] = &NotFoundError{Kind: "part", ID: id}
		}
	}
	if len(existing) == 0 {
		return rep, nil
	}

	currents, err := s.stock.CurrentStockForParts(ctx, existing)
	if err != nil {
		return nil, &DataSourceError{Op: "current stock", Err: err}
	}
	during, err := s.stock.EventsInRangeForParts(ctx, existing, p.From, p.To)
	if err != nil {
		return nil, &DataSourceError{Op: "events in range", Err: err}
	}
	after, err := s.stock.EventsAfterForParts(ctx, existing, p.To)
	if err != nil {
		return nil, &DataSourceError{Op: "events after period", Err: err}
	}

	// Сами вычисления независимы по деталям; порядок вывода — порядок запроса.
	for _, id := range existing {
		part := known[id]
		res := Reconcile(currents[id], during[id], after[id])
		res.PartID = id
		res.PartName = part.Name
		res.Unit = part.Unit
		res.MinStock = part.MinStock
		if res.IntegrityWarning {
			s.log.Warn("stock reconciliation produced negative historical stock",
				"part_id", id, "begin", res.BeginStock, "end", res.EndStock)
		}
		rep.Results = append(rep.Results, res)
	}
	return rep, nil
}

// ReconcileAllStock сверяет все активные детали.
func (s *Service) ReconcileAllStock(ctx context.Context, p Period) (*StockPeriodReport, error) {
	if !p.valid() {
		return nil, ErrInvalidRange
	}
	list, err := s.parts.List(ctx, true)
	if err != nil {
		return nil, &DataSourceError{Op: "list parts", Err: err}
	}
	ids := make([]int64, 0, len(list))
	for _, part := range list {
		ids = append(ids, part.ID)
	}
	return s.ReconcileStockForPeriod(ctx, ids, p)
}

// VehicleDebt считает задолженность одной машины.
// Машина без заказов и платежей — нулевые итоги, не ошибка.
func (s *Service) VehicleDebt(ctx context.Context, vehicleID int64) (*VehicleDebt, error) {
	v, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, &DataSourceError{Op: "get vehicle", Err: err}
	}
	if v == nil {
		return nil, &NotFoundError{Kind: "vehicle", ID: vehicleID}
	}

	ords, err := s.orders.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, &DataSourceError{Op: "list orders", Err: err}
	}
	pays, err := s.payments.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, &DataSourceError{Op: "list payments", Err: err}
	}

	return aggregateDebt(*v, ords, pays), nil
}

// DebtReport — батч-сводка задолженности; семантика ошибок как у
// StockPeriodReport.
type DebtReport struct {
	Debts  []VehicleDebt   `json:"debts"`
	Errors map[int64]error `json:"-"`
}

// DebtForVehicles считает задолженность набора машин параллельно.
// Выборки независимы и только читают, поэтому fan-out безопасен;
// результаты собираются по индексу входа, а не по порядку завершения.
func (s *Service) DebtForVehicles(ctx context.Context, vehicleIDs []int64) (*DebtReport, error) {
	results := make([]*VehicleDebt, len(vehicleIDs))
	errs := make([]error, len(vehicleIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanOut)
	for i, id := range vehicleIDs {
		g.Go(func() error {
			d, err := s.VehicleDebt(gctx, id)
			if err != nil {
				errs[i] = err
				return nil // поштучная ошибка не прерывает батч
			}
			results[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &DebtReport{Errors: map[int64]error{}}
	for i, id := range vehicleIDs {
		switch {
		case errs[i] != nil:
			rep.Errors[id] = errs[i]
		case results[i] != nil:
			rep.Debts = append(rep.Debts, *results[i])
		}
	}
	return rep, nil
}

// PeriodReport — сводный отчёт за период: остатки по всем активным
// деталям плюс задолженность всех машин.
type PeriodReport struct {
	Stock *StockPeriodReport `json:"stock"`
	Debts *DebtReport        `json:"debts"`
}

func (s *Service) BuildPeriodReport(ctx context.Context, p Period) (*PeriodReport, error) {
	stockRep, err := s.ReconcileAllStock(ctx, p)
	if err != nil {
		return nil, err
	}

	vs, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, &DataSourceError{Op: "list vehicles", Err: err}
	}
	ids := make([]int64, 0, len(vs))
	for _, v := range vs {
		ids = append(ids, v.ID)
	}
	debtRep, err := s.DebtForVehicles(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &PeriodReport{Stock: stockRep, Debts: debtRep}, nil
}
