package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/repo"
	"github.com/painelquick/backend/pkg/logging"
)

// recordHistory snapshots the order as it is now for stage. A second call for
// the same order and stage leaves the first snapshot untouched.
func recordHistory(ctx context.Context, r *repo.GormRepo, orderID uint, stage models.HistoryStage) (bool, error) {
	v, err := load(ctx, r, orderID)
	if err != nil {
		return false, err
	}
	h, err := snapshot(v, stage, time.Now().UTC())
	if err != nil {
		return false, err
	}
	return r.InsertHistory(ctx, h)
}

func snapshot(v *models.OrderView, stage models.HistoryStage, at time.Time) (*models.DeliveryHistory, error) {
	items, err := json.Marshal(v.Items)
	if err != nil {
		return nil, err
	}
	h := &models.DeliveryHistory{
		OrderID:           v.ID,
		Stage:             stage,
		EstablishmentID:   v.EstablishmentID,
		EstablishmentName: v.EstablishmentName,
		DeliveryID:        v.DeliveryID,
		DeliveryName:      v.DeliveryPersonName,
		CustomerName:      v.CustomerName,
		CustomerPhone:     v.CustomerPhone,
		Items:             string(items),
		TotalAmount:       v.TotalAmount,
		DeliveryFee:       v.DeliveryFee,
		PaymentMethod:     v.PaymentMethod,
		FinishedAt:        at,
	}
	if v.DeliveryAddress != nil {
		h.DeliveryAddress = *v.DeliveryAddress
	}
	if v.Notes != nil {
		h.OrderNotes = *v.Notes
	}
	return h, nil
}

// RepairHistory writes the snapshots missing for the configured mode and
// returns how many were added.
func (s *OrderService) RepairHistory(ctx context.Context) (int, error) {
	l := logging.FromContext(ctx).With("svc", "orders.repair_history")

	var stages []models.HistoryStage
	if s.History.AtPlacement {
		stages = append(stages, models.StagePlaced)
	}
	if s.History.AtCompletion {
		stages = append(stages, models.StageDelivered)
	}

	written := 0
	for _, stage := range stages {
		ids, err := s.Repo.OrdersMissingHistory(ctx, stage)
		if err != nil {
			return written, err
		}
		for _, id := range ids {
			ok, err := recordHistory(ctx, s.Repo, id, stage)
			if err != nil {
				l.Warn("repair_error", "order_id", id, "stage", stage, "error", err)
				continue
			}
			if ok {
				written++
			}
		}
	}
	l.Info("repair_done", "written", written)
	return written, nil
}
