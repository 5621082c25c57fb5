// Package transfer holds the raw-material and finished-product transfer use cases.
package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/catalog"
	"github.com/prodtrack/backend/internal/domain/plant"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/prodtrack/backend/internal/domain/transfer"
	"github.com/prodtrack/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
)

// TransferService drives both transfer workflows
type TransferService struct {
	repo           transfer.Repository
	materialRepo   catalog.MaterialRepository
	labelerRepo    plant.LabelerRepository
	eventPublisher shared.EventPublisher
}

// NewTransferService creates a new TransferService
func NewTransferService(
	repo transfer.Repository,
	materialRepo catalog.MaterialRepository,
	labelerRepo plant.LabelerRepository,
	eventPublisher shared.EventPublisher,
) *TransferService {
	return &TransferService{
		repo:           repo,
		materialRepo:   materialRepo,
		labelerRepo:    labelerRepo,
		eventPublisher: eventPublisher,
	}
}

// Create opens a pending transfer of the given kind
func (s *TransferService) Create(ctx context.Context, kind transfer.Kind, req CreateTransferRequest) (*TransferResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "transfer", "create",
		telemetry.SpanAttrTransferKind, string(kind),
		telemetry.SpanAttrMaterialID, req.MaterialID.String(),
	)
	defer span.End()

	material, err := s.materialRepo.FindByID(ctx, req.MaterialID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_MATERIAL", "Material not found")
		}
		return nil, err
	}
	requester, err := s.actor(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	t, err := transfer.NewTransfer(kind, material, req.Quantity, requester, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrTransferID, t.ID.String())
	s.publishDomainEvents(ctx, t)

	response := ToTransferResponse(t)
	return &response, nil
}

// GetByID retrieves a transfer of the given kind with its history
func (s *TransferService) GetByID(ctx context.Context, kind transfer.Kind, id uuid.UUID) (*TransferResponse, error) {
	t, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	response := ToTransferResponse(t)
	return &response, nil
}

// List retrieves transfers of a kind with filtering and pagination
func (s *TransferService) List(ctx context.Context, kind transfer.Kind, filter ListFilter) ([]TransferResponse, int64, error) {
	domainFilter, err := filter.ToDomainFilter(kind)
	if err != nil {
		return nil, 0, err
	}
	transfers, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TransferResponse, len(transfers))
	for i := range transfers {
		responses[i] = ToTransferResponse(&transfers[i])
	}
	return responses, total, nil
}

// Update changes quantity and notes of a pending transfer
func (s *TransferService) Update(ctx context.Context, kind transfer.Kind, id uuid.UUID, req UpdateTransferRequest) (*TransferResponse, error) {
	t, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if err := t.CheckVersion(req.ExpectedVersion); err != nil {
		return nil, err
	}
	if err := t.UpdatePending(req.Quantity, req.Notes); err != nil {
		return nil, err
	}
	return s.save(ctx, t)
}

// Receive moves a pending transfer to RECIBIDO
func (s *TransferService) Receive(ctx context.Context, kind transfer.Kind, id uuid.UUID, req ReceiveRequest) (*TransferResponse, error) {
	return s.step(ctx, kind, id, req.EmployeeID, req.ExpectedVersion, transfer.StatusReceived,
		func(t *transfer.Transfer, actor transfer.Actor) error {
			return t.Receive(actor, req.ReceivedQuantity, req.Note)
		})
}

// Reject moves a transfer to RECHAZADO
func (s *TransferService) Reject(ctx context.Context, kind transfer.Kind, id uuid.UUID, req RejectRequest) (*TransferResponse, error) {
	return s.step(ctx, kind, id, req.EmployeeID, req.ExpectedVersion, transfer.StatusRejected,
		func(t *transfer.Transfer, actor transfer.Actor) error {
			return t.Reject(actor, req.Reason)
		})
}

// Forward moves a received finished transfer to EN_EMPAQUE
func (s *TransferService) Forward(ctx context.Context, kind transfer.Kind, id uuid.UUID, req StepRequest) (*TransferResponse, error) {
	return s.step(ctx, kind, id, req.EmployeeID, req.ExpectedVersion, transfer.StatusPackaging,
		func(t *transfer.Transfer, actor transfer.Actor) error {
			return t.Forward(actor, req.Note)
		})
}

// Finalize moves a finished transfer in packaging to FINALIZADO
func (s *TransferService) Finalize(ctx context.Context, kind transfer.Kind, id uuid.UUID, req StepRequest) (*TransferResponse, error) {
	return s.step(ctx, kind, id, req.EmployeeID, req.ExpectedVersion, transfer.StatusFinalized,
		func(t *transfer.Transfer, actor transfer.Actor) error {
			return t.Finalize(actor, req.Note)
		})
}

// Delete removes a pending or rejected transfer
func (s *TransferService) Delete(ctx context.Context, kind transfer.Kind, id uuid.UUID) error {
	t, err := s.load(ctx, kind, id)
	if err != nil {
		return err
	}
	if !t.CanDelete() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Transfer in %s status cannot be deleted", t.Status))
	}
	return s.repo.Delete(ctx, id)
}

// Summary counts transfers of a kind per status. Every reachable status gets a row.
func (s *TransferService) Summary(ctx context.Context, kind transfer.Kind) (*SummaryResponse, error) {
	rows, err := s.repo.Summary(ctx, kind)
	if err != nil {
		return nil, err
	}
	byStatus := make(map[transfer.Status]transfer.StatusSummary, len(rows))
	for _, row := range rows {
		byStatus[row.Status] = row
	}

	resp := &SummaryResponse{Kind: string(kind), TotalQuantity: decimal.Zero}
	for _, status := range transfer.StatusesOf(kind) {
		row, ok := byStatus[status]
		if !ok {
			row = transfer.StatusSummary{Status: status, Quantity: decimal.Zero}
		}
		resp.Rows = append(resp.Rows, SummaryRow{
			Status:   string(row.Status),
			Count:    row.Count,
			Quantity: row.Quantity,
		})
		resp.TotalCount += row.Count
		resp.TotalQuantity = resp.TotalQuantity.Add(row.Quantity)
	}
	return resp, nil
}

// step runs one transition. A repeat by the same employee returns the current state unchanged.
func (s *TransferService) step(
	ctx context.Context,
	kind transfer.Kind,
	id uuid.UUID,
	employeeID uuid.UUID,
	expectedVersion *int,
	target transfer.Status,
	apply func(*transfer.Transfer, transfer.Actor) error,
) (*TransferResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "transfer", "transition",
		telemetry.SpanAttrTransferID, id.String(),
		telemetry.SpanAttrTransferKind, string(kind),
		telemetry.SpanAttrToStatus, string(target),
	)
	defer span.End()

	t, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrFromStatus, string(t.Status))

	actor, err := s.actor(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if t.IsRepeatOf(target, actor.ID) {
		response := ToTransferResponse(t)
		return &response, nil
	}
	if err := t.CheckVersion(expectedVersion); err != nil {
		return nil, err
	}
	if err := apply(t, actor); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return s.saveTraced(ctx, t, span)
}

func (s *TransferService) save(ctx context.Context, t *transfer.Transfer) (*TransferResponse, error) {
	return s.saveTraced(ctx, t, nil)
}

func (s *TransferService) saveTraced(ctx context.Context, t *transfer.Transfer, span trace.Span) (*TransferResponse, error) {
	if err := s.repo.Update(ctx, t); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publishDomainEvents(ctx, t)
	response := ToTransferResponse(t)
	return &response, nil
}

// load finds a transfer and hides those of another kind
func (s *TransferService) load(ctx context.Context, kind transfer.Kind, id uuid.UUID) (*transfer.Transfer, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Kind != kind {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (s *TransferService) actor(ctx context.Context, employeeID uuid.UUID) (transfer.Actor, error) {
	labeler, err := s.labelerRepo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return transfer.Actor{}, shared.NewDomainError("INVALID_LABELER", "Employee not found")
		}
		return transfer.Actor{}, err
	}
	return transfer.ActorFrom(labeler)
}

func (s *TransferService) publishDomainEvents(ctx context.Context, t *transfer.Transfer) {
	events := t.GetDomainEvents()
	t.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
